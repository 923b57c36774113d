package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "config not found")
		if err.Error() != "[NOT_FOUND] config not found" {
			t.Errorf("expected [NOT_FOUND] config not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("unexpected EOF")
		err := Wrap(original, CodeParse, "parse failed")
		expected := "[PARSE_ERROR] parse failed: unexpected EOF"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
		if !errors.Is(err, original) {
			t.Error("expected wrapped error to unwrap to original")
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidationError, "invalid input")
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to return true for CodeValidationError")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("IsCodeThroughFmtWrap", func(t *testing.T) {
		err := fmt.Errorf("loading: %w", New(CodeConflict, "duplicate"))
		if !IsCode(err, CodeConflict) {
			t.Error("expected IsCode to see through fmt.Errorf wrapping")
		}
	})

	t.Run("ContextIsSorted", func(t *testing.T) {
		err := AddContext(New(CodeValidationError, "bad value"), CtxPath, "layered.toml")
		err = AddContext(err, CtxField, "watch.rate")
		expected := "[VALIDATION_ERROR] bad value (field=watch.rate, path=layered.toml)"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("AddContextOnPlainError", func(t *testing.T) {
		err := AddContext(errors.New("boom"), CtxOperation, "render")
		if !IsCode(err, CodeInternal) {
			t.Errorf("expected plain errors to become internal, got %v", err)
		}
	})
}
