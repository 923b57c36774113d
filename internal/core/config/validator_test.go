package config

import (
	"strings"
	"testing"
)

func TestValidate_DefaultsAreValid(t *testing.T) {
	if errs := Validate(Default()); len(errs) != 0 {
		t.Fatalf("expected defaults to validate, got %v", errs)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Expand.Marker = "a-b"
	cfg.Watch.Rate = 0
	cfg.Observability.SampleRate = -0.1

	errs := Validate(cfg)
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Error(), "expand.marker") {
		t.Errorf("unexpected first error: %v", errs[0])
	}
}

func TestValidateOutputConflicts(t *testing.T) {
	cfg := Default()
	cfg.Output.SARIF = "out/report.json"
	cfg.Output.TSV = "out/../out/report.json"

	err := validateOutput(cfg)
	if err == nil {
		t.Fatal("expected conflict")
	}
	want := `output conflict: output.sarif and output.tsv share the same path "out/report.json"`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
