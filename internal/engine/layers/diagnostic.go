package layers

import "fmt"

type Kind int

const (
	MissingDependency Kind = iota
	CyclicDependency
	DeclarationOrderViolation
	AttributeOrderViolation
	UnsupportedConstruct
	InvalidAnnotation
	DuplicateModule
)

var kindNames = [...]string{
	MissingDependency:         "missing-dependency",
	CyclicDependency:          "cyclic-dependency",
	DeclarationOrderViolation: "declaration-order",
	AttributeOrderViolation:   "attribute-order",
	UnsupportedConstruct:      "unsupported-construct",
	InvalidAnnotation:         "invalid-annotation",
	DuplicateModule:           "duplicate-module",
}

// Kinds lists every diagnostic kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		MissingDependency,
		CyclicDependency,
		DeclarationOrderViolation,
		AttributeOrderViolation,
		UnsupportedConstruct,
		InvalidAnnotation,
		DuplicateModule,
	}
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Diagnostic is a problem attached to the most specific source location known.
type Diagnostic struct {
	Kind    Kind
	Message string
	Span    Span
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Span, d.Message)
}

func newDiagnostic(kind Kind, span Span, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)}
}
