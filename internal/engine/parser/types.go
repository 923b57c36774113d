package parser

import "layered/internal/engine/layers"

// File is a parsed Rust source file with every layered namespace located.
type File struct {
	Path    string
	Content []byte
	Layered []Layered
}

// Layered is one `#[layers]` module found in a file. Start and End delimit
// the bytes replaced on output, marker attribute included.
type Layered struct {
	Start int
	End   int
	Tree  *layers.Tree
	// Forward is set when the marked module has no inline body; Text is
	// then the declaration without the marker and is emitted unchanged.
	Forward bool
	Text    string
}

// Options selects the attribute names recognised by the parser.
type Options struct {
	Marker    string
	DependsOn string
}

const DefaultMarker = "layers"
