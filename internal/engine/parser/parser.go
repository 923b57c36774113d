package parser

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"layered/internal/core/errors"
	"layered/internal/engine/layers"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

type Parser struct {
	pool      *ParserPool
	marker    string
	dependsOn string
}

func NewParser(opts Options) *Parser {
	if opts.Marker == "" {
		opts.Marker = DefaultMarker
	}
	if opts.DependsOn == "" {
		opts.DependsOn = layers.DefaultDependsOn
	}
	return &Parser{
		pool:      NewParserPool(sitter.NewLanguage(tree_sitter_rust.Language())),
		marker:    opts.Marker,
		dependsOn: opts.DependsOn,
	}
}

// IsSupportedPath reports whether the path is a Rust source file.
func (p *Parser) IsSupportedPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".rs")
}

// ParseFile locates every layered module in a Rust source file. Syntax
// errors tree-sitter can recover from are logged and parsing continues.
func (p *Parser) ParseFile(path string, content []byte) (*File, error) {
	if !p.IsSupportedPath(path) {
		return nil, errors.New(errors.CodeNotSupported, fmt.Sprintf("not a Rust source file: %s", path))
	}

	sp, err := p.pool.Get()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "rust grammar unavailable")
	}
	defer p.pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		err := errors.New(errors.CodeParse, "parse failed")
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		slog.Warn("source contains syntax errors", "path", path)
	}

	x := &extractor{
		ctx:       &extractionContext{Source: content, Path: path},
		marker:    p.marker,
		dependsOn: p.dependsOn,
		file:      &File{Path: path, Content: content},
	}
	x.scan(root)
	return x.file, nil
}
