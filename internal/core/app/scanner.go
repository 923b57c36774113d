package app

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"layered/internal/core/app/helpers"
	"layered/internal/core/errors"
	"layered/internal/engine/layers"
	"layered/internal/engine/parser"
	"layered/internal/output"
	"layered/internal/shared/observability"
	"layered/internal/shared/util"
)

// FileResult is the outcome of expanding one source file.
type FileResult struct {
	Path string
	// Skipped is set when the file holds no layered module.
	Skipped     bool
	File        *parser.File
	Expansions  []*layers.Expansion
	Diagnostics []layers.Diagnostic
	Output      []byte
	// OutputPath is set once the expansion has been written.
	OutputPath string
}

// Graphs returns the graph of every expanded namespace in source order.
func (r *FileResult) Graphs() []*layers.Graph {
	out := make([]*layers.Graph, 0, len(r.Expansions))
	for _, exp := range r.Expansions {
		if exp != nil {
			out = append(out, exp.Graph)
		}
	}
	return out
}

// ScanDirectories lists the Rust sources below paths, skipping excluded
// directories and files and the expansion output directory. Plain file
// arguments are kept as given.
func (a *App) ScanDirectories(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range helpers.UniqueScanRoots(paths) {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "input path"), errors.CtxPath, root)
		}
		if !info.IsDir() {
			if a.Parser.IsSupportedPath(root) {
				add(root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)
			if d.IsDir() {
				if path != root && helpers.MatchAny(a.excludeDirs, base) {
					return filepath.SkipDir
				}
				if !a.Config.Expand.InPlace && util.HasPathPrefix(filepath.ToSlash(path), filepath.ToSlash(a.Paths.OutputDir)) {
					return filepath.SkipDir
				}
				return nil
			}

			if !a.Parser.IsSupportedPath(path) || helpers.MatchAny(a.excludeFiles, base) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// ProcessFile parses a file, expands each layered module it contains and
// renders the rewritten source. Nothing is written.
func (a *App) ProcessFile(ctx context.Context, path string) (*FileResult, error) {
	ctx, span := observability.StartFileSpan(ctx, path)
	defer span.End()

	content, err := os.ReadFile(path)
	if err != nil {
		observability.FilesProcessedTotal.WithLabelValues(observability.StatusFailed).Inc()
		err = errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "read source"), errors.CtxPath, path)
		observability.RecordError(span, err)
		return nil, err
	}

	start := time.Now()
	file, err := a.Parser.ParseFile(path, content)
	observability.ParsingDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.FilesProcessedTotal.WithLabelValues(observability.StatusFailed).Inc()
		observability.RecordError(span, err)
		return nil, err
	}

	res := &FileResult{Path: path, File: file}
	if len(file.Layered) == 0 {
		res.Skipped = true
		res.Output = content
		observability.FilesProcessedTotal.WithLabelValues(observability.StatusSkipped).Inc()
		slog.Debug("no layered module", "path", path)
		return res, nil
	}

	res.Expansions = make([]*layers.Expansion, len(file.Layered))
	for i, l := range file.Layered {
		if l.Forward {
			continue
		}
		res.Expansions[i] = a.expand(ctx, l.Tree)
		res.Diagnostics = append(res.Diagnostics, res.Expansions[i].Diagnostics...)
	}
	res.Output = output.RenderRust(file, res.Expansions)

	observability.FilesProcessedTotal.WithLabelValues(observability.StatusExpanded).Inc()
	for _, d := range res.Diagnostics {
		observability.DiagnosticsTotal.WithLabelValues(d.Kind.String()).Inc()
	}
	slog.Debug("expanded file", "path", path, "namespaces", len(file.Layered), "diagnostics", len(res.Diagnostics))
	return res, nil
}

func (a *App) expand(ctx context.Context, tree *layers.Tree) *layers.Expansion {
	_, span := observability.StartExpandSpan(ctx, tree.Name, len(tree.Items))
	defer span.End()

	start := time.Now()
	exp := layers.Expand(tree, a.expandOptions())
	observability.ExpansionDuration.Observe(time.Since(start).Seconds())

	observability.GraphModules.Set(float64(exp.Graph.Len()))
	observability.GraphEdges.Set(float64(exp.Graph.EdgeCount()))
	observability.RecordExpandResult(span, exp.Graph.Len(), exp.Graph.EdgeCount(), len(exp.Diagnostics), exp.HasCycle())
	return exp
}
