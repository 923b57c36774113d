package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"layered/internal/core/app/helpers"
	"layered/internal/engine/layers"
	"layered/internal/output"
	"layered/internal/shared/util"
)

// RunOptions selects what a run writes.
type RunOptions struct {
	// Write stores expanded sources in place or under the output directory.
	Write bool
	// Artifacts writes the configured SARIF and graph files.
	Artifacts bool
}

type FileError struct {
	Path string
	Err  error
}

// Report aggregates the results of one run.
type Report struct {
	Files       []*FileResult
	Errors      []FileError
	Diagnostics []layers.Diagnostic
	Expanded    int
	Skipped     int
	Duration    time.Duration
}

func (r *Report) add(res *FileResult) {
	r.Files = append(r.Files, res)
	if res.Skipped {
		r.Skipped++
		return
	}
	r.Expanded++
	r.Diagnostics = append(r.Diagnostics, res.Diagnostics...)
}

// Failed reports whether any file produced a diagnostic or an error.
func (r *Report) Failed() bool {
	return len(r.Diagnostics) > 0 || len(r.Errors) > 0
}

// Run processes every Rust source below paths. Per-file failures are
// collected in the report; only write failures abort the run.
func (a *App) Run(ctx context.Context, paths []string, opts RunOptions) (*Report, error) {
	start := time.Now()
	files, err := a.ScanDirectories(paths)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := a.ProcessFile(ctx, path)
		if err != nil {
			slog.Warn("failed to process file", "path", path, "error", err)
			report.Errors = append(report.Errors, FileError{Path: path, Err: err})
			continue
		}
		if opts.Write && !res.Skipped {
			if err := a.WriteResult(res); err != nil {
				return nil, err
			}
		}
		a.remember(res)
		report.add(res)
	}

	if opts.Artifacts {
		if err := a.WriteArtifacts(report); err != nil {
			return nil, err
		}
	}
	report.Duration = time.Since(start)
	return report, nil
}

// OutputPathFor returns where the expansion of path is written.
func (a *App) OutputPathFor(path string) string {
	if a.Config.Expand.InPlace {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return util.MirrorPath(a.Paths.ProjectRoot, a.Paths.OutputDir, abs)
}

func (a *App) WriteResult(res *FileResult) error {
	target := a.OutputPathFor(res.Path)
	perm := os.FileMode(0o644)
	if info, err := os.Stat(res.Path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := util.WriteFileWithDirs(target, res.Output, perm); err != nil {
		return fmt.Errorf("write expansion %q: %w", target, err)
	}
	res.OutputPath = target
	slog.Debug("wrote expansion", "path", res.Path, "output", target)
	return nil
}

type namedGraph struct {
	file      string
	namespace string
	graph     *layers.Graph
}

func (a *App) graphsOf(report *Report) []namedGraph {
	var out []namedGraph
	for _, res := range report.Files {
		rel, err := filepath.Rel(a.Paths.ProjectRoot, res.Path)
		if err != nil {
			rel = filepath.Base(res.Path)
		}
		for _, exp := range res.Expansions {
			if exp != nil {
				out = append(out, namedGraph{file: rel, namespace: exp.Source, graph: exp.Graph})
			}
		}
	}
	return out
}

// WriteArtifacts writes the configured SARIF, DOT, Mermaid and TSV files.
// Graph artifacts are split per namespace when a run expands several.
func (a *App) WriteArtifacts(report *Report) error {
	root := a.Paths.ProjectRoot

	if target := helpers.ResolveOutputPath(a.Config.Output.SARIF, root); target != "" {
		data, err := output.GenerateSARIF(root, report.Diagnostics)
		if err != nil {
			return fmt.Errorf("generate SARIF output: %w", err)
		}
		if err := helpers.WriteArtifact(target, string(data)); err != nil {
			return fmt.Errorf("write SARIF output %q: %w", target, err)
		}
	}

	graphs := a.graphsOf(report)
	type generator struct {
		name   string
		target string
		render func(*layers.Graph) (string, error)
	}
	generators := []generator{
		{"DOT", a.Config.Output.DOT, func(g *layers.Graph) (string, error) { return output.NewDOTGenerator(g).Generate() }},
		{"Mermaid", a.Config.Output.Mermaid, func(g *layers.Graph) (string, error) { return output.NewMermaidGenerator(g).Generate() }},
		{"TSV", a.Config.Output.TSV, func(g *layers.Graph) (string, error) { return output.NewTSVGenerator(g).Generate() }},
	}
	for _, gen := range generators {
		base := helpers.ResolveOutputPath(gen.target, root)
		if base == "" {
			continue
		}
		for _, ng := range graphs {
			content, err := gen.render(ng.graph)
			if err != nil {
				return fmt.Errorf("generate %s output: %w", gen.name, err)
			}
			target := helpers.ArtifactPath(base, len(graphs), ng.file, ng.namespace)
			if err := helpers.WriteArtifact(target, content); err != nil {
				return fmt.Errorf("write %s output %q: %w", gen.name, target, err)
			}
		}
	}
	return nil
}
