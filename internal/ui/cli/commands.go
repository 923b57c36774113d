package cli

import (
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	coreapp "layered/internal/core/app"
	"layered/internal/core/config"
	"layered/internal/engine/layers"
	"layered/internal/output"
)

func newExpandCommand(opts *globalOptions) *cobra.Command {
	var (
		toStdout  bool
		sarifPath string
		inPlace   bool
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "expand [paths...]",
		Short: "Expand layered modules and write the rewritten sources",
		Long: `Expand every #[layers] module found below the given paths (default: the
configured paths) and write the rewritten sources under expand.output_dir,
or over the originals with --in-place.

Diagnostics are emitted into the expanded source as compile_error! items and
make the command exit with status 1.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, args, func(cfg *config.Config) {
				if sarifPath != "" {
					cfg.Output.SARIF = sarifPath
				}
				if cmd.Flags().Changed("in-place") {
					cfg.Expand.InPlace = inPlace
				}
				if outputDir != "" {
					cfg.Expand.OutputDir = outputDir
				}
			})
			if err != nil {
				return err
			}
			defer s.Close()

			report, err := s.app.Run(cmd.Context(), s.app.Paths.Inputs, coreapp.RunOptions{
				Write:     !toStdout,
				Artifacts: true,
			})
			if err != nil {
				return err
			}

			summaryOut := cmd.OutOrStdout()
			if toStdout {
				writeExpansions(cmd.OutOrStdout(), report)
				summaryOut = cmd.ErrOrStderr()
			}
			printDiagnostics(cmd.ErrOrStderr(), report.Diagnostics)
			printSummary(summaryOut, s.app, report)
			return resultCode(report)
		},
	}

	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print expanded sources instead of writing them")
	cmd.Flags().StringVar(&sarifPath, "sarif", "", "Write diagnostics as SARIF to this path")
	cmd.Flags().BoolVar(&inPlace, "in-place", false, "Overwrite the input files")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory receiving expanded sources")
	cmd.MarkFlagsMutuallyExclusive("stdout", "in-place")
	return cmd
}

// writeExpansions prints the rewritten source of every expanded file. A
// path comment separates files when there is more than one.
func writeExpansions(w io.Writer, report *coreapp.Report) {
	var expanded []*coreapp.FileResult
	for _, res := range report.Files {
		if !res.Skipped {
			expanded = append(expanded, res)
		}
	}
	for _, res := range expanded {
		if len(expanded) > 1 {
			fmt.Fprintf(w, "// %s\n", filepath.ToSlash(res.Path))
		}
		_, _ = w.Write(res.Output)
	}
}

func newCheckCommand(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Validate layered modules without writing sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, "text", "tsv", "sarif"); err != nil {
				return err
			}
			s, err := openSession(cmd, opts, args, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			report, err := s.app.Run(cmd.Context(), s.app.Paths.Inputs, coreapp.RunOptions{Artifacts: true})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "tsv":
				content, err := output.GenerateDiagnosticsTSV(report.Diagnostics)
				if err != nil {
					return err
				}
				fmt.Fprint(out, content)
			case "sarif":
				data, err := output.GenerateSARIF(s.app.Paths.ProjectRoot, report.Diagnostics)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			default:
				printDiagnostics(out, report.Diagnostics)
				printSummary(out, s.app, report)
			}
			return resultCode(report)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Report format: text, tsv or sarif")
	return cmd
}

func newGraphCommand(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "graph [paths...]",
		Short: "Print the module dependency graph of each layered namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, "dot", "mermaid", "tsv"); err != nil {
				return err
			}
			s, err := openSession(cmd, opts, args, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			report, err := s.app.Run(cmd.Context(), s.app.Paths.Inputs, coreapp.RunOptions{})
			if err != nil {
				return err
			}
			return writeGraphs(cmd.OutOrStdout(), s.app, report, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "Graph format: dot, mermaid or tsv")
	return cmd
}

func writeGraphs(w io.Writer, app *coreapp.App, report *coreapp.Report, format string) error {
	type named struct {
		label string
		graph *layers.Graph
	}
	var graphs []named
	for _, res := range report.Files {
		rel, err := filepath.Rel(app.Paths.ProjectRoot, res.Path)
		if err != nil {
			rel = res.Path
		}
		for _, exp := range res.Expansions {
			if exp != nil {
				graphs = append(graphs, named{label: filepath.ToSlash(rel) + " " + exp.Source, graph: exp.Graph})
			}
		}
	}

	comment := map[string]string{"dot": "//", "mermaid": "%%", "tsv": "#"}[format]
	for i, ng := range graphs {
		var (
			content string
			err     error
		)
		switch format {
		case "mermaid":
			content, err = output.NewMermaidGenerator(ng.graph).Generate()
		case "tsv":
			content, err = output.NewTSVGenerator(ng.graph).Generate()
		default:
			content, err = output.NewDOTGenerator(ng.graph).Generate()
		}
		if err != nil {
			return err
		}
		if len(graphs) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s %s\n", comment, ng.label)
		}
		fmt.Fprint(w, content)
	}
	return nil
}

func newWatchCommand(opts *globalOptions) *cobra.Command {
	var noWrite bool

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-expand layered modules whenever a source file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			s, err := openSession(cmd, opts, args, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			if addr := s.app.Config.Observability.MetricsAddr; addr != "" {
				server := NewObservabilityServer(addr, coreapp.NewHealthService(s.app))
				if err := server.Start(ctx); err != nil {
					return err
				}
				defer stopServer(server)
			}

			out := cmd.OutOrStdout()
			s.app.SetUpdateHandler(func(update coreapp.Update) {
				if len(update.Trigger) > 0 {
					fmt.Fprintln(out, statusStyle.Render("changed: "+strings.Join(relativeAll(s.app.Paths.ProjectRoot, update.Trigger), ", ")))
				}
				printDiagnostics(out, update.Report.Diagnostics)
				printSummary(out, s.app, update.Report)
			})

			return s.app.Watch(ctx, s.app.Paths.Inputs, coreapp.RunOptions{
				Write:     !noWrite,
				Artifacts: true,
			})
		},
	}

	cmd.Flags().BoolVar(&noWrite, "no-write", false, "Only report diagnostics, do not write expanded sources")
	return cmd
}

func validateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q (expected %s)", format, strings.Join(allowed, ", "))
}

func relativeAll(root string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if rel, err := filepath.Rel(root, p); err == nil {
			p = rel
		}
		out = append(out, filepath.ToSlash(p))
	}
	return out
}
