package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	coreapp "layered/internal/core/app"
	"layered/internal/engine/layers"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171"))
)

// printDiagnostics writes one `file:line:col: message` line per diagnostic,
// the same text carried by the emitted compile_error! items.
func printDiagnostics(w io.Writer, diags []layers.Diagnostic) {
	for _, d := range diags {
		style := warningStyle
		if d.Kind == layers.CyclicDependency {
			style = cycleStyle
		}
		fmt.Fprintf(w, "%s %s\n", style.Render("["+d.Kind.String()+"]"), d.String())
	}
}

func printSummary(w io.Writer, app *coreapp.App, report *coreapp.Report) {
	modules, edges := 0, 0
	var cycles []string
	for _, res := range report.Files {
		for _, g := range res.Graphs() {
			modules += g.Len()
			edges += g.EdgeCount()
			if g.HasCycle() {
				cycles = append(cycles, strings.Join(g.Cycle(), " -> "))
			}
		}
	}

	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf(
		"Expanded %d of %d files: %d modules, %d dependencies in %v",
		report.Expanded, len(report.Files), modules, edges, report.Duration.Round(time.Millisecond),
	)))

	if len(cycles) > 0 {
		fmt.Fprintln(w, cycleStyle.Render(fmt.Sprintf("FOUND %d CIRCULAR DEPENDENCIES:", len(cycles))))
		for _, c := range cycles {
			fmt.Fprintf(w, "   %s\n", c)
		}
	}

	for _, fe := range report.Errors {
		rel, err := filepath.Rel(app.Paths.ProjectRoot, fe.Path)
		if err != nil {
			rel = fe.Path
		}
		fmt.Fprintf(w, "%s %s: %v\n", errorStyle.Render("failed"), filepath.ToSlash(rel), fe.Err)
	}

	if len(report.Diagnostics) == 0 && len(report.Errors) == 0 {
		fmt.Fprintln(w, successStyle.Render("No layering violations found."))
		return
	}
	fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("%d diagnostics, %d failed files", len(report.Diagnostics), len(report.Errors))))
}
