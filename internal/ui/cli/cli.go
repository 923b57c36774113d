package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"layered/internal/core/config"
	"layered/internal/shared/version"
)

const (
	exitOK          = 0
	exitDiagnostics = 1
	exitUsage       = 2
)

type globalOptions struct {
	configPath string
	verbose    bool
}

// exitError carries a process exit code through cobra's error path.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// Run executes the command line and returns the process exit code:
// 0 when clean, 1 when diagnostics or file errors were found, 2 for usage,
// configuration and I/O errors.
func Run(args []string) int {
	return run(context.Background(), args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintln(stderr, errorStyle.Render("error:"), exit.err)
		}
		return exit.code
	}
	fmt.Fprintln(stderr, errorStyle.Render("error:"), err)
	return exitUsage
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "layered",
		Short:         "Validate and expand layered Rust module trees",
		Long:          "layered rewrites every #[layers] module of a Rust crate into a hidden namespace\nplus per-module wrappers that only see their declared dependencies.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(cmd.ErrOrStderr(), opts.verbose)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultFile, "Path to config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newExpandCommand(opts),
		newCheckCommand(opts),
		newGraphCommand(opts),
		newWatchCommand(opts),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "layered %s\n", version.Version)
		},
	}
}
