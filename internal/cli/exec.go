package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/refire-dev/refire/internal/command"
	"github.com/refire-dev/refire/internal/config"
	"github.com/refire-dev/refire/internal/logging"
)

type execOptions struct {
	directory    string
	commandLine  string
	detectErrors bool
}

func newExecCommand() *cobra.Command {
	opts := &execOptions{}

	cmd := &cobra.Command{
		Use:   "exec [flags] [-- program args...]",
		Short: "Run the command once, without watching",
		Long: `Exec runs the configured command a single time with the same shell
resolution, output streaming, and failure highlighting as watch mode.
The child's exit code becomes the process exit code.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.directory, "directory", "d", ".", "working directory for the command")
	f.StringVarP(&opts.commandLine, "command", "c", "", "shell command to execute")
	f.BoolVar(&opts.detectErrors, "detect-errors", false, "highlight lines containing error:/warning: markers on any stream")

	return cmd
}

func runExec(cmd *cobra.Command, args []string, opts *execOptions) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	color := !cfg.NoColor

	dir, err := filepath.Abs(opts.directory)
	if err != nil {
		return fmt.Errorf("resolving directory: %w", err)
	}

	spec, err := resolveSpec(opts.commandLine, args, dir)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	runner := &command.Runner{
		DetectMarkers: opts.detectErrors,
		Sink:          newLineSink(cmd.OutOrStdout(), cmd.ErrOrStderr(), color),
		Logger:        logging.FromContext(ctx),
	}

	result := runner.Run(ctx, spec)
	printResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), result, color)

	switch result.State {
	case command.Succeeded:
		return nil
	case command.Failed:
		code := result.ExitCode
		if code < 0 {
			code = 1
		}

		return &ExitError{Code: code}
	default:
		return &ExitError{Code: 1, Err: result.Err}
	}
}
