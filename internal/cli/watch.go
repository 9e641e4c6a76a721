package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/refire-dev/refire/internal/command"
	"github.com/refire-dev/refire/internal/config"
	"github.com/refire-dev/refire/internal/diff"
	"github.com/refire-dev/refire/internal/logging"
	"github.com/refire-dev/refire/internal/watch"
)

type watchOptions struct {
	directory   string
	commandLine string
	extensions  []string
	ignores     []string

	window      time.Duration
	quietPeriod time.Duration
	tick        time.Duration

	detectErrors bool
	showDiff     bool
	runAtStart   bool
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch [flags] [-- program args...]",
		Short: "Watch a directory and run a command on changes",
		Long: `Watch monitors a directory tree for file changes and runs the
configured command each time a burst of changes goes quiet.

Events are aggregated in a sliding window and the command only fires
after no further qualifying change has arrived for the quiet period.
This keeps half-written files from triggering a run mid-burst.

Give the command either as a shell line with --command (run through
your login shell with startup files sourced) or after "--" as a
program plus arguments (run directly, no shell). A failing command is
reported and watching resumes; the loop only ends on interrupt or
when the change source disconnects.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.directory, "directory", "d", ".", "directory to watch recursively")
	f.StringVarP(&opts.commandLine, "command", "c", "", "shell command to execute on changes")
	f.StringSliceVarP(&opts.extensions, "extensions", "e", nil, "file extensions to watch (e.g. go,mod); empty watches all files")
	f.StringSliceVar(&opts.ignores, "ignore", nil, "glob patterns of paths to ignore (e.g. '**/*.tmp')")
	f.DurationVar(&opts.window, "window", time.Second, "sliding window for event aggregation")
	f.DurationVar(&opts.quietPeriod, "quiet-period", 500*time.Millisecond, "required silence before a run fires")
	f.DurationVar(&opts.tick, "tick", 100*time.Millisecond, "poll interval for the fire condition")
	f.BoolVar(&opts.detectErrors, "detect-errors", false, "highlight lines containing error:/warning: markers on any stream")
	f.BoolVar(&opts.showDiff, "show-diff", false, "print a unified diff of changed files before each run")
	f.BoolVar(&opts.runAtStart, "run-at-start", false, "run the command once before watching")

	return cmd
}

// resolveSpec builds the command spec from either the --command shell line
// or the argv remainder after "--". Exactly one form must be given.
func resolveSpec(commandLine string, argv []string, dir string) (command.Spec, error) {
	switch {
	case commandLine != "" && len(argv) > 0:
		return command.Spec{}, fmt.Errorf("give either --command or a command after --, not both")
	case len(argv) > 0:
		return command.NewArgvSpec(argv, dir)
	default:
		return command.NewShellSpec(commandLine, dir)
	}
}

func runWatch(ctx context.Context, cmd *cobra.Command, args []string, opts *watchOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)
	color := !cfg.NoColor

	dir, err := filepath.Abs(opts.directory)
	if err != nil {
		return fmt.Errorf("resolving directory: %w", err)
	}

	spec, err := resolveSpec(opts.commandLine, args, dir)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	filter, err := watch.NewFilter(opts.extensions, opts.ignores)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	for name, d := range map[string]time.Duration{
		"window":       opts.window,
		"quiet-period": opts.quietPeriod,
		"tick":         opts.tick,
	} {
		if d <= 0 {
			return &ExitError{Code: 2, Err: fmt.Errorf("--%s must be positive, got %s", name, d)}
		}
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	// Startup summary.
	fmt.Fprintf(stderr, "Watching directory: %s\n", dir)

	if exts := filter.Extensions(); len(exts) > 0 {
		fmt.Fprintf(stderr, "Filtering for extensions: %s\n", strings.Join(exts, ", "))
	} else {
		fmt.Fprintf(stderr, "Filtering for extensions: (all files)\n")
	}

	fmt.Fprintf(stderr, "Using shell: %s\n", spec.ShellName())
	fmt.Fprintf(stderr, "Will execute command: %s\n", spec)

	runner := &command.Runner{
		DetectMarkers: opts.detectErrors,
		Sink:          newLineSink(stdout, stderr, color),
		Logger:        logger,
	}

	var snapshots *diff.Snapshots
	if opts.showDiff {
		snapshots = diff.NewSnapshots()
	}

	runFn := func(runCtx context.Context, changed []string) error {
		if snapshots != nil {
			previewChanges(stderr, snapshots, changed, color)
		}

		result := runner.Run(runCtx, spec)
		printResult(stdout, stderr, result, color)

		return nil
	}

	watchOpts := watch.Options{
		Dir:         dir,
		Filter:      filter,
		Window:      opts.window,
		QuietPeriod: opts.quietPeriod,
		Tick:        opts.tick,
		RunAtStart:  opts.runAtStart,
		Logger:      logger,
		Out:         stderr,
	}

	return watch.Run(ctx, watchOpts, runFn)
}

// previewChanges prints a unified diff (or a one-line notice) for each
// changed path against its snapshot from the previous run.
func previewChanges(w io.Writer, snapshots *diff.Snapshots, changed []string, color bool) {
	for _, path := range changed {
		if !filepath.IsAbs(path) {
			// Synthetic trigger (e.g. run-at-start), nothing to diff.
			continue
		}

		result, notice := snapshots.Preview(path)
		if notice != "" {
			fmt.Fprintf(w, "  %s\n", notice)
			continue
		}

		if result.HasDifferences {
			diff.Write(w, result, color)
		}
	}
}
