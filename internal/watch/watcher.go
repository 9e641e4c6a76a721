package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrSourceClosed is returned by Run when the underlying fsnotify event
// stream disconnects permanently. The process should exit non-zero.
var ErrSourceClosed = errors.New("watch event source closed")

// RunFunc is invoked each time the debouncer fires. It receives the distinct
// paths recorded since the previous run. A returned error is reported and
// the loop resumes watching; it never terminates the watcher.
type RunFunc func(ctx context.Context, changed []string) error

// Options configures the watch loop.
type Options struct {
	// Dir is the root directory to watch recursively.
	Dir string

	// Filter decides which changed paths qualify. Required.
	Filter *Filter

	// Window is the sliding window for event aggregation.
	Window time.Duration

	// QuietPeriod is the minimum silence before a fire.
	QuietPeriod time.Duration

	// Tick is the poll interval for evaluating the fire condition.
	Tick time.Duration

	// RunAtStart triggers one run before watching begins.
	RunAtStart bool

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// validate rejects non-positive durations, which would otherwise panic in
// time.NewTicker or make the debouncer fire immediately.
func (o Options) validate() error {
	if o.Window <= 0 {
		return fmt.Errorf("window must be positive, got %s", o.Window)
	}

	if o.QuietPeriod <= 0 {
		return fmt.Errorf("quiet period must be positive, got %s", o.QuietPeriod)
	}

	if o.Tick <= 0 {
		return fmt.Errorf("tick must be positive, got %s", o.Tick)
	}

	return nil
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Window:      time.Second,
		QuietPeriod: 500 * time.Millisecond,
		Tick:        100 * time.Millisecond,
		Logger:      slog.Default(),
		Out:         os.Stderr,
	}
}

// Run starts the watch loop and blocks until the context is cancelled, a
// SIGINT/SIGTERM signal is received (nil return), or the event source
// disconnects (ErrSourceClosed). All per-run failures are reported through
// the RunFunc and never stop the loop.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	if opts.Filter == nil {
		return errors.New("watch: Filter is required")
	}

	if err := opts.validate(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, opts.Dir); err != nil {
		return fmt.Errorf("watching directory: %w", err)
	}

	// Trap SIGINT / SIGTERM for graceful shutdown.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.RunAtStart {
		fire(sigCtx, opts, runFn, []string{"(startup)"}, 0)
	}

	fmt.Fprintf(opts.Out, "Waiting for file changes...\n")

	debouncer := NewDebouncer(opts.Window, opts.QuietPeriod)

	ticker := time.NewTicker(opts.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(opts.Out, "\nshutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return ErrSourceClosed
			}

			if !IsRelevant(event.Op) {
				continue
			}

			// If a new directory was created, watch it too and skip it as
			// a trigger: only file changes count.
			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = addRecursive(watcher, event.Name)
					continue
				}
			}

			if isEditorJunk(event.Name) || !opts.Filter.Matches(event.Name) {
				continue
			}

			opts.Logger.Debug("change recorded",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()),
			)

			debouncer.Record(time.Now(), event.Name)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return ErrSourceClosed
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))

		case <-ticker.C:
			if !debouncer.ShouldFire(time.Now()) {
				continue
			}

			fire(sigCtx, opts, runFn, debouncer.Paths(), debouncer.Pending())
			debouncer.Reset()

			fmt.Fprintf(opts.Out, "\nWaiting for file changes...\n")
		}
	}
}

// fire announces a trigger and invokes the run function once.
func fire(ctx context.Context, opts Options, runFn RunFunc, changed []string, events int) {
	now := time.Now().Format("15:04:05")

	if events > 0 {
		fmt.Fprintf(opts.Out, "\n[%s] change detected (%d event(s), %d file(s))\n",
			now, events, len(changed))
	} else {
		fmt.Fprintf(opts.Out, "\n[%s] running\n", now)
	}

	if err := runFn(ctx, changed); err != nil {
		fmt.Fprintf(opts.Out, "[%s] run error: %v\n", now, err)
	}
}

// addRecursive walks root and adds all directories to the watcher.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			// Skip hidden directories (e.g., .git).
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}

			return watcher.Add(path)
		}

		return nil
	})
}
