package command

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the terminal status of one command invocation.
type State int

const (
	// Succeeded means the command exited with status 0.
	Succeeded State = iota

	// Failed means the command exited with a non-zero status.
	Failed

	// SpawnFailed means the command could not be started at all; no output
	// was produced.
	SpawnFailed

	// WaitFailed means the exit status could not be retrieved.
	WaitFailed
)

// Result reports the outcome of a single invocation. Output lines are
// streamed to the sink as they arrive and are not retained here.
type Result struct {
	// RunID uniquely identifies this invocation in logs.
	RunID string

	// State is the terminal status.
	State State

	// ExitCode is the child's exit code. Valid for Succeeded and Failed;
	// -1 when the process was signal-killed and no code is available.
	ExitCode int

	// Err carries the spawn or wait error for SpawnFailed / WaitFailed.
	Err error

	// DrainErr reports a read failure on an output stream (e.g. a line
	// exceeding the scanner limit). The remainder of that stream is
	// discarded rather than streamed, but never left to block the child.
	DrainErr error

	// Duration is the wall time from spawn to status retrieval.
	Duration time.Duration

	// StdoutLines and StderrLines count the drained lines per stream.
	StdoutLines int
	StderrLines int
}

// Sink receives each drained output line as it arrives. The runner
// serializes calls, so implementations need no locking of their own.
type Sink func(Line)

// Runner supervises command invocations: it spawns the child with both
// output streams piped, drains them concurrently line-by-line, joins both
// drains, then waits for termination.
type Runner struct {
	// DetectMarkers enables build-tool mode line classification.
	DetectMarkers bool

	// Sink receives streamed output lines. Nil discards output.
	Sink Sink

	// Logger is used for structured logging. Nil falls back to the default.
	Logger *slog.Logger
}

// Run executes one invocation of spec and blocks until the child terminates.
// It never returns an error: every failure mode is folded into the Result so
// the watch loop can report it and resume.
func (r *Runner) Run(ctx context.Context, spec Spec) Result {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	result := Result{RunID: uuid.NewString()}
	start := time.Now()

	cmd := spec.build(ctx)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		result.State = SpawnFailed
		result.Err = err

		return result
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		_ = stdout.Close()

		result.State = SpawnFailed
		result.Err = err

		return result
	}

	logger.Debug("spawning command",
		slog.String("runID", result.RunID),
		slog.String("command", spec.String()),
		slog.String("dir", spec.Dir),
	)

	if err := cmd.Start(); err != nil {
		result.State = SpawnFailed
		result.Err = err

		return result
	}

	// One drain goroutine per pipe. Draining both concurrently with the
	// child prevents a full OS pipe buffer on one stream from blocking the
	// process while the other stream still has output. The mutex keeps
	// sink calls whole so cross-stream lines never interleave mid-line.
	var (
		wg     sync.WaitGroup
		sinkMu sync.Mutex
	)

	drain := func(pipe io.Reader, fromStderr bool, count *int, drainErr *error) {
		defer wg.Done()

		scanner := bufio.NewScanner(pipe)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)

		for scanner.Scan() {
			text := scanner.Text()
			*count++

			if r.Sink == nil {
				continue
			}

			line := Line{
				Text:     text,
				Stderr:   fromStderr,
				Severity: Classify(text, fromStderr, r.DetectMarkers),
			}

			sinkMu.Lock()
			r.Sink(line)
			sinkMu.Unlock()
		}

		// A scan failure (e.g. an oversized line) stops short of
		// end-of-stream. The pipe must still be consumed, or a full OS
		// buffer blocks the child and Wait never returns.
		if err := scanner.Err(); err != nil {
			*drainErr = err

			_, _ = io.Copy(io.Discard, pipe)
		}
	}

	var stdoutErr, stderrErr error

	wg.Add(2)

	go drain(stdout, false, &result.StdoutLines, &stdoutErr)
	go drain(stderr, true, &result.StderrLines, &stderrErr)

	// Both pipes must reach end-of-stream before Wait, which closes them.
	wg.Wait()

	result.DrainErr = errors.Join(stdoutErr, stderrErr)

	waitErr := cmd.Wait()
	result.Duration = time.Since(start)

	switch {
	case waitErr == nil:
		result.State = Succeeded
		result.ExitCode = 0

	default:
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			result.State = Failed
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.State = WaitFailed
			result.ExitCode = -1
			result.Err = waitErr
		}
	}

	logger.Debug("command finished",
		slog.String("runID", result.RunID),
		slog.Int("exitCode", result.ExitCode),
		slog.Duration("duration", result.Duration),
	)

	return result
}
