package cli

import (
	"fmt"
	"io"

	"github.com/refire-dev/refire/internal/command"
)

// ANSI escapes for status and failure highlighting.
const (
	ansiRed   = "\033[31m"
	ansiGreen = "\033[32m"
	ansiReset = "\033[0m"
)

// newLineSink returns a command.Sink that prints each streamed line to
// stdout or stderr according to its source stream, highlighting
// error-severity lines in red when color is enabled. Line content is
// never altered.
func newLineSink(stdout, stderr io.Writer, color bool) command.Sink {
	return func(line command.Line) {
		w := stdout
		if line.Stderr {
			w = stderr
		}

		if color && line.Severity == command.Error {
			fmt.Fprintf(w, "%s%s%s\n", ansiRed, line.Text, ansiReset)
			return
		}

		fmt.Fprintln(w, line.Text)
	}
}

// printResult writes the terminal status line for one invocation.
func printResult(stdout, stderr io.Writer, result command.Result, color bool) {
	red := func(format string, args ...any) {
		if color {
			fmt.Fprintf(stderr, "\n"+ansiRed+format+ansiReset+"\n", args...)
		} else {
			fmt.Fprintf(stderr, "\n"+format+"\n", args...)
		}
	}

	if result.DrainErr != nil {
		red("Output truncated: %v", result.DrainErr)
	}

	switch result.State {
	case command.Succeeded:
		if color {
			fmt.Fprintf(stdout, "\n%sCommand completed successfully%s\n", ansiGreen, ansiReset)
		} else {
			fmt.Fprintf(stdout, "\nCommand completed successfully\n")
		}

	case command.Failed:
		if result.ExitCode >= 0 {
			red("Command failed with exit code %d", result.ExitCode)
		} else {
			red("Command failed (no exit code available)")
		}

	case command.SpawnFailed:
		red("Failed to start command: %v", result.Err)

	case command.WaitFailed:
		red("Error waiting for command: %v", result.Err)
	}
}
