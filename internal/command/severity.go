package command

import "strings"

// Severity marks how a streamed output line should be rendered.
type Severity int

const (
	// Normal is regular command output.
	Normal Severity = iota

	// Error is failure-highlighted output.
	Error
)

// Line is a single drained output line tagged with its source stream and
// display severity. The text is never altered by classification.
type Line struct {
	Text     string
	Stderr   bool
	Severity Severity
}

// Markers scanned for in build-tool mode, matched anywhere in the line.
var errorMarkers = []string{"error:", "warning:"}

// Classify computes the display severity of an output line. Stderr lines are
// always error severity. With detectMarkers enabled (build-tool mode), any
// line containing a known error/warning marker is error severity regardless
// of its stream.
func Classify(text string, fromStderr, detectMarkers bool) Severity {
	if fromStderr {
		return Error
	}

	if detectMarkers {
		for _, marker := range errorMarkers {
			if strings.Contains(text, marker) {
				return Error
			}
		}
	}

	return Normal
}
