// Package watch implements refire's change-detection engine. It monitors a
// directory tree via fsnotify, classifies and filters raw events, coalesces
// bursts with a sliding-window debouncer, and triggers a run callback once
// the burst goes quiet.
package watch
