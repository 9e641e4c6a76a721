package diff

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// maxSnapshotSize caps how much of a file is retained for diffing.
const maxSnapshotSize = 1 << 20 // 1 MiB

// snapshot is the last-seen state of one file. binary marks content that
// was observed but cannot be diffed as text.
type snapshot struct {
	data   []byte
	binary bool
}

// Snapshots retains the last-seen contents of triggering files so a unified
// diff can be shown on the next run. State lives only for the process
// lifetime; nothing is persisted.
//
// A Snapshots is owned by the watch loop and is not safe for concurrent use.
type Snapshots struct {
	files map[string]snapshot
}

// NewSnapshots creates an empty snapshot store.
func NewSnapshots() *Snapshots {
	return &Snapshots{files: make(map[string]snapshot)}
}

// Preview computes the diff between the stored snapshot of path and its
// current on-disk contents, then updates the snapshot. Files never seen
// before, deleted files, binary files, and oversized files degrade to a
// one-line notice instead of a diff.
func (s *Snapshots) Preview(path string) (*Result, string) {
	name := filepath.Base(path)

	curr, err := readCapped(path)
	if err != nil {
		delete(s.files, path)

		if os.IsNotExist(err) {
			return nil, fmt.Sprintf("%s: removed", name)
		}

		return nil, fmt.Sprintf("%s: unreadable (%v)", name, err)
	}

	if bytes.IndexByte(curr, 0) >= 0 {
		s.files[path] = snapshot{binary: true}

		return nil, fmt.Sprintf("%s: binary file changed", name)
	}

	prev, seen := s.files[path]
	s.files[path] = snapshot{data: curr}

	if !seen {
		return nil, fmt.Sprintf("%s: first change, no previous snapshot", name)
	}

	if prev.binary {
		return nil, fmt.Sprintf("%s: previous contents were binary, no text snapshot", name)
	}

	opts := DefaultOptions()
	opts.OldLabel = name + " (previous)"
	opts.NewLabel = name + " (current)"

	result, diffErr := Compute(string(prev.data), string(curr), opts)
	if diffErr != nil {
		return nil, fmt.Sprintf("%s: diff failed (%v)", name, diffErr)
	}

	return result, ""
}

// readCapped reads a file up to maxSnapshotSize bytes.
func readCapped(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.Size() > maxSnapshotSize {
		return nil, fmt.Errorf("file too large (%d bytes)", info.Size())
	}

	return os.ReadFile(path)
}
