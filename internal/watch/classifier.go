package watch

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// IsRelevant reports whether an event op represents a content-relevant
// change: file creation, data modification, rename, or removal. Chmod and
// other metadata-only notifications never trigger a run.
func IsRelevant(op fsnotify.Op) bool {
	if op == 0 {
		return false
	}

	return op.Has(fsnotify.Create) || op.Has(fsnotify.Write) ||
		op.Has(fsnotify.Rename) || op.Has(fsnotify.Remove)
}

// isEditorJunk reports whether path looks like an editor artifact (hidden
// files, vim swap files, backup tildes, emacs lock files) that should never
// count as a change.
func isEditorJunk(path string) bool {
	name := filepath.Base(path)

	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp") || strings.HasPrefix(name, "#")
}
