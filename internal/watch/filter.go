package watch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Filter decides whether a changed path qualifies for triggering a run.
// It combines an extension allow-set (empty = wildcard) with a set of
// compiled glob ignore patterns. A Filter is immutable after construction
// and safe for concurrent use.
type Filter struct {
	extensions map[string]struct{}
	ignores    []glob.Glob
}

// NewFilter compiles a Filter from an extension list (without leading dots)
// and a list of glob ignore patterns (matched against slash-separated paths,
// e.g. "**/*.tmp" or "vendor/**").
func NewFilter(extensions, ignorePatterns []string) (*Filter, error) {
	f := &Filter{}

	for _, ext := range extensions {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" {
			continue
		}

		if f.extensions == nil {
			f.extensions = make(map[string]struct{})
		}

		f.extensions[ext] = struct{}{}
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compiling ignore pattern %q: %w", pattern, err)
		}

		f.ignores = append(f.ignores, g)
	}

	return f, nil
}

// Matches reports whether path passes the filter. Ignore patterns veto
// first; then, with a non-empty extension set, the path's final extension
// (case-sensitive, no leading dot) must be in the set. Extensionless paths
// never match a non-empty set.
func (f *Filter) Matches(path string) bool {
	slashed := filepath.ToSlash(path)

	for _, g := range f.ignores {
		if g.Match(slashed) || g.Match(filepath.Base(path)) {
			return false
		}
	}

	if len(f.extensions) == 0 {
		return true
	}

	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}

	_, ok := f.extensions[ext[1:]]

	return ok
}

// Extensions returns the configured extension allow-set in unspecified
// order. Empty means wildcard.
func (f *Filter) Extensions() []string {
	exts := make([]string, 0, len(f.extensions))
	for ext := range f.extensions {
		exts = append(exts, ext)
	}

	return exts
}
