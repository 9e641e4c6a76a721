package watch

import (
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Filter
// ---------------------------------------------------------------------------

func TestFilter_EmptyExtensionsMatchEverything(t *testing.T) {
	f, err := NewFilter(nil, nil)
	require.NoError(t, err)

	assert.True(t, f.Matches("src/main.rs"))
	assert.True(t, f.Matches("README"))
	assert.True(t, f.Matches("a/b/c.tar.gz"))
}

func TestFilter_ExtensionSet(t *testing.T) {
	f, err := NewFilter([]string{"rs"}, nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"matching extension", "src/main.rs", true},
		{"double extension", "src/main.rs.bak", false},
		{"no extension", "README", false},
		{"case sensitive", "src/main.RS", false},
		{"extension elsewhere in name", "rs/main.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Matches(tt.path))
		})
	}
}

func TestFilter_MultipleExtensions(t *testing.T) {
	f, err := NewFilter([]string{"go", "mod", ".sum"}, nil)
	require.NoError(t, err)

	assert.True(t, f.Matches("main.go"))
	assert.True(t, f.Matches("go.mod"))
	// Leading dots in the configured list are normalised away.
	assert.True(t, f.Matches("go.sum"))
	assert.False(t, f.Matches("main.py"))
}

func TestFilter_IgnorePatternsVeto(t *testing.T) {
	f, err := NewFilter([]string{"go"}, []string{"**/*_gen.go", "vendor/**"})
	require.NoError(t, err)

	assert.True(t, f.Matches("pkg/handler.go"))
	assert.False(t, f.Matches("pkg/api_gen.go"))
	assert.False(t, f.Matches("vendor/lib/lib.go"))
}

func TestFilter_IgnoreMatchesBasename(t *testing.T) {
	f, err := NewFilter(nil, []string{"*.tmp"})
	require.NoError(t, err)

	assert.False(t, f.Matches("deep/nested/file.tmp"))
	assert.True(t, f.Matches("deep/nested/file.txt"))
}

func TestFilter_InvalidIgnorePattern(t *testing.T) {
	_, err := NewFilter(nil, []string{"[unclosed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling ignore pattern")
}

func TestFilter_Extensions(t *testing.T) {
	f, err := NewFilter([]string{"go", "mod"}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"go", "mod"}, f.Extensions())

	f, err = NewFilter(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, f.Extensions())
}

// ---------------------------------------------------------------------------
// IsRelevant
// ---------------------------------------------------------------------------

func TestIsRelevant(t *testing.T) {
	tests := []struct {
		name string
		op   fsnotify.Op
		want bool
	}{
		{"write", fsnotify.Write, true},
		{"create", fsnotify.Create, true},
		{"remove", fsnotify.Remove, true},
		{"rename", fsnotify.Rename, true},
		{"chmod only", fsnotify.Chmod, false},
		{"zero op", 0, false},
		{"write plus chmod", fsnotify.Write | fsnotify.Chmod, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRelevant(tt.op))
		})
	}
}

// ---------------------------------------------------------------------------
// isEditorJunk
// ---------------------------------------------------------------------------

func TestIsEditorJunk(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"src/main.go", false},
		{"src/.main.go.swx", true},
		{"file~", true},
		{"file.swp", true},
		{"#file#", true},
		{"dir/.hidden", true},
		{"dir.with.dots/file.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, isEditorJunk(tt.path))
		})
	}
}
