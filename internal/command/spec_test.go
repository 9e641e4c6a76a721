package command

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// ResolveShell
// ---------------------------------------------------------------------------

func TestResolveShell_Zsh(t *testing.T) {
	t.Setenv("SHELL", "/bin/zsh")

	shell, rc := ResolveShell()
	assert.Equal(t, "/bin/zsh", shell)
	assert.Contains(t, rc, ".zshrc")
}

func TestResolveShell_Bash(t *testing.T) {
	t.Setenv("SHELL", "/usr/bin/bash")

	shell, rc := ResolveShell()
	assert.Equal(t, "/usr/bin/bash", shell)
	assert.Contains(t, rc, ".bashrc")
	assert.Contains(t, rc, ".bash_profile")
}

func TestResolveShell_Unknown(t *testing.T) {
	t.Setenv("SHELL", "/bin/fish")

	shell, rc := ResolveShell()
	assert.Equal(t, "/bin/fish", shell)
	assert.Equal(t, "true", rc)
}

func TestResolveShell_Unset(t *testing.T) {
	t.Setenv("SHELL", "")

	shell, rc := ResolveShell()
	assert.Equal(t, "/bin/sh", shell)
	assert.Equal(t, "true", rc)
}

// ---------------------------------------------------------------------------
// NewShellSpec
// ---------------------------------------------------------------------------

func TestNewShellSpec(t *testing.T) {
	t.Setenv("SHELL", "/bin/zsh")

	spec, err := NewShellSpec("go test ./...", "/tmp/project")
	require.NoError(t, err)

	assert.Equal(t, ShellLine, spec.Kind)
	assert.Equal(t, "/bin/zsh", spec.Shell)
	assert.Equal(t, "/tmp/project", spec.Dir)
	assert.Equal(t, "go test ./...", spec.String())

	if runtime.GOOS != "windows" {
		// The composed line carries the rc preamble ahead of the command.
		assert.Contains(t, spec.Line, ".zshrc")
		assert.Contains(t, spec.Line, "go test ./...")
	}
}

func TestNewShellSpec_Empty(t *testing.T) {
	_, err := NewShellSpec("", ".")
	require.Error(t, err)

	_, err = NewShellSpec("   ", ".")
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// NewArgvSpec
// ---------------------------------------------------------------------------

func TestNewArgvSpec(t *testing.T) {
	spec, err := NewArgvSpec([]string{"go", "test", "./..."}, "/tmp/project")
	require.NoError(t, err)

	assert.Equal(t, Argv, spec.Kind)
	assert.Equal(t, "go", spec.Program)
	assert.Equal(t, []string{"test", "./..."}, spec.Args)
	assert.Equal(t, "go test ./...", spec.String())
	assert.Equal(t, "none", spec.ShellName())
}

func TestNewArgvSpec_Empty(t *testing.T) {
	_, err := NewArgvSpec(nil, ".")
	require.Error(t, err)

	_, err = NewArgvSpec([]string{""}, ".")
	require.Error(t, err)
}
