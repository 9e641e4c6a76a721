// Package command implements refire's command-execution supervisor: it
// resolves the user's command into a runnable specification, spawns it in
// the watched directory, drains both output pipes concurrently, and reports
// a structured result.
package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Kind distinguishes how a Spec is executed.
type Kind int

const (
	// ShellLine runs a single command line through the user's login shell
	// with its startup files sourced.
	ShellLine Kind = iota

	// Argv runs a program with explicit arguments, no shell involved.
	Argv
)

// Spec is a fully resolved command specification. It is built once at
// startup and reused for every invocation.
type Spec struct {
	Kind Kind

	// Shell and Line are set for ShellLine specs. Line already includes the
	// rc-sourcing preamble on non-Windows platforms.
	Shell string
	Line  string

	// Program and Args are set for Argv specs.
	Program string
	Args    []string

	// Dir is the working directory for the child process.
	Dir string

	// display is the user's original command, used in status output.
	display string
}

// ResolveShell returns the user's shell binary and the rc-sourcing preamble
// that makes aliases and PATH additions from their startup files available.
func ResolveShell() (shell, rcCommand string) {
	shell = os.Getenv("SHELL")
	if shell == "" {
		return "/bin/sh", "true"
	}

	switch filepath.Base(shell) {
	case "zsh":
		rcCommand = "source ~/.zshrc 2>/dev/null || true"
	case "bash":
		rcCommand = "source ~/.bashrc 2>/dev/null || source ~/.bash_profile 2>/dev/null || true"
	default:
		rcCommand = "true"
	}

	return shell, rcCommand
}

// NewShellSpec resolves a command line into a ShellLine spec executed in dir.
// An empty or blank command is a configuration error.
func NewShellSpec(commandLine, dir string) (Spec, error) {
	if strings.TrimSpace(commandLine) == "" {
		return Spec{}, errors.New("command must not be empty")
	}

	shell, rcCommand := ResolveShell()

	line := commandLine
	if runtime.GOOS != "windows" {
		line = fmt.Sprintf("%s; %s", rcCommand, commandLine)
	}

	return Spec{
		Kind:    ShellLine,
		Shell:   shell,
		Line:    line,
		Dir:     dir,
		display: commandLine,
	}, nil
}

// NewArgvSpec builds an Argv spec from a pre-tokenized program and argument
// list, executed in dir with no shell.
func NewArgvSpec(argv []string, dir string) (Spec, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return Spec{}, errors.New("command must not be empty")
	}

	return Spec{
		Kind:    Argv,
		Program: argv[0],
		Args:    argv[1:],
		Dir:     dir,
		display: strings.Join(argv, " "),
	}, nil
}

// ShellName returns the shell binary used by a ShellLine spec, or "none"
// for Argv specs.
func (s Spec) ShellName() string {
	if s.Kind == Argv {
		return "none"
	}

	return s.Shell
}

// String returns the user's original command for display.
func (s Spec) String() string {
	return s.display
}

// build constructs the exec.Cmd for one invocation.
func (s Spec) build(ctx context.Context) *exec.Cmd {
	var cmd *exec.Cmd

	switch {
	case s.Kind == Argv:
		cmd = exec.CommandContext(ctx, s.Program, s.Args...) //nolint:gosec
	case runtime.GOOS == "windows":
		cmd = exec.CommandContext(ctx, "cmd", "/C", s.Line) //nolint:gosec
	default:
		cmd = exec.CommandContext(ctx, s.Shell, "-l", "-c", s.Line) //nolint:gosec
	}

	cmd.Dir = s.Dir

	return cmd
}
