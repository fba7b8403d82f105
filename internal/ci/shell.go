package ci

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

type Shell struct {
	Program string // interpreter invoked as `Program -c command`; "sh" if empty
	Dir     string
	Env     []string // KEY=value pairs added to the process environment
	Stdout  io.Writer
	Stderr  io.Writer
	// DryRun echoes commands without running them. Output still runs, it is
	// meant for read-only queries.
	DryRun bool
}

func (s Shell) stdout() io.Writer {
	if s.Stdout == nil {
		return os.Stdout
	}
	return s.Stdout
}

func (s Shell) stderr() io.Writer {
	if s.Stderr == nil {
		return os.Stderr
	}
	return s.Stderr
}

func (s Shell) program() string {
	if s.Program == "" {
		return "sh"
	}
	return s.Program
}

// InDir returns a copy running in dir, resolved against the current Dir.
func (s Shell) InDir(dir string) Shell {
	if dir == "" {
		return s
	}
	if !filepath.IsAbs(dir) && s.Dir != "" {
		dir = filepath.Join(s.Dir, dir)
	}
	s.Dir = dir
	return s
}

// WithEnv returns a copy with key=value added to the command environment.
func (s Shell) WithEnv(key, value string) Shell {
	env := make([]string, 0, len(s.Env)+1)
	env = append(env, s.Env...)
	s.Env = append(env, key+"="+value)
	return s
}

// Path resolves name against the shell's working directory.
func (s Shell) Path(name string) string {
	if filepath.IsAbs(name) || s.Dir == "" {
		return name
	}
	return filepath.Join(s.Dir, name)
}

// Sh echoes command to stdout and runs it attached to the shell's writers.
func (s Shell) Sh(ctx context.Context, command string) error {
	return s.run(ctx, command, command)
}

// ShMasked runs command but echoes display, for commands carrying secrets.
func (s Shell) ShMasked(ctx context.Context, display, command string) error {
	return s.run(ctx, display, command)
}

func (s Shell) run(ctx context.Context, display, command string) error {
	fmt.Fprintln(s.stdout(), display)
	if s.DryRun {
		return nil
	}
	cmd := s.command(ctx, command)
	cmd.Stdout = s.stdout()
	cmd.Stderr = s.stderr()
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", display, err)
	}
	return nil
}

// Output echoes and runs command, returning what it wrote to stdout. On a
// non-zero exit the output is returned together with the error.
func (s Shell) Output(ctx context.Context, command string) ([]byte, error) {
	fmt.Fprintln(s.stdout(), command)
	var out bytes.Buffer
	cmd := s.command(ctx, command)
	cmd.Stdout = &out
	cmd.Stderr = s.stderr()
	if err := cmd.Run(); err != nil {
		return out.Bytes(), fmt.Errorf("%s: %w", command, err)
	}
	return out.Bytes(), nil
}

func (s Shell) command(ctx context.Context, command string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, s.program(), "-c", command)
	cmd.Dir = s.Dir
	if len(s.Env) > 0 {
		cmd.Env = append(os.Environ(), s.Env...)
	}
	return cmd
}

// Quote wraps v in single quotes for use in a command line.
func Quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}
