package driver

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Render renders the command as a single shell statement.
func (c Command) Render() (string, error) {
	parts := make([]string, 0, len(c.Env)+len(c.Args)+1)

	names := make([]string, 0, len(c.Env))
	for name := range c.Env {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !syntax.ValidName(name) {
			return "", eris.Errorf("invalid variable name %q", name)
		}

		value, err := syntax.Quote(c.Env[name], syntax.LangBash)
		if err != nil {
			return "", eris.Wrapf(err, "failed to quote the value of %s", name)
		}
		parts = append(parts, name+"="+value)
	}

	for _, arg := range c.Args {
		word, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return "", eris.Wrapf(err, "failed to quote argument %q", arg)
		}
		parts = append(parts, word)
	}

	if c.DiscardOutput {
		parts = append(parts, ">/dev/null")
	}

	return strings.Join(parts, " "), nil
}

// String is Render for logs; unquotable commands fall back to the raw arguments.
func (c Command) String() string {
	script, err := c.Render()
	if err != nil {
		return strings.Join(c.Args, " ")
	}
	return script
}

var defaultOpenHandler = interp.DefaultOpenHandler()

func openHandler(ctx context.Context, path string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	if path == "/dev/null" {
		path = os.DevNull
	}

	return defaultOpenHandler(ctx, path, flag, perm)
}

// ShellRunner executes commands with the mvdan.cc/sh interpreter.
type ShellRunner struct {
	// Root is the directory Command.Dir is relative to.
	Root   string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

// NewShellRunner returns a runner that inherits the process environment and standard streams.
func NewShellRunner(root string) *ShellRunner {
	return &ShellRunner{
		Root:   root,
		Env:    os.Environ(),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (s *ShellRunner) dir(cmd Command) string {
	if cmd.Dir == "" {
		return s.Root
	}

	if filepath.IsAbs(cmd.Dir) {
		return cmd.Dir
	}
	return filepath.Join(s.Root, cmd.Dir)
}

func (s *ShellRunner) exec(ctx context.Context, cmd Command, stdout io.Writer) error {
	if len(cmd.Args) == 0 {
		return eris.New("empty command")
	}

	script, err := cmd.Render()
	if err != nil {
		return err
	}

	file, err := syntax.NewParser().Parse(strings.NewReader(script), cmd.Args[0])
	if err != nil {
		return eris.Wrapf(err, "failed to parse command %s", script)
	}

	stderr := s.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	runner, err := interp.New(
		interp.Dir(s.dir(cmd)),
		interp.Env(expand.ListEnviron(s.Env...)),
		interp.ExecHandler(interp.DefaultExecHandler(2*time.Second)),
		interp.OpenHandler(openHandler),
		interp.StdIO(nil, stdout, stderr),
	)
	if err != nil {
		return eris.Wrapf(err, "failed to initialize runner in %s", s.dir(cmd))
	}

	for _, stmt := range file.Stmts {
		err = runner.Run(ctx, stmt)
		if err != nil {
			return err
		}

		if runner.Exited() {
			return nil
		}
	}

	return nil
}

// Run executes cmd with the runner's stdout and stderr.
func (s *ShellRunner) Run(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	log(ctx).Info().
		Str("dir", cmd.Dir).
		Bool("command", true).
		Msg(cmd.String())

	stdout := s.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	return s.exec(ctx, cmd, stdout)
}

// Output executes cmd and returns its trimmed stdout.
func (s *ShellRunner) Output(ctx context.Context, cmd Command) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buffer bytes.Buffer
	err := s.exec(ctx, cmd, &buffer)
	return strings.TrimSpace(buffer.String()), err
}

// Recorder is a Runner that records commands instead of executing them. It backs dry runs and plans.
type Recorder struct {
	// Inner answers Output calls if set, otherwise Version is returned.
	Inner   Runner
	Version string
	// Fail decides the result of the command at the given position. Nil means every command succeeds.
	Fail        func(index int, inv Invocation) error
	Invocations []Invocation
}

// Run records cmd.
func (r *Recorder) Run(ctx context.Context, cmd Command) error {
	inv := Invocation{Stage: stageName(ctx), Command: cmd}
	r.Invocations = append(r.Invocations, inv)

	log(ctx).Info().
		Str("dir", cmd.Dir).
		Bool("command", true).
		Bool("dry", true).
		Msg(cmd.String())

	if r.Fail != nil {
		return r.Fail(len(r.Invocations)-1, inv)
	}
	return nil
}

// Output is not recorded since it never changes anything.
func (r *Recorder) Output(ctx context.Context, cmd Command) (string, error) {
	if r.Inner != nil {
		return r.Inner.Output(ctx, cmd)
	}

	return r.Version, nil
}
