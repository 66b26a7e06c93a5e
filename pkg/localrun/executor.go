package localrun

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// CommandRunner executes a platform shell command with a controlled
// environment. Implementations must not inherit the operator's full
// process environment.
type CommandRunner interface {
	// Run executes the command via the shell in dir, with exactly the
	// given environment, streaming output to the writers
	Run(ctx context.Context, dir, command string, env []string, stdout, stderr io.Writer) error
}

// shellRunner implements CommandRunner using sh -c
type shellRunner struct{}

// Compile-time check that shellRunner implements CommandRunner
var _ CommandRunner = (*shellRunner)(nil)

// NewShellRunner creates a CommandRunner backed by the local shell
func NewShellRunner() CommandRunner {
	return &shellRunner{}
}

func (s *shellRunner) Run(ctx context.Context, dir, command string, env []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}

// systemEnviron returns the minimal pass-through environment commands
// need to run at all. Everything else comes from the resolved manifest
// env table.
func systemEnviron() []string {
	env := []string{}
	for _, key := range []string{"PATH", "HOME", "LANG", "TMPDIR"} {
		if value, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+value)
		}
	}
	return env
}
