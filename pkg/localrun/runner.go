package localrun

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/drydock-dev/drydock/pkg/envspec"
	"github.com/drydock-dev/drydock/pkg/manifest"
)

// Options configures a Runner
type Options struct {
	// Exec runs build and start commands; defaults to the local shell
	Exec CommandRunner

	// Dir is the working directory for commands; defaults to cwd
	Dir string

	// MaxRestarts caps restart-on-crash attempts for the start command
	MaxRestarts int

	// RestartBackoff is the initial delay before a restart, doubled
	// after each crash
	RestartBackoff time.Duration

	// Stdout and Stderr receive the service's process output
	Stdout io.Writer
	Stderr io.Writer
}

// Runner provisions a service as a local process: build once, then keep
// the start command running under the platform restart policy
type Runner struct {
	exec           CommandRunner
	dir            string
	maxRestarts    int
	restartBackoff time.Duration
	stdout         io.Writer
	stderr         io.Writer
	sanitizer      *envspec.Sanitizer
}

// NewRunner creates a Runner
func NewRunner(opts Options) *Runner {
	exec := opts.Exec
	if exec == nil {
		exec = NewShellRunner()
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	backoff := opts.RestartBackoff
	if backoff <= 0 {
		backoff = 5 * time.Second
	}

	return &Runner{
		exec:           exec,
		dir:            opts.Dir,
		maxRestarts:    opts.MaxRestarts,
		restartBackoff: backoff,
		stdout:         stdout,
		stderr:         stderr,
		sanitizer:      envspec.NewSanitizer(),
	}
}

// Deploy builds and starts a service with the resolved environment.
// A missing secret is fatal before anything runs, naming the absent
// keys; this is a startup failure of the worker, never a silent default.
func (r *Runner) Deploy(ctx context.Context, svc *manifest.ServiceDeclaration, res *envspec.Resolution) error {
	if err := r.Prepare(svc, res); err != nil {
		return err
	}

	if err := r.Build(ctx, svc, res); err != nil {
		return err
	}

	return r.Start(ctx, svc, res)
}

// Prepare verifies the resolution is complete and arms secret redaction
// for subsequent Build and Start output
func (r *Runner) Prepare(svc *manifest.ServiceDeclaration, res *envspec.Resolution) error {
	if err := res.MissingError(); err != nil {
		return fmt.Errorf("cannot start %s: %w", svc.Name, err)
	}

	r.sanitizer.AddResolution(res, svc.SecretKeys())
	return nil
}

// Build runs the service's build command once
func (r *Runner) Build(ctx context.Context, svc *manifest.ServiceDeclaration, res *envspec.Resolution) error {
	env := append(systemEnviron(), res.Environ(svc)...)

	if err := r.exec.Run(ctx, r.dir, svc.BuildCommand, env, r.stdout, r.stderr); err != nil {
		return fmt.Errorf("build failed for %s: %w", svc.Name, r.sanitizer.SanitizeError(err))
	}

	return nil
}

// Start runs the start command and restarts it on crash with capped
// exponential backoff. A clean exit stops the loop; context
// cancellation is a normal stop, not a failure.
func (r *Runner) Start(ctx context.Context, svc *manifest.ServiceDeclaration, res *envspec.Resolution) error {
	env := append(systemEnviron(), res.Environ(svc)...)
	backoff := r.restartBackoff

	for attempt := 0; ; attempt++ {
		err := r.exec.Run(ctx, r.dir, svc.StartCommand, env, r.stdout, r.stderr)
		if err == nil {
			return nil
		}

		if ctx.Err() != nil {
			return nil
		}

		if attempt >= r.maxRestarts {
			return fmt.Errorf("%s crashed after %d restarts: %w", svc.Name, attempt, r.sanitizer.SanitizeError(err))
		}

		fmt.Fprintf(r.stderr, "⚠️  %s exited (%s), restarting in %s\n", svc.Name, r.sanitizer.Sanitize(err.Error()), backoff)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil
		}

		backoff *= 2
	}
}
