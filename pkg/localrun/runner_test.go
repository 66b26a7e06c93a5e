package localrun

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/drydock-dev/drydock/pkg/envspec"
	"github.com/drydock-dev/drydock/pkg/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func botService() *manifest.ServiceDeclaration {
	return &manifest.ServiceDeclaration{
		Type:         manifest.TypeWorker,
		Name:         "referral-bot",
		Runtime:      manifest.RuntimePython,
		BuildCommand: "pip install -r requirements.txt",
		StartCommand: "python tgbot.py",
		EnvVars: []manifest.EnvVarSpec{
			{Key: "TELEGRAM_BOT_TOKEN", Sync: boolPtr(false)},
			{Key: "ADMIN_IDS", Sync: boolPtr(false)},
			{Key: "PYTHON_VERSION", Value: "3.11.0"},
		},
	}
}

func resolved(svc *manifest.ServiceDeclaration, values map[string]string) *envspec.Resolution {
	return envspec.Resolve(svc, envspec.Sources{
		Secrets:     values,
		LookupOSEnv: func(string) (string, bool) { return "", false },
	})
}

func fullSecrets() map[string]string {
	return map[string]string{
		"TELEGRAM_BOT_TOKEN": "tok-secret",
		"ADMIN_IDS":          "6809399141",
	}
}

func TestDeploy_BuildThenStart(t *testing.T) {
	mock := NewMockRunner()
	runner := NewRunner(Options{Exec: mock, MaxRestarts: 0, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})

	svc := botService()
	err := runner.Deploy(context.Background(), svc, resolved(svc, fullSecrets()))
	require.NoError(t, err)

	require.Len(t, mock.Commands, 2)
	assert.Equal(t, "pip install -r requirements.txt", mock.Commands[0].Command)
	assert.Equal(t, "python tgbot.py", mock.Commands[1].Command)

	// Resolved env vars reach the start command
	assert.Contains(t, mock.Commands[1].Env, "TELEGRAM_BOT_TOKEN=tok-secret")
	assert.Contains(t, mock.Commands[1].Env, "PYTHON_VERSION=3.11.0")
}

func TestDeploy_MissingSecretIsFatalBeforeBuild(t *testing.T) {
	mock := NewMockRunner()
	runner := NewRunner(Options{Exec: mock, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})

	svc := botService()
	res := resolved(svc, map[string]string{"TELEGRAM_BOT_TOKEN": "tok-secret"})

	err := runner.Deploy(context.Background(), svc, res)
	require.Error(t, err)

	// The error names the absent key and nothing ran
	assert.Contains(t, err.Error(), "ADMIN_IDS")
	assert.Empty(t, mock.Commands)
}

func TestDeploy_BuildFailure(t *testing.T) {
	mock := NewMockRunner()
	mock.SetResponse("pip install", "", "resolver error", errors.New("exit status 1"))

	runner := NewRunner(Options{Exec: mock, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})

	svc := botService()
	err := runner.Deploy(context.Background(), svc, resolved(svc, fullSecrets()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build failed for referral-bot")

	// Start never ran
	assert.Empty(t, mock.CommandsMatching("python tgbot.py"))
}

func TestStart_RestartsOnCrashThenSucceeds(t *testing.T) {
	mock := NewMockRunner()
	mock.SetResponse("python tgbot.py", "", "", errors.New("exit status 1"), nil)

	stderr := &bytes.Buffer{}
	runner := NewRunner(Options{
		Exec:           mock,
		MaxRestarts:    3,
		RestartBackoff: time.Millisecond,
		Stdout:         &bytes.Buffer{},
		Stderr:         stderr,
	})

	svc := botService()
	err := runner.Start(context.Background(), svc, resolved(svc, fullSecrets()))
	require.NoError(t, err)

	assert.Len(t, mock.CommandsMatching("python tgbot.py"), 2)
	assert.Contains(t, stderr.String(), "restarting")
}

func TestStart_GivesUpAfterMaxRestarts(t *testing.T) {
	mock := NewMockRunner()
	mock.SetResponse("python tgbot.py", "", "", errors.New("exit status 1"))

	runner := NewRunner(Options{
		Exec:           mock,
		MaxRestarts:    2,
		RestartBackoff: time.Millisecond,
		Stdout:         &bytes.Buffer{},
		Stderr:         &bytes.Buffer{},
	})

	svc := botService()
	err := runner.Start(context.Background(), svc, resolved(svc, fullSecrets()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crashed after 2 restarts")

	// Initial run plus two restarts
	assert.Len(t, mock.CommandsMatching("python tgbot.py"), 3)
}

func TestStart_ContextCancelIsCleanStop(t *testing.T) {
	mock := NewMockRunner()
	mock.SetResponse("python tgbot.py", "", "", errors.New("killed"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(Options{
		Exec:           mock,
		MaxRestarts:    5,
		RestartBackoff: time.Millisecond,
		Stdout:         &bytes.Buffer{},
		Stderr:         &bytes.Buffer{},
	})

	svc := botService()
	err := runner.Start(ctx, svc, resolved(svc, fullSecrets()))
	assert.NoError(t, err)
}

func TestStart_ErrorsAreSanitized(t *testing.T) {
	mock := NewMockRunner()
	mock.SetResponse("pip install", "", "", errors.New("auth failed for token tok-secret"))

	runner := NewRunner(Options{Exec: mock, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})

	svc := botService()
	err := runner.Deploy(context.Background(), svc, resolved(svc, fullSecrets()))
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "tok-secret")
	assert.Contains(t, err.Error(), "[REDACTED]")
}

func TestSystemEnviron_OnlyPassThroughVars(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	t.Setenv("TELEGRAM_BOT_TOKEN", "leaked")

	env := systemEnviron()
	assert.Contains(t, env, "PATH=/usr/bin")
	assert.NotContains(t, env, "TELEGRAM_BOT_TOKEN=leaked")
}
