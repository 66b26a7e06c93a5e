package envspec

import (
	"testing"

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
			{Key: "SUPABASE_URL", Sync: boolPtr(false)},
			{Key: "ADMIN_IDS", Sync: boolPtr(false)},
			{Key: "PYTHON_VERSION", Value: "3.11.0"},
		},
	}
}

func noOSEnv(string) (string, bool) { return "", false }

func TestResolve_AllProvided(t *testing.T) {
	res := Resolve(botService(), Sources{
		Secrets: map[string]string{
			"TELEGRAM_BOT_TOKEN": "123:abc",
			"SUPABASE_URL":       "https://x.supabase.co",
			"ADMIN_IDS":          "6809399141",
		},
		LookupOSEnv: noOSEnv,
	})

	assert.Empty(t, res.Missing)
	assert.NoError(t, res.MissingError())
	assert.Equal(t, "123:abc", res.Values["TELEGRAM_BOT_TOKEN"])
	assert.Equal(t, "3.11.0", res.Values["PYTHON_VERSION"])
}

func TestResolve_MissingSecretsReported(t *testing.T) {
	res := Resolve(botService(), Sources{
		Secrets:     map[string]string{"TELEGRAM_BOT_TOKEN": "123:abc"},
		LookupOSEnv: noOSEnv,
	})

	// Unresolved secrets are reported in declaration order, never
	// silently defaulted
	assert.Equal(t, []string{"SUPABASE_URL", "ADMIN_IDS"}, res.Missing)

	err := res.MissingError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_URL")
	assert.Contains(t, err.Error(), "ADMIN_IDS")

	// Literal values still resolve
	assert.Equal(t, "3.11.0", res.Values["PYTHON_VERSION"])
}

func TestResolve_Precedence(t *testing.T) {
	res := Resolve(botService(), Sources{
		Secrets: map[string]string{"TELEGRAM_BOT_TOKEN": "from-store"},
		Dotenv: map[string]string{
			"TELEGRAM_BOT_TOKEN": "from-dotenv",
			"SUPABASE_URL":       "from-dotenv",
		},
		LookupOSEnv: func(key string) (string, bool) {
			if key == "ADMIN_IDS" {
				return "from-os", true
			}
			return "", false
		},
	})

	// Secret store beats dotenv, dotenv beats process env
	assert.Equal(t, "from-store", res.Values["TELEGRAM_BOT_TOKEN"])
	assert.Equal(t, "from-dotenv", res.Values["SUPABASE_URL"])
	assert.Equal(t, "from-os", res.Values["ADMIN_IDS"])
	assert.Empty(t, res.Missing)
}

func TestResolve_LiteralIgnoresSources(t *testing.T) {
	res := Resolve(botService(), Sources{
		Secrets: map[string]string{
			"TELEGRAM_BOT_TOKEN": "x",
			"SUPABASE_URL":       "y",
			"ADMIN_IDS":          "z",
			"PYTHON_VERSION":     "3.9.0",
		},
		LookupOSEnv: noOSEnv,
	})

	// A committed literal wins over any out-of-band source
	assert.Equal(t, "3.11.0", res.Values["PYTHON_VERSION"])
}

func TestResolution_Environ(t *testing.T) {
	svc := botService()
	res := Resolve(svc, Sources{
		Secrets: map[string]string{
			"TELEGRAM_BOT_TOKEN": "123:abc",
			"SUPABASE_URL":       "https://x.supabase.co",
			"ADMIN_IDS":          "6809399141",
		},
		LookupOSEnv: noOSEnv,
	})

	environ := res.Environ(svc)
	assert.Equal(t, []string{
		"TELEGRAM_BOT_TOKEN=123:abc",
		"SUPABASE_URL=https://x.supabase.co",
		"ADMIN_IDS=6809399141",
		"PYTHON_VERSION=3.11.0",
	}, environ)
}
