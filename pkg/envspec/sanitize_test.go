package envspec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizer_Sanitize(t *testing.T) {
	s := NewSanitizer()
	s.AddValue("123:abc-secret-token")

	out := s.Sanitize("failed to start: token 123:abc-secret-token rejected")
	assert.Equal(t, "failed to start: token [REDACTED] rejected", out)
}

func TestSanitizer_EmptyValueIgnored(t *testing.T) {
	s := NewSanitizer()
	s.AddValue("")

	assert.Equal(t, "unchanged", s.Sanitize("unchanged"))
}

func TestSanitizer_SanitizeError(t *testing.T) {
	s := NewSanitizer()
	s.AddValue("supersecret")

	err := s.SanitizeError(errors.New("auth failed with supersecret"))
	require.Error(t, err)
	assert.Equal(t, "auth failed with [REDACTED]", err.Error())

	assert.NoError(t, s.SanitizeError(nil))
}

func TestSanitizer_AddResolution(t *testing.T) {
	s := NewSanitizer()
	res := &Resolution{Values: map[string]string{
		"TELEGRAM_BOT_TOKEN": "tok-value",
		"PYTHON_VERSION":     "3.11.0",
	}}

	// Only secret keys get redacted; literals stay readable
	s.AddResolution(res, []string{"TELEGRAM_BOT_TOKEN"})

	assert.Equal(t, "[REDACTED]", s.Sanitize("tok-value"))
	assert.Equal(t, "3.11.0", s.Sanitize("3.11.0"))
}
