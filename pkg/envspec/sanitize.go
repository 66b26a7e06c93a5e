package envspec

import (
	"fmt"
	"strings"
	"sync"
)

// Sanitizer redacts secret values from error messages and process output
type Sanitizer struct {
	values map[string]struct{}
	mu     sync.RWMutex
}

// NewSanitizer creates a new sanitizer instance
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		values: make(map[string]struct{}),
	}
}

// AddValue registers a secret value for redaction
func (s *Sanitizer) AddValue(value string) {
	if value == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[value] = struct{}{}
}

// AddResolution registers every resolved secret value of a resolution
func (s *Sanitizer) AddResolution(res *Resolution, secretKeys []string) {
	for _, key := range secretKeys {
		if value, ok := res.Values[key]; ok {
			s.AddValue(value)
		}
	}
}

// Sanitize replaces all registered values with [REDACTED]
func (s *Sanitizer) Sanitize(text string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := text
	for value := range s.values {
		result = strings.ReplaceAll(result, value, "[REDACTED]")
	}

	return result
}

// SanitizeError wraps an error with a sanitized message
func (s *Sanitizer) SanitizeError(err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s", s.Sanitize(err.Error()))
}
