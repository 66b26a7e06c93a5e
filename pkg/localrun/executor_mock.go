package localrun

import (
	"context"
	"io"
	"strings"
)

// MockRunner is a mock implementation of CommandRunner for testing
type MockRunner struct {
	// Commands stores the commands that were executed
	Commands []MockCommand

	// Responses maps command prefixes to their responses
	Responses map[string]MockResponse
}

// MockCommand represents a recorded command execution
type MockCommand struct {
	Dir     string
	Command string
	Env     []string
}

// MockResponse represents a mock response for a command
type MockResponse struct {
	Stdout string
	Stderr string

	// Errors are returned one per invocation; the last entry repeats.
	// A nil entry means success.
	Errors []error
}

// NewMockRunner creates a new MockRunner
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Commands:  []MockCommand{},
		Responses: make(map[string]MockResponse),
	}
}

// Run records the command and returns a pre-configured response
func (m *MockRunner) Run(ctx context.Context, dir, command string, env []string, stdout, stderr io.Writer) error {
	m.Commands = append(m.Commands, MockCommand{
		Dir:     dir,
		Command: command,
		Env:     env,
	})

	for prefix, response := range m.Responses {
		if strings.HasPrefix(command, prefix) {
			if response.Stdout != "" {
				_, _ = io.WriteString(stdout, response.Stdout)
			}
			if response.Stderr != "" {
				_, _ = io.WriteString(stderr, response.Stderr)
			}

			if len(response.Errors) == 0 {
				return nil
			}

			// Count how many times this prefix has run so far
			calls := 0
			for _, c := range m.Commands {
				if strings.HasPrefix(c.Command, prefix) {
					calls++
				}
			}
			idx := calls - 1
			if idx >= len(response.Errors) {
				idx = len(response.Errors) - 1
			}
			return response.Errors[idx]
		}
	}

	// Default success
	return nil
}

// SetResponse configures a mock response for commands starting with prefix
func (m *MockRunner) SetResponse(prefix, stdout, stderr string, errs ...error) {
	m.Responses[prefix] = MockResponse{
		Stdout: stdout,
		Stderr: stderr,
		Errors: errs,
	}
}

// CommandsMatching returns recorded commands with the given prefix
func (m *MockRunner) CommandsMatching(prefix string) []MockCommand {
	matched := []MockCommand{}
	for _, c := range m.Commands {
		if strings.HasPrefix(c.Command, prefix) {
			matched = append(matched, c)
		}
	}
	return matched
}
