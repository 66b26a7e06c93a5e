package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNoServices is returned when a manifest declares no services
	ErrNoServices = errors.New("manifest declares no services")

	// ErrNameRequired is returned when a service name is empty
	ErrNameRequired = errors.New("service name is required")

	// ErrBuildCommandRequired is returned when buildCommand is empty
	ErrBuildCommandRequired = errors.New("buildCommand is required")

	// ErrStartCommandRequired is returned when startCommand is empty
	ErrStartCommandRequired = errors.New("startCommand is required")
)

// serviceNamePattern keeps names usable as file names and Kubernetes
// object names
var serviceNamePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// envKeyPattern validates environment variable names
var envKeyPattern = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

// knownTypes is the recognized role enumeration
var knownTypes = map[ServiceType]bool{
	TypeWorker: true,
	TypeWeb:    true,
	TypeCron:   true,
}

// knownRuntimes is the recognized runtime enumeration
var knownRuntimes = map[Runtime]bool{
	RuntimePython: true,
	RuntimeNode:   true,
	RuntimeGo:     true,
	RuntimeDocker: true,
}

// ValidateServiceName checks that the name is safe for file and object names
func ValidateServiceName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if !serviceNamePattern.MatchString(name) {
		return fmt.Errorf("service name must match %s, got %q", serviceNamePattern.String(), name)
	}
	return nil
}

// Validate checks structural validity of the whole manifest:
// recognized roles, unique service names, non-empty commands and a
// well-formed env var table per service
func (m *Manifest) Validate() error {
	if len(m.Services) == 0 {
		return ErrNoServices
	}

	names := make(map[string]bool)
	for i := range m.Services {
		svc := &m.Services[i]
		if err := svc.Validate(); err != nil {
			return fmt.Errorf("service %q: %w", svc.Name, err)
		}
		if names[svc.Name] {
			return fmt.Errorf("duplicate service name: %s", svc.Name)
		}
		names[svc.Name] = true
	}

	return nil
}

// Validate checks a single service declaration
func (s *ServiceDeclaration) Validate() error {
	if err := ValidateServiceName(s.Name); err != nil {
		return err
	}

	if !knownTypes[s.Type] {
		return fmt.Errorf("unrecognized service type: %q", s.Type)
	}

	if !knownRuntimes[s.Runtime] {
		return fmt.Errorf("unrecognized runtime: %q", s.Runtime)
	}

	if strings.TrimSpace(s.BuildCommand) == "" {
		return ErrBuildCommandRequired
	}
	if strings.TrimSpace(s.StartCommand) == "" {
		return ErrStartCommandRequired
	}

	if s.HealthCheckPath != "" && !strings.HasPrefix(s.HealthCheckPath, "/") {
		return fmt.Errorf("healthCheckPath must be absolute, got %q", s.HealthCheckPath)
	}

	return s.validateEnvVars()
}

// validateEnvVars enforces the env table invariants: pairwise-distinct
// keys, valid names, and no literal values on secret entries
func (s *ServiceDeclaration) validateEnvVars() error {
	seen := make(map[string]bool)
	for i := range s.EnvVars {
		entry := &s.EnvVars[i]

		if !envKeyPattern.MatchString(entry.Key) {
			return fmt.Errorf("env var name must match %s, got %q", envKeyPattern.String(), entry.Key)
		}

		if seen[entry.Key] {
			return fmt.Errorf("duplicate env var key: %s", entry.Key)
		}
		seen[entry.Key] = true

		// A secret with a committed literal defeats the purpose of
		// sync: false
		if entry.IsSecret() && entry.Value != "" {
			return fmt.Errorf("env var %s is marked sync: false but carries a literal value", entry.Key)
		}
	}

	return nil
}

// Warning is a non-fatal finding from a pre-deploy lint pass
type Warning struct {
	Service string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Service, w.Message)
}

// Warnings reports conditions that don't fail validation but deserve
// attention before deploying
func (m *Manifest) Warnings() []Warning {
	var warnings []Warning

	for i := range m.Services {
		svc := &m.Services[i]

		// Declared but semantically inert for non-web roles
		if svc.Type != TypeWeb && svc.HealthCheckPath != "" {
			warnings = append(warnings, Warning{
				Service: svc.Name,
				Message: fmt.Sprintf("healthCheckPath %q is ignored for %s services", svc.HealthCheckPath, svc.Type),
			})
		}

		if svc.Type == TypeWeb && svc.HealthCheckPath == "" {
			warnings = append(warnings, Warning{
				Service: svc.Name,
				Message: "web service has no healthCheckPath; readiness will not be probed",
			})
		}

		for j := range svc.EnvVars {
			entry := &svc.EnvVars[j]
			if !entry.IsSecret() && entry.Sync == nil && entry.Value == "" {
				warnings = append(warnings, Warning{
					Service: svc.Name,
					Message: fmt.Sprintf("env var %s has neither a value nor a sync flag", entry.Key),
				})
			}
		}
	}

	return warnings
}
