package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/drydock-dev/drydock/pkg/envspec"
	"github.com/drydock-dev/drydock/pkg/manifest"
	"gopkg.in/yaml.v3"
)

// ErrSecretNotFound is returned when unsetting a key that isn't stored
var ErrSecretNotFound = errors.New("secret not found")

// Store keeps per-service secret values on disk, outside the manifest.
// One YAML file per service, mode 0600.
type Store struct {
	dir string
}

// NewStore creates a secret store rooted at ~/.drydock/secrets
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	return &Store{dir: filepath.Join(home, ".drydock", "secrets")}, nil
}

// NewStoreWithPath creates a store with a custom directory
func NewStoreWithPath(dir string) *Store {
	return &Store{dir: dir}
}

// path returns the secret file for a service. The service name is
// validated by callers before it reaches the filesystem.
func (s *Store) path(service string) string {
	return filepath.Join(s.dir, service+".yaml")
}

// Load returns all stored values for a service. A service with no stored
// secrets yields an empty map, not an error.
func (s *Store) Load(service string) (map[string]string, error) {
	if err := manifest.ValidateServiceName(service); err != nil {
		return nil, err
	}

	// #nosec G304 -- path is constructed from a validated service name
	data, err := os.ReadFile(s.path(service))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read secrets for %s: %w", service, err)
	}

	values := make(map[string]string)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse secrets for %s: %w", service, err)
	}

	return values, nil
}

// Set stores a single secret value for a service
func (s *Store) Set(service, key, value string) error {
	if err := envspec.ValidateVarName(key); err != nil {
		return err
	}

	values, err := s.Load(service)
	if err != nil {
		return err
	}

	values[key] = value
	return s.save(service, values)
}

// Unset removes a stored secret value
func (s *Store) Unset(service, key string) error {
	values, err := s.Load(service)
	if err != nil {
		return err
	}

	if _, ok := values[key]; !ok {
		return fmt.Errorf("%w: %s", ErrSecretNotFound, key)
	}

	delete(values, key)
	return s.save(service, values)
}

// Keys returns the stored key names for a service, sorted. Values are
// deliberately not exposed here; listing never prints secrets.
func (s *Store) Keys(service string) ([]string, error) {
	values, err := s.Load(service)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys, nil
}

// ImportDotenv merges values from dotenv files into the store and
// returns the number of imported keys. Keys failing name validation are
// skipped rather than aborting the whole import.
func (s *Store) ImportDotenv(service string, files []string) (int, error) {
	env, err := envspec.LoadDotenvFiles(files)
	if err != nil {
		return 0, err
	}

	values, err := s.Load(service)
	if err != nil {
		return 0, err
	}

	imported := 0
	for key, value := range env {
		if envspec.ValidateVarName(key) != nil || envspec.IsSystemVar(key) {
			continue
		}
		values[key] = value
		imported++
	}

	if imported == 0 {
		return 0, nil
	}

	return imported, s.save(service, values)
}

// Delete removes the whole secret file for a service
func (s *Store) Delete(service string) error {
	if err := manifest.ValidateServiceName(service); err != nil {
		return err
	}

	if err := os.Remove(s.path(service)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete secrets for %s: %w", service, err)
	}
	return nil
}

func (s *Store) save(service string, values map[string]string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create secrets directory: %w", err)
	}

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal secrets: %w", err)
	}

	if err := os.WriteFile(s.path(service), data, 0o600); err != nil {
		return fmt.Errorf("failed to write secrets for %s: %w", service, err)
	}

	return nil
}
