package manifest

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrManifestNotFound is returned when the manifest file doesn't exist
var ErrManifestNotFound = errors.New("manifest not found")

// DefaultFileName is the manifest file drydock looks for by default
const DefaultFileName = "drydock.yaml"

// Load reads and parses a manifest file
func Load(path string) (*Manifest, error) {
	// #nosec G304 -- path is a user-provided manifest location
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return Parse(data)
}

// Parse decodes manifest YAML
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Marshal encodes the manifest back to YAML. Load followed by Marshal is
// structurally idempotent: the env var table keeps its order and unset
// optional fields stay omitted.
func Marshal(m *Manifest) ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return data, nil
}

// Save validates and writes the manifest to disk
func Save(m *Manifest, path string) error {
	if err := m.Validate(); err != nil {
		return err
	}

	data, err := Marshal(m)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
