package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/drydock-dev/drydock/pkg/manifest"
	"gopkg.in/yaml.v3"
)

// ErrDeployNotFound is returned when a deploy record doesn't exist
var ErrDeployNotFound = errors.New("deploy not found")

// Store handles reading and writing deploy records, one file per service
type Store struct {
	dir string
}

// NewStore creates a deploy record store rooted at ~/.drydock/deploys
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	return &Store{dir: filepath.Join(home, ".drydock", "deploys")}, nil
}

// NewStoreWithPath creates a store with a custom directory
func NewStoreWithPath(dir string) *Store {
	return &Store{dir: dir}
}

// GetRecordPath returns the file path for a service's deploy record
func (s *Store) GetRecordPath(service string) string {
	return filepath.Join(s.dir, service+".yaml")
}

// Load loads a deploy record from disk
func (s *Store) Load(service string) (*DeployRecord, error) {
	if err := manifest.ValidateServiceName(service); err != nil {
		return nil, err
	}

	// #nosec G304 -- path is constructed from a validated service name
	data, err := os.ReadFile(s.GetRecordPath(service))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDeployNotFound
		}
		return nil, fmt.Errorf("failed to read deploy record: %w", err)
	}

	var record DeployRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse deploy record: %w", err)
	}

	return &record, nil
}

// Save saves a deploy record to disk
func (s *Store) Save(record *DeployRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create deploys directory: %w", err)
	}

	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal deploy record: %w", err)
	}

	if err := os.WriteFile(s.GetRecordPath(record.Service), data, 0o600); err != nil {
		return fmt.Errorf("failed to write deploy record: %w", err)
	}

	return nil
}

// Delete removes a deploy record from disk
func (s *Store) Delete(service string) error {
	if err := os.Remove(s.GetRecordPath(service)); err != nil {
		if os.IsNotExist(err) {
			return ErrDeployNotFound
		}
		return fmt.Errorf("failed to delete deploy record: %w", err)
	}

	return nil
}

// List returns all deploy records
func (s *Store) List() ([]*DeployRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*DeployRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read deploys directory: %w", err)
	}

	records := make([]*DeployRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		service := strings.TrimSuffix(entry.Name(), ".yaml")
		record, err := s.Load(service)
		if err != nil {
			// Skip unreadable records but keep listing the rest
			continue
		}

		records = append(records, record)
	}

	return records, nil
}

// Exists checks if a deploy record exists for a service
func (s *Store) Exists(service string) bool {
	_, err := os.Stat(s.GetRecordPath(service))
	return err == nil
}
