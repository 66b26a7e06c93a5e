package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the default directory for drydock configuration
	DefaultConfigDir = ".drydock"

	// SecretsSubdir is the subdirectory for per-service secret files
	SecretsSubdir = "secrets"

	// DeploysSubdir is the subdirectory for deploy records
	DeploysSubdir = "deploys"

	// GlobalConfigFile is the filename for global configuration
	GlobalConfigFile = "config.yaml"
)

// Store handles reading and writing configuration files
type Store struct {
	configDir string
}

// NewStore creates a configuration store rooted at ~/.drydock
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	return &Store{configDir: filepath.Join(home, DefaultConfigDir)}, nil
}

// NewStoreWithPath creates a store with a custom config directory
func NewStoreWithPath(configDir string) *Store {
	return &Store{configDir: configDir}
}

// Dir returns the root configuration directory
func (s *Store) Dir() string {
	return s.configDir
}

// SecretsDir returns the directory holding per-service secret files
func (s *Store) SecretsDir() string {
	return filepath.Join(s.configDir, SecretsSubdir)
}

// DeploysDir returns the directory holding deploy records
func (s *Store) DeploysDir() string {
	return filepath.Join(s.configDir, DeploysSubdir)
}

// EnsureConfigDir creates the configuration directory structure if needed
func (s *Store) EnsureConfigDir() error {
	if err := os.MkdirAll(s.configDir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Secret files live under a tighter mode
	if err := os.MkdirAll(s.SecretsDir(), 0o700); err != nil {
		return fmt.Errorf("failed to create secrets directory: %w", err)
	}

	if err := os.MkdirAll(s.DeploysDir(), 0o750); err != nil {
		return fmt.Errorf("failed to create deploys directory: %w", err)
	}

	return nil
}

// GetGlobalConfigPath returns the file path for global config
func (s *Store) GetGlobalConfigPath() string {
	return filepath.Join(s.configDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration, merged over defaults
func (s *Store) LoadGlobalConfig() (*GlobalConfig, error) {
	path := s.GetGlobalConfigPath()

	// #nosec G304 -- path is constructed from config directory
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultGlobalConfig(), nil
		}
		return nil, fmt.Errorf("failed to read global config: %w", err)
	}

	var config GlobalConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse global config: %w", err)
	}

	defaultConfig := DefaultGlobalConfig()
	defaultConfig.Merge(&config)

	return defaultConfig, nil
}

// SaveGlobalConfig saves the global configuration to disk
func (s *Store) SaveGlobalConfig(config *GlobalConfig) error {
	if err := s.EnsureConfigDir(); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal global config: %w", err)
	}

	if err := os.WriteFile(s.GetGlobalConfigPath(), data, 0o600); err != nil {
		return fmt.Errorf("failed to write global config: %w", err)
	}

	return nil
}
