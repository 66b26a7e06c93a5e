package config

// GlobalConfig represents operator-level configuration for drydock
type GlobalConfig struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Local    LocalRunConfig `yaml:"local,omitempty"`
}

// DefaultsConfig holds default values applied when a manifest or CLI flag
// doesn't specify them
type DefaultsConfig struct {
	// Namespace for Kubernetes deploys. Empty defers to the kubeconfig's
	// current context.
	Namespace string `yaml:"namespace,omitempty"`

	// Images maps a runtime name to the container image used when
	// provisioning to Kubernetes
	Images map[string]string `yaml:"images,omitempty"`

	Resources ResourceConfig `yaml:"resources"`

	// DotenvFiles are consulted when resolving secrets locally
	DotenvFiles []string `yaml:"dotenvFiles,omitempty"`
}

// ResourceConfig holds resource limit configuration
type ResourceConfig struct {
	CPU    string `yaml:"cpu,omitempty"`
	Memory string `yaml:"memory,omitempty"`
}

// LocalRunConfig holds restart policy for locally provisioned workers
type LocalRunConfig struct {
	// MaxRestarts caps restart-on-crash attempts; 0 disables restarts
	MaxRestarts int `yaml:"maxRestarts,omitempty"`

	// RestartBackoffSeconds is the initial delay between restarts;
	// doubled after each crash
	RestartBackoffSeconds int `yaml:"restartBackoffSeconds,omitempty"`
}

// DefaultGlobalConfig returns a GlobalConfig with sensible defaults
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Defaults: DefaultsConfig{
			Images: map[string]string{
				"python": "python:3.11-slim",
				"node":   "node:20-slim",
				"go":     "golang:1.23",
			},
			Resources: ResourceConfig{
				CPU:    "500m",
				Memory: "512Mi",
			},
		},
		Local: LocalRunConfig{
			MaxRestarts:           3,
			RestartBackoffSeconds: 5,
		},
	}
}

// Merge merges this config with another, with the other taking precedence
func (g *GlobalConfig) Merge(other *GlobalConfig) {
	if other.Defaults.Namespace != "" {
		g.Defaults.Namespace = other.Defaults.Namespace
	}
	for runtime, image := range other.Defaults.Images {
		if g.Defaults.Images == nil {
			g.Defaults.Images = make(map[string]string)
		}
		g.Defaults.Images[runtime] = image
	}
	if other.Defaults.Resources.CPU != "" {
		g.Defaults.Resources.CPU = other.Defaults.Resources.CPU
	}
	if other.Defaults.Resources.Memory != "" {
		g.Defaults.Resources.Memory = other.Defaults.Resources.Memory
	}
	if len(other.Defaults.DotenvFiles) > 0 {
		g.Defaults.DotenvFiles = other.Defaults.DotenvFiles
	}
	if other.Local.MaxRestarts != 0 {
		g.Local.MaxRestarts = other.Local.MaxRestarts
	}
	if other.Local.RestartBackoffSeconds != 0 {
		g.Local.RestartBackoffSeconds = other.Local.RestartBackoffSeconds
	}
}

// ImageFor returns the container image for a runtime, or "" if unmapped
func (g *GlobalConfig) ImageFor(runtime string) string {
	return g.Defaults.Images[runtime]
}
