package manifest

// ServiceType identifies the deployment role of a service
type ServiceType string

const (
	// TypeWorker is a long-running background process with no inbound
	// network exposure (e.g. a bot polling loop)
	TypeWorker ServiceType = "worker"

	// TypeWeb is a request-serving process; healthCheckPath gates readiness
	TypeWeb ServiceType = "web"

	// TypeCron is a process started on a schedule carried by its start command
	TypeCron ServiceType = "cron"
)

// Runtime names the managed language environment the platform provisions
type Runtime string

const (
	RuntimePython Runtime = "python"
	RuntimeNode   Runtime = "node"
	RuntimeGo     Runtime = "go"
	RuntimeDocker Runtime = "docker"
)

// Manifest is a deployment manifest file. A file usually declares a single
// service but may carry several.
type Manifest struct {
	Services []ServiceDeclaration `yaml:"services"`
}

// ServiceDeclaration describes one deployable unit: its role, runtime,
// build/start commands and environment variable table
type ServiceDeclaration struct {
	Type ServiceType `yaml:"type"`
	Name string      `yaml:"name"`

	// Runtime uses the "env" key on the wire for compatibility with
	// hosted-platform manifests
	Runtime Runtime `yaml:"env"`

	// Opaque shell commands executed by the platform, never interpreted
	// by the manifest itself
	BuildCommand string `yaml:"buildCommand"`
	StartCommand string `yaml:"startCommand"`

	// HealthCheckPath is only meaningful for web services. On a worker it
	// is informational and never gates deployment.
	HealthCheckPath string `yaml:"healthCheckPath,omitempty"`

	// EnvVars is an ordered table; order is preserved across load/save
	EnvVars []EnvVarSpec `yaml:"envVars,omitempty"`
}

// EnvVarSpec is one entry of the environment variable table.
// sync: false marks the variable as a secret whose value is supplied
// out-of-band and must never be stored in the manifest.
type EnvVarSpec struct {
	Key   string `yaml:"key"`
	Sync  *bool  `yaml:"sync,omitempty"`
	Value string `yaml:"value,omitempty"`
}

// IsSecret reports whether the entry is declared as a secret (sync: false)
func (e *EnvVarSpec) IsSecret() bool {
	return e.Sync != nil && !*e.Sync
}

// Service returns the declaration with the given name, or nil
func (m *Manifest) Service(name string) *ServiceDeclaration {
	for i := range m.Services {
		if m.Services[i].Name == name {
			return &m.Services[i]
		}
	}
	return nil
}

// SecretKeys returns the keys of all secret entries in declaration order
func (s *ServiceDeclaration) SecretKeys() []string {
	keys := []string{}
	for i := range s.EnvVars {
		if s.EnvVars[i].IsSecret() {
			keys = append(keys, s.EnvVars[i].Key)
		}
	}
	return keys
}

// Literals returns the non-secret entries that carry a literal value,
// keyed by variable name
func (s *ServiceDeclaration) Literals() map[string]string {
	literals := make(map[string]string)
	for i := range s.EnvVars {
		if !s.EnvVars[i].IsSecret() && s.EnvVars[i].Value != "" {
			literals[s.EnvVars[i].Key] = s.EnvVars[i].Value
		}
	}
	return literals
}
