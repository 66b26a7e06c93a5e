package kubernetes

import (
	"k8s.io/client-go/kubernetes"

	"github.com/drydock-dev/drydock/pkg/manifest"
)

// Client wraps the Kubernetes clientset and provides convenience methods
type Client struct {
	clientset *kubernetes.Clientset
	config    *Config
}

// Config holds configuration for the Kubernetes client
type Config struct {
	KubeconfigPath string
	Namespace      string
}

// WorkloadSpec contains everything needed to render a service's cluster
// objects. Secrets carries resolved secret values only; literal env vars
// come from the service declaration itself.
type WorkloadSpec struct {
	Service     *manifest.ServiceDeclaration
	Namespace   string
	Image       string
	CPULimit    string
	MemoryLimit string
	Secrets     map[string]string
}

// Object name prefixes for the cluster resources a service owns
const (
	SecretNamePrefix    = "drydock-env-"
	ConfigMapNamePrefix = "drydock-config-"
)

// WebPort is the container port web services are expected to listen on.
// It is exposed to the process as the PORT environment variable.
const WebPort int32 = 8080

// SecretName returns the name of the Secret holding a service's secret env vars
func SecretName(service string) string {
	return SecretNamePrefix + service
}

// ConfigMapName returns the name of the ConfigMap holding a service's
// non-secret env vars
func ConfigMapName(service string) string {
	return ConfigMapNamePrefix + service
}

// workloadLabels returns the common labels for every object a service owns
func workloadLabels(service string) map[string]string {
	return map[string]string{
		"app":        "drydock",
		"service":    service,
		"managed-by": "drydock",
	}
}
