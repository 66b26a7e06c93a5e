package kubernetes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// NewClient creates a client for the cluster services deploy to. Inside a
// cluster the service-account config is used; otherwise the kubeconfig at
// kubeconfigPath (or its usual default locations).
func NewClient(kubeconfigPath string) (*Client, error) {
	restConfig, err := buildConfig(kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build kubernetes config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}

	return &Client{
		clientset: clientset,
		config: &Config{
			KubeconfigPath: kubeconfigPath,
		},
	}, nil
}

func buildConfig(kubeconfigPath string) (*rest.Config, error) {
	// In-cluster config wins when present
	restConfig, err := rest.InClusterConfig()
	if err == nil {
		return restConfig, nil
	}

	if kubeconfigPath == "" {
		kubeconfigPath = defaultKubeconfigPath()
	}

	restConfig, err = clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build config from kubeconfig: %w", err)
	}

	return restConfig, nil
}

// defaultKubeconfigPath honors KUBECONFIG before falling back to
// ~/.kube/config
func defaultKubeconfigPath() string {
	if kubeconfigEnv := os.Getenv("KUBECONFIG"); kubeconfigEnv != "" {
		return kubeconfigEnv
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".kube", "config")
}

// CurrentNamespace returns the namespace of the kubeconfig's current
// context. Deploys land here when neither the --namespace flag nor the
// global config names one. Falls back to "default".
func (c *Client) CurrentNamespace() (string, error) {
	kubeconfigPath := c.config.KubeconfigPath
	if kubeconfigPath == "" {
		kubeconfigPath = defaultKubeconfigPath()
	}

	kubeconfig, err := clientcmd.LoadFromFile(kubeconfigPath)
	if err != nil {
		return "", fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	kubeContext, exists := kubeconfig.Contexts[kubeconfig.CurrentContext]
	if !exists || kubeContext.Namespace == "" {
		return "default", nil
	}

	return kubeContext.Namespace, nil
}

// Ping verifies the cluster is reachable before any objects are applied
func (c *Client) Ping(ctx context.Context) error {
	result := c.clientset.Discovery().RESTClient().Get().AbsPath("/version").Do(ctx)
	if err := result.Error(); err != nil {
		return fmt.Errorf("failed to connect to kubernetes cluster: %w", err)
	}
	return nil
}
