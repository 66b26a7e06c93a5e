package kubernetes

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// RenderSecret renders the Secret holding a service's secret env vars.
// Returns nil when the service declares no secrets.
func RenderSecret(spec *WorkloadSpec) *corev1.Secret {
	if len(spec.Secrets) == 0 {
		return nil
	}

	// K8s expects []byte values
	secretData := make(map[string][]byte)
	for key, value := range spec.Secrets {
		secretData[key] = []byte(value)
	}

	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Secret",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      SecretName(spec.Service.Name),
			Namespace: spec.Namespace,
			Labels:    workloadLabels(spec.Service.Name),
		},
		Data: secretData,
		Type: corev1.SecretTypeOpaque,
	}
}

// ApplySecret creates or replaces a service's Secret in the cluster
func (c *Client) ApplySecret(ctx context.Context, secret *corev1.Secret) error {
	secrets := c.clientset.CoreV1().Secrets(secret.Namespace)

	_, err := secrets.Create(ctx, secret, metav1.CreateOptions{})
	if err == nil {
		return nil
	}
	if !errors.IsAlreadyExists(err) {
		return fmt.Errorf("failed to create secret %s: %w", secret.Name, err)
	}

	if _, err := secrets.Update(ctx, secret, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("failed to update secret %s: %w", secret.Name, err)
	}

	return nil
}

// DeleteSecret deletes a service's Secret
// Ignores "not found" errors (secret already deleted)
func (c *Client) DeleteSecret(ctx context.Context, name, namespace string) error {
	err := c.clientset.CoreV1().Secrets(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete secret: %w", err)
	}

	return nil
}
