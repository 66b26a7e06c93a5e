package kubernetes

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// RenderConfigMap renders the ConfigMap holding a service's non-secret
// env vars. Returns nil when the service declares no literal values.
func RenderConfigMap(spec *WorkloadSpec) *corev1.ConfigMap {
	literals := spec.Service.Literals()
	if len(literals) == 0 {
		return nil
	}

	return &corev1.ConfigMap{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "ConfigMap",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      ConfigMapName(spec.Service.Name),
			Namespace: spec.Namespace,
			Labels:    workloadLabels(spec.Service.Name),
		},
		Data: literals,
	}
}

// ApplyConfigMap creates or replaces a service's ConfigMap in the cluster
func (c *Client) ApplyConfigMap(ctx context.Context, configMap *corev1.ConfigMap) error {
	configMaps := c.clientset.CoreV1().ConfigMaps(configMap.Namespace)

	_, err := configMaps.Create(ctx, configMap, metav1.CreateOptions{})
	if err == nil {
		return nil
	}
	if !errors.IsAlreadyExists(err) {
		return fmt.Errorf("failed to create ConfigMap %s: %w", configMap.Name, err)
	}

	if _, err := configMaps.Update(ctx, configMap, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("failed to update ConfigMap %s: %w", configMap.Name, err)
	}

	return nil
}

// DeleteConfigMap removes a service's ConfigMap
func (c *Client) DeleteConfigMap(ctx context.Context, name, namespace string) error {
	err := c.clientset.CoreV1().ConfigMaps(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		if errors.IsNotFound(err) {
			// ConfigMap doesn't exist, not an error
			return nil
		}
		return fmt.Errorf("failed to delete ConfigMap: %w", err)
	}
	return nil
}
