package kubernetes

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/drydock-dev/drydock/pkg/manifest"
)

// RenderService renders the ClusterIP Service in front of a web service.
// Returns nil for workers and cron jobs, which expose no ports.
func RenderService(spec *WorkloadSpec) *corev1.Service {
	if spec.Service.Type != manifest.TypeWeb {
		return nil
	}

	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Service",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      spec.Service.Name,
			Namespace: spec.Namespace,
			Labels:    workloadLabels(spec.Service.Name),
		},
		Spec: corev1.ServiceSpec{
			Type: corev1.ServiceTypeClusterIP,
			Selector: map[string]string{
				"app":     "drydock",
				"service": spec.Service.Name,
			},
			Ports: []corev1.ServicePort{
				{
					Name:       "http",
					Port:       80,
					TargetPort: intstr.FromInt32(WebPort),
					Protocol:   corev1.ProtocolTCP,
				},
			},
		},
	}
}

// ApplyService creates or replaces a web service's Service object
func (c *Client) ApplyService(ctx context.Context, service *corev1.Service) error {
	services := c.clientset.CoreV1().Services(service.Namespace)

	existing, err := services.Get(ctx, service.Name, metav1.GetOptions{})
	if err != nil {
		if !errors.IsNotFound(err) {
			return fmt.Errorf("failed to check service %s: %w", service.Name, err)
		}
		if _, err := services.Create(ctx, service, metav1.CreateOptions{}); err != nil {
			return fmt.Errorf("failed to create service %s: %w", service.Name, err)
		}
		return nil
	}

	// ClusterIP is immutable; carry it over on update
	service.Spec.ClusterIP = existing.Spec.ClusterIP
	service.ResourceVersion = existing.ResourceVersion
	if _, err := services.Update(ctx, service, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("failed to update service %s: %w", service.Name, err)
	}

	return nil
}

// DeleteService removes a web service's Service object
func (c *Client) DeleteService(ctx context.Context, name, namespace string) error {
	err := c.clientset.CoreV1().Services(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return nil
}
