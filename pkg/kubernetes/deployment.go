package kubernetes

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/utils/ptr"

	"github.com/drydock-dev/drydock/pkg/manifest"
)

// RenderDeployment renders the Deployment running a service. The container
// runs the build command followed by the start command under the image's
// shell, with env vars injected from the service's Secret and ConfigMap.
func RenderDeployment(spec *WorkloadSpec) *appsv1.Deployment {
	svc := spec.Service

	container := corev1.Container{
		Name:       svc.Name,
		Image:      spec.Image,
		Command:    []string{"/bin/sh", "-c"},
		Args:       []string{fmt.Sprintf("%s && exec %s", svc.BuildCommand, svc.StartCommand)},
		WorkingDir: "/app",
		Resources:  buildResourceRequirements(spec.CPULimit, spec.MemoryLimit),
		EnvFrom:    buildEnvFromSources(spec),
	}

	if svc.Type == manifest.TypeWeb {
		container.Ports = []corev1.ContainerPort{
			{
				Name:          "http",
				ContainerPort: WebPort,
				Protocol:      corev1.ProtocolTCP,
			},
		}
		container.Env = append(container.Env, corev1.EnvVar{
			Name:  "PORT",
			Value: fmt.Sprintf("%d", WebPort),
		})

		// Workers and cron jobs have no HTTP surface to probe
		if svc.HealthCheckPath != "" {
			container.ReadinessProbe = &corev1.Probe{
				ProbeHandler: corev1.ProbeHandler{
					HTTPGet: &corev1.HTTPGetAction{
						Path: svc.HealthCheckPath,
						Port: intstr.FromInt32(WebPort),
					},
				},
				InitialDelaySeconds: 10,
				PeriodSeconds:       10,
				FailureThreshold:    3,
			}
		}
	}

	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "apps/v1",
			Kind:       "Deployment",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      svc.Name,
			Namespace: spec.Namespace,
			Labels:    workloadLabels(svc.Name),
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(int32(1)),
			Selector: &metav1.LabelSelector{
				MatchLabels: map[string]string{
					"app":     "drydock",
					"service": svc.Name,
				},
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: workloadLabels(svc.Name),
				},
				Spec: corev1.PodSpec{
					Containers:    []corev1.Container{container},
					RestartPolicy: corev1.RestartPolicyAlways,
				},
			},
		},
	}
}

// buildEnvFromSources wires the service's Secret and ConfigMap into the
// container environment
func buildEnvFromSources(spec *WorkloadSpec) []corev1.EnvFromSource {
	sources := []corev1.EnvFromSource{}

	if len(spec.Secrets) > 0 {
		sources = append(sources, corev1.EnvFromSource{
			SecretRef: &corev1.SecretEnvSource{
				LocalObjectReference: corev1.LocalObjectReference{
					Name: SecretName(spec.Service.Name),
				},
			},
		})
	}

	if len(spec.Service.Literals()) > 0 {
		sources = append(sources, corev1.EnvFromSource{
			ConfigMapRef: &corev1.ConfigMapEnvSource{
				LocalObjectReference: corev1.LocalObjectReference{
					Name: ConfigMapName(spec.Service.Name),
				},
			},
		})
	}

	return sources
}

// buildResourceRequirements creates resource requirements from CPU and memory limits
func buildResourceRequirements(cpu, memory string) corev1.ResourceRequirements {
	requirements := corev1.ResourceRequirements{
		Limits:   corev1.ResourceList{},
		Requests: corev1.ResourceList{},
	}

	if cpu != "" {
		cpuQuantity, err := resource.ParseQuantity(cpu)
		if err == nil {
			requirements.Limits[corev1.ResourceCPU] = cpuQuantity
			// Set requests to 50% of limits
			requestCPU := cpuQuantity.DeepCopy()
			requestCPU.Set(requestCPU.Value() / 2)
			requirements.Requests[corev1.ResourceCPU] = requestCPU
		}
	}

	if memory != "" {
		memQuantity, err := resource.ParseQuantity(memory)
		if err == nil {
			requirements.Limits[corev1.ResourceMemory] = memQuantity
			// Set requests to 50% of limits
			requestMem := memQuantity.DeepCopy()
			requestMem.Set(requestMem.Value() / 2)
			requirements.Requests[corev1.ResourceMemory] = requestMem
		}
	}

	return requirements
}

// ApplyDeployment creates or replaces a service's Deployment in the cluster
func (c *Client) ApplyDeployment(ctx context.Context, deployment *appsv1.Deployment) error {
	deployments := c.clientset.AppsV1().Deployments(deployment.Namespace)

	_, err := deployments.Create(ctx, deployment, metav1.CreateOptions{})
	if err == nil {
		return nil
	}
	if !errors.IsAlreadyExists(err) {
		return fmt.Errorf("failed to create deployment %s: %w", deployment.Name, err)
	}

	if _, err := deployments.Update(ctx, deployment, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("failed to update deployment %s: %w", deployment.Name, err)
	}

	return nil
}

// DeleteDeployment removes a service's Deployment from the cluster
func (c *Client) DeleteDeployment(ctx context.Context, name, namespace string) error {
	gracePeriod := int64(30)
	deleteOptions := metav1.DeleteOptions{
		GracePeriodSeconds: &gracePeriod,
	}

	err := c.clientset.AppsV1().Deployments(namespace).Delete(ctx, name, deleteOptions)
	if err != nil {
		if errors.IsNotFound(err) {
			// Deployment not found is considered success
			return nil
		}
		return fmt.Errorf("failed to delete deployment %s in namespace %s: %w", name, namespace, err)
	}

	return nil
}

// WaitForDeploymentReady watches the deployment until all replicas are available
func (c *Client) WaitForDeploymentReady(ctx context.Context, name, namespace string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	watcher, err := c.clientset.AppsV1().Deployments(namespace).Watch(ctx, metav1.ListOptions{
		FieldSelector: fmt.Sprintf("metadata.name=%s", name),
	})
	if err != nil {
		return fmt.Errorf("failed to watch deployment %s: %w", name, err)
	}
	defer watcher.Stop()

	for {
		select {
		case event, ok := <-watcher.ResultChan():
			if !ok {
				return fmt.Errorf("watch channel closed unexpectedly for deployment %s", name)
			}

			if event.Type == watch.Error {
				return fmt.Errorf("watch error for deployment %s", name)
			}

			deployment, ok := event.Object.(*appsv1.Deployment)
			if !ok {
				continue
			}

			if deployment.Status.AvailableReplicas >= 1 {
				return nil
			}

		case <-ctx.Done():
			return fmt.Errorf("deployment %s did not become ready within %v", name, timeout)
		}
	}
}
