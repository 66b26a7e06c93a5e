package kubernetes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"

	"github.com/drydock-dev/drydock/pkg/manifest"
)

func boolPtr(b bool) *bool { return &b }

func workerSpec() *WorkloadSpec {
	return &WorkloadSpec{
		Service: &manifest.ServiceDeclaration{
			Type:         manifest.TypeWorker,
			Name:         "referral-bot",
			Runtime:      manifest.RuntimePython,
			BuildCommand: "pip install -r requirements.txt",
			StartCommand: "python tgbot.py",
			EnvVars: []manifest.EnvVarSpec{
				{Key: "TELEGRAM_BOT_TOKEN", Sync: boolPtr(false)},
				{Key: "SUPABASE_URL", Sync: boolPtr(false)},
				{Key: "PYTHON_VERSION", Value: "3.11.0"},
			},
		},
		Namespace:   "bots",
		Image:       "python:3.11-slim",
		CPULimit:    "500m",
		MemoryLimit: "512Mi",
		Secrets: map[string]string{
			"TELEGRAM_BOT_TOKEN": "tok-secret",
			"SUPABASE_URL":       "https://example.supabase.co",
		},
	}
}

func webSpec() *WorkloadSpec {
	return &WorkloadSpec{
		Service: &manifest.ServiceDeclaration{
			Type:            manifest.TypeWeb,
			Name:            "billing-web",
			Runtime:         manifest.RuntimeNode,
			BuildCommand:    "npm ci",
			StartCommand:    "node server.js",
			HealthCheckPath: "/healthz",
		},
		Namespace: "default",
		Image:     "node:20-slim",
	}
}

func TestRenderSecret(t *testing.T) {
	secret := RenderSecret(workerSpec())
	require.NotNil(t, secret)

	assert.Equal(t, "drydock-env-referral-bot", secret.Name)
	assert.Equal(t, "bots", secret.Namespace)
	assert.Equal(t, "drydock", secret.Labels["app"])
	assert.Equal(t, "referral-bot", secret.Labels["service"])
	assert.Equal(t, corev1.SecretTypeOpaque, secret.Type)
	assert.Equal(t, []byte("tok-secret"), secret.Data["TELEGRAM_BOT_TOKEN"])

	// Literal values never end up in the Secret
	assert.NotContains(t, secret.Data, "PYTHON_VERSION")
}

func TestRenderSecret_NoSecrets(t *testing.T) {
	assert.Nil(t, RenderSecret(webSpec()))
}

func TestRenderConfigMap(t *testing.T) {
	configMap := RenderConfigMap(workerSpec())
	require.NotNil(t, configMap)

	assert.Equal(t, "drydock-config-referral-bot", configMap.Name)
	assert.Equal(t, "3.11.0", configMap.Data["PYTHON_VERSION"])
	assert.NotContains(t, configMap.Data, "TELEGRAM_BOT_TOKEN")
}

func TestRenderConfigMap_NoLiterals(t *testing.T) {
	assert.Nil(t, RenderConfigMap(webSpec()))
}

func TestRenderDeployment_Worker(t *testing.T) {
	deployment := RenderDeployment(workerSpec())
	require.NotNil(t, deployment)

	assert.Equal(t, "referral-bot", deployment.Name)
	assert.Equal(t, int32(1), *deployment.Spec.Replicas)

	require.Len(t, deployment.Spec.Template.Spec.Containers, 1)
	container := deployment.Spec.Template.Spec.Containers[0]

	assert.Equal(t, "python:3.11-slim", container.Image)
	assert.Equal(t, []string{"/bin/sh", "-c"}, container.Command)
	require.Len(t, container.Args, 1)
	assert.Equal(t, "pip install -r requirements.txt && exec python tgbot.py", container.Args[0])

	// Workers expose no ports and get no probe
	assert.Empty(t, container.Ports)
	assert.Nil(t, container.ReadinessProbe)

	// Env comes from the Secret and ConfigMap
	require.Len(t, container.EnvFrom, 2)
	assert.Equal(t, "drydock-env-referral-bot", container.EnvFrom[0].SecretRef.Name)
	assert.Equal(t, "drydock-config-referral-bot", container.EnvFrom[1].ConfigMapRef.Name)

	// Requests are half the limits
	assert.Equal(t, "500m", container.Resources.Limits.Cpu().String())
	assert.Equal(t, "512Mi", container.Resources.Limits.Memory().String())
	assert.Equal(t, container.Resources.Limits.Memory().Value()/2, container.Resources.Requests.Memory().Value())
}

func TestRenderDeployment_WebGetsProbeAndPort(t *testing.T) {
	deployment := RenderDeployment(webSpec())
	container := deployment.Spec.Template.Spec.Containers[0]

	require.Len(t, container.Ports, 1)
	assert.Equal(t, WebPort, container.Ports[0].ContainerPort)

	require.NotNil(t, container.ReadinessProbe)
	assert.Equal(t, "/healthz", container.ReadinessProbe.ProbeHandler.HTTPGet.Path)
	assert.Equal(t, WebPort, container.ReadinessProbe.ProbeHandler.HTTPGet.Port.IntVal)

	assert.Contains(t, container.Env, corev1.EnvVar{Name: "PORT", Value: "8080"})

	// No env sources declared for this service
	assert.Empty(t, container.EnvFrom)
}

func TestRenderService(t *testing.T) {
	service := RenderService(webSpec())
	require.NotNil(t, service)

	assert.Equal(t, "billing-web", service.Name)
	assert.Equal(t, corev1.ServiceTypeClusterIP, service.Spec.Type)
	require.Len(t, service.Spec.Ports, 1)
	assert.Equal(t, int32(80), service.Spec.Ports[0].Port)
	assert.Equal(t, WebPort, service.Spec.Ports[0].TargetPort.IntVal)
	assert.Equal(t, "billing-web", service.Spec.Selector["service"])
}

func TestRenderService_WorkerGetsNone(t *testing.T) {
	assert.Nil(t, RenderService(workerSpec()))
}
