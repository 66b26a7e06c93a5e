package kubernetes

import (
	"encoding/json"
	"fmt"
	"io"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/yaml"
)

// RedactedValue replaces secret values in exported manifests
const RedactedValue = "<REDACTED>"

// ManifestCollection holds the rendered cluster objects for one service.
// Nil members mean the service does not need that object.
type ManifestCollection struct {
	Secret     *corev1.Secret
	ConfigMap  *corev1.ConfigMap
	Deployment *appsv1.Deployment
	Service    *corev1.Service
}

// Render renders every cluster object a service needs
func Render(spec *WorkloadSpec) *ManifestCollection {
	return &ManifestCollection{
		Secret:     RenderSecret(spec),
		ConfigMap:  RenderConfigMap(spec),
		Deployment: RenderDeployment(spec),
		Service:    RenderService(spec),
	}
}

// Objects returns the non-nil objects in apply order. Secret values are
// redacted unless showSecrets is set.
func (m *ManifestCollection) Objects(showSecrets bool) []interface{} {
	objects := []interface{}{}

	if m.Secret != nil {
		if showSecrets {
			objects = append(objects, m.Secret)
		} else {
			objects = append(objects, redactSecret(m.Secret))
		}
	}
	if m.ConfigMap != nil {
		objects = append(objects, m.ConfigMap)
	}
	if m.Deployment != nil {
		objects = append(objects, m.Deployment)
	}
	if m.Service != nil {
		objects = append(objects, m.Service)
	}

	return objects
}

// WriteYAML writes the collection as a multi-document YAML stream
func (m *ManifestCollection) WriteYAML(w io.Writer, showSecrets bool) error {
	for i, obj := range m.Objects(showSecrets) {
		if i > 0 {
			if _, err := fmt.Fprintln(w, "---"); err != nil {
				return err
			}
		}

		data, err := yaml.Marshal(obj)
		if err != nil {
			return fmt.Errorf("failed to marshal manifest: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}

	return nil
}

// WriteJSON writes the collection as a JSON array
func (m *ManifestCollection) WriteJSON(w io.Writer, showSecrets bool) error {
	return WriteCollectionsJSON(w, []*ManifestCollection{m}, showSecrets)
}

// WriteCollectionsJSON writes several collections as one JSON array, so a
// multi-service manifest still exports a single valid document
func WriteCollectionsJSON(w io.Writer, collections []*ManifestCollection, showSecrets bool) error {
	objects := []interface{}{}
	for _, collection := range collections {
		objects = append(objects, collection.Objects(showSecrets)...)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(objects); err != nil {
		return fmt.Errorf("failed to marshal manifests: %w", err)
	}

	return nil
}

// redactSecret returns a copy of the secret with every value replaced.
// Redacted values go in stringData so they stay readable in the output
// instead of base64-encoding.
func redactSecret(secret *corev1.Secret) *corev1.Secret {
	redacted := secret.DeepCopy()
	redacted.Data = nil
	redacted.StringData = make(map[string]string, len(secret.Data))
	for key := range secret.Data {
		redacted.StringData[key] = RedactedValue
	}
	return redacted
}
