package kubernetes

import (
	"context"
	"fmt"
)

// Deploy renders and applies every cluster object a service needs, in
// dependency order so the Deployment never starts before its env sources
// exist
func (c *Client) Deploy(ctx context.Context, spec *WorkloadSpec) error {
	collection := Render(spec)

	if collection.Secret != nil {
		if err := c.ApplySecret(ctx, collection.Secret); err != nil {
			return err
		}
	}
	if collection.ConfigMap != nil {
		if err := c.ApplyConfigMap(ctx, collection.ConfigMap); err != nil {
			return err
		}
	}
	if err := c.ApplyDeployment(ctx, collection.Deployment); err != nil {
		return err
	}
	if collection.Service != nil {
		if err := c.ApplyService(ctx, collection.Service); err != nil {
			return err
		}
	}

	return nil
}

// Teardown removes every cluster object a service owns. Objects that do
// not exist are skipped.
func (c *Client) Teardown(ctx context.Context, service, namespace string) error {
	if err := c.DeleteService(ctx, service, namespace); err != nil {
		return fmt.Errorf("failed to tear down %s: %w", service, err)
	}
	if err := c.DeleteDeployment(ctx, service, namespace); err != nil {
		return fmt.Errorf("failed to tear down %s: %w", service, err)
	}
	if err := c.DeleteConfigMap(ctx, ConfigMapName(service), namespace); err != nil {
		return fmt.Errorf("failed to tear down %s: %w", service, err)
	}
	if err := c.DeleteSecret(ctx, SecretName(service), namespace); err != nil {
		return fmt.Errorf("failed to tear down %s: %w", service, err)
	}

	return nil
}
