package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/drydock-dev/drydock/pkg/envspec"
	"github.com/drydock-dev/drydock/pkg/kubernetes"
	"github.com/drydock-dev/drydock/pkg/manifest"
	"github.com/drydock-dev/drydock/pkg/state"
)

// DefaultReadyTimeout bounds the wait for a deployment rollout
const DefaultReadyTimeout = 5 * time.Minute

// NewDeployCommand creates a new deploy command
func NewDeployCommand() *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "deploy [service]",
		Short: "Deploy services to Kubernetes",
		Long: `Deploy renders each service into a Secret (secret env vars), a ConfigMap
(literal env vars) and a Deployment, plus a ClusterIP Service for web
services, and applies them to the cluster. Secret env vars are resolved
before anything is applied; a missing secret aborts the deploy and names
every absent key.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd, args, wait)
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", true, "Wait for deployments to become ready")

	return cmd
}

func runDeploy(cmd *cobra.Command, args []string, wait bool) error {
	ctx := cmd.Context()

	m, manifestPath, err := loadManifest(cmd)
	if err != nil {
		return err
	}

	services, err := selectServices(m, args)
	if err != nil {
		return err
	}

	cfgStore, secretStore, stateStore, err := stores(cmd)
	if err != nil {
		return err
	}

	globalCfg, err := cfgStore.LoadGlobalConfig()
	if err != nil {
		return err
	}

	printWarnings(m.Warnings())

	kubeconfigPath, _ := cmd.Flags().GetString("kubeconfig")
	client, err := kubernetes.NewClient(kubeconfigPath)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx); err != nil {
		return err
	}

	namespace := namespaceFor(cmd, globalCfg, client)

	for _, svc := range services {
		res, err := resolveEnv(svc, secretStore, globalCfg)
		if err != nil {
			return err
		}

		secretValues, err := deployableSecrets(svc, res)
		if err != nil {
			return fmt.Errorf("cannot deploy %s: %w", svc.Name, err)
		}

		image, err := imageForService(svc, globalCfg)
		if err != nil {
			return err
		}

		spec := &kubernetes.WorkloadSpec{
			Service:     svc,
			Namespace:   namespace,
			Image:       image,
			CPULimit:    globalCfg.Defaults.Resources.CPU,
			MemoryLimit: globalCfg.Defaults.Resources.Memory,
			Secrets:     secretValues,
		}

		fmt.Printf("⏳ Deploying %s to namespace %s...\n", svc.Name, namespace)
		if err := client.Deploy(ctx, spec); err != nil {
			return err
		}

		record := state.NewRecord(svc.Name, state.TargetKubernetes, manifestPath)
		record.Namespace = namespace
		record.UpdateStatus(state.StatusPending)
		if err := stateStore.Save(record); err != nil {
			return err
		}

		if wait {
			fmt.Printf("⏳ Waiting for %s to become ready...\n", svc.Name)
			if err := client.WaitForDeploymentReady(ctx, svc.Name, namespace, DefaultReadyTimeout); err != nil {
				record.UpdateStatus(state.StatusFailed)
				_ = stateStore.Save(record) // Best effort update
				return err
			}
		}

		record.UpdateStatus(state.StatusRunning)
		if err := stateStore.Save(record); err != nil {
			return err
		}

		fmt.Printf("✓ Deployed %s\n", svc.Name)
	}

	return nil
}

// secretValuesFor extracts just the secret entries from a full resolution
func secretValuesFor(svc *manifest.ServiceDeclaration, res *envspec.Resolution) map[string]string {
	values := make(map[string]string)
	for _, key := range svc.SecretKeys() {
		if value, ok := res.Values[key]; ok {
			values[key] = value
		}
	}
	return values
}

// deployableSecrets returns the secret values a deploy will ship, failing
// on unresolved keys or values past the cluster secret size limit
func deployableSecrets(svc *manifest.ServiceDeclaration, res *envspec.Resolution) (map[string]string, error) {
	if err := res.MissingError(); err != nil {
		return nil, err
	}

	values := secretValuesFor(svc, res)
	if err := envspec.ValidateSecretSize(values); err != nil {
		return nil, err
	}

	return values, nil
}
