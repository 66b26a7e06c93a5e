package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drydock-dev/drydock/pkg/kubernetes"
	"github.com/drydock-dev/drydock/pkg/state"
)

// NewDownCommand creates a new down command
func NewDownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "down <service>",
		Short: "Tear down a deployed service",
		Long: `Down removes a service's deploy record. For Kubernetes deploys it also
deletes the service's cluster objects (Deployment, Service, ConfigMap and
Secret). Local deploys stop when their foreground process exits; down
clears the record they left behind.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDown(cmd, args[0])
		},
	}
}

func runDown(cmd *cobra.Command, service string) error {
	ctx := cmd.Context()

	_, _, stateStore, err := stores(cmd)
	if err != nil {
		return err
	}

	record, err := stateStore.Load(service)
	if err != nil {
		if errors.Is(err, state.ErrDeployNotFound) {
			fmt.Printf("No deploy record for %s\n", service)
			return nil
		}
		return err
	}

	if record.Target == state.TargetKubernetes {
		kubeconfigPath, _ := cmd.Flags().GetString("kubeconfig")
		client, err := kubernetes.NewClient(kubeconfigPath)
		if err != nil {
			return err
		}

		fmt.Printf("⏳ Tearing down %s in namespace %s...\n", service, record.Namespace)
		if err := client.Teardown(ctx, service, record.Namespace); err != nil {
			return err
		}
	}

	if err := stateStore.Delete(service); err != nil {
		return err
	}

	fmt.Printf("✓ Tore down %s\n", service)
	return nil
}
