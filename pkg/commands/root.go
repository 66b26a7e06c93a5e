package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drydock-dev/drydock/internal/version"
)

// NewRootCommand creates the root command for drydock
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drydock",
		Short: "Deploy manifest-declared services locally or to Kubernetes",
		Long: `drydock reads a deployment manifest (drydock.yaml) describing services,
their runtimes, build/start commands and environment variable tables, and
provisions them as local processes or Kubernetes workloads. Secret env vars
(sync: false) are resolved from the local secret store and verified before
every deploy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringP("manifest", "f", "drydock.yaml", "Path to the deployment manifest")
	cmd.PersistentFlags().String("config-dir", "", "Configuration directory (default ~/.drydock)")
	cmd.PersistentFlags().String("kubeconfig", "", "Path to kubeconfig file")
	cmd.PersistentFlags().StringP("namespace", "n", "", "Kubernetes namespace")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewCheckCommand())
	cmd.AddCommand(NewSecretsCommand())
	cmd.AddCommand(NewUpCommand())
	cmd.AddCommand(NewDeployCommand())
	cmd.AddCommand(NewExportCommand())
	cmd.AddCommand(NewDownCommand())
	cmd.AddCommand(NewWatchCommand())
	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("drydock version %s\n", version.Version)
		},
	}
}
