package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSecretsCommand creates the secrets command group
func NewSecretsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Manage out-of-band secret values for services",
		Long: `Secrets stores values for env vars declared with sync: false. Values live
in per-service files under the config directory and are injected at deploy
time; they never enter the manifest.`,
	}

	cmd.AddCommand(newSecretsSetCommand())
	cmd.AddCommand(newSecretsUnsetCommand())
	cmd.AddCommand(newSecretsListCommand())
	cmd.AddCommand(newSecretsImportCommand())

	return cmd
}

func newSecretsSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <service> <KEY> <value>",
		Short: "Set a secret value for a service",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, secretStore, _, err := stores(cmd)
			if err != nil {
				return err
			}

			if err := secretStore.Set(args[0], args[1], args[2]); err != nil {
				return err
			}

			fmt.Printf("✓ Set %s for %s\n", args[1], args[0])
			return nil
		},
	}
}

func newSecretsUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <service> <KEY>",
		Short: "Remove a secret value from a service",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, secretStore, _, err := stores(cmd)
			if err != nil {
				return err
			}

			if err := secretStore.Unset(args[0], args[1]); err != nil {
				return err
			}

			fmt.Printf("✓ Unset %s for %s\n", args[1], args[0])
			return nil
		},
	}
}

func newSecretsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <service>",
		Short: "List secret keys for a service (values are never printed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, secretStore, _, err := stores(cmd)
			if err != nil {
				return err
			}

			keys, err := secretStore.Keys(args[0])
			if err != nil {
				return err
			}

			if len(keys) == 0 {
				fmt.Printf("No secrets stored for %s\n", args[0])
				return nil
			}

			for _, key := range keys {
				fmt.Println(key)
			}
			return nil
		},
	}
}

func newSecretsImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <service> <dotenv-file>...",
		Short: "Import secret values from dotenv files",
		Long: `Import reads KEY=value pairs from dotenv files into the service's secret
store. Invalid variable names and shell housekeeping variables are skipped.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, secretStore, _, err := stores(cmd)
			if err != nil {
				return err
			}

			count, err := secretStore.ImportDotenv(args[0], args[1:])
			if err != nil {
				return err
			}

			fmt.Printf("✓ Imported %d value%s for %s\n", count, plural(count), args[0])
			return nil
		},
	}
}
