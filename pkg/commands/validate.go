package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates a new validate command
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the deployment manifest",
		Long: `Validate checks the manifest for structural errors: unrecognized service
types or runtimes, missing commands, duplicate service names or env var
keys, and secrets carrying literal values. Lint findings that don't fail
validation are printed as warnings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd)
		},
	}
}

func runValidate(cmd *cobra.Command) error {
	m, path, err := loadManifest(cmd)
	if err != nil {
		return err
	}

	printWarnings(m.Warnings())

	fmt.Printf("✓ %s is valid (%d service%s)\n", path, len(m.Services), plural(len(m.Services)))
	return nil
}

func plural(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
