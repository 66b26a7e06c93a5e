package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/drydock-dev/drydock/pkg/state"
)

// NewListCommand creates a new list command
func NewListCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List deployed services",
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, yaml")

	return cmd
}

func runList(cmd *cobra.Command, outputFormat string) error {
	_, _, stateStore, err := stores(cmd)
	if err != nil {
		return err
	}

	records, err := stateStore.List()
	if err != nil {
		return fmt.Errorf("failed to list deploys: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No deploys found")
		return nil
	}

	switch outputFormat {
	case "yaml":
		return outputYAML(records)
	default:
		return outputTable(records)
	}
}

func outputTable(records []*state.DeployRecord) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	_, _ = fmt.Fprintln(w, "NAME\tTARGET\tNAMESPACE\tSTATUS\tAGE")

	for _, record := range records {
		namespace := record.Namespace
		if namespace == "" {
			namespace = "-"
		}

		age := formatDuration(time.Since(record.CreatedAt))

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			record.Service,
			record.Target,
			namespace,
			record.Status,
			age,
		)
	}

	return nil
}

func outputYAML(records []*state.DeployRecord) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	defer func() { _ = encoder.Close() }()

	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("failed to encode deploy record to YAML: %w", err)
		}
		fmt.Println("---")
	}

	return nil
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	} else if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	} else if d < 7*24*time.Hour {
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	} else if d < 30*24*time.Hour {
		return fmt.Sprintf("%dw", int(d.Hours()/(24*7)))
	} else {
		return fmt.Sprintf("%dmo", int(d.Hours()/(24*30)))
	}
}
