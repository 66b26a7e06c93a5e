package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drydock-dev/drydock/pkg/kubernetes"
)

// NewExportCommand creates a new export command
func NewExportCommand() *cobra.Command {
	var outputFormat string
	var outputFile string
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "export [service]",
		Short: "Render Kubernetes manifests without applying them",
		Long: `Export renders the cluster objects each service would get from deploy and
writes them as a multi-document YAML stream or a JSON array. Secret values
are redacted unless --show-secrets is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, outputFormat, outputFile, showSecrets)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format: yaml, json")
	cmd.Flags().StringVar(&outputFile, "file", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Include secret values in the output")

	return cmd
}

func runExport(cmd *cobra.Command, args []string, outputFormat, outputFile string, showSecrets bool) error {
	m, _, err := loadManifest(cmd)
	if err != nil {
		return err
	}

	services, err := selectServices(m, args)
	if err != nil {
		return err
	}

	cfgStore, secretStore, _, err := stores(cmd)
	if err != nil {
		return err
	}

	globalCfg, err := cfgStore.LoadGlobalConfig()
	if err != nil {
		return err
	}

	out := os.Stdout
	if outputFile != "" {
		// #nosec G304 -- outputFile comes from a CLI flag
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	namespace := namespaceFor(cmd, globalCfg, nil)

	collections := make([]*kubernetes.ManifestCollection, 0, len(services))
	for _, svc := range services {
		res, err := resolveEnv(svc, secretStore, globalCfg)
		if err != nil {
			return err
		}

		image, err := imageForService(svc, globalCfg)
		if err != nil {
			return err
		}

		collections = append(collections, kubernetes.Render(&kubernetes.WorkloadSpec{
			Service:     svc,
			Namespace:   namespace,
			Image:       image,
			CPULimit:    globalCfg.Defaults.Resources.CPU,
			MemoryLimit: globalCfg.Defaults.Resources.Memory,
			Secrets:     secretValuesFor(svc, res),
		}))
	}

	switch outputFormat {
	case "json":
		// One JSON array covering every service
		return kubernetes.WriteCollectionsJSON(out, collections, showSecrets)
	case "yaml":
		for i, collection := range collections {
			if i > 0 {
				if _, err := fmt.Fprintln(out, "---"); err != nil {
					return err
				}
			}
			if err := collection.WriteYAML(out, showSecrets); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (expected yaml or json)", outputFormat)
	}
}
