package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewCheckCommand creates a new check command
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [service]",
		Short: "Verify every env var can be resolved before deploying",
		Long: `Check resolves each service's environment variable table against the
secret store, configured dotenv files and the OS environment, and reports
which secrets are still missing. A missing secret would make the deploy
fail, so check exits non-zero when any remain unresolved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args)
		},
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	printWarnings(m.Warnings())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SERVICE\tKEY\tKIND\tSTATUS")

	missingTotal := 0
	for _, svc := range services {
		res, err := resolveEnv(svc, secretStore, globalCfg)
		if err != nil {
			return err
		}

		missing := make(map[string]bool, len(res.Missing))
		for _, key := range res.Missing {
			missing[key] = true
		}

		for i := range svc.EnvVars {
			entry := &svc.EnvVars[i]

			kind := "literal"
			if entry.IsSecret() {
				kind = "secret"
			}

			status := "✓ resolved"
			if missing[entry.Key] {
				status = "✗ missing"
				missingTotal++
			}

			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", svc.Name, entry.Key, kind, status)
		}
	}
	_ = w.Flush()

	if missingTotal > 0 {
		return fmt.Errorf("%d secret%s unresolved; set them with 'drydock secrets set'", missingTotal, plural(missingTotal))
	}

	fmt.Println("✓ All env vars resolved")
	return nil
}
