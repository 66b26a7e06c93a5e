package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/drydock-dev/drydock/pkg/config"
	"github.com/drydock-dev/drydock/pkg/envspec"
	"github.com/drydock-dev/drydock/pkg/localrun"
	"github.com/drydock-dev/drydock/pkg/manifest"
	"github.com/drydock-dev/drydock/pkg/state"
)

// NewUpCommand creates a new up command
func NewUpCommand() *cobra.Command {
	var appDir string

	cmd := &cobra.Command{
		Use:   "up [service]",
		Short: "Build and run a service locally",
		Long: `Up provisions a service as a local process: the build command runs once,
then the start command runs in the foreground under the configured restart
policy. Secret env vars are resolved before anything runs; a missing secret
aborts the deploy and names every absent key.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUp(cmd, args, appDir)
		},
	}

	cmd.Flags().StringVar(&appDir, "dir", "", "Working directory for build and start commands")

	return cmd
}

func runUp(cmd *cobra.Command, args []string, appDir string) error {
	m, manifestPath, err := loadManifest(cmd)
	if err != nil {
		return err
	}

	services, err := selectServices(m, args)
	if err != nil {
		return err
	}
	if len(services) != 1 {
		return fmt.Errorf("up runs one service in the foreground; name one of the %d declared services", len(services))
	}
	svc := services[0]

	cfgStore, secretStore, stateStore, err := stores(cmd)
	if err != nil {
		return err
	}

	globalCfg, err := cfgStore.LoadGlobalConfig()
	if err != nil {
		return err
	}

	printWarnings(m.Warnings())

	res, err := resolveEnv(svc, secretStore, globalCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	record := state.NewRecord(svc.Name, state.TargetLocal, manifestPath)
	record.PID = os.Getpid()

	return runLocal(ctx, svc, res, record, stateStore, globalCfg, appDir)
}

// runLocal drives a single local deploy, keeping the deploy record in
// step with the process lifecycle
func runLocal(
	ctx context.Context,
	svc *manifest.ServiceDeclaration,
	res *envspec.Resolution,
	record *state.DeployRecord,
	stateStore *state.Store,
	globalCfg *config.GlobalConfig,
	appDir string,
) error {
	runner := localrun.NewRunner(localrun.Options{
		Dir:            appDir,
		MaxRestarts:    globalCfg.Local.MaxRestarts,
		RestartBackoff: time.Duration(globalCfg.Local.RestartBackoffSeconds) * time.Second,
	})

	if err := runner.Prepare(svc, res); err != nil {
		return err
	}

	record.UpdateStatus(state.StatusBuilding)
	if err := stateStore.Save(record); err != nil {
		return err
	}

	fmt.Printf("⏳ Building %s...\n", svc.Name)
	if err := runner.Build(ctx, svc, res); err != nil {
		record.UpdateStatus(state.StatusFailed)
		_ = stateStore.Save(record) // Best effort update
		return err
	}

	record.UpdateStatus(state.StatusRunning)
	if err := stateStore.Save(record); err != nil {
		return err
	}

	fmt.Printf("✓ Build complete\n⏳ Starting %s (%s)...\n", svc.Name, svc.StartCommand)
	if err := runner.Start(ctx, svc, res); err != nil {
		record.UpdateStatus(state.StatusFailed)
		_ = stateStore.Save(record) // Best effort update
		return err
	}

	record.UpdateStatus(state.StatusStopped)
	_ = stateStore.Save(record) // Best effort update

	fmt.Printf("✓ %s stopped\n", svc.Name)
	return nil
}
