package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/drydock-dev/drydock/pkg/state"
	"github.com/drydock-dev/drydock/pkg/watch"
)

// NewWatchCommand creates a new watch command
func NewWatchCommand() *cobra.Command {
	var appDir string

	cmd := &cobra.Command{
		Use:   "watch <service>",
		Short: "Run a service locally and redeploy on changes",
		Long: `Watch runs a service like up, then monitors the manifest and optionally an
application directory. When either changes the running process is stopped,
the manifest is re-read, and the service is rebuilt and restarted. The
.gitignore of the watched directory is honored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], appDir)
		},
	}

	cmd.Flags().StringVar(&appDir, "dir", "", "Application directory to watch and run commands in")

	return cmd
}

func runWatch(cmd *cobra.Command, service, appDir string) error {
	manifestFlag, _ := cmd.Flags().GetString("manifest")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	restart := make(chan struct{}, 1)
	watcher, err := watch.New(watch.Options{
		ManifestPath: manifestFlag,
		AppDir:       appDir,
		OnChange: func(paths []string) {
			fmt.Printf("🔄 Change detected (%d file%s), redeploying...\n", len(paths), plural(len(paths)))
			select {
			case restart <- struct{}{}:
			default:
			}
		},
	})
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Stop() }()

	watcher.Start(ctx)

	for {
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() {
			done <- watchDeployOnce(runCtx, cmd, service, appDir)
		}()

		select {
		case <-ctx.Done():
			cancel()
			<-done
			fmt.Println("✓ Watch stopped")
			return nil

		case <-restart:
			cancel()
			<-done

		case err := <-done:
			cancel()
			if err != nil {
				fmt.Fprintf(os.Stderr, "⚠️  Deploy failed: %v\n", err)
			}

			// Idle until the next change
			select {
			case <-ctx.Done():
				fmt.Println("✓ Watch stopped")
				return nil
			case <-restart:
			}
		}
	}
}

// watchDeployOnce re-reads the manifest and runs one local deploy cycle
func watchDeployOnce(ctx context.Context, cmd *cobra.Command, service, appDir string) error {
	m, manifestPath, err := loadManifest(cmd)
	if err != nil {
		return err
	}

	services, err := selectServices(m, []string{service})
	if err != nil {
		return err
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

	record := state.NewRecord(svc.Name, state.TargetLocal, manifestPath)
	record.PID = os.Getpid()

	return runLocal(ctx, svc, res, record, stateStore, globalCfg, appDir)
}
