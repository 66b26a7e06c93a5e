package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drydock-dev/drydock/pkg/config"
	"github.com/drydock-dev/drydock/pkg/envspec"
	"github.com/drydock-dev/drydock/pkg/kubernetes"
	"github.com/drydock-dev/drydock/pkg/manifest"
	"github.com/drydock-dev/drydock/pkg/secrets"
	"github.com/drydock-dev/drydock/pkg/state"
)

// loadManifest reads and validates the manifest named by the --manifest flag
func loadManifest(cmd *cobra.Command) (*manifest.Manifest, string, error) {
	path, _ := cmd.Flags().GetString("manifest")

	resolved, err := config.ResolvePath(path)
	if err != nil {
		return nil, "", err
	}

	m, err := manifest.Load(resolved)
	if err != nil {
		return nil, "", err
	}

	if err := m.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid manifest %s: %w", path, err)
	}

	return m, resolved, nil
}

// configStore builds the config store, honoring --config-dir
func configStore(cmd *cobra.Command) (*config.Store, error) {
	dir, _ := cmd.Flags().GetString("config-dir")
	if dir == "" {
		return config.NewStore()
	}

	resolved, err := config.ResolvePath(dir)
	if err != nil {
		return nil, err
	}
	return config.NewStoreWithPath(resolved), nil
}

// stores builds the secret and deploy-record stores rooted at the config dir
func stores(cmd *cobra.Command) (*config.Store, *secrets.Store, *state.Store, error) {
	cfgStore, err := configStore(cmd)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize config store: %w", err)
	}

	if err := cfgStore.EnsureConfigDir(); err != nil {
		return nil, nil, nil, err
	}

	return cfgStore,
		secrets.NewStoreWithPath(cfgStore.SecretsDir()),
		state.NewStoreWithPath(cfgStore.DeploysDir()),
		nil
}

// selectServices picks the services an operation applies to. With no args
// every declared service is selected; with one arg the named service.
func selectServices(m *manifest.Manifest, args []string) ([]*manifest.ServiceDeclaration, error) {
	if len(args) == 0 {
		services := make([]*manifest.ServiceDeclaration, 0, len(m.Services))
		for i := range m.Services {
			services = append(services, &m.Services[i])
		}
		return services, nil
	}

	svc := m.Service(args[0])
	if svc == nil {
		names := make([]string, 0, len(m.Services))
		for i := range m.Services {
			names = append(names, m.Services[i].Name)
		}
		return nil, fmt.Errorf("service %q not found in manifest (declared: %s)", args[0], strings.Join(names, ", "))
	}

	return []*manifest.ServiceDeclaration{svc}, nil
}

// resolveEnv resolves a service's env var table against the secret store,
// configured dotenv files and the OS environment
func resolveEnv(svc *manifest.ServiceDeclaration, secretStore *secrets.Store, globalCfg *config.GlobalConfig) (*envspec.Resolution, error) {
	secretValues, err := secretStore.Load(svc.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets for %s: %w", svc.Name, err)
	}

	dotenv, err := envspec.LoadDotenvFiles(globalCfg.Defaults.DotenvFiles)
	if err != nil {
		return nil, err
	}

	return envspec.Resolve(svc, envspec.Sources{
		Secrets: secretValues,
		Dotenv:  dotenv,
	}), nil
}

// imageForService picks the container image for a service. A python
// service with a PYTHON_VERSION literal pins the image to that version.
func imageForService(svc *manifest.ServiceDeclaration, globalCfg *config.GlobalConfig) (string, error) {
	if svc.Runtime == manifest.RuntimePython {
		if version, ok := svc.Literals()["PYTHON_VERSION"]; ok {
			return fmt.Sprintf("python:%s-slim", version), nil
		}
	}

	image := globalCfg.ImageFor(string(svc.Runtime))
	if image == "" {
		return "", fmt.Errorf("no image configured for runtime %q (set defaults.images.%s in config.yaml)", svc.Runtime, svc.Runtime)
	}

	return image, nil
}

// printWarnings prints lint findings without failing the operation
func printWarnings(warnings []manifest.Warning) {
	for _, warning := range warnings {
		fmt.Printf("⚠️  Warning: %s\n", warning)
	}
}

// namespaceFor resolves the target namespace: the --namespace flag wins,
// then the global config, then the kubeconfig's current context when a
// client is at hand
func namespaceFor(cmd *cobra.Command, globalCfg *config.GlobalConfig, client *kubernetes.Client) string {
	if ns, _ := cmd.Flags().GetString("namespace"); ns != "" {
		return ns
	}
	if globalCfg.Defaults.Namespace != "" {
		return globalCfg.Defaults.Namespace
	}
	if client != nil {
		if ns, err := client.CurrentNamespace(); err == nil && ns != "" {
			return ns
		}
	}
	return "default"
}
