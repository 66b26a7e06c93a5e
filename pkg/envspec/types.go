package envspec

// Sources holds the out-of-band value sources consulted when resolving a
// service's environment variable table
type Sources struct {
	// Secrets is the platform-side secret store content for the service
	Secrets map[string]string

	// Dotenv holds values loaded from dotenv files (local development)
	Dotenv map[string]string

	// LookupOSEnv is consulted last; defaults to os.LookupEnv
	LookupOSEnv func(string) (string, bool)
}

// Resolution is the outcome of resolving an env var table against the
// available sources
type Resolution struct {
	// Values maps every resolved key to its final value
	Values map[string]string

	// Missing lists secret keys (sync: false) that no source could
	// provide, in declaration order. Deploying with a non-empty Missing
	// list is a fatal pre-deploy error.
	Missing []string
}

// DefaultExcludedVars contains variables that must never leak from the
// operator's shell into a provisioned service environment
var DefaultExcludedVars = []string{
	"PATH",
	"HOME",
	"USER",
	"SHELL",
	"TERM",
	"PWD",
	"OLDPWD",
	"HOSTNAME",
	"LOGNAME",

	"KUBECONFIG",
	"KUBERNETES_SERVICE_HOST",
	"KUBERNETES_SERVICE_PORT",
}
