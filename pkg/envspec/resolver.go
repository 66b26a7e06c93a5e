package envspec

import (
	"fmt"
	"os"

	"github.com/drydock-dev/drydock/pkg/manifest"
)

// Resolve materializes the env var table of a service declaration.
//
// Non-secret entries take their literal value from the manifest. Secret
// entries (sync: false) are looked up out-of-band with the precedence
// secret store > dotenv files > process environment; a secret no source
// can provide ends up in Resolution.Missing instead of silently
// defaulting.
func Resolve(svc *manifest.ServiceDeclaration, sources Sources) *Resolution {
	lookupOSEnv := sources.LookupOSEnv
	if lookupOSEnv == nil {
		lookupOSEnv = os.LookupEnv
	}

	res := &Resolution{
		Values:  make(map[string]string),
		Missing: []string{},
	}

	for i := range svc.EnvVars {
		entry := &svc.EnvVars[i]

		if !entry.IsSecret() {
			if entry.Value != "" {
				res.Values[entry.Key] = entry.Value
			}
			continue
		}

		if value, ok := sources.Secrets[entry.Key]; ok {
			res.Values[entry.Key] = value
			continue
		}
		if value, ok := sources.Dotenv[entry.Key]; ok {
			res.Values[entry.Key] = value
			continue
		}
		if value, ok := lookupOSEnv(entry.Key); ok {
			res.Values[entry.Key] = value
			continue
		}

		res.Missing = append(res.Missing, entry.Key)
	}

	return res
}

// Environ renders the resolved values as KEY=VALUE pairs in the env
// table's declaration order, suitable for exec.Cmd.Env
func (r *Resolution) Environ(svc *manifest.ServiceDeclaration) []string {
	environ := []string{}
	for i := range svc.EnvVars {
		key := svc.EnvVars[i].Key
		if value, ok := r.Values[key]; ok {
			environ = append(environ, fmt.Sprintf("%s=%s", key, value))
		}
	}
	return environ
}

// MissingError returns an error naming every unresolved secret, or nil
func (r *Resolution) MissingError() error {
	if len(r.Missing) == 0 {
		return nil
	}

	msg := "missing secret values for:"
	for _, key := range r.Missing {
		msg += " " + key
	}
	return fmt.Errorf("%s (set them with 'drydock secrets set')", msg)
}
