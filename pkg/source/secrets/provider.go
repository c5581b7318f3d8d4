// Package secrets resolves ${secret:name} references in source credentials.
//
// A reference is looked up in each provider in turn: the environment
// (IDLWRAP_SECRET_<NAME>) and, when source.secrets_dir is set, one file per
// secret in that directory.
//
//	source:
//	  secrets_dir: /run/secrets
//	  git:
//	    repository: https://github.com/borglab/gtsam.git
//	    token: ${secret:gtsam-token}
package secrets

import "context"

// DefaultEnvPrefix is prepended to environment variable names.
const DefaultEnvPrefix = "IDLWRAP_SECRET_"

// SecretProvider retrieves secrets from a backend.
type SecretProvider interface {
	// GetSecret retrieves a secret by name.
	GetSecret(ctx context.Context, name string) (string, error)

	// Provider returns the provider name (env, file).
	Provider() string

	// Supports indicates if this provider may hold the given secret.
	Supports(name string) bool
}
