package secrets

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"idlwrap/pkg/config"
	"idlwrap/pkg/telemetry/logging"
)

var secretRefRegex = regexp.MustCompile(`\$\{secret:([^}]+)\}`)

// Manager tries its providers in order until one returns the secret.
type Manager struct {
	providers []SecretProvider
	logger    *logging.Logger
}

// NewManager creates a manager over providers. logger may be nil.
func NewManager(providers []SecretProvider, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Manager{
		providers: providers,
		logger:    logger.With("component", "source.secrets"),
	}
}

// FromConfig builds the manager for the source section: the secrets
// directory first when configured, then the environment.
func FromConfig(cfg config.SourceConfig, logger *logging.Logger) (*Manager, error) {
	var providers []SecretProvider
	if cfg.SecretsDir != "" {
		fp, err := NewFileProvider(cfg.SecretsDir)
		if err != nil {
			return nil, err
		}
		providers = append(providers, fp)
	}
	providers = append(providers, NewEnvProvider(DefaultEnvPrefix))
	return NewManager(providers, logger), nil
}

// GetSecret retrieves a secret from the first provider that has it.
func (m *Manager) GetSecret(ctx context.Context, name string) (string, error) {
	var lastErr error
	for _, provider := range m.providers {
		if !provider.Supports(name) {
			continue
		}
		value, err := provider.GetSecret(ctx, name)
		if err != nil {
			lastErr = err
			m.logger.DebugContext(ctx, "provider failed to get secret",
				"provider", provider.Provider(),
				"name", redactSecretName(name),
				"error", err,
			)
			continue
		}
		m.logger.DebugContext(ctx, "secret retrieved",
			"provider", provider.Provider(),
			"name", redactSecretName(name),
		)
		return value, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("failed to get secret %q: %w", name, lastErr)
	}
	return "", fmt.Errorf("secret not found: %q (no provider supports this secret)", name)
}

// ResolveReferences replaces every ${secret:name} in input. Unresolved
// references are kept and reported together in the error.
func (m *Manager) ResolveReferences(ctx context.Context, input string) (string, error) {
	var failed []string

	output := secretRefRegex.ReplaceAllStringFunc(input, func(match string) string {
		name := secretRefRegex.FindStringSubmatch(match)[1]
		value, err := m.GetSecret(ctx, name)
		if err != nil {
			failed = append(failed, err.Error())
			return match
		}
		return value
	})

	if len(failed) > 0 {
		return output, fmt.Errorf("failed to resolve secret references: %s", strings.Join(failed, "; "))
	}
	return output, nil
}

// ResolveGit resolves references in the credentials of cfg in place.
func (m *Manager) ResolveGit(ctx context.Context, cfg *config.GitConfig) error {
	for _, field := range []*string{&cfg.Token, &cfg.SSHKeyPath} {
		if !HasReference(*field) {
			continue
		}
		value, err := m.ResolveReferences(ctx, *field)
		if err != nil {
			return err
		}
		*field = value
	}
	return nil
}

// HasReference reports whether s holds a ${secret:name} reference.
func HasReference(s string) bool {
	return secretRefRegex.MatchString(s)
}

// redactSecretName keeps the first and last two characters of name.
func redactSecretName(name string) string {
	if len(name) <= 4 {
		return "***"
	}
	return name[:2] + "..." + name[len(name)-2:]
}
