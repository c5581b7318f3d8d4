package git

import (
	"fmt"
	"os"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"idlwrap/pkg/config"
)

// AuthProvider handles Git authentication.
type AuthProvider interface {
	// GetAuth returns git transport authentication method.
	GetAuth() (transport.AuthMethod, error)

	// Type returns auth type for logging purposes.
	Type() string
}

// TokenAuth implements token-based HTTPS authentication.
type TokenAuth struct {
	token string
}

// NewTokenAuth creates a new token-based authentication provider.
func NewTokenAuth(token string) *TokenAuth {
	return &TokenAuth{token: token}
}

// GetAuth returns HTTP basic auth with the token as password.
func (a *TokenAuth) GetAuth() (transport.AuthMethod, error) {
	if a.token == "" {
		return nil, fmt.Errorf("token cannot be empty")
	}

	return &http.BasicAuth{
		Username: "git", // Can be anything for token auth
		Password: a.token,
	}, nil
}

// Type returns the authentication type.
func (a *TokenAuth) Type() string {
	return "token"
}

// SSHAuth implements SSH key-based authentication.
type SSHAuth struct {
	keyPath string
}

// NewSSHAuth creates a new SSH key-based authentication provider.
func NewSSHAuth(keyPath string) *SSHAuth {
	return &SSHAuth{keyPath: keyPath}
}

// GetAuth returns SSH public key authentication method.
// The key file must exist and must not be readable by group or others.
func (a *SSHAuth) GetAuth() (transport.AuthMethod, error) {
	if a.keyPath == "" {
		return nil, fmt.Errorf("ssh key path cannot be empty")
	}

	info, err := os.Stat(a.keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access SSH key file: %w", err)
	}
	if mode := info.Mode().Perm(); mode&0077 != 0 {
		return nil, fmt.Errorf("SSH key file permissions too open (%o), should be 0600", mode)
	}

	auth, err := ssh.NewPublicKeysFromFile("git", a.keyPath, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH key: %w", err)
	}
	return auth, nil
}

// Type returns the authentication type.
func (a *SSHAuth) Type() string {
	return "ssh"
}

// NoAuth implements authentication for public repositories.
type NoAuth struct{}

// GetAuth returns nil authentication for public repositories.
func (NoAuth) GetAuth() (transport.AuthMethod, error) {
	return nil, nil
}

// Type returns the authentication type.
func (NoAuth) Type() string {
	return "none"
}

// NewAuthProvider picks the provider configured in cfg: token, SSH key or none.
func NewAuthProvider(cfg *config.GitConfig) (AuthProvider, error) {
	switch {
	case cfg.Token != "" && cfg.SSHKeyPath != "":
		return nil, fmt.Errorf("token and ssh_key_path are mutually exclusive")
	case cfg.Token != "":
		return NewTokenAuth(cfg.Token), nil
	case cfg.SSHKeyPath != "":
		return NewSSHAuth(cfg.SSHKeyPath), nil
	default:
		return NoAuth{}, nil
	}
}
