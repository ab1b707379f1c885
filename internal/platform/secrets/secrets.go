package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/voicecare/relay/internal/config"
	"github.com/voicecare/relay/internal/domain"
)

// Provider names accepted in secrets.provider.
const (
	ProviderGCP = "gcp"
	ProviderEnv = "env"
)

// ErrSecretNotFound is returned when a secret has no value.
var ErrSecretNotFound = errors.New("secret not found")

// Provider resolves a secret name to its current value.
type Provider interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// Closer is implemented by providers that hold a connection.
type Closer interface {
	Close() error
}

// EnvProvider reads secrets from environment variables named after the secret.
type EnvProvider struct {
	lookup func(string) (string, bool)
}

// NewEnvProvider creates a provider backed by the process environment.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{lookup: os.LookupEnv}
}

// Resolve returns the value of the environment variable name.
func (p *EnvProvider) Resolve(_ context.Context, name string) (string, error) {
	value, ok := p.lookup(name)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	return value, nil
}

// New builds the provider selected by cfg.Secrets.Provider.
func New(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch cfg.Secrets.Provider {
	case ProviderEnv:
		return NewEnvProvider(), nil
	case ProviderGCP, "":
		return NewSecretManagerProvider(ctx, cfg.GCP.ProjectID)
	default:
		return nil, fmt.Errorf("unknown secrets provider %q", cfg.Secrets.Provider)
	}
}

// LiveKitCredentials is the API key pair tokens are signed with.
type LiveKitCredentials struct {
	APIKey    string
	APISecret string
}

// ResolveLiveKit fetches the LiveKit API key pair named in cfg. Any failure is
// reported as a dependency error so startup aborts.
func ResolveLiveKit(ctx context.Context, p Provider, cfg config.LiveKitConfig) (LiveKitCredentials, error) {
	key, err := p.Resolve(ctx, cfg.APIKeySecret)
	if err != nil {
		return LiveKitCredentials{}, domain.NewDependencyError("secret retrieval", err)
	}
	secret, err := p.Resolve(ctx, cfg.APISecretSecret)
	if err != nil {
		return LiveKitCredentials{}, domain.NewDependencyError("secret retrieval", err)
	}
	return LiveKitCredentials{APIKey: key, APISecret: secret}, nil
}
