package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// accessFunc fetches the payload of a fully qualified secret version.
type accessFunc func(ctx context.Context, name string) ([]byte, error)

// SecretManagerProvider resolves secrets from Google Secret Manager, always
// reading the latest version.
type SecretManagerProvider struct {
	projectID string
	access    accessFunc
	close     func() error
}

// NewSecretManagerProvider connects to Secret Manager for projectID.
func NewSecretManagerProvider(
	ctx context.Context,
	projectID string,
	opts ...option.ClientOption,
) (*SecretManagerProvider, error) {
	if projectID == "" {
		return nil, errors.New("secret manager: project id is required")
	}

	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create secret manager client: %w", err)
	}

	access := func(ctx context.Context, name string) ([]byte, error) {
		resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
			Name: name,
		})
		if err != nil {
			return nil, err
		}
		return resp.GetPayload().GetData(), nil
	}

	return newSecretManagerProvider(projectID, access, client.Close), nil
}

func newSecretManagerProvider(projectID string, access accessFunc, closeFn func() error) *SecretManagerProvider {
	return &SecretManagerProvider{
		projectID: projectID,
		access:    access,
		close:     closeFn,
	}
}

// VersionName returns the resource name of the latest version of secret id.
// Ids that are already resource names are returned unchanged.
func (p *SecretManagerProvider) VersionName(id string) string {
	if strings.HasPrefix(id, "projects/") {
		return id
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", p.projectID, id)
}

// Resolve reads the latest version of secret name.
func (p *SecretManagerProvider) Resolve(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty secret name", ErrSecretNotFound)
	}

	data, err := p.access(ctx, p.VersionName(name))
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	return string(data), nil
}

// Close releases the Secret Manager connection.
func (p *SecretManagerProvider) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}
