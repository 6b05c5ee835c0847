package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

var (
	ErrNotConfigured = errors.New("secrets: not configured")
	ErrEmptySecret   = errors.New("secrets: secret payload is empty")
)

// FetchSendGridKey reads the SendGrid API key from Secret Manager.
// name may be a bare secret ID (resolved under projectID, latest version)
// or a full "projects/.../secrets/.../versions/..." resource name.
func FetchSendGridKey(ctx context.Context, projectID, name string) (string, error) {
	pid := strings.TrimSpace(projectID)
	n := strings.TrimSpace(name)
	if n == "" {
		return "", fmt.Errorf("%w: secret name is empty", ErrNotConfigured)
	}
	if !strings.HasPrefix(n, "projects/") {
		if pid == "" {
			return "", fmt.Errorf("%w: projectID is empty", ErrNotConfigured)
		}
		n = fmt.Sprintf("projects/%s/secrets/%s/versions/latest", pid, n)
	}

	c, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", err
	}
	defer c.Close()

	res, err := c.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: n})
	if err != nil {
		return "", fmt.Errorf("secrets: access %s: %w", n, err)
	}
	if res == nil || res.Payload == nil {
		return "", ErrEmptySecret
	}

	key := strings.TrimSpace(string(res.Payload.Data))
	if key == "" {
		return "", ErrEmptySecret
	}
	return key, nil
}
