package credentials

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	EncodingPlain  = "plain"
	EncodingBase64 = "base64"
)

// Provider yields the vendor API username and password.
type Provider interface {
	Name() string
	Credentials(ctx context.Context) (domain.Credentials, error)
}

type chain struct {
	providers []Provider
}

// Chain returns the credentials of the first provider that yields both a
// username and a password.
func Chain(providers ...Provider) Provider {
	return &chain{providers: providers}
}

func (c *chain) Name() string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return strings.Join(names, ",")
}

func (c *chain) Credentials(ctx context.Context) (domain.Credentials, error) {
	logger := zerolog.Ctx(ctx)

	for _, p := range c.providers {
		creds, err := p.Credentials(ctx)
		if err != nil {
			logger.Debug().Err(err).Str("provider", p.Name()).Msg("credential provider skipped")
			continue
		}
		if creds.Complete() {
			logger.Debug().Str("provider", p.Name()).Msg("credentials acquired")
			return creds, nil
		}
	}
	return domain.Credentials{}, fmt.Errorf("%w: no credentials found (tried %s)", domain.ErrAuth, c.Name())
}

func decodePassword(raw, encoding string) (string, error) {
	switch encoding {
	case "", EncodingPlain:
		return raw, nil
	case EncodingBase64:
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(raw))
		if err != nil {
			return "", fmt.Errorf("%w: password is not valid base64", domain.ErrAuth)
		}
		return string(decoded), nil
	default:
		return "", fmt.Errorf("%w: unknown password encoding %q", domain.ErrConfig, encoding)
	}
}
