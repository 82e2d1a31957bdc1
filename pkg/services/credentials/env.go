package credentials

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
)

const (
	EnvUsername = "QUALYS_API_USERNAME"
	EnvPassword = "QUALYS_API_PASSWORD"
)

type envProvider struct {
	encoding string
	lookup   func(string) (string, bool)
}

// NewEnvProvider reads credentials from the process environment. The
// password is decoded according to encoding (plain or base64).
func NewEnvProvider(encoding string) Provider {
	return &envProvider{encoding: encoding, lookup: os.LookupEnv}
}

func (p *envProvider) Name() string { return "env" }

func (p *envProvider) Credentials(_ context.Context) (domain.Credentials, error) {
	username, _ := p.lookup(EnvUsername)
	raw, ok := p.lookup(EnvPassword)
	if username == "" || !ok || raw == "" {
		return domain.Credentials{}, fmt.Errorf("%w: %s and %s must be set", domain.ErrAuth, EnvUsername, EnvPassword)
	}

	password, err := decodePassword(raw, p.encoding)
	if err != nil {
		return domain.Credentials{}, err
	}
	return domain.Credentials{Username: username, Password: password}, nil
}
