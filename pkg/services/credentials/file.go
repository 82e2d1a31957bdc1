package credentials

import (
	"context"
	"fmt"

	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"gopkg.in/ini.v1"
)

const DefaultProfile = "default"

type fileProvider struct {
	path     string
	profile  string
	encoding string
}

// NewFileProvider reads credentials from an INI file with one section per
// profile holding username and password keys.
func NewFileProvider(path, profile, encoding string) Provider {
	if profile == "" {
		profile = DefaultProfile
	}
	return &fileProvider{path: path, profile: profile, encoding: encoding}
}

func (p *fileProvider) Name() string { return "file" }

func (p *fileProvider) Credentials(_ context.Context) (domain.Credentials, error) {
	if p.path == "" {
		return domain.Credentials{}, fmt.Errorf("%w: no credentials file configured", domain.ErrAuth)
	}

	cfg, err := ini.Load(p.path)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("%w: failed to load credentials file: %v", domain.ErrAuth, err)
	}

	section, err := cfg.GetSection(p.profile)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("%w: profile %s not found in %s", domain.ErrAuth, p.profile, p.path)
	}

	password, err := decodePassword(section.Key("password").String(), p.encoding)
	if err != nil {
		return domain.Credentials{}, err
	}
	return domain.Credentials{
		Username: section.Key("username").String(),
		Password: password,
	}, nil
}
