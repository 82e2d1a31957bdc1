package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/de-tools/cloudview-alerts/pkg/services/credentials"
	"github.com/spf13/viper"
)

const (
	DefaultPath = "config/config.yml"
	EnvPrefix   = "CLOUDVIEW"
)

type Settings struct {
	Defaults    Defaults    `mapstructure:"defaults"`
	Reports     Reports     `mapstructure:"reports"`
	Logging     Logging     `mapstructure:"logging"`
	Credentials Credentials `mapstructure:"credentials"`
}

type Defaults struct {
	AccountMap     string        `mapstructure:"accountMap"`
	APIURL         string        `mapstructure:"apiURL"`
	RemediationURL string        `mapstructure:"remediationURL"`
	PageSize       int           `mapstructure:"pageSize"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"`
}

type Reports struct {
	Dir     string `mapstructure:"dir"`
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type Credentials struct {
	File             string `mapstructure:"file"`
	Profile          string `mapstructure:"profile"`
	PasswordEncoding string `mapstructure:"passwordEncoding"`
}

// ArchiveEnabled reports whether CSV files are also uploaded to S3.
func (s *Settings) ArchiveEnabled() bool {
	return s.Reports.Bucket != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("defaults.accountMap", "")
	v.SetDefault("defaults.apiURL", "")
	v.SetDefault("defaults.remediationURL", "https://www.qualys.com")
	v.SetDefault("defaults.pageSize", 50)
	v.SetDefault("defaults.requestTimeout", "60s")

	v.SetDefault("reports.dir", "reports")
	v.SetDefault("reports.bucket", "")
	v.SetDefault("reports.prefix", "")
	v.SetDefault("reports.region", "")
	v.SetDefault("reports.profile", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")

	v.SetDefault("credentials.file", "")
	v.SetDefault("credentials.profile", "default")
	v.SetDefault("credentials.passwordEncoding", "base64")
}

// LoadSettings reads the YAML file at path and overlays CLOUDVIEW_* environment
// variables. An empty path falls back to DefaultPath, which may be absent.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err == nil || explicit {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: failed to read config file: %v", domain.ErrConfig, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: failed to stat config file: %v", domain.ErrConfig, err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", domain.ErrConfig, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Defaults.AccountMap) == "" {
		missing = append(missing, "defaults.accountMap")
	}
	if strings.TrimSpace(s.Defaults.APIURL) == "" {
		missing = append(missing, "defaults.apiURL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required keys: %s", domain.ErrConfig, strings.Join(missing, ", "))
	}
	if s.Defaults.PageSize <= 0 {
		return fmt.Errorf("%w: defaults.pageSize must be positive", domain.ErrConfig)
	}
	if s.Defaults.RequestTimeout <= 0 {
		return fmt.Errorf("%w: defaults.requestTimeout must be positive", domain.ErrConfig)
	}
	switch s.Credentials.PasswordEncoding {
	case credentials.EncodingPlain, credentials.EncodingBase64:
	default:
		return fmt.Errorf("%w: credentials.passwordEncoding must be %q or %q, got %q",
			domain.ErrConfig, credentials.EncodingPlain, credentials.EncodingBase64, s.Credentials.PasswordEncoding)
	}
	return nil
}
