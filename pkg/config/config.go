package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "WEBSHOP"

type Config struct {
	App     AppConfig
	API     APIConfig
	Session SessionConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	LogLevel     string `envconfig:"WEBSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WEBSHOP_LOG_WARN_STACK" default:"false"`
}

type APIConfig struct {
	// BaseURL is the backend API root, versioned path included.
	BaseURL string `envconfig:"WEBSHOP_API_URL" default:"http://localhost:8000/api/v1"`

	// UploadsURL is the root product images are served from. When unset
	// it is derived from BaseURL by trimming the trailing /api/vN segment.
	UploadsURL string `envconfig:"WEBSHOP_UPLOADS_URL"`

	TimeoutSeconds int `envconfig:"WEBSHOP_API_TIMEOUT_SECONDS" default:"10"`
}

type SessionConfig struct {
	// TokenPath is the file the bearer token persists in. Empty selects
	// $HOME/.webshop/token at runtime.
	TokenPath string `envconfig:"WEBSHOP_TOKEN_PATH"`
}

var apiVersionSuffix = regexp.MustCompile(`/api/v\d+/?$`)

// Normalize validates the base URL and derives the uploads root. It is
// idempotent; Load always applies it.
func (a *APIConfig) Normalize() error {
	trimmed := strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	if trimmed == "" {
		return fmt.Errorf("api base url must not be empty")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("api base url %q is not an absolute URL", a.BaseURL)
	}
	a.BaseURL = trimmed

	if strings.TrimSpace(a.UploadsURL) == "" {
		a.UploadsURL = apiVersionSuffix.ReplaceAllString(trimmed, "")
	}
	a.UploadsURL = strings.TrimRight(strings.TrimSpace(a.UploadsURL), "/")
	return nil
}
