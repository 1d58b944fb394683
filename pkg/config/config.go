package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CONTENTAPI_"

type Config struct {
	Server    Server    `koanf:"server"`
	Log       Log       `koanf:"log"`
	Sentry    Sentry    `koanf:"sentry"`
	Telemetry Telemetry `koanf:"telemetry"`
	Redis     Redis     `koanf:"redis"`
	Auth      Auth      `koanf:"auth"`
	RateLimit RateLimit `koanf:"rate_limit"`
}

type Server struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	TrustProxy bool `koanf:"trust_proxy"`
}

type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type Sentry struct {
	DSN         string `koanf:"dsn"`
	Environment string `koanf:"environment"`
}

type Telemetry struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name"`
}

type Redis struct {
	URL string `koanf:"url"`
}

// RateLimit sets the per-route, per-client budget. Zero requests disables
// the rate-limit gate.
type RateLimit struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

type Auth struct {
	CacheTTL time.Duration `koanf:"cache_ttl"`
	// Tokens bootstraps subjects for environments without a credential store.
	Tokens []Token `koanf:"tokens"`
}

// Token binds the SHA-256 hex digest of a credential to a subject.
type Token struct {
	Hash      string `koanf:"hash"`
	Subject   string `koanf:"subject"`
	Privilege string `koanf:"privilege"`
}

var defaults = map[string]any{
	"server.addr":             ":8080",
	"server.shutdown_timeout": "15s",
	"server.request_timeout":  "30s",
	"log.level":               "info",
	"log.format":              "json",
	"telemetry.service_name":  "contentapi",
	"auth.cache_ttl":          "1m",
	"rate_limit.requests":     120,
	"rate_limit.window":       "1m",
}

// Load reads configuration. An empty path or a missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, v := range defaults {
		if err := k.Set(key, v); err != nil {
			return nil, errors.Join(ErrDecode, err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Join(ErrLoadFile, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Join(ErrLoadEnv, err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if c.Server.RequestTimeout < 0 {
		errs = append(errs, errors.New("server.request_timeout must not be negative"))
	}
	if c.RateLimit.Requests < 0 || (c.RateLimit.Requests > 0 && c.RateLimit.Window <= 0) {
		errs = append(errs, errors.New("rate_limit needs non-negative requests and a positive window"))
	}
	for i, t := range c.Auth.Tokens {
		if len(t.Hash) != 64 || t.Subject == "" {
			errs = append(errs, fmt.Errorf("auth.tokens[%d]: hash must be a sha256 hex digest and subject must be set", i))
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalid}, errs...)...)
	}
	return nil
}
