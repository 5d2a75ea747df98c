package config

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/eventfacets/internal/domain/model"
)

// Environment conventions.
const (
	EnvPrefix  = "EVENTFACETS_"
	EnvConfig  = EnvPrefix + "CONFIG"
	nestingSep = "__"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if EVENTFACETS_CONFIG is set
//  3. env (prefix EVENTFACETS_; "__" separates nested keys, e.g. EVENTFACETS_S3__REGION)
//
// A .env file in the working directory is read into the process environment
// first; existing variables win.
func Load(_ context.Context) (*Config, error) {
	_ = godotenv.Load()

	base := New()
	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, nestingSep, ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and that the default season is configured.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("eventfield", func(fl validator.FieldLevel) bool {
		return slices.Contains(model.FieldNames(), fl.Field().String())
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	sources, err := c.SeasonSources()
	if err != nil {
		return err
	}
	for _, s := range sources {
		if s.Name == c.DefaultSeason {
			return nil
		}
	}
	return fmt.Errorf("%w: default_season %q is not a configured season", ErrInvalidConfig, c.DefaultSeason)
}
