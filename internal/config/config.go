// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file and environment variables.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/okian/eventfacets/internal/domain/facet"
	"github.com/okian/eventfacets/internal/domain/season"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"omitempty,oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// BaseURL is the season backend that relative season URLs resolve against.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// DefaultSeason is loaded at startup and is the only season eligible for
	// the embedded fast path.
	DefaultSeason string `koanf:"default_season" validate:"required"`

	// Seasons lists the selectable seasons. Empty means the league calendar.
	Seasons []SeasonConfig `koanf:"seasons" validate:"dive"`

	// Facets lists the filterable dimensions. Empty means Type/Format/Organizer/Region.
	Facets []FacetConfig `koanf:"facets" validate:"dive"`

	// EmbeddedPath points at a JSON or HTML snapshot of the default season.
	EmbeddedPath string `koanf:"embedded_path"`

	// FetchTimeoutMS bounds season fetches; 0 leaves the transport default.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms" validate:"gte=0"`

	// CORSOrigins lists origins allowed to call the API.
	CORSOrigins []string `koanf:"cors_origins"`

	// S3 configures access to s3:// season sources.
	S3 S3Config `koanf:"s3"`
}

// SeasonConfig binds a season name to its fetch URL.
type SeasonConfig struct {
	Name string `koanf:"name" validate:"required"`
	URL  string `koanf:"url" validate:"required"`
}

// FacetConfig declares a facet over one event field.
type FacetConfig struct {
	Label    string `koanf:"label" validate:"required"`
	AllLabel string `koanf:"all_label"`
	Field    string `koanf:"field" validate:"required,eventfield"`
}

// S3Config holds object storage settings.
type S3Config struct {
	Region          string `koanf:"region"`
	Endpoint        string `koanf:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
	PathStyle       bool   `koanf:"path_style"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		BaseURL:        "http://localhost:9090",
		DefaultSeason:  season.Upcoming,
		FetchTimeoutMS: 0,
		CORSOrigins:    []string{"*"},
		S3: S3Config{
			Region: "auto",
		},
	}
}

// FetchTimeout returns the fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// SeasonSources resolves the configured seasons, falling back to the league
// calendar when none are configured.
func (c *Config) SeasonSources() ([]season.Source, error) {
	if len(c.Seasons) == 0 {
		return season.DefaultCalendar().Sources(c.BaseURL)
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: base_url: %v", ErrInvalidConfig, err)
	}
	out := make([]season.Source, 0, len(c.Seasons))
	for _, s := range c.Seasons {
		ref, err := url.Parse(s.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: season %q url: %v", ErrInvalidConfig, s.Name, err)
		}
		u := s.URL
		if !ref.IsAbs() {
			u = base.ResolveReference(ref).String()
		}
		out = append(out, season.Source{Name: s.Name, URL: u})
	}
	return out, nil
}

// FacetDefinitions builds the facet list, falling back to the defaults.
func (c *Config) FacetDefinitions() []facet.Definition {
	if len(c.Facets) == 0 {
		return facet.Defaults()
	}
	out := make([]facet.Definition, len(c.Facets))
	for i, f := range c.Facets {
		all := f.AllLabel
		if strings.TrimSpace(all) == "" {
			all = "All " + f.Label
		}
		out[i] = facet.Definition{Label: f.Label, AllLabel: all, Extract: facet.Field(f.Field)}
	}
	return out
}
