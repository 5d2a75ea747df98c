package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/eventfacets/internal/config"
	"github.com/okian/eventfacets/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.BaseURL, convey.ShouldEqual, "http://localhost:9090")
			convey.So(cfg.DefaultSeason, convey.ShouldEqual, "Upcoming")
			convey.So(cfg.FetchTimeout(), convey.ShouldEqual, time.Duration(0))
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the league calendar provides the seasons", func() {
			sources, err := cfg.SeasonSources()
			convey.So(err, convey.ShouldBeNil)
			convey.So(sources[0].Name, convey.ShouldEqual, "Upcoming")
			convey.So(sources[0].URL, convey.ShouldEqual, "http://localhost:9090/api/future-events/")
		})

		convey.Convey("Then the default facets are used", func() {
			defs := cfg.FacetDefinitions()
			convey.So(len(defs), convey.ShouldEqual, 4)
			convey.So(defs[1].Label, convey.ShouldEqual, "Format")
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("EVENTFACETS_ADDR", ":8080")
			_ = os.Setenv("EVENTFACETS_FETCH_TIMEOUT_MS", "2500")
			_ = os.Setenv("EVENTFACETS_LOG_FORMAT", "json")
			_ = os.Setenv("EVENTFACETS_S3__REGION", "eu-central-1")
			_ = os.Setenv("EVENTFACETS_CORS_ORIGINS", "https://a.example,https://b.example")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.FetchTimeout(), convey.ShouldEqual, 2500*time.Millisecond)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.S3.Region, convey.ShouldEqual, "eu-central-1")
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9091"
base_url: "http://backend.internal"
default_season: "Now"
embedded_path: "/srv/events.html"
seasons:
  - name: "Now"
    url: "/api/future-events/"
  - name: "Archive"
    url: "s3://snapshots/archive.json"
facets:
  - label: "Format"
    field: "format"
  - label: "Venue"
    all_label: "Everywhere"
    field: "locationName"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("EVENTFACETS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9091")
				convey.So(cfg.EmbeddedPath, convey.ShouldEqual, "/srv/events.html")
				convey.So(len(cfg.Seasons), convey.ShouldEqual, 2)
			})

			convey.Convey("And relative season urls resolve against the base url", func() {
				sources, err := cfg.SeasonSources()
				convey.So(err, convey.ShouldBeNil)
				convey.So(sources[0].URL, convey.ShouldEqual, "http://backend.internal/api/future-events/")
				convey.So(sources[1].URL, convey.ShouldEqual, "s3://snapshots/archive.json")
			})

			convey.Convey("And facets are built from the configured fields", func() {
				defs := cfg.FacetDefinitions()
				convey.So(len(defs), convey.ShouldEqual, 2)
				convey.So(defs[0].AllLabel, convey.ShouldEqual, "All Format")
				convey.So(defs[1].AllLabel, convey.ShouldEqual, "Everywhere")
				convey.So(defs[1].Extract(model.Event{LocationName: "Card Lair"}), convey.ShouldEqual, "Card Lair")
			})
		})

		convey.Convey("When environment variables and file disagree", func() {
			tmpFile := createTempConfigFile("addr: \":9091\"\nfetch_timeout_ms: 100\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("EVENTFACETS_CONFIG", tmpFile)
			_ = os.Setenv("EVENTFACETS_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.FetchTimeoutMS, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("EVENTFACETS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("EVENTFACETS_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("EVENTFACETS_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "Addr")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the default season is not configured", func() {
			_ = os.Setenv("EVENTFACETS_DEFAULT_SEASON", "Season 1999")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "Season 1999")
			})
		})

		convey.Convey("When a facet names an unknown event field", func() {
			tmpFile := createTempConfigFile("facets:\n  - label: Colour\n    field: colour\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("EVENTFACETS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "eventfield")
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("EVENTFACETS_FETCH_TIMEOUT_MS", "soon")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a negative timeout", func() {
			_ = os.Setenv("EVENTFACETS_FETCH_TIMEOUT_MS", "-5")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"EVENTFACETS_CONFIG",
		"EVENTFACETS_ADDR",
		"EVENTFACETS_FETCH_TIMEOUT_MS",
		"EVENTFACETS_LOG_FORMAT",
		"EVENTFACETS_S3__REGION",
		"EVENTFACETS_CORS_ORIGINS",
		"EVENTFACETS_DEFAULT_SEASON",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "eventfacets-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
