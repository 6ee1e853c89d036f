package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/iplstats/internal/config"
	"github.com/okian/iplstats/internal/domain/alias"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DataDir, convey.ShouldEqual, "data")
			convey.So(cfg.MatchesFile, convey.ShouldEqual, "matches.csv")
			convey.So(cfg.DeliveriesFile, convey.ShouldEqual, "deliveries.csv")
			convey.So(cfg.CacheTTL(), convey.ShouldEqual, time.Hour)
			convey.So(cfg.TopN, convey.ShouldEqual, 10)
			convey.So(cfg.VenueTopN, convey.ShouldEqual, 15)
			convey.So(cfg.MinMatches, convey.ShouldEqual, 10)
			convey.So(cfg.TeamAliases, convey.ShouldResemble, alias.DefaultRules())
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.OverIndexBase, convey.ShouldEqual, 0)
				convey.So(cfg.RateLimitWindow(), convey.ShouldEqual, time.Minute)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("IPL_ADDR", ":8080")
			_ = os.Setenv("IPL_DATA_DIR", "/srv/ipl")
			_ = os.Setenv("IPL_CACHE_TTL_SECONDS", "60")
			_ = os.Setenv("IPL_OVER_INDEX_BASE", "1")
			_ = os.Setenv("IPL_TOP_N", "5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/ipl")
				convey.So(cfg.CacheTTL(), convey.ShouldEqual, time.Minute)
				convey.So(cfg.OverIndexBase, convey.ShouldEqual, 1)
				convey.So(cfg.TopN, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
data_dir: "./fixtures"
min_matches: 20
log_format: json
team_aliases:
  - from: "Kings XI Punjab"
    to: "Punjab Kings"
cors_allowed_origins:
  - "http://localhost:3000"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("IPL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DataDir, convey.ShouldEqual, "./fixtures")
				convey.So(cfg.MinMatches, convey.ShouldEqual, 20)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"http://localhost:3000"})
			})

			convey.Convey("And a configured alias list replaces the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.TeamAliases, convey.ShouldResemble, []alias.Rule{{From: "Kings XI Punjab", To: "Punjab Kings"}})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\ntop_n: 7\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("IPL_CONFIG", tmpFile)
			_ = os.Setenv("IPL_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.TopN, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("IPL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("IPL_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			tmpFile := createTempConfigFile("addr: \"\"\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("IPL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unsupported over index base", func() {
			_ = os.Setenv("IPL_OVER_INDEX_BASE", "2")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("IPL_TOP_N", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidate(t *testing.T) {
	convey.Convey("Given a config with an incomplete alias rule", t, func() {
		cfg := config.New()
		cfg.TeamAliases = append(cfg.TeamAliases, alias.Rule{From: "Deccan Chargers"})

		convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
	})

	convey.Convey("Given a rate limit without a window", t, func() {
		cfg := config.New()
		cfg.RateLimitWindowSeconds = 0

		convey.So(cfg.Validate(), convey.ShouldNotBeNil)

		cfg.RateLimitRequests = 0
		convey.So(cfg.Validate(), convey.ShouldBeNil)
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"IPL_CONFIG",
		"IPL_ADDR",
		"IPL_DATA_DIR",
		"IPL_CACHE_TTL_SECONDS",
		"IPL_OVER_INDEX_BASE",
		"IPL_TOP_N",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "ipl-config-*.yaml")
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
