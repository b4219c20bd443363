package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/kitcheck/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DeltaEThreshold, convey.ShouldEqual, 15)
				convey.So(cfg.ContrastThreshold, convey.ShouldEqual, 2.5)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("KITCHECK_ADDR", ":8080")
			_ = os.Setenv("KITCHECK_DELTA_E_THRESHOLD", "12.5")
			_ = os.Setenv("KITCHECK_CONTRAST_THRESHOLD", "3")
			_ = os.Setenv("KITCHECK_LOG_FORMAT", "json")
			_ = os.Setenv("KITCHECK_MAX_BODY_BYTES", "4096")
			_ = os.Setenv("KITCHECK_EVAL_CACHE_SIZE", "0")
			_ = os.Setenv("KITCHECK_EVAL_CACHE_TTL", "90s")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DeltaEThreshold, convey.ShouldEqual, 12.5)
				convey.So(cfg.ContrastThreshold, convey.ShouldEqual, 3)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 4096)
				convey.So(cfg.EvalCacheSize, convey.ShouldEqual, 0)
				convey.So(cfg.EvalCacheTTL, convey.ShouldEqual, 90*time.Second)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempFile(t, "kitcheck-*.yaml", `
addr: ":9090"
delta_e_threshold: 18
contrast_threshold: 2
cors_allow_origin: "https://fixtures.example"
`)
			_ = os.Setenv("KITCHECK_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DeltaEThreshold, convey.ShouldEqual, 18)
				convey.So(cfg.ContrastThreshold, convey.ShouldEqual, 2)
				convey.So(cfg.CORSAllowOrigin, convey.ShouldEqual, "https://fixtures.example")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info") // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempFile(t, "kitcheck-*.yaml", `
addr: ":9090"
delta_e_threshold: 18
`)
			_ = os.Setenv("KITCHECK_CONFIG", tmpFile)
			_ = os.Setenv("KITCHECK_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")          // Overridden by env
				convey.So(cfg.DeltaEThreshold, convey.ShouldEqual, 18)    // From file
				convey.So(cfg.ContrastThreshold, convey.ShouldEqual, 2.5) // From defaults
			})
		})

		convey.Convey("When a .env file is named explicitly", func() {
			dotenv := createTempFile(t, "kitcheck-*.env", "KITCHECK_ADDR=:7070\nKITCHECK_LOG_LEVEL=debug\n")
			_ = os.Setenv("KITCHECK_DOTENV", dotenv)

			cfg, err := config.Load(ctx)

			convey.Convey("Then its variables should feed the env layer", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When the named .env file does not exist", func() {
			_ = os.Setenv("KITCHECK_DOTENV", filepath.Join(t.TempDir(), "missing.env"))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempFile(t, "kitcheck-*.yaml", `invalid: yaml: content: [`)
			_ = os.Setenv("KITCHECK_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("KITCHECK_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("KITCHECK_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("KITCHECK_DELTA_E_THRESHOLD", "not_a_number")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a negative threshold", func() {
			_ = os.Setenv("KITCHECK_CONTRAST_THRESHOLD", "-1")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fail validation", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"KITCHECK_CONFIG",
		"KITCHECK_DOTENV",
		"KITCHECK_ADDR",
		"KITCHECK_LOG_LEVEL",
		"KITCHECK_LOG_FORMAT",
		"KITCHECK_DELTA_E_THRESHOLD",
		"KITCHECK_CONTRAST_THRESHOLD",
		"KITCHECK_CORS_ALLOW_ORIGIN",
		"KITCHECK_MAX_BODY_BYTES",
		"KITCHECK_EVAL_CACHE_SIZE",
		"KITCHECK_EVAL_CACHE_TTL",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempFile(t *testing.T, pattern, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), pattern)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpFile.Name()
}
