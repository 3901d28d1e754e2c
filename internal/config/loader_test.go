package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/lightswitch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":3000")
				convey.So(cfg.FilesDir, convey.ShouldEqual, "Files")
				convey.So(cfg.RestartEnabled, convey.ShouldBeTrue)
				convey.So(cfg.RestartDelayMS, convey.ShouldEqual, 1000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("LIGHTSWITCH_ADDR", ":8080")
			_ = os.Setenv("LIGHTSWITCH_FILES_DIR", "/srv/files")
			_ = os.Setenv("LIGHTSWITCH_RESTART_ENABLED", "false")
			_ = os.Setenv("LIGHTSWITCH_RESTART_DELAY_MS", "250")
			_ = os.Setenv("LIGHTSWITCH_REGISTRATION_POLICY", "per_request")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.FilesDir, convey.ShouldEqual, "/srv/files")
				convey.So(cfg.RestartEnabled, convey.ShouldBeFalse)
				convey.So(cfg.RestartDelayMS, convey.ShouldEqual, 250)
				convey.So(cfg.RegistrationPolicy, convey.ShouldEqual, config.PolicyPerRequest)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
files_dir: "shared"
net_core_version: "8.0.1"
restart_graceful: true
restart_drain_timeout_ms: 1500
log_format: json
`)
			_ = os.Setenv(config.EnvConfigFile, tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.FilesDir, convey.ShouldEqual, "shared")
				convey.So(cfg.NetCoreVersion, convey.ShouldEqual, "8.0.1")
				convey.So(cfg.RestartGraceful, convey.ShouldBeTrue)
				convey.So(cfg.RestartDrainTimeoutMS, convey.ShouldEqual, 1500)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.APICreationDate, convey.ShouldEqual, "2024-05-29")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
files_dir: "shared"
`)
			_ = os.Setenv(config.EnvConfigFile, tmpFile)
			_ = os.Setenv("LIGHTSWITCH_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.FilesDir, convey.ShouldEqual, "shared")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv(config.EnvConfigFile, tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv(config.EnvConfigFile, "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("LIGHTSWITCH_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an invalid numeric variable", func() {
			_ = os.Setenv("LIGHTSWITCH_RESTART_DELAY_MS", "soon")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown registration policy", func() {
			_ = os.Setenv("LIGHTSWITCH_REGISTRATION_POLICY", "always")
			defer clearConfigEnvVars()

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
		config.EnvConfigFile,
		"LIGHTSWITCH_ADDR",
		"LIGHTSWITCH_FILES_DIR",
		"LIGHTSWITCH_RESTART_ENABLED",
		"LIGHTSWITCH_RESTART_DELAY_MS",
		"LIGHTSWITCH_REGISTRATION_POLICY",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "lightswitch-config-*.yaml")
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
