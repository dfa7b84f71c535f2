package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/gachastat/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"GACHASTAT_CONFIG",
	"GACHASTAT_ADDR",
	"GACHASTAT_LOG_LEVEL",
	"GACHASTAT_LOG_FORMAT",
	"GACHASTAT_DATA_DIR",
	"GACHASTAT_GACHA_URL",
	"GACHASTAT_TOKEN_URL",
	"GACHASTAT_QUEUE_CAPACITY",
	"GACHASTAT_HTTP_TIMEOUT_MS",
	"GACHASTAT_FETCH_RATE_PER_SEC",
	"GACHASTAT_ZERO_PAD_MONTHS",
	"GACHASTAT_DEDUPE_SIZE",
}

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
				convey.So(cfg.QueueCapacity, convey.ShouldEqual, 4)
				convey.So(cfg.FetchRatePerSec, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("GACHASTAT_ADDR", ":8080")
			_ = os.Setenv("GACHASTAT_DATA_DIR", "/tmp/gacha")
			_ = os.Setenv("GACHASTAT_QUEUE_CAPACITY", "16")
			_ = os.Setenv("GACHASTAT_FETCH_RATE_PER_SEC", "2.5")
			_ = os.Setenv("GACHASTAT_ZERO_PAD_MONTHS", "true")
			_ = os.Setenv("GACHASTAT_DEDUPE_SIZE", "0")
			_ = os.Setenv("GACHASTAT_LOG_FORMAT", "json")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/tmp/gacha")
				convey.So(cfg.QueueCapacity, convey.ShouldEqual, 16)
				convey.So(cfg.FetchRatePerSec, convey.ShouldEqual, 2.5)
				convey.So(cfg.ZeroPadMonths, convey.ShouldBeTrue)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
data_dir: "/srv/gachastat"
gacha_url: "http://127.0.0.1:9999/gacha"
token_url: "http://127.0.0.1:9999/token"
queue_capacity: 8
http_timeout_ms: 2000
`)
			_ = os.Setenv("GACHASTAT_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/gachastat")
				convey.So(cfg.GachaURL, convey.ShouldEqual, "http://127.0.0.1:9999/gacha")
				convey.So(cfg.QueueCapacity, convey.ShouldEqual, 8)
				convey.So(cfg.HTTPTimeoutMS, convey.ShouldEqual, 2000)
			})

			convey.Convey("And env vars take precedence over the file", func() {
				_ = os.Setenv("GACHASTAT_ADDR", ":7070")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.QueueCapacity, convey.ShouldEqual, 8)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("GACHASTAT_CONFIG", "/non/existent/file.yaml")

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail to load", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestConfigLoaderValidation(t *testing.T) {
	convey.Convey("Given invalid settings", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		cases := []struct{ key, value string }{
			{"GACHASTAT_ADDR", ""},
			{"GACHASTAT_QUEUE_CAPACITY", "0"},
			{"GACHASTAT_DEDUPE_SIZE", "-1"},
			{"GACHASTAT_HTTP_TIMEOUT_MS", "-1"},
			{"GACHASTAT_FETCH_RATE_PER_SEC", "-3"},
			{"GACHASTAT_LOG_FORMAT", "xml"},
			{"GACHASTAT_GACHA_URL", "not a url"},
			{"GACHASTAT_TOKEN_URL", "/relative/only"},
		}
		for _, tc := range cases {
			convey.Convey("When "+tc.key+" is "+tc.value, func() {
				_ = os.Setenv(tc.key, tc.value)

				_, err := config.Load(ctx)

				convey.Convey("Then loading is rejected", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}

		convey.Convey("When a numeric setting is not a number", func() {
			_ = os.Setenv("GACHASTAT_QUEUE_CAPACITY", "many")

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range configEnvVars {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	if err != nil {
		t.Fatalf("create temp config: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return f.Name()
}
