// Package config defines service configuration structures and loading hooks.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/okian/gachastat/internal/adapters/credentials"
	"github.com/okian/gachastat/internal/adapters/remote"
	"github.com/okian/gachastat/internal/adapters/repository"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir holds the record store and the saved credential.
	DataDir string `koanf:"data_dir"`

	// TokenURL and GachaURL are the remote account and history endpoints.
	TokenURL string `koanf:"token_url"`
	GachaURL string `koanf:"gacha_url"`

	// QueueCapacity bounds how many fetched pages wait for the writer.
	QueueCapacity int `koanf:"queue_capacity"`

	// DedupeSize bounds the timestamps remembered per sync run for duplicate
	// counting; 0 keeps them all.
	DedupeSize int `koanf:"dedupe_size"`

	// HTTPTimeoutMS is the per-request timeout for remote calls.
	HTTPTimeoutMS int `koanf:"http_timeout_ms"`

	// FetchRatePerSec paces page requests; 0 disables pacing.
	FetchRatePerSec float64 `koanf:"fetch_rate_per_sec"`

	// StoreBusyTimeoutMS is how long SQLite waits on a locked database.
	StoreBusyTimeoutMS int `koanf:"store_busy_timeout_ms"`

	// ZeroPadMonths renders statistics month keys as "2021-01".
	ZeroPadMonths bool `koanf:"zero_pad_months"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		DataDir:            defaultDataDir(),
		TokenURL:           remote.DefaultTokenURL,
		GachaURL:           remote.DefaultGachaURL,
		QueueCapacity:      4,
		DedupeSize:         100_000,
		HTTPTimeoutMS:      15_000,
		FetchRatePerSec:    0,
		StoreBusyTimeoutMS: 5_000,
		ZeroPadMonths:      false,
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "gachastat")
	}
	return ".gachastat"
}

// DBPath returns the record store file location.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, repository.DBFile)
}

// CredentialPath returns the saved credential file location.
func (c *Config) CredentialPath() string {
	return filepath.Join(c.DataDir, credentials.FileName)
}

// HTTPTimeout returns HTTPTimeoutMS as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMS) * time.Millisecond
}

// StoreBusyTimeout returns StoreBusyTimeoutMS as a duration.
func (c *Config) StoreBusyTimeout() time.Duration {
	return time.Duration(c.StoreBusyTimeoutMS) * time.Millisecond
}
