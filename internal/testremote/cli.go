package testremote

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/gachastat/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging configures logging to the console and, when logFile is set,
// to that file as well.
func SetupLogging(logFile string, verbose bool) error {
	var w io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.InitWith(w, logger.FormatText); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the mock remote.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Gachastat Mock Remote
=====================

Serves generated gacha history on the token and history endpoints so that
gachastat can sync without a real account.

Usage:
  go run ./cmd/mock-remote [options]

Options:
  -addr string
        Listen address (default "127.0.0.1:9180")
  -batches int
        Number of batches to generate (default 95)
  -phone string
        Accepted phone (default "10000000000")
  -password string
        Accepted password (default "password")
  -latency duration
        Delay added to each history request
  -log string
        Log file for server output
  -verbose
        Log every served page
  -help
        Show this help message

Point gachastat at it with:
  GACHASTAT_TOKEN_URL=http://127.0.0.1:9180/user/auth/v1/token_by_phone_password
  GACHASTAT_GACHA_URL=http://127.0.0.1:9180/user/api/inquiry/gacha
`)
}
