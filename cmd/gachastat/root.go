package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/gachastat/internal/adapters/credentials"
	"github.com/okian/gachastat/internal/adapters/remote"
	"github.com/okian/gachastat/internal/adapters/repository"
	service "github.com/okian/gachastat/internal/app"
	"github.com/okian/gachastat/internal/config"
	"github.com/okian/gachastat/internal/domain/auth"
	"github.com/okian/gachastat/pkg/logger"
	"github.com/spf13/cobra"
)

// cli carries state shared by every subcommand once PersistentPreRunE ran.
type cli struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "gachastat",
		Short: "Gacha draw history and statistics",
		Long:  "gachastat downloads gacha draw history, keeps it in a local SQLite store and reports rarity, pool and month statistics.",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file (overrides "+config.EnvPrefix+"CONFIG)")
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return c.setup(cmd)
	}

	root.AddCommand(
		newServeCmd(c),
		newSyncCmd(c),
		newStatsCmd(c),
		newLoginCmd(c),
	)
	return root
}

// setup loads configuration and initializes logging.
func (c *cli) setup(cmd *cobra.Command) error {
	if c.configPath != "" {
		if err := os.Setenv(config.EnvPrefix+"CONFIG", c.configPath); err != nil {
			return err
		}
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.InitWith(cmd.ErrOrStderr(), logger.ParseFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	c.cfg = cfg
	return nil
}

// newService wires the store, remote client and credential file into a
// Service. The caller owns Close.
func (c *cli) newService(ctx context.Context) (*service.Service, error) {
	cfg := c.cfg
	store, err := repository.Open(ctx, cfg.DBPath(),
		repository.WithBusyTimeout(cfg.StoreBusyTimeout()))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	slot := auth.NewTokenSlot()
	client := remote.New(cfg.GachaURL, cfg.TokenURL, slot,
		remote.WithTimeout(cfg.HTTPTimeout()),
		remote.WithRateLimit(cfg.FetchRatePerSec),
	)
	svc := service.New(
		service.WithLogger(logger.Named("service")),
		service.WithStore(store),
		service.WithFetcher(client),
		service.WithAuthenticator(client),
		service.WithTokenSlot(slot),
		service.WithCredentialStore(credentials.NewFileStore(cfg.CredentialPath())),
		service.WithQueueCapacity(cfg.QueueCapacity),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithZeroPaddedMonths(cfg.ZeroPadMonths),
	)
	return svc, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// commandTimeout bounds one-shot commands.
const commandTimeout = 10 * time.Minute
