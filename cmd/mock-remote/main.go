package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/gachastat/internal/testremote"
)

func main() {
	def := testremote.DefaultConfig()
	var (
		addr     = flag.String("addr", def.Addr, "Listen address")
		batches  = flag.Int("batches", def.Batches, "Number of batches to generate")
		phone    = flag.String("phone", def.Phone, "Accepted phone")
		password = flag.String("password", def.Password, "Accepted password")
		latency  = flag.Duration("latency", 0, "Delay added to each history request")
		logFile  = flag.String("log", "", "Log file for server output")
		verbose  = flag.Bool("verbose", false, "Log every served page")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testremote.ShowHelp()
		return
	}

	if err := testremote.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := def
	cfg.Addr = *addr
	cfg.Batches = *batches
	cfg.Phone = *phone
	cfg.Password = *password
	cfg.Latency = *latency
	cfg.LogFile = *logFile
	cfg.Verbose = *verbose

	srv := testremote.NewServer(cfg, testremote.Generate(cfg.Batches, cfg.Pools, time.Now()))
	if err := srv.ListenAndServe(ctx); err != nil {
		os.Stderr.WriteString("Mock remote failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
