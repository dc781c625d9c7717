package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"meridian-missions/claimd/internal/authn"
	"meridian-missions/claimd/internal/catalog"
	"meridian-missions/claimd/internal/config"
	"meridian-missions/claimd/internal/identity"
	"meridian-missions/claimd/internal/metrics"
	"meridian-missions/claimd/internal/missions"
	"meridian-missions/claimd/internal/pacing"
	"meridian-missions/claimd/internal/runner"
)

const (
	exitOK            = 0
	exitConfigError   = 10
	exitCatalogFailed = 20
	exitInterrupted   = 30
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	keysFile := flag.String("keys-file", "", "newline-separated secret key file (overrides config)")
	dryRun := flag.Bool("dry-run", false, "compute pending sets without submitting claims")
	metricsAddr := flag.String("metrics-addr", "", "serve /metrics on this address for the run (overrides config)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *showVersion {
		fmt.Printf("claimd version=%s commit=%s build_date=%s\n", version, commit, buildDate)
		return
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).With().Timestamp().Logger()

	os.Exit(run(log, *configPath, *keysFile, *metricsAddr, *dryRun))
}

func run(log zerolog.Logger, configPath, keysFile, metricsAddr string, dryRun bool) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Error().Err(err).Msg("configuration invalid")
		return exitConfigError
	}
	if keysFile != "" {
		cfg.KeysFile = keysFile
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("configuration invalid")
		return exitConfigError
	}

	ids, err := loadIdentities(cfg)
	if err != nil {
		log.Error().Err(err).Msg("no usable identities")
		return exitConfigError
	}
	log.Info().Int("accounts", len(ids)).Msg("identities loaded")

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	targets, err := catalog.NewAssetProvider(httpClient, cfg.CatalogURL).Targets(ctx)
	if err != nil {
		log.Error().Err(err).Msg("target catalog unreachable")
		return exitCatalogFailed
	}
	log.Info().Int("targets", len(targets)).Msg("target catalog resolved")

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, m, log)
	}

	coordinator := runner.New(
		authn.NewClient(httpClient, cfg.BaseURL, cfg.ServiceName, cfg.Referral, log),
		missions.NewEngine(missions.NewClient(httpClient, cfg.BaseURL), pacing.New(cfg.ClaimInterval), m, log, dryRun),
		pacing.New(cfg.AccountInterval),
		m,
		log,
	)

	if _, err := coordinator.Run(ctx, ids, targets); err != nil {
		log.Error().Err(err).Msg("run aborted")
		return exitInterrupted
	}
	return exitOK
}

func loadIdentities(cfg config.Config) ([]identity.Identity, error) {
	if cfg.SecretKey != "" {
		return identity.Load(cfg.SecretKey)
	}
	return identity.LoadFile(cfg.KeysFile)
}

func serveMetrics(addr string, m *metrics.Metrics, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Warn().Err(err).Msg("metrics listener stopped")
	}
}
