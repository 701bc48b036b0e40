package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"server/internal/infra"
	"server/internal/sqlinline"
)

// The sweeper is the operational backstop for jobs the worker never
// reports back on: dispatch is fire-and-forget, so a lost dispatch or a
// crashed workflow would otherwise leave a job in 'processing' forever
// with the user's credits gone. Stale jobs are failed and refunded in a
// single statement.
func main() {
	once := flag.Bool("once", false, "run a single sweep and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if cfg.StaleJobTTL <= 0 {
		logger.Info().Msg("STALE_JOB_TTL_MINUTES is 0; sweeping disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	ttlMinutes := int(cfg.StaleJobTTL / time.Minute)

	sweep := func() {
		sweepCtx, sweepCancel := context.WithTimeout(ctx, 30*time.Second)
		defer sweepCancel()
		var reaped int
		if err := runner.QueryRow(sweepCtx, sqlinline.QReapStalePodcasts, ttlMinutes).Scan(&reaped); err != nil {
			logger.Error().Err(err).Msg("sweep failed")
			return
		}
		if reaped > 0 {
			logger.Info().Int("reaped", reaped).Msg("failed and refunded stale jobs")
		}
	}

	sweep()
	if *once {
		return
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	logger.Info().
		Dur("ttl", cfg.StaleJobTTL).
		Dur("interval", cfg.SweepInterval).
		Msg("sweeper running")

	for {
		select {
		case <-ticker.C:
			sweep()
		case <-stop:
			logger.Info().Msg("sweeper stopped")
			return
		}
	}
}
