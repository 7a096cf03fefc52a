package main

import (
	"context"
	"log"

	"sealister/params"
	"sealister/pkg/lister"
	"sealister/pkg/opensea"
	"sealister/pkg/seaport"
	"sealister/pkg/util"
)

func main() {
	// Load config from .env file and environment variables, then validate
	// everything before any network activity.
	cfg := params.LoadFromEnv("")
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	priceWei, err := seaport.ParseEther(cfg.PriceETH)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := util.NewLogger(cfg.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	client, err := opensea.NewClient(cfg.BaseURL, cfg.APIKey)
	if err != nil {
		log.Fatalf("api client: %v", err)
	}

	logger.Infow("run_start",
		"chain", cfg.Chain,
		"collection", cfg.Collection,
		"price_eth", seaport.FormatEther(priceWei),
		"duration_min", cfg.DurationMinutes,
		"wallets", len(cfg.WalletAddresses),
		"log_file", cfg.LogFile,
	)

	runner := lister.New(&cfg, client, priceWei, logger)
	summary := runner.Run(context.Background())

	if summary.Failed > 0 || summary.SkippedWallets > 0 {
		logger.Warnw("run_finished_with_failures",
			"listed", summary.Listed,
			"failed", summary.Failed,
			"skipped_wallets", summary.SkippedWallets,
		)
	}
	// Individual listing failures are recorded, not fatal: exit 0 either way.
}
