package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/defiscope/yoe/internal/catalog"
	"github.com/defiscope/yoe/internal/config"
	"github.com/defiscope/yoe/internal/datafetcher"
	"github.com/defiscope/yoe/internal/engine"
	"github.com/defiscope/yoe/internal/logger"
	"github.com/defiscope/yoe/internal/state"
	"github.com/defiscope/yoe/internal/types"
	"github.com/defiscope/yoe/internal/web"
)

// main is the entry point for the yield optimization engine.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	// Load configuration from environment variables
	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("Yield Optimization Engine Starting...")

	// Initialize Database Connection (engine parameters + snapshot history)
	dbCfg := state.DBConfig{
		Host: config.DBHost, Port: config.DBPort,
		User: config.DBUser, Password: config.DBPassword,
		DBName: config.DBName, SSLMode: config.DBSSLMode,
	}
	if err := state.InitDB(dbCfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer state.CloseDB()
	if err := state.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure database schema")
	}

	// Load Engine Parameters
	engineParams, err := state.LoadActiveEngineParameters(engine.DefaultParameterConfigName)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load active engine parameters, using defaults and saving.")
		defaultParams := config.DefaultEngineParameters
		if _, err := state.SaveEngineParameters(defaultParams, engine.DefaultParameterConfigName, engine.DefaultParameterConfigVersion, true); err != nil {
			log.Fatal().Err(err).Msg("Failed to save initial default engine parameters.")
		}
		engineParams = &defaultParams
	}
	log.Info().Msg("Engine parameters loaded successfully.")

	// --- 2. Catalog Initialization ---
	fetchers := make(map[types.ChainID][]catalog.OpportunityFetcher, len(config.SupportedChains))
	for chainID := range config.SupportedChains {
		fetchers[chainID] = []catalog.OpportunityFetcher{
			datafetcher.NewYieldPoolsFetcher(""),
			datafetcher.NewLendingMarketsFetcher(""),
			datafetcher.NewLiquidStakingFetcher(""),
		}
	}

	cat, err := catalog.New(catalog.Config{
		Fetchers:        fetchers,
		RefreshInterval: engineParams.RefreshInterval,
		FetcherTimeout:  engineParams.FetcherTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create opportunity catalog")
	}

	// --- 3. Create Engine Instance with Dependency Injection ---
	var store engine.ResultStore
	var optimizationStore *state.OptimizationStore
	if config.PersistSnapshots {
		optimizationStore = state.NewOptimizationStore()
		store = optimizationStore
		log.Info().Msg("Optimization snapshot persistence enabled")
	}

	engineConfig := engine.Config{
		Catalog:       cat,
		Store:         store,
		Params:        *engineParams,
		ConfigName:    engine.DefaultParameterConfigName,
		ConfigVersion: engine.DefaultParameterConfigVersion,
	}

	eng, err := engine.New(engineConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create engine instance")
	}

	log.Info().Msg("Engine instance created successfully")

	// --- 4. Start Web Server ---
	webServer := web.NewWebServer(config.WebPort, eng, cat, optimizationStore)
	go func() {
		log.Info().Str("port", config.WebPort).Str("url", "http://localhost:"+config.WebPort).Msg("Starting dashboard API server")
		if err := webServer.Start(); err != nil {
			log.Error().Err(err).Msg("Web server failed to start")
		}
	}()

	// --- 5. Background Catalog Refresh Loop ---
	ctx := context.Background()

	log.Info().Str("interval", engineParams.RefreshInterval.String()).Msg("Starting catalog refresh loop")
	runRefreshLoop(ctx, cat, engineParams.RefreshInterval)
}

// runRefreshLoop keeps the catalog warm so interactive optimization calls
// rarely block on fetchers. Runs until the context is cancelled.
func runRefreshLoop(ctx context.Context, cat *catalog.Catalog, interval time.Duration) {
	// Warm the catalog immediately on startup.
	cat.RefreshAll(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Catalog refresh loop stopped due to context cancellation")
			return
		case <-ticker.C:
			cat.RefreshAll(ctx)
		}
	}
}
