// ./internal/state/db.go
package state

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

// DB is a global database connection pool.
var DB *sql.DB

// DBConfig holds database connection parameters.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // "disable", "require", "verify-full", etc.
}

// InitDB initializes the database connection pool.
func InitDB(cfg DBConfig) error {
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	var err error
	DB, err = sql.Open("postgres", psqlInfo)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	err = DB.Ping()
	if err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("Successfully connected to the PostgreSQL database!")
	return nil
}

// CloseDB closes the database connection pool.
func CloseDB() {
	if DB != nil {
		log.Info().Msg("Closing database connection...")
		if err := DB.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database connection")
		}
	}
}

// EnsureSchema applies the necessary DDL to create tables if they don't exist.
func EnsureSchema() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	schemaSQL := `
		CREATE TABLE IF NOT EXISTS engine_parameters (
			params_id SERIAL PRIMARY KEY,
			version INTEGER NOT NULL DEFAULT 1,
			config_name VARCHAR(255) NOT NULL DEFAULT 'default',
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			activated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			dust_floor_usd DECIMAL(20, 8) NOT NULL,
			capital_reserve_ratio DECIMAL(10, 8) NOT NULL,
			timeframe_days INTEGER NOT NULL,
			confidence_base DECIMAL(10, 4) NOT NULL,
			tvl_bonus_large DECIMAL(10, 4) NOT NULL,
			tvl_bonus_medium DECIMAL(10, 4) NOT NULL,
			tvl_large_threshold DECIMAL(24, 2) NOT NULL,
			tvl_medium_threshold DECIMAL(24, 2) NOT NULL,
			risk_bonus_step DECIMAL(10, 4) NOT NULL,
			reputation_bonus DECIMAL(10, 4) NOT NULL,
			critical_return_usd DECIMAL(20, 8) NOT NULL,
			critical_confidence DECIMAL(10, 4) NOT NULL,
			high_return_usd DECIMAL(20, 8) NOT NULL,
			high_confidence DECIMAL(10, 4) NOT NULL,
			medium_return_usd DECIMAL(20, 8) NOT NULL,
			risk_demotion_floor INTEGER NOT NULL,
			arbitrage_floor_usd DECIMAL(20, 8) NOT NULL,
			min_apy_spread DECIMAL(10, 4) NOT NULL,
			max_break_even_days DECIMAL(10, 2) NOT NULL,
			bridge_risk_floor INTEGER NOT NULL,
			stable_strategy_floor_usd DECIMAL(20, 8) NOT NULL,
			stable_strategy_tolerance INTEGER NOT NULL,
			stable_max_risk_score INTEGER NOT NULL,
			aggressive_tolerance INTEGER NOT NULL,
			aggressive_min_apy DECIMAL(10, 4) NOT NULL,
			cross_chain_tolerance INTEGER NOT NULL,
			diversification_target INTEGER NOT NULL,
			long_lock_days INTEGER NOT NULL,
			liquidity_risk_high DECIMAL(10, 4) NOT NULL,
			liquidity_risk_low DECIMAL(10, 4) NOT NULL,
			refresh_interval_seconds INTEGER NOT NULL,
			fetcher_timeout_seconds INTEGER NOT NULL,
			CONSTRAINT uq_engine_parameters_config_version UNIQUE (config_name, version)
		);
		CREATE INDEX IF NOT EXISTS idx_engine_parameters_config_active ON engine_parameters(config_name, is_active, activated_at DESC);

		CREATE TABLE IF NOT EXISTS optimization_snapshots (
			snapshot_id SERIAL PRIMARY KEY,
			request_id VARCHAR(64) NOT NULL,
			chain_id BIGINT NOT NULL,
			snapshot_timestamp TIMESTAMPTZ NOT NULL,
			risk_tolerance INTEGER NOT NULL,
			holdings_value_usd DECIMAL(24, 8) NOT NULL,
			recommendation_count INTEGER NOT NULL,
			arbitrage_count INTEGER NOT NULL,
			strategy_count INTEGER NOT NULL,
			optimized_yield DECIMAL(10, 4) NOT NULL,
			potential_gain DECIMAL(10, 4) NOT NULL,
			overall_risk DECIMAL(10, 4) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_optimization_snapshots_chain_time ON optimization_snapshots(chain_id, snapshot_timestamp DESC);
	`

	if _, err := DB.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure database schema: %w", err)
	}

	log.Info().Msg("Database schema ensured successfully.")
	return nil
}

// TestDBConnection verifies the database is reachable.
func TestDBConnection() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	return DB.Ping()
}
