// ./internal/state/optimization_store.go
package state

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/defiscope/yoe/internal/types"
)

// OptimizationStore persists optimization snapshots to PostgreSQL. It
// satisfies the engine's ResultStore interface.
type OptimizationStore struct{}

// NewOptimizationStore returns a store backed by the global connection pool.
func NewOptimizationStore() *OptimizationStore {
	return &OptimizationStore{}
}

// SaveOptimization writes one optimization snapshot.
func (s *OptimizationStore) SaveOptimization(ctx context.Context, snapshot types.OptimizationSnapshot) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	query := `
		INSERT INTO optimization_snapshots (
			request_id, chain_id, snapshot_timestamp, risk_tolerance,
			holdings_value_usd, recommendation_count, arbitrage_count, strategy_count,
			optimized_yield, potential_gain, overall_risk
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING snapshot_id;
	`

	var snapshotID int64
	err := DB.QueryRowContext(
		ctx,
		query,
		snapshot.RequestID, int64(snapshot.ChainID), snapshot.Timestamp, snapshot.RiskTolerance,
		snapshot.HoldingsValueUSD, snapshot.RecommendationCount, snapshot.ArbitrageCount, snapshot.StrategyCount,
		snapshot.OptimizedYield, snapshot.PotentialGain, snapshot.OverallRisk,
	).Scan(&snapshotID)
	if err != nil {
		return fmt.Errorf("failed to save optimization snapshot: %w", err)
	}

	log.Info().
		Int64("snapshot_id", snapshotID).
		Str("request_id", snapshot.RequestID).
		Uint64("chain_id", uint64(snapshot.ChainID)).
		Msg("Optimization snapshot saved to database")

	return nil
}

// GetRecentOptimizations returns the most recent snapshots for a chain,
// newest first. A zero chainID returns snapshots across all chains.
func (s *OptimizationStore) GetRecentOptimizations(ctx context.Context, chainID types.ChainID, limit int) ([]types.OptimizationSnapshot, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT snapshot_id, request_id, chain_id, snapshot_timestamp, risk_tolerance,
			holdings_value_usd, recommendation_count, arbitrage_count, strategy_count,
			optimized_yield, potential_gain, overall_risk
		FROM optimization_snapshots
		WHERE ($1 = 0 OR chain_id = $1)
		ORDER BY snapshot_timestamp DESC
		LIMIT $2;
	`

	rows, err := DB.QueryContext(ctx, query, int64(chainID), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query optimization snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]types.OptimizationSnapshot, 0, limit)
	for rows.Next() {
		var snap types.OptimizationSnapshot
		var dbChainID int64
		if err := rows.Scan(
			&snap.SnapshotID, &snap.RequestID, &dbChainID, &snap.Timestamp, &snap.RiskTolerance,
			&snap.HoldingsValueUSD, &snap.RecommendationCount, &snap.ArbitrageCount, &snap.StrategyCount,
			&snap.OptimizedYield, &snap.PotentialGain, &snap.OverallRisk,
		); err != nil {
			return nil, fmt.Errorf("failed to scan optimization snapshot: %w", err)
		}
		snap.ChainID = types.ChainID(dbChainID)
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating optimization snapshots: %w", err)
	}

	return snapshots, nil
}
