/*

This file fetches liquid staking opportunities from the staking stats API.
Staking entries may carry an unbonding period, which maps onto the lock
period requirement.

*/

package datafetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/defiscope/yoe/internal/config"
	"github.com/defiscope/yoe/internal/logger"
	"github.com/defiscope/yoe/internal/types"
)

var stakingLogger = logger.GetForComponent("staking_fetcher")

const stakingRoute = "/v1/staking"

// stakingEntry is the wire structure of one liquid staking product.
type stakingEntry struct {
	ProductID     string  `json:"product_id"`
	Provider      string  `json:"provider"`
	Asset         string  `json:"asset"`
	ChainID       uint64  `json:"chain_id"`
	APY           float64 `json:"apy"`
	TVLUSD        float64 `json:"tvl_usd"`
	RiskScore     int     `json:"risk_score"`
	UnbondingDays int     `json:"unbonding_days"`
	MinStakeUSD   float64 `json:"min_stake_usd"`
	FeeRate       float64 `json:"fee_rate"` // provider cut of rewards
	StakeTarget   string  `json:"stake_target"`
	UnstakeTarget string  `json:"unstake_target"`
	AuditStatus   string  `json:"audit_status"`
	RewardToken   string  `json:"reward_token"`
}

// LiquidStakingFetcher pulls liquid staking opportunities.
type LiquidStakingFetcher struct {
	client  *http.Client
	baseURL string
}

// NewLiquidStakingFetcher creates the fetcher against the configured
// staking API. An empty baseURL falls back to config.StakingAPI.
func NewLiquidStakingFetcher(baseURL string) *LiquidStakingFetcher {
	if baseURL == "" {
		baseURL = config.StakingAPI
	}
	return &LiquidStakingFetcher{
		client:  &http.Client{},
		baseURL: baseURL,
	}
}

// Name identifies the fetcher in logs.
func (f *LiquidStakingFetcher) Name() string { return "liquid_staking" }

// Fetch returns the current staking opportunities for the chain.
func (f *LiquidStakingFetcher) Fetch(ctx context.Context, chainID types.ChainID) ([]types.YieldOpportunity, error) {
	url := fmt.Sprintf("%s%s?chain_id=%d", f.baseURL, stakingRoute, chainID)

	body, err := getJSON(ctx, f.client, url)
	if err != nil {
		return nil, fmt.Errorf("staking API request failed: %w", err)
	}

	var entries []stakingEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse staking API JSON: %w", err)
	}

	opportunities := make([]types.YieldOpportunity, 0, len(entries))
	skipped := 0
	for i, entry := range entries {
		if entry.ProductID == "" || entry.Provider == "" || entry.Asset == "" ||
			entry.ChainID != uint64(chainID) || entry.APY < 0 ||
			entry.RiskScore < 1 || entry.RiskScore > 10 || entry.TVLUSD < 0 ||
			entry.UnbondingDays < 0 {
			stakingLogger.Warn().
				Int("entryIndex", i).
				Str("productID", entry.ProductID).
				Msg("Skipping invalid staking entry")
			skipped++
			continue
		}

		category := types.CategoryLiquidStaking
		if entry.UnbondingDays > 0 {
			category = types.CategoryStaking
		}

		opportunities = append(opportunities, types.YieldOpportunity{
			ID:           entry.ProductID,
			ProtocolName: entry.Provider,
			Asset:        entry.Asset,
			APY:          entry.APY,
			TVL:          entry.TVLUSD,
			RiskScore:    entry.RiskScore,
			Category:     category,
			Requirements: types.OpportunityRequirements{
				MinDepositUSD:  entry.MinStakeUSD,
				LockPeriodDays: entry.UnbondingDays,
				Fees: types.FeeSchedule{
					Performance: entry.FeeRate,
				},
			},
			Actions: types.OpportunityActions{
				DepositTarget:  entry.StakeTarget,
				WithdrawTarget: entry.UnstakeTarget,
			},
			ChainID:         chainID,
			UpdatedAt:       time.Now().UTC(),
			AuditStatus:     entry.AuditStatus,
			AutoCompounding: true, // liquid staking tokens rebase or appreciate
			GovernanceToken: entry.RewardToken,
		})
	}

	if len(opportunities) == 0 && len(entries) > 0 {
		return nil, fmt.Errorf("%w: %d entries, all skipped", ErrNoUsableEntries, len(entries))
	}

	stakingLogger.Debug().
		Uint64("chainID", uint64(chainID)).
		Int("entries", len(entries)).
		Int("valid", len(opportunities)).
		Int("skipped", skipped).
		Msg("Fetched staking opportunities")

	return opportunities, nil
}
