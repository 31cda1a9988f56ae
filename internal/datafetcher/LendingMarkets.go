/*

This file fetches lending-market opportunities from the lending markets API.
Lending markets carry no lock period and no performance fee; risk is taken
from the API's own market rating.

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

var lendingLogger = logger.GetForComponent("lending_fetcher")

const lendingMarketsRoute = "/v1/markets"

// lendingMarketEntry is the wire structure of one market in the lending API.
type lendingMarketEntry struct {
	MarketID      string  `json:"market_id"`
	Protocol      string  `json:"protocol"`
	Asset         string  `json:"asset"`
	ChainID       uint64  `json:"chain_id"`
	SupplyAPY     float64 `json:"supply_apy"`
	TVLUSD        float64 `json:"tvl_usd"`
	RiskRating    int     `json:"risk_rating"`
	MinSupplyUSD  float64 `json:"min_supply_usd"`
	ReserveFactor float64 `json:"reserve_factor"`
	PoolAddress   string  `json:"pool_address"`
	AuditStatus   string  `json:"audit_status"`
	ListedAt      int64   `json:"listed_at"` // unix seconds
}

// LendingMarketsFetcher pulls supply-side lending opportunities.
type LendingMarketsFetcher struct {
	client  *http.Client
	baseURL string
}

// NewLendingMarketsFetcher creates the fetcher against the configured
// lending API. An empty baseURL falls back to config.LendingAPI.
func NewLendingMarketsFetcher(baseURL string) *LendingMarketsFetcher {
	if baseURL == "" {
		baseURL = config.LendingAPI
	}
	return &LendingMarketsFetcher{
		client:  &http.Client{},
		baseURL: baseURL,
	}
}

// Name identifies the fetcher in logs.
func (f *LendingMarketsFetcher) Name() string { return "lending_markets" }

// Fetch returns the current lending opportunities for the chain.
func (f *LendingMarketsFetcher) Fetch(ctx context.Context, chainID types.ChainID) ([]types.YieldOpportunity, error) {
	url := fmt.Sprintf("%s%s?chain_id=%d", f.baseURL, lendingMarketsRoute, chainID)

	body, err := getJSON(ctx, f.client, url)
	if err != nil {
		return nil, fmt.Errorf("lending API request failed: %w", err)
	}

	var entries []lendingMarketEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse lending API JSON: %w", err)
	}

	opportunities := make([]types.YieldOpportunity, 0, len(entries))
	skipped := 0
	for i, entry := range entries {
		if entry.MarketID == "" || entry.Protocol == "" || entry.Asset == "" ||
			entry.ChainID != uint64(chainID) || entry.SupplyAPY < 0 ||
			entry.RiskRating < 1 || entry.RiskRating > 10 || entry.TVLUSD < 0 {
			lendingLogger.Warn().
				Int("entryIndex", i).
				Str("marketID", entry.MarketID).
				Msg("Skipping invalid lending market entry")
			skipped++
			continue
		}

		var launch time.Time
		if entry.ListedAt > 0 {
			launch = time.Unix(entry.ListedAt, 0).UTC()
		}

		opportunities = append(opportunities, types.YieldOpportunity{
			ID:           entry.MarketID,
			ProtocolName: entry.Protocol,
			Asset:        entry.Asset,
			APY:          entry.SupplyAPY,
			TVL:          entry.TVLUSD,
			RiskScore:    entry.RiskRating,
			Category:     types.CategoryLending,
			Requirements: types.OpportunityRequirements{
				MinDepositUSD: entry.MinSupplyUSD,
				Fees: types.FeeSchedule{
					Performance: entry.ReserveFactor,
				},
			},
			Actions: types.OpportunityActions{
				DepositTarget:  entry.PoolAddress,
				WithdrawTarget: entry.PoolAddress,
			},
			ChainID:         chainID,
			UpdatedAt:       time.Now().UTC(),
			AuditStatus:     entry.AuditStatus,
			LaunchDate:      launch,
			AutoCompounding: true, // supply interest accrues in place
		})
	}

	if len(opportunities) == 0 && len(entries) > 0 {
		return nil, fmt.Errorf("%w: %d entries, all skipped", ErrNoUsableEntries, len(entries))
	}

	lendingLogger.Debug().
		Uint64("chainID", uint64(chainID)).
		Int("entries", len(entries)).
		Int("valid", len(opportunities)).
		Int("skipped", skipped).
		Msg("Fetched lending opportunities")

	return opportunities, nil
}
