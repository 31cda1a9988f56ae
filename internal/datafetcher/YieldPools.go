/*

This file fetches pooled-yield opportunities (liquidity mining, yield
farming) from the aggregated yields API.

Entries that fail validation are skipped individually; the fetch only fails
as a whole when the API is unreachable or the response is unusable.

*/

package datafetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/defiscope/yoe/internal/config"
	"github.com/defiscope/yoe/internal/logger"
	"github.com/defiscope/yoe/internal/types"
)

var yieldsLogger = logger.GetForComponent("yields_fetcher")
var ErrAPIResponseInvalid = errors.New("API response validation failed")
var ErrNoUsableEntries = errors.New("no usable opportunity entries in response")

const yieldPoolsRoute = "/v1/pools"

// yieldPoolEntry is the wire structure of one pool in the yields API.
type yieldPoolEntry struct {
	PoolID          string  `json:"pool_id"`
	Project         string  `json:"project"`
	Symbol          string  `json:"symbol"`
	ChainID         uint64  `json:"chain_id"`
	APY             float64 `json:"apy"`
	TVLUSD          float64 `json:"tvl_usd"`
	RiskScore       int     `json:"risk_score"`
	Category        string  `json:"category"`
	MinDepositUSD   float64 `json:"min_deposit_usd"`
	LockPeriodDays  int     `json:"lock_period_days"`
	DepositFee      float64 `json:"deposit_fee"`
	WithdrawalFee   float64 `json:"withdrawal_fee"`
	PerformanceFee  float64 `json:"performance_fee"`
	DepositTarget   string  `json:"deposit_target"`
	WithdrawTarget  string  `json:"withdraw_target"`
	ClaimTarget     string  `json:"claim_target"`
	AuditStatus     string  `json:"audit_status"`
	LaunchedAt      int64   `json:"launched_at"` // unix seconds
	AutoCompounding bool    `json:"auto_compounding"`
	GovernanceToken string  `json:"governance_token"`
}

// YieldPoolsFetcher pulls pooled-yield opportunities for one chain per call.
type YieldPoolsFetcher struct {
	client  *http.Client
	baseURL string
}

// NewYieldPoolsFetcher creates the fetcher against the configured yields
// API. An empty baseURL falls back to config.YieldsAPI.
func NewYieldPoolsFetcher(baseURL string) *YieldPoolsFetcher {
	if baseURL == "" {
		baseURL = config.YieldsAPI
	}
	return &YieldPoolsFetcher{
		client:  &http.Client{},
		baseURL: baseURL,
	}
}

// Name identifies the fetcher in logs.
func (f *YieldPoolsFetcher) Name() string { return "yield_pools" }

// Fetch returns the current pooled-yield opportunities for the chain.
func (f *YieldPoolsFetcher) Fetch(ctx context.Context, chainID types.ChainID) ([]types.YieldOpportunity, error) {
	url := fmt.Sprintf("%s%s?chain_id=%d", f.baseURL, yieldPoolsRoute, chainID)

	body, err := getJSON(ctx, f.client, url)
	if err != nil {
		return nil, fmt.Errorf("yields API request failed: %w", err)
	}

	var entries []yieldPoolEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse yields API JSON: %w", err)
	}

	opportunities := make([]types.YieldOpportunity, 0, len(entries))
	skipped := 0
	for i, entry := range entries {
		opportunity, err := entry.toOpportunity(chainID)
		if err != nil {
			yieldsLogger.Warn().
				Err(err).
				Int("entryIndex", i).
				Str("poolID", entry.PoolID).
				Msg("Skipping invalid pool entry")
			skipped++
			continue
		}
		opportunities = append(opportunities, opportunity)
	}

	if len(opportunities) == 0 && len(entries) > 0 {
		return nil, fmt.Errorf("%w: %d entries, all skipped", ErrNoUsableEntries, len(entries))
	}

	yieldsLogger.Debug().
		Uint64("chainID", uint64(chainID)).
		Int("entries", len(entries)).
		Int("valid", len(opportunities)).
		Int("skipped", skipped).
		Msg("Fetched pooled-yield opportunities")

	return opportunities, nil
}

// toOpportunity validates and converts one wire entry.
func (e yieldPoolEntry) toOpportunity(chainID types.ChainID) (types.YieldOpportunity, error) {
	if e.PoolID == "" || e.Project == "" || e.Symbol == "" {
		return types.YieldOpportunity{}, errors.New("missing pool identity fields")
	}
	if e.ChainID != uint64(chainID) {
		return types.YieldOpportunity{}, fmt.Errorf("entry chain %d does not match requested chain %d", e.ChainID, chainID)
	}
	if e.APY < 0 {
		return types.YieldOpportunity{}, fmt.Errorf("negative APY: %f", e.APY)
	}
	if e.RiskScore < 1 || e.RiskScore > 10 {
		return types.YieldOpportunity{}, fmt.Errorf("risk score out of range: %d", e.RiskScore)
	}
	if e.TVLUSD < 0 {
		return types.YieldOpportunity{}, fmt.Errorf("negative TVL: %f", e.TVLUSD)
	}

	category := types.OpportunityCategory(e.Category)
	if category == "" {
		category = types.CategoryYieldFarming
	}

	var launch time.Time
	if e.LaunchedAt > 0 {
		launch = time.Unix(e.LaunchedAt, 0).UTC()
	}

	return types.YieldOpportunity{
		ID:           e.PoolID,
		ProtocolName: e.Project,
		Asset:        e.Symbol,
		APY:          e.APY,
		TVL:          e.TVLUSD,
		RiskScore:    e.RiskScore,
		Category:     category,
		Requirements: types.OpportunityRequirements{
			MinDepositUSD:  e.MinDepositUSD,
			LockPeriodDays: e.LockPeriodDays,
			Fees: types.FeeSchedule{
				Deposit:     e.DepositFee,
				Withdrawal:  e.WithdrawalFee,
				Performance: e.PerformanceFee,
			},
		},
		Actions: types.OpportunityActions{
			DepositTarget:  e.DepositTarget,
			WithdrawTarget: e.WithdrawTarget,
			ClaimTarget:    e.ClaimTarget,
		},
		ChainID:         chainID,
		UpdatedAt:       time.Now().UTC(),
		AuditStatus:     e.AuditStatus,
		LaunchDate:      launch,
		AutoCompounding: e.AutoCompounding,
		GovernanceToken: e.GovernanceToken,
	}, nil
}

// getJSON performs a GET under the caller's context and returns the body
// after strict response validation.
func getJSON(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrAPIResponseInvalid, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty response body", ErrAPIResponseInvalid)
	}
	return body, nil
}
