package datafetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defiscope/yoe/internal/types"
)

func TestYieldPoolsFetchParsesAndFiltersEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/pools", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("chain_id"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"pool_id": "curve-3pool",
				"project": "curve",
				"symbol": "USDC",
				"chain_id": 1,
				"apy": 3.1,
				"tvl_usd": 250000000,
				"risk_score": 3,
				"category": "liquidity_mining",
				"min_deposit_usd": 10,
				"deposit_target": "0xcurve",
				"withdraw_target": "0xcurve",
				"auto_compounding": false
			},
			{
				"pool_id": "bad-risk",
				"project": "x",
				"symbol": "USDC",
				"chain_id": 1,
				"apy": 3.1,
				"risk_score": 0
			},
			{
				"pool_id": "wrong-chain",
				"project": "x",
				"symbol": "USDC",
				"chain_id": 137,
				"apy": 3.1,
				"risk_score": 3
			}
		]`))
	}))
	defer server.Close()

	fetcher := NewYieldPoolsFetcher(server.URL)
	opportunities, err := fetcher.Fetch(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, opportunities, 1)
	o := opportunities[0]
	assert.Equal(t, "curve-3pool", o.ID)
	assert.Equal(t, "curve", o.ProtocolName)
	assert.Equal(t, "USDC", o.Asset)
	assert.Equal(t, types.CategoryLiquidityMining, o.Category)
	assert.Equal(t, types.ChainID(1), o.ChainID)
	assert.InDelta(t, 10.0, o.Requirements.MinDepositUSD, 1e-9)
	assert.True(t, o.Valid())
}

func TestYieldPoolsFetchEmptyListIsValid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	fetcher := NewYieldPoolsFetcher(server.URL)
	opportunities, err := fetcher.Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, opportunities)
}

func TestYieldPoolsFetchAllSkippedFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"pool_id": "", "project": "", "symbol": "", "chain_id": 1, "risk_score": 3}]`))
	}))
	defer server.Close()

	fetcher := NewYieldPoolsFetcher(server.URL)
	_, err := fetcher.Fetch(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoUsableEntries)
}

func TestYieldPoolsFetchNon200Fails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	fetcher := NewYieldPoolsFetcher(server.URL)
	_, err := fetcher.Fetch(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAPIResponseInvalid)
}

func TestLendingMarketsFetchParsesEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/markets", r.URL.Path)
		w.Write([]byte(`[
			{
				"market_id": "aave-v3-usdc",
				"protocol": "aave",
				"asset": "USDC",
				"chain_id": 1,
				"supply_apy": 4.2,
				"tvl_usd": 900000000,
				"risk_rating": 2,
				"min_supply_usd": 1,
				"pool_address": "0xaave"
			}
		]`))
	}))
	defer server.Close()

	fetcher := NewLendingMarketsFetcher(server.URL)
	opportunities, err := fetcher.Fetch(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, opportunities, 1)
	assert.Equal(t, types.CategoryLending, opportunities[0].Category)
	assert.True(t, opportunities[0].AutoCompounding)
	assert.True(t, opportunities[0].Valid())
}

func TestLiquidStakingFetchMapsUnbondingToLock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/staking", r.URL.Path)
		w.Write([]byte(`[
			{
				"product_id": "lido-steth",
				"provider": "lido",
				"asset": "ETH",
				"chain_id": 1,
				"apy": 3.4,
				"tvl_usd": 20000000000,
				"risk_score": 2,
				"unbonding_days": 0,
				"stake_target": "0xlido",
				"unstake_target": "0xlido"
			},
			{
				"product_id": "native-eth",
				"provider": "beacon",
				"asset": "ETH",
				"chain_id": 1,
				"apy": 3.0,
				"tvl_usd": 1000000,
				"risk_score": 2,
				"unbonding_days": 7,
				"stake_target": "0xbeacon",
				"unstake_target": "0xbeacon"
			}
		]`))
	}))
	defer server.Close()

	fetcher := NewLiquidStakingFetcher(server.URL)
	opportunities, err := fetcher.Fetch(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, opportunities, 2)
	assert.Equal(t, types.CategoryLiquidStaking, opportunities[0].Category)
	assert.Equal(t, 0, opportunities[0].Requirements.LockPeriodDays)
	assert.Equal(t, types.CategoryStaking, opportunities[1].Category)
	assert.Equal(t, 7, opportunities[1].Requirements.LockPeriodDays)
}
