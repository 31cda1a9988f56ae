package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defiscope/yoe/internal/catalog"
	"github.com/defiscope/yoe/internal/config"
	"github.com/defiscope/yoe/internal/risk"
	"github.com/defiscope/yoe/internal/types"
)

type fixedFetcher struct {
	opportunities []types.YieldOpportunity
}

func (f *fixedFetcher) Name() string { return "fixed" }

func (f *fixedFetcher) Fetch(ctx context.Context, chainID types.ChainID) ([]types.YieldOpportunity, error) {
	out := make([]types.YieldOpportunity, 0, len(f.opportunities))
	for _, o := range f.opportunities {
		if o.ChainID == chainID {
			out = append(out, o)
		}
	}
	return out, nil
}

type capturingStore struct {
	mu        sync.Mutex
	snapshots []types.OptimizationSnapshot
}

func (s *capturingStore) SaveOptimization(ctx context.Context, snapshot types.OptimizationSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

func usdcOpportunity(chainID types.ChainID, apy float64) types.YieldOpportunity {
	return types.YieldOpportunity{
		ID:           "aave-usdc",
		ProtocolName: "aave",
		Asset:        "USDC",
		APY:          apy,
		TVL:          5e8,
		RiskScore:    3,
		Category:     types.CategoryLending,
		Requirements: types.OpportunityRequirements{MinDepositUSD: 1},
		ChainID:      chainID,
	}
}

func newTestEngine(t *testing.T, opportunities []types.YieldOpportunity, store ResultStore) *Engine {
	t.Helper()

	fetcher := &fixedFetcher{opportunities: opportunities}
	cat, err := catalog.New(catalog.Config{
		Fetchers: map[types.ChainID][]catalog.OpportunityFetcher{
			1:     {fetcher},
			42161: {fetcher},
		},
	})
	require.NoError(t, err)

	eng, err := New(Config{
		Catalog:       cat,
		Store:         store,
		Params:        config.DefaultEngineParameters,
		ConfigName:    DefaultParameterConfigName,
		ConfigVersion: DefaultParameterConfigVersion,
	})
	require.NoError(t, err)
	return eng
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestOptimizeRejectsUnsupportedChain(t *testing.T) {
	eng := newTestEngine(t, nil, nil)

	_, err := eng.Optimize(context.Background(), nil, 999, 5, types.OptimizationPreferences{})
	assert.ErrorIs(t, err, ErrUnsupportedChain)
}

func TestOptimizeRejectsInvalidRiskTolerance(t *testing.T) {
	eng := newTestEngine(t, nil, nil)

	_, err := eng.Optimize(context.Background(), nil, 1, 0, types.OptimizationPreferences{})
	assert.ErrorIs(t, err, ErrInvalidRiskTolerance)

	_, err = eng.Optimize(context.Background(), nil, 1, 11, types.OptimizationPreferences{})
	assert.ErrorIs(t, err, ErrInvalidRiskTolerance)
}

func TestOptimizeRejectsMalformedPreferences(t *testing.T) {
	eng := newTestEngine(t, nil, nil)

	_, err := eng.Optimize(context.Background(), nil, 1, 5, types.OptimizationPreferences{MaxLockPeriodDays: -1})
	assert.ErrorIs(t, err, ErrInvalidPreferences)
}

func TestOptimizeEmptyCatalog(t *testing.T) {
	eng := newTestEngine(t, nil, nil)

	holdings := []types.AssetHolding{{Symbol: "USDC", USDValue: 1000}}
	result, err := eng.Optimize(context.Background(), holdings, 1, 5, types.OptimizationPreferences{})
	require.NoError(t, err)

	assert.Empty(t, result.Recommendations)
	assert.Empty(t, result.CrossChainOpportunities)
	assert.Empty(t, result.YieldStrategies)
	assert.Zero(t, result.OptimizedYield)
	assert.Zero(t, result.PotentialGain)

	expected := risk.Assess(nil, 5, config.DefaultEngineParameters)
	assert.Equal(t, expected, result.RiskAssessment)
}

func TestOptimizeStableScenario(t *testing.T) {
	eng := newTestEngine(t, []types.YieldOpportunity{usdcOpportunity(1, 4.2)}, nil)

	holdings := []types.AssetHolding{{Symbol: "USDC", Balance: "1000", USDValue: 1000}}
	result, err := eng.Optimize(context.Background(), holdings, 1, 5, types.OptimizationPreferences{})
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 1)
	rec := result.Recommendations[0]
	assert.InDelta(t, 800.0, rec.SuggestedAmount, 1e-9)
	assert.InDelta(t, 33.6, rec.ExpectedReturn, 1e-9)

	assert.Zero(t, result.CurrentYield)
	assert.InDelta(t, 4.2, result.OptimizedYield, 1e-9)
	assert.InDelta(t, 4.2, result.PotentialGain, 1e-9)
	assert.NotEmpty(t, result.RequestID)
	assert.Equal(t, types.ChainID(1), result.ChainID)
}

func TestOptimizeCrossChainDisabledByPreference(t *testing.T) {
	opportunities := []types.YieldOpportunity{
		usdcOpportunity(1, 2.0),
		usdcOpportunity(42161, 9.0),
	}
	eng := newTestEngine(t, opportunities, nil)

	holdings := []types.AssetHolding{{Symbol: "USDC", USDValue: 10000}}

	enabled, err := eng.Optimize(context.Background(), holdings, 1, 6, types.OptimizationPreferences{})
	require.NoError(t, err)
	assert.NotEmpty(t, enabled.CrossChainOpportunities)

	disabled := false
	prefs := types.OptimizationPreferences{CrossChainEnabled: &disabled}
	result, err := eng.Optimize(context.Background(), holdings, 1, 6, prefs)
	require.NoError(t, err)
	assert.Empty(t, result.CrossChainOpportunities)
}

func TestOptimizePersistsSnapshot(t *testing.T) {
	store := &capturingStore{}
	eng := newTestEngine(t, []types.YieldOpportunity{usdcOpportunity(1, 4.2)}, store)

	holdings := []types.AssetHolding{{Symbol: "USDC", USDValue: 1000}}
	result, err := eng.Optimize(context.Background(), holdings, 1, 5, types.OptimizationPreferences{})
	require.NoError(t, err)

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.snapshots, 1)
	snap := store.snapshots[0]
	assert.Equal(t, result.RequestID, snap.RequestID)
	assert.Equal(t, types.ChainID(1), snap.ChainID)
	assert.Equal(t, 5, snap.RiskTolerance)
	assert.InDelta(t, 1000.0, snap.HoldingsValueUSD, 1e-9)
	assert.Equal(t, 1, snap.RecommendationCount)
	assert.InDelta(t, result.OptimizedYield, snap.OptimizedYield, 1e-9)
}
