package strategist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defiscope/yoe/internal/config"
	"github.com/defiscope/yoe/internal/types"
)

func stableOpportunity() types.YieldOpportunity {
	return types.YieldOpportunity{
		ID:           "aave-usdc",
		ProtocolName: "aave",
		Asset:        "USDC",
		APY:          4.5,
		TVL:          5e8,
		RiskScore:    3,
		Category:     types.CategoryLending,
		ChainID:      1,
	}
}

func degenOpportunity() types.YieldOpportunity {
	return types.YieldOpportunity{
		ID:           "degen-farm",
		ProtocolName: "degenswap",
		Asset:        "DEGEN",
		APY:          42.0,
		TVL:          2e6,
		RiskScore:    7,
		Category:     types.CategoryYieldFarming,
		ChainID:      1,
	}
}

func sampleArbitrage() types.CrossChainArbitrage {
	return types.CrossChainArbitrage{
		Asset:               "USDC",
		SourceChainID:       1,
		TargetChainID:       42161,
		SourceAPY:           2.0,
		TargetAPY:           8.0,
		APYDifference:       6.0,
		MoveAmountUSD:       10000,
		PotentialProfit:     600,
		BridgeCost:          15,
		NetProfit:           585,
		TimeToBreakEvenDays: 9.125,
		Risk:                6,
		TargetOpportunityID: "arb-usdc",
		TargetProtocol:      "aave",
	}
}

func TestSynthesizeConservativeStablecoin(t *testing.T) {
	holdings := []types.AssetHolding{
		{Symbol: "USDC", USDValue: 1500},
		{Symbol: "ETH", USDValue: 500},
	}

	strategies := Synthesize(holdings, []types.YieldOpportunity{stableOpportunity()}, nil, 3, 1, config.DefaultEngineParameters)

	require.Len(t, strategies, 1)
	s := strategies[0]
	assert.Equal(t, "Conservative Stablecoin Yield", s.Name)
	assert.NotEmpty(t, s.ID)
	assert.InDelta(t, 4.5, s.ExpectedAPY, 1e-9)
	assert.Equal(t, 3, s.RiskLevel)
	require.Len(t, s.Steps, 1)
	assert.Equal(t, 1, s.Steps[0].Order)
	assert.Equal(t, "deposit", s.Steps[0].Action)
	assert.Greater(t, s.BreakEvenTimeDays, 0.0)
}

func TestSynthesizeConservativeRequiresStableSumAndTolerance(t *testing.T) {
	opportunities := []types.YieldOpportunity{stableOpportunity()}

	// Stablecoin sum at the floor does not qualify.
	atFloor := []types.AssetHolding{{Symbol: "USDC", USDValue: 1000}}
	assert.Empty(t, Synthesize(atFloor, opportunities, nil, 3, 1, config.DefaultEngineParameters))

	// Tolerance below the template minimum does not qualify.
	rich := []types.AssetHolding{{Symbol: "USDC", USDValue: 5000}}
	assert.Empty(t, Synthesize(rich, opportunities, nil, 2, 1, config.DefaultEngineParameters))

	// A stable opportunity above the low-risk cutoff does not qualify.
	risky := stableOpportunity()
	risky.RiskScore = 5
	assert.Empty(t, Synthesize(rich, []types.YieldOpportunity{risky}, nil, 3, 1, config.DefaultEngineParameters))
}

func TestSynthesizeAggressiveYield(t *testing.T) {
	strategies := Synthesize(nil, []types.YieldOpportunity{degenOpportunity()}, nil, 7, 1, config.DefaultEngineParameters)

	require.Len(t, strategies, 1)
	s := strategies[0]
	assert.Equal(t, "Aggressive Yield Farming", s.Name)
	assert.InDelta(t, 42.0, s.ExpectedAPY, 1e-9)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, "monitor and rebalance weekly", s.Steps[1].Action)
}

func TestSynthesizeAggressiveRequiresToleranceAndAPY(t *testing.T) {
	// Tolerance 6 never emits the aggressive template.
	assert.Empty(t, Synthesize(nil, []types.YieldOpportunity{degenOpportunity()}, nil, 6, 1, config.DefaultEngineParameters))

	// APY at the floor does not qualify.
	modest := degenOpportunity()
	modest.APY = 15.0
	assert.Empty(t, Synthesize(nil, []types.YieldOpportunity{modest}, nil, 7, 1, config.DefaultEngineParameters))

	// Opportunities outside the tolerance band do not qualify.
	outOfBand := degenOpportunity()
	outOfBand.RiskScore = 9
	assert.Empty(t, Synthesize(nil, []types.YieldOpportunity{outOfBand}, nil, 7, 1, config.DefaultEngineParameters))
}

func TestSynthesizeCrossChain(t *testing.T) {
	arb := sampleArbitrage()
	strategies := Synthesize(nil, nil, []types.CrossChainArbitrage{arb}, 6, 1, config.DefaultEngineParameters)

	require.Len(t, strategies, 1)
	s := strategies[0]
	assert.Equal(t, "Cross-Chain Yield Arbitrage", s.Name)
	assert.InDelta(t, 8.0, s.ExpectedAPY, 1e-9)
	assert.Equal(t, 6, s.RiskLevel)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, "bridge", s.Steps[0].Action)
	assert.Equal(t, types.ChainID(1), s.Steps[0].ChainID)
	assert.Equal(t, "deposit", s.Steps[1].Action)
	assert.Equal(t, types.ChainID(42161), s.Steps[1].ChainID)
	assert.InDelta(t, arb.TimeToBreakEvenDays, s.BreakEvenTimeDays, 1e-9)
}

func TestSynthesizeCrossChainRequiresToleranceAndResults(t *testing.T) {
	assert.Empty(t, Synthesize(nil, nil, []types.CrossChainArbitrage{sampleArbitrage()}, 5, 1, config.DefaultEngineParameters))
	assert.Empty(t, Synthesize(nil, nil, nil, 10, 1, config.DefaultEngineParameters))
}

func TestSynthesizeSortsByExpectedAPY(t *testing.T) {
	holdings := []types.AssetHolding{{Symbol: "USDC", USDValue: 5000}}
	opportunities := []types.YieldOpportunity{stableOpportunity(), degenOpportunity()}

	strategies := Synthesize(holdings, opportunities, []types.CrossChainArbitrage{sampleArbitrage()}, 8, 1, config.DefaultEngineParameters)

	require.Len(t, strategies, 3)
	for i := 1; i < len(strategies); i++ {
		assert.GreaterOrEqual(t, strategies[i-1].ExpectedAPY, strategies[i].ExpectedAPY)
	}
	assert.Equal(t, "Aggressive Yield Farming", strategies[0].Name)
}
