package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defiscope/yoe/internal/types"
)

// stubFetcher returns a fixed list (or error) and counts calls.
type stubFetcher struct {
	name string

	mu            sync.Mutex
	calls         int
	opportunities []types.YieldOpportunity
	err           error
}

func (s *stubFetcher) Name() string { return s.name }

func (s *stubFetcher) Fetch(ctx context.Context, chainID types.ChainID) ([]types.YieldOpportunity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]types.YieldOpportunity, len(s.opportunities))
	copy(out, s.opportunities)
	return out, nil
}

func (s *stubFetcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func validOpportunity(id string, chainID types.ChainID) types.YieldOpportunity {
	return types.YieldOpportunity{
		ID:           id,
		ProtocolName: "aave",
		Asset:        "USDC",
		APY:          4.0,
		TVL:          1e8,
		RiskScore:    3,
		Category:     types.CategoryLending,
		ChainID:      chainID,
	}
}

func newTestCatalog(t *testing.T, fetchers map[types.ChainID][]OpportunityFetcher, clock func() time.Time) *Catalog {
	t.Helper()
	c, err := New(Config{
		Fetchers:        fetchers,
		RefreshInterval: time.Minute,
		FetcherTimeout:  time.Second,
		Clock:           clock,
	})
	require.NoError(t, err)
	return c
}

func TestNewRejectsEmptyFetchers(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoFetchers)

	_, err = New(Config{Fetchers: map[types.ChainID][]OpportunityFetcher{1: {}}})
	assert.ErrorIs(t, err, ErrNoFetchers)
}

func TestGetOpportunitiesUnknownChain(t *testing.T) {
	fetcher := &stubFetcher{name: "stub", opportunities: []types.YieldOpportunity{validOpportunity("a", 1)}}
	c := newTestCatalog(t, map[types.ChainID][]OpportunityFetcher{1: {fetcher}}, nil)

	_, err := c.GetOpportunities(context.Background(), 999, false)
	assert.ErrorIs(t, err, ErrUnknownChain)
}

func TestGetOpportunitiesIdempotentWithinInterval(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fetcher := &stubFetcher{name: "stub", opportunities: []types.YieldOpportunity{validOpportunity("a", 1)}}
	c := newTestCatalog(t, map[types.ChainID][]OpportunityFetcher{1: {fetcher}}, func() time.Time { return now })

	first, err := c.GetOpportunities(context.Background(), 1, false)
	require.NoError(t, err)
	second, err := c.GetOpportunities(context.Background(), 1, false)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetcher.callCount(), "fresh data must not trigger a second fetch")
}

func TestGetOpportunitiesRefreshesWhenStale(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fetcher := &stubFetcher{name: "stub", opportunities: []types.YieldOpportunity{validOpportunity("a", 1)}}
	c := newTestCatalog(t, map[types.ChainID][]OpportunityFetcher{1: {fetcher}}, func() time.Time { return now })

	_, err := c.GetOpportunities(context.Background(), 1, false)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = c.GetOpportunities(context.Background(), 1, false)
	require.NoError(t, err)

	assert.Equal(t, 2, fetcher.callCount())
}

func TestGetOpportunitiesForceRefresh(t *testing.T) {
	fetcher := &stubFetcher{name: "stub", opportunities: []types.YieldOpportunity{validOpportunity("a", 1)}}
	c := newTestCatalog(t, map[types.ChainID][]OpportunityFetcher{1: {fetcher}}, nil)

	_, err := c.GetOpportunities(context.Background(), 1, false)
	require.NoError(t, err)
	_, err = c.GetOpportunities(context.Background(), 1, true)
	require.NoError(t, err)

	assert.Equal(t, 2, fetcher.callCount())
}

func TestFailingFetcherContributesNothing(t *testing.T) {
	healthy := &stubFetcher{name: "healthy", opportunities: []types.YieldOpportunity{validOpportunity("a", 1)}}
	broken := &stubFetcher{name: "broken", err: errors.New("connection refused")}
	c := newTestCatalog(t, map[types.ChainID][]OpportunityFetcher{1: {broken, healthy}}, nil)

	opportunities, err := c.GetOpportunities(context.Background(), 1, false)
	require.NoError(t, err)

	require.Len(t, opportunities, 1)
	assert.Equal(t, "a", opportunities[0].ID)
	assert.False(t, c.LastRefresh(1).IsZero(), "a cycle with a failing fetcher still completes")
}

func TestInvalidAndForeignEntriesAreFiltered(t *testing.T) {
	invalid := validOpportunity("bad", 1)
	invalid.RiskScore = 0
	foreign := validOpportunity("other-chain", 137)
	fetcher := &stubFetcher{name: "stub", opportunities: []types.YieldOpportunity{
		validOpportunity("good", 1), invalid, foreign,
	}}
	c := newTestCatalog(t, map[types.ChainID][]OpportunityFetcher{1: {fetcher}}, nil)

	opportunities, err := c.GetOpportunities(context.Background(), 1, false)
	require.NoError(t, err)

	require.Len(t, opportunities, 1)
	assert.Equal(t, "good", opportunities[0].ID)
}

func TestSnapshotIsACopy(t *testing.T) {
	fetcher := &stubFetcher{name: "stub", opportunities: []types.YieldOpportunity{validOpportunity("a", 1)}}
	c := newTestCatalog(t, map[types.ChainID][]OpportunityFetcher{1: {fetcher}}, nil)

	first, err := c.GetOpportunities(context.Background(), 1, false)
	require.NoError(t, err)
	first[0].ID = "mutated"

	second, err := c.GetOpportunities(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Equal(t, "a", second[0].ID, "caller mutation must not reach catalog state")
}

func TestRefreshAllCoversEveryChain(t *testing.T) {
	f1 := &stubFetcher{name: "f1", opportunities: []types.YieldOpportunity{validOpportunity("a", 1)}}
	f2 := &stubFetcher{name: "f2", opportunities: []types.YieldOpportunity{validOpportunity("b", 137)}}
	c := newTestCatalog(t, map[types.ChainID][]OpportunityFetcher{1: {f1}, 137: {f2}}, nil)

	c.RefreshAll(context.Background())

	assert.Equal(t, 1, f1.callCount())
	assert.Equal(t, 1, f2.callCount())
	assert.False(t, c.LastRefresh(1).IsZero())
	assert.False(t, c.LastRefresh(137).IsZero())
}

func TestRefreshHookReceivesCounts(t *testing.T) {
	fetcher := &stubFetcher{name: "stub", opportunities: []types.YieldOpportunity{validOpportunity("a", 1)}}
	c := newTestCatalog(t, map[types.ChainID][]OpportunityFetcher{1: {fetcher}}, nil)

	var mu sync.Mutex
	events := make(map[types.ChainID]int)
	c.SetRefreshHook(func(chainID types.ChainID, count int) {
		mu.Lock()
		defer mu.Unlock()
		events[chainID] = count
	})

	_, err := c.GetOpportunities(context.Background(), 1, false)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, events[1])
}
