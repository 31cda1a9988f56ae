/*

This file contains the per-chain opportunity catalog. It is the only
long-lived mutable state in the engine: a mapping from chain ID to its
current opportunity list plus a per-chain last-refresh timestamp.

Refresh discipline:
  - A read triggers a refresh only when the chain's data is older than the
    refresh interval, or when the caller forces one.
  - A refresh fans out one fetch per configured fetcher concurrently, each
    under its own timeout. A failing or timed-out fetcher is logged and
    contributes nothing; it never aborts the cycle.
  - The chain's list is replaced wholesale under the write lock, so readers
    never observe a mix of old and new entries, and lastRefresh moves only
    after every fetcher for the cycle has finished.

*/

package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/defiscope/yoe/internal/logger"
	"github.com/defiscope/yoe/internal/types"
	"github.com/rs/zerolog"
)

var (
	ErrUnknownChain = errors.New("no fetchers configured for chain")
	ErrNoFetchers   = errors.New("catalog requires at least one fetcher")
)

const (
	DefaultRefreshInterval = 5 * time.Minute
	DefaultFetcherTimeout  = 5 * time.Second
)

// Config holds the dependencies for constructing a Catalog.
type Config struct {
	// Fetchers is the fixed, ordered list of protocol data sources per
	// supported chain. Order determines merge order within a cycle.
	Fetchers map[types.ChainID][]OpportunityFetcher
	// RefreshInterval is the staleness window; zero uses the default.
	RefreshInterval time.Duration
	// FetcherTimeout is the independent per-fetcher deadline; zero uses
	// the default.
	FetcherTimeout time.Duration
	// Clock overrides time.Now in tests. Nil uses the wall clock.
	Clock func() time.Time
}

// Catalog maintains per-chain opportunity snapshots.
type Catalog struct {
	logger          zerolog.Logger
	fetchers        map[types.ChainID][]OpportunityFetcher
	refreshInterval time.Duration
	fetcherTimeout  time.Duration
	now             func() time.Time

	mu            sync.RWMutex
	opportunities map[types.ChainID][]types.YieldOpportunity
	lastRefresh   map[types.ChainID]time.Time

	// chainLocks serializes refreshes per chain so concurrent readers of a
	// stale chain trigger one fetch cycle, not one each.
	chainLocks map[types.ChainID]*sync.Mutex

	hookMu        sync.Mutex
	onRefreshHook func(chainID types.ChainID, count int)
}

// New creates a Catalog from the given configuration.
func New(cfg Config) (*Catalog, error) {
	if len(cfg.Fetchers) == 0 {
		return nil, ErrNoFetchers
	}
	for chainID, list := range cfg.Fetchers {
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: chain %d has an empty fetcher list", ErrNoFetchers, chainID)
		}
	}

	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	timeout := cfg.FetcherTimeout
	if timeout <= 0 {
		timeout = DefaultFetcherTimeout
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	locks := make(map[types.ChainID]*sync.Mutex, len(cfg.Fetchers))
	for chainID := range cfg.Fetchers {
		locks[chainID] = &sync.Mutex{}
	}

	return &Catalog{
		logger:          logger.GetForComponent("catalog"),
		fetchers:        cfg.Fetchers,
		refreshInterval: interval,
		fetcherTimeout:  timeout,
		now:             now,
		opportunities:   make(map[types.ChainID][]types.YieldOpportunity),
		lastRefresh:     make(map[types.ChainID]time.Time),
		chainLocks:      locks,
	}, nil
}

// GetOpportunities returns the current opportunity list for one chain,
// refreshing first when the data is stale or a refresh is forced. The
// returned slice is a copy; callers may not mutate catalog state.
func (c *Catalog) GetOpportunities(ctx context.Context, chainID types.ChainID, forceRefresh bool) ([]types.YieldOpportunity, error) {
	if _, ok := c.fetchers[chainID]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChain, chainID)
	}

	if forceRefresh || c.stale(chainID) {
		c.refreshChain(ctx, chainID, forceRefresh)
	}

	return c.snapshot(chainID), nil
}

// LastRefresh returns the chain's last completed refresh time (zero when the
// chain has never refreshed).
func (c *Catalog) LastRefresh(chainID types.ChainID) time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRefresh[chainID]
}

// Chains returns the chain IDs this catalog is configured for.
func (c *Catalog) Chains() []types.ChainID {
	ids := make([]types.ChainID, 0, len(c.fetchers))
	for id := range c.fetchers {
		ids = append(ids, id)
	}
	return ids
}

// RefreshAll force-refreshes every configured chain concurrently. Used by
// the background refresh loop so interactive reads rarely block on fetchers.
func (c *Catalog) RefreshAll(ctx context.Context) {
	var wg sync.WaitGroup
	for chainID := range c.fetchers {
		wg.Add(1)
		go func(id types.ChainID) {
			defer wg.Done()
			c.refreshChain(ctx, id, true)
		}(chainID)
	}
	wg.Wait()
}

// SetRefreshHook registers a callback invoked after each completed chain
// refresh with the new opportunity count. Used by the web stream.
func (c *Catalog) SetRefreshHook(hook func(chainID types.ChainID, count int)) {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	c.onRefreshHook = hook
}

// stale reports whether the chain's data is older than the refresh interval.
func (c *Catalog) stale(chainID types.ChainID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	last, ok := c.lastRefresh[chainID]
	if !ok {
		return true
	}
	return c.now().Sub(last) > c.refreshInterval
}

// snapshot returns a copy of the chain's current list.
func (c *Catalog) snapshot(chainID types.ChainID) []types.YieldOpportunity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	current := c.opportunities[chainID]
	out := make([]types.YieldOpportunity, len(current))
	copy(out, current)
	return out
}

// refreshChain runs one fetch cycle for a chain. The per-chain lock makes
// concurrent stale reads coalesce into a single cycle; once inside, the
// staleness check is repeated so the losers of the lock race return the
// fresh data instead of fetching again.
func (c *Catalog) refreshChain(ctx context.Context, chainID types.ChainID, force bool) {
	lock := c.chainLocks[chainID]
	lock.Lock()
	defer lock.Unlock()

	if !force && !c.stale(chainID) {
		return
	}

	fetchers := c.fetchers[chainID]
	cycleStart := c.now()

	type fetchResult struct {
		index         int
		opportunities []types.YieldOpportunity
	}

	results := make([]fetchResult, len(fetchers))
	var wg sync.WaitGroup

	for i, fetcher := range fetchers {
		wg.Add(1)
		go func(idx int, f OpportunityFetcher) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, c.fetcherTimeout)
			defer cancel()

			opportunities, err := f.Fetch(fetchCtx, chainID)
			if err != nil {
				// DataUnavailable: absorbed locally, never surfaced to the
				// optimization caller.
				c.logger.Warn().
					Err(err).
					Str("fetcher", f.Name()).
					Uint64("chainID", uint64(chainID)).
					Msg("Fetcher failed; contributing zero opportunities this cycle")
				results[idx] = fetchResult{index: idx}
				return
			}

			valid := make([]types.YieldOpportunity, 0, len(opportunities))
			skipped := 0
			for _, o := range opportunities {
				if !o.Valid() || o.ChainID != chainID {
					skipped++
					continue
				}
				valid = append(valid, o)
			}
			if skipped > 0 {
				c.logger.Warn().
					Str("fetcher", f.Name()).
					Uint64("chainID", uint64(chainID)).
					Int("skipped", skipped).
					Msg("Skipped invalid opportunity entries")
			}
			results[idx] = fetchResult{index: idx, opportunities: valid}
		}(i, fetcher)
	}

	wg.Wait()

	// Merge in fetcher order so the list is deterministic for a given set
	// of fetch outcomes.
	merged := make([]types.YieldOpportunity, 0)
	for _, r := range results {
		merged = append(merged, r.opportunities...)
	}

	completedAt := c.now()

	c.mu.Lock()
	c.opportunities[chainID] = merged
	c.lastRefresh[chainID] = completedAt
	c.mu.Unlock()

	c.logger.Info().
		Uint64("chainID", uint64(chainID)).
		Int("opportunities", len(merged)).
		Int("fetchers", len(fetchers)).
		Str("cycleDuration", completedAt.Sub(cycleStart).String()).
		Msg("Catalog refresh complete")

	c.hookMu.Lock()
	hook := c.onRefreshHook
	c.hookMu.Unlock()
	if hook != nil {
		hook(chainID, len(merged))
	}
}
