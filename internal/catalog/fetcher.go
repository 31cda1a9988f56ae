package catalog

import (
	"context"

	"github.com/defiscope/yoe/internal/types"
)

// OpportunityFetcher is the seam between the catalog and one protocol data
// source. Production implementations call real protocol APIs; tests supply
// fixture implementations so optimization scenarios stay deterministic.
//
// Fetch failures are the fetcher's to report and the catalog's to absorb: a
// failing fetcher contributes zero opportunities for the cycle and the
// refresh carries on.
type OpportunityFetcher interface {
	// Name identifies the fetcher in logs.
	Name() string
	// Fetch returns the current opportunities for one chain. The context
	// carries the per-fetcher deadline; implementations must honor it.
	Fetch(ctx context.Context, chainID types.ChainID) ([]types.YieldOpportunity, error)
}
