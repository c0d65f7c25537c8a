package ports

import (
	"carrier-match-service/internal/domain"
	"context"
)

// Optional cache for aggregated history signals.
// Implementations must expire entries so cached signals stay near real time.
type HistoryCache interface {
	Get(ctx context.Context, q HistoryQuery) (domain.HistorySignals, bool, error)
	Put(ctx context.Context, q HistoryQuery, signals domain.HistorySignals) error
}
