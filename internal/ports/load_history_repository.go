package ports

import (
	"carrier-match-service/internal/domain"
	"context"
	"time"
)

// Identifies the history slice being read for one carrier.
// Zip3 prefixes and state are already normalized; empty means unknown.
type HistoryQuery struct {
	CarrierID   int
	VentureID   *int
	OriginZip3  string
	DestZip3    string
	OriginState string
}

// Port: read-only access to a carrier's shipment history.
// Callers never issue a query whose required filters are all empty.
type LoadHistoryRepository interface {
	// Delivered loads whose pickup starts with OriginZip3 and drop starts with DestZip3.
	ListDeliveredLaneLoads(ctx context.Context, q HistoryQuery) ([]domain.Load, error)
	// Delivered loads whose pickup starts with OriginZip3 or drop starts with DestZip3.
	CountDeliveredRegionLoads(ctx context.Context, q HistoryQuery) (int, error)
	// Delivered loads picked up in OriginZip3 or in OriginState.
	CountDeliveredOriginPickups(ctx context.Context, q HistoryQuery) (int, error)
	// Creation time of the newest load in any status created at or after since,
	// or nil when there is none.
	LatestLoadSince(ctx context.Context, q HistoryQuery, since time.Time) (*time.Time, error)
}
