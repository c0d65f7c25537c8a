package services

import (
	"carrier-match-service/internal/domain"
	"carrier-match-service/internal/ports"
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
)

// RecentActivityWindow is how far back a load makes a carrier "recently active".
const RecentActivityWindow = 30 * 24 * time.Hour

// HistoryAggregator reads the four history signals for one carrier.
// The signals touch disjoint query shapes and are fetched concurrently.
type HistoryAggregator struct {
	Repo   ports.LoadHistoryRepository
	Cache  ports.HistoryCache // optional
	Window time.Duration
}

func NewHistoryAggregator(repo ports.LoadHistoryRepository, cache ports.HistoryCache, window time.Duration) *HistoryAggregator {
	if window <= 0 {
		window = RecentActivityWindow
	}
	return &HistoryAggregator{Repo: repo, Cache: cache, Window: window}
}

// HistoryQueryFor builds the history query for one carrier and request.
func HistoryQueryFor(carrierID int, req domain.ShipmentRequest) ports.HistoryQuery {
	return ports.HistoryQuery{
		CarrierID:   carrierID,
		VentureID:   req.VentureID,
		OriginZip3:  req.OriginZip3(),
		DestZip3:    req.DestinationZip3(),
		OriginState: req.OriginState,
	}
}

// Aggregate returns the carrier's history signals as of now.
// Any failed query fails the whole aggregation; partial signals are never
// returned because zeroed lane history would misclassify the carrier.
func (a *HistoryAggregator) Aggregate(ctx context.Context, q ports.HistoryQuery, now time.Time) (domain.HistorySignals, error) {
	if a.Cache != nil {
		cached, ok, err := a.Cache.Get(ctx, q)
		if err != nil {
			log.Printf("history cache get failed: carrier_id=%d err=%v", q.CarrierID, err)
		} else if ok {
			return cached, nil
		}
	}

	var (
		lane       laneHistory
		region     int
		pickups    int
		lastActive *time.Time
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		lane, err = a.laneHistory(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		region, err = a.regionHistory(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		lastActive, err = a.Repo.LatestLoadSince(gctx, q, now.Add(-a.Window))
		if err != nil {
			return fmt.Errorf("recent activity: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		pickups, err = a.originPickups(gctx, q)
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.HistorySignals{}, fmt.Errorf("aggregate history carrier_id=%d: %w", q.CarrierID, err)
	}

	signals := domain.HistorySignals{
		LaneRunCount:      lane.runs,
		OnTimeRate:        lane.onTimeRate,
		LaneLastLoadAt:    lane.lastLoadAt,
		RegionRunCount:    region,
		OriginPickupCount: pickups,
		RecentlyActive:    lastActive != nil,
		LastActiveAt:      lastActive,
	}

	if a.Cache != nil {
		if err := a.Cache.Put(ctx, q, signals); err != nil {
			log.Printf("history cache put failed: carrier_id=%d err=%v", q.CarrierID, err)
		}
	}

	return signals, nil
}

type laneHistory struct {
	runs       int
	onTimeRate *int
	lastLoadAt *time.Time
}

// laneHistory requires both lane ends; with either prefix unknown there is
// no lane to match and no query is issued.
func (a *HistoryAggregator) laneHistory(ctx context.Context, q ports.HistoryQuery) (laneHistory, error) {
	if q.OriginZip3 == "" || q.DestZip3 == "" {
		return laneHistory{}, nil
	}

	loads, err := a.Repo.ListDeliveredLaneLoads(ctx, q)
	if err != nil {
		return laneHistory{}, fmt.Errorf("lane history: %w", err)
	}

	return summarizeLane(loads), nil
}

func summarizeLane(loads []domain.Load) laneHistory {
	if len(loads) == 0 {
		return laneHistory{}
	}

	onTime := 0
	var latest *time.Time
	for i := range loads {
		if loads[i].OnTime() {
			onTime++
		}
		if latest == nil || loads[i].CreatedAt.After(*latest) {
			latest = &loads[i].CreatedAt
		}
	}

	rate := int(math.Round(float64(onTime) / float64(len(loads)) * 100))
	last := *latest
	return laneHistory{runs: len(loads), onTimeRate: &rate, lastLoadAt: &last}
}

func (a *HistoryAggregator) regionHistory(ctx context.Context, q ports.HistoryQuery) (int, error) {
	if q.OriginZip3 == "" && q.DestZip3 == "" {
		return 0, nil
	}

	n, err := a.Repo.CountDeliveredRegionLoads(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("region history: %w", err)
	}
	return n, nil
}

func (a *HistoryAggregator) originPickups(ctx context.Context, q ports.HistoryQuery) (int, error) {
	if q.OriginZip3 == "" && q.OriginState == "" {
		return 0, nil
	}

	n, err := a.Repo.CountDeliveredOriginPickups(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("origin pickup history: %w", err)
	}
	return n, nil
}
