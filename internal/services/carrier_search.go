package services

import (
	"carrier-match-service/internal/domain"
	"carrier-match-service/internal/platform/obs"
	"carrier-match-service/internal/ports"
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultResultCap   = 25
	DefaultParallelism = 8
)

type SearchConfig struct {
	PoolSize  int
	ResultCap int
	// Carriers aggregated at once. Each carrier issues up to four queries,
	// so the store sees at most 4*Parallelism concurrent reads per search.
	Parallelism          int
	RecentActivityWindow time.Duration
	Clock                func() time.Time
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		PoolSize:             DefaultPoolSize,
		ResultCap:            DefaultResultCap,
		Parallelism:          DefaultParallelism,
		RecentActivityWindow: RecentActivityWindow,
	}
}

func (c SearchConfig) withDefaults() SearchConfig {
	d := DefaultSearchConfig()
	if c.PoolSize <= 0 {
		c.PoolSize = d.PoolSize
	}
	if c.ResultCap <= 0 {
		c.ResultCap = d.ResultCap
	}
	if c.Parallelism <= 0 {
		c.Parallelism = d.Parallelism
	}
	if c.RecentActivityWindow <= 0 {
		c.RecentActivityWindow = d.RecentActivityWindow
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

// CarrierSearch ranks the active carrier pool against a shipment request.
//
// Each carrier is evaluated independently (history, sub-scores, flags) by a
// bounded worker pool; the results are then partitioned and ranked. The
// engine holds no per-search state and is safe for concurrent use.
type CarrierSearch struct {
	pool    *CandidatePoolLoader
	history *HistoryAggregator
	cfg     SearchConfig
}

func NewCarrierSearch(
	carriers ports.CarrierRepository,
	loads ports.LoadHistoryRepository,
	cache ports.HistoryCache,
	cfg SearchConfig,
) *CarrierSearch {
	cfg = cfg.withDefaults()
	return &CarrierSearch{
		pool:    NewCandidatePoolLoader(carriers, cfg.PoolSize),
		history: NewHistoryAggregator(loads, cache, cfg.RecentActivityWindow),
		cfg:     cfg,
	}
}

// Search scores every carrier in the pool and returns both buckets.
//
// A pool-load failure or a cancelled ctx fails the search with no partial
// result. A carrier whose history cannot be read is logged and excluded.
func (s *CarrierSearch) Search(ctx context.Context, req domain.ShipmentRequest) (_ *domain.SearchResult, err error) {
	defer obs.Time(ctx, "carrier.search")(&err)

	req = req.Normalize()

	carriers, err := s.pool.Load(ctx, req.VentureID)
	if err != nil {
		return nil, fmt.Errorf("carrier search: %w", err)
	}

	now := s.cfg.Clock()
	reqID := obs.RequestID(ctx)

	// Each task writes only its own slot; nil marks an excluded carrier.
	evaluated := make([]*domain.CarrierCandidate, len(carriers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Parallelism)

	for i, c := range carriers {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			cand, err := s.Evaluate(gctx, c, req, now)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Printf(
					"req_id=%s op=carrier.search carrier_id=%d carrier=%q excluded err=%v",
					reqID, c.ID, c.Name, err,
				)
				return nil
			}

			evaluated[i] = cand
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("carrier search: evaluate candidates: %w", err)
	}

	cands := make([]domain.CarrierCandidate, 0, len(evaluated))
	for _, c := range evaluated {
		if c != nil {
			cands = append(cands, *c)
		}
	}

	res := Partition(cands, s.cfg.ResultCap)
	res.PoolSize = len(carriers)
	res.Excluded = len(carriers) - len(cands)
	res.Query = domain.SearchQuery{
		Origin:        req.OriginLabel(),
		Destination:   req.DestinationLabel(),
		EquipmentType: req.EquipmentType,
	}

	return &res, nil
}

// Evaluate builds the scored, classified candidate for one carrier.
// req must already be normalized.
func (s *CarrierSearch) Evaluate(
	ctx context.Context,
	c *domain.Carrier,
	req domain.ShipmentRequest,
	now time.Time,
) (*domain.CarrierCandidate, error) {
	history, err := s.history.Aggregate(ctx, HistoryQueryFor(c.ID, req), now)
	if err != nil {
		return nil, err
	}

	cand := &domain.CarrierCandidate{
		Carrier: *c,
		History: history,
		Scores: domain.SubScores{
			EquipmentMatch:      EquipmentMatchScore(c.EquipmentTypes, req.EquipmentType),
			ProfileCompleteness: ProfileCompletenessScore(c, now),
			ServiceAreaMatch:    ServiceAreaMatchScore(c.ServiceAreas, req.OriginState, req.DestinationState),
			OriginProximity:     OriginProximityScore(c, req),
		},
		LaneScoreRaw: RawLaneScore(history),
		LastLoadAt:   history.LastActiveAt,
	}
	if history.OnTimeRate != nil {
		cand.OnTimeScoreRaw = *history.OnTimeRate
	}
	if cand.LastLoadAt == nil {
		cand.LastLoadAt = history.LaneLastLoadAt
	}

	Classify(cand)
	cand.CompositeScore = CompositeScore(cand.History, cand.Scores)

	return cand, nil
}
