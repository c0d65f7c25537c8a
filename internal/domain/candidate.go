package domain

import "time"

// Aggregate history of one carrier relative to one shipment request.
type HistorySignals struct {
	LaneRunCount      int
	OnTimeRate        *int // percent; nil when there are no lane runs
	LaneLastLoadAt    *time.Time
	RegionRunCount    int
	OriginPickupCount int
	RecentlyActive    bool
	LastActiveAt      *time.Time
}

// Bounded 0-100 sub-scores derived from static carrier attributes.
type SubScores struct {
	EquipmentMatch      int
	ProfileCompleteness int
	ServiceAreaMatch    int
	OriginProximity     int
}

// A carrier scored against one shipment request.
//
// CompositeScore ranks candidates within a bucket. LaneScoreRaw and
// OnTimeScoreRaw are display values and never feed the ranking.
type CarrierCandidate struct {
	Carrier        Carrier
	History        HistorySignals
	Scores         SubScores
	CompositeScore int
	LaneScoreRaw   int
	OnTimeScoreRaw int
	LastLoadAt     *time.Time

	HasLaneHistory bool
	IsNearOrigin   bool
	IsNewCarrier   bool
}

// Recommended reports whether the candidate belongs in the recommended bucket.
func (c *CarrierCandidate) Recommended() bool {
	return c.HasLaneHistory || c.IsNearOrigin
}

// Normalized echo of the request, for display.
type SearchQuery struct {
	Origin        string
	Destination   string
	EquipmentType *string
}

// Two-bucket ranking produced by a carrier search.
//
// Recommended carriers have demonstrated lane or geographic fit and are worth
// prioritizing; prospects need cold outreach. Totals are bucket sizes before
// truncation. PoolSize counts carriers loaded for scoring and Excluded counts
// those dropped because their history could not be read.
type SearchResult struct {
	Recommended      []CarrierCandidate
	Prospects        []CarrierCandidate
	TotalRecommended int
	TotalProspects   int
	PoolSize         int
	Excluded         int
	Query            SearchQuery
}

// OutreachTargets lists reachable carriers in outreach priority order:
// recommended first, then prospects, skipping carriers without an email.
// It returns nil when limit is not positive.
func (r *SearchResult) OutreachTargets(limit int) []CarrierCandidate {
	if limit <= 0 {
		return nil
	}

	out := make([]CarrierCandidate, 0, min(limit, len(r.Recommended)+len(r.Prospects)))
	for _, bucket := range [][]CarrierCandidate{r.Recommended, r.Prospects} {
		for _, c := range bucket {
			if len(out) >= limit {
				return out
			}
			if Has(c.Carrier.Email) {
				out = append(out, c)
			}
		}
	}
	return out
}
