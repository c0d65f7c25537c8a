package services

import (
	"carrier-match-service/internal/domain"
	"math"
	"slices"
)

const (
	nearOriginProximity = 60
	nearOriginPickups   = 3
	recentActivityBonus = 15
)

// Classify derives the fitness flags from a candidate's own signals.
// It reads nothing from other candidates.
func Classify(c *domain.CarrierCandidate) {
	c.HasLaneHistory = c.History.LaneRunCount > 0
	c.IsNearOrigin = c.Scores.OriginProximity >= nearOriginProximity ||
		c.History.OriginPickupCount >= nearOriginPickups
	c.IsNewCarrier = !c.HasLaneHistory && !c.IsNearOrigin && c.History.OriginPickupCount == 0
}

// laneStep maps lane runs, falling back to region runs, onto a ladder.
// The ladder lists the values for lane >=10, >=5, >=2, >=1, region >=5, >=1.
func laneStep(h domain.HistorySignals, ladder [6]int) int {
	switch {
	case h.LaneRunCount >= 10:
		return ladder[0]
	case h.LaneRunCount >= 5:
		return ladder[1]
	case h.LaneRunCount >= 2:
		return ladder[2]
	case h.LaneRunCount >= 1:
		return ladder[3]
	case h.RegionRunCount >= 5:
		return ladder[4]
	case h.RegionRunCount >= 1:
		return ladder[5]
	default:
		return 0
	}
}

// LaneContribution is the 0-30 ranking weight earned by lane history.
func LaneContribution(h domain.HistorySignals) int {
	return laneStep(h, [6]int{30, 25, 20, 15, 10, 5})
}

// RawLaneScore is the 0-100 lane score shown to users. It is not used for ranking.
func RawLaneScore(h domain.HistorySignals) int {
	return laneStep(h, [6]int{100, 80, 60, 40, 30, 15})
}

func weighted(score int, weight float64) int {
	return int(math.Round(float64(score) * weight))
}

// CompositeScore combines independently capped contributions into the 0-100
// ranking value.
func CompositeScore(h domain.HistorySignals, s domain.SubScores) int {
	total := LaneContribution(h) +
		weighted(s.OriginProximity, 0.20) +
		weighted(s.EquipmentMatch, 0.15) +
		weighted(s.ProfileCompleteness, 0.20)
	if h.RecentlyActive {
		total += recentActivityBonus
	}
	return clamp(total, 0, 100)
}

// rankCandidates orders by composite score descending.
// Equal scores fall back to carrier id ascending so results are reproducible.
func rankCandidates(cands []domain.CarrierCandidate) {
	slices.SortFunc(cands, func(a, b domain.CarrierCandidate) int {
		if a.CompositeScore != b.CompositeScore {
			return b.CompositeScore - a.CompositeScore
		}
		return a.Carrier.ID - b.Carrier.ID
	})
}

// Partition splits candidates into the recommended and prospect buckets,
// ranks each and truncates them to limit. Pre-truncation sizes are kept on
// the result.
func Partition(cands []domain.CarrierCandidate, limit int) domain.SearchResult {
	recommended := make([]domain.CarrierCandidate, 0, len(cands))
	prospects := make([]domain.CarrierCandidate, 0, len(cands))
	for _, c := range cands {
		if c.Recommended() {
			recommended = append(recommended, c)
		} else {
			prospects = append(prospects, c)
		}
	}

	rankCandidates(recommended)
	rankCandidates(prospects)

	return domain.SearchResult{
		Recommended:      truncate(recommended, limit),
		Prospects:        truncate(prospects, limit),
		TotalRecommended: len(recommended),
		TotalProspects:   len(prospects),
	}
}

func truncate(cands []domain.CarrierCandidate, limit int) []domain.CarrierCandidate {
	if limit >= 0 && len(cands) > limit {
		return slices.Clip(cands[:limit])
	}
	return cands
}
