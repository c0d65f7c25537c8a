package services

import (
	"carrier-match-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name        string
		lane        int
		pickups     int
		proximity   int
		wantLane    bool
		wantNear    bool
		wantNew     bool
		recommended bool
	}{
		{"lane history only", 2, 0, 0, true, false, false, true},
		{"near by proximity", 0, 0, 60, false, true, false, true},
		{"near by pickups", 0, 3, 0, false, true, false, true},
		{"few pickups", 0, 2, 50, false, false, false, false},
		{"brand new", 0, 0, 50, false, false, true, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &domain.CarrierCandidate{
				History: domain.HistorySignals{LaneRunCount: tc.lane, OriginPickupCount: tc.pickups},
				Scores:  domain.SubScores{OriginProximity: tc.proximity},
			}
			Classify(c)

			assert.Equal(t, tc.wantLane, c.HasLaneHistory)
			assert.Equal(t, tc.wantNear, c.IsNearOrigin)
			assert.Equal(t, tc.wantNew, c.IsNewCarrier)
			assert.Equal(t, tc.recommended, c.Recommended())
		})
	}
}

func TestLaneScores(t *testing.T) {
	cases := []struct {
		lane, region      int
		contribution, raw int
	}{
		{12, 0, 30, 100},
		{10, 0, 30, 100},
		{5, 0, 25, 80},
		{2, 0, 20, 60},
		{1, 50, 15, 40},
		{0, 5, 10, 30},
		{0, 1, 5, 15},
		{0, 0, 0, 0},
	}

	for _, tc := range cases {
		h := domain.HistorySignals{LaneRunCount: tc.lane, RegionRunCount: tc.region}
		assert.Equal(t, tc.contribution, LaneContribution(h), "lane=%d region=%d", tc.lane, tc.region)
		assert.Equal(t, tc.raw, RawLaneScore(h), "lane=%d region=%d", tc.lane, tc.region)
	}
}

func TestCompositeScore(t *testing.T) {
	top := CompositeScore(
		domain.HistorySignals{LaneRunCount: 10, RecentlyActive: true},
		domain.SubScores{EquipmentMatch: 100, ProfileCompleteness: 100, ServiceAreaMatch: 100, OriginProximity: 100},
	)
	assert.Equal(t, 100, top)

	assert.Equal(t, 0, CompositeScore(domain.HistorySignals{}, domain.SubScores{}))

	// Service area is informational only.
	assert.Equal(t, 0, CompositeScore(domain.HistorySignals{}, domain.SubScores{ServiceAreaMatch: 100}))

	recent := CompositeScore(domain.HistorySignals{RecentlyActive: true}, domain.SubScores{})
	assert.Equal(t, 15, recent)
}

func candidate(id, score int, near bool) domain.CarrierCandidate {
	return domain.CarrierCandidate{
		Carrier:        domain.Carrier{ID: id},
		CompositeScore: score,
		IsNearOrigin:   near,
	}
}

func TestPartition(t *testing.T) {
	cands := []domain.CarrierCandidate{
		candidate(5, 40, true),
		candidate(3, 70, false),
		candidate(2, 40, true),
		candidate(9, 90, true),
		candidate(1, 10, false),
		candidate(4, 70, false),
	}

	res := Partition(cands, 2)

	assert.Equal(t, 3, res.TotalRecommended)
	assert.Equal(t, 3, res.TotalProspects)
	require.Len(t, res.Recommended, 2)
	require.Len(t, res.Prospects, 2)

	assert.Equal(t, 9, res.Recommended[0].Carrier.ID)
	assert.Equal(t, 2, res.Recommended[1].Carrier.ID, "ties break on carrier id")
	assert.Equal(t, 3, res.Prospects[0].Carrier.ID)
	assert.Equal(t, 4, res.Prospects[1].Carrier.ID)

	for _, c := range res.Recommended {
		assert.True(t, c.Recommended())
	}
	for _, c := range res.Prospects {
		assert.False(t, c.Recommended())
	}
}

func TestPartitionEmpty(t *testing.T) {
	res := Partition(nil, 25)
	assert.Empty(t, res.Recommended)
	assert.Empty(t, res.Prospects)
	assert.Zero(t, res.TotalRecommended)
	assert.Zero(t, res.TotalProspects)
}
