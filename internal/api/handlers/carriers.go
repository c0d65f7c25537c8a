package handlers

import (
	"carrier-match-service/internal/api/dto"
	"carrier-match-service/internal/domain"
	"carrier-match-service/internal/platform/obs"
	"carrier-match-service/internal/ports"
	"carrier-match-service/internal/services"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultListLimit     = 100
	maxListLimit         = 500
	defaultOutreachLimit = 10
)

// CarrierSearcher is the ranking engine as seen by the HTTP layer.
type CarrierSearcher interface {
	Search(ctx context.Context, req domain.ShipmentRequest) (*domain.SearchResult, error)
}

// CarrierHandler exposes carrier search and the active carrier listing.
type CarrierHandler struct {
	Searcher  CarrierSearcher
	Carriers  ports.CarrierRepository
	Publisher ports.SearchPublisher // optional
	Timeout   time.Duration
	Clock     func() time.Time
	// Reachable carriers listed on the search-completed event.
	OutreachLimit int
}

func (h *CarrierHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req dto.CarrierSearchRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.WeightLbs != nil && *req.WeightLbs <= 0 {
		writeError(w, r, http.StatusBadRequest, "weight_lbs must be positive")
		return
	}
	if req.VentureID != nil && *req.VentureID <= 0 {
		writeError(w, r, http.StatusBadRequest, "venture_id must be positive")
		return
	}

	now := time.Now
	if h.Clock != nil {
		now = h.Clock
	}

	shipment := domain.ShipmentRequest{
		OriginCity:            req.OriginCity,
		OriginState:           req.OriginState,
		OriginPostalCode:      req.OriginPostalCode,
		DestinationCity:       req.DestinationCity,
		DestinationState:      req.DestinationState,
		DestinationPostalCode: req.DestinationPostalCode,
		EquipmentType:         req.EquipmentType,
		PickupDate:            now(),
		WeightLbs:             req.WeightLbs,
		VentureID:             req.VentureID,
	}
	if req.PickupDate != nil {
		shipment.PickupDate = *req.PickupDate
	}

	ctx := r.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	res, err := h.Searcher.Search(ctx, shipment)
	if err != nil {
		log.Printf("carrier search failed: req_id=%s err=%v", obs.RequestID(r.Context()), err)
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			writeError(w, r, http.StatusGatewayTimeout, "carrier search timed out")
		case errors.Is(err, services.ErrPoolUnavailable):
			writeError(w, r, http.StatusServiceUnavailable, "carrier pool unavailable")
		default:
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	searchID := obs.RequestID(r.Context())
	h.publish(r.Context(), searchID, shipment.VentureID, res, now())

	writeJSON(w, r, http.StatusOK, toSearchResponse(searchID, res))
}

// publish reports the completed search. Failures are logged only.
func (h *CarrierHandler) publish(ctx context.Context, searchID string, ventureID *int, res *domain.SearchResult, at time.Time) {
	if h.Publisher == nil {
		return
	}

	outreach := h.OutreachLimit
	if outreach <= 0 {
		outreach = defaultOutreachLimit
	}

	ev := ports.SearchCompletedEvent{
		SearchID:              searchID,
		VentureID:             ventureID,
		Origin:                res.Query.Origin,
		Destination:           res.Query.Destination,
		EquipmentType:         res.Query.EquipmentType,
		TotalRecommended:      res.TotalRecommended,
		TotalProspects:        res.TotalProspects,
		RecommendedCarrierIDs: carrierIDs(res.Recommended),
		ProspectCarrierIDs:    carrierIDs(res.Prospects),
		OutreachCarrierIDs:    carrierIDs(res.OutreachTargets(outreach)),
		CompletedAt:           at.UTC(),
	}
	if err := h.Publisher.PublishSearchCompleted(ctx, ev); err != nil {
		log.Printf("publish search completed failed: req_id=%s err=%v", searchID, err)
	}
}

// List returns active carriers, optionally scoped by ?venture_id= and capped by ?limit=.
func (h *CarrierHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := defaultListLimit
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	var ventureID *int
	if raw := strings.TrimSpace(q.Get("venture_id")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, r, http.StatusBadRequest, "venture_id must be a positive integer")
			return
		}
		ventureID = &n
	}

	carriers, err := h.Carriers.ListActiveCarriers(r.Context(), ventureID, limit)
	if err != nil {
		log.Printf("list carriers failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListCarriersResponse{
		Carriers: make([]dto.CarrierResponse, 0, len(carriers)),
	}
	for _, c := range carriers {
		res.Carriers = append(res.Carriers, dto.CarrierResponse{
			CarrierID:       c.ID,
			Name:            c.Name,
			MCNumber:        c.MCNumber,
			DOTNumber:       c.DOTNumber,
			Email:           c.Email,
			EquipmentTypes:  c.EquipmentTypes,
			ServiceAreas:    c.ServiceAreas,
			HomeCity:        c.HomeCity,
			HomeState:       c.HomeState,
			HomePostalCode:  c.HomePostalCode,
			InsuranceExpiry: c.InsuranceExpiry,
			VentureID:       c.VentureID,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func toSearchResponse(searchID string, res *domain.SearchResult) dto.CarrierSearchResponse {
	return dto.CarrierSearchResponse{
		SearchID:         searchID,
		Recommended:      toCandidates(res.Recommended),
		Prospects:        toCandidates(res.Prospects),
		TotalRecommended: res.TotalRecommended,
		TotalProspects:   res.TotalProspects,
		PoolSize:         res.PoolSize,
		Excluded:         res.Excluded,
		Query: dto.SearchQueryResponse{
			Origin:        res.Query.Origin,
			Destination:   res.Query.Destination,
			EquipmentType: res.Query.EquipmentType,
		},
	}
}

func toCandidates(cands []domain.CarrierCandidate) []dto.CandidateResponse {
	out := make([]dto.CandidateResponse, 0, len(cands))
	for _, c := range cands {
		out = append(out, dto.CandidateResponse{
			CarrierID:      c.Carrier.ID,
			Name:           c.Carrier.Name,
			MCNumber:       c.Carrier.MCNumber,
			DOTNumber:      c.Carrier.DOTNumber,
			Email:          c.Carrier.Email,
			Phone:          c.Carrier.Phone,
			EquipmentTypes: c.Carrier.EquipmentTypes,
			HomeCity:       c.Carrier.HomeCity,
			HomeState:      c.Carrier.HomeState,
			CompositeScore: c.CompositeScore,
			LaneScore:      c.LaneScoreRaw,
			OnTimeScore:    c.OnTimeScoreRaw,
			Scores: dto.SubScoresResponse{
				EquipmentMatch:      c.Scores.EquipmentMatch,
				ProfileCompleteness: c.Scores.ProfileCompleteness,
				ServiceAreaMatch:    c.Scores.ServiceAreaMatch,
				OriginProximity:     c.Scores.OriginProximity,
			},
			LaneRunCount:      c.History.LaneRunCount,
			RegionRunCount:    c.History.RegionRunCount,
			OriginPickupCount: c.History.OriginPickupCount,
			OnTimeRate:        c.History.OnTimeRate,
			RecentlyActive:    c.History.RecentlyActive,
			LastLoadAt:        c.LastLoadAt,
			HasLaneHistory:    c.HasLaneHistory,
			IsNearOrigin:      c.IsNearOrigin,
			IsNewCarrier:      c.IsNewCarrier,
		})
	}
	return out
}

func carrierIDs(cands []domain.CarrierCandidate) []int {
	ids := make([]int, 0, len(cands))
	for _, c := range cands {
		ids = append(ids, c.Carrier.ID)
	}
	return ids
}
