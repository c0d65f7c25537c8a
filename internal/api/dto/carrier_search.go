package dto

import "time"

type CarrierSearchRequest struct {
	OriginCity            string     `json:"origin_city"`
	OriginState           string     `json:"origin_state"`
	OriginPostalCode      string     `json:"origin_postal_code"`
	DestinationCity       string     `json:"destination_city"`
	DestinationState      string     `json:"destination_state"`
	DestinationPostalCode string     `json:"destination_postal_code"`
	EquipmentType         *string    `json:"equipment_type"`
	PickupDate            *time.Time `json:"pickup_date"`
	WeightLbs             *float64   `json:"weight_lbs"`
	VentureID             *int       `json:"venture_id"`
}

type SubScoresResponse struct {
	EquipmentMatch      int `json:"equipment_match"`
	ProfileCompleteness int `json:"profile_completeness"`
	ServiceAreaMatch    int `json:"service_area_match"`
	OriginProximity     int `json:"origin_proximity"`
}

type CandidateResponse struct {
	CarrierID         int               `json:"carrier_id"`
	Name              string            `json:"name"`
	MCNumber          *string           `json:"mc_number"`
	DOTNumber         *string           `json:"dot_number"`
	Email             *string           `json:"email"`
	Phone             *string           `json:"phone"`
	EquipmentTypes    *string           `json:"equipment_types"`
	HomeCity          *string           `json:"home_city"`
	HomeState         *string           `json:"home_state"`
	CompositeScore    int               `json:"composite_score"`
	LaneScore         int               `json:"lane_score"`
	OnTimeScore       int               `json:"on_time_score"`
	Scores            SubScoresResponse `json:"scores"`
	LaneRunCount      int               `json:"lane_run_count"`
	RegionRunCount    int               `json:"region_run_count"`
	OriginPickupCount int               `json:"origin_pickup_count"`
	OnTimeRate        *int              `json:"on_time_rate"`
	RecentlyActive    bool              `json:"recently_active"`
	LastLoadAt        *time.Time        `json:"last_load_at"`
	HasLaneHistory    bool              `json:"has_lane_history"`
	IsNearOrigin      bool              `json:"is_near_origin"`
	IsNewCarrier      bool              `json:"is_new_carrier"`
}

type SearchQueryResponse struct {
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	EquipmentType *string `json:"equipment_type"`
}

type CarrierSearchResponse struct {
	SearchID         string              `json:"search_id"`
	Recommended      []CandidateResponse `json:"recommended"`
	Prospects        []CandidateResponse `json:"prospects"`
	TotalRecommended int                 `json:"total_recommended"`
	TotalProspects   int                 `json:"total_prospects"`
	PoolSize         int                 `json:"pool_size"`
	Excluded         int                 `json:"excluded"`
	Query            SearchQueryResponse `json:"query"`
}

type CarrierResponse struct {
	CarrierID       int        `json:"carrier_id"`
	Name            string     `json:"name"`
	MCNumber        *string    `json:"mc_number"`
	DOTNumber       *string    `json:"dot_number"`
	Email           *string    `json:"email"`
	EquipmentTypes  *string    `json:"equipment_types"`
	ServiceAreas    *string    `json:"service_areas"`
	HomeCity        *string    `json:"home_city"`
	HomeState       *string    `json:"home_state"`
	HomePostalCode  *string    `json:"home_postal_code"`
	InsuranceExpiry *time.Time `json:"insurance_expiry"`
	VentureID       *int       `json:"venture_id"`
}

type ListCarriersResponse struct {
	Carriers []CarrierResponse `json:"carriers"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}
