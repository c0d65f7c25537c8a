package ports

import (
	"context"
	"time"
)

// Summary of a completed carrier search for downstream outreach consumers.
type SearchCompletedEvent struct {
	SearchID              string    `json:"search_id"`
	VentureID             *int      `json:"venture_id"`
	Origin                string    `json:"origin"`
	Destination           string    `json:"destination"`
	EquipmentType         *string   `json:"equipment_type"`
	TotalRecommended      int       `json:"total_recommended"`
	TotalProspects        int       `json:"total_prospects"`
	RecommendedCarrierIDs []int     `json:"recommended_carrier_ids"`
	ProspectCarrierIDs    []int     `json:"prospect_carrier_ids"`
	OutreachCarrierIDs    []int     `json:"outreach_carrier_ids"`
	CompletedAt           time.Time `json:"completed_at"`
}

// Port: publishes search outcomes. Publishing is best effort for callers.
type SearchPublisher interface {
	PublishSearchCompleted(ctx context.Context, ev SearchCompletedEvent) error
}
