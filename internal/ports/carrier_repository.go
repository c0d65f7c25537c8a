package ports

import (
	"carrier-match-service/internal/domain"
	"context"
)

// Port: a boundary for reading carriers from the carrier store.
type CarrierRepository interface {
	// Return up to limit active carriers in storage order (id ascending).
	// A nil ventureID lists carriers across all ventures.
	ListActiveCarriers(ctx context.Context, ventureID *int, limit int) ([]*domain.Carrier, error)
}
