package domain

import "time"

type LoadStatus string

const (
	LoadStatusOpen      LoadStatus = "OPEN"
	LoadStatusCovered   LoadStatus = "COVERED"
	LoadStatusDelivered LoadStatus = "DELIVERED"
)

// A past or in-flight shipment hauled by a carrier.
// Loads only feed aggregate history signals and are never returned to callers.
type Load struct {
	ID               int
	CarrierID        int
	PickupPostalCode string
	PickupState      string
	DropPostalCode   string
	Status           LoadStatus
	ScheduledDropAt  *time.Time
	ActualDeliveryAt *time.Time
	CreatedAt        time.Time
	VentureID        *int
}

// OnTime reports whether the load arrived at or before its scheduled drop.
// Loads missing either timestamp count as on time.
func (l Load) OnTime() bool {
	if l.ScheduledDropAt == nil || l.ActualDeliveryAt == nil {
		return true
	}
	return !l.ActualDeliveryAt.After(*l.ScheduledDropAt)
}
