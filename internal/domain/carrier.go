package domain

import (
	"strings"
	"time"
)

// Read-only view of a carrier owned by the carrier store.
// Optional attributes are nil when the store holds no value; an empty or
// whitespace-only string is treated the same as nil.
type Carrier struct {
	ID              int
	Name            string
	MCNumber        *string
	DOTNumber       *string
	TMSCarrierCode  *string
	Email           *string
	Phone           *string
	EquipmentTypes  *string
	ServiceAreas    *string
	HomeCity        *string
	HomeState       *string
	HomePostalCode  *string
	InsuranceExpiry *time.Time
	Active          bool
	VentureID       *int
}

// Text returns the trimmed value of an optional attribute, or "" when absent.
func Text(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

// Has reports whether an optional attribute carries a non-blank value.
func Has(v *string) bool { return Text(v) != "" }

// InsuredAt reports whether the carrier's insurance expires strictly after t.
func (c *Carrier) InsuredAt(t time.Time) bool {
	return c.InsuranceExpiry != nil && c.InsuranceExpiry.After(t)
}
