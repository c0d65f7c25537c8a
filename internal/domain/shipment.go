package domain

import (
	"strings"
	"time"
	"unicode"
)

// Shipment being matched against the carrier pool.
// Every location field is optional; a partial description still produces a
// ranking with neutral defaults.
type ShipmentRequest struct {
	OriginCity            string
	OriginState           string
	OriginPostalCode      string
	DestinationCity       string
	DestinationState      string
	DestinationPostalCode string
	EquipmentType         *string
	PickupDate            time.Time
	WeightLbs             *float64
	VentureID             *int
}

// Normalize trims every text field and upper-cases state codes.
// A blank equipment type is cleared to nil.
func (r ShipmentRequest) Normalize() ShipmentRequest {
	r.OriginCity = strings.TrimSpace(r.OriginCity)
	r.OriginState = strings.ToUpper(strings.TrimSpace(r.OriginState))
	r.OriginPostalCode = NormalizePostalCode(r.OriginPostalCode)
	r.DestinationCity = strings.TrimSpace(r.DestinationCity)
	r.DestinationState = strings.ToUpper(strings.TrimSpace(r.DestinationState))
	r.DestinationPostalCode = NormalizePostalCode(r.DestinationPostalCode)
	if r.EquipmentType != nil {
		eq := strings.TrimSpace(*r.EquipmentType)
		if eq == "" {
			r.EquipmentType = nil
		} else {
			r.EquipmentType = &eq
		}
	}
	return r
}

func (r ShipmentRequest) OriginZip3() string      { return Zip3(r.OriginPostalCode) }
func (r ShipmentRequest) DestinationZip3() string { return Zip3(r.DestinationPostalCode) }

// OriginLabel renders "City, ST" when both are known, else the postal code,
// else "Unknown".
func (r ShipmentRequest) OriginLabel() string {
	return locationLabel(r.OriginCity, r.OriginState, r.OriginPostalCode)
}

func (r ShipmentRequest) DestinationLabel() string {
	return locationLabel(r.DestinationCity, r.DestinationState, r.DestinationPostalCode)
}

func locationLabel(city, state, postal string) string {
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case postal != "":
		return postal
	default:
		return "Unknown"
	}
}

func NormalizePostalCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Zip3 returns the 3-character postal prefix that identifies a lane endpoint.
// Codes shorter than three characters, or whose prefix is not alphanumeric,
// have no prefix and yield "".
func Zip3(postal string) string {
	p := NormalizePostalCode(postal)
	if len(p) < 3 {
		return ""
	}
	for _, r := range p[:3] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return ""
		}
	}
	return p[:3]
}
