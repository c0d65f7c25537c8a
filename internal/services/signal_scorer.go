package services

import (
	"carrier-match-service/internal/domain"
	"strings"
	"time"
	"unicode"
)

const (
	equipmentUnconstrainedScore = 50
	equipmentExactScore         = 100
	equipmentSynonymScore       = 70
	equipmentMismatchScore      = 20

	serviceAreaBaseScore       = 30
	serviceAreaNationwideScore = 80
	serviceAreaStateBonus      = 35
)

// Equipment families a dispatcher treats as interchangeable.
// Keys and values use normalized spelling (upper case, single spaces).
var equipmentSynonyms = buildSynonyms(map[string][]string{
	"DRY VAN":   {"VAN", "DRY"},
	"REEFER":    {"REFRIGERATED", "COLD"},
	"FLATBED":   {"FLAT", "STEP DECK"},
	"STEP DECK": {"FLATBED", "FLAT"},
})

// buildSynonyms makes every declared pair usable from either side.
func buildSynonyms(declared map[string][]string) map[string][]string {
	out := make(map[string][]string)
	add := func(from, to string) {
		for _, existing := range out[from] {
			if existing == to {
				return
			}
		}
		out[from] = append(out[from], to)
	}
	for from, tos := range declared {
		for _, to := range tos {
			add(from, to)
			add(to, from)
		}
	}
	return out
}

// normalizeEquipment upper-cases a tag and treats "_", "-" and runs of
// whitespace as a single space, so "dry_van" and "Dry  Van" compare equal.
func normalizeEquipment(s string) string {
	s = strings.ToUpper(s)
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// EquipmentMatchScore scores how well a carrier's equipment fits the request.
func EquipmentMatchScore(carrierEquipment, requested *string) int {
	want := normalizeEquipment(domain.Text(requested))
	if want == "" {
		return equipmentUnconstrainedScore
	}

	have := normalizeEquipment(domain.Text(carrierEquipment))
	if have == "" {
		return 0
	}

	if strings.Contains(have, want) {
		return equipmentExactScore
	}

	for _, alt := range equipmentSynonyms[want] {
		if strings.Contains(have, alt) {
			return equipmentSynonymScore
		}
	}

	return equipmentMismatchScore
}

// ProfileCompletenessScore rewards carriers whose record is filled in and
// currently compliant.
func ProfileCompletenessScore(c *domain.Carrier, now time.Time) int {
	score := 0

	if domain.Has(c.MCNumber) {
		score += 15
	}
	if domain.Has(c.DOTNumber) {
		score += 15
	}
	if domain.Has(c.Email) {
		score += 10
	}
	if domain.Has(c.Phone) {
		score += 10
	}
	if domain.Has(c.EquipmentTypes) {
		score += 10
	}
	if domain.Has(c.ServiceAreas) {
		score += 10
	}
	if c.InsuredAt(now) {
		score += 15
	}
	if c.Active {
		score += 15
	}

	return clamp(score, 0, 100)
}

// serviceAreaTokens splits a free-text service-area descriptor into
// upper-case alphanumeric tokens ("TX, OK / nationwide" -> TX OK NATIONWIDE).
func serviceAreaTokens(areas *string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToUpper(domain.Text(areas)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		out[f] = struct{}{}
	}
	return out
}

func hasToken(tokens map[string]struct{}, tok string) bool {
	if tok == "" {
		return false
	}
	_, ok := tokens[tok]
	return ok
}

// ServiceAreaMatchScore scores overlap between a carrier's declared service
// area and the shipment's endpoints. Nationwide carriers short-circuit to a
// fixed score without state matching.
func ServiceAreaMatchScore(areas *string, originState, destState string) int {
	if !domain.Has(areas) {
		return serviceAreaBaseScore
	}

	tokens := serviceAreaTokens(areas)
	if hasToken(tokens, "NATIONWIDE") || hasToken(tokens, "ALL") {
		return serviceAreaNationwideScore
	}

	score := serviceAreaBaseScore
	if hasToken(tokens, originState) {
		score += serviceAreaStateBonus
	}
	if hasToken(tokens, destState) {
		score += serviceAreaStateBonus
	}

	return clamp(score, 0, 100)
}

// OriginProximityScore ranks how close the carrier's home base is to the
// pickup. The checks form a cascade; the first match wins.
func OriginProximityScore(c *domain.Carrier, req domain.ShipmentRequest) int {
	homeZip := domain.NormalizePostalCode(domain.Text(c.HomePostalCode))
	homeCity := strings.ToUpper(domain.Text(c.HomeCity))
	homeState := strings.ToUpper(domain.Text(c.HomeState))
	originCity := strings.ToUpper(req.OriginCity)
	originState := strings.ToUpper(req.OriginState)
	homeZip3 := domain.Zip3(homeZip)

	switch {
	case homeZip != "" && homeZip == domain.NormalizePostalCode(req.OriginPostalCode):
		return 100
	case homeZip3 != "" && homeZip3 == req.OriginZip3():
		return 85
	case homeCity != "" && homeCity == originCity && homeState == originState:
		return 80
	case homeState != "" && homeState == originState:
		return 60
	case hasToken(serviceAreaTokens(c.ServiceAreas), originState):
		return 50
	default:
		return 0
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
