package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestZip3(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"76001", "760"},
		{" 30301 ", "303"},
		{"760", "760"},
		{"76", ""},
		{"", ""},
		{"m5v 3l9", "M5V"},
		{"7-601", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Zip3(tc.in), "Zip3(%q)", tc.in)
	}
}

func TestShipmentRequestLabels(t *testing.T) {
	req := ShipmentRequest{
		OriginCity:            " Fort Worth ",
		OriginState:           "tx",
		OriginPostalCode:      "76101",
		DestinationPostalCode: "30301",
	}.Normalize()

	assert.Equal(t, "Fort Worth, TX", req.OriginLabel())
	assert.Equal(t, "30301", req.DestinationLabel())
	assert.Equal(t, "Unknown", ShipmentRequest{}.OriginLabel())
}

func TestShipmentRequestNormalizeClearsBlankEquipment(t *testing.T) {
	blank := "   "
	req := ShipmentRequest{EquipmentType: &blank}.Normalize()
	assert.Nil(t, req.EquipmentType)

	reefer := " Reefer "
	req = ShipmentRequest{EquipmentType: &reefer}.Normalize()
	if assert.NotNil(t, req.EquipmentType) {
		assert.Equal(t, "Reefer", *req.EquipmentType)
	}
	assert.Equal(t, " Reefer ", reefer, "caller's value must not be mutated")
}

func TestLoadOnTime(t *testing.T) {
	scheduled := time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC)
	early := scheduled.Add(-time.Hour)
	late := scheduled.Add(time.Minute)

	assert.True(t, Load{}.OnTime(), "missing timestamps count as on time")
	assert.True(t, Load{ScheduledDropAt: &scheduled}.OnTime())
	assert.True(t, Load{ScheduledDropAt: &scheduled, ActualDeliveryAt: &early}.OnTime())
	assert.True(t, Load{ScheduledDropAt: &scheduled, ActualDeliveryAt: &scheduled}.OnTime())
	assert.False(t, Load{ScheduledDropAt: &scheduled, ActualDeliveryAt: &late}.OnTime())
}

func TestOutreachTargets(t *testing.T) {
	email := "dispatch@example.com"
	blank := " "
	res := SearchResult{
		Recommended: []CarrierCandidate{
			{Carrier: Carrier{ID: 1, Email: &email}},
			{Carrier: Carrier{ID: 2}},
		},
		Prospects: []CarrierCandidate{
			{Carrier: Carrier{ID: 3, Email: &blank}},
			{Carrier: Carrier{ID: 4, Email: &email}},
			{Carrier: Carrier{ID: 5, Email: &email}},
		},
	}

	got := res.OutreachTargets(2)
	if assert.Len(t, got, 2) {
		assert.Equal(t, 1, got[0].Carrier.ID)
		assert.Equal(t, 4, got[1].Carrier.ID)
	}

	assert.Len(t, res.OutreachTargets(10), 3)
	assert.Nil(t, res.OutreachTargets(0))
	assert.Nil(t, res.OutreachTargets(-1))
	assert.Nil(t, (&SearchResult{}).OutreachTargets(-5))
}
