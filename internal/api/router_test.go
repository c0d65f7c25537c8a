package api

import (
	"carrier-match-service/internal/adapters/repositories"
	"carrier-match-service/internal/api/dto"
	"carrier-match-service/internal/api/handlers"
	"carrier-match-service/internal/domain"
	"carrier-match-service/internal/ports"
	"carrier-match-service/internal/services"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func strp(s string) *string { return &s }

type recordingPublisher struct {
	events []ports.SearchCompletedEvent
	err    error
}

func (p *recordingPublisher) PublishSearchCompleted(_ context.Context, ev ports.SearchCompletedEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func testStore() *repositories.MemoryStore {
	created := testNow.Add(-72 * time.Hour)
	return repositories.NewMemoryStore(
		[]*domain.Carrier{
			{ID: 1, Name: "Lone Star Freight", EquipmentTypes: strp("Dry Van"), HomeState: strp("TX"), Active: true},
			{ID: 2, Name: "Peach Haulers", Email: strp("ops@peach.example"), Active: true},
			{ID: 3, Name: "Retired", Active: false},
		},
		[]domain.Load{
			{ID: 10, CarrierID: 1, PickupPostalCode: "76104", PickupState: "TX", DropPostalCode: "30301", Status: domain.LoadStatusDelivered, CreatedAt: created},
		},
	)
}

func newTestServer(t *testing.T, store *repositories.MemoryStore, pub ports.SearchPublisher) *httptest.Server {
	t.Helper()

	search := services.NewCarrierSearch(store, store, nil, services.SearchConfig{
		Clock: func() time.Time { return testNow },
	})
	h := &handlers.CarrierHandler{
		Searcher:  search,
		Carriers:  store,
		Publisher: pub,
		Timeout:   5 * time.Second,
		Clock:     func() time.Time { return testNow },
	}

	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv
}

func postSearch(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/carriers/search", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", "req-123")

	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, testStore(), nil)

	res, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("X-Request-Id"), "request id is minted when absent")
}

func TestSearchEndpoint(t *testing.T) {
	pub := &recordingPublisher{}
	srv := newTestServer(t, testStore(), pub)

	res := postSearch(t, srv, `{
		"origin_city": "Fort Worth", "origin_state": "tx", "origin_postal_code": "76102",
		"destination_city": "Atlanta", "destination_state": "GA", "destination_postal_code": "30303",
		"equipment_type": "Dry Van"
	}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "req-123", res.Header.Get("X-Request-Id"))

	var body dto.CarrierSearchResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))

	assert.Equal(t, "req-123", body.SearchID)
	assert.Equal(t, 2, body.PoolSize)
	assert.Equal(t, "Fort Worth, TX", body.Query.Origin)
	require.Len(t, body.Recommended, 1)
	assert.Equal(t, 1, body.Recommended[0].CarrierID)
	assert.True(t, body.Recommended[0].HasLaneHistory)
	assert.Equal(t, 40, body.Recommended[0].LaneScore)
	require.Len(t, body.Prospects, 1)
	assert.Equal(t, 2, body.Prospects[0].CarrierID)
	assert.True(t, body.Prospects[0].IsNewCarrier)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, "req-123", ev.SearchID)
	assert.Equal(t, []int{1}, ev.RecommendedCarrierIDs)
	assert.Equal(t, []int{2}, ev.ProspectCarrierIDs)
	assert.Equal(t, []int{2}, ev.OutreachCarrierIDs, "only carriers with an email are reachable")
	assert.True(t, ev.CompletedAt.Equal(testNow))
}

func TestSearchEndpointPublishFailureIsIgnored(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	srv := newTestServer(t, testStore(), pub)

	res := postSearch(t, srv, `{"origin_state": "TX"}`)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, pub.events, 1)
}

func TestSearchEndpointRejectsBadBodies(t *testing.T) {
	srv := newTestServer(t, testStore(), nil)

	cases := map[string]string{
		"not json":       `{`,
		"unknown field":  `{"origin_zip": "76102"}`,
		"two objects":    `{} {}`,
		"bad weight":     `{"weight_lbs": -5}`,
		"bad venture id": `{"venture_id": 0}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			res := postSearch(t, srv, body)
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		})
	}
}

func TestSearchEndpointPoolUnavailable(t *testing.T) {
	store := testStore()
	store.PoolErr = errors.New("connection refused")
	srv := newTestServer(t, store, nil)

	res := postSearch(t, srv, `{}`)
	require.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "carrier pool unavailable", body.Error)
	assert.Equal(t, "req-123", body.RequestID)
}

func TestSearchEndpointMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, testStore(), nil)

	res, err := srv.Client().Get(srv.URL + "/v1/carriers/search")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestListCarriersEndpoint(t *testing.T) {
	srv := newTestServer(t, testStore(), nil)

	res, err := srv.Client().Get(srv.URL + "/v1/carriers?limit=1")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body dto.ListCarriersResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Len(t, body.Carriers, 1)
	assert.Equal(t, "Lone Star Freight", body.Carriers[0].Name)

	bad, err := srv.Client().Get(srv.URL + "/v1/carriers?limit=0")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}
