package events

import (
	"carrier-match-service/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaSearchPublisherPublish(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaSearchPublisherWithWriter(w)

	venture := 4
	completed := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	ev := ports.SearchCompletedEvent{
		SearchID:              "req-1",
		VentureID:             &venture,
		Origin:                "Fort Worth, TX",
		Destination:           "30301",
		TotalRecommended:      2,
		TotalProspects:        1,
		RecommendedCarrierIDs: []int{8, 3},
		ProspectCarrierIDs:    []int{5},
		OutreachCarrierIDs:    []int{3, 5},
		CompletedAt:           completed,
	}

	require.NoError(t, p.PublishSearchCompleted(context.Background(), ev))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "venture:4", string(msg.Key))
	assert.True(t, msg.Time.Equal(completed))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "req-1", decoded["search_id"])
	assert.Equal(t, "Fort Worth, TX", decoded["origin"])
	assert.Equal(t, []any{float64(8), float64(3)}, decoded["recommended_carrier_ids"])
	assert.Equal(t, []any{float64(3), float64(5)}, decoded["outreach_carrier_ids"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaSearchPublisherWriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewKafkaSearchPublisherWithWriter(w)

	err := p.PublishSearchCompleted(context.Background(), ports.SearchCompletedEvent{SearchID: "req-2"})
	assert.ErrorContains(t, err, "search_id=req-2")
	assert.ErrorContains(t, err, "broker down")
}

func TestNewKafkaSearchPublisherRequiresBrokers(t *testing.T) {
	_, err := NewKafkaSearchPublisher(nil, "")
	assert.Error(t, err)

	p, err := NewKafkaSearchPublisher([]string{"localhost:9092"}, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultSearchTopic, p.writer.(*kafka.Writer).Topic)
	assert.Equal(t, "venture:all", eventKey(ports.SearchCompletedEvent{}))
}
