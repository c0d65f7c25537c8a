package cache

import (
	"carrier-match-service/internal/domain"
	"carrier-match-service/internal/platform/obs"
	"carrier-match-service/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	historyKeyPrefix       = "carrier-match:history:v1:"
	DefaultHistoryCacheTTL = 2 * time.Minute
)

// Redis-backed cache of aggregated carrier history signals.
// Every entry expires after TTL, which bounds how stale a ranking can be.
type RedisHistoryCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisHistoryCache(client *redis.Client, ttl time.Duration) *RedisHistoryCache {
	if ttl <= 0 {
		ttl = DefaultHistoryCacheTTL
	}
	return &RedisHistoryCache{Client: client, TTL: ttl}
}

type historyRecord struct {
	LaneRunCount      int        `json:"lane_runs"`
	OnTimeRate        *int       `json:"on_time_rate"`
	LaneLastLoadAt    *time.Time `json:"lane_last_load_at"`
	RegionRunCount    int        `json:"region_runs"`
	OriginPickupCount int        `json:"origin_pickups"`
	RecentlyActive    bool       `json:"recently_active"`
	LastActiveAt      *time.Time `json:"last_active_at"`
}

// HistoryKey identifies one carrier's signals for one query shape.
func HistoryKey(q ports.HistoryQuery) string {
	venture := "-"
	if q.VentureID != nil {
		venture = strconv.Itoa(*q.VentureID)
	}
	return historyKeyPrefix + strings.Join([]string{
		strconv.Itoa(q.CarrierID),
		venture,
		q.OriginZip3,
		q.DestZip3,
		q.OriginState,
	}, ":")
}

// Fetch cached signals for the query. The boolean is false on a cache miss.
func (c *RedisHistoryCache) Get(
	ctx context.Context,
	q ports.HistoryQuery,
) (_ domain.HistorySignals, _ bool, err error) {
	defer obs.Time(ctx, "history.cache.Get")(&err)

	if c.Client == nil {
		return domain.HistorySignals{}, false, errors.New("history cache: client is nil")
	}

	raw, err := c.Client.Get(ctx, HistoryKey(q)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.HistorySignals{}, false, nil
	}
	if err != nil {
		return domain.HistorySignals{}, false, fmt.Errorf("get history cache carrier_id=%d: %w", q.CarrierID, err)
	}

	var rec historyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.HistorySignals{}, false, fmt.Errorf("get history cache carrier_id=%d: decode: %w", q.CarrierID, err)
	}

	return domain.HistorySignals{
		LaneRunCount:      rec.LaneRunCount,
		OnTimeRate:        rec.OnTimeRate,
		LaneLastLoadAt:    rec.LaneLastLoadAt,
		RegionRunCount:    rec.RegionRunCount,
		OriginPickupCount: rec.OriginPickupCount,
		RecentlyActive:    rec.RecentlyActive,
		LastActiveAt:      rec.LastActiveAt,
	}, true, nil
}

// Store signals for the query with the cache TTL.
func (c *RedisHistoryCache) Put(ctx context.Context, q ports.HistoryQuery, s domain.HistorySignals) error {
	if c.Client == nil {
		return errors.New("history cache: client is nil")
	}

	payload, err := json.Marshal(historyRecord{
		LaneRunCount:      s.LaneRunCount,
		OnTimeRate:        s.OnTimeRate,
		LaneLastLoadAt:    s.LaneLastLoadAt,
		RegionRunCount:    s.RegionRunCount,
		OriginPickupCount: s.OriginPickupCount,
		RecentlyActive:    s.RecentlyActive,
		LastActiveAt:      s.LastActiveAt,
	})
	if err != nil {
		return fmt.Errorf("put history cache carrier_id=%d: encode: %w", q.CarrierID, err)
	}

	if err := c.Client.Set(ctx, HistoryKey(q), payload, c.TTL).Err(); err != nil {
		return fmt.Errorf("put history cache carrier_id=%d: %w", q.CarrierID, err)
	}
	return nil
}
