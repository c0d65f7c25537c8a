package repositories

import (
	"carrier-match-service/internal/domain"
	"carrier-match-service/internal/ports"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// In-memory carrier store implementing CarrierRepository and
// LoadHistoryRepository with the same filters as the SQL adapters.
// Used by tests and for searching a seed file without a database.
type MemoryStore struct {
	mu       sync.RWMutex
	carriers []*domain.Carrier
	loads    []domain.Load

	// PoolErr, when set, fails ListActiveCarriers.
	PoolErr error

	historyErrs map[int]error
}

func NewMemoryStore(carriers []*domain.Carrier, loads []domain.Load) *MemoryStore {
	m := &MemoryStore{historyErrs: map[int]error{}}
	for _, c := range carriers {
		m.AddCarrier(c)
	}
	for _, l := range loads {
		m.AddLoad(l)
	}
	return m
}

// NewMemoryStoreFromSeed builds a store from a parsed seed file.
func NewMemoryStoreFromSeed(seed *SeedFile) (*MemoryStore, error) {
	if err := seed.Validate(); err != nil {
		return nil, fmt.Errorf("memory store: %w", err)
	}
	carriers, loads := seed.Domain()
	return NewMemoryStore(carriers, loads), nil
}

func (m *MemoryStore) AddCarrier(c *domain.Carrier) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *c
	m.carriers = append(m.carriers, &cp)
	slices.SortFunc(m.carriers, func(a, b *domain.Carrier) int { return a.ID - b.ID })
}

// FailHistory makes every history query for carrierID return err.
func (m *MemoryStore) FailHistory(carrierID int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.historyErrs[carrierID] = err
}

func (m *MemoryStore) AddLoad(l domain.Load) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l.PickupPostalCode = domain.NormalizePostalCode(l.PickupPostalCode)
	l.DropPostalCode = domain.NormalizePostalCode(l.DropPostalCode)
	l.PickupState = strings.ToUpper(strings.TrimSpace(l.PickupState))
	m.loads = append(m.loads, l)
}

func (m *MemoryStore) ListActiveCarriers(ctx context.Context, ventureID *int, limit int) ([]*domain.Carrier, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.PoolErr != nil {
		return nil, m.PoolErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Carrier, 0, min(limit, len(m.carriers)))
	for _, c := range m.carriers {
		if len(out) >= limit {
			break
		}
		if !c.Active || !sameVenture(c.VentureID, ventureID) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryStore) ListDeliveredLaneLoads(ctx context.Context, q ports.HistoryQuery) ([]domain.Load, error) {
	var out []domain.Load
	err := m.eachLoad(ctx, q, func(l domain.Load) {
		if l.Status == domain.LoadStatusDelivered &&
			strings.HasPrefix(l.PickupPostalCode, q.OriginZip3) &&
			strings.HasPrefix(l.DropPostalCode, q.DestZip3) {
			out = append(out, l)
		}
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(out, func(a, b domain.Load) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m *MemoryStore) CountDeliveredRegionLoads(ctx context.Context, q ports.HistoryQuery) (int, error) {
	n := 0
	err := m.eachLoad(ctx, q, func(l domain.Load) {
		if l.Status != domain.LoadStatusDelivered {
			return
		}
		if hasPrefix(l.PickupPostalCode, q.OriginZip3) || hasPrefix(l.DropPostalCode, q.DestZip3) {
			n++
		}
	})
	return n, err
}

func (m *MemoryStore) CountDeliveredOriginPickups(ctx context.Context, q ports.HistoryQuery) (int, error) {
	n := 0
	err := m.eachLoad(ctx, q, func(l domain.Load) {
		if l.Status != domain.LoadStatusDelivered {
			return
		}
		if hasPrefix(l.PickupPostalCode, q.OriginZip3) || (q.OriginState != "" && l.PickupState == q.OriginState) {
			n++
		}
	})
	return n, err
}

func (m *MemoryStore) LatestLoadSince(ctx context.Context, q ports.HistoryQuery, since time.Time) (*time.Time, error) {
	var latest *time.Time
	err := m.eachLoad(ctx, q, func(l domain.Load) {
		if l.CreatedAt.Before(since) {
			return
		}
		if latest == nil || l.CreatedAt.After(*latest) {
			t := l.CreatedAt
			latest = &t
		}
	})
	if err != nil {
		return nil, err
	}
	return latest, nil
}

// eachLoad visits the carrier's loads within the query's venture scope.
func (m *MemoryStore) eachLoad(ctx context.Context, q ports.HistoryQuery, fn func(domain.Load)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.historyErrs[q.CarrierID]; err != nil {
		return err
	}

	for _, l := range m.loads {
		if l.CarrierID == q.CarrierID && sameVenture(l.VentureID, q.VentureID) {
			fn(l)
		}
	}
	return nil
}

// hasPrefix treats an empty prefix as "no filter", never as a match.
func hasPrefix(s, prefix string) bool {
	return prefix != "" && strings.HasPrefix(s, prefix)
}

// sameVenture reports whether a record belongs to the requested scope.
// A nil scope matches every record.
func sameVenture(record, scope *int) bool {
	if scope == nil {
		return true
	}
	return record != nil && *record == *scope
}
