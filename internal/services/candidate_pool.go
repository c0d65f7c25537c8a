package services

import (
	"carrier-match-service/internal/domain"
	"carrier-match-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultPoolSize bounds how many carriers one search scores.
// Callers needing full-fleet coverage must page the carrier store themselves.
const DefaultPoolSize = 100

// DefaultPoolLoadTimeout bounds one shared pool query.
const DefaultPoolLoadTimeout = 10 * time.Second

// ErrPoolUnavailable wraps any failure to load the candidate pool.
var ErrPoolUnavailable = errors.New("carrier pool unavailable")

// CandidatePoolLoader loads the bounded set of active carriers to score.
//
// Concurrent loads for the same venture share one store query. The shared
// query is detached from any single caller's cancellation and bounded by
// Timeout instead; each caller still stops waiting when its own ctx ends.
// Nothing is cached between searches.
type CandidatePoolLoader struct {
	Repo    ports.CarrierRepository
	Limit   int
	Timeout time.Duration

	group singleflight.Group
}

func NewCandidatePoolLoader(repo ports.CarrierRepository, limit int) *CandidatePoolLoader {
	if limit <= 0 {
		limit = DefaultPoolSize
	}
	return &CandidatePoolLoader{Repo: repo, Limit: limit, Timeout: DefaultPoolLoadTimeout}
}

// Load returns up to Limit active carriers, scoped to ventureID when set.
// The returned carriers may be shared with concurrent callers and must not
// be mutated.
//
// A caller whose ctx ends first gets its ctx error, not ErrPoolUnavailable.
func (l *CandidatePoolLoader) Load(ctx context.Context, ventureID *int) ([]*domain.Carrier, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}

	key := "all"
	if ventureID != nil {
		key = strconv.Itoa(*ventureID)
	}

	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultPoolLoadTimeout
	}

	ch := l.group.DoChan(key, func() (any, error) {
		qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		return l.Repo.ListActiveCarriers(qctx, ventureID, l.Limit)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load candidate pool: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("load candidate pool: %w: %w", ErrPoolUnavailable, res.Err)
		}
		carriers := res.Val.([]*domain.Carrier)
		if len(carriers) > l.Limit {
			carriers = carriers[:l.Limit]
		}
		return carriers, nil
	}
}
