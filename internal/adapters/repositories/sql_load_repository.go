package repositories

import (
	"carrier-match-service/internal/domain"
	"carrier-match-service/internal/platform/obs"
	"carrier-match-service/internal/ports"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQL-backed implementation of the LoadHistoryRepository port.
// Postal prefixes are matched case-insensitively with LIKE 'prefix%'.
type SQLLoadHistoryRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLLoadHistoryRepository(db *sql.DB, dialect Dialect) *SQLLoadHistoryRepository {
	return &SQLLoadHistoryRepository{DB: db, Dialect: dialect}
}

// Delivered loads on the lane, newest first.
func (s *SQLLoadHistoryRepository) ListDeliveredLaneLoads(
	ctx context.Context,
	q ports.HistoryQuery,
) (_ []domain.Load, err error) {
	defer obs.Time(ctx, "loads.ListDeliveredLaneLoads")(&err)

	if s.DB == nil {
		return nil, errors.New("sql load repository: DB is nil")
	}
	if q.OriginZip3 == "" || q.DestZip3 == "" {
		return nil, errors.New("list lane loads: both lane prefixes are required")
	}

	query := `
	SELECT
		load_id, carrier_id, pickup_postal_code, pickup_state, drop_postal_code,
		status, scheduled_drop_at, actual_delivery_at, created_at
	FROM loads
	WHERE carrier_id = ?
		AND status = ?
		AND UPPER(pickup_postal_code) LIKE ?
		AND UPPER(drop_postal_code) LIKE ?`
	args := []any{q.CarrierID, string(domain.LoadStatusDelivered), q.OriginZip3 + "%", q.DestZip3 + "%"}

	query, args = withVenture(query, args, q.VentureID)
	query += `
	ORDER BY created_at DESC;`

	rows, err := s.DB.QueryContext(ctx, s.Dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list lane loads: query loads table: %w", err)
	}
	defer rows.Close()

	loads := make([]domain.Load, 0, 16)
	for rows.Next() {
		var (
			l                 domain.Load
			status            string
			scheduled, actual sql.NullTime
		)
		err := rows.Scan(
			&l.ID, &l.CarrierID, &l.PickupPostalCode, &l.PickupState, &l.DropPostalCode,
			&status, &scheduled, &actual, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list lane loads: scan row: %w", err)
		}
		l.Status = domain.LoadStatus(status)
		l.ScheduledDropAt = nullTime(scheduled)
		l.ActualDeliveryAt = nullTime(actual)
		l.CreatedAt = l.CreatedAt.UTC()
		l.VentureID = q.VentureID
		loads = append(loads, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lane loads: row iteration: %w", err)
	}

	return loads, nil
}

// Delivered loads touching either lane end.
func (s *SQLLoadHistoryRepository) CountDeliveredRegionLoads(ctx context.Context, q ports.HistoryQuery) (_ int, err error) {
	defer obs.Time(ctx, "loads.CountDeliveredRegionLoads")(&err)

	var conds []string
	var args []any
	if q.OriginZip3 != "" {
		conds = append(conds, "UPPER(pickup_postal_code) LIKE ?")
		args = append(args, q.OriginZip3+"%")
	}
	if q.DestZip3 != "" {
		conds = append(conds, "UPPER(drop_postal_code) LIKE ?")
		args = append(args, q.DestZip3+"%")
	}

	n, err := s.countDelivered(ctx, q, conds, args)
	if err != nil {
		return 0, fmt.Errorf("count region loads: %w", err)
	}
	return n, nil
}

// Delivered loads picked up in the origin prefix or origin state.
func (s *SQLLoadHistoryRepository) CountDeliveredOriginPickups(ctx context.Context, q ports.HistoryQuery) (_ int, err error) {
	defer obs.Time(ctx, "loads.CountDeliveredOriginPickups")(&err)

	var conds []string
	var args []any
	if q.OriginZip3 != "" {
		conds = append(conds, "UPPER(pickup_postal_code) LIKE ?")
		args = append(args, q.OriginZip3+"%")
	}
	if q.OriginState != "" {
		conds = append(conds, "UPPER(pickup_state) = ?")
		args = append(args, strings.ToUpper(q.OriginState))
	}

	n, err := s.countDelivered(ctx, q, conds, args)
	if err != nil {
		return 0, fmt.Errorf("count origin pickups: %w", err)
	}
	return n, nil
}

// countDelivered counts the carrier's delivered loads matching any of conds.
func (s *SQLLoadHistoryRepository) countDelivered(
	ctx context.Context,
	q ports.HistoryQuery,
	conds []string,
	condArgs []any,
) (int, error) {
	if s.DB == nil {
		return 0, errors.New("sql load repository: DB is nil")
	}
	if len(conds) == 0 {
		return 0, errors.New("at least one location filter is required")
	}

	query := `
	SELECT COUNT(*)
	FROM loads
	WHERE carrier_id = ?
		AND status = ?
		AND (` + strings.Join(conds, " OR ") + `)`
	args := append([]any{q.CarrierID, string(domain.LoadStatusDelivered)}, condArgs...)
	query, args = withVenture(query, args, q.VentureID)

	var n int
	if err := s.DB.QueryRowContext(ctx, s.Dialect.Rebind(query), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("query loads table: %w", err)
	}
	return n, nil
}

// Creation time of the carrier's newest load created at or after since.
func (s *SQLLoadHistoryRepository) LatestLoadSince(
	ctx context.Context,
	q ports.HistoryQuery,
	since time.Time,
) (_ *time.Time, err error) {
	defer obs.Time(ctx, "loads.LatestLoadSince")(&err)

	if s.DB == nil {
		return nil, errors.New("sql load repository: DB is nil")
	}

	query := `
	SELECT created_at
	FROM loads
	WHERE carrier_id = ?
		AND created_at >= ?`
	args := []any{q.CarrierID, since.UTC()}

	query, args = withVenture(query, args, q.VentureID)
	query += `
	ORDER BY created_at DESC
	LIMIT 1;`

	var created time.Time
	err = s.DB.QueryRowContext(ctx, s.Dialect.Rebind(query), args...).Scan(&created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest load: query loads table: %w", err)
	}

	created = created.UTC()
	return &created, nil
}

func withVenture(query string, args []any, ventureID *int) (string, []any) {
	if ventureID == nil {
		return query, args
	}
	return query + `
		AND venture_id = ?`, append(args, *ventureID)
}
