package repositories

import (
	"carrier-match-service/internal/domain"
	"carrier-match-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQL-backed implementation of the CarrierRepository port.
type SQLCarrierRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLCarrierRepository(db *sql.DB, dialect Dialect) *SQLCarrierRepository {
	return &SQLCarrierRepository{DB: db, Dialect: dialect}
}

// Return up to limit active carriers ordered by carrier_id.
func (s *SQLCarrierRepository) ListActiveCarriers(
	ctx context.Context,
	ventureID *int,
	limit int,
) (_ []*domain.Carrier, err error) {
	defer obs.Time(ctx, "carriers.ListActiveCarriers")(&err)

	if s.DB == nil {
		return nil, errors.New("sql carrier repository: DB is nil")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("list carriers: limit must be positive, got %d", limit)
	}

	query := `
	SELECT
		carrier_id, name, mc_number, dot_number, tms_carrier_code,
		email, phone, equipment_types, service_areas,
		home_city, home_state, home_postal_code,
		insurance_expiry, active, venture_id
	FROM carriers
	WHERE active = ?`
	args := []any{true}

	if ventureID != nil {
		query += ` AND venture_id = ?`
		args = append(args, *ventureID)
	}

	query += `
	ORDER BY carrier_id
	LIMIT ?;`
	args = append(args, limit)

	rows, err := s.DB.QueryContext(ctx, s.Dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list carriers: query carriers table: %w", err)
	}
	defer rows.Close()

	carriers := make([]*domain.Carrier, 0, limit)
	for rows.Next() {
		c, err := scanCarrier(rows)
		if err != nil {
			return nil, fmt.Errorf("list carriers: scan row: %w", err)
		}
		carriers = append(carriers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list carriers: row iteration: %w", err)
	}

	return carriers, nil
}

func scanCarrier(rows *sql.Rows) (*domain.Carrier, error) {
	var (
		c                                  domain.Carrier
		mc, dot, tms, email, phone         sql.NullString
		equipment, areas, city, state, zip sql.NullString
		insurance                          sql.NullTime
		venture                            sql.NullInt64
	)

	err := rows.Scan(
		&c.ID, &c.Name, &mc, &dot, &tms,
		&email, &phone, &equipment, &areas,
		&city, &state, &zip,
		&insurance, &c.Active, &venture,
	)
	if err != nil {
		return nil, err
	}

	c.MCNumber = nullString(mc)
	c.DOTNumber = nullString(dot)
	c.TMSCarrierCode = nullString(tms)
	c.Email = nullString(email)
	c.Phone = nullString(phone)
	c.EquipmentTypes = nullString(equipment)
	c.ServiceAreas = nullString(areas)
	c.HomeCity = nullString(city)
	c.HomeState = nullString(state)
	c.HomePostalCode = nullString(zip)
	c.InsuranceExpiry = nullTime(insurance)
	if venture.Valid {
		v := int(venture.Int64)
		c.VentureID = &v
	}

	return &c, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}
