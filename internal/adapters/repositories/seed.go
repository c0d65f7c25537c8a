package repositories

import (
	"carrier-match-service/internal/domain"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

type CarrierSeed struct {
	CarrierID       int        `json:"carrier_id"`
	Name            string     `json:"name"`
	MCNumber        *string    `json:"mc_number"`
	DOTNumber       *string    `json:"dot_number"`
	TMSCarrierCode  *string    `json:"tms_carrier_code"`
	Email           *string    `json:"email"`
	Phone           *string    `json:"phone"`
	EquipmentTypes  *string    `json:"equipment_types"`
	ServiceAreas    *string    `json:"service_areas"`
	HomeCity        *string    `json:"home_city"`
	HomeState       *string    `json:"home_state"`
	HomePostalCode  *string    `json:"home_postal_code"`
	InsuranceExpiry *time.Time `json:"insurance_expiry"`
	Active          *bool      `json:"active"`
	VentureID       *int       `json:"venture_id"`
}

type LoadSeed struct {
	LoadID           int        `json:"load_id"`
	CarrierID        int        `json:"carrier_id"`
	PickupPostalCode string     `json:"pickup_postal_code"`
	PickupState      string     `json:"pickup_state"`
	DropPostalCode   string     `json:"drop_postal_code"`
	Status           string     `json:"status"`
	ScheduledDropAt  *time.Time `json:"scheduled_drop_at"`
	ActualDeliveryAt *time.Time `json:"actual_delivery_at"`
	CreatedAt        time.Time  `json:"created_at"`
	VentureID        *int       `json:"venture_id"`
}

// Carriers and loads used to populate a local or demo carrier store.
type SeedFile struct {
	Carriers []CarrierSeed `json:"carriers"`
	Loads    []LoadSeed    `json:"loads"`
}

// ReadSeedFile parses and validates a JSON seed file.
func ReadSeedFile(jsonPath string) (*SeedFile, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read seed: read %q: %w", jsonPath, err)
	}

	var data SeedFile
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("read seed: parse json: %w", err)
	}

	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}

	return &data, nil
}

func (s *SeedFile) Validate() error {
	carrierIDs := make(map[int]struct{}, len(s.Carriers))
	for i, c := range s.Carriers {
		if c.CarrierID <= 0 {
			return fmt.Errorf("invalid carrier_id at index %d: %d", i+1, c.CarrierID)
		}
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("carrier at index %d: name cannot be empty", i+1)
		}
		carrierIDs[c.CarrierID] = struct{}{}
	}

	for i, l := range s.Loads {
		if l.LoadID <= 0 {
			return fmt.Errorf("invalid load_id at index %d: %d", i+1, l.LoadID)
		}
		if _, ok := carrierIDs[l.CarrierID]; !ok {
			return fmt.Errorf("load at index %d: unknown carrier_id %d", i+1, l.CarrierID)
		}
		if strings.TrimSpace(l.Status) == "" {
			return fmt.Errorf("load at index %d: status cannot be empty", i+1)
		}
		if l.CreatedAt.IsZero() {
			return fmt.Errorf("load at index %d: created_at is required", i+1)
		}
	}

	return nil
}

func (c CarrierSeed) toDomain() *domain.Carrier {
	active := true
	if c.Active != nil {
		active = *c.Active
	}
	return &domain.Carrier{
		ID:              c.CarrierID,
		Name:            strings.TrimSpace(c.Name),
		MCNumber:        c.MCNumber,
		DOTNumber:       c.DOTNumber,
		TMSCarrierCode:  c.TMSCarrierCode,
		Email:           c.Email,
		Phone:           c.Phone,
		EquipmentTypes:  c.EquipmentTypes,
		ServiceAreas:    c.ServiceAreas,
		HomeCity:        c.HomeCity,
		HomeState:       c.HomeState,
		HomePostalCode:  c.HomePostalCode,
		InsuranceExpiry: c.InsuranceExpiry,
		Active:          active,
		VentureID:       c.VentureID,
	}
}

func (l LoadSeed) toDomain() domain.Load {
	return domain.Load{
		ID:               l.LoadID,
		CarrierID:        l.CarrierID,
		PickupPostalCode: domain.NormalizePostalCode(l.PickupPostalCode),
		PickupState:      strings.ToUpper(strings.TrimSpace(l.PickupState)),
		DropPostalCode:   domain.NormalizePostalCode(l.DropPostalCode),
		Status:           domain.LoadStatus(strings.ToUpper(strings.TrimSpace(l.Status))),
		ScheduledDropAt:  l.ScheduledDropAt,
		ActualDeliveryAt: l.ActualDeliveryAt,
		CreatedAt:        l.CreatedAt,
		VentureID:        l.VentureID,
	}
}

// Domain converts the seed into carrier and load records.
func (s *SeedFile) Domain() ([]*domain.Carrier, []domain.Load) {
	carriers := make([]*domain.Carrier, 0, len(s.Carriers))
	for _, c := range s.Carriers {
		carriers = append(carriers, c.toDomain())
	}

	loads := make([]domain.Load, 0, len(s.Loads))
	for _, l := range s.Loads {
		loads = append(loads, l.toDomain())
	}

	return carriers, loads
}

// Populate the database with carrier and load data from a JSON file.
func SeedFromJSON(ctx context.Context, db *sql.DB, dialect Dialect, jsonPath string) error {
	data, err := ReadSeedFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed carriers: %w", err)
	}
	return Seed(ctx, db, dialect, data)
}

// Seed upserts every carrier and load in data inside one transaction.
func Seed(ctx context.Context, db *sql.DB, dialect Dialect, data *SeedFile) error {
	if db == nil {
		return errors.New("seed carriers: DB is nil")
	}

	if err := data.Validate(); err != nil {
		return fmt.Errorf("seed carriers: %w", err)
	}
	carriers, loads := data.Domain()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed carriers: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	carrierStmt, err := tx.PrepareContext(ctx, dialect.Rebind(`
	INSERT INTO carriers (
		carrier_id, name, mc_number, dot_number, tms_carrier_code,
		email, phone, equipment_types, service_areas,
		home_city, home_state, home_postal_code,
		insurance_expiry, active, venture_id
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (carrier_id) DO UPDATE
	SET name = EXCLUDED.name,
		mc_number = EXCLUDED.mc_number,
		dot_number = EXCLUDED.dot_number,
		tms_carrier_code = EXCLUDED.tms_carrier_code,
		email = EXCLUDED.email,
		phone = EXCLUDED.phone,
		equipment_types = EXCLUDED.equipment_types,
		service_areas = EXCLUDED.service_areas,
		home_city = EXCLUDED.home_city,
		home_state = EXCLUDED.home_state,
		home_postal_code = EXCLUDED.home_postal_code,
		insurance_expiry = EXCLUDED.insurance_expiry,
		active = EXCLUDED.active,
		venture_id = EXCLUDED.venture_id;
	`))
	if err != nil {
		return fmt.Errorf("seed carriers: prepare carrier insert: %w", err)
	}
	defer carrierStmt.Close()

	for _, c := range carriers {
		_, err := carrierStmt.ExecContext(ctx,
			c.ID, c.Name, optional(c.MCNumber), optional(c.DOTNumber), optional(c.TMSCarrierCode),
			optional(c.Email), optional(c.Phone), optional(c.EquipmentTypes), optional(c.ServiceAreas),
			optional(c.HomeCity), optional(c.HomeState), optional(c.HomePostalCode),
			utcPtr(c.InsuranceExpiry), c.Active, optional(c.VentureID),
		)
		if err != nil {
			return fmt.Errorf("seed carriers: insert carrier_id=%d: %w", c.ID, err)
		}
	}

	loadStmt, err := tx.PrepareContext(ctx, dialect.Rebind(`
	INSERT INTO loads (
		load_id, carrier_id, pickup_postal_code, pickup_state, drop_postal_code,
		status, scheduled_drop_at, actual_delivery_at, created_at, venture_id
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (load_id) DO UPDATE
	SET carrier_id = EXCLUDED.carrier_id,
		pickup_postal_code = EXCLUDED.pickup_postal_code,
		pickup_state = EXCLUDED.pickup_state,
		drop_postal_code = EXCLUDED.drop_postal_code,
		status = EXCLUDED.status,
		scheduled_drop_at = EXCLUDED.scheduled_drop_at,
		actual_delivery_at = EXCLUDED.actual_delivery_at,
		created_at = EXCLUDED.created_at,
		venture_id = EXCLUDED.venture_id;
	`))
	if err != nil {
		return fmt.Errorf("seed carriers: prepare load insert: %w", err)
	}
	defer loadStmt.Close()

	for _, l := range loads {
		_, err := loadStmt.ExecContext(ctx,
			l.ID, l.CarrierID, l.PickupPostalCode, l.PickupState, l.DropPostalCode,
			string(l.Status), utcPtr(l.ScheduledDropAt), utcPtr(l.ActualDeliveryAt),
			l.CreatedAt.UTC(), optional(l.VentureID),
		)
		if err != nil {
			return fmt.Errorf("seed carriers: insert load_id=%d: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed carriers: commit tx: %w", err)
	}

	return nil
}

// optional binds a nil pointer as SQL NULL and anything else by value.
func optional[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

// utcPtr stores timestamps in UTC so string-backed stores compare them in order.
func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
