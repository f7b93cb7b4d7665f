package campaign

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/walldriyan/banana-sub000/internal/discount"
)

// ErrNotFound indicates the requested campaign could not be located.
var ErrNotFound = errors.New("campaign not found")

// Record pairs a stored campaign with its bookkeeping columns.
type Record struct {
	Set       discount.DiscountSet `json:"set"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// Store abstracts campaign persistence so services and tests do not depend on
// a live database.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (Record, error)
	GetDefault(ctx context.Context) (Record, error)
	List(ctx context.Context, limit, offset int32) ([]Record, int64, error)
	Create(ctx context.Context, set discount.DiscountSet) (Record, error)
	Update(ctx context.Context, set discount.DiscountSet) (Record, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (Record, error)
}

// PGStore persists campaigns in PostgreSQL. The rule tree is stored as a
// JSONB document; the flag columns exist for filtering.
type PGStore struct {
	Pool *pgxpool.Pool
}

const campaignColumns = "id, name, active, is_default, rules, created_at, updated_at"

func (s PGStore) scanRecord(row pgx.Row) (Record, error) {
	var (
		rec    Record
		id     uuid.UUID
		name   string
		active bool
		isDef  bool
		rawDoc []byte
	)
	if err := row.Scan(&id, &name, &active, &isDef, &rawDoc, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	if err := json.Unmarshal(rawDoc, &rec.Set); err != nil {
		return Record{}, fmt.Errorf("decode campaign rules: %w", err)
	}
	// Columns win over whatever the document carries.
	rec.Set.ID = id
	rec.Set.Name = name
	rec.Set.Active = active
	rec.Set.Default = isDef
	return rec, nil
}

// Get loads a campaign by id.
func (s PGStore) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	row := s.Pool.QueryRow(ctx,
		"SELECT "+campaignColumns+" FROM campaigns WHERE id = $1", id)
	return s.scanRecord(row)
}

// GetDefault loads the active default campaign.
func (s PGStore) GetDefault(ctx context.Context) (Record, error) {
	row := s.Pool.QueryRow(ctx,
		"SELECT "+campaignColumns+" FROM campaigns WHERE is_default AND active ORDER BY updated_at DESC LIMIT 1")
	return s.scanRecord(row)
}

// List returns campaigns ordered by recency together with the total count.
func (s PGStore) List(ctx context.Context, limit, offset int32) ([]Record, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.Pool.Query(ctx,
		"SELECT "+campaignColumns+" FROM campaigns ORDER BY updated_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := s.scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.Pool.QueryRow(ctx, "SELECT count(*) FROM campaigns").Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Create inserts a new campaign. A zero id is replaced with a fresh one.
func (s PGStore) Create(ctx context.Context, set discount.DiscountSet) (Record, error) {
	if set.ID == uuid.Nil {
		set.ID = uuid.New()
	}
	doc, err := json.Marshal(set)
	if err != nil {
		return Record{}, fmt.Errorf("encode campaign rules: %w", err)
	}
	row := s.Pool.QueryRow(ctx,
		`INSERT INTO campaigns (id, name, active, is_default, rules, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now(), now())
		 RETURNING `+campaignColumns,
		set.ID, set.Name, set.Active, set.Default, doc)
	return s.scanRecord(row)
}

// Update replaces the stored campaign document.
func (s PGStore) Update(ctx context.Context, set discount.DiscountSet) (Record, error) {
	doc, err := json.Marshal(set)
	if err != nil {
		return Record{}, fmt.Errorf("encode campaign rules: %w", err)
	}
	row := s.Pool.QueryRow(ctx,
		`UPDATE campaigns
		 SET name = $2, active = $3, is_default = $4, rules = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+campaignColumns,
		set.ID, set.Name, set.Active, set.Default, doc)
	return s.scanRecord(row)
}

// SetActive toggles a campaign's active flag.
func (s PGStore) SetActive(ctx context.Context, id uuid.UUID, active bool) (Record, error) {
	row := s.Pool.QueryRow(ctx,
		`UPDATE campaigns SET active = $2, updated_at = now() WHERE id = $1
		 RETURNING `+campaignColumns,
		id, active)
	return s.scanRecord(row)
}
