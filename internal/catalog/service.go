package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/walldriyan/banana-sub000/internal/discount"
)

// ErrNotFound indicates the requested product could not be located.
var ErrNotFound = errors.New("product not found")

// Product is a catalog entry in API-friendly format. Price is in minor units.
type Product struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Barcode   string         `json:"barcode,omitempty"`
	Price     discount.Money `json:"price"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Store abstracts product persistence.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (Product, error)
	List(ctx context.Context, limit, offset int32) ([]Product, int64, error)
	NamesByID(ctx context.Context, ids []string) (map[string]string, error)
}

// PGStore reads products from PostgreSQL.
type PGStore struct {
	Pool *pgxpool.Pool
}

// Get loads one product by id.
func (s PGStore) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	row := s.Pool.QueryRow(ctx,
		"SELECT id, name, barcode, price, created_at, updated_at FROM products WHERE id = $1", id)
	return scanProduct(row)
}

// List returns products ordered by name with the total count.
func (s PGStore) List(ctx context.Context, limit, offset int32) ([]Product, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.Pool.Query(ctx,
		"SELECT id, name, barcode, price, created_at, updated_at FROM products ORDER BY name LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	var total int64
	if err := s.Pool.QueryRow(ctx, "SELECT count(*) FROM products").Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// NamesByID resolves display names for the given product ids. Unknown ids are
// simply absent from the result.
func (s PGStore) NamesByID(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		parsed = append(parsed, id)
	}
	if len(parsed) == 0 {
		return names, nil
	}
	rows, err := s.Pool.Query(ctx, "SELECT id, name FROM products WHERE id = ANY($1)", parsed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   uuid.UUID
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id.String()] = name
	}
	return names, rows.Err()
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p       Product
		id      uuid.UUID
		barcode *string
	)
	if err := row.Scan(&id, &p.Name, &barcode, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	p.ID = id.String()
	if barcode != nil {
		p.Barcode = *barcode
	}
	return p, nil
}

// Service provides read access to the product catalog.
type Service struct {
	Store  Store
	Cache  *Cache
	Logger zerolog.Logger
}

// Get loads one product, consulting the cache first when configured.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	if s == nil || s.Store == nil {
		return Product{}, errors.New("catalog service not configured")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Product{}, ErrNotFound
	}
	var cached Product
	if ok, err := s.Cache.Get(ctx, id, &cached); err != nil {
		s.Logger.Warn().Err(err).Str("product_id", id).Msg("product cache read")
	} else if ok {
		return cached, nil
	}
	p, err := s.Store.Get(ctx, parsed)
	if err != nil {
		return Product{}, err
	}
	if err := s.Cache.Set(ctx, id, p); err != nil {
		s.Logger.Warn().Err(err).Str("product_id", id).Msg("product cache write")
	}
	return p, nil
}

// List returns products with the total count.
func (s *Service) List(ctx context.Context, limit, offset int32) ([]Product, int64, error) {
	if s == nil || s.Store == nil {
		return nil, 0, errors.New("catalog service not configured")
	}
	return s.Store.List(ctx, limit, offset)
}

// ResolverFor builds a static name resolver covering the buy-get target
// products of the given campaign. Lookup failures degrade to product ids
// rather than blocking quote evaluation.
func (s *Service) ResolverFor(ctx context.Context, set *discount.DiscountSet) discount.NameResolver {
	if s == nil || s.Store == nil || set == nil || len(set.BuyGetRules) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(set.BuyGetRules))
	ids := make([]string, 0, len(set.BuyGetRules))
	for _, bg := range set.BuyGetRules {
		if _, dup := seen[bg.GetProductID]; dup || bg.GetProductID == "" {
			continue
		}
		seen[bg.GetProductID] = struct{}{}
		ids = append(ids, bg.GetProductID)
	}
	names, err := s.Store.NamesByID(ctx, ids)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("resolve buy-get product names")
		return nil
	}
	return discount.StaticNames(names)
}
