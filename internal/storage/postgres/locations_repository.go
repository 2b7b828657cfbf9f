package postgres

import (
	"context"
	"fmt"

	"github.com/eventura-app/server/internal/domain/locations"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ locations.Repository = (*LocationRepository)(nil)

type LocationRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *LocationRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

const locationColumns = `id, name, address, city, country, zip_code, latitude, longitude,
       capacity, description, created_at, updated_at`

func scanLocation(row pgx.Row) (*locations.Location, error) {
	var location locations.Location
	if err := row.Scan(
		&location.ID,
		&location.Name,
		&location.Address,
		&location.City,
		&location.Country,
		&location.ZipCode,
		&location.Latitude,
		&location.Longitude,
		&location.Capacity,
		&location.Description,
		&location.CreatedAt,
		&location.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *LocationRepository) collectLocations(ctx context.Context, sql string, args ...any) ([]locations.Location, error) {
	rows, err := r.queryer().Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	items := make([]locations.Location, 0)
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		items = append(items, *location)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", err)
	}
	return items, nil
}

func (r *LocationRepository) Create(ctx context.Context, params locations.CreateParams) (*locations.Location, error) {
	row := r.queryer().QueryRow(ctx, `
INSERT INTO locations (name, address, city, country, zip_code, latitude, longitude, capacity, description)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING `+locationColumns,
		params.Name,
		params.Address,
		params.City,
		params.Country,
		params.ZipCode,
		params.Latitude,
		params.Longitude,
		params.Capacity,
		params.Description,
	)
	location, err := scanLocation(row)
	if err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return location, nil
}

func (r *LocationRepository) GetByID(ctx context.Context, id int64) (*locations.Location, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+locationColumns+` FROM locations WHERE id = $1
`, id)
	location, err := scanLocation(row)
	if err == pgx.ErrNoRows {
		return nil, locations.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}
	return location, nil
}

func (r *LocationRepository) ListAll(ctx context.Context) ([]locations.Location, error) {
	return r.collectLocations(ctx, `
SELECT `+locationColumns+` FROM locations ORDER BY name ASC
`)
}

func (r *LocationRepository) ListByCity(ctx context.Context, city string) ([]locations.Location, error) {
	return r.collectLocations(ctx, `
SELECT `+locationColumns+` FROM locations WHERE city = $1 ORDER BY name ASC
`, city)
}

func (r *LocationRepository) ListByCountry(ctx context.Context, country string) ([]locations.Location, error) {
	return r.collectLocations(ctx, `
SELECT `+locationColumns+` FROM locations WHERE country = $1 ORDER BY name ASC
`, country)
}

func (r *LocationRepository) ListByMinCapacity(ctx context.Context, capacity int) ([]locations.Location, error) {
	return r.collectLocations(ctx, `
SELECT `+locationColumns+` FROM locations WHERE capacity >= $1 ORDER BY capacity ASC
`, capacity)
}

func (r *LocationRepository) ListByName(ctx context.Context, fragment string) ([]locations.Location, error) {
	return r.collectLocations(ctx, `
SELECT `+locationColumns+` FROM locations WHERE name ILIKE $1 ORDER BY name ASC
`, containsPattern(fragment))
}
