package locations

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("location not found")

// Location is immutable reference data for events.
type Location struct {
	ID          int64
	Name        string
	Address     string
	City        string
	Country     string
	ZipCode     string
	Latitude    *float64
	Longitude   *float64
	Capacity    int
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateParams struct {
	Name        string
	Address     string
	City        string
	Country     string
	ZipCode     string
	Latitude    *float64
	Longitude   *float64
	Capacity    int
	Description string
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Location, error)
	GetByID(ctx context.Context, id int64) (*Location, error)
	ListAll(ctx context.Context) ([]Location, error)
	ListByCity(ctx context.Context, city string) ([]Location, error)
	ListByCountry(ctx context.Context, country string) ([]Location, error)
	// ListByMinCapacity returns locations with capacity >= the threshold.
	ListByMinCapacity(ctx context.Context, capacity int) ([]Location, error)
	// ListByName matches the fragment as a substring of the name, with LIKE
	// metacharacters escaped.
	ListByName(ctx context.Context, fragment string) ([]Location, error)
}
