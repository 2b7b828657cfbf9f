package locations

import (
	"context"
	"fmt"
	"strings"

	"github.com/eventura-app/server/internal/domain/faults"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Location, error) {
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return nil, fmt.Errorf("location name is required")
	}
	if params.Capacity < 0 {
		return nil, fmt.Errorf("location capacity must not be negative")
	}
	return s.repo.Create(ctx, params)
}

func (s *Service) Get(ctx context.Context, id int64) (*Location, error) {
	location, err := s.repo.GetByID(ctx, id)
	if err == ErrNotFound {
		return nil, faults.NotFoundf("Location %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return location, nil
}

// Filters narrows the location list; zero values mean "no constraint".
type Filters struct {
	City        string
	Country     string
	MinCapacity int
	Name        string
}

// List applies at most one filter, preferring the most specific. The
// original UI only ever sends one at a time.
func (s *Service) List(ctx context.Context, filters Filters) ([]Location, error) {
	switch {
	case filters.Name != "":
		return s.repo.ListByName(ctx, filters.Name)
	case filters.City != "":
		return s.repo.ListByCity(ctx, filters.City)
	case filters.Country != "":
		return s.repo.ListByCountry(ctx, filters.Country)
	case filters.MinCapacity > 0:
		return s.repo.ListByMinCapacity(ctx, filters.MinCapacity)
	default:
		return s.repo.ListAll(ctx)
	}
}
