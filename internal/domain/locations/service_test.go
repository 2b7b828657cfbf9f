package locations

import (
	"context"
	"strings"
	"testing"

	"github.com/eventura-app/server/internal/domain/faults"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	nextID    int64
	locations map[int64]*Location
	lastCall  string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{locations: map[int64]*Location{}}
}

func (f *fakeRepo) Create(_ context.Context, params CreateParams) (*Location, error) {
	f.nextID++
	location := &Location{ID: f.nextID, Name: params.Name, City: params.City, Country: params.Country, Capacity: params.Capacity}
	f.locations[location.ID] = location
	return location, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Location, error) {
	if location, ok := f.locations[id]; ok {
		copied := *location
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) ListAll(_ context.Context) ([]Location, error) {
	f.lastCall = "all"
	return nil, nil
}

func (f *fakeRepo) ListByCity(_ context.Context, city string) ([]Location, error) {
	f.lastCall = "city:" + city
	return nil, nil
}

func (f *fakeRepo) ListByCountry(_ context.Context, country string) ([]Location, error) {
	f.lastCall = "country:" + country
	return nil, nil
}

func (f *fakeRepo) ListByMinCapacity(_ context.Context, capacity int) ([]Location, error) {
	f.lastCall = "capacity"
	return nil, nil
}

func (f *fakeRepo) ListByName(_ context.Context, fragment string) ([]Location, error) {
	f.lastCall = "name:" + fragment
	return nil, nil
}

func TestCreateValidation(t *testing.T) {
	service := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := service.Create(ctx, CreateParams{Name: "  "})
	require.ErrorContains(t, err, "name is required")

	_, err = service.Create(ctx, CreateParams{Name: "Hall", Capacity: -1})
	require.ErrorContains(t, err, "capacity")

	location, err := service.Create(ctx, CreateParams{Name: "  City Hall ", Capacity: 300})
	require.NoError(t, err)
	require.Equal(t, "City Hall", location.Name)
}

func TestGetAbsentIsNotFoundFault(t *testing.T) {
	service := NewService(newFakeRepo())

	_, err := service.Get(context.Background(), 12)
	require.Equal(t, faults.KindNotFound, faults.KindOf(err))
	require.Equal(t, "Location 12 not found", err.Error())
}

func TestListPicksMostSpecificFilter(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)
	ctx := context.Background()

	_, err := service.List(ctx, Filters{})
	require.NoError(t, err)
	require.Equal(t, "all", repo.lastCall)

	_, err = service.List(ctx, Filters{City: "Sofia", Country: "Bulgaria"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(repo.lastCall, "city:"))

	_, err = service.List(ctx, Filters{Name: "Arena", City: "Sofia"})
	require.NoError(t, err)
	require.Equal(t, "name:Arena", repo.lastCall)

	_, err = service.List(ctx, Filters{MinCapacity: 100})
	require.NoError(t, err)
	require.Equal(t, "capacity", repo.lastCall)
}
