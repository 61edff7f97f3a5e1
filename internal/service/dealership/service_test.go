package dealership

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridexchange/dealer-api/internal/model"
	"github.com/ridexchange/dealer-api/internal/repository"
)

type fakeRepo struct {
	dealership *model.DealershipInfo
	getCalls   int
	seedCalls  int
}

func (f *fakeRepo) Get(ctx context.Context) (*model.DealershipInfo, error) {
	f.getCalls++
	if f.dealership == nil {
		return nil, repository.ErrNotFound
	}
	return f.dealership, nil
}

func (f *fakeRepo) CountWorkingDays(ctx context.Context) (int, error) {
	if f.dealership == nil {
		return 0, nil
	}
	return len(f.dealership.WorkingHours), nil
}

func (f *fakeRepo) SeedDefault(ctx context.Context) (*model.DealershipInfo, error) {
	f.seedCalls++
	f.dealership = &model.DealershipInfo{
		ID:   uuid.New(),
		Name: "Test Motors",
		WorkingHours: []model.WorkingDay{
			{DayOfWeek: model.Monday, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true},
			{DayOfWeek: model.Sunday, OpenTime: "10:00", CloseTime: "16:00", IsOpen: false},
		},
	}
	return f.dealership, nil
}

func TestGetDealershipSeedsOnFirstUse(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, time.Minute)

	info, err := svc.GetDealership(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, repo.seedCalls)
	assert.NotEmpty(t, info.WorkingHours)
}

func TestGetDealershipCachesResult(t *testing.T) {
	repo := &fakeRepo{}
	_, err := repo.SeedDefault(context.Background())
	require.NoError(t, err)
	repo.seedCalls = 0

	svc := NewService(repo, time.Minute)

	for i := 0; i < 5; i++ {
		_, err := svc.GetDealership(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 1, repo.getCalls, "repeated reads must hit the cache")
	assert.Zero(t, repo.seedCalls)
}

func TestCalendarReflectsSchedule(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, time.Minute)

	cal, err := svc.Calendar(context.Background())

	require.NoError(t, err)
	assert.True(t, cal.IsOpen(model.Monday))
	assert.False(t, cal.IsOpen(model.Sunday))
}

func TestEnsureSeededIsIdempotent(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, time.Minute)

	require.NoError(t, svc.EnsureSeeded(context.Background()))
	require.NoError(t, svc.EnsureSeeded(context.Background()))

	assert.Equal(t, 1, repo.seedCalls)
}
