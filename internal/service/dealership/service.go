package dealership

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/ridexchange/dealer-api/internal/model"
	"github.com/ridexchange/dealer-api/internal/repository"
	"github.com/ridexchange/dealer-api/internal/schedule"
)

const dealershipCacheKey = "dealership"

// Service serves the dealership record and its working-hours calendar.
// The schedule changes rarely, so reads go through a short-lived in-process
// cache instead of hitting the database on every availability query.
type Service struct {
	repo  repository.DealershipRepository
	cache *gocache.Cache
}

func NewService(repo repository.DealershipRepository, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, 2*cacheTTL),
	}
}

// GetDealership returns the service location with its weekly schedule,
// seeding the default record on first use.
func (s *Service) GetDealership(ctx context.Context) (*model.DealershipInfo, error) {
	if cached, ok := s.cache.Get(dealershipCacheKey); ok {
		return cached.(*model.DealershipInfo), nil
	}

	dealership, err := s.repo.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		dealership, err = s.repo.SeedDefault(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to seed dealership: %w", err)
		}
		log.Info().Str("dealership_id", dealership.ID.String()).Msg("seeded default dealership")
	} else if err != nil {
		return nil, err
	}

	for _, day := range dealership.WorkingHours {
		if day.IsOpen && day.OpenTime >= day.CloseTime {
			log.Warn().
				Str("day", string(day.DayOfWeek)).
				Str("open", day.OpenTime).
				Str("close", day.CloseTime).
				Msg("working day has inverted hours; it will yield no slots")
		}
	}

	s.cache.Set(dealershipCacheKey, dealership, gocache.DefaultExpiration)
	return dealership, nil
}

// Calendar returns the working-hours calendar used by the slot generator.
func (s *Service) Calendar(ctx context.Context) (*schedule.Calendar, error) {
	dealership, err := s.GetDealership(ctx)
	if err != nil {
		return nil, err
	}
	return schedule.NewCalendar(dealership.WorkingHours), nil
}

// EnsureSeeded makes sure a complete weekly schedule exists. Called once
// at startup so the first availability query never races the bootstrap.
func (s *Service) EnsureSeeded(ctx context.Context) error {
	count, err := s.repo.CountWorkingDays(ctx)
	if err != nil {
		return fmt.Errorf("failed to count working days: %w", err)
	}
	if count > 0 {
		return nil
	}

	dealership, err := s.repo.SeedDefault(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed dealership: %w", err)
	}
	log.Info().Str("dealership_id", dealership.ID.String()).Msg("seeded default dealership")
	return nil
}
