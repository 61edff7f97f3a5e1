package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/ridexchange/dealer-api/internal/email"
	"github.com/ridexchange/dealer-api/internal/model"
	"github.com/ridexchange/dealer-api/internal/repository"
	"github.com/ridexchange/dealer-api/internal/schedule"
	"github.com/ridexchange/dealer-api/internal/service/audit"
	"github.com/ridexchange/dealer-api/internal/service/dealership"
	apperrors "github.com/ridexchange/dealer-api/pkg/errors"
	"github.com/ridexchange/dealer-api/pkg/metrics"
	"github.com/ridexchange/dealer-api/pkg/validator"
)

const (
	dateLayout       = "2006-01-02"
	availabilityTTL  = 60 * time.Second
	emailSendTimeout = 15 * time.Second
)

// Service is the booking arbiter: it computes availability and commits
// bookings with an atomic conflict check. The repository's transaction is
// the sole serialization point; the service keeps no mutable state of its
// own, so multiple processes can run it concurrently.
type Service struct {
	repo          repository.BookingRepository
	dealershipSvc *dealership.Service
	cache         *redis.Client
	mailer        email.Service
	auditor       *audit.Service
	validate      *validator.Validator
	metrics       *metrics.Metrics
}

// NewService creates the booking service. cache may be nil, in which case
// availability is computed on every request.
func NewService(
	repo repository.BookingRepository,
	dealershipSvc *dealership.Service,
	cache *redis.Client,
	mailer email.Service,
	auditor *audit.Service,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:          repo,
		dealershipSvc: dealershipSvc,
		cache:         cache,
		mailer:        mailer,
		auditor:       auditor,
		validate:      validator.New(),
		metrics:       m,
	}
}

// GetAvailability returns the free hourly slots for a date. The result is
// cached briefly per date; the cache is invalidated whenever a booking for
// that date is created or changes status.
func (s *Service) GetAvailability(ctx context.Context, date time.Time) ([]schedule.Slot, error) {
	date = schedule.DateOnly(date)
	key := availabilityKey(date)

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var slots []schedule.Slot
			if err := json.Unmarshal(data, &slots); err == nil {
				s.metrics.CacheHits.Inc()
				return slots, nil
			}
		}
	}
	s.metrics.CacheMisses.Inc()

	cal, err := s.dealershipSvc.Calendar(ctx)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}

	bookings, err := s.repo.ListActiveByDate(ctx, date)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}

	snapshot := make([]model.ServiceBooking, 0, len(bookings))
	for _, b := range bookings {
		snapshot = append(snapshot, *b)
	}

	slots := schedule.Generate(date, cal, snapshot)
	s.metrics.SlotsReturned.Observe(float64(len(slots)))

	if s.cache != nil {
		if data, err := json.Marshal(slots); err == nil {
			if err := s.cache.Set(ctx, key, data, availabilityTTL).Err(); err != nil {
				log.Debug().Err(err).Str("key", key).Msg("availability cache write failed")
			}
		}
	}
	return slots, nil
}

// BookService validates the request and commits the booking atomically.
// Exactly one of two concurrent calls for the same slot succeeds; the
// loser gets a conflict error and must pick another slot.
func (s *Service) BookService(ctx context.Context, req *model.BookServiceRequest, userID *uuid.UUID) (*model.ServiceBooking, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, apperrors.NewValidation(err.Error(), err)
	}

	serviceDate, err := time.Parse(dateLayout, req.ServiceDate)
	if err != nil {
		return nil, apperrors.NewValidation("service_date must be formatted as YYYY-MM-DD", err)
	}
	if schedule.BeforeDate(serviceDate, time.Now()) {
		return nil, apperrors.NewValidation("service_date cannot be in the past", nil)
	}
	if !schedule.ValidClockTime(req.StartTime) {
		return nil, apperrors.NewValidation("start_time must be formatted as HH:MM", nil)
	}
	if !schedule.ValidClockTime(req.EndTime) {
		return nil, apperrors.NewValidation("end_time must be formatted as HH:MM", nil)
	}
	if req.StartTime >= req.EndTime {
		return nil, apperrors.NewValidation("start_time must be before end_time", nil)
	}

	booking := &model.ServiceBooking{
		UserID:             userID,
		CustomerName:       req.CustomerName,
		CustomerEmail:      req.CustomerEmail,
		CustomerPhone:      req.CustomerPhone,
		VehicleMake:        req.VehicleMake,
		VehicleModel:       req.VehicleModel,
		VehicleYear:        req.VehicleYear,
		RegistrationNumber: req.RegistrationNumber,
		Mileage:            req.Mileage,
		ServiceDate:        serviceDate,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		ServiceType:        req.ServiceType,
		Description:        req.Description,
		Notes:              req.Notes,
	}

	if err := s.repo.CreateIfSlotFree(ctx, booking); err != nil {
		if err == repository.ErrSlotTaken {
			s.metrics.BookingConflicts.Inc()
			return nil, apperrors.NewConflict("this time slot is already booked, please select another time", err)
		}
		return nil, apperrors.NewUnavailable(err)
	}

	s.metrics.BookingsCreated.Inc()
	s.invalidateAvailability(ctx, serviceDate)

	s.auditor.Log(ctx, "create", "service_booking", booking.ID, userID, model.JSONMap{
		"service_date": booking.ServiceDate.Format(dateLayout),
		"start_time":   booking.StartTime,
		"status":       booking.Status,
	})

	go s.sendConfirmation(booking)

	return booking, nil
}

// GetBooking returns one booking by id.
func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (*model.ServiceBooking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NewNotFound("booking", err)
	}
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	return booking, nil
}

// ListBookings returns bookings for staff, optionally filtered.
func (s *Service) ListBookings(ctx context.Context, filters *model.BookingFilters) ([]*model.ServiceBooking, error) {
	bookings, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	return bookings, nil
}

// ListUserBookings returns the caller's bookings, most recent service date
// first.
func (s *Service) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]*model.ServiceBooking, error) {
	bookings, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	return bookings, nil
}

// UpdateStatus transitions a booking's status. Terminal statuses cannot be
// transitioned out of.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus, actorID *uuid.UUID) (*model.ServiceBooking, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidation(fmt.Sprintf("unknown status %q", status), nil)
	}

	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == status {
		return booking, nil
	}
	if booking.Status.Terminal() {
		return nil, apperrors.NewConflict(
			fmt.Sprintf("booking is already %s and cannot change status", booking.Status), nil)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		// The repository re-checks terminality inside the UPDATE, so a
		// transition racing this one cannot slip past a final status.
		if err == repository.ErrStatusFinal {
			return nil, apperrors.NewConflict("booking has reached a final status and cannot change", err)
		}
		if err == repository.ErrNotFound {
			return nil, apperrors.NewNotFound("booking", err)
		}
		return nil, apperrors.NewUnavailable(err)
	}

	s.metrics.StatusChanges.WithLabelValues(string(status)).Inc()
	s.invalidateAvailability(ctx, booking.ServiceDate)

	s.auditor.Log(ctx, "status_change", "service_booking", booking.ID, actorID, model.JSONMap{
		"from": booking.Status,
		"to":   status,
	})

	booking.Status = status
	return booking, nil
}

// sendConfirmation runs after commit; a failed email never fails a booking.
func (s *Service) sendConfirmation(booking *model.ServiceBooking) {
	ctx, cancel := context.WithTimeout(context.Background(), emailSendTimeout)
	defer cancel()

	if err := s.mailer.SendBookingConfirmation(ctx, booking); err != nil {
		log.Error().
			Err(err).
			Str("booking_id", booking.ID.String()).
			Msg("failed to send booking confirmation")
	}
}

func (s *Service) invalidateAvailability(ctx context.Context, date time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, availabilityKey(schedule.DateOnly(date))).Err(); err != nil {
		log.Debug().Err(err).Msg("availability cache invalidation failed")
	}
}

func availabilityKey(date time.Time) string {
	return "availability:" + date.Format(dateLayout)
}
