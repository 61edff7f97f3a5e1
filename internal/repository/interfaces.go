package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ridexchange/dealer-api/internal/model"
)

// ErrSlotTaken is returned by CreateIfSlotFree when an active booking
// already holds the requested (service_date, start_time) pair.
var ErrSlotTaken = errors.New("slot already booked")

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrStatusFinal is returned by UpdateStatus when the booking already
// reached a terminal status and can no longer transition.
var ErrStatusFinal = errors.New("booking status is final")

// All repository interfaces in one file
type (
	// BookingRepository handles service-booking persistence.
	BookingRepository interface {
		// CreateIfSlotFree inserts the booking only if no active booking
		// exists for the same date and start time. The check and insert run
		// in one transaction; concurrent callers for the same slot see at
		// most one success, the rest get ErrSlotTaken.
		CreateIfSlotFree(ctx context.Context, booking *model.ServiceBooking) error
		Get(ctx context.Context, id uuid.UUID) (*model.ServiceBooking, error)
		List(ctx context.Context, filters *model.BookingFilters) ([]*model.ServiceBooking, error)
		ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.ServiceBooking, error)
		// ListActiveByDate returns PENDING/CONFIRMED bookings for one date.
		ListActiveByDate(ctx context.Context, date time.Time) ([]*model.ServiceBooking, error)
		// UpdateStatus transitions a non-terminal booking; ErrStatusFinal
		// when the booking already reached a terminal status.
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error
	}

	// DealershipRepository handles the service location and its schedule.
	DealershipRepository interface {
		Get(ctx context.Context) (*model.DealershipInfo, error)
		CountWorkingDays(ctx context.Context) (int, error)
		// SeedDefault creates the dealership with its default weekly
		// schedule and returns it. One-time bootstrap.
		SeedDefault(ctx context.Context) (*model.DealershipInfo, error)
	}

	// AuditRepository appends audit trail entries.
	AuditRepository interface {
		Create(ctx context.Context, entry *model.AuditLog) error
	}
)
