package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ridexchange/dealer-api/internal/model"
	"github.com/ridexchange/dealer-api/internal/repository"
)

const bookingColumns = `
	id, user_id, customer_name, customer_email, customer_phone,
	vehicle_make, vehicle_model, vehicle_year, registration_number, mileage,
	service_date, start_time, end_time, service_type, description, notes,
	status, created_at, updated_at
`

// CreateIfSlotFree performs the conflict check and insert as one atomic
// unit. The SELECT ... FOR UPDATE serializes concurrent bookings for the
// same slot; the partial unique index on active bookings backstops it, and
// a unique violation maps to the same ErrSlotTaken.
func (r *bookingRepository) CreateIfSlotFree(ctx context.Context, booking *model.ServiceBooking) (err error) {
	done := r.track("create_booking")
	defer func() { done(err) }()

	booking.ID = uuid.New()
	booking.Status = model.BookingStatusPending
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	err = r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var existingID uuid.UUID
		checkQuery := `
			SELECT id FROM service_bookings
			WHERE service_date = $1
			AND start_time = $2
			AND status IN ('PENDING', 'CONFIRMED')
			FOR UPDATE
			LIMIT 1
		`
		err := tx.GetContext(ctx, &existingID, checkQuery, booking.ServiceDate, booking.StartTime)
		if err == nil {
			return repository.ErrSlotTaken
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check slot: %w", err)
		}

		insertQuery := `
			INSERT INTO service_bookings (` + bookingColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		`
		_, err = tx.ExecContext(ctx, insertQuery,
			booking.ID,
			booking.UserID,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.CustomerPhone,
			booking.VehicleMake,
			booking.VehicleModel,
			booking.VehicleYear,
			booking.RegistrationNumber,
			booking.Mileage,
			booking.ServiceDate,
			booking.StartTime,
			booking.EndTime,
			booking.ServiceType,
			booking.Description,
			booking.Notes,
			booking.Status,
			booking.CreatedAt,
			booking.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			err = repository.ErrSlotTaken
		}
		return err
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (_ *model.ServiceBooking, err error) {
	done := r.track("get_booking")
	defer func() { done(err) }()

	query := `SELECT ` + bookingColumns + ` FROM service_bookings WHERE id = $1`

	var booking model.ServiceBooking
	err = r.db.GetContext(ctx, &booking, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, filters *model.BookingFilters) (_ []*model.ServiceBooking, err error) {
	done := r.track("list_bookings")
	defer func() { done(err) }()

	query := `SELECT ` + bookingColumns + ` FROM service_bookings WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters != nil && filters.Date != nil {
		query += fmt.Sprintf(" AND service_date = $%d", argCount)
		args = append(args, *filters.Date)
		argCount++
	}

	if filters != nil && filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	query += " ORDER BY service_date DESC, start_time ASC"

	var bookings []*model.ServiceBooking
	err = r.db.SelectContext(ctx, &bookings, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) ListForUser(ctx context.Context, userID uuid.UUID) (_ []*model.ServiceBooking, err error) {
	done := r.track("list_user_bookings")
	defer func() { done(err) }()

	query := `
		SELECT ` + bookingColumns + `
		FROM service_bookings
		WHERE user_id = $1
		ORDER BY service_date DESC, start_time ASC
	`
	var bookings []*model.ServiceBooking
	err = r.db.SelectContext(ctx, &bookings, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) ListActiveByDate(ctx context.Context, date time.Time) (_ []*model.ServiceBooking, err error) {
	done := r.track("list_active_bookings")
	defer func() { done(err) }()

	query := `
		SELECT ` + bookingColumns + `
		FROM service_bookings
		WHERE service_date = $1
		AND status IN ('PENDING', 'CONFIRMED')
		ORDER BY start_time ASC
	`
	var bookings []*model.ServiceBooking
	err = r.db.SelectContext(ctx, &bookings, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list active bookings: %w", err)
	}
	return bookings, nil
}

// UpdateStatus transitions a booking that has not already reached a final
// status. The guard inside the UPDATE keeps two concurrent transitions
// from racing one past COMPLETED, CANCELLED or NO_SHOW.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) (err error) {
	done := r.track("update_booking_status")
	defer func() { done(err) }()

	query := `
		UPDATE service_bookings
		SET status = $1, updated_at = $2
		WHERE id = $3
		AND status NOT IN ('COMPLETED', 'CANCELLED', 'NO_SHOW')
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		err = r.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM service_bookings WHERE id = $1)`, id)
		if err != nil {
			return fmt.Errorf("failed to check booking: %w", err)
		}
		if exists {
			return repository.ErrStatusFinal
		}
		return repository.ErrNotFound
	}
	return nil
}
