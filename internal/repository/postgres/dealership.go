package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ridexchange/dealer-api/internal/model"
	"github.com/ridexchange/dealer-api/internal/repository"
)

// defaultWorkingWeek is the schedule seeded for a fresh installation.
var defaultWorkingWeek = []model.WorkingDay{
	{DayOfWeek: model.Monday, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true},
	{DayOfWeek: model.Tuesday, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true},
	{DayOfWeek: model.Wednesday, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true},
	{DayOfWeek: model.Thursday, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true},
	{DayOfWeek: model.Friday, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true},
	{DayOfWeek: model.Saturday, OpenTime: "10:00", CloseTime: "16:00", IsOpen: true},
	{DayOfWeek: model.Sunday, OpenTime: "10:00", CloseTime: "16:00", IsOpen: false},
}

func (r *dealershipRepository) Get(ctx context.Context) (_ *model.DealershipInfo, err error) {
	done := r.track("get_dealership")
	defer func() { done(err) }()

	query := `
		SELECT id, name, address, phone, email, created_at, updated_at
		FROM dealership_info
		ORDER BY created_at ASC
		LIMIT 1
	`
	var dealership model.DealershipInfo
	err = r.db.GetContext(ctx, &dealership, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dealership: %w", err)
	}

	hoursQuery := `
		SELECT id, dealership_id, day_of_week, open_time, close_time, is_open, created_at, updated_at
		FROM working_hours
		WHERE dealership_id = $1
		ORDER BY array_position(
			ARRAY['MONDAY','TUESDAY','WEDNESDAY','THURSDAY','FRIDAY','SATURDAY','SUNDAY'],
			day_of_week
		)
	`
	err = r.db.SelectContext(ctx, &dealership.WorkingHours, hoursQuery, dealership.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get working hours: %w", err)
	}
	return &dealership, nil
}

func (r *dealershipRepository) CountWorkingDays(ctx context.Context) (_ int, err error) {
	done := r.track("count_working_days")
	defer func() { done(err) }()

	var count int
	err = r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM working_hours`)
	if err != nil {
		return 0, fmt.Errorf("failed to count working days: %w", err)
	}
	return count, nil
}

// SeedDefault creates the dealership record and its default weekly schedule
// in one transaction so a half-seeded calendar can never be observed.
func (r *dealershipRepository) SeedDefault(ctx context.Context) (_ *model.DealershipInfo, err error) {
	done := r.track("seed_dealership")
	defer func() { done(err) }()

	now := time.Now()
	dealership := &model.DealershipInfo{
		ID:        uuid.New(),
		Name:      "rideXchange Motors",
		Address:   "69 Car Street, Autoville, CA 69420",
		Phone:     "+1 (555) 123-4567",
		Email:     "service@ridexchange.com",
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = r.WithTx(ctx, func(tx *sqlx.Tx) error {
		insertDealership := `
			INSERT INTO dealership_info (id, name, address, phone, email, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err := tx.ExecContext(ctx, insertDealership,
			dealership.ID,
			dealership.Name,
			dealership.Address,
			dealership.Phone,
			dealership.Email,
			dealership.CreatedAt,
			dealership.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create dealership: %w", err)
		}

		insertDay := `
			INSERT INTO working_hours (id, dealership_id, day_of_week, open_time, close_time, is_open, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		for _, day := range defaultWorkingWeek {
			wd := day
			wd.ID = uuid.New()
			wd.DealershipID = dealership.ID
			wd.CreatedAt = now
			wd.UpdatedAt = now

			_, err := tx.ExecContext(ctx, insertDay,
				wd.ID,
				wd.DealershipID,
				wd.DayOfWeek,
				wd.OpenTime,
				wd.CloseTime,
				wd.IsOpen,
				wd.CreatedAt,
				wd.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to create working day %s: %w", wd.DayOfWeek, err)
			}
			dealership.WorkingHours = append(dealership.WorkingHours, wd)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dealership, nil
}
