package model

import (
	"time"

	"github.com/google/uuid"
)

type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

// Week lists the days in display order, Monday first.
var Week = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// DayOfWeekFrom converts a time.Weekday to the wire representation.
func DayOfWeekFrom(wd time.Weekday) DayOfWeek {
	switch wd {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// WorkingDay is one row of the dealership's weekly schedule. OpenTime and
// CloseTime are "HH:MM"; both are meaningless when IsOpen is false.
type WorkingDay struct {
	ID           uuid.UUID `db:"id" json:"id"`
	DealershipID uuid.UUID `db:"dealership_id" json:"dealership_id"`
	DayOfWeek    DayOfWeek `db:"day_of_week" json:"day_of_week"`
	OpenTime     string    `db:"open_time" json:"open_time"`
	CloseTime    string    `db:"close_time" json:"close_time"`
	IsOpen       bool      `db:"is_open" json:"is_open"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// DealershipInfo is the single service location with its weekly schedule.
type DealershipInfo struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	Address      string       `db:"address" json:"address"`
	Phone        string       `db:"phone" json:"phone"`
	Email        string       `db:"email" json:"email"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
	WorkingHours []WorkingDay `db:"-" json:"working_hours"`
}
