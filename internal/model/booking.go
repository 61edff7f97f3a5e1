package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusNoShow    BookingStatus = "NO_SHOW"
)

// ActiveStatuses are the statuses that occupy a slot. Completed, cancelled
// and no-show bookings do not block new bookings for the same slot.
var ActiveStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted,
		BookingStatusCancelled, BookingStatusNoShow:
		return true
	}
	return false
}

// Active reports whether a booking with this status occupies its slot.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// Terminal reports whether the status admits no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled || s == BookingStatusNoShow
}

// ServiceBooking is a service-appointment reservation for a one-hour slot.
// StartTime and EndTime are wall-clock times in "HH:MM" form; ServiceDate
// carries the calendar date only.
type ServiceBooking struct {
	ID                 uuid.UUID     `db:"id" json:"id"`
	UserID             *uuid.UUID    `db:"user_id" json:"user_id,omitempty"`
	CustomerName       string        `db:"customer_name" json:"customer_name"`
	CustomerEmail      string        `db:"customer_email" json:"customer_email"`
	CustomerPhone      string        `db:"customer_phone" json:"customer_phone"`
	VehicleMake        string        `db:"vehicle_make" json:"vehicle_make"`
	VehicleModel       string        `db:"vehicle_model" json:"vehicle_model"`
	VehicleYear        int           `db:"vehicle_year" json:"vehicle_year"`
	RegistrationNumber *string       `db:"registration_number" json:"registration_number,omitempty"`
	Mileage            *int          `db:"mileage" json:"mileage,omitempty"`
	ServiceDate        time.Time     `db:"service_date" json:"service_date"`
	StartTime          string        `db:"start_time" json:"start_time"`
	EndTime            string        `db:"end_time" json:"end_time"`
	ServiceType        *string       `db:"service_type" json:"service_type,omitempty"`
	Description        *string       `db:"description" json:"description,omitempty"`
	Notes              *string       `db:"notes" json:"notes,omitempty"`
	Status             BookingStatus `db:"status" json:"status"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at" json:"updated_at"`
}

// BookServiceRequest is the payload for booking a service appointment.
// Guests may book without an account, so there is no user field; the
// handler attaches the caller's identity when a token is present.
type BookServiceRequest struct {
	CustomerName       string  `json:"customer_name" validate:"required,max=200"`
	CustomerEmail      string  `json:"customer_email" validate:"required,email"`
	CustomerPhone      string  `json:"customer_phone" validate:"required,max=30"`
	VehicleMake        string  `json:"vehicle_make" validate:"required,max=100"`
	VehicleModel       string  `json:"vehicle_model" validate:"required,max=100"`
	VehicleYear        int     `json:"vehicle_year" validate:"required,gte=1950,lte=2100"`
	RegistrationNumber *string `json:"registration_number" validate:"omitempty,max=20"`
	Mileage            *int    `json:"mileage" validate:"omitempty,gte=0"`
	ServiceDate        string  `json:"service_date" validate:"required"`
	StartTime          string  `json:"start_time" validate:"required"`
	EndTime            string  `json:"end_time" validate:"required"`
	ServiceType        *string `json:"service_type" validate:"omitempty,max=100"`
	Description        *string `json:"description" validate:"omitempty,max=2000"`
	Notes              *string `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateBookingStatusRequest is the staff payload for a status transition.
type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" validate:"required"`
}

// BookingFilters narrows staff booking listings.
type BookingFilters struct {
	Date   *time.Time
	Status BookingStatus
}
