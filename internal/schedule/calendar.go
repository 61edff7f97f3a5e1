// Package schedule holds the working-hours calendar and the slot generator
// for service appointments. Everything in this package is pure computation;
// callers fetch the schedule and the bookings snapshot before calling in.
package schedule

import (
	"github.com/ridexchange/dealer-api/internal/model"
)

// Hours is the open interval of a working day, "HH:MM" wall-clock times.
type Hours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Calendar answers open/closed questions for a single service location.
// A day with no record behaves exactly like a day marked closed.
type Calendar struct {
	days map[model.DayOfWeek]model.WorkingDay
}

// NewCalendar builds a calendar from the location's WorkingDay rows.
// Duplicate days keep the last record seen.
func NewCalendar(days []model.WorkingDay) *Calendar {
	c := &Calendar{days: make(map[model.DayOfWeek]model.WorkingDay, len(days))}
	for _, d := range days {
		c.days[d.DayOfWeek] = d
	}
	return c
}

// IsOpen reports whether the location is open on the given day.
func (c *Calendar) IsOpen(day model.DayOfWeek) bool {
	d, ok := c.days[day]
	return ok && d.IsOpen
}

// HoursFor returns the opening hours for the given day, or nil when closed.
func (c *Calendar) HoursFor(day model.DayOfWeek) *Hours {
	d, ok := c.days[day]
	if !ok || !d.IsOpen {
		return nil
	}
	return &Hours{Open: d.OpenTime, Close: d.CloseTime}
}
