package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ridexchange/dealer-api/internal/model"
)

// Slot is a candidate one-hour appointment window. It is a pure value,
// generated fresh on every query and never persisted; ID is the string the
// client hands back to identify its choice.
type Slot struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Generate computes the bookable hourly slots for one calendar date.
//
// The result is empty for past dates, closed days and zero-length days.
// Candidate slots run on a fixed one-hour grid from the opening hour up to
// (not including) the closing hour. A candidate is dropped when an active
// booking on the same date matches its start or end time exactly; the exact
// match is sufficient because every booking sits on the same hourly grid.
// Generate never fails: invalid inputs degrade to an empty sequence, which
// is a valid "nothing available" answer.
func Generate(date time.Time, cal *Calendar, bookings []model.ServiceBooking) []Slot {
	if BeforeDate(date, time.Now()) {
		return nil
	}

	hours := cal.HoursFor(model.DayOfWeekFrom(date.Weekday()))
	if hours == nil {
		return nil
	}

	openHour, ok := hourOf(hours.Open)
	if !ok {
		return nil
	}
	closeHour, ok := hourOf(hours.Close)
	if !ok {
		return nil
	}

	occupied := make([]model.ServiceBooking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status.Active() && sameDate(b.ServiceDate, date) {
			occupied = append(occupied, b)
		}
	}

	var slots []Slot
	for h := openHour; h < closeHour; h++ {
		start := fmt.Sprintf("%02d:00", h)
		end := fmt.Sprintf("%02d:00", h+1)

		booked := false
		for _, b := range occupied {
			if b.StartTime == start || b.EndTime == end {
				booked = true
				break
			}
		}
		if booked {
			continue
		}

		slots = append(slots, Slot{
			ID:        start + "-" + end,
			Label:     start + " - " + end,
			StartTime: start,
			EndTime:   end,
		})
	}
	return slots
}

// DateOnly truncates t to its calendar date in t's location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// BeforeDate reports whether a's calendar date precedes b's. It compares
// date components rather than instants: a request date parsed as midnight
// UTC and a local-zone "now" must agree on whether today is past.
func BeforeDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

// ValidClockTime reports whether s is a well-formed "HH:MM" time.
func ValidClockTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// hourOf extracts the integer hour component of an "HH:MM" string.
// Minutes are discarded; slots are aligned to the top of the hour.
func hourOf(t string) (int, bool) {
	h, _, found := strings.Cut(t, ":")
	if !found {
		return 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 24 {
		return 0, false
	}
	return hour, true
}
