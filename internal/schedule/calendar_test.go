package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ridexchange/dealer-api/internal/model"
)

func TestCalendarIsOpen(t *testing.T) {
	cal := NewCalendar([]model.WorkingDay{
		{DayOfWeek: model.Monday, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true},
		{DayOfWeek: model.Sunday, OpenTime: "10:00", CloseTime: "16:00", IsOpen: false},
	})

	assert.True(t, cal.IsOpen(model.Monday))
	assert.False(t, cal.IsOpen(model.Sunday), "is_open=false wins over recorded hours")
	assert.False(t, cal.IsOpen(model.Tuesday), "missing record behaves as closed")
}

func TestCalendarHoursFor(t *testing.T) {
	cal := NewCalendar([]model.WorkingDay{
		{DayOfWeek: model.Saturday, OpenTime: "10:00", CloseTime: "16:00", IsOpen: true},
		{DayOfWeek: model.Sunday, OpenTime: "10:00", CloseTime: "16:00", IsOpen: false},
	})

	hours := cal.HoursFor(model.Saturday)
	if assert.NotNil(t, hours) {
		assert.Equal(t, "10:00", hours.Open)
		assert.Equal(t, "16:00", hours.Close)
	}

	assert.Nil(t, cal.HoursFor(model.Sunday))
	assert.Nil(t, cal.HoursFor(model.Wednesday))
}

func TestCalendarLastRecordWins(t *testing.T) {
	cal := NewCalendar([]model.WorkingDay{
		{DayOfWeek: model.Friday, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true},
		{DayOfWeek: model.Friday, OpenTime: "08:00", CloseTime: "14:00", IsOpen: true},
	})

	hours := cal.HoursFor(model.Friday)
	if assert.NotNil(t, hours) {
		assert.Equal(t, "08:00", hours.Open)
	}
}
