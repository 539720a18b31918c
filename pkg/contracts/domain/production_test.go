package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewMachineRecordDerivesDateParts(t *testing.T) {
	r := NewMachineRecord(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		"2", 900, 60, 50, 8)

	assert.Equal(t, 2024, r.Year)
	assert.Equal(t, 3, r.Month)
	assert.Equal(t, "March", r.MonthName)
	assert.Equal(t, 9, r.ISOWeek)
}

func TestISOWeekYearBoundary(t *testing.T) {
	// December 30th 2024 belongs to ISO week 1 of 2025.
	r := NewMachineRecord(time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC),
		"1", 800, 90, 100, 10)

	assert.Equal(t, 2024, r.Year)
	assert.Equal(t, 1, r.ISOWeek)
}

func TestNewOperatorRecordDerivesDateParts(t *testing.T) {
	r := NewOperatorRecord(time.Date(2023, time.July, 10, 0, 0, 0, 0, time.UTC),
		"Alice", "1", ShiftDay, 10)

	assert.Equal(t, 2023, r.Year)
	assert.Equal(t, "July", r.MonthName)
	assert.Equal(t, ShiftDay, r.Shift)
}

func TestFilterCriteriaHelpers(t *testing.T) {
	assert.True(t, FilterCriteria{}.IsZero())

	from := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

	c := FilterCriteria{DateFrom: &from}
	assert.False(t, c.HasDateRange())
	assert.False(t, c.IsZero())

	c.DateTo = &to
	assert.True(t, c.HasDateRange())
}
