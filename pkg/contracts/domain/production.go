package domain

import (
	"time"
)

// MachineRecord is a single per-machine production reading for one day.
// The derived date parts are computed once at construction and are read-only
// afterwards; every engine operation treats the record as immutable.
type MachineRecord struct {
	Date          time.Time `json:"date"`
	MachineID     string    `json:"machine_id" validate:"required"`
	RPM           float64   `json:"rpm" validate:"min=0"`
	ActualCounter float64   `json:"actual_counter" validate:"min=0"`
	RatedCounter  float64   `json:"rated_counter" validate:"min=0"`
	Production    int64     `json:"production" validate:"min=0"`

	// Derived from Date at construction.
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	ISOWeek   int    `json:"iso_week"`
}

// NewMachineRecord builds a machine record and derives its date parts.
func NewMachineRecord(date time.Time, machineID string, rpm, actual, rated float64, production int64) MachineRecord {
	r := MachineRecord{
		Date:          date,
		MachineID:     machineID,
		RPM:           rpm,
		ActualCounter: actual,
		RatedCounter:  rated,
		Production:    production,
	}
	r.Year, r.Month, r.MonthName, r.ISOWeek = deriveDateParts(date)
	return r
}

// Shift identifies the working shift of an operator record.
type Shift string

const (
	ShiftDay   Shift = "Day"
	ShiftNight Shift = "Night"
)

// OperatorRecord is a single per-operator shift record for one day.
type OperatorRecord struct {
	Date         time.Time `json:"date"`
	OperatorName string    `json:"operator_name" validate:"required"`
	MachineID    string    `json:"machine_id" validate:"required"`
	Shift        Shift     `json:"shift" validate:"oneof=Day Night"`
	Production   int64     `json:"production" validate:"min=0"`

	// Derived from Date at construction.
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	ISOWeek   int    `json:"iso_week"`
}

// NewOperatorRecord builds an operator record and derives its date parts.
func NewOperatorRecord(date time.Time, operatorName, machineID string, shift Shift, production int64) OperatorRecord {
	r := OperatorRecord{
		Date:         date,
		OperatorName: operatorName,
		MachineID:    machineID,
		Shift:        shift,
		Production:   production,
	}
	r.Year, r.Month, r.MonthName, r.ISOWeek = deriveDateParts(date)
	return r
}

// deriveDateParts computes the read-only calendar parts for a record date.
// The week number is the ISO 8601 week; the year stays the calendar year so
// that year filters and period grouping agree with the rest of the system.
func deriveDateParts(date time.Time) (year, month int, monthName string, isoWeek int) {
	year = date.Year()
	month = int(date.Month())
	monthName = date.Month().String()
	_, isoWeek = date.ISOWeek()
	return year, month, monthName, isoWeek
}

// RecordDate returns the calendar date of the reading.
func (r MachineRecord) RecordDate() time.Time { return r.Date }

// RecordYear returns the derived calendar year.
func (r MachineRecord) RecordYear() int { return r.Year }

// RecordMonthName returns the derived English month name.
func (r MachineRecord) RecordMonthName() string { return r.MonthName }

// RecordDate returns the calendar date of the shift record.
func (r OperatorRecord) RecordDate() time.Time { return r.Date }

// RecordYear returns the derived calendar year.
func (r OperatorRecord) RecordYear() int { return r.Year }

// RecordMonthName returns the derived English month name.
func (r OperatorRecord) RecordMonthName() string { return r.MonthName }
