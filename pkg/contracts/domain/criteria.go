package domain

import (
	"time"
)

// FilterCriteria is the time selection applied to a dataset before any
// aggregation. It is passed by value into every engine call; consumers never
// share mutable filter state.
//
// Resolution order when fields conflict:
//  1. a complete date range (both endpoints set) wins and the year/month
//     selections are ignored entirely,
//  2. otherwise the year set restricts first,
//  3. then the month-name set restricts the remainder.
//
// An empty criteria value selects everything.
type FilterCriteria struct {
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
	Years    []int      `json:"years,omitempty"`
	Months   []string   `json:"months,omitempty"`
}

// HasDateRange reports whether both range endpoints are set. A half-open
// range is treated as no range at all, matching the original dashboard
// behavior where an in-progress date picker selection is ignored.
func (c FilterCriteria) HasDateRange() bool {
	return c.DateFrom != nil && c.DateTo != nil
}

// IsZero reports whether the criteria selects the full dataset.
func (c FilterCriteria) IsZero() bool {
	return !c.HasDateRange() && len(c.Years) == 0 && len(c.Months) == 0
}
