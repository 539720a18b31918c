package analytics

import (
	"time"

	"prodpulse/pkg/contracts/domain"
)

// timeKeyed is satisfied by both record types; it exposes the date fields
// the filter policy needs.
type timeKeyed interface {
	RecordDate() time.Time
	RecordYear() int
	RecordMonthName() string
}

// Filter reduces records to the subset matching the criteria.
//
// A complete date range takes priority and the year/month selections are
// ignored entirely; otherwise years restrict first and month names restrict
// the remainder. An empty result is a valid no-data outcome, not an error.
func Filter[T timeKeyed](records []T, c domain.FilterCriteria) []T {
	if c.IsZero() {
		out := make([]T, len(records))
		copy(out, records)
		return out
	}

	if c.HasDateRange() {
		return filterByDateRange(records, *c.DateFrom, *c.DateTo)
	}

	out := make([]T, 0, len(records))
	years := intSet(c.Years)
	months := stringSet(c.Months)
	for _, r := range records {
		if len(years) > 0 {
			if _, ok := years[r.RecordYear()]; !ok {
				continue
			}
		}
		if len(months) > 0 {
			if _, ok := months[r.RecordMonthName()]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// filterByDateRange keeps records whose date falls in [from, to] inclusive.
// Comparison is at day granularity; time-of-day components are truncated.
func filterByDateRange[T timeKeyed](records []T, from, to time.Time) []T {
	from = truncateToDay(from)
	to = truncateToDay(to)
	out := make([]T, 0, len(records))
	for _, r := range records {
		d := truncateToDay(r.RecordDate())
		if d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func intSet(values []int) map[int]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[int]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func stringSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
