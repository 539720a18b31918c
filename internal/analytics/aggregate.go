package analytics

import (
	"fmt"
	"sort"
	"strconv"

	"prodpulse/pkg/contracts/domain"
)

// GroupBy buckets records by the given key. Bucket order is unspecified;
// callers sort the derived rows themselves.
func GroupBy[T any, K comparable](records []T, key func(T) K) map[K][]T {
	groups := make(map[K][]T)
	for _, r := range records {
		k := key(r)
		groups[k] = append(groups[k], r)
	}
	return groups
}

// Sum reduces a group with a numeric field accessor.
func Sum[T any](records []T, field func(T) float64) float64 {
	var total float64
	for _, r := range records {
		total += field(r)
	}
	return total
}

// Mean reduces a group to the arithmetic mean of a numeric field.
// The mean of an empty group is zero.
func Mean[T any](records []T, field func(T) float64) float64 {
	if len(records) == 0 {
		return 0
	}
	return Sum(records, field) / float64(len(records))
}

// UniqueSorted reduces a group to the sorted set of distinct values of a
// string field, ordered by natural machine-id comparison.
func UniqueSorted[T any](records []T, field func(T) string) []string {
	seen := make(map[string]struct{}, len(records))
	var values []string
	for _, r := range records {
		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		return lessMachineID(values[i], values[j])
	})
	return values
}

// lessMachineID orders machine identifiers numerically when both parse as
// integers, falling back to plain string order for non-numeric ids. Keeps
// "2" before "10" on categorical axes.
func lessMachineID(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}

// TopMachinesByEfficiency ranks every machine by the mean of its per-record
// efficiency percentages, descending. Machines whose mean is undefined sort
// below every defined value; equal means order by machine id ascending. The
// caller applies TopN for the requested cut.
func TopMachinesByEfficiency(machines []domain.MachineRecord) []domain.TopMachineRow {
	groups := GroupBy(machines, func(r domain.MachineRecord) string { return r.MachineID })

	rows := make([]domain.TopMachineRow, 0, len(groups))
	for id, recs := range groups {
		rows = append(rows, domain.TopMachineRow{
			MachineID:        id,
			AvgEfficiencyPct: MeanRecordEfficiency(recs),
			TotalProduction:  int64(Sum(recs, func(r domain.MachineRecord) float64 { return float64(r.Production) })),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return lessByMetricDesc(rows[i].AvgEfficiencyPct, rows[j].AvgEfficiencyPct, rows[i].MachineID, rows[j].MachineID)
	})
	return rows
}

// lessByMetricDesc is the shared ranking order: metric descending, undefined
// last, ties broken ascending by name. TopN and BottomN both select from this
// one order so that for n = total they partition the set exactly.
func lessByMetricDesc(a, b domain.Metric, nameA, nameB string) bool {
	av, aok := a.Float64()
	bv, bok := b.Float64()
	switch {
	case aok && bok && av != bv:
		return av > bv
	case aok != bok:
		return aok
	default:
		return lessMachineID(nameA, nameB)
	}
}

// RollsByMachine totals production per machine, ordered by machine id.
func RollsByMachine(machines []domain.MachineRecord) []domain.RollsByMachineRow {
	groups := GroupBy(machines, func(r domain.MachineRecord) string { return r.MachineID })

	rows := make([]domain.RollsByMachineRow, 0, len(groups))
	for id, recs := range groups {
		rows = append(rows, domain.RollsByMachineRow{
			MachineID:       id,
			TotalProduction: int64(Sum(recs, func(r domain.MachineRecord) float64 { return float64(r.Production) })),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return lessMachineID(rows[i].MachineID, rows[j].MachineID)
	})
	return rows
}

// MachineSummary builds the combined per-machine summary table: mean RPM,
// summed counters and production, and efficiency recomputed from the summed
// counters with the aggregate formula. Ordered by machine id.
func MachineSummary(machines []domain.MachineRecord) []domain.MachineSummaryRow {
	groups := GroupBy(machines, func(r domain.MachineRecord) string { return r.MachineID })

	rows := make([]domain.MachineSummaryRow, 0, len(groups))
	for id, recs := range groups {
		totalRated := Sum(recs, func(r domain.MachineRecord) float64 { return r.RatedCounter })
		totalActual := Sum(recs, func(r domain.MachineRecord) float64 { return r.ActualCounter })
		rows = append(rows, domain.MachineSummaryRow{
			MachineID:       id,
			AvgRPM:          Mean(recs, func(r domain.MachineRecord) float64 { return r.RPM }),
			TotalRated:      totalRated,
			TotalActual:     totalActual,
			TotalProduction: int64(Sum(recs, func(r domain.MachineRecord) float64 { return float64(r.Production) })),
			EfficiencyPct:   AggregateEfficiency(totalActual, totalRated),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return lessMachineID(rows[i].MachineID, rows[j].MachineID)
	})
	return rows
}

// DailyTrend totals production per calendar day, ordered by date.
func DailyTrend(machines []domain.MachineRecord) []domain.TrendPoint {
	groups := GroupBy(machines, func(r domain.MachineRecord) string {
		return r.Date.Format("2006-01-02")
	})

	rows := make([]domain.TrendPoint, 0, len(groups))
	for _, recs := range groups {
		rows = append(rows, domain.TrendPoint{
			Date:            truncateToDay(recs[0].Date),
			TotalProduction: int64(Sum(recs, func(r domain.MachineRecord) float64 { return float64(r.Production) })),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows
}

// Overview computes the headline metrics: total production and the mean of
// per-day production sums.
func Overview(machines []domain.MachineRecord) domain.ProductionOverview {
	trend := DailyTrend(machines)

	var total int64
	for _, p := range trend {
		total += p.TotalProduction
	}
	overview := domain.ProductionOverview{
		TotalProduction: total,
		Days:            len(trend),
	}
	if len(trend) > 0 {
		overview.AvgDailyProduction = float64(total) / float64(len(trend))
	}
	return overview
}

// Granularity is the period bucket size of the smart production view.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// PeriodGranularity selects the bucket size from the active criteria, once
// per request: an explicit date range drills to days, exactly one selected
// month drills to ISO weeks, everything else stays monthly.
func PeriodGranularity(c domain.FilterCriteria) Granularity {
	switch {
	case c.HasDateRange():
		return GranularityDay
	case len(c.Months) == 1:
		return GranularityWeek
	default:
		return GranularityMonth
	}
}

// periodKey orders period buckets chronologically within the chosen
// granularity.
type periodKey struct {
	year int
	sub  int // day-of-epoch, ISO week, or month number
}

// ProductionByPeriod totals production per period at the granularity implied
// by the criteria. Rows come back ascending by (year, subperiod); the label
// column is a categorical axis in that declared order.
func ProductionByPeriod(machines []domain.MachineRecord, c domain.FilterCriteria) []domain.PeriodRow {
	granularity := PeriodGranularity(c)

	keyFn := func(r domain.MachineRecord) periodKey {
		switch granularity {
		case GranularityDay:
			return periodKey{year: r.Year, sub: r.Date.YearDay()}
		case GranularityWeek:
			return periodKey{year: r.Year, sub: r.ISOWeek}
		default:
			return periodKey{year: r.Year, sub: r.Month}
		}
	}
	groups := GroupBy(machines, keyFn)

	keys := make([]periodKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].sub < keys[j].sub
	})

	rows := make([]domain.PeriodRow, 0, len(keys))
	for _, k := range keys {
		recs := groups[k]
		rows = append(rows, domain.PeriodRow{
			Label:           periodLabel(granularity, recs[0]),
			TotalProduction: int64(Sum(recs, func(r domain.MachineRecord) float64 { return float64(r.Production) })),
		})
	}
	return rows
}

// periodLabel formats the bucket label for its granularity.
func periodLabel(granularity Granularity, r domain.MachineRecord) string {
	switch granularity {
	case GranularityDay:
		return r.Date.Format("2006-01-02")
	case GranularityWeek:
		return fmt.Sprintf("Week %d", r.ISOWeek)
	default:
		return fmt.Sprintf("%s %d", r.MonthName, r.Year)
	}
}

// TableViewMode selects the grouping of the production table.
type TableViewMode string

const (
	TableByMachine TableViewMode = "machine"
	TableByDate    TableViewMode = "date"
)

// ProductionTable totals production grouped either by machine or by date,
// per the view-mode selector.
func ProductionTable(machines []domain.MachineRecord, mode TableViewMode) []domain.ProductionTableRow {
	if mode == TableByDate {
		trend := DailyTrend(machines)
		rows := make([]domain.ProductionTableRow, 0, len(trend))
		for _, p := range trend {
			rows = append(rows, domain.ProductionTableRow{
				GroupKey:        p.Date.Format("2006-01-02"),
				TotalProduction: p.TotalProduction,
			})
		}
		return rows
	}

	byMachine := RollsByMachine(machines)
	rows := make([]domain.ProductionTableRow, 0, len(byMachine))
	for _, m := range byMachine {
		rows = append(rows, domain.ProductionTableRow{
			GroupKey:        m.MachineID,
			TotalProduction: m.TotalProduction,
		})
	}
	return rows
}

// OperatorProduction totals production per operator, descending, with ties
// broken ascending by name. This descending order is the input TopN and
// BottomN select from.
func OperatorProduction(operators []domain.OperatorRecord) []domain.OperatorProductionRow {
	groups := GroupBy(operators, func(r domain.OperatorRecord) string { return r.OperatorName })

	rows := make([]domain.OperatorProductionRow, 0, len(groups))
	for name, recs := range groups {
		rows = append(rows, domain.OperatorProductionRow{
			OperatorName:    name,
			TotalProduction: int64(Sum(recs, func(r domain.OperatorRecord) float64 { return float64(r.Production) })),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalProduction != rows[j].TotalProduction {
			return rows[i].TotalProduction > rows[j].TotalProduction
		}
		return rows[i].OperatorName < rows[j].OperatorName
	})
	return rows
}

// ShiftSplit totals production per shift, day shift first.
func ShiftSplit(operators []domain.OperatorRecord) []domain.ShiftSplitRow {
	groups := GroupBy(operators, func(r domain.OperatorRecord) domain.Shift { return r.Shift })

	rows := make([]domain.ShiftSplitRow, 0, len(groups))
	for _, shift := range []domain.Shift{domain.ShiftDay, domain.ShiftNight} {
		recs, ok := groups[shift]
		if !ok {
			continue
		}
		rows = append(rows, domain.ShiftSplitRow{
			Shift:           shift,
			TotalProduction: int64(Sum(recs, func(r domain.OperatorRecord) float64 { return float64(r.Production) })),
		})
	}
	return rows
}
