package domain

import (
	"time"
)

// The view row types below are the fixed output schemas consumed by the
// presentation layer. Each result set is an ordered slice of one of these
// rows; ordering is part of the contract (categorical axes must be rendered
// in declared order, never resorted lexicographically).

// TopMachineRow ranks a machine by the arithmetic mean of its per-record
// efficiency percentages.
type TopMachineRow struct {
	MachineID        string `json:"machine_id"`
	AvgEfficiencyPct Metric `json:"avg_efficiency_pct"`
	TotalProduction  int64  `json:"total_production"`
}

// RollsByMachineRow is one machine's total production, ordered by machine id.
type RollsByMachineRow struct {
	MachineID       string `json:"machine_id"`
	TotalProduction int64  `json:"total_production"`
}

// MachineSummaryRow is the combined per-machine summary. EfficiencyPct is
// recomputed from the summed counters (the volume-weighted formula), not from
// averaging per-record ratios.
type MachineSummaryRow struct {
	MachineID       string  `json:"machine_id"`
	AvgRPM          float64 `json:"avg_rpm"`
	TotalRated      float64 `json:"total_rated"`
	TotalActual     float64 `json:"total_actual"`
	TotalProduction int64   `json:"total_production"`
	EfficiencyPct   Metric  `json:"efficiency_pct"`
}

// TrendPoint is one day's total production, ordered by date.
type TrendPoint struct {
	Date            time.Time `json:"date"`
	TotalProduction int64     `json:"total_production"`
}

// PeriodRow is one period bucket of the smart production view. Label follows
// the active granularity: "2024-03-08" per day, "Week 12" per ISO week,
// "March 2024" per month.
type PeriodRow struct {
	Label           string `json:"label"`
	TotalProduction int64  `json:"total_production"`
}

// ProductionTableRow is one row of the switchable production table; GroupKey
// is a machine id or a formatted date depending on the view mode.
type ProductionTableRow struct {
	GroupKey        string `json:"group_key"`
	TotalProduction int64  `json:"total_production"`
}

// OperatorProductionRow ranks an operator by total production.
type OperatorProductionRow struct {
	OperatorName    string `json:"operator_name"`
	TotalProduction int64  `json:"total_production"`
}

// ShiftSplitRow is one shift's share of total production.
type ShiftSplitRow struct {
	Shift           Shift `json:"shift"`
	TotalProduction int64 `json:"total_production"`
}

// OperatorSummaryRow combines production totals, the machines-handled list
// and join-attributed efficiency for one operator. The three components are
// computed independently and merged on operator name, so an operator with no
// matched machine rows still appears with defined production and machines
// but undefined efficiency.
type OperatorSummaryRow struct {
	OperatorName    string `json:"operator_name"`
	TotalProduction int64  `json:"total_production"`
	MachinesHandled string `json:"machines_handled"`
	EfficiencyPct   Metric `json:"efficiency_pct"`
}

// ProductionOverview carries the headline metrics of the production tab.
// AvgDailyProduction is the mean of per-day production sums, not the mean of
// individual records.
type ProductionOverview struct {
	TotalProduction    int64   `json:"total_production"`
	AvgDailyProduction float64 `json:"avg_daily_production"`
	Days               int     `json:"days"`
}
