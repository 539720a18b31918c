package analytics

import (
	"sort"
	"strings"

	"prodpulse/pkg/contracts/domain"
)

// joinKey identifies the machine reading(s) an operator record attributes
// its efficiency to.
type joinKey struct {
	date      string // day-granular, formatted 2006-01-02
	machineID string
}

// OperatorEfficiency is the join-attributed counter totals for one operator.
type OperatorEfficiency struct {
	TotalActual   float64
	TotalRated    float64
	EfficiencyPct domain.Metric
}

// JoinOperatorEfficiency left-joins every operator record to the machine
// records sharing its (date, machine id), sums the matched counters per
// operator, and applies the aggregate efficiency formula to the totals.
//
// Unmatched operator records contribute zero to both counter sums, so the
// ratio is driven solely by matched rows; an operator with no matches at all
// gets an undefined efficiency rather than zero.
func JoinOperatorEfficiency(operators []domain.OperatorRecord, machines []domain.MachineRecord) map[string]OperatorEfficiency {
	index := make(map[joinKey][]domain.MachineRecord, len(machines))
	for _, m := range machines {
		k := joinKey{date: m.Date.Format("2006-01-02"), machineID: m.MachineID}
		index[k] = append(index[k], m)
	}

	type totals struct {
		actual float64
		rated  float64
	}
	byOperator := make(map[string]totals)
	for _, op := range operators {
		t := byOperator[op.OperatorName]
		k := joinKey{date: op.Date.Format("2006-01-02"), machineID: op.MachineID}
		for _, m := range index[k] {
			t.actual += m.ActualCounter
			t.rated += m.RatedCounter
		}
		byOperator[op.OperatorName] = t
	}

	out := make(map[string]OperatorEfficiency, len(byOperator))
	for name, t := range byOperator {
		out[name] = OperatorEfficiency{
			TotalActual:   t.actual,
			TotalRated:    t.rated,
			EfficiencyPct: AggregateEfficiency(t.actual, t.rated),
		}
	}
	return out
}

// MachinesHandled computes, per operator, the sorted distinct machine ids the
// operator appears with, rendered as a comma-delimited display string.
func MachinesHandled(operators []domain.OperatorRecord) map[string]string {
	groups := GroupBy(operators, func(r domain.OperatorRecord) string { return r.OperatorName })

	out := make(map[string]string, len(groups))
	for name, recs := range groups {
		machines := UniqueSorted(recs, func(r domain.OperatorRecord) string { return r.MachineID })
		out[name] = strings.Join(machines, ", ")
	}
	return out
}

// OperatorSummaries merges three independently computed components on
// operator name: production totals and machines handled come from the
// operator records alone, efficiency from the machine join. Rows come
// back in production-descending order with name ties ascending, the
// same order the top/bottom operator rankings select from.
func OperatorSummaries(operators []domain.OperatorRecord, machines []domain.MachineRecord) []domain.OperatorSummaryRow {
	production := OperatorProduction(operators)
	handled := MachinesHandled(operators)
	efficiency := JoinOperatorEfficiency(operators, machines)

	rows := make([]domain.OperatorSummaryRow, 0, len(production))
	for _, p := range production {
		row := domain.OperatorSummaryRow{
			OperatorName:    p.OperatorName,
			TotalProduction: p.TotalProduction,
			MachinesHandled: handled[p.OperatorName],
			EfficiencyPct:   domain.UndefinedMetric(),
		}
		if eff, ok := efficiency[p.OperatorName]; ok {
			row.EfficiencyPct = eff.EfficiencyPct
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalProduction != rows[j].TotalProduction {
			return rows[i].TotalProduction > rows[j].TotalProduction
		}
		return rows[i].OperatorName < rows[j].OperatorName
	})
	return rows
}
