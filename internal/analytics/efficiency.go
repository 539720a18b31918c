package analytics

import (
	"prodpulse/pkg/contracts/domain"
)

// RecordEfficiency computes the per-record efficiency percentage,
// actual/rated*100, for a single reading. A rated counter of zero yields an
// undefined metric.
//
// Values are intentionally not clamped to [0,100]; a machine that outruns
// its rated counter legitimately shows >100%.
func RecordEfficiency(actual, rated float64) domain.Metric {
	if rated == 0 {
		return domain.UndefinedMetric()
	}
	return domain.DefinedMetric(actual / rated * 100)
}

// AggregateEfficiency computes the volume-weighted efficiency percentage of
// a group from its summed counters, sum(actual)/sum(rated)*100. This is a
// distinct formula from averaging per-record ratios and the two differ
// whenever the rated counter varies across the group.
func AggregateEfficiency(totalActual, totalRated float64) domain.Metric {
	if totalRated == 0 {
		return domain.UndefinedMetric()
	}
	return domain.DefinedMetric(totalActual / totalRated * 100)
}

// MeanRecordEfficiency computes the arithmetic mean of per-record efficiency
// percentages across a group. Records with an undefined ratio are excluded
// from the mean; if no record has a defined ratio the mean itself is
// undefined.
func MeanRecordEfficiency(records []domain.MachineRecord) domain.Metric {
	var sum float64
	var n int
	for _, r := range records {
		eff := RecordEfficiency(r.ActualCounter, r.RatedCounter)
		if v, ok := eff.Float64(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return domain.UndefinedMetric()
	}
	return domain.DefinedMetric(sum / float64(n))
}
