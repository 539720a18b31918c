// Package analytics is the filtering, aggregation, join and ranking engine
// behind the production dashboard views.
//
// Every function is a pure transformation over immutable record slices: the
// caller passes an explicit domain.FilterCriteria value and receives freshly
// built result rows; input collections are never mutated and no state is
// shared between calls, so concurrent use from multiple consumers is safe
// without locking.
//
// Two efficiency formulas coexist and are never interchangeable: the
// per-record ratio (mean of which feeds the machine efficiency ranking) and
// the aggregate ratio of summed counters (which feeds the machine summary
// table and operator efficiency). A rated counter of zero makes either ratio
// undefined; that state propagates as domain.Metric, never as zero.
package analytics
