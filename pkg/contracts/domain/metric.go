package domain

import (
	"fmt"
	"strconv"
)

// Metric is a percentage value that may be undefined. Efficiency is a ratio
// against a rated counter, and a rated counter of zero makes the ratio
// undefined rather than zero; Metric carries that state to consumers instead
// of crashing or silently coercing.
//
// An undefined Metric marshals to JSON null and renders as "N/A" in text
// output. NaN is deliberately not used because encoding/json cannot
// represent it.
type Metric struct {
	value   float64
	defined bool
}

// DefinedMetric returns a metric holding v.
func DefinedMetric(v float64) Metric {
	return Metric{value: v, defined: true}
}

// UndefinedMetric returns the undefined sentinel.
func UndefinedMetric() Metric {
	return Metric{}
}

// Defined reports whether the metric holds a value.
func (m Metric) Defined() bool { return m.defined }

// Float64 returns the value and whether it is defined.
func (m Metric) Float64() (float64, bool) { return m.value, m.defined }

// MarshalJSON encodes the value, or null when undefined.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.defined {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(m.value, 'f', -1, 64)), nil
}

// UnmarshalJSON decodes a number or null.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Metric{}
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("metric: %w", err)
	}
	*m = Metric{value: v, defined: true}
	return nil
}

// String renders the value with two decimals, or "N/A" when undefined.
func (m Metric) String() string {
	if !m.defined {
		return "N/A"
	}
	return strconv.FormatFloat(m.value, 'f', 2, 64)
}
