package exporter

import (
	"fmt"
	"time"

	"prodpulse/pkg/contracts/domain"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

// formatMetric formats a possibly undefined metric; undefined values
// are exported as "N/A", never as zero
func formatMetric(m domain.Metric) string {
	return m.String()
}

// formatDate formats a date for CSV output
func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
