package dataprocessing

import (
	"fmt"
)

// InvalidRecordError reports a row that cannot become a valid record, most
// often a malformed or missing date. Ingestion fails fast on it so the
// engine downstream can assume every record carries a valid calendar date.
type InvalidRecordError struct {
	Sheet  string
	Row    int // 1-based workbook row
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid record in sheet %q row %d: %s", e.Sheet, e.Row, e.Reason)
}

func invalidRecord(sheet string, row int, format string, args ...any) *InvalidRecordError {
	return &InvalidRecordError{
		Sheet:  sheet,
		Row:    row,
		Reason: fmt.Sprintf(format, args...),
	}
}
