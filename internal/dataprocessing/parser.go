// Package dataprocessing ingests the production workbook into the typed
// record collections the analytics engine operates on. Header normalization
// and cell coercion happen here, once, so the engine never re-derives names.
package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"prodpulse/pkg/contracts/domain"
)

// Dataset is the immutable pair of collections loaded from one workbook.
type Dataset struct {
	Machines  []domain.MachineRecord
	Operators []domain.OperatorRecord
}

// Expected sheet names; matching tolerates surrounding spaces and casing
// because exported workbooks routinely carry both.
const (
	machineSheet  = "Machine & Production"
	operatorSheet = "Operator Details"
)

// dateLayouts are tried in order for date cells that are not Excel serials.
var dateLayouts = []string{
	"2006-01-02",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"02-Jan-06",
}

// ParseWorkbook reads both sheets of a production workbook and returns the
// typed dataset. A row with a malformed or missing date fails the load with
// an InvalidRecordError.
func ParseWorkbook(path string, logger *slog.Logger) (*Dataset, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	machineRows, machineName, err := sheetRows(f, machineSheet)
	if err != nil {
		return nil, err
	}
	operatorRows, operatorName, err := sheetRows(f, operatorSheet)
	if err != nil {
		return nil, err
	}

	machines, err := parseMachineRows(machineName, machineRows)
	if err != nil {
		return nil, err
	}
	operators, err := parseOperatorRows(operatorName, operatorRows)
	if err != nil {
		return nil, err
	}

	logger.Info("workbook parsed",
		slog.String("path", path),
		slog.Int("machine_records", len(machines)),
		slog.Int("operator_records", len(operators)))

	return &Dataset{Machines: machines, Operators: operators}, nil
}

// sheetRows finds a sheet by tolerant name match and returns its rows.
func sheetRows(f *excelize.File, want string) ([][]string, string, error) {
	canonical := normalizeHeader(want)
	for _, name := range f.GetSheetList() {
		if normalizeHeader(name) != canonical {
			continue
		}
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, "", fmt.Errorf("read sheet %q: %w", name, err)
		}
		return rows, name, nil
	}
	return nil, "", fmt.Errorf("workbook has no sheet matching %q", want)
}

// normalizeHeader collapses the spacing/casing variations seen in exported
// headers so "  machine number " and "Machine Number" map to the same column.
func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// columnIndex maps normalized header names to their positions.
func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimPrefix(col, "\ufeff")
		name := normalizeHeader(col)
		if name == "" {
			continue
		}
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}
	return index
}

func requireColumns(sheet string, index map[string]int, names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := index[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("sheet %q is missing required columns: %s", sheet, strings.Join(missing, ", "))
	}
	return nil
}

func parseMachineRows(sheet string, rows [][]string) ([]domain.MachineRecord, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	index := columnIndex(rows[0])
	if err := requireColumns(sheet, index,
		"date", "machine number", "rpm", "actual counter", "100% efficiency", "production"); err != nil {
		return nil, err
	}

	records := make([]domain.MachineRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}

		date, err := parseDateCell(cell(row, index["date"]))
		if err != nil {
			return nil, invalidRecord(sheet, rowNum, "date: %v", err)
		}
		machineID := cell(row, index["machine number"])
		if machineID == "" {
			return nil, invalidRecord(sheet, rowNum, "machine number is empty")
		}

		records = append(records, domain.NewMachineRecord(
			date,
			machineID,
			parseFloatCell(cell(row, index["rpm"])),
			parseFloatCell(cell(row, index["actual counter"])),
			parseFloatCell(cell(row, index["100% efficiency"])),
			parseIntCell(cell(row, index["production"])),
		))
	}
	return records, nil
}

func parseOperatorRows(sheet string, rows [][]string) ([]domain.OperatorRecord, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	index := columnIndex(rows[0])
	if err := requireColumns(sheet, index,
		"date", "machine operator", "machine number", "shift (day/night)", "production"); err != nil {
		return nil, err
	}

	records := make([]domain.OperatorRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}

		date, err := parseDateCell(cell(row, index["date"]))
		if err != nil {
			return nil, invalidRecord(sheet, rowNum, "date: %v", err)
		}
		name := cell(row, index["machine operator"])
		if name == "" {
			return nil, invalidRecord(sheet, rowNum, "machine operator is empty")
		}
		shift, err := parseShift(cell(row, index["shift (day/night)"]))
		if err != nil {
			return nil, invalidRecord(sheet, rowNum, "%v", err)
		}

		records = append(records, domain.NewOperatorRecord(
			date,
			name,
			cell(row, index["machine number"]),
			shift,
			parseIntCell(cell(row, index["production"])),
		))
	}
	return records, nil
}

// cell returns the trimmed cell at idx, tolerating short rows.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseDateCell accepts the common spreadsheet date layouts plus raw Excel
// serial numbers.
func parseDateCell(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty value")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// parseFloatCell parses a numeric cell, tolerating thousands separators.
// Unparseable values coerce to zero, matching the tolerance the engine
// expects for counter fields.
func parseFloatCell(value string) float64 {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	return v
}

func parseIntCell(value string) int64 {
	v, _ := strconv.ParseInt(strings.ReplaceAll(value, ",", ""), 10, 64)
	if v == 0 {
		// Production occasionally arrives formatted as a float.
		f, _ := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
		v = int64(f)
	}
	return v
}

func parseShift(value string) (domain.Shift, error) {
	switch strings.ToLower(value) {
	case "day":
		return domain.ShiftDay, nil
	case "night":
		return domain.ShiftNight, nil
	default:
		return "", fmt.Errorf("unrecognized shift %q", value)
	}
}
