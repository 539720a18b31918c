package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"prodpulse/pkg/contracts/domain"
)

// ViewExporter writes dashboard result sets as CSV reports. Row order
// in each file follows the result set's declared order.
type ViewExporter struct {
	csv *CSVWriter
}

// NewViewExporter creates a view exporter writing into the reports directory
func NewViewExporter(reportsDir string) *ViewExporter {
	return &ViewExporter{csv: NewCSVWriter(reportsDir)}
}

// ExportTopMachines writes the machine efficiency ranking
func (e *ViewExporter) ExportTopMachines(rows []domain.TopMachineRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.MachineID,
			formatMetric(row.AvgEfficiencyPct),
			formatInt(row.TotalProduction),
		})
	}
	return e.csv.WriteSimpleCSV("top_machines.csv",
		[]string{"MachineID", "AvgEfficiencyPct", "TotalProduction"}, records)
}

// ExportRollsByMachine writes per-machine production totals
func (e *ViewExporter) ExportRollsByMachine(rows []domain.RollsByMachineRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.MachineID,
			formatInt(row.TotalProduction),
		})
	}
	return e.csv.WriteSimpleCSV("rolls_by_machine.csv",
		[]string{"MachineID", "TotalProduction"}, records)
}

// ExportMachineSummary writes the combined per-machine summary
func (e *ViewExporter) ExportMachineSummary(rows []domain.MachineSummaryRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.MachineID,
			formatFloat(row.AvgRPM),
			formatFloat(row.TotalRated),
			formatFloat(row.TotalActual),
			formatInt(row.TotalProduction),
			formatMetric(row.EfficiencyPct),
		})
	}
	return e.csv.WriteSimpleCSV("machine_summary.csv",
		[]string{"MachineID", "AvgRPM", "TotalRated", "TotalActual", "TotalProduction", "EfficiencyPct"},
		records)
}

// ExportProductionTrend writes daily production totals
func (e *ViewExporter) ExportProductionTrend(points []domain.TrendPoint) error {
	records := make([][]string, 0, len(points))
	for _, point := range points {
		records = append(records, []string{
			formatDate(point.Date),
			formatInt(point.TotalProduction),
		})
	}
	return e.csv.WriteSimpleCSV("production_trend.csv",
		[]string{"Date", "TotalProduction"}, records)
}

// ExportProductionByPeriod writes period-bucketed production totals
func (e *ViewExporter) ExportProductionByPeriod(rows []domain.PeriodRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Label,
			formatInt(row.TotalProduction),
		})
	}
	return e.csv.WriteSimpleCSV("production_by_period.csv",
		[]string{"Period", "TotalProduction"}, records)
}

// ExportOperatorProduction writes the operator production ranking
func (e *ViewExporter) ExportOperatorProduction(rows []domain.OperatorProductionRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.OperatorName,
			formatInt(row.TotalProduction),
		})
	}
	return e.csv.WriteSimpleCSV("operator_production.csv",
		[]string{"OperatorName", "TotalProduction"}, records)
}

// ExportShiftSplit writes per-shift production totals
func (e *ViewExporter) ExportShiftSplit(rows []domain.ShiftSplitRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			string(row.Shift),
			formatInt(row.TotalProduction),
		})
	}
	return e.csv.WriteSimpleCSV("shift_split.csv",
		[]string{"Shift", "TotalProduction"}, records)
}

// ExportOperatorSummary writes the merged operator summary
func (e *ViewExporter) ExportOperatorSummary(rows []domain.OperatorSummaryRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.OperatorName,
			formatInt(row.TotalProduction),
			row.MachinesHandled,
			formatMetric(row.EfficiencyPct),
		})
	}
	return e.csv.WriteSimpleCSV("operator_summary.csv",
		[]string{"OperatorName", "TotalProduction", "MachinesHandled", "EfficiencyPct"},
		records)
}

// DashboardReport is the combined JSON report written next to the CSVs
type DashboardReport struct {
	Overview           domain.ProductionOverview    `json:"overview"`
	TopMachines        []domain.TopMachineRow       `json:"top_machines"`
	RollsByMachine     []domain.RollsByMachineRow   `json:"rolls_by_machine"`
	MachineSummary     []domain.MachineSummaryRow   `json:"machine_summary"`
	ProductionTrend    []domain.TrendPoint          `json:"production_trend"`
	ProductionByPeriod []domain.PeriodRow           `json:"production_by_period"`
	OperatorProduction []domain.OperatorProductionRow `json:"operator_production"`
	ShiftSplit         []domain.ShiftSplitRow       `json:"shift_split"`
	OperatorSummary    []domain.OperatorSummaryRow  `json:"operator_summary"`
}

// ExportDashboardJSON writes the combined dashboard report as
// indented JSON
func (e *ViewExporter) ExportDashboardJSON(report DashboardReport) error {
	fullPath := e.csv.resolvePath("dashboard.json")
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard report: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write dashboard report: %w", err)
	}
	return nil
}
