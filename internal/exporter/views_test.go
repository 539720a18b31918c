package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodpulse/pkg/contracts/domain"
)

func readReport(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return strings.TrimPrefix(string(data), "\xEF\xBB\xBF")
}

func TestExportTopMachinesWritesNAForUndefined(t *testing.T) {
	dir := t.TempDir()
	e := NewViewExporter(dir)

	err := e.ExportTopMachines([]domain.TopMachineRow{
		{MachineID: "2", AvgEfficiencyPct: domain.DefinedMetric(120), TotalProduction: 8},
		{MachineID: "3", AvgEfficiencyPct: domain.UndefinedMetric(), TotalProduction: 4},
	})
	require.NoError(t, err)

	body := readReport(t, dir, "top_machines.csv")
	assert.Contains(t, body, "2,120.00,8")
	assert.Contains(t, body, "3,N/A,4")
}

func TestExportProductionTrendFormatsDates(t *testing.T) {
	dir := t.TempDir()
	e := NewViewExporter(dir)

	err := e.ExportProductionTrend([]domain.TrendPoint{
		{Date: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), TotalProduction: 18},
	})
	require.NoError(t, err)

	body := readReport(t, dir, "production_trend.csv")
	assert.Contains(t, body, "2024-03-01,18")
}

func TestExportOperatorSummaryQuotesMachineList(t *testing.T) {
	dir := t.TempDir()
	e := NewViewExporter(dir)

	err := e.ExportOperatorSummary([]domain.OperatorSummaryRow{
		{
			OperatorName:    "Alice",
			TotalProduction: 22,
			MachinesHandled: "1, 2",
			EfficiencyPct:   domain.DefinedMetric(85),
		},
	})
	require.NoError(t, err)

	body := readReport(t, dir, "operator_summary.csv")
	assert.Contains(t, body, `Alice,22,"1, 2",85.00`)
}

func TestExportDashboardJSON(t *testing.T) {
	dir := t.TempDir()
	e := NewViewExporter(dir)

	report := DashboardReport{
		Overview: domain.ProductionOverview{TotalProduction: 34, AvgDailyProduction: 17, Days: 2},
		TopMachines: []domain.TopMachineRow{
			{MachineID: "3", AvgEfficiencyPct: domain.UndefinedMetric(), TotalProduction: 4},
		},
	}
	require.NoError(t, e.ExportDashboardJSON(report))

	data, err := os.ReadFile(filepath.Join(dir, "dashboard.json"))
	require.NoError(t, err)

	var decoded struct {
		Overview struct {
			TotalProduction int64 `json:"total_production"`
		} `json:"overview"`
		TopMachines []struct {
			AvgEfficiencyPct *float64 `json:"avg_efficiency_pct"`
		} `json:"top_machines"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, int64(34), decoded.Overview.TotalProduction)
	require.Len(t, decoded.TopMachines, 1)
	assert.Nil(t, decoded.TopMachines[0].AvgEfficiencyPct)
}
