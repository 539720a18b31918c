package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodpulse/internal/analytics"
	"prodpulse/internal/dataprocessing"
	"prodpulse/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixtureDataset() *dataprocessing.Dataset {
	return &dataprocessing.Dataset{
		Machines: []domain.MachineRecord{
			domain.NewMachineRecord(day(2024, time.March, 1), "1", 800, 90, 100, 10),
			domain.NewMachineRecord(day(2024, time.March, 1), "2", 900, 60, 50, 8),
			domain.NewMachineRecord(day(2024, time.March, 2), "1", 820, 80, 100, 12),
			domain.NewMachineRecord(day(2023, time.July, 10), "10", 700, 40, 80, 5),
		},
		Operators: []domain.OperatorRecord{
			domain.NewOperatorRecord(day(2024, time.March, 1), "Alice", "1", domain.ShiftDay, 10),
			domain.NewOperatorRecord(day(2024, time.March, 1), "Bob", "2", domain.ShiftNight, 8),
			domain.NewOperatorRecord(day(2024, time.March, 2), "Alice", "1", domain.ShiftDay, 12),
			domain.NewOperatorRecord(day(2023, time.July, 10), "Carol", "10", domain.ShiftDay, 5),
		},
	}
}

// newFixtureService returns a service backed by a real temp file (for
// the modtime check) and an injected in-memory dataset.
func newFixtureService(t *testing.T) (*DashboardService, *int) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "production.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("placeholder"), 0644))

	loads := 0
	loader := func(ctx context.Context, path string) (*dataprocessing.Dataset, error) {
		loads++
		return fixtureDataset(), nil
	}
	return NewDashboardService(path, testLogger(), loader), &loads
}

func TestSnapshotIsMemoizedOnSourceIdentity(t *testing.T) {
	svc, loads := newFixtureService(t)
	ctx := context.Background()

	_, err := svc.Overview(ctx, domain.FilterCriteria{})
	require.NoError(t, err)
	_, err = svc.RollsByMachine(ctx, domain.FilterCriteria{})
	require.NoError(t, err)

	assert.Equal(t, 1, *loads)
}

func TestSnapshotReloadsAfterModTimeChange(t *testing.T) {
	svc, loads := newFixtureService(t)
	ctx := context.Background()

	_, err := svc.Overview(ctx, domain.FilterCriteria{})
	require.NoError(t, err)

	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(svc.workbookPath, future, future))

	_, err = svc.Overview(ctx, domain.FilterCriteria{})
	require.NoError(t, err)

	assert.Equal(t, 2, *loads)
}

func TestRefreshDiscardsSnapshot(t *testing.T) {
	svc, loads := newFixtureService(t)
	ctx := context.Background()

	_, err := svc.Overview(ctx, domain.FilterCriteria{})
	require.NoError(t, err)

	svc.Refresh()

	_, err = svc.Overview(ctx, domain.FilterCriteria{})
	require.NoError(t, err)
	assert.Equal(t, 2, *loads)
}

func TestOverviewAveragesPerDaySums(t *testing.T) {
	svc, _ := newFixtureService(t)

	got, err := svc.Overview(context.Background(), domain.FilterCriteria{Years: []int{2024}})
	require.NoError(t, err)

	// Two days in 2024: 18 on March 1st, 12 on March 2nd.
	assert.Equal(t, int64(30), got.TotalProduction)
	assert.Equal(t, 2, got.Days)
	assert.InDelta(t, 15.0, got.AvgDailyProduction, 1e-9)
}

func TestEmptyFilterResultIsNoData(t *testing.T) {
	svc, _ := newFixtureService(t)

	_, err := svc.Overview(context.Background(), domain.FilterCriteria{Years: []int{1999}})
	assert.ErrorIs(t, err, ErrNoData)

	_, err = svc.TopOperators(context.Background(), domain.FilterCriteria{Years: []int{1999}}, 3)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestTopMachinesClampsLimit(t *testing.T) {
	svc, _ := newFixtureService(t)

	got, err := svc.TopMachines(context.Background(), domain.FilterCriteria{Years: []int{2024}}, 50)
	require.NoError(t, err)

	// Only two machines have 2024 records.
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].MachineID) // 120% per-record efficiency
	assert.Equal(t, "1", got[1].MachineID)
}

func TestMachineSummarySelector(t *testing.T) {
	svc, _ := newFixtureService(t)
	ctx := context.Background()

	all, err := svc.MachineSummary(ctx, domain.FilterCriteria{}, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	one, err := svc.MachineSummary(ctx, domain.FilterCriteria{}, "1")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "1", one[0].MachineID)

	_, err = svc.MachineSummary(ctx, domain.FilterCriteria{}, "99")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestTopAndBottomOperatorsPartitionTheSet(t *testing.T) {
	svc, _ := newFixtureService(t)
	ctx := context.Background()

	top, err := svc.TopOperators(ctx, domain.FilterCriteria{}, 2)
	require.NoError(t, err)
	bottom, err := svc.BottomOperators(ctx, domain.FilterCriteria{}, 1)
	require.NoError(t, err)

	require.Len(t, top, 2)
	require.Len(t, bottom, 1)
	assert.Equal(t, "Alice", top[0].OperatorName)
	assert.Equal(t, int64(22), top[0].TotalProduction)
	assert.Equal(t, "Carol", bottom[0].OperatorName)
}

func TestProductionTableModes(t *testing.T) {
	svc, _ := newFixtureService(t)
	ctx := context.Background()

	byMachine, err := svc.ProductionTable(ctx, domain.FilterCriteria{Years: []int{2024}}, analytics.TableByMachine)
	require.NoError(t, err)
	require.Len(t, byMachine, 2)
	assert.Equal(t, "1", byMachine[0].GroupKey)

	byDate, err := svc.ProductionTable(ctx, domain.FilterCriteria{Years: []int{2024}}, analytics.TableByDate)
	require.NoError(t, err)
	require.Len(t, byDate, 2)
}

func TestOperatorSummaryJoinsEfficiency(t *testing.T) {
	svc, _ := newFixtureService(t)

	rows, err := svc.OperatorSummary(context.Background(), domain.FilterCriteria{}, "Alice")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, int64(22), row.TotalProduction)
	assert.Equal(t, "1", row.MachinesHandled)

	// Alice's machine rows: 90/100 and 80/100, so 170/200 = 85%.
	eff, ok := row.EfficiencyPct.Float64()
	require.True(t, ok)
	assert.InDelta(t, 85.0, eff, 1e-9)
}

func TestOperatorSummaryUnknownOperator(t *testing.T) {
	svc, _ := newFixtureService(t)

	_, err := svc.OperatorSummary(context.Background(), domain.FilterCriteria{}, "Nobody")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSnapshotErrorWhenWorkbookMissing(t *testing.T) {
	svc := NewDashboardService(filepath.Join(t.TempDir(), "missing.xlsx"), testLogger(), nil)

	_, err := svc.Overview(context.Background(), domain.FilterCriteria{})
	assert.Error(t, err)
}
