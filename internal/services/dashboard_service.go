// Package services implements the business logic between the HTTP
// transport and the analytics core. DashboardService owns the dataset
// lifecycle: it loads the workbook, caches the parsed snapshot keyed
// by source identity, and answers every dashboard query by filtering
// then aggregating the cached records.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"prodpulse/internal/analytics"
	"prodpulse/internal/dataprocessing"
	"prodpulse/pkg/contracts/domain"
)

// ErrNoData indicates that the requested filters matched no records.
// It is a valid business condition, not a failure.
var ErrNoData = errors.New("no records match the requested filters")

// Loader parses a workbook into a dataset. The indirection exists so
// tests can inject fixtures without touching the filesystem.
type Loader func(ctx context.Context, path string) (*dataprocessing.Dataset, error)

// Snapshot is one immutable parse of the source workbook. Queries
// share a snapshot concurrently; a reload builds a new one rather
// than mutating in place.
type Snapshot struct {
	ID            uuid.UUID
	SourcePath    string
	SourceModTime time.Time
	Machines      []domain.MachineRecord
	Operators     []domain.OperatorRecord
}

// DashboardService answers production dashboard queries.
type DashboardService struct {
	workbookPath string
	logger       *slog.Logger
	load         Loader

	mu   sync.RWMutex
	snap *Snapshot
}

// NewDashboardService creates a service reading from the given
// workbook path. Pass a nil loader to use the default excelize parser.
func NewDashboardService(workbookPath string, logger *slog.Logger, load Loader) *DashboardService {
	if load == nil {
		load = func(ctx context.Context, path string) (*dataprocessing.Dataset, error) {
			return dataprocessing.ParseWorkbook(path, logger)
		}
	}
	return &DashboardService{
		workbookPath: workbookPath,
		logger:       logger,
		load:         load,
	}
}

// snapshot returns the current snapshot, reloading the workbook when
// its modification time has changed since the last parse.
func (s *DashboardService) snapshot(ctx context.Context) (*Snapshot, error) {
	info, err := os.Stat(s.workbookPath)
	if err != nil {
		return nil, fmt.Errorf("stat workbook: %w", err)
	}

	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	if snap != nil && snap.SourceModTime.Equal(info.ModTime()) {
		return snap, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Re-check under the write lock; another goroutine may have
	// reloaded while we waited.
	if s.snap != nil && s.snap.SourceModTime.Equal(info.ModTime()) {
		return s.snap, nil
	}

	started := time.Now()
	dataset, err := s.load(ctx, s.workbookPath)
	if err != nil {
		return nil, fmt.Errorf("load workbook: %w", err)
	}

	s.snap = &Snapshot{
		ID:            uuid.New(),
		SourcePath:    s.workbookPath,
		SourceModTime: info.ModTime(),
		Machines:      dataset.Machines,
		Operators:     dataset.Operators,
	}
	s.logger.InfoContext(ctx, "workbook snapshot loaded",
		slog.String("snapshot_id", s.snap.ID.String()),
		slog.String("path", s.workbookPath),
		slog.Int("machine_records", len(s.snap.Machines)),
		slog.Int("operator_records", len(s.snap.Operators)),
		slog.Duration("duration", time.Since(started)),
	)
	return s.snap, nil
}

// Refresh discards the cached snapshot so the next query reparses the
// workbook regardless of its modification time.
func (s *DashboardService) Refresh() {
	s.mu.Lock()
	s.snap = nil
	s.mu.Unlock()
}

// machines returns the filtered machine records, or ErrNoData when the
// filter matches nothing.
func (s *DashboardService) machines(ctx context.Context, c domain.FilterCriteria) ([]domain.MachineRecord, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	filtered := analytics.Filter(snap.Machines, c)
	if len(filtered) == 0 {
		return nil, ErrNoData
	}
	return filtered, nil
}

// operators returns the filtered operator records, or ErrNoData when
// the filter matches nothing.
func (s *DashboardService) operators(ctx context.Context, c domain.FilterCriteria) ([]domain.OperatorRecord, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	filtered := analytics.Filter(snap.Operators, c)
	if len(filtered) == 0 {
		return nil, ErrNoData
	}
	return filtered, nil
}

// Overview returns the headline production metrics for the filtered
// machine records.
func (s *DashboardService) Overview(ctx context.Context, c domain.FilterCriteria) (domain.ProductionOverview, error) {
	records, err := s.machines(ctx, c)
	if err != nil {
		return domain.ProductionOverview{}, err
	}
	return analytics.Overview(records), nil
}

// TopMachines returns the n best machines by average per-record
// efficiency. n is clamped to the number of distinct machines.
func (s *DashboardService) TopMachines(ctx context.Context, c domain.FilterCriteria, n int) ([]domain.TopMachineRow, error) {
	records, err := s.machines(ctx, c)
	if err != nil {
		return nil, err
	}
	ranked := analytics.TopMachinesByEfficiency(records)
	return analytics.TopN(ranked, analytics.ClampN(n, len(ranked))), nil
}

// RollsByMachine returns per-machine production totals in natural
// machine id order.
func (s *DashboardService) RollsByMachine(ctx context.Context, c domain.FilterCriteria) ([]domain.RollsByMachineRow, error) {
	records, err := s.machines(ctx, c)
	if err != nil {
		return nil, err
	}
	return analytics.RollsByMachine(records), nil
}

// MachineSummary returns the combined per-machine summary table. A
// non-empty machineID restricts the result to that machine; an unknown
// id yields ErrNoData.
func (s *DashboardService) MachineSummary(ctx context.Context, c domain.FilterCriteria, machineID string) ([]domain.MachineSummaryRow, error) {
	records, err := s.machines(ctx, c)
	if err != nil {
		return nil, err
	}
	rows := analytics.MachineSummary(records)
	if machineID == "" {
		return rows, nil
	}
	for _, row := range rows {
		if row.MachineID == machineID {
			return []domain.MachineSummaryRow{row}, nil
		}
	}
	return nil, ErrNoData
}

// ProductionTrend returns daily production totals ordered by date.
func (s *DashboardService) ProductionTrend(ctx context.Context, c domain.FilterCriteria) ([]domain.TrendPoint, error) {
	records, err := s.machines(ctx, c)
	if err != nil {
		return nil, err
	}
	return analytics.DailyTrend(records), nil
}

// ProductionByPeriod returns production bucketed at the granularity
// implied by the filter criteria (day, ISO week or month).
func (s *DashboardService) ProductionByPeriod(ctx context.Context, c domain.FilterCriteria) ([]domain.PeriodRow, error) {
	records, err := s.machines(ctx, c)
	if err != nil {
		return nil, err
	}
	return analytics.ProductionByPeriod(records, c), nil
}

// ProductionTable returns the switchable production table grouped by
// machine or by date.
func (s *DashboardService) ProductionTable(ctx context.Context, c domain.FilterCriteria, mode analytics.TableViewMode) ([]domain.ProductionTableRow, error) {
	records, err := s.machines(ctx, c)
	if err != nil {
		return nil, err
	}
	return analytics.ProductionTable(records, mode), nil
}

// TopOperators returns the n operators with the highest total
// production.
func (s *DashboardService) TopOperators(ctx context.Context, c domain.FilterCriteria, n int) ([]domain.OperatorProductionRow, error) {
	records, err := s.operators(ctx, c)
	if err != nil {
		return nil, err
	}
	ranked := analytics.OperatorProduction(records)
	return analytics.TopN(ranked, analytics.ClampN(n, len(ranked))), nil
}

// BottomOperators returns the n operators with the lowest total
// production. Top and bottom slice the same descending order, so with
// n covering everyone the two views partition the operator set.
func (s *DashboardService) BottomOperators(ctx context.Context, c domain.FilterCriteria, n int) ([]domain.OperatorProductionRow, error) {
	records, err := s.operators(ctx, c)
	if err != nil {
		return nil, err
	}
	ranked := analytics.OperatorProduction(records)
	return analytics.BottomN(ranked, analytics.ClampN(n, len(ranked))), nil
}

// ShiftSplit returns production totals split by day and night shift.
func (s *DashboardService) ShiftSplit(ctx context.Context, c domain.FilterCriteria) ([]domain.ShiftSplitRow, error) {
	records, err := s.operators(ctx, c)
	if err != nil {
		return nil, err
	}
	return analytics.ShiftSplit(records), nil
}

// OperatorSummary returns the merged operator summary table joining
// production totals, machines handled and attributed efficiency. A
// non-empty operatorName restricts the result to that operator; an
// unknown name yields ErrNoData. Machine records for the join are
// filtered with the same criteria; an empty machine set is fine here,
// it only makes every efficiency undefined.
func (s *DashboardService) OperatorSummary(ctx context.Context, c domain.FilterCriteria, operatorName string) ([]domain.OperatorSummaryRow, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	operators := analytics.Filter(snap.Operators, c)
	if len(operators) == 0 {
		return nil, ErrNoData
	}
	machines := analytics.Filter(snap.Machines, c)

	rows := analytics.OperatorSummaries(operators, machines)
	if operatorName == "" {
		return rows, nil
	}
	for _, row := range rows {
		if row.OperatorName == operatorName {
			return []domain.OperatorSummaryRow{row}, nil
		}
	}
	return nil, ErrNoData
}
