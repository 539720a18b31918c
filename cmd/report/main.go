// Command report computes every dashboard view over the configured
// workbook and writes them as CSV files plus a combined JSON report.
//
// Usage:
//
//	report [-workbook data/production.xlsx] [-out reports]
//	       [-from YYYY-MM-DD] [-to YYYY-MM-DD]
//	       [-years 2023,2024] [-months March,April] [-limit 5]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"prodpulse/internal/config"
	"prodpulse/internal/exporter"
	"prodpulse/internal/infrastructure"
	"prodpulse/internal/services"
	"prodpulse/pkg/contracts/domain"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "report failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	defaults := config.Default()

	workbook := flag.String("workbook", defaults.Dataset.WorkbookPath, "path to the production workbook")
	out := flag.String("out", defaults.Dataset.ReportsDir, "directory for generated reports")
	from := flag.String("from", "", "start date (YYYY-MM-DD)")
	to := flag.String("to", "", "end date (YYYY-MM-DD)")
	years := flag.String("years", "", "comma separated years")
	months := flag.String("months", "", "comma separated full month names")
	limit := flag.Int("limit", 5, "row limit for top/bottom rankings")
	flag.Parse()

	logger, err := infrastructure.InitializeLogger(config.LoggingConfig{Level: "info", Output: "stdout"})
	if err != nil {
		return err
	}

	criteria, err := buildCriteria(*from, *to, *years, *months)
	if err != nil {
		return err
	}

	svc := services.NewDashboardService(*workbook, logger, nil)
	views := exporter.NewViewExporter(*out)
	ctx := context.Background()

	var report exporter.DashboardReport

	// The snapshot loads once; the view computations afterwards are
	// independent and run concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		report.Overview, err = svc.Overview(gctx, criteria)
		return err
	})
	g.Go(func() error {
		var err error
		report.TopMachines, err = svc.TopMachines(gctx, criteria, *limit)
		return err
	})
	g.Go(func() error {
		var err error
		report.RollsByMachine, err = svc.RollsByMachine(gctx, criteria)
		return err
	})
	g.Go(func() error {
		var err error
		report.MachineSummary, err = svc.MachineSummary(gctx, criteria, "")
		return err
	})
	g.Go(func() error {
		var err error
		report.ProductionTrend, err = svc.ProductionTrend(gctx, criteria)
		return err
	})
	g.Go(func() error {
		var err error
		report.ProductionByPeriod, err = svc.ProductionByPeriod(gctx, criteria)
		return err
	})
	g.Go(func() error {
		var err error
		report.OperatorProduction, err = svc.TopOperators(gctx, criteria, 1<<30)
		return err
	})
	g.Go(func() error {
		var err error
		report.ShiftSplit, err = svc.ShiftSplit(gctx, criteria)
		return err
	})
	g.Go(func() error {
		var err error
		report.OperatorSummary, err = svc.OperatorSummary(gctx, criteria, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	started := time.Now()
	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() error { return views.ExportTopMachines(report.TopMachines) })
	eg.Go(func() error { return views.ExportRollsByMachine(report.RollsByMachine) })
	eg.Go(func() error { return views.ExportMachineSummary(report.MachineSummary) })
	eg.Go(func() error { return views.ExportProductionTrend(report.ProductionTrend) })
	eg.Go(func() error { return views.ExportProductionByPeriod(report.ProductionByPeriod) })
	eg.Go(func() error { return views.ExportOperatorProduction(report.OperatorProduction) })
	eg.Go(func() error { return views.ExportShiftSplit(report.ShiftSplit) })
	eg.Go(func() error { return views.ExportOperatorSummary(report.OperatorSummary) })
	eg.Go(func() error { return views.ExportDashboardJSON(report) })
	if err := eg.Wait(); err != nil {
		return err
	}

	logger.Info("reports written",
		slog.String("dir", *out),
		slog.Duration("duration", time.Since(started)))
	return nil
}

// buildCriteria parses the CLI filter flags
func buildCriteria(from, to, years, months string) (domain.FilterCriteria, error) {
	var c domain.FilterCriteria

	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return c, fmt.Errorf("invalid -from %q: %w", from, err)
		}
		c.DateFrom = &t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return c, fmt.Errorf("invalid -to %q: %w", to, err)
		}
		c.DateTo = &t
	}
	if c.DateFrom != nil && c.DateTo != nil && c.DateTo.Before(*c.DateFrom) {
		return c, fmt.Errorf("-to %s is before -from %s", to, from)
	}

	if years != "" {
		for _, part := range strings.Split(years, ",") {
			year, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return c, fmt.Errorf("invalid year %q: %w", part, err)
			}
			c.Years = append(c.Years, year)
		}
	}
	if months != "" {
		for _, part := range strings.Split(months, ",") {
			c.Months = append(c.Months, strings.TrimSpace(part))
		}
	}
	return c, nil
}
