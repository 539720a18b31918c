// Package http provides the HTTP transport for the dashboard API.
// Handlers translate query parameters into filter criteria, call the
// dashboard service and render JSON via go-chi/render.
package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"prodpulse/internal/analytics"
	apierrors "prodpulse/internal/errors"
	"prodpulse/internal/infrastructure"
	"prodpulse/internal/services"
	"prodpulse/pkg/contracts/domain"
)

// dateLayout is the wire format for from/to query parameters
const dateLayout = "2006-01-02"

// defaultLimit is used when top/bottom endpoints omit ?limit=
const defaultLimit = 5

// DashboardHandler serves the production dashboard endpoints.
type DashboardHandler struct {
	service  *services.DashboardService
	logger   *slog.Logger
	validate *validator.Validate
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(service *services.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service:  service,
		logger:   logger,
		validate: validator.New(),
	}
}

// Routes returns the router for dashboard endpoints
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/overview", h.Overview)
	r.Get("/machines/top", h.TopMachines)
	r.Get("/machines/rolls", h.RollsByMachine)
	r.Get("/machines/summary", h.MachineSummary)
	r.Get("/production/trend", h.ProductionTrend)
	r.Get("/production/by-period", h.ProductionByPeriod)
	r.Get("/production/table", h.ProductionTable)
	r.Get("/operators/top", h.TopOperators)
	r.Get("/operators/bottom", h.BottomOperators)
	r.Get("/operators/shift-split", h.ShiftSplit)
	r.Get("/operators/summary", h.OperatorSummary)

	return r
}

// filterQuery carries the decoded filter parameters. months are
// validated as full English month names, years as sane four digit
// values.
type filterQuery struct {
	Years  []int    `validate:"dive,gte=1900,lte=2200"`
	Months []string `validate:"dive,oneof=January February March April May June July August September October November December"`
}

// criteriaFromQuery decodes from/to, years and months query parameters
// into filter criteria.
func (h *DashboardHandler) criteriaFromQuery(r *http.Request) (domain.FilterCriteria, error) {
	var c domain.FilterCriteria
	q := r.URL.Query()

	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return c, apierrors.ErrValidation("from", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw))
		}
		c.DateFrom = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return c, apierrors.ErrValidation("to", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw))
		}
		c.DateTo = &t
	}
	if c.DateFrom != nil && c.DateTo != nil && c.DateTo.Before(*c.DateFrom) {
		return c, apierrors.ErrValidation("to", "end date is before start date")
	}

	if raw := q.Get("years"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			year, err := strconv.Atoi(part)
			if err != nil {
				return c, apierrors.ErrValidation("years", fmt.Sprintf("invalid year %q", part))
			}
			c.Years = append(c.Years, year)
		}
	}
	if raw := q.Get("months"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			c.Months = append(c.Months, strings.TrimSpace(part))
		}
	}

	fq := filterQuery{Years: c.Years, Months: c.Months}
	if err := h.validate.Struct(fq); err != nil {
		return c, apierrors.ErrValidation("filters", err.Error())
	}
	return c, nil
}

// limitFromQuery decodes the optional ?limit= parameter. The service
// clamps it against the result size; only non-numeric input is an
// error here.
func limitFromQuery(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierrors.ErrValidation("limit", fmt.Sprintf("invalid limit %q", raw))
	}
	return limit, nil
}

// respondError maps service errors to API errors and renders them
func (h *DashboardHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	traceID := infrastructure.GetTraceID(r.Context())

	var apiErr *apierrors.APIError
	switch {
	case errors.As(err, &apiErr):
		// already an API error, render as-is
	case errors.Is(err, services.ErrNoData):
		apiErr = apierrors.ErrNoDataAvailable
	default:
		h.logger.ErrorContext(r.Context(), "dashboard query failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		apiErr = apierrors.ErrInternalServer
	}
	apierrors.WriteError(w, r, apiErr, traceID)
}

// Overview handles GET /overview
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	c, err := h.criteriaFromQuery(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	overview, err := h.service.Overview(r.Context(), c)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, overview)
}

// TopMachines handles GET /machines/top?limit=N
func (h *DashboardHandler) TopMachines(w http.ResponseWriter, r *http.Request) {
	c, err := h.criteriaFromQuery(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	limit, err := limitFromQuery(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	rows, err := h.service.TopMachines(r.Context(), c, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}

// RollsByMachine handles GET /machines/rolls
func (h *DashboardHandler) RollsByMachine(w http.ResponseWriter, r *http.Request) {
	c, err := h.criteriaFromQuery(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	rows, err := h.service.RollsByMachine(r.Context(), c)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}

// MachineSummary handles GET /machines/summary?machine=ID
func (h *DashboardHandler) MachineSummary(w http.ResponseWriter, r *http.Request) {
	c, err := h.criteriaFromQuery(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	rows, err := h.service.MachineSummary(r.Context(), c, strings.TrimSpace(r.URL.Query().Get("machine")))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}

// ProductionTrend handles GET /production/trend
func (h *DashboardHandler) ProductionTrend(w http.ResponseWriter, r *http.Request) {
	c, err := h.criteriaFromQuery(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	points, err := h.service.ProductionTrend(r.Context(), c)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, points)
}

// ProductionByPeriod handles GET /production/by-period
func (h *DashboardHandler) ProductionByPeriod(w http.ResponseWriter, r *http.Request) {
	c, err := h.criteriaFromQuery(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	rows, err := h.service.ProductionByPeriod(r.Context(), c)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}

// ProductionTable handles GET /production/table?view=machine|date
func (h *DashboardHandler) ProductionTable(w http.ResponseWriter, r *http.Request) {
	c, err := h.criteriaFromQuery(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	view := r.URL.Query().Get("view")
	if view == "" {
		view = string(analytics.TableByMachine)
	}
	if err := h.validate.Var(view, "oneof=machine date"); err != nil {
		h.respondError(w, r, apierrors.ErrValidation("view", "must be one of machine, date"))
		return
	}

	rows, err := h.service.ProductionTable(r.Context(), c, analytics.TableViewMode(view))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}

// TopOperators handles GET /operators/top?limit=N
func (h *DashboardHandler) TopOperators(w http.ResponseWriter, r *http.Request) {
	c, err := h.criteriaFromQuery(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	limit, err := limitFromQuery(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	rows, err := h.service.TopOperators(r.Context(), c, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}

// BottomOperators handles GET /operators/bottom?limit=N
func (h *DashboardHandler) BottomOperators(w http.ResponseWriter, r *http.Request) {
	c, err := h.criteriaFromQuery(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	limit, err := limitFromQuery(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	rows, err := h.service.BottomOperators(r.Context(), c, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}

// ShiftSplit handles GET /operators/shift-split
func (h *DashboardHandler) ShiftSplit(w http.ResponseWriter, r *http.Request) {
	c, err := h.criteriaFromQuery(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	rows, err := h.service.ShiftSplit(r.Context(), c)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}

// OperatorSummary handles GET /operators/summary?operator=NAME
func (h *DashboardHandler) OperatorSummary(w http.ResponseWriter, r *http.Request) {
	c, err := h.criteriaFromQuery(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	rows, err := h.service.OperatorSummary(r.Context(), c, strings.TrimSpace(r.URL.Query().Get("operator")))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}
