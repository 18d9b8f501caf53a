package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vencia/vencia-backend/internal/lots/service"
	"github.com/vencia/vencia-backend/pkg/httputil"
	"github.com/vencia/vencia-backend/pkg/logger"
	"github.com/vencia/vencia-backend/pkg/messaging"
)

// AlertHandler serves the aggregated alert map
type AlertHandler struct {
	service *service.AlertService
	logger  *logger.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(service *service.AlertService, log *logger.Logger) *AlertHandler {
	return &AlertHandler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes registers alert routes
func (h *AlertHandler) RegisterRoutes(r chi.Router) {
	r.Get("/alerts", h.List)
	r.Post("/alerts/refresh", h.Refresh)
}

// List returns the products that currently carry an alert
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.service.ActiveAlerts(r.Context())
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, alerts)
}

// Refresh rebuilds the alert map on demand and returns the result.
// When the store is unreachable the previous map stays in effect and
// the caller gets a 503.
func (h *AlertHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := messaging.WithCorrelationID(r.Context(), httputil.GetRequestID(r.Context()))

	if err := h.service.RefreshAlerts(ctx); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, h.service.Alerts())
}
