package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vencia/vencia-backend/internal/lots/service"
	"github.com/vencia/vencia-backend/pkg/httputil"
	"github.com/vencia/vencia-backend/pkg/logger"
	"github.com/vencia/vencia-backend/pkg/messaging"
)

// LotHandler serves lot lifecycle operations
type LotHandler struct {
	service *service.AlertService
	logger  *logger.Logger
}

// NewLotHandler creates a new lot handler
func NewLotHandler(service *service.AlertService, log *logger.Logger) *LotHandler {
	return &LotHandler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes registers lot routes
func (h *LotHandler) RegisterRoutes(r chi.Router) {
	r.Post("/{id}/retire", h.Retire)
}

type retireLotRequest struct {
	Reason      string  `json:"reason" validate:"required,max=200"`
	Note        *string `json:"note" validate:"omitempty,max=500"`
	PerformedBy *string `json:"performed_by" validate:"omitempty,max=100"`
}

// Retire writes off a lot and responds with the product's refreshed
// lot list so the caller can replace its view in one round trip.
func (h *LotHandler) Retire(w http.ResponseWriter, r *http.Request) {
	lotID := chi.URLParam(r, "id")

	var req retireLotRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	// carry the request ID into published events
	ctx := messaging.WithCorrelationID(r.Context(), httputil.GetRequestID(r.Context()))

	lots, err := h.service.RetireLot(ctx, lotID, req.Reason, req.Note, req.PerformedBy)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, lots)
}
