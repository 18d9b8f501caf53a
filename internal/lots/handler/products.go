package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vencia/vencia-backend/internal/lots/domain"
	"github.com/vencia/vencia-backend/internal/lots/service"
	"github.com/vencia/vencia-backend/pkg/httputil"
	"github.com/vencia/vencia-backend/pkg/logger"
)

// ProductHandler serves product-centric alert views
type ProductHandler struct {
	service *service.AlertService
	logger  *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.AlertService, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.List)
	r.Get("/products/{id}/lots", h.Lots)
	r.Get("/products/{id}/alert", h.Alert)
	r.Get("/products/{id}/writeoffs", h.WriteOffs)
}

type listProductsQuery struct {
	Name  string `validate:"omitempty,max=200"`
	Alert string `validate:"omitempty,oneof=all expired near_expiry low_stock none"`
}

// List lists active products with their alert descriptors, optionally
// narrowed by name substring and alert category. Both filters apply
// together.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := listProductsQuery{
		Name:  r.URL.Query().Get("name"),
		Alert: r.URL.Query().Get("alert"),
	}
	if err := httputil.Validate(&query); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	criteria := domain.FilterCriteria{
		NameQuery: query.Name,
		Alert:     domain.AlertFilter(query.Alert),
	}
	if query.Alert == "" {
		criteria.Alert = domain.FilterAll
	}

	alerts, err := h.service.ProductAlerts(r.Context(), criteria)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, alerts)
}

// Lots lists a product's lots with their computed statuses
func (h *ProductHandler) Lots(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	lots, err := h.service.LotsForProduct(r.Context(), productID)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, lots)
}

// Alert returns the alert record for one product. Products without
// expired or near-expiry lots get a null payload, not an error.
func (h *ProductHandler) Alert(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	httputil.JSON(w, http.StatusOK, h.service.AlertForProduct(productID))
}

// WriteOffs lists a product's write-off history
func (h *ProductHandler) WriteOffs(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	writeOffs, err := h.service.WriteOffsForProduct(r.Context(), productID)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, writeOffs)
}
