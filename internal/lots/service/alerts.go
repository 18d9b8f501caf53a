package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/vencia/vencia-backend/internal/lots/domain"
	"github.com/vencia/vencia-backend/internal/lots/events"
	"github.com/vencia/vencia-backend/internal/lots/repository"
	"github.com/vencia/vencia-backend/pkg/errors"
	"github.com/vencia/vencia-backend/pkg/logger"
)

// LotStore is the persistence surface the alert service depends on
type LotStore interface {
	ListByProduct(ctx context.Context, productID string) ([]*domain.Lot, error)
	ListExpired(ctx context.Context) ([]*domain.Lot, error)
	ListNearExpiry(ctx context.Context, windowDays int) ([]*domain.Lot, error)
	Retire(ctx context.Context, lotID, reason string, note, performedBy *string) (*domain.Lot, error)
	ListWriteOffsByProduct(ctx context.Context, productID string) ([]*repository.WriteOff, error)
}

// ProductStore reads the product catalog
type ProductStore interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetAllActive(ctx context.Context) ([]*domain.Product, error)
}

// LotView is a lot with its computed status for API responses
type LotView struct {
	*domain.Lot
	Status domain.Status `json:"status"`
}

// AlertService maintains the expiry alert state. Alerts are rebuilt
// atomically: a refresh either replaces the whole map or leaves the
// previous one in place, so readers never observe a partial result.
type AlertService struct {
	lots      LotStore
	products  ProductStore
	publisher *events.LotEventPublisher
	logger    *logger.Logger

	windowDays int
	now        func() time.Time

	mu     sync.RWMutex
	alerts map[string]domain.AlertRecord
}

// NewAlertService creates a new alert service
func NewAlertService(lots LotStore, products ProductStore, publisher *events.LotEventPublisher, windowDays int, log *logger.Logger) *AlertService {
	if windowDays <= 0 {
		windowDays = domain.DefaultNearExpiryWindowDays
	}
	return &AlertService{
		lots:       lots,
		products:   products,
		publisher:  publisher,
		logger:     log,
		windowDays: windowDays,
		now:        time.Now,
		alerts:     map[string]domain.AlertRecord{},
	}
}

// RefreshAlerts rebuilds the alert map from the store. When either
// fetch fails the previous map survives untouched and the error tells
// callers the store was unreachable.
func (s *AlertService) RefreshAlerts(ctx context.Context) error {
	expired, err := s.lots.ListExpired(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list expired lots")
		return errors.Unavailable("lot_store", err)
	}

	nearExpiry, err := s.lots.ListNearExpiry(ctx, s.windowDays)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list near-expiry lots")
		return errors.Unavailable("lot_store", err)
	}

	combined := make([]*domain.Lot, 0, len(expired)+len(nearExpiry))
	combined = append(combined, expired...)
	combined = append(combined, nearExpiry...)

	records, invalid := domain.Aggregate(combined, s.now(), s.windowDays)
	if len(invalid) > 0 {
		s.logger.Warn().
			Strs("lot_ids", invalid).
			Msg("lots with unparseable expiry dates treated as active")
	}

	s.mu.Lock()
	s.alerts = records
	s.mu.Unlock()

	s.logger.Info().
		Int("products_with_alerts", len(records)).
		Int("expired_lots", len(expired)).
		Int("near_expiry_lots", len(nearExpiry)).
		Msg("expiry alerts refreshed")

	s.publisher.PublishAlertsRefreshed(ctx, len(records), len(expired), len(nearExpiry), s.now())

	return nil
}

// Alerts returns a copy of the current alert map
func (s *AlertService) Alerts() map[string]domain.AlertRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.AlertRecord, len(s.alerts))
	for id, rec := range s.alerts {
		out[id] = rec
	}
	return out
}

// AlertForProduct returns the alert record for a product, or nil when
// the product has no expired or near-expiry lots.
func (s *AlertService) AlertForProduct(productID string) *domain.AlertRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.alerts[productID]; ok {
		return &rec
	}
	return nil
}

// ProductAlerts lists active products matching the criteria, each with
// its alert descriptor.
func (s *AlertService) ProductAlerts(ctx context.Context, criteria domain.FilterCriteria) ([]*domain.ProductAlert, error) {
	products, err := s.products.GetAllActive(ctx)
	if err != nil {
		return nil, errors.Unavailable("product", err)
	}

	alerts := s.Alerts()
	filtered := domain.FilterProducts(products, alerts, criteria)
	return domain.BuildProductAlerts(filtered, alerts), nil
}

// ActiveAlerts lists display descriptors for the products that
// currently have an expired or near-expiry alert.
func (s *AlertService) ActiveAlerts(ctx context.Context) ([]*domain.ProductAlert, error) {
	all, err := s.ProductAlerts(ctx, domain.FilterCriteria{Alert: domain.FilterAll})
	if err != nil {
		return nil, err
	}

	out := make([]*domain.ProductAlert, 0, len(all))
	for _, pa := range all {
		if pa.Category != domain.CategoryNone {
			out = append(out, pa)
		}
	}
	return out, nil
}

// LotsForProduct lists a product's lots with their computed status
func (s *AlertService) LotsForProduct(ctx context.Context, productID string) ([]*LotView, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	lots, err := s.lots.ListByProduct(ctx, productID)
	if err != nil {
		return nil, errors.Unavailable("lot_store", err)
	}

	today := s.now()
	views := make([]*LotView, 0, len(lots))
	for _, lot := range lots {
		views = append(views, &LotView{
			Lot:    lot,
			Status: domain.Classify(lot, today, s.windowDays),
		})
	}
	return views, nil
}

// WriteOffsForProduct lists a product's write-off history
func (s *AlertService) WriteOffsForProduct(ctx context.Context, productID string) ([]*repository.WriteOff, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	writeOffs, err := s.lots.ListWriteOffsByProduct(ctx, productID)
	if err != nil {
		return nil, errors.Unavailable("lot_store", err)
	}
	return writeOffs, nil
}

// RetireLot writes off a lot and returns the product's refreshed lot
// list. A blank reason is rejected before the store is touched; store
// failures surface unchanged so the alert map keeps its last good
// state.
func (s *AlertService) RetireLot(ctx context.Context, lotID, reason string, note, performedBy *string) ([]*LotView, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		appErr := errors.Validation(map[string]string{"reason": "reason is required"})
		appErr.MessageKey = "errors.retire_reason_required"
		return nil, appErr
	}

	lot, err := s.lots.Retire(ctx, lotID, reason, note, performedBy)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("lot_id", lot.ID).
		Str("product_id", lot.ProductID).
		Str("reason", reason).
		Msg("lot written off")

	s.publisher.PublishLotRetired(ctx, lot, performedBy)

	// the write-off is committed; a failed refresh only delays the
	// alert update until the next scheduled run
	if err := s.RefreshAlerts(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("alert refresh after write-off failed")
	}

	return s.LotsForProduct(ctx, lot.ProductID)
}
