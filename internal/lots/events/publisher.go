package events

import (
	"context"
	"time"

	"github.com/vencia/vencia-backend/internal/lots/domain"
	"github.com/vencia/vencia-backend/pkg/logger"
	"github.com/vencia/vencia-backend/pkg/messaging"
)

// LotEventPublisher publishes lot lifecycle events. A nil publisher is
// valid and drops events, so the service keeps working when RabbitMQ
// is not configured.
type LotEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewLotEventPublisher creates a new lot event publisher
func NewLotEventPublisher(publisher *messaging.Publisher, log *logger.Logger) *LotEventPublisher {
	return &LotEventPublisher{
		publisher: publisher,
		logger:    log,
	}
}

// PublishLotRetired publishes a lot retired event
func (p *LotEventPublisher) PublishLotRetired(ctx context.Context, lot *domain.Lot, retiredBy *string) {
	if p == nil || p.publisher == nil {
		return
	}

	event := messaging.LotRetiredEvent{
		LotID:     lot.ID,
		LotNumber: lot.LotNumber,
		ProductID: lot.ProductID,
		Reason:    deref(lot.RetireReason),
		Note:      deref(lot.RetireNote),
		RetiredBy: deref(retiredBy),
	}

	if err := p.publisher.Publish(ctx, messaging.EventLotRetired, event); err != nil {
		// publishing is best-effort; the write-off is already committed
		p.logger.Error().Err(err).
			Str("lot_id", lot.ID).
			Msg("failed to publish lot retired event")
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PublishAlertsRefreshed publishes an alerts refreshed event
func (p *LotEventPublisher) PublishAlertsRefreshed(ctx context.Context, productsWithAlerts, expiredLots, nearExpiryLots int, refreshedAt time.Time) {
	if p == nil || p.publisher == nil {
		return
	}

	event := messaging.AlertsRefreshedEvent{
		ProductsWithAlerts: productsWithAlerts,
		ExpiredLots:        expiredLots,
		NearExpiryLots:     nearExpiryLots,
		RefreshedAt:        refreshedAt,
	}

	if err := p.publisher.Publish(ctx, messaging.EventAlertsRefreshed, event); err != nil {
		p.logger.Error().Err(err).Msg("failed to publish alerts refreshed event")
	}
}
