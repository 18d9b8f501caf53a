package messaging

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types
const (
	// Lot events
	EventLotRetired      = "lots.lot.retired"
	EventAlertsRefreshed = "lots.alerts.refreshed"
)

// Exchange names
const (
	ExchangeLotEvents = "lots.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// LotRetiredEvent is published when a lot is written off
type LotRetiredEvent struct {
	LotID     string `json:"lot_id"`
	LotNumber string `json:"lot_number"`
	ProductID string `json:"product_id"`
	Reason    string `json:"reason"`
	Note      string `json:"note,omitempty"`
	RetiredBy string `json:"retired_by,omitempty"`
}

// AlertsRefreshedEvent is published after a successful alert recomputation
type AlertsRefreshedEvent struct {
	ProductsWithAlerts int       `json:"products_with_alerts"`
	ExpiredLots        int       `json:"expired_lots"`
	NearExpiryLots     int       `json:"near_expiry_lots"`
	RefreshedAt        time.Time `json:"refreshed_at"`
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), time.Now().Nanosecond()%10000)
}
