package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date form used for expiry dates everywhere:
// SQL, JSON and the classification logic. Dates carry no time-of-day or
// zone component so comparisons cannot shift across time zones.
const DateLayout = "2006-01-02"

// DefaultNearExpiryWindowDays is the lookahead window used when no
// window is configured.
const DefaultNearExpiryWindowDays = 15

// Status is the temporal classification of a single lot.
type Status string

const (
	StatusExpired    Status = "expired"
	StatusNearExpiry Status = "near_expiry"
	StatusActive     Status = "active"
)

// Category is the aggregated alert category of a product.
type Category string

const (
	CategoryExpired    Category = "expired"
	CategoryNearExpiry Category = "near_expiry"
	CategoryNone       Category = "none"
)

// Lot represents a discrete quantity of a product received in one stock
// entry. A retired lot stays in history but is excluded from alerting.
//
// IsExpired and IsNearExpiry are store-computed hints. When IsExpired is
// true it overrides date arithmetic; a false value means nothing and the
// date decides.
type Lot struct {
	ID           string     `db:"id" json:"id"`
	ProductID    string     `db:"product_id" json:"product_id"`
	LotNumber    string     `db:"lot_number" json:"lot_number"`
	ExpiryDate   *string    `db:"expiry_date" json:"expiry_date,omitempty"`
	ReceivedDate time.Time  `db:"received_date" json:"received_date"`
	Quantity     int        `db:"quantity" json:"quantity"`
	Retired      bool       `db:"retired" json:"retired"`
	RetireReason *string    `db:"retire_reason" json:"retire_reason,omitempty"`
	RetireNote   *string    `db:"retire_note" json:"retire_note,omitempty"`
	RetiredAt    *time.Time `db:"retired_at" json:"retired_at,omitempty"`
	IsExpired    bool       `db:"is_expired" json:"is_expired"`
	IsNearExpiry bool       `db:"is_near_expiry" json:"is_near_expiry"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Product is read-only to this package; it is created and maintained by
// the external product store.
type Product struct {
	ID            string          `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	SalePrice     decimal.Decimal `db:"sale_price" json:"sale_price"`
	PurchasePrice decimal.Decimal `db:"purchase_price" json:"purchase_price"`
	Stock         int             `db:"stock" json:"stock"`
	MinStock      int             `db:"min_stock" json:"min_stock"`
	Unit          string          `db:"unit" json:"unit"`
	CategoryID    *string         `db:"category_id" json:"category_id,omitempty"`
	IsActive      bool            `db:"is_active" json:"is_active"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// LowStock reports whether current stock has fallen to or below the
// minimum threshold. Independent of lots.
func (p *Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

// AlertRecord is the per-product aggregation result. It is a pure view
// over the current lot set and is never persisted.
//
// ReferenceDate is the latest expiry among expired lots, or the earliest
// among near-expiry lots, whichever category applies. It may be empty
// when every contributing lot was expired by store hint without a stored
// date.
type AlertRecord struct {
	ProductID       string   `json:"product_id"`
	Category        Category `json:"category"`
	ExpiredCount    int      `json:"expired_count"`
	NearExpiryCount int      `json:"near_expiry_count"`
	ReferenceDate   string   `json:"reference_date,omitempty"`
}
