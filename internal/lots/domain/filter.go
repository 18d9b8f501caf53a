package domain

import "strings"

// AlertFilter selects products by alert or stock condition.
type AlertFilter string

const (
	FilterAll        AlertFilter = "all"
	FilterExpired    AlertFilter = "expired"
	FilterNearExpiry AlertFilter = "near_expiry"
	FilterLowStock   AlertFilter = "low_stock"
	FilterNone       AlertFilter = "none"
)

// FilterCriteria are combinable product predicates. Both must hold for a
// product to pass.
type FilterCriteria struct {
	// NameQuery matches as a case-insensitive substring of the product
	// name; empty matches all.
	NameQuery string
	// Alert filters by alert category. FilterLowStock uses the
	// product's own stock flag, independent of lots. Empty or FilterAll
	// disables alert filtering.
	Alert AlertFilter
}

// FilterProducts evaluates the criteria over the full product list and
// returns the matching subset in input order. The source slice is never
// modified.
func FilterProducts(products []*Product, alerts map[string]AlertRecord, criteria FilterCriteria) []*Product {
	query := strings.ToLower(strings.TrimSpace(criteria.NameQuery))

	out := make([]*Product, 0, len(products))
	for _, p := range products {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		if !matchesAlert(p, alerts, criteria.Alert) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesAlert(p *Product, alerts map[string]AlertRecord, filter AlertFilter) bool {
	switch filter {
	case "", FilterAll:
		return true
	case FilterLowStock:
		return p.LowStock()
	case FilterNone:
		_, ok := alerts[p.ID]
		return !ok
	case FilterExpired:
		rec, ok := alerts[p.ID]
		return ok && rec.Category == CategoryExpired
	case FilterNearExpiry:
		rec, ok := alerts[p.ID]
		return ok && rec.Category == CategoryNearExpiry
	default:
		// Unknown values are rejected at the API boundary; treat as no
		// filter here.
		return true
	}
}
