package domain

// Severity levels exposed to the presentation layer
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// ProductAlert is the display-ready alert descriptor for one product.
type ProductAlert struct {
	Product       *Product `json:"product"`
	Category      Category `json:"category"`
	TotalCount    int      `json:"total_count"`
	ReferenceDate string   `json:"reference_date,omitempty"`
	Severity      string   `json:"severity,omitempty"`
}

// SeverityFor maps an alert category to its display severity.
func SeverityFor(c Category) string {
	switch c {
	case CategoryExpired:
		return SeverityHigh
	case CategoryNearExpiry:
		return SeverityMedium
	default:
		return ""
	}
}

// BuildProductAlerts projects the product list and alert map into
// descriptors, one per product in input order. Products without an alert
// record get CategoryNone. Pure projection; callers re-invoke after any
// upstream change.
func BuildProductAlerts(products []*Product, alerts map[string]AlertRecord) []*ProductAlert {
	out := make([]*ProductAlert, 0, len(products))
	for _, p := range products {
		pa := &ProductAlert{
			Product:  p,
			Category: CategoryNone,
		}
		if rec, ok := alerts[p.ID]; ok {
			pa.Category = rec.Category
			pa.TotalCount = rec.ExpiredCount + rec.NearExpiryCount
			pa.ReferenceDate = rec.ReferenceDate
			pa.Severity = SeverityFor(rec.Category)
		}
		out = append(out, pa)
	}
	return out
}
