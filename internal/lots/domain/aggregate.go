package domain

import "time"

// counts accumulates per-product classification results. Reference date
// candidates are kept as YYYY-MM-DD strings; lexicographic comparison is
// chronological for that form.
type counts struct {
	expired       int
	nearExpiry    int
	latestExpired string
	earliestNear  string
}

// Aggregate folds a lot collection into one AlertRecord per product.
// Retired lots are skipped. A product with only active lots (or none) is
// absent from the result; absence is the "no alert" signal.
//
// When both expired and near-expiry lots exist for a product the
// category is expired, regardless of counts. The reference date is the
// latest expiry among expired lots (freshest bad news) or the earliest
// among near-expiry lots (soonest deadline).
//
// The second return value lists IDs of lots whose expiry date failed to
// parse; those lots count as active and the caller reports them once.
func Aggregate(lots []*Lot, today time.Time, windowDays int) (map[string]AlertRecord, []string) {
	groups := make(map[string]*counts)
	var invalid []string

	for _, lot := range lots {
		if lot.Retired {
			continue
		}

		if lot.ExpiryDate != nil {
			if _, err := ParseDate(*lot.ExpiryDate); err != nil {
				invalid = append(invalid, lot.ID)
			}
		}

		status := Classify(lot, today, windowDays)
		if status == StatusActive {
			continue
		}

		g := groups[lot.ProductID]
		if g == nil {
			g = &counts{}
			groups[lot.ProductID] = g
		}

		switch status {
		case StatusExpired:
			g.expired++
			// Hint-expired lots may carry no date; they count but
			// contribute no reference candidate.
			if d := validDate(lot.ExpiryDate); d != "" {
				if g.latestExpired == "" || d > g.latestExpired {
					g.latestExpired = d
				}
			}
		case StatusNearExpiry:
			g.nearExpiry++
			if d := validDate(lot.ExpiryDate); d != "" {
				if g.earliestNear == "" || d < g.earliestNear {
					g.earliestNear = d
				}
			}
		}
	}

	records := make(map[string]AlertRecord, len(groups))
	for productID, g := range groups {
		rec := AlertRecord{
			ProductID:       productID,
			ExpiredCount:    g.expired,
			NearExpiryCount: g.nearExpiry,
		}
		if g.expired > 0 {
			rec.Category = CategoryExpired
			rec.ReferenceDate = g.latestExpired
		} else {
			rec.Category = CategoryNearExpiry
			rec.ReferenceDate = g.earliestNear
		}
		records[productID] = rec
	}

	return records, invalid
}

func validDate(s *string) string {
	if s == nil {
		return ""
	}
	if _, err := ParseDate(*s); err != nil {
		return ""
	}
	return *s
}
