package domain

import "time"

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DateOnly strips the time-of-day and zone from t, keeping its civil
// calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Classify returns the temporal status of a single lot as of today.
//
// Order of precedence:
//  1. the store's IsExpired hint, when true, wins over date arithmetic
//  2. a lot with no expiry date never expires
//  3. expiry date on or before today is expired (the expiry day itself
//     already counts as expired, not "expires today")
//  4. the store's IsNearExpiry hint, when true
//  5. expiry date within windowDays of today is near-expiry
//
// A malformed expiry date classifies as active; Aggregate reports it as
// a diagnostic instead of failing the whole collection.
func Classify(lot *Lot, today time.Time, windowDays int) Status {
	if lot.IsExpired {
		return StatusExpired
	}
	if lot.ExpiryDate == nil {
		return StatusActive
	}

	expiry, err := ParseDate(*lot.ExpiryDate)
	if err != nil {
		return StatusActive
	}

	today = DateOnly(today)
	if !expiry.After(today) {
		return StatusExpired
	}

	if lot.IsNearExpiry {
		return StatusNearExpiry
	}

	limit := today.AddDate(0, 0, windowDays)
	if !expiry.After(limit) {
		return StatusNearExpiry
	}

	return StatusActive
}
