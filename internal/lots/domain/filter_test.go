package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vencia/vencia-backend/internal/lots/domain"
)

func testProducts() []*domain.Product {
	return []*domain.Product{
		{ID: "1", Name: "Paracetamol 500mg", Stock: 20, MinStock: 5},
		{ID: "2", Name: "Ibuprofeno 400mg", Stock: 3, MinStock: 10},
		{ID: "3", Name: "Alcohol en gel", Stock: 50, MinStock: 10},
		{ID: "4", Name: "Gasas estériles", Stock: 10, MinStock: 10},
	}
}

func testAlerts() map[string]domain.AlertRecord {
	return map[string]domain.AlertRecord{
		"1": {ProductID: "1", Category: domain.CategoryExpired, ExpiredCount: 2, ReferenceDate: "2024-01-01"},
		"2": {ProductID: "2", Category: domain.CategoryNearExpiry, NearExpiryCount: 1, ReferenceDate: "2024-02-01"},
	}
}

func TestFilterProducts_NameQuery(t *testing.T) {
	products := testProducts()

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"empty query matches all", "", []string{"1", "2", "3", "4"}},
		{"case-insensitive substring", "PARACETAMOL", []string{"1"}},
		{"partial match", "ol", []string{"1", "3"}},
		{"surrounding whitespace is ignored", "  gel  ", []string{"3"}},
		{"no match", "jarabe", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.FilterProducts(products, nil, domain.FilterCriteria{NameQuery: tt.query})
			assert.Equal(t, tt.wantIDs, ids(got))
		})
	}
}

func TestFilterProducts_AlertCategory(t *testing.T) {
	products := testProducts()
	alerts := testAlerts()

	tests := []struct {
		name    string
		filter  domain.AlertFilter
		wantIDs []string
	}{
		{"expired returns exactly the expired subset", domain.FilterExpired, []string{"1"}},
		{"near expiry", domain.FilterNearExpiry, []string{"2"}},
		{"none means absent from the alert map", domain.FilterNone, []string{"3", "4"}},
		{"low stock uses the product flag", domain.FilterLowStock, []string{"2", "4"}},
		{"all disables alert filtering", domain.FilterAll, []string{"1", "2", "3", "4"}},
		{"unset disables alert filtering", "", []string{"1", "2", "3", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.FilterProducts(products, alerts, domain.FilterCriteria{Alert: tt.filter})
			assert.Equal(t, tt.wantIDs, ids(got))
		})
	}
}

func TestFilterProducts_Conjunctive(t *testing.T) {
	products := testProducts()
	alerts := testAlerts()

	// "ol" matches products 1 and 3; only 1 is expired.
	got := domain.FilterProducts(products, alerts, domain.FilterCriteria{
		NameQuery: "ol",
		Alert:     domain.FilterExpired,
	})
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestFilterProducts_SourceUntouched(t *testing.T) {
	products := testProducts()

	domain.FilterProducts(products, testAlerts(), domain.FilterCriteria{NameQuery: "gel"})
	domain.FilterProducts(products, testAlerts(), domain.FilterCriteria{Alert: domain.FilterExpired})

	assert.Len(t, products, 4, "filtering must not be destructive")
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(products))
}

func TestBuildProductAlerts(t *testing.T) {
	products := testProducts()
	alerts := testAlerts()

	views := domain.BuildProductAlerts(products, alerts)
	require.Len(t, views, 4)

	assert.Equal(t, domain.CategoryExpired, views[0].Category)
	assert.Equal(t, 2, views[0].TotalCount)
	assert.Equal(t, "2024-01-01", views[0].ReferenceDate)
	assert.Equal(t, domain.SeverityHigh, views[0].Severity)

	assert.Equal(t, domain.CategoryNearExpiry, views[1].Category)
	assert.Equal(t, domain.SeverityMedium, views[1].Severity)

	// No alert record: category none, no severity color
	assert.Equal(t, domain.CategoryNone, views[2].Category)
	assert.Zero(t, views[2].TotalCount)
	assert.Empty(t, views[2].Severity)
}

func TestSeverityFor(t *testing.T) {
	assert.Equal(t, domain.SeverityHigh, domain.SeverityFor(domain.CategoryExpired))
	assert.Equal(t, domain.SeverityMedium, domain.SeverityFor(domain.CategoryNearExpiry))
	assert.Empty(t, domain.SeverityFor(domain.CategoryNone))
}

func ids(products []*domain.Product) []string {
	if len(products) == 0 {
		return nil
	}
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
