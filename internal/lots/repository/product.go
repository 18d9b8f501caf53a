package repository

import (
	"context"
	"database/sql"

	"github.com/vencia/vencia-backend/internal/lots/domain"
	"github.com/vencia/vencia-backend/pkg/database"
	"github.com/vencia/vencia-backend/pkg/errors"
)

// ProductRepository reads the product catalog. Products are owned by
// the catalog service; this side only needs them for alert views.
type ProductRepository struct {
	db *database.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *database.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `
	id, name, sale_price, purchase_price, stock, min_stock, unit,
	category_id, is_active, created_at, updated_at
`

// GetByID gets a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("product")
		}
		return nil, err
	}
	return &product, nil
}

// GetAllActive lists all active products ordered by name
func (r *ProductRepository) GetAllActive(ctx context.Context) ([]*domain.Product, error) {
	products := []*domain.Product{}
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE is_active = TRUE
		ORDER BY name
	`
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, err
	}
	return products, nil
}
