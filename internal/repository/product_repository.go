package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopping-cart/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// productColumns is shared by every query that materializes a domain.Product,
// including the cart join, so the scan order lives in one place.
const productColumns = `p.product_id, p.name, p.price, p.category_id, p.description,
		p.color, p.image_url, p.stock, p.featured`

// ProductRepository is a read view onto the externally owned catalog.
// Create exists for seeding.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id int) (*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a product and fills in the generated id
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, price, category_id, description, color, image_url, stock, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING product_id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Price,
		product.CategoryID,
		product.Description,
		product.Color,
		product.ImageURL,
		product.Stock,
		product.Featured,
	).Scan(&product.ID)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.product_id = $1`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(productDest(product)...)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// productDest returns scan destinations matching productColumns.
func productDest(p *domain.Product) []any {
	return []any{
		&p.ID,
		&p.Name,
		&p.Price,
		&p.CategoryID,
		&p.Description,
		&p.Color,
		&p.ImageURL,
		&p.Stock,
		&p.Featured,
	}
}
