package domain

import (
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. The catalog is owned by another service;
// the cart only ever reads it.
type Product struct {
	ID          int             `json:"productId" db:"product_id"`
	Name        string          `json:"name" db:"name"`
	Price       decimal.Decimal `json:"price" db:"price"`
	CategoryID  int             `json:"categoryId" db:"category_id"`
	Description string          `json:"description" db:"description"`
	Color       string          `json:"color" db:"color"`
	ImageURL    string          `json:"imageUrl" db:"image_url"`
	Stock       int             `json:"stock" db:"stock"`
	Featured    bool            `json:"isFeatured" db:"featured"`
}

// Category represents a product category
type Category struct {
	ID          int    `json:"categoryId" db:"category_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}
