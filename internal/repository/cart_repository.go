package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"shopping-cart/internal/domain"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be between 0 and 2147483647")
)

const (
	fkCartUser    = "fk_shopping_cart_user"
	fkCartProduct = "fk_shopping_cart_product"
)

// CartRepository stores cart lines as (user_id, product_id, quantity) rows.
type CartRepository interface {
	GetByUserID(ctx context.Context, userID int) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID int) error
	UpdateItem(ctx context.Context, userID, productID, quantity int) error
	RemoveItem(ctx context.Context, userID, productID int) error
	Clear(ctx context.Context, userID int) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// GetByUserID joins the user's rows against the catalog. A user without rows
// gets an empty cart.
func (r *cartRepository) GetByUserID(ctx context.Context, userID int) (*domain.Cart, error) {
	query := `
		SELECT ` + productColumns + `, s.quantity
		FROM shopping_cart s
		JOIN products p ON p.product_id = s.product_id
		WHERE s.user_id = $1
		ORDER BY p.product_id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	cart := domain.NewCart()
	for rows.Next() {
		item := &domain.CartItem{}
		dest := append(productDest(&item.Product), &item.Quantity)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Add(item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return cart, nil
}

// AddItem inserts a line with quantity 1 or bumps an existing line by one.
// The increment happens inside a single statement so concurrent adds of the
// same product never lose an update.
func (r *cartRepository) AddItem(ctx context.Context, userID, productID int) error {
	query := `
		INSERT INTO shopping_cart (user_id, product_id, quantity)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = shopping_cart.quantity + 1
	`

	if _, err := r.db.ExecContext(ctx, query, userID, productID); err != nil {
		return r.translateWriteError(err, "failed to add cart item")
	}

	return nil
}

// UpdateItem sets the quantity of an existing line. Zero removes the line.
// Quantities must fit the INTEGER column.
func (r *cartRepository) UpdateItem(ctx context.Context, userID, productID, quantity int) error {
	if quantity < 0 || quantity > math.MaxInt32 {
		return ErrInvalidQuantity
	}

	var (
		result sql.Result
		err    error
	)
	if quantity == 0 {
		result, err = r.db.ExecContext(ctx,
			`DELETE FROM shopping_cart WHERE user_id = $1 AND product_id = $2`,
			userID, productID,
		)
	} else {
		result, err = r.db.ExecContext(ctx,
			`UPDATE shopping_cart SET quantity = $3 WHERE user_id = $1 AND product_id = $2`,
			userID, productID, quantity,
		)
	}
	if err != nil {
		return r.translateWriteError(err, "failed to update cart item")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// RemoveItem deletes one line. Removing a line that is not there is a no-op.
func (r *cartRepository) RemoveItem(ctx context.Context, userID, productID int) error {
	query := `DELETE FROM shopping_cart WHERE user_id = $1 AND product_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return nil
}

// Clear deletes every line for the user. Clearing an empty cart is a no-op.
func (r *cartRepository) Clear(ctx context.Context, userID int) error {
	query := `DELETE FROM shopping_cart WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

func (r *cartRepository) translateWriteError(err error, msg string) error {
	switch {
	case isConstraintViolation(err, sqlStateForeignKeyViolation, fkCartProduct):
		return ErrProductNotFound
	case isConstraintViolation(err, sqlStateForeignKeyViolation, fkCartUser):
		return ErrUserNotFound
	case isConstraintViolation(err, sqlStateCheckViolation, ""),
		isConstraintViolation(err, sqlStateNumericOutOfRange, ""):
		return ErrInvalidQuantity
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
