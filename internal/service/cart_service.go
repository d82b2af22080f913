package service

import (
	"context"
	"errors"
	"math"

	"shopping-cart/internal/apperror"
	"shopping-cart/internal/domain"
	"shopping-cart/internal/metrics"
	"shopping-cart/internal/repository"
)

// Operation names used for metrics and error messages.
const (
	OpGetCart       = "get"
	OpAddProduct    = "add"
	OpUpdateItem    = "update"
	OpRemoveProduct = "remove"
	OpClearCart     = "clear"
)

var failureMessages = map[string]string{
	OpGetCart:       "Failed to retrieve cart.",
	OpAddProduct:    "Failed to add product to cart.",
	OpUpdateItem:    "Failed to update cart item.",
	OpRemoveProduct: "Failed to remove product from cart.",
	OpClearCart:     "Failed to clear cart.",
}

// CartService defines the interface for cart business logic. Every call
// returns the user's full cart as it stands after the operation.
type CartService interface {
	GetCart(ctx context.Context, username string) (*domain.Cart, error)
	AddProduct(ctx context.Context, username string, productID int) (*domain.Cart, error)
	UpdateItem(ctx context.Context, username string, productID, quantity int) (*domain.Cart, error)
	RemoveProduct(ctx context.Context, username string, productID int) (*domain.Cart, error)
	ClearCart(ctx context.Context, username string) (*domain.Cart, error)
}

type cartService struct {
	userRepo repository.UserRepository
	cartRepo repository.CartRepository
	metrics  *metrics.CartMetrics
}

// NewCartService creates a new instance of CartService. m may be nil.
func NewCartService(
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
	m *metrics.CartMetrics,
) CartService {
	return &cartService{
		userRepo: userRepo,
		cartRepo: cartRepo,
		metrics:  m,
	}
}

// GetCart returns the user's cart, empty if they have no lines.
func (s *cartService) GetCart(ctx context.Context, username string) (*domain.Cart, error) {
	return s.run(ctx, OpGetCart, username, nil)
}

// AddProduct adds one unit of productID to the cart.
func (s *cartService) AddProduct(ctx context.Context, username string, productID int) (*domain.Cart, error) {
	if err := validateProductID(productID); err != nil {
		return nil, s.reject(OpAddProduct, err)
	}

	return s.run(ctx, OpAddProduct, username, func(userID int) error {
		return s.cartRepo.AddItem(ctx, userID, productID)
	})
}

// UpdateItem sets the quantity of an existing line. Zero removes the line.
func (s *cartService) UpdateItem(ctx context.Context, username string, productID, quantity int) (*domain.Cart, error) {
	if err := validateProductID(productID); err != nil {
		return nil, s.reject(OpUpdateItem, err)
	}
	if quantity < 0 || quantity > math.MaxInt32 {
		return nil, s.reject(OpUpdateItem, apperror.New(apperror.CodeInvalidInput, invalidQuantityMessage))
	}

	return s.run(ctx, OpUpdateItem, username, func(userID int) error {
		return s.cartRepo.UpdateItem(ctx, userID, productID, quantity)
	})
}

// RemoveProduct drops the line for productID if present.
func (s *cartService) RemoveProduct(ctx context.Context, username string, productID int) (*domain.Cart, error) {
	if err := validateProductID(productID); err != nil {
		return nil, s.reject(OpRemoveProduct, err)
	}

	return s.run(ctx, OpRemoveProduct, username, func(userID int) error {
		return s.cartRepo.RemoveItem(ctx, userID, productID)
	})
}

// ClearCart removes every line from the cart.
func (s *cartService) ClearCart(ctx context.Context, username string) (*domain.Cart, error) {
	return s.run(ctx, OpClearCart, username, func(userID int) error {
		return s.cartRepo.Clear(ctx, userID)
	})
}

// run resolves the user, applies mutate (if any) and re-reads the cart.
func (s *cartService) run(ctx context.Context, op, username string, mutate func(userID int) error) (*domain.Cart, error) {
	user, err := s.resolveUser(ctx, username)
	if err != nil {
		return nil, s.reject(op, err)
	}

	if mutate != nil {
		if err := mutate(user.ID); err != nil {
			return nil, s.reject(op, translate(op, err))
		}
	}

	cart, err := s.cartRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, s.reject(op, translate(op, err))
	}

	s.metrics.Observe(op, "ok")
	return cart, nil
}

func (s *cartService) reject(op string, err error) error {
	s.metrics.Observe(op, string(apperror.CodeOf(err)))
	return err
}

const invalidQuantityMessage = "Quantity must be between 0 and 2147483647."

func validateProductID(productID int) error {
	if productID <= 0 || productID > math.MaxInt32 {
		return apperror.New(apperror.CodeInvalidInput, "Product id must be a positive integer.")
	}
	return nil
}

func (s *cartService) resolveUser(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, apperror.New(apperror.CodeNotAuthenticated, "User is not authenticated.")
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.Wrap(apperror.CodeNotAuthenticated, err, "User is not authenticated.")
		}
		return nil, apperror.Wrap(apperror.CodePersistenceUnavailable, err, "Failed to resolve user.")
	}

	return user, nil
}

// translate maps repository errors onto the public error kinds.
func translate(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		return apperror.Wrap(apperror.CodeNotFound, err, "Product not found.")
	case errors.Is(err, repository.ErrCartItemNotFound):
		return apperror.Wrap(apperror.CodeNotFound, err, "Product is not in the cart.")
	case errors.Is(err, repository.ErrUserNotFound):
		return apperror.Wrap(apperror.CodeNotAuthenticated, err, "User is not authenticated.")
	case errors.Is(err, repository.ErrInvalidQuantity):
		return apperror.Wrap(apperror.CodeInvalidInput, err, invalidQuantityMessage)
	case errors.Is(err, context.Canceled):
		return apperror.Wrap(apperror.CodeInternal, err, failureMessages[op])
	default:
		return apperror.Wrap(apperror.CodePersistenceUnavailable, err, failureMessages[op])
	}
}
