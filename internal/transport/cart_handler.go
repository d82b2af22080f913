package transport

import (
	"net/http"
	"strconv"

	"shopping-cart/internal/apperror"
	"shopping-cart/internal/domain"
	"shopping-cart/internal/middleware"
	"shopping-cart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UpdateQuantityRequest represents the PUT body. A missing quantity means 1.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"omitempty,gte=0,lte=2147483647"`
}

// CartItemResponse is one line of the cart payload
type CartItemResponse struct {
	Product         domain.Product  `json:"product"`
	Quantity        int             `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	LineTotal       decimal.Decimal `json:"lineTotal"`
}

// CartResponse represents the cart payload keyed by product id
type CartResponse struct {
	Items     map[int]CartItemResponse `json:"items"`
	ItemCount int                      `json:"itemCount"`
	Total     decimal.Decimal          `json:"total"`
}

// NewCartResponse converts a domain cart into its wire form.
func NewCartResponse(cart *domain.Cart) CartResponse {
	resp := CartResponse{
		Items: make(map[int]CartItemResponse),
		Total: decimal.Zero,
	}
	if cart == nil {
		return resp
	}

	for id, item := range cart.Items {
		resp.Items[id] = CartItemResponse{
			Product:         item.Product,
			Quantity:        item.Quantity,
			DiscountPercent: item.DiscountPercent,
			LineTotal:       item.LineTotal(),
		}
		resp.ItemCount += item.Quantity
	}
	resp.Total = cart.Total()

	return resp
}

// CartHandler handles HTTP requests for cart operations
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers the cart routes. Every route runs behind the given
// middlewares, the first of which must be the auth middleware.
func (h *CartHandler) RegisterRoutes(r chi.Router, middlewares ...func(http.Handler) http.Handler) {
	r.Route("/cart", func(r chi.Router) {
		r.Use(middlewares...)

		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)

		r.Route("/products/{productId}", func(r chi.Router) {
			r.Post("/", h.AddProduct)
			r.Put("/", h.UpdateItem)
			r.Delete("/", h.RemoveProduct)
		})
	})
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	username, ok := h.username(w, r)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(r.Context(), username)
	h.respond(w, r, service.OpGetCart, cart, err)
}

// AddProduct handles POST /cart/products/{productId}
func (h *CartHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	username, ok := h.username(w, r)
	if !ok {
		return
	}

	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	cart, err := h.cartService.AddProduct(r.Context(), username, productID)
	h.respond(w, r, service.OpAddProduct, cart, err)
}

// UpdateItem handles PUT /cart/products/{productId}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	username, ok := h.username(w, r)
	if !ok {
		return
	}

	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := middleware.DecodeOptionalAndValidate(r, &req); err != nil {
		h.logger.Debug("Update cart item validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := h.cartService.UpdateItem(r.Context(), username, productID, quantity)
	h.respond(w, r, service.OpUpdateItem, cart, err)
}

// RemoveProduct handles DELETE /cart/products/{productId}
func (h *CartHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	username, ok := h.username(w, r)
	if !ok {
		return
	}

	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveProduct(r.Context(), username, productID)
	h.respond(w, r, service.OpRemoveProduct, cart, err)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	username, ok := h.username(w, r)
	if !ok {
		return
	}

	cart, err := h.cartService.ClearCart(r.Context(), username)
	h.respond(w, r, service.OpClearCart, cart, err)
}

func (h *CartHandler) username(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, ok := middleware.GetUsername(r.Context())
	if !ok {
		h.logger.Error("Username not found in context")
		middleware.RespondWithAppError(w, apperror.New(apperror.CodeNotAuthenticated, "User is not authenticated."))
		return "", false
	}
	return username, true
}

func (h *CartHandler) productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "productId")
	productID, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || productID <= 0 {
		h.logger.Debug("Invalid product id", zap.String("product_id", raw))
		middleware.RespondWithAppError(w, apperror.New(apperror.CodeInvalidInput, "Product id must be a positive integer."))
		return 0, false
	}
	return int(productID), true
}

func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, op string, cart *domain.Cart, err error) {
	if err != nil {
		code := apperror.CodeOf(err)
		fields := []zap.Field{
			zap.String("operation", op),
			zap.String("code", string(code)),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		}
		if apperror.MetadataFor(code).HTTPStatus >= http.StatusInternalServerError {
			h.logger.Error("Cart operation failed", fields...)
		} else {
			h.logger.Debug("Cart operation rejected", fields...)
		}

		middleware.RespondWithAppError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, NewCartResponse(cart))
}
