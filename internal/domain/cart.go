package domain

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CartItem is one product line in a cart.
type CartItem struct {
	Product         Product         `json:"product"`
	Quantity        int             `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
}

// LineTotal is price * quantity less the line discount.
func (i CartItem) LineTotal() decimal.Decimal {
	subtotal := i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
	if i.DiscountPercent.IsZero() {
		return subtotal
	}
	discount := subtotal.Mul(i.DiscountPercent).Div(hundred)
	return subtotal.Sub(discount)
}

// Cart is the derived view of one user's cart rows, keyed by product id.
type Cart struct {
	Items map[int]*CartItem `json:"items"`
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{Items: make(map[int]*CartItem)}
}

// Add puts an item into the cart, replacing any line for the same product.
func (c *Cart) Add(item *CartItem) {
	if c.Items == nil {
		c.Items = make(map[int]*CartItem)
	}
	c.Items[item.Product.ID] = item
}

// Contains reports whether the cart has a line for productID.
func (c *Cart) Contains(productID int) bool {
	_, ok := c.Items[productID]
	return ok
}

// Get returns the line for productID, or nil.
func (c *Cart) Get(productID int) *CartItem {
	return c.Items[productID]
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total sums the line totals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
