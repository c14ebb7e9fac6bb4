package staff

import (
	"encoding/json"
	"errors"

	"github.com/inventorypro/inventorypro-web/internal/api"
	"github.com/inventorypro/inventorypro-web/internal/shared"
)

// cartSessionKey stores the POS cart in the session between requests. The
// cart is ephemeral: it never reaches the inventory API until checkout.
const cartSessionKey = "pos_cart"

var (
	// ErrOutOfStock rejects adding a product with no stock on hand.
	ErrOutOfStock = errors.New("product out of stock")
	// ErrExceedsStock rejects a line quantity above last-known stock.
	ErrExceedsStock = errors.New("quantity exceeds available stock")
	// ErrNotInCart indicates the referenced line does not exist.
	ErrNotInCart = errors.New("product not in cart")
)

// CartLine is one product in the cart. Price and stock are snapshots of the
// product at the time it was added; the next inventory fetch is the only
// resynchronization point.
type CartLine struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Stock       int     `json:"stock"`
	Quantity    int     `json:"quantity"`
}

// Subtotal is the line's contribution to the cart total.
func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Cart holds the in-progress checkout. Every line quantity stays within
// [1, stock]; violating operations are rejected leaving the cart unchanged.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Add puts one unit of the product in the cart. An existing line is
// incremented unless that would exceed last-known stock.
func (c *Cart) Add(p api.Product) error {
	if p.Quantity <= 0 {
		return ErrOutOfStock
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID != p.ProductID {
			continue
		}
		if c.Lines[i].Quantity >= p.Quantity {
			return ErrExceedsStock
		}
		c.Lines[i].Quantity++
		c.Lines[i].Stock = p.Quantity
		return nil
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		UnitPrice:   p.ProductPrice,
		Stock:       p.Quantity,
		Quantity:    1,
	})
	return nil
}

// SetQuantity updates a line. A quantity of zero or less removes the line;
// a quantity above stock is rejected and leaves the line unchanged.
func (c *Cart) SetQuantity(productID int64, quantity int) error {
	for i := range c.Lines {
		if c.Lines[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			c.Remove(productID)
			return nil
		}
		if quantity > c.Lines[i].Stock {
			return ErrExceedsStock
		}
		c.Lines[i].Quantity = quantity
		return nil
	}
	return ErrNotInCart
}

// Remove drops the product's line, if present.
func (c *Cart) Remove(productID int64) {
	lines := c.Lines[:0]
	for _, line := range c.Lines {
		if line.ProductID != productID {
			lines = append(lines, line)
		}
	}
	c.Lines = lines
}

// Clear discards every line.
func (c *Cart) Clear() {
	c.Lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total is the sum of unit price times quantity over all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.Subtotal()
	}
	return total
}

// SaleItems builds the checkout payload. Unit prices come from the cart's
// cached snapshots, not re-validated against the server.
func (c *Cart) SaleItems() []api.SaleItem {
	items := make([]api.SaleItem, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, api.SaleItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return items
}

// loadCart reads the cart from the session, tolerating a missing or
// corrupted payload by starting fresh.
func loadCart(sess *shared.Session) *Cart {
	cart := &Cart{}
	if sess == nil {
		return cart
	}
	raw := sess.Get(cartSessionKey)
	if raw == "" {
		return cart
	}
	if err := json.Unmarshal([]byte(raw), cart); err != nil {
		return &Cart{}
	}
	return cart
}

// saveCart writes the cart back to the session.
func saveCart(sess *shared.Session, cart *Cart) {
	if sess == nil {
		return
	}
	if cart.IsEmpty() {
		sess.Delete(cartSessionKey)
		return
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return
	}
	sess.Set(cartSessionKey, string(data))
}
