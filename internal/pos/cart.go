// Package pos implements the point-of-sale cart used by the CLI sell
// commands. The cart is an in-memory working set; pricing and checkout
// are delegated to the backend so stock and discounts stay authoritative.
package pos

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/amanf244/mars4/internal/api"
)

var ErrEmptyCart = errors.New("cart is empty")

// CartItem is one line in the working cart
type CartItem struct {
	SKU      string
	Quantity int
}

// Cart accumulates sale lines before pricing or checkout
type Cart struct {
	mu              sync.Mutex
	items           []CartItem
	technicianPrice bool
	technicianID    *int64
}

func NewCart() *Cart {
	return &Cart{}
}

// AddItem adds quantity of a SKU, merging with an existing line
func (c *Cart) AddItem(sku string, quantity int) {
	sku = strings.TrimSpace(sku)
	if sku == "" || quantity <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].SKU == sku {
			c.items[i].Quantity += quantity
			return
		}
	}
	c.items = append(c.items, CartItem{SKU: sku, Quantity: quantity})
}

// SetQuantity replaces a line's quantity; zero or less removes the line
func (c *Cart) SetQuantity(sku string, quantity int) {
	sku = strings.TrimSpace(sku)

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].SKU != sku {
			continue
		}
		if quantity <= 0 {
			c.items = append(c.items[:i], c.items[i+1:]...)
		} else {
			c.items[i].Quantity = quantity
		}
		return
	}
	if quantity > 0 {
		c.items = append(c.items, CartItem{SKU: sku, Quantity: quantity})
	}
}

// RemoveItem drops a line from the cart
func (c *Cart) RemoveItem(sku string) {
	c.SetQuantity(sku, 0)
}

// Clear empties the cart and resets the pricing mode
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.technicianPrice = false
	c.technicianID = nil
}

// Items returns a copy of the current cart lines
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// SetTechnicianPrice switches the cart to technician pricing, optionally
// attributing the sale to a technician account.
func (c *Cart) SetTechnicianPrice(enabled bool, technicianID *int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.technicianPrice = enabled
	c.technicianID = technicianID
}

func (c *Cart) TechnicianPrice() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.technicianPrice
}

// snapshot converts the cart into request lines under the lock
func (c *Cart) snapshot() ([]api.SaleItemRequest, bool, *int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]api.SaleItemRequest, len(c.items))
	for i, item := range c.items {
		lines[i] = api.SaleItemRequest{SKU: item.SKU, Quantity: item.Quantity}
	}
	return lines, c.technicianPrice, c.technicianID
}

// Quote prices the current cart against the backend without committing it
func (c *Cart) Quote(ctx context.Context, client *api.Client) (*api.CartPriceResponse, error) {
	lines, techPrice, techID := c.snapshot()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	return client.PriceCart(ctx, api.CartPriceRequest{
		Items:              lines,
		UseTechnicianPrice: techPrice,
		TechnicianID:       techID,
	})
}

// Checkout finalizes the sale. The cart is cleared only on success so a
// failed checkout can be retried or amended.
func (c *Cart) Checkout(ctx context.Context, client *api.Client) (*api.SaleResponse, error) {
	lines, techPrice, techID := c.snapshot()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	sale, err := client.CreateSale(ctx, api.SaleRequest{
		Items:              lines,
		UseTechnicianPrice: techPrice,
		TechnicianID:       techID,
	})
	if err != nil {
		return nil, err
	}

	c.Clear()
	return sale, nil
}
