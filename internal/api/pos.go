package api

import "context"

// SaleItemRequest is one cart line sent for pricing or checkout
type SaleItemRequest struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// CartPriceRequest asks the backend to price a cart
type CartPriceRequest struct {
	Items              []SaleItemRequest `json:"items"`
	UseTechnicianPrice bool              `json:"useTechnicianPrice,omitempty"`
	TechnicianID       *int64            `json:"technicianId,omitempty"`
}

// CartItemPrice is a priced cart line
type CartItemPrice struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

// CartPriceResponse is the backend's price quote for a cart
type CartPriceResponse struct {
	Items              []CartItemPrice `json:"items"`
	SubtotalRetail     float64         `json:"subtotalRetail"`
	SubtotalActual     float64         `json:"subtotalActual"`
	Discount           float64         `json:"discount"`
	IsTechnicianPrice  bool            `json:"isTechnicianPrice"`
}

// SaleRequest finalizes a sale
type SaleRequest struct {
	Items              []SaleItemRequest `json:"items"`
	UseTechnicianPrice bool              `json:"useTechnicianPrice,omitempty"`
	TechnicianID       *int64            `json:"technicianId,omitempty"`
}

// SaleLine is one finalized sale line including remaining stock
type SaleLine struct {
	SKU            string  `json:"sku"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unitPrice"`
	LineTotal      float64 `json:"lineTotal"`
	RemainingStock int     `json:"remainingStock"`
}

// SaleResponse is the completed sale receipt
type SaleResponse struct {
	ID             int64      `json:"id"`
	CreatedAt      string     `json:"createdAt"`
	CashierID      int64      `json:"cashierId"`
	CashierName    string     `json:"cashierName"`
	IsMemberPrice  bool       `json:"isMemberPrice"`
	TechnicianID   *int64     `json:"technicianId,omitempty"`
	TechnicianName *string    `json:"technicianName,omitempty"`
	Subtotal       float64    `json:"subtotal"`
	Discount       float64    `json:"discount"`
	Total          float64    `json:"total"`
	Items          []SaleLine `json:"items"`
}

// PriceCart asks the backend to price the given cart lines
func (c *Client) PriceCart(ctx context.Context, req CartPriceRequest) (*CartPriceResponse, error) {
	var resp CartPriceResponse
	if err := c.post(ctx, "/pos/cart/price", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateSale finalizes a sale and decrements stock
func (c *Client) CreateSale(ctx context.Context, req SaleRequest) (*SaleResponse, error) {
	var resp SaleResponse
	if err := c.post(ctx, "/pos/sales", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
