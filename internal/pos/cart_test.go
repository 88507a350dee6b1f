package pos

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanf244/mars4/internal/api"
)

func TestAddItemMergesLines(t *testing.T) {
	cart := NewCart()
	cart.AddItem("SCR-IP13-A", 1)
	cart.AddItem("BAT-IP13", 2)
	cart.AddItem(" SCR-IP13-A ", 3)

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, CartItem{SKU: "SCR-IP13-A", Quantity: 4}, items[0])
	assert.Equal(t, CartItem{SKU: "BAT-IP13", Quantity: 2}, items[1])
}

func TestAddItemIgnoresInvalidInput(t *testing.T) {
	cart := NewCart()
	cart.AddItem("", 1)
	cart.AddItem("  ", 5)
	cart.AddItem("SKU-1", 0)
	cart.AddItem("SKU-1", -3)

	assert.Empty(t, cart.Items())
}

func TestSetQuantity(t *testing.T) {
	cart := NewCart()
	cart.AddItem("SKU-1", 2)

	cart.SetQuantity("SKU-1", 7)
	assert.Equal(t, 7, cart.Items()[0].Quantity)

	// Zero removes the line
	cart.SetQuantity("SKU-1", 0)
	assert.Empty(t, cart.Items())

	// Setting a quantity on an absent SKU adds it
	cart.SetQuantity("SKU-2", 3)
	require.Len(t, cart.Items(), 1)
	assert.Equal(t, "SKU-2", cart.Items()[0].SKU)
}

func TestRemoveAndClear(t *testing.T) {
	cart := NewCart()
	cart.AddItem("SKU-1", 1)
	cart.AddItem("SKU-2", 1)
	cart.SetTechnicianPrice(true, nil)

	cart.RemoveItem("SKU-1")
	require.Len(t, cart.Items(), 1)

	cart.Clear()
	assert.Empty(t, cart.Items())
	assert.False(t, cart.TechnicianPrice())
}

func TestItemsReturnsACopy(t *testing.T) {
	cart := NewCart()
	cart.AddItem("SKU-1", 1)

	items := cart.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, cart.Items()[0].Quantity)
}

func newPOSBackend(t *testing.T, saleFails bool) (*api.Client, *api.CartPriceRequest, *api.SaleRequest) {
	t.Helper()

	var lastPrice api.CartPriceRequest
	var lastSale api.SaleRequest

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/pos/cart/price", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&lastPrice)
		_ = json.NewEncoder(w).Encode(api.CartPriceResponse{
			SubtotalRetail:    100,
			SubtotalActual:    80,
			Discount:          20,
			IsTechnicianPrice: lastPrice.UseTechnicianPrice,
		})
	})
	mux.HandleFunc("POST /api/v1/pos/sales", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&lastSale)
		if saleFails {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "insufficient stock"})
			return
		}
		_ = json.NewEncoder(w).Encode(api.SaleResponse{ID: 42, Total: 80})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return api.New(srv.URL), &lastPrice, &lastSale
}

func TestQuoteSendsCartLines(t *testing.T) {
	client, lastPrice, _ := newPOSBackend(t, false)

	cart := NewCart()
	cart.AddItem("SCR-IP13-A", 2)
	techID := int64(9)
	cart.SetTechnicianPrice(true, &techID)

	quote, err := cart.Quote(context.Background(), client)
	require.NoError(t, err)

	assert.True(t, quote.IsTechnicianPrice)
	require.Len(t, lastPrice.Items, 1)
	assert.Equal(t, api.SaleItemRequest{SKU: "SCR-IP13-A", Quantity: 2}, lastPrice.Items[0])
	require.NotNil(t, lastPrice.TechnicianID)
	assert.Equal(t, int64(9), *lastPrice.TechnicianID)

	// Quoting never empties the cart
	assert.Len(t, cart.Items(), 1)
}

func TestQuoteEmptyCart(t *testing.T) {
	client, _, _ := newPOSBackend(t, false)

	_, err := NewCart().Quote(context.Background(), client)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutClearsCartOnSuccess(t *testing.T) {
	client, _, lastSale := newPOSBackend(t, false)

	cart := NewCart()
	cart.AddItem("SCR-IP13-A", 1)

	sale, err := cart.Checkout(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, int64(42), sale.ID)
	assert.Len(t, lastSale.Items, 1)
	assert.Empty(t, cart.Items(), "checkout must clear the cart")
}

func TestCheckoutKeepsCartOnFailure(t *testing.T) {
	client, _, _ := newPOSBackend(t, true)

	cart := NewCart()
	cart.AddItem("SCR-IP13-A", 1)

	_, err := cart.Checkout(context.Background(), client)
	require.Error(t, err)
	assert.Len(t, cart.Items(), 1, "a failed checkout must keep the cart intact")
}
