package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// ShippingAddress travels inside order creation bodies.
type ShippingAddress struct {
	Details string `json:"details"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
}

type orderRequest struct {
	ShippingAddress ShippingAddress `json:"shippingAddress"`
}

// CreateCashOrder turns a cart into a cash-on-delivery order.
func (c *Client) CreateCashOrder(ctx context.Context, token, cartID string, shipping ShippingAddress) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "orders/"+cartID, token, orderRequest{ShippingAddress: shipping}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCheckoutSession starts a hosted card payment. returnURL is where
// the payment provider sends the browser afterwards.
func (c *Client) CreateCheckoutSession(ctx context.Context, token, cartID, returnURL string, shipping ShippingAddress) (json.RawMessage, error) {
	path := "orders/checkout-session/" + cartID + "?url=" + url.QueryEscape(returnURL)
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, path, token, orderRequest{ShippingAddress: shipping}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUserOrders lists the orders placed by a user.
func (c *Client) GetUserOrders(ctx context.Context, token, userID string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "orders/user/"+userID, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
