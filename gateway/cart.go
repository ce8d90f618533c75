package gateway

import (
	"context"
	"encoding/json"
	"net/http"
)

type cartItemRequest struct {
	ProductID string `json:"productId"`
}

type cartCountRequest struct {
	Count int `json:"count"`
}

// AddToCart puts a product in the user's cart and relays the upstream
// payload untouched, the SPA renders it directly.
func (c *Client) AddToCart(ctx context.Context, token, productID string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "cart", token, cartItemRequest{ProductID: productID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCart fetches the user's cart.
func (c *Client) GetCart(ctx context.Context, token string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "cart", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateCartItem sets the quantity of a cart line.
func (c *Client) UpdateCartItem(ctx context.Context, token, itemID string, count int) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPut, "cart/"+itemID, token, cartCountRequest{Count: count}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveCartItem drops a line from the cart.
func (c *Client) RemoveCartItem(ctx context.Context, token, itemID string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodDelete, "cart/"+itemID, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ClearCart empties the cart.
func (c *Client) ClearCart(ctx context.Context, token string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodDelete, "cart", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
