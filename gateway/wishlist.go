package gateway

import (
	"context"
	"encoding/json"
	"net/http"
)

// AddToWishlist saves a product on the user's wishlist.
func (c *Client) AddToWishlist(ctx context.Context, token, productID string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "wishlist", token, cartItemRequest{ProductID: productID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetWishlist fetches the user's wishlist.
func (c *Client) GetWishlist(ctx context.Context, token string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "wishlist", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveFromWishlist drops a product from the wishlist.
func (c *Client) RemoveFromWishlist(ctx context.Context, token, productID string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodDelete, "wishlist/"+productID, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
