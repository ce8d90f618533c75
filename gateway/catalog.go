package gateway

import (
	"context"
	"encoding/json"
	"net/http"
)

// Catalog endpoints are public, no token travels with them.

func (c *Client) GetProducts(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "products", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, productID string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "products/"+productID, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBrands(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "brands", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCategories(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "categories", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
