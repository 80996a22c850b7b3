package apiclient

import (
	"context"
	"net/http"
)

// Category is a product category as the backend stores it.
type Category struct {
	ID   string `json:"_id"`
	Nome string `json:"nome"`
}

// Categories lists every category.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.do(ctx, http.MethodGet, "/app/categorias", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory creates a category (admin).
func (c *Client) CreateCategory(ctx context.Context, nome string) error {
	return c.do(ctx, http.MethodPost, "/app/categorias", map[string]string{"nome": nome}, nil)
}

// UpdateCategory renames a category by id (admin).
func (c *Client) UpdateCategory(ctx context.Context, id, nome string) error {
	body := map[string]string{"id": id, "nome": nome}
	return c.do(ctx, http.MethodPut, "/app/categorias", body, nil)
}

// DeleteCategory removes a category by id (admin).
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/app/categorias", map[string]string{"id": id}, nil)
}
