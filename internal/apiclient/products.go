package apiclient

import (
	"context"
	"net/http"

	"github.com/example/loja-storefront/internal/catalog"
)

// ProductInput carries the admin-editable product fields on the wire.
type ProductInput struct {
	ID         string   `json:"id,omitempty"`
	Nome       string   `json:"nome"`
	Preco      float64  `json:"preco"`
	Quantidade int      `json:"quantidade"`
	Categoria  string   `json:"categoria,omitempty"`
	Descricao  string   `json:"descricao,omitempty"`
	Imagem     string   `json:"imagem,omitempty"`
	Tamanhos   []string `json:"tamanhos,omitempty"`
}

// Products fetches the product listing for a store owner and adapts the
// duck-typed payload into canonical products at the boundary. Implements
// catalog.Lister.
func (c *Client) Products(ctx context.Context, usuario string) ([]catalog.Product, error) {
	var raw []byte
	if err := c.doRaw(ctx, http.MethodGet, "/app/produtos/"+usuario+"/", &raw); err != nil {
		return nil, err
	}
	return catalog.DecodeProducts(raw)
}

// CreateProduct creates a product (admin).
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) error {
	return c.do(ctx, http.MethodPost, "/app/produtos", in, nil)
}

// UpdateProduct updates a product by id (admin).
func (c *Client) UpdateProduct(ctx context.Context, in ProductInput) error {
	return c.do(ctx, http.MethodPut, "/app/produtos", in, nil)
}

// DeleteProduct removes a product by id (admin).
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	body := map[string]string{"id": id}
	return c.do(ctx, http.MethodDelete, "/app/produtos", body, nil)
}
