package apiclient

import (
	"context"
	"net/http"
)

// SaleItem is one sold line as the backend expects it. Monetary values
// cross the wire as plain JSON numbers, already rounded for presentation.
type SaleItem struct {
	Nome       string  `json:"nome"`
	Quantidade int     `json:"quantidade"`
	Preco      float64 `json:"preco"`
	Imagem     string  `json:"imagem,omitempty"`
	Color      string  `json:"color,omitempty"`
	Size       string  `json:"size,omitempty"`
}

// SaleRequest is the order-creation payload for POST /app/venda. It is
// built once per checkout attempt and never mutated after submission.
type SaleRequest struct {
	NomeCliente    string     `json:"nomeCliente"`
	Usuario        string     `json:"usuario"`
	Data           string     `json:"data"`
	Produtos       []SaleItem `json:"produtos"`
	FormaPagamento string     `json:"formaPagamento"`
	Cupom          string     `json:"cupom"`
	Desconto       float64    `json:"desconto"`
	Total          float64    `json:"total"`
}

// SaleResponse carries the backend-generated sale id.
type SaleResponse struct {
	ID string `json:"_id"`
}

// Sale is a recorded sale as returned by the listing endpoints (admin).
type Sale struct {
	ID             string     `json:"_id"`
	NomeCliente    string     `json:"nomeCliente"`
	Usuario        string     `json:"usuario"`
	Data           string     `json:"data"`
	Produtos       []SaleItem `json:"produtos"`
	FormaPagamento string     `json:"formaPagamento"`
	Cupom          string     `json:"cupom"`
	Desconto       float64    `json:"desconto"`
	Total          float64    `json:"total"`
}

// CreateSale submits an order. This is the checkout orchestrator's single
// suspension point.
func (c *Client) CreateSale(ctx context.Context, req SaleRequest) (SaleResponse, error) {
	var resp SaleResponse
	if err := c.do(ctx, http.MethodPost, "/app/venda", req, &resp); err != nil {
		return SaleResponse{}, err
	}
	return resp, nil
}

// Sales lists every recorded sale (admin).
func (c *Client) Sales(ctx context.Context) ([]Sale, error) {
	var out []Sale
	if err := c.do(ctx, http.MethodGet, "/app/venda", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Sale fetches one sale by id (admin).
func (c *Client) Sale(ctx context.Context, id string) (Sale, error) {
	var out Sale
	if err := c.do(ctx, http.MethodGet, "/app/venda/"+id, nil, &out); err != nil {
		return Sale{}, err
	}
	return out, nil
}
