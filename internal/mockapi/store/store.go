// Package store holds the development backend's data. The interface is
// implemented by an in-memory map (default, used in tests) and by
// PostgreSQL for a setup that survives restarts.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrUserExists = errors.New("usuario already registered")
)

// User is a registered account. The password is stored as a bcrypt hash.
type User struct {
	Usuario      string `json:"usuario"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// Product mirrors the /app wire shape: the dev backend speaks exactly
// the hosted backend's field names.
type Product struct {
	ID         string   `json:"_id"`
	Usuario    string   `json:"usuario"`
	Nome       string   `json:"nome"`
	Preco      float64  `json:"preco"`
	Quantidade int      `json:"quantidade"`
	Categoria  string   `json:"categoria,omitempty"`
	Descricao  string   `json:"descricao,omitempty"`
	Imagem     string   `json:"imagem,omitempty"`
	Tamanhos   []string `json:"tamanhos,omitempty"`
}

type Category struct {
	ID   string `json:"_id"`
	Nome string `json:"nome"`
}

type SaleProduct struct {
	Nome       string  `json:"nome"`
	Quantidade int     `json:"quantidade"`
	Preco      float64 `json:"preco"`
	Imagem     string  `json:"imagem,omitempty"`
	Color      string  `json:"color,omitempty"`
	Size       string  `json:"size,omitempty"`
}

type Sale struct {
	ID             string        `json:"_id"`
	NomeCliente    string        `json:"nomeCliente"`
	Usuario        string        `json:"usuario"`
	Data           string        `json:"data"`
	Produtos       []SaleProduct `json:"produtos"`
	FormaPagamento string        `json:"formaPagamento"`
	Cupom          string        `json:"cupom"`
	Desconto       float64       `json:"desconto"`
	Total          float64       `json:"total"`
}

// Store is the dev backend's persistence boundary.
type Store interface {
	CreateUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, usuario string) (User, error)

	ListProducts(ctx context.Context, usuario string) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	CreateProduct(ctx context.Context, p Product) error
	UpdateProduct(ctx context.Context, p Product) error
	DeleteProduct(ctx context.Context, id string) error
	// AdjustStock shifts a product's quantity by delta (negative for a
	// sale), flooring at zero. Products are matched by owner and name,
	// which is how sale lines reference them.
	AdjustStock(ctx context.Context, usuario, nome string, delta int) error

	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c Category) error
	UpdateCategory(ctx context.Context, c Category) error
	DeleteCategory(ctx context.Context, id string) error

	CreateSale(ctx context.Context, s Sale) error
	ListSales(ctx context.Context, usuario string) ([]Sale, error)
	GetSale(ctx context.Context, id string) (Sale, error)
}
