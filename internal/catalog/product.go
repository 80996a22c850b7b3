// Package catalog defines the canonical product shape and adapts the
// backend's loosely-typed payloads to it at the boundary. Field-name
// ambiguity (imagem vs imageUrl, quantidade vs quantity, string vs
// numeric preco) never leaves this package.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidPrice = errors.New("price is not numeric")

// Product is the canonical product used by the rest of the client.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Stock       int
	Category    string
	Description string
	Image       string
	Sizes       []string
}

// wireProduct accepts every field spelling observed from the backend.
type wireProduct struct {
	ID         string          `json:"_id"`
	AltID      string          `json:"id"`
	Nome       string          `json:"nome"`
	Name       string          `json:"name"`
	Preco      json.RawMessage `json:"preco"`
	Price      json.RawMessage `json:"price"`
	Quantidade json.RawMessage `json:"quantidade"`
	Quantity   json.RawMessage `json:"quantity"`
	Categoria  string          `json:"categoria"`
	Descricao  string          `json:"descricao"`
	Imagem     string          `json:"imagem"`
	ImageURL   string          `json:"imageUrl"`
	Tamanhos   []string        `json:"tamanhos"`
}

// DecodeProducts parses a backend product array into canonical Products.
func DecodeProducts(data []byte) ([]Product, error) {
	var wire []wireProduct
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode product list: %w", err)
	}

	products := make([]Product, 0, len(wire))
	for _, w := range wire {
		p, err := w.canonical()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (w wireProduct) canonical() (Product, error) {
	p := Product{
		ID:          firstNonEmpty(w.ID, w.AltID),
		Name:        firstNonEmpty(w.Nome, w.Name),
		Category:    w.Categoria,
		Description: w.Descricao,
		Image:       firstNonEmpty(w.Imagem, w.ImageURL),
		Sizes:       w.Tamanhos,
	}

	price, err := parseRawPrice(firstNonEmptyRaw(w.Preco, w.Price))
	if err != nil {
		return Product{}, fmt.Errorf("product %q: %w", p.ID, err)
	}
	p.Price = price

	p.Stock = parseRawInt(firstNonEmptyRaw(w.Quantidade, w.Quantity))
	return p, nil
}

// ParsePrice normalizes a possibly currency-formatted price string to a
// decimal. Accepts "49.90", "49,90" and "R$ 49,90". Non-numeric input is
// rejected rather than silently producing garbage.
func ParsePrice(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "R$")
	clean = strings.TrimSpace(clean)

	// Brazilian format uses the comma as the decimal separator.
	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	if clean == "" {
		return decimal.Zero, ErrInvalidPrice
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	return d, nil
}

// parseRawPrice handles the price arriving either as a JSON number or as
// a (possibly formatted) JSON string. An absent price is zero.
func parseRawPrice(raw json.RawMessage) (decimal.Decimal, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return decimal.Zero, nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return ParsePrice(asString)
	}

	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return ParsePrice(asNumber.String())
	}
	return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidPrice, string(raw))
}

// parseRawInt tolerates stock counts sent as numbers or numeric strings.
// Anything unparseable counts as zero stock.
func parseRawInt(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		var v int
		if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &v); err == nil {
			return v
		}
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptyRaw(values ...json.RawMessage) json.RawMessage {
	for _, v := range values {
		if len(v) > 0 && string(v) != "null" {
			return v
		}
	}
	return nil
}
