package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// ParsePrice Tests
// ============================================

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain decimal", "49.90", "49.9"},
		{"comma decimal", "49,90", "49.9"},
		{"currency prefix", "R$ 49,90", "49.9"},
		{"currency prefix no space", "R$49,90", "49.9"},
		{"thousands separator", "1.234,56", "1234.56"},
		{"integer", "100", "100"},
		{"surrounding whitespace", "  19.90  ", "19.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParsePrice(tt.input)
			require.NoError(t, err)
			expected, _ := decimal.NewFromString(tt.expected)
			assert.True(t, d.Equal(expected), "got %s, want %s", d, expected)
		})
	}
}

func TestParsePrice_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "R$", "R$ abc", "12.3.4.5"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParsePrice(input)
			assert.ErrorIs(t, err, ErrInvalidPrice)
		})
	}
}

// ============================================
// DecodeProducts Tests
// ============================================

func TestDecodeProducts_CanonicalFields(t *testing.T) {
	payload := []byte(`[{
		"_id": "p1",
		"nome": "Camisa",
		"preco": "R$ 99,90",
		"quantidade": 5,
		"categoria": "roupas",
		"descricao": "Camisa oficial",
		"imagem": "https://img/camisa.png",
		"tamanhos": ["P", "M", "G"]
	}]`)

	products, err := DecodeProducts(payload)
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Camisa", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("99.90")))
	assert.Equal(t, 5, p.Stock)
	assert.Equal(t, "roupas", p.Category)
	assert.Equal(t, "https://img/camisa.png", p.Image)
	assert.Equal(t, []string{"P", "M", "G"}, p.Sizes)
}

func TestDecodeProducts_AlternateFieldSpellings(t *testing.T) {
	payload := []byte(`[{
		"id": "p2",
		"nome": "Tênis",
		"price": 250.5,
		"quantity": "3",
		"imageUrl": "https://img/tenis.png"
	}]`)

	products, err := DecodeProducts(payload)
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "p2", p.ID)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("250.5")))
	assert.Equal(t, 3, p.Stock)
	assert.Equal(t, "https://img/tenis.png", p.Image)
}

func TestDecodeProducts_PreferredSpellingWins(t *testing.T) {
	payload := []byte(`[{
		"_id": "canon",
		"id": "legacy",
		"nome": "Boné",
		"preco": 30,
		"imagem": "a.png",
		"imageUrl": "b.png"
	}]`)

	products, err := DecodeProducts(payload)
	require.NoError(t, err)
	assert.Equal(t, "canon", products[0].ID)
	assert.Equal(t, "a.png", products[0].Image)
}

func TestDecodeProducts_NonNumericPriceRejected(t *testing.T) {
	payload := []byte(`[{"_id": "p3", "nome": "Meia", "preco": "gratis"}]`)

	_, err := DecodeProducts(payload)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestDecodeProducts_MissingPriceIsZero(t *testing.T) {
	payload := []byte(`[{"_id": "p4", "nome": "Brinde"}]`)

	products, err := DecodeProducts(payload)
	require.NoError(t, err)
	assert.True(t, products[0].Price.IsZero())
}

func TestDecodeProducts_BadJSON(t *testing.T) {
	_, err := DecodeProducts([]byte(`{not an array`))
	assert.Error(t, err)
}
