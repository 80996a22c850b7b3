package mockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/loja-storefront/internal/mockapi/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	jwtService := NewJWTService("test-secret-test-secret-test-secret", time.Hour)
	srv := httptest.NewServer(NewRouter(NewServer(st, jwtService, nil)))
	t.Cleanup(srv.Close)
	return srv, st
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func registerAndLogin(t *testing.T, srv *httptest.Server, usuario string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/app/registrar", "", map[string]string{
		"usuario": usuario, "senha": "s3cret1", "confirma": "s3cret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/app/login", "", map[string]string{
		"usuario": usuario, "senha": "s3cret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[map[string]string](t, resp)["token"]
}

// ============================================
// Auth Tests
// ============================================

func TestRegisterAndLogin(t *testing.T) {
	srv, _ := newTestServer(t)

	token := registerAndLogin(t, srv, "maria")
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPassword(t *testing.T) {
	srv, _ := newTestServer(t)
	registerAndLogin(t, srv, "maria")

	resp := doJSON(t, http.MethodPost, srv.URL+"/app/login", "", map[string]string{
		"usuario": "maria", "senha": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[map[string]string](t, resp)
	assert.Equal(t, "usuário ou senha inválidos", body["error"])
}

func TestRegister_PasswordMismatch(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/app/registrar", "", map[string]string{
		"usuario": "maria", "senha": "s3cret1", "confirma": "other",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegister_DuplicateUser(t *testing.T) {
	srv, _ := newTestServer(t)
	registerAndLogin(t, srv, "maria")

	resp := doJSON(t, http.MethodPost, srv.URL+"/app/registrar", "", map[string]string{
		"usuario": "maria", "senha": "s3cret1", "confirma": "s3cret1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/app/venda", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/app/produtos/maria/", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ============================================
// Product Tests
// ============================================

func TestProductCRUD(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "loja")

	resp := doJSON(t, http.MethodPost, srv.URL+"/app/produtos", token, map[string]any{
		"nome": "Camisa", "preco": 99.9, "quantidade": 10, "imagem": "a.png",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[store.Product](t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "loja", created.Usuario)

	resp = doJSON(t, http.MethodGet, srv.URL+"/app/produtos/loja/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decode[[]store.Product](t, resp)
	require.Len(t, listed, 1)
	assert.Equal(t, "Camisa", listed[0].Nome)

	resp = doJSON(t, http.MethodPut, srv.URL+"/app/produtos", token, map[string]any{
		"id": created.ID, "nome": "Camisa Oficial", "preco": 119.9, "quantidade": 8,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/app/produtos", token, map[string]string{
		"id": created.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/app/produtos/loja/", token, nil)
	assert.Empty(t, decode[[]store.Product](t, resp))
}

func TestUpdateProduct_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "loja")

	resp := doJSON(t, http.MethodPut, srv.URL+"/app/produtos", token, map[string]any{
		"id": "ghost", "nome": "Nada",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ============================================
// Category Tests
// ============================================

func TestCategoryCRUD(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "loja")

	resp := doJSON(t, http.MethodPost, srv.URL+"/app/categorias", token, map[string]string{
		"nome": "roupas",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[store.Category](t, resp)

	resp = doJSON(t, http.MethodPut, srv.URL+"/app/categorias", token, map[string]string{
		"id": created.ID, "nome": "vestuário",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/app/categorias", token, nil)
	listed := decode[[]store.Category](t, resp)
	require.Len(t, listed, 1)
	assert.Equal(t, "vestuário", listed[0].Nome)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/app/categorias", token, map[string]string{
		"id": created.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// ============================================
// Sale Tests
// ============================================

func TestCreateSale_RecordsAndDecrementsStock(t *testing.T) {
	srv, st := newTestServer(t)
	token := registerAndLogin(t, srv, "loja")

	resp := doJSON(t, http.MethodPost, srv.URL+"/app/produtos", token, map[string]any{
		"nome": "Camisa", "preco": 100.0, "quantidade": 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[store.Product](t, resp)

	resp = doJSON(t, http.MethodPost, srv.URL+"/app/venda", token, map[string]any{
		"nomeCliente":    "Maria Silva",
		"usuario":        "loja",
		"data":           "2026-08-31",
		"produtos":       []map[string]any{{"nome": "Camisa", "quantidade": 3, "preco": 100.0}},
		"formaPagamento": "pix",
		"cupom":          "corinthians",
		"desconto":       45.0,
		"total":          255.0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sale := decode[store.Sale](t, resp)
	assert.NotEmpty(t, sale.ID)

	// Stock reflects the sale.
	p, err := st.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, p.Quantidade)

	// Listing and detail agree.
	resp = doJSON(t, http.MethodGet, srv.URL+"/app/venda", token, nil)
	sales := decode[[]store.Sale](t, resp)
	require.Len(t, sales, 1)
	assert.Equal(t, "Maria Silva", sales[0].NomeCliente)

	resp = doJSON(t, http.MethodGet, srv.URL+"/app/venda/"+sale.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[store.Sale](t, resp)
	assert.Equal(t, sale.ID, got.ID)
	assert.Equal(t, 255.0, got.Total)
}

func TestCreateSale_MissingBuyerName(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "loja")

	resp := doJSON(t, http.MethodPost, srv.URL+"/app/venda", token, map[string]any{
		"usuario":  "loja",
		"produtos": []map[string]any{{"nome": "Camisa", "quantidade": 1, "preco": 10.0}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateSale_EmptyProducts(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "loja")

	resp := doJSON(t, http.MethodPost, srv.URL+"/app/venda", token, map[string]any{
		"nomeCliente": "Maria", "usuario": "loja", "produtos": []any{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetSale_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "loja")

	resp := doJSON(t, http.MethodGet, srv.URL+"/app/venda/ghost", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
