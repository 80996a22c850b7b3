// Package mockapi is a development stand-in for the hosted /app backend.
// It speaks the same wire format (paths, Portuguese field names, bearer
// auth, error bodies) so the storefront client can run against it
// unchanged.
package mockapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/example/loja-storefront/internal/mockapi/store"
)

// Server carries the handlers' dependencies.
type Server struct {
	store    store.Store
	jwt      *JWTService
	notifier *Notifier // optional
}

func NewServer(st store.Store, jwtService *JWTService, notifier *Notifier) *Server {
	return &Server{store: st, jwt: jwtService, notifier: notifier}
}

// ============================================
// Auth
// ============================================

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Usuario string `json:"usuario"`
		Senha   string `json:"senha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	user, err := s.store.GetUser(r.Context(), req.Usuario)
	if err != nil || !CheckPassword(req.Senha, user.PasswordHash) {
		respondError(w, http.StatusBadRequest, "usuário ou senha inválidos")
		return
	}

	token, err := s.jwt.Generate(user.Usuario, user.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "falha ao gerar token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Usuario  string `json:"usuario"`
		Senha    string `json:"senha"`
		Confirma string `json:"confirma"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	req.Usuario = strings.TrimSpace(req.Usuario)
	if req.Usuario == "" {
		respondError(w, http.StatusBadRequest, "usuário é obrigatório")
		return
	}
	if req.Senha != req.Confirma {
		respondError(w, http.StatusBadRequest, "as senhas não conferem")
		return
	}

	hash, err := HashPassword(req.Senha)
	if err != nil {
		respondError(w, http.StatusBadRequest, "senha muito curta")
		return
	}

	user := store.User{Usuario: req.Usuario, PasswordHash: hash, Role: "user"}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			respondError(w, http.StatusBadRequest, "usuário já cadastrado")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"usuario": user.Usuario})
}

// ============================================
// Products
// ============================================

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	usuario := chi.URLParam(r, "usuario")

	products, err := s.store.ListProducts(r.Context(), usuario)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if products == nil {
		products = []store.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

type productRequest struct {
	ID         string   `json:"id"`
	Nome       string   `json:"nome"`
	Preco      float64  `json:"preco"`
	Quantidade int      `json:"quantidade"`
	Categoria  string   `json:"categoria"`
	Descricao  string   `json:"descricao"`
	Imagem     string   `json:"imagem"`
	Tamanhos   []string `json:"tamanhos"`
}

func (req productRequest) toProduct(usuario string) store.Product {
	return store.Product{
		ID:         req.ID,
		Usuario:    usuario,
		Nome:       req.Nome,
		Preco:      req.Preco,
		Quantidade: req.Quantidade,
		Categoria:  req.Categoria,
		Descricao:  req.Descricao,
		Imagem:     req.Imagem,
		Tamanhos:   req.Tamanhos,
	}
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if strings.TrimSpace(req.Nome) == "" {
		respondError(w, http.StatusBadRequest, "nome é obrigatório")
		return
	}

	req.ID = uuid.NewString()
	p := req.toProduct(claimsFrom(r).Usuario)
	if err := s.store.CreateProduct(r.Context(), p); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if req.ID == "" {
		respondError(w, http.StatusBadRequest, "id é obrigatório")
		return
	}

	p := req.toProduct(claimsFrom(r).Usuario)
	if err := s.store.UpdateProduct(r.Context(), p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "produto não encontrado")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		respondError(w, http.StatusBadRequest, "id é obrigatório")
		return
	}

	if err := s.store.DeleteProduct(r.Context(), req.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "produto não encontrado")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "produto removido"})
}

// ============================================
// Categories
// ============================================

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if categories == nil {
		categories = []store.Category{}
	}
	respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nome string `json:"nome"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Nome) == "" {
		respondError(w, http.StatusBadRequest, "nome é obrigatório")
		return
	}

	c := store.Category{ID: uuid.NewString(), Nome: req.Nome}
	if err := s.store.CreateCategory(r.Context(), c); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Nome string `json:"nome"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		respondError(w, http.StatusBadRequest, "id é obrigatório")
		return
	}

	c := store.Category{ID: req.ID, Nome: req.Nome}
	if err := s.store.UpdateCategory(r.Context(), c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "categoria não encontrada")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		respondError(w, http.StatusBadRequest, "id é obrigatório")
		return
	}

	if err := s.store.DeleteCategory(r.Context(), req.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "categoria não encontrada")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "categoria removida"})
}

// ============================================
// Sales
// ============================================

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	var sale store.Sale
	if err := json.NewDecoder(r.Body).Decode(&sale); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if strings.TrimSpace(sale.NomeCliente) == "" {
		respondError(w, http.StatusBadRequest, "nomeCliente é obrigatório")
		return
	}
	if len(sale.Produtos) == 0 {
		respondError(w, http.StatusBadRequest, "venda sem produtos")
		return
	}

	sale.ID = uuid.NewString()
	if sale.Data == "" {
		sale.Data = time.Now().Format("2006-01-02")
	}

	if err := s.store.CreateSale(r.Context(), sale); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Reflect the sale in the stock counts. A line naming an unknown
	// product is tolerated; the sale record is the source of truth.
	for _, item := range sale.Produtos {
		err := s.store.AdjustStock(r.Context(), sale.Usuario, item.Nome, -item.Quantidade)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Printf("[MockAPI] Failed to adjust stock for %q: %v", item.Nome, err)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.SaleCreated(r.Context(), sale); err != nil {
			log.Printf("[MockAPI] Failed to publish sale event: %v", err)
		}
	}

	respondJSON(w, http.StatusOK, sale)
}

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := s.store.ListSales(r.Context(), claimsFrom(r).Usuario)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sales == nil {
		sales = []store.Sale{}
	}
	respondJSON(w, http.StatusOK, sales)
}

func (s *Server) handleGetSale(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sale, err := s.store.GetSale(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "venda não encontrada")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sale)
}
