package mockapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the /app surface. Login and registration are public;
// everything else requires a bearer token.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/app/login", s.handleLogin)
	r.Post("/app/registrar", s.handleRegister)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/app/produtos/{usuario}/", s.handleListProducts)
		r.Post("/app/produtos", s.handleCreateProduct)
		r.Put("/app/produtos", s.handleUpdateProduct)
		r.Delete("/app/produtos", s.handleDeleteProduct)

		r.Get("/app/categorias", s.handleListCategories)
		r.Post("/app/categorias", s.handleCreateCategory)
		r.Put("/app/categorias", s.handleUpdateCategory)
		r.Delete("/app/categorias", s.handleDeleteCategory)

		r.Post("/app/venda", s.handleCreateSale)
		r.Get("/app/venda", s.handleListSales)
		r.Get("/app/venda/{id}", s.handleGetSale)
	})

	return r
}
