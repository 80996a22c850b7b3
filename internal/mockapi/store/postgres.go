package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore persists the dev backend's data in PostgreSQL. Products,
// categories and sales are stored as JSON documents keyed by id, which
// keeps the schema in lockstep with the wire shapes.
type PostgresStore struct {
	db *sql.DB
}

// ConnectPostgres opens and pings a PostgreSQL connection.
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	return db, nil
}

// NewPostgresStore wraps db and creates the tables if they are missing.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	ps := &PostgresStore{db: db}
	if err := ps.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return ps, nil
}

func (ps *PostgresStore) initSchema() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS app_users (
			usuario       TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'user'
		);
		CREATE TABLE IF NOT EXISTS app_products (
			id      TEXT PRIMARY KEY,
			usuario TEXT NOT NULL,
			data    JSONB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS app_categories (
			id   TEXT PRIMARY KEY,
			data JSONB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS app_sales (
			id         TEXT PRIMARY KEY,
			usuario    TEXT NOT NULL,
			data       JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	return err
}

func (ps *PostgresStore) CreateUser(ctx context.Context, u User) error {
	_, err := ps.db.ExecContext(ctx,
		`INSERT INTO app_users (usuario, password_hash, role) VALUES ($1, $2, $3)
		 ON CONFLICT (usuario) DO NOTHING`,
		u.Usuario, u.PasswordHash, u.Role)
	if err != nil {
		return err
	}
	// ON CONFLICT DO NOTHING swallows duplicates; detect them so the
	// handler can report the conflict.
	var stored string
	err = ps.db.QueryRowContext(ctx,
		`SELECT password_hash FROM app_users WHERE usuario = $1`, u.Usuario).Scan(&stored)
	if err != nil {
		return err
	}
	if stored != u.PasswordHash {
		return ErrUserExists
	}
	return nil
}

func (ps *PostgresStore) GetUser(ctx context.Context, usuario string) (User, error) {
	var u User
	err := ps.db.QueryRowContext(ctx,
		`SELECT usuario, password_hash, role FROM app_users WHERE usuario = $1`,
		usuario).Scan(&u.Usuario, &u.PasswordHash, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (ps *PostgresStore) ListProducts(ctx context.Context, usuario string) ([]Product, error) {
	rows, err := ps.db.QueryContext(ctx,
		`SELECT data FROM app_products WHERE usuario = $1`, usuario)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var p Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (ps *PostgresStore) GetProduct(ctx context.Context, id string) (Product, error) {
	var raw []byte
	err := ps.db.QueryRowContext(ctx,
		`SELECT data FROM app_products WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	var p Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (ps *PostgresStore) CreateProduct(ctx context.Context, p Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = ps.db.ExecContext(ctx,
		`INSERT INTO app_products (id, usuario, data) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET usuario = $2, data = $3`,
		p.ID, p.Usuario, raw)
	return err
}

func (ps *PostgresStore) UpdateProduct(ctx context.Context, p Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	res, err := ps.db.ExecContext(ctx,
		`UPDATE app_products SET usuario = $2, data = $3 WHERE id = $1`,
		p.ID, p.Usuario, raw)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (ps *PostgresStore) DeleteProduct(ctx context.Context, id string) error {
	res, err := ps.db.ExecContext(ctx, `DELETE FROM app_products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (ps *PostgresStore) AdjustStock(ctx context.Context, usuario, nome string, delta int) error {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id string
	var raw []byte
	err = tx.QueryRowContext(ctx,
		`SELECT id, data FROM app_products
		 WHERE usuario = $1 AND data->>'nome' = $2 FOR UPDATE`,
		usuario, nome).Scan(&id, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var p Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	p.Quantidade += delta
	if p.Quantidade < 0 {
		p.Quantidade = 0
	}

	updated, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE app_products SET data = $2 WHERE id = $1`, id, updated); err != nil {
		return err
	}
	return tx.Commit()
}

func (ps *PostgresStore) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := ps.db.QueryContext(ctx, `SELECT data FROM app_categories`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var c Category
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (ps *PostgresStore) CreateCategory(ctx context.Context, c Category) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = ps.db.ExecContext(ctx,
		`INSERT INTO app_categories (id, data) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET data = $2`,
		c.ID, raw)
	return err
}

func (ps *PostgresStore) UpdateCategory(ctx context.Context, c Category) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	res, err := ps.db.ExecContext(ctx,
		`UPDATE app_categories SET data = $2 WHERE id = $1`, c.ID, raw)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (ps *PostgresStore) DeleteCategory(ctx context.Context, id string) error {
	res, err := ps.db.ExecContext(ctx, `DELETE FROM app_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (ps *PostgresStore) CreateSale(ctx context.Context, s Sale) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = ps.db.ExecContext(ctx,
		`INSERT INTO app_sales (id, usuario, data) VALUES ($1, $2, $3)`,
		s.ID, s.Usuario, raw)
	return err
}

func (ps *PostgresStore) ListSales(ctx context.Context, usuario string) ([]Sale, error) {
	query := `SELECT data FROM app_sales ORDER BY created_at`
	args := []any{}
	if usuario != "" {
		query = `SELECT data FROM app_sales WHERE usuario = $1 ORDER BY created_at`
		args = append(args, usuario)
	}

	rows, err := ps.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sale
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var s Sale
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (ps *PostgresStore) GetSale(ctx context.Context, id string) (Sale, error) {
	var raw []byte
	err := ps.db.QueryRowContext(ctx,
		`SELECT data FROM app_sales WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Sale{}, ErrNotFound
	}
	if err != nil {
		return Sale{}, err
	}
	var s Sale
	if err := json.Unmarshal(raw, &s); err != nil {
		return Sale{}, err
	}
	return s, nil
}
