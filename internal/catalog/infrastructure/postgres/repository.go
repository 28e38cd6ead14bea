package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crocshop/cart-service/internal/catalog/application"
	"github.com/crocshop/cart-service/internal/catalog/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

const productColumns = `id, name, species, description, image_url, category, price_cents, stock_quantity, rating, in_stock`

func (r *Repository) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Species, &p.Description, &p.ImageURL, &p.Category,
			&p.PriceCents, &p.StockQuantity, &p.Rating, &p.InStock)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, application.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *Repository) List(ctx context.Context, f domain.Filter) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE price_cents >= $1`
	args := []any{f.MinPriceCents}

	if f.MaxPriceCents > 0 {
		args = append(args, f.MaxPriceCents)
		query += fmt.Sprintf(" AND price_cents <= $%d", len(args))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.InStockOnly {
		query += " AND in_stock"
	}
	query += " ORDER BY id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Species, &p.Description, &p.ImageURL, &p.Category,
			&p.PriceCents, &p.StockQuantity, &p.Rating, &p.InStock); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
