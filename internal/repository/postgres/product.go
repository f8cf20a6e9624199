package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campustrade-backend/internal/domain"
	"campustrade-backend/internal/repository"
)

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(ctx context.Context, id int32) (*domain.Product, error) {
	var p domain.Product
	query := `SELECT id, seller_code, name, price FROM products WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.SellerCode, &p.Name, &p.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %d not found", id)
		}
		return nil, err
	}
	return &p, nil
}
