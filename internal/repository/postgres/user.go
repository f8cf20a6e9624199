package postgres

import (
	"context"
	"database/sql"
	"time"

	"campustrade-backend/internal/domain"
	"campustrade-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT id, name, email, COALESCE(seller_code, ''), is_admin, created_at FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetBySellerCode(ctx context.Context, sellerCode string) (*domain.User, error) {
	query := `SELECT id, name, email, COALESCE(seller_code, ''), is_admin, created_at FROM users WHERE seller_code = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, sellerCode))
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var createdAt time.Time
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.SellerCode, &u.IsAdmin, &createdAt); err != nil {
		return nil, err
	}
	u.CreatedOn = createdAt.Format("2006-01-02")
	return &u, nil
}
