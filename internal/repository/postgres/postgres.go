package postgres

import (
	"database/sql"
	"errors"

	"campustrade-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.WalletRepository
	repository.OrderRepository
	repository.TradeRepository
	repository.ProductRepository
	repository.SettingRepository
	repository.UserRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		WalletRepository:       NewWalletRepository(db),
		OrderRepository:        NewOrderRepository(db),
		TradeRepository:        NewTradeRepository(db),
		ProductRepository:      NewProductRepository(db),
		SettingRepository:      NewSettingRepository(db),
		UserRepository:         NewUserRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
