package repos

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"campustrade-backend/internal/domain"
	"campustrade-backend/internal/repository/postgres"
)

func TestOrderRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	ctx := context.Background()

	order := &domain.Order{
		BuyerID:    1,
		SellerCode: "SELL-1",
		Subtotal:   dec("60.00"),
		Status:     domain.OrderStatusPending,
		Items: []domain.OrderItem{
			{ProductID: 10, ProductName: "Notebook", Price: dec("25.50"), Quantity: 2},
			{ProductID: 11, ProductName: "Pen", Price: dec("9.00"), Quantity: 1},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(int32(1), "SELL-1", sqlmock.AnyArg(), "PENDING").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery("INSERT INTO order_items").
		WithArgs(int32(5), int32(10), "Notebook", sqlmock.AnyArg(), int32(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectQuery("INSERT INTO order_items").
		WithArgs(int32(5), int32(11), "Pen", sqlmock.AnyArg(), int32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
	mock.ExpectCommit()

	err = repo.Create(ctx, order)
	assert.NoError(t, err)
	assert.Equal(t, int32(5), order.ID)
	assert.Equal(t, int32(5), order.Items[0].OrderID)
	assert.Equal(t, int32(100), order.Items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_TransitionStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	ctx := context.Background()

	t.Run("Guard Matches", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders SET status").
			WithArgs("COMPLETED", int32(5), "SHIPPED").
			WillReturnResult(sqlmock.NewResult(0, 1))

		changed, err := repo.TransitionStatus(ctx, 5, domain.OrderStatusShipped, domain.OrderStatusCompleted)
		assert.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("Guard Misses On Stale Status", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders SET status").
			WithArgs("COMPLETED", int32(5), "SHIPPED").
			WillReturnResult(sqlmock.NewResult(0, 0))

		changed, err := repo.TransitionStatus(ctx, 5, domain.OrderStatusShipped, domain.OrderStatusCompleted)
		assert.NoError(t, err)
		assert.False(t, changed)
	})
}

func TestOrderRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, buyer_id, seller_code, subtotal, status").
			WithArgs(int32(5)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "buyer_id", "seller_code", "subtotal", "status",
				"wallet_deduction_processed", "created_at", "updated_at",
			}).AddRow(5, 1, "SELL-1", "60.00", "COMPLETED", true, sqlmockTime(), sqlmockTime()))
		mock.ExpectQuery("SELECT id, order_id, product_id, product_name, price, quantity FROM order_items").
			WithArgs(int32(5)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "order_id", "product_id", "product_name", "price", "quantity",
			}).AddRow(100, 5, 10, "Notebook", "25.50", 2))

		order, err := repo.GetByID(ctx, 5)
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCompleted, order.Status)
		assert.True(t, order.DeductionProcessed)
		assert.Len(t, order.Items, 1)
		assert.True(t, order.Items[0].Price.Equal(dec("25.50")))
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, buyer_id, seller_code, subtotal, status").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "buyer_id", "seller_code", "subtotal", "status",
				"wallet_deduction_processed", "created_at", "updated_at",
			}))

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}

func TestOrderRepository_ListUnprocessedCompleted(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT id, buyer_id, seller_code, subtotal, status").
		WithArgs("COMPLETED", int32(100)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "buyer_id", "seller_code", "subtotal", "status",
			"wallet_deduction_processed", "created_at", "updated_at",
		}).
			AddRow(5, 1, "SELL-1", "60.00", "COMPLETED", false, sqlmockTime(), sqlmockTime()).
			AddRow(6, 2, "SELL-2", "80.00", "COMPLETED", false, sqlmockTime(), sqlmockTime()))

	orders, err := repo.ListUnprocessedCompleted(ctx, 100)
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.False(t, orders[0].DeductionProcessed)
}
