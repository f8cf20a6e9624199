package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"campustrade-backend/internal/domain"
	"campustrade-backend/internal/repository"
)

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, buyer_id, seller_code, subtotal, status, wallet_deduction_processed, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO orders (buyer_id, seller_code, subtotal, status, wallet_deduction_processed, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, false, NOW(), NOW()) RETURNING id`
	if err := tx.QueryRowContext(ctx, query, order.BuyerID, order.SellerCode, order.Subtotal, order.Status).Scan(&order.ID); err != nil {
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err := tx.QueryRowContext(ctx,
			`INSERT INTO order_items (order_id, product_id, product_name, price, quantity)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			item.OrderID, item.ProductID, item.ProductName, item.Price, item.Quantity,
		).Scan(&item.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *orderRepository) GetByID(ctx context.Context, id int32) (*domain.Order, error) {
	order, err := r.scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, product_name, price, quantity FROM order_items WHERE order_id = $1 ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) TransitionStatus(ctx context.Context, id int32, from, to domain.OrderStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.Order, int32, error) {
	return r.list(ctx, `buyer_id = $1`, buyerID, page, pageSize)
}

func (r *orderRepository) ListBySeller(ctx context.Context, sellerCode string, page, pageSize int32) ([]domain.Order, int32, error) {
	return r.list(ctx, `seller_code = $1`, sellerCode, page, pageSize)
}

func (r *orderRepository) list(ctx context.Context, where string, arg any, page, pageSize int32) ([]domain.Order, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + where + ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, arg, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := r.scanOrderRows(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM orders WHERE `+where, arg).Scan(&count); err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

// ListUnprocessedCompleted feeds the reconciliation job: completed orders whose
// fee was never collected, oldest first.
func (r *orderRepository) ListUnprocessedCompleted(ctx context.Context, limit int32) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
	          WHERE status = $1 AND wallet_deduction_processed = false
	          ORDER BY updated_at ASC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, domain.OrderStatusCompleted, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := r.scanOrderRows(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *orderRepository) scanOrder(row *sql.Row) (*domain.Order, error) {
	var o domain.Order
	var createdAt, updatedAt time.Time
	err := row.Scan(&o.ID, &o.BuyerID, &o.SellerCode, &o.Subtotal, &o.Status, &o.DeductionProcessed, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	o.CreatedOn = createdAt.Format("2006-01-02 15:04:05")
	o.UpdatedOn = updatedAt.Format("2006-01-02 15:04:05")
	return &o, nil
}

func (r *orderRepository) scanOrderRows(rows *sql.Rows) (*domain.Order, error) {
	var o domain.Order
	var createdAt, updatedAt time.Time
	if err := rows.Scan(&o.ID, &o.BuyerID, &o.SellerCode, &o.Subtotal, &o.Status, &o.DeductionProcessed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	o.CreatedOn = createdAt.Format("2006-01-02 15:04:05")
	o.UpdatedOn = updatedAt.Format("2006-01-02 15:04:05")
	return &o, nil
}
