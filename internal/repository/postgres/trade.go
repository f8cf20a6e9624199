package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"campustrade-backend/internal/domain"
	"campustrade-backend/internal/repository"
)

type tradeRepository struct {
	db *sql.DB
}

func NewTradeRepository(db *sql.DB) repository.TradeRepository {
	return &tradeRepository{db: db}
}

const tradeColumns = `id, buyer_id, seller_id, seller_code, product_id, additional_cash,
	meetup_location, meetup_schedule, status, wallet_deduction_processed, deleted_at, created_at, updated_at`

func (r *tradeRepository) Create(ctx context.Context, trade *domain.TradeTransaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO trade_transactions
	          (buyer_id, seller_id, seller_code, product_id, additional_cash, meetup_location, meetup_schedule, status, wallet_deduction_processed, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, NOW(), NOW()) RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		trade.BuyerID, trade.SellerID, trade.SellerCode, trade.ProductID,
		trade.AdditionalCash, trade.MeetupLocation, trade.MeetupSchedule, trade.Status,
	).Scan(&trade.ID)
	if err != nil {
		return err
	}

	for i := range trade.OfferedItems {
		item := &trade.OfferedItems[i]
		item.TradeID = trade.ID
		err := tx.QueryRowContext(ctx,
			`INSERT INTO trade_offered_items (trade_id, name, quantity, estimated_value, condition, images)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			item.TradeID, item.Name, item.Quantity, item.EstimatedValue, item.Condition, pq.Array(item.Images),
		).Scan(&item.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *tradeRepository) GetByID(ctx context.Context, id int32) (*domain.TradeTransaction, error) {
	trade, err := scanTrade(r.db.QueryRowContext(ctx,
		`SELECT `+tradeColumns+` FROM trade_transactions WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, trade_id, name, quantity, estimated_value, condition, images
		 FROM trade_offered_items WHERE trade_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanOfferedItem(rows)
		if err != nil {
			return nil, err
		}
		trade.OfferedItems = append(trade.OfferedItems, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trade, nil
}

func (r *tradeRepository) TransitionStatus(ctx context.Context, id int32, from, to domain.TradeStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE trade_transactions SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND status = $3 AND deleted_at IS NULL`,
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

func (r *tradeRepository) SoftDelete(ctx context.Context, id int32) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE trade_transactions SET deleted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrTradeNotFound
	}
	return nil
}

func (r *tradeRepository) GetOfferedItem(ctx context.Context, itemID int32) (*domain.OfferedItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, trade_id, name, quantity, estimated_value, condition, images
		 FROM trade_offered_items WHERE id = $1`, itemID)

	var item domain.OfferedItem
	err := row.Scan(&item.ID, &item.TradeID, &item.Name, &item.Quantity,
		&item.EstimatedValue, &item.Condition, pq.Array(&item.Images))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTradeNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *tradeRepository) UpdateOfferedItem(ctx context.Context, item *domain.OfferedItem) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE trade_offered_items SET name = $1, quantity = $2, estimated_value = $3, condition = $4, images = $5
		 WHERE id = $6`,
		item.Name, item.Quantity, item.EstimatedValue, item.Condition, pq.Array(item.Images), item.ID,
	)
	return err
}

func (r *tradeRepository) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.TradeTransaction, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + tradeColumns + ` FROM trade_transactions
	          WHERE (buyer_id = $1 OR seller_id = $1) AND deleted_at IS NULL
	          ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var trades []domain.TradeTransaction
	for rows.Next() {
		trade, err := scanTradeRows(rows)
		if err != nil {
			return nil, 0, err
		}
		trades = append(trades, *trade)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	countQuery := `SELECT count(*) FROM trade_transactions WHERE (buyer_id = $1 OR seller_id = $1) AND deleted_at IS NULL`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, err
	}
	return trades, count, nil
}

func (r *tradeRepository) ListUnprocessedCompleted(ctx context.Context, limit int32) ([]domain.TradeTransaction, error) {
	query := `SELECT ` + tradeColumns + ` FROM trade_transactions
	          WHERE status = $1 AND wallet_deduction_processed = false
	          ORDER BY updated_at ASC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, domain.TradeStatusCompleted, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []domain.TradeTransaction
	for rows.Next() {
		trade, err := scanTradeRows(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, *trade)
	}
	return trades, rows.Err()
}

func scanTrade(row *sql.Row) (*domain.TradeTransaction, error) {
	var t domain.TradeTransaction
	var meetupSchedule, deletedAt sql.NullTime
	var createdAt, updatedAt time.Time
	err := row.Scan(&t.ID, &t.BuyerID, &t.SellerID, &t.SellerCode, &t.ProductID,
		&t.AdditionalCash, &t.MeetupLocation, &meetupSchedule, &t.Status,
		&t.DeductionProcessed, &deletedAt, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTradeNotFound
		}
		return nil, err
	}
	applyTradeTimes(&t, meetupSchedule, deletedAt, createdAt, updatedAt)
	return &t, nil
}

func scanTradeRows(rows *sql.Rows) (*domain.TradeTransaction, error) {
	var t domain.TradeTransaction
	var meetupSchedule, deletedAt sql.NullTime
	var createdAt, updatedAt time.Time
	err := rows.Scan(&t.ID, &t.BuyerID, &t.SellerID, &t.SellerCode, &t.ProductID,
		&t.AdditionalCash, &t.MeetupLocation, &meetupSchedule, &t.Status,
		&t.DeductionProcessed, &deletedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	applyTradeTimes(&t, meetupSchedule, deletedAt, createdAt, updatedAt)
	return &t, nil
}

func applyTradeTimes(t *domain.TradeTransaction, meetupSchedule, deletedAt sql.NullTime, createdAt, updatedAt time.Time) {
	if meetupSchedule.Valid {
		t.MeetupSchedule = &meetupSchedule.Time
	}
	if deletedAt.Valid {
		t.DeletedAt = &deletedAt.Time
	}
	t.CreatedOn = createdAt.Format("2006-01-02 15:04:05")
	t.UpdatedOn = updatedAt.Format("2006-01-02 15:04:05")
}

func scanOfferedItem(rows *sql.Rows) (*domain.OfferedItem, error) {
	var item domain.OfferedItem
	err := rows.Scan(&item.ID, &item.TradeID, &item.Name, &item.Quantity,
		&item.EstimatedValue, &item.Condition, pq.Array(&item.Images))
	if err != nil {
		return nil, err
	}
	return &item, nil
}
