package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"campustrade-backend/internal/domain"
	"campustrade-backend/internal/repository"
	"campustrade-backend/internal/utils"
)

type walletRepository struct {
	db *sql.DB
}

func NewWalletRepository(db *sql.DB) repository.WalletRepository {
	return &walletRepository{db: db}
}

const walletColumns = `id, seller_code, balance, is_activated, status, activated_at, created_at, updated_at`

func scanWallet(row interface{ Scan(...any) error }) (*domain.Wallet, error) {
	var w domain.Wallet
	var activatedAt sql.NullTime
	var createdAt, updatedAt time.Time
	err := row.Scan(&w.ID, &w.SellerCode, &w.Balance, &w.IsActivated, &w.Status, &activatedAt, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	if activatedAt.Valid {
		w.ActivatedAt = &activatedAt.Time
	}
	w.CreatedOn = createdAt.Format("2006-01-02")
	w.UpdatedOn = updatedAt.Format("2006-01-02")
	return &w, nil
}

func (r *walletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	query := `INSERT INTO wallets (seller_code, balance, is_activated, status, created_at, updated_at)
	          VALUES ($1, $2, false, $3, NOW(), NOW()) RETURNING id`
	if wallet.Status == "" {
		wallet.Status = domain.WalletStatusPending
	}
	err := r.db.QueryRowContext(ctx, query, wallet.SellerCode, wallet.Balance, wallet.Status).Scan(&wallet.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrWalletExists
		}
		return err
	}
	return nil
}

func (r *walletRepository) GetByID(ctx context.Context, id int32) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 AND deleted_at IS NULL`
	return scanWallet(r.db.QueryRowContext(ctx, query, id))
}

func (r *walletRepository) GetBySellerCode(ctx context.Context, sellerCode string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE seller_code = $1 AND deleted_at IS NULL`
	return scanWallet(r.db.QueryRowContext(ctx, query, sellerCode))
}

func (r *walletRepository) Activate(ctx context.Context, sellerCode string) (*domain.Wallet, error) {
	query := `UPDATE wallets
	          SET is_activated = true, status = $2, activated_at = NOW(), updated_at = NOW()
	          WHERE seller_code = $1 AND deleted_at IS NULL
	          RETURNING ` + walletColumns
	return scanWallet(r.db.QueryRowContext(ctx, query, sellerCode, domain.WalletStatusActive))
}

// ApplyDeduction is the exactly-once fee write. The wallet row lock serializes
// concurrent attempts for the same wallet; the ledger re-check inside the lock
// closes the race between two completion triggers. The source record's
// processed flag is asserted in the same transaction either way.
func (r *walletRepository) ApplyDeduction(ctx context.Context, req *repository.DeductionRequest) (*repository.DeductionApplied, error) {
	flagQuery, err := sourceFlagQuery(req.ReferenceType)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var walletID int32
	var balance decimal.Decimal
	var isActivated bool
	var status domain.WalletStatus
	err = tx.QueryRowContext(ctx,
		`SELECT id, balance, is_activated, status FROM wallets WHERE seller_code = $1 AND deleted_at IS NULL FOR UPDATE`,
		req.SellerCode,
	).Scan(&walletID, &balance, &isActivated, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	if !isActivated || status != domain.WalletStatusActive {
		return nil, domain.ErrWalletInactive
	}

	// Idempotency: one completed deduction row per (reference_type, reference_id).
	var existing repository.DeductionApplied
	err = tx.QueryRowContext(ctx,
		`SELECT id, amount, previous_balance, new_balance FROM wallet_transactions
		 WHERE reference_type = $1 AND reference_id = $2 AND type = $3 AND status = $4`,
		req.ReferenceType, req.ReferenceID,
		domain.WalletTransactionTypeDeduction, domain.WalletTransactionStatusCompleted,
	).Scan(&existing.TransactionID, &existing.Amount, &existing.PreviousBalance, &existing.NewBalance)
	if err == nil {
		existing.AlreadyApplied = true
		if _, err := tx.ExecContext(ctx, flagQuery, req.ReferenceID); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	actual := utils.CapToBalance(req.Fee, balance)
	newBalance := balance.Sub(actual)

	if _, err := tx.ExecContext(ctx,
		`UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`,
		newBalance, walletID,
	); err != nil {
		return nil, err
	}

	txID := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO wallet_transactions
		 (id, seller_code, type, amount, previous_balance, new_balance, reference_type, reference_id, status, description, processed_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())`,
		txID, req.SellerCode, domain.WalletTransactionTypeDeduction,
		actual, balance, newBalance,
		req.ReferenceType, req.ReferenceID,
		domain.WalletTransactionStatusCompleted, req.Description,
	); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, flagQuery, req.ReferenceID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &repository.DeductionApplied{
		TransactionID:   txID,
		Amount:          actual,
		PreviousBalance: balance,
		NewBalance:      newBalance,
	}, nil
}

func (r *walletRepository) ApplyAdjustment(ctx context.Context, req *repository.AdjustmentRequest) (*domain.Wallet, *domain.WalletTransaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	wallet, err := scanWallet(tx.QueryRowContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
		req.WalletID,
	))
	if err != nil {
		return nil, nil, err
	}
	if !wallet.CanTransact() {
		return nil, nil, domain.ErrWalletInactive
	}

	newBalance := wallet.Balance.Add(req.Amount)
	if newBalance.IsNegative() {
		return nil, nil, fmt.Errorf("%w: adjustment of %s would overdraw balance %s",
			domain.ErrValidation, req.Amount, wallet.Balance)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`,
		newBalance, wallet.ID,
	); err != nil {
		return nil, nil, err
	}

	entry := &domain.WalletTransaction{
		ID:              uuid.NewString(),
		SellerCode:      wallet.SellerCode,
		Type:            domain.WalletTransactionTypeAdjustment,
		Amount:          req.Amount.Abs(),
		PreviousBalance: wallet.Balance,
		NewBalance:      newBalance,
		ReferenceType:   domain.WalletReferenceTypeAdjustment,
		ReferenceID:     wallet.ID,
		Status:          domain.WalletTransactionStatusCompleted,
		Description:     fmt.Sprintf("Manual adjustment by admin %d: %s", req.ActorID, req.Reason),
	}
	if err := insertWalletTransaction(ctx, tx, entry); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	wallet.Balance = newBalance
	return wallet, entry, nil
}

func (r *walletRepository) ApplyRefill(ctx context.Context, sellerCode string, amount decimal.Decimal, description string) (*domain.Wallet, *domain.WalletTransaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	wallet, err := scanWallet(tx.QueryRowContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE seller_code = $1 AND deleted_at IS NULL FOR UPDATE`,
		sellerCode,
	))
	if err != nil {
		return nil, nil, err
	}
	if !wallet.CanTransact() {
		return nil, nil, domain.ErrWalletInactive
	}

	newBalance := wallet.Balance.Add(amount)
	if _, err := tx.ExecContext(ctx,
		`UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`,
		newBalance, wallet.ID,
	); err != nil {
		return nil, nil, err
	}

	entry := &domain.WalletTransaction{
		ID:              uuid.NewString(),
		SellerCode:      wallet.SellerCode,
		Type:            domain.WalletTransactionTypeRefill,
		Amount:          amount,
		PreviousBalance: wallet.Balance,
		NewBalance:      newBalance,
		ReferenceType:   domain.WalletReferenceTypeRefill,
		ReferenceID:     wallet.ID,
		Status:          domain.WalletTransactionStatusCompleted,
		Description:     description,
	}
	if err := insertWalletTransaction(ctx, tx, entry); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	wallet.Balance = newBalance
	return wallet, entry, nil
}

func (r *walletRepository) ListTransactions(ctx context.Context, sellerCode string, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, seller_code, type, amount, previous_balance, new_balance,
	                 reference_type, reference_id, status, COALESCE(description, ''), processed_at, created_at
	          FROM wallet_transactions WHERE seller_code = $1
	          ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, sellerCode, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []domain.WalletTransaction
	for rows.Next() {
		var entry domain.WalletTransaction
		var processedAt sql.NullTime
		var createdAt time.Time
		if err := rows.Scan(&entry.ID, &entry.SellerCode, &entry.Type, &entry.Amount,
			&entry.PreviousBalance, &entry.NewBalance, &entry.ReferenceType, &entry.ReferenceID,
			&entry.Status, &entry.Description, &processedAt, &createdAt); err != nil {
			return nil, 0, err
		}
		if processedAt.Valid {
			entry.ProcessedAt = &processedAt.Time
		}
		entry.CreatedOn = createdAt.Format("2006-01-02 15:04:05")
		txs = append(txs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	countQuery := `SELECT count(*) FROM wallet_transactions WHERE seller_code = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, sellerCode).Scan(&count); err != nil {
		return nil, 0, err
	}
	return txs, count, nil
}

func insertWalletTransaction(ctx context.Context, tx *sql.Tx, entry *domain.WalletTransaction) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO wallet_transactions
		 (id, seller_code, type, amount, previous_balance, new_balance, reference_type, reference_id, status, description, processed_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())`,
		entry.ID, entry.SellerCode, entry.Type, entry.Amount, entry.PreviousBalance,
		entry.NewBalance, entry.ReferenceType, entry.ReferenceID, entry.Status, entry.Description,
	)
	return err
}

// sourceFlagQuery maps a reference type onto the UPDATE that marks the source
// record as billed.
func sourceFlagQuery(refType domain.WalletReferenceType) (string, error) {
	switch refType {
	case domain.WalletReferenceTypeOrder:
		return `UPDATE orders SET wallet_deduction_processed = true, updated_at = NOW() WHERE id = $1`, nil
	case domain.WalletReferenceTypeTrade:
		return `UPDATE trade_transactions SET wallet_deduction_processed = true, updated_at = NOW() WHERE id = $1`, nil
	default:
		return "", fmt.Errorf("reference type %q cannot carry a fee deduction", refType)
	}
}
