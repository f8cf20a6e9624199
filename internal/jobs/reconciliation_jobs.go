package jobs

import (
	"context"

	"campustrade-backend/internal/domain"
	"campustrade-backend/internal/logger"
)

const reconcileBatchSize = 100

// ReconcilePendingDeductions sweeps completed orders and trades whose platform
// fee was never collected and re-runs them through the engine. The engine's
// idempotency makes the sweep safe to run concurrently with live completions.
func (jr *JobRunner) ReconcilePendingDeductions() {
	jr.runWithRecovery("ReconcilePendingDeductions", func() {
		ctx := context.Background()

		orders, err := jr.store.OrderRepository.ListUnprocessedCompleted(ctx, reconcileBatchSize)
		if err != nil {
			logger.Error("Failed to list unprocessed completed orders", "error", err)
		} else {
			for _, order := range orders {
				outcome, err := jr.engine.ProcessCompletion(ctx, domain.WalletReferenceTypeOrder, order.ID)
				if err != nil {
					// Typically the wallet is still missing or inactive; the
					// next sweep retries.
					logger.Warn("Order deduction still pending", "orderID", order.ID, "error", err)
					continue
				}
				logger.Info("Reconciled order deduction",
					"orderID", order.ID, "result", outcome.Result, "amount", outcome.AmountDebited)
			}
		}

		trades, err := jr.store.TradeRepository.ListUnprocessedCompleted(ctx, reconcileBatchSize)
		if err != nil {
			logger.Error("Failed to list unprocessed completed trades", "error", err)
			return
		}
		for _, trade := range trades {
			outcome, err := jr.engine.ProcessCompletion(ctx, domain.WalletReferenceTypeTrade, trade.ID)
			if err != nil {
				logger.Warn("Trade deduction still pending", "tradeID", trade.ID, "error", err)
				continue
			}
			logger.Info("Reconciled trade deduction",
				"tradeID", trade.ID, "result", outcome.Result, "amount", outcome.AmountDebited)
		}
	})
}
