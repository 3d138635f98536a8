// Package services orchestrates domain operations across storage, the
// budget evaluator, AMQP and the export pipeline.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financeflow/internal/amqp"
	"financeflow/internal/budget"
	"financeflow/internal/core"
	"financeflow/internal/storage"
)

// AlertPublisher is the messaging dependency of the transaction
// service. A nil publisher disables publishing without disabling
// alert persistence.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, msg *amqp.BudgetAlertMessage) error
}

// TransactionService orchestrates transaction writes: persist, re-read
// affected budget sums, run the evaluator, persist and publish any
// triggered alerts.
type TransactionService struct {
	storage   *storage.SQLiteRepository
	evaluator *budget.Evaluator
	publisher AlertPublisher
}

func NewTransactionService(st *storage.SQLiteRepository, evaluator *budget.Evaluator, publisher AlertPublisher) *TransactionService {
	return &TransactionService{
		storage:   st,
		evaluator: evaluator,
		publisher: publisher,
	}
}

// CreateTransaction validates and persists a transaction, then
// evaluates the budget impact of the new spending. One impact is
// returned per budget whose period covers the transaction.
func (s *TransactionService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, []budget.Impact, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, nil, err
	}

	budgets, before, err := s.snapshotSums(ctx, t, 0)
	if err != nil {
		return core.Transaction{}, nil, err
	}

	created, err := s.storage.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, nil, err
	}

	impacts, err := s.evaluateAndNotify(ctx, budgets, before)
	if err != nil {
		return created, impacts, err
	}
	return created, impacts, nil
}

// UpdateTransaction re-evaluates every budget the transaction touched
// before or touches after the edit.
func (s *TransactionService) UpdateTransaction(ctx context.Context, t core.Transaction) ([]budget.Impact, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	old, err := s.storage.GetTransaction(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	budgets, before, err := s.snapshotSumsFor(ctx, []core.Transaction{old, t}, 0)
	if err != nil {
		return nil, err
	}

	if err := s.storage.UpdateTransaction(ctx, t); err != nil {
		return nil, err
	}

	return s.evaluateAndNotify(ctx, budgets, before)
}

// DeleteTransaction removes a transaction and re-classifies the
// budgets it counted against. Falling back below a threshold is
// silent: no alert fires and none is retracted.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id int64) ([]budget.Impact, error) {
	old, err := s.storage.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	budgets, before, err := s.snapshotSums(ctx, old, 0)
	if err != nil {
		return nil, err
	}

	if err := s.storage.DeleteTransaction(ctx, id); err != nil {
		return nil, err
	}

	return s.evaluateAndNotify(ctx, budgets, before)
}

// snapshotSums finds the budgets covering a transaction and their
// current spent sums.
func (s *TransactionService) snapshotSums(ctx context.Context, t core.Transaction, excludeTxID int64) ([]core.Budget, map[int64]int64, error) {
	return s.snapshotSumsFor(ctx, []core.Transaction{t}, excludeTxID)
}

func (s *TransactionService) snapshotSumsFor(ctx context.Context, txs []core.Transaction, excludeTxID int64) ([]core.Budget, map[int64]int64, error) {
	seen := make(map[int64]bool)
	var budgets []core.Budget

	for _, t := range txs {
		if t.Type != core.Expense || t.CategoryID <= 0 {
			continue
		}
		covering, err := s.storage.BudgetsForCategory(ctx, t.CategoryID, t.Date)
		if err != nil {
			return nil, nil, err
		}
		for _, b := range covering {
			if !seen[b.ID] {
				seen[b.ID] = true
				budgets = append(budgets, b)
			}
		}
	}

	before := make(map[int64]int64, len(budgets))
	for _, b := range budgets {
		sum, err := s.storage.SumExpenses(ctx, b.CategoryID, b.PeriodStart, b.PeriodEnd, excludeTxID)
		if err != nil {
			return nil, nil, err
		}
		before[b.ID] = sum
	}
	return budgets, before, nil
}

// evaluateAndNotify re-reads each budget's sum, runs the evaluator
// against the before snapshot, and persists plus publishes every
// triggered alert. Publish failures are logged, never returned: the
// write already succeeded.
func (s *TransactionService) evaluateAndNotify(ctx context.Context, budgets []core.Budget, before map[int64]int64) ([]budget.Impact, error) {
	var impacts []budget.Impact

	for _, b := range budgets {
		after, err := s.storage.SumExpenses(ctx, b.CategoryID, b.PeriodStart, b.PeriodEnd, 0)
		if err != nil {
			return impacts, err
		}

		categoryName := ""
		if c, err := s.storage.GetCategory(ctx, b.CategoryID); err == nil {
			categoryName = c.Name
		}

		impact := s.evaluator.EvaluateImpact(b, categoryName, before[b.ID], after)

		for i, alert := range impact.Alerts {
			saved, err := s.storage.SaveAlert(ctx, alert)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to persist budget alert",
					"budget_id", b.ID, "error", err)
				continue
			}
			impact.Alerts[i] = saved
			s.publishAlert(ctx, saved)
		}
		impacts = append(impacts, impact)
	}
	return impacts, nil
}

func (s *TransactionService) publishAlert(ctx context.Context, alert budget.Alert) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP publisher not available, skipping alert message",
			"alert_id", alert.ID)
		return
	}

	// Detach from the request deadline: the broker gets its own window.
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.publisher.PublishBudgetAlert(publishCtx, amqp.NewBudgetAlertMessage(alert)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish budget alert",
			"alert_id", alert.ID,
			"budget_id", alert.BudgetID,
			"error", err)
		// Don't fail the request - the alert is persisted locally.
	}
}

// Close releases the service's owned connections.
func (s *TransactionService) Close() error {
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			return fmt.Errorf("close transaction service: %w", err)
		}
	}
	return nil
}
