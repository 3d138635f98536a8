// Package worker runs the alert delivery side of the system: consume
// budget alert messages from AMQP and hand them to the notifier chain.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"financeflow/internal/amqp"
	"financeflow/internal/notify"
)

// AlertWorker dispatches consumed alerts to every notifier. A notifier
// failure fails the delivery so the broker requeues it.
type AlertWorker struct {
	notifiers []notify.Notifier
}

func NewAlertWorker(notifiers ...notify.Notifier) *AlertWorker {
	return &AlertWorker{notifiers: notifiers}
}

// HandleAlert delivers one message through the chain. Every notifier
// runs even if an earlier one fails; the first error is returned.
func (w *AlertWorker) HandleAlert(ctx context.Context, msg *amqp.BudgetAlertMessage) error {
	slog.InfoContext(ctx, "Processing budget alert",
		"alert_id", msg.AlertID,
		"budget_id", msg.BudgetID,
		"alert_type", msg.AlertType,
		"category", msg.CategoryName)

	var errs []error
	for _, n := range w.notifiers {
		if err := n.Notify(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Notifier failed",
				"alert_id", msg.AlertID,
				"notifier", fmt.Sprintf("%T", n),
				"error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("deliver alert %d: %w", msg.AlertID, errors.Join(errs...))
	}
	return nil
}

// Run consumes until the context ends, reconnecting with backoff when
// the broker connection drops. Context cancellation is a clean
// shutdown, not an error.
func (w *AlertWorker) Run(ctx context.Context, client *amqp.Client) error {
	err := client.ConsumeBudgetAlertsWithReconnect(ctx, func(msg *amqp.BudgetAlertMessage) error {
		return w.HandleAlert(ctx, msg)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
