// Package notify delivers budget alerts to the user: a structured-log
// notifier that is always on and an SMTP email notifier used when mail
// settings are configured.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"financeflow/internal/amqp"
)

// Notifier delivers one budget alert. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(ctx context.Context, msg *amqp.BudgetAlertMessage) error
}

// LogNotifier writes alerts to the structured log. It never fails, so
// a chain containing it always records the alert somewhere.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, msg *amqp.BudgetAlertMessage) error {
	slog.InfoContext(ctx, "Budget alert",
		"alert_id", msg.AlertID,
		"budget_id", msg.BudgetID,
		"category", msg.CategoryName,
		"alert_type", msg.AlertType,
		"severity", msg.Severity,
		"percentage_used", msg.PercentageUsed,
		"message", msg.Message)
	return nil
}

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier sends one email per alert over SMTP.
type EmailNotifier struct {
	sender mailSender
	from   string
	to     string
}

func NewEmailNotifier(host string, port int, username, password, from, to string) *EmailNotifier {
	return &EmailNotifier{
		sender: gomail.NewDialer(host, port, username, password),
		from:   from,
		to:     to,
	}
}

func (n *EmailNotifier) Notify(ctx context.Context, msg *amqp.BudgetAlertMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to)
	m.SetHeader("Subject", subjectFor(msg))
	m.SetBody("text/plain", bodyFor(msg))

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}

	slog.InfoContext(ctx, "Alert email sent",
		"alert_id", msg.AlertID,
		"to", n.to,
		"alert_type", msg.AlertType)
	return nil
}

func subjectFor(msg *amqp.BudgetAlertMessage) string {
	switch msg.AlertType {
	case "over_budget":
		return fmt.Sprintf("Budget exceeded: %s", msg.CategoryName)
	case "at_limit":
		return fmt.Sprintf("Budget reached: %s", msg.CategoryName)
	default:
		return fmt.Sprintf("Budget warning: %s", msg.CategoryName)
	}
}

func bodyFor(msg *amqp.BudgetAlertMessage) string {
	return fmt.Sprintf("%s\n\nCategory: %s\nUsage: %.1f%%\nTriggered at: %s\n",
		msg.Message, msg.CategoryName, msg.PercentageUsed,
		msg.Timestamp.Format("2006-01-02 15:04"))
}
