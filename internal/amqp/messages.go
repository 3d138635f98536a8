package amqp

import (
	"encoding/json"
	"time"

	"financeflow/internal/budget"
)

// BudgetAlertMessage is the wire form of a triggered budget alert. It
// carries everything a notifier needs so the worker never has to read
// the database.
type BudgetAlertMessage struct {
	AlertID        int64     `json:"alert_id"`
	BudgetID       int64     `json:"budget_id"`
	CategoryName   string    `json:"category_name"`
	AlertType      string    `json:"alert_type"`
	Severity       string    `json:"severity"`
	Message        string    `json:"message"`
	PercentageUsed float64   `json:"percentage_used"`
	Timestamp      time.Time `json:"timestamp"`
}

func NewBudgetAlertMessage(a budget.Alert) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		AlertID:        a.ID,
		BudgetID:       a.BudgetID,
		CategoryName:   a.CategoryName,
		AlertType:      string(a.Type),
		Severity:       string(a.Severity),
		Message:        a.Message,
		PercentageUsed: a.PercentageUsed,
		Timestamp:      time.Now(),
	}
}

func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
