// internal/models/notification.go
package models

import "time"

type AlertPriority string

const (
	AlertPriorityHigh   AlertPriority = "high"
	AlertPriorityMedium AlertPriority = "medium"
	AlertPriorityLow    AlertPriority = "low"
)

// Alert is a dashboard notification about a property, price or market event.
type Alert struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Priority    AlertPriority `json:"priority"`
	Category    string        `json:"category"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// CapitalRaiseMetrics backs the Capital Raised headline card.
type CapitalRaiseMetrics struct {
	Raised float64 `json:"raised"`
	Target float64 `json:"target"`
}

// PercentOfTarget returns the raise progress rounded down to a whole percent.
func (m CapitalRaiseMetrics) PercentOfTarget() int {
	if m.Target <= 0 {
		return 0
	}
	return int(m.Raised / m.Target * 100)
}

// Notification records one alert delivery on one channel.
type Notification struct {
	ID        string    `json:"id"`
	AlertID   string    `json:"alertId"`
	Recipient string    `json:"recipient"`
	Channel   string    `json:"channel"` // "email", "sms"
	Status    string    `json:"status"`  // "sent", "failed", "disabled"
	SentAt    time.Time `json:"sentAt"`
}
