// internal/workers/alerts/send-alert-notification/models.go
package sendalertnotification

import "capital-match/internal/models"

type Input struct {
	AlertID string `json:"alertId"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	LPID    string `json:"lpId,omitempty"`
}

type Output struct {
	NotificationID string                `json:"notificationId"`
	AlertID        string                `json:"alertId"`
	Status         string                `json:"status"` // "sent", "failed", "disabled"
	Channels       []string              `json:"channels"`
	FailedChannels []string              `json:"failedChannels,omitempty"`
	Deliveries     []models.Notification `json:"deliveries,omitempty"`
	SentAt         string                `json:"sentAt"` // ISO 8601
}

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// Channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
