// internal/workers/alerts/send-alert-notification/config.go
package sendalertnotification

import (
	"time"

	"capital-match/internal/common/config"
	"capital-match/internal/common/validation"
	"capital-match/internal/models"
)

type Config struct {
	EmailEnabled         bool
	SMSEnabled           bool
	FromEmail            string
	SMSPriorityThreshold models.AlertPriority
	Timeout              time.Duration
	Schema               *validation.Schema
}

func LoadConfig(cfg config.NotificationConfig) *Config {
	threshold := models.AlertPriority(cfg.SMS.PriorityThreshold)
	if threshold == "" {
		threshold = models.AlertPriorityHigh
	}
	return &Config{
		EmailEnabled:         cfg.Email.Enabled,
		SMSEnabled:           cfg.SMS.Enabled,
		FromEmail:            cfg.Email.FromEmail,
		SMSPriorityThreshold: threshold,
		Timeout:              30 * time.Second,
	}
}
