// internal/workers/alerts/send-alert-notification/handler.go
package sendalertnotification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"capital-match/internal/common/errors"
	"capital-match/internal/common/logger"
	"capital-match/internal/common/metrics"
	"capital-match/internal/common/validation"
	"capital-match/internal/fixtures"
	"capital-match/internal/models"
)

const (
	TaskType = "send-alert-notification"
)

type CatalogSource interface {
	Catalog() *fixtures.Catalog
}

// Mailer is satisfied by *aws.SESClient.
type Mailer interface {
	SendText(ctx context.Context, from string, to []string, subject, body string) (string, error)
}

// SMSSender is satisfied by *aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config     *Config
	catalog    CatalogSource
	mailer     Mailer
	sms        SMSSender
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

func NewHandler(config *Config, catalog CatalogSource, mailer Mailer, sms SMSSender, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		catalog:    catalog,
		mailer:     mailer,
		sms:        sms,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
		now:        time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput([]byte(job.Variables))
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) parseInput(raw []byte) (*Input, error) {
	if h.config.Schema != nil {
		if res := h.config.Schema.Validate(raw); !res.Valid {
			return nil, errors.NewInvalidInputError(res.Error())
		}
	}
	var input Input
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, errors.NewInvalidInputError("parse input: " + err.Error())
	}
	if input.AlertID == "" {
		return nil, errors.NewInvalidInputError("alertId is required")
	}
	if input.Email != "" && !validation.ValidateEmail(input.Email) {
		return nil, errors.NewInvalidInputError("email is not a valid address")
	}
	if input.Phone != "" && !validation.ValidatePhone(input.Phone) {
		return nil, errors.NewInvalidInputError("phone must be in E.164 format")
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	catalog := h.catalog.Catalog()

	alert, ok := findAlert(catalog.Alerts(), input.AlertID)
	if !ok {
		return nil, errors.NewAlertNotFoundError(input.AlertID)
	}

	data := map[string]interface{}{
		"title":       alert.Title,
		"description": alert.Description,
		"priority":    string(alert.Priority),
		"category":    alert.Category,
	}
	if input.LPID != "" {
		lp, err := catalog.LP(input.LPID)
		if err != nil {
			return nil, err
		}
		data["lpName"] = lp.Name
	}

	tmpl := bodyTemplate
	if input.LPID != "" {
		tmpl += lpLineTemplate
	}
	subject := renderTemplate(subjectTemplate, data)
	body := renderTemplate(tmpl, data)

	sentAt := h.now().UTC()
	out := &Output{
		NotificationID: uuid.New().String(),
		AlertID:        alert.ID,
		Channels:       []string{},
		SentAt:         sentAt.Format(time.RFC3339),
	}

	var lastErr error
	attempt := func(channel, recipient string, send func() error) {
		d := models.Notification{
			ID:        uuid.New().String(),
			AlertID:   alert.ID,
			Recipient: recipient,
			Channel:   channel,
			Status:    StatusSent,
			SentAt:    sentAt,
		}
		if err := send(); err != nil {
			h.logger.Error(channel+" send failed", map[string]interface{}{
				"error":   err,
				"alertId": alert.ID,
			})
			d.Status = StatusFailed
			out.FailedChannels = append(out.FailedChannels, channel)
			lastErr = err
		} else {
			out.Channels = append(out.Channels, channel)
		}
		out.Deliveries = append(out.Deliveries, d)
	}

	if h.config.EmailEnabled && h.mailer != nil && input.Email != "" {
		attempt(ChannelEmail, input.Email, func() error {
			_, err := h.mailer.SendText(ctx, h.config.FromEmail, []string{input.Email}, subject, body)
			return err
		})
	}

	// SMS only for alerts at or above the configured priority
	if h.config.SMSEnabled && h.sms != nil && input.Phone != "" &&
		priorityRank(alert.Priority) >= priorityRank(h.config.SMSPriorityThreshold) {
		attempt(ChannelSMS, input.Phone, func() error {
			_, err := h.sms.SendSMS(ctx, input.Phone, smsText(subject, alert.Description))
			return err
		})
	}

	switch {
	case len(out.Deliveries) == 0:
		out.Status = StatusDisabled
	case len(out.Channels) == 0:
		return nil, errors.NewNotificationSendFailedError(strings.Join(out.FailedChannels, "+"), lastErr)
	default:
		out.Status = StatusSent
	}

	h.logger.Info("alert notification processed", map[string]interface{}{
		"alertId":        alert.ID,
		"status":         out.Status,
		"channels":       out.Channels,
		"failedChannels": out.FailedChannels,
	})
	return out, nil
}

func findAlert(alerts []models.Alert, id string) (models.Alert, bool) {
	for _, a := range alerts {
		if a.ID == id {
			return a, true
		}
	}
	return models.Alert{}, false
}

func priorityRank(p models.AlertPriority) int {
	switch p {
	case models.AlertPriorityHigh:
		return 3
	case models.AlertPriorityMedium:
		return 2
	case models.AlertPriorityLow:
		return 1
	default:
		return 0
	}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.AsStandard(err).Code)).Inc()
	h.errHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

const (
	subjectTemplate = "[{{priority}}] {{title}}"
	bodyTemplate    = "{{title}}\n\n{{description}}\n\nCategory: {{category}}"
	lpLineTemplate  = "\nLP: {{lpName}}"

	smsMaxLen = 160
)

func smsText(subject, description string) string {
	msg := subject + ": " + description
	if len(msg) > smsMaxLen {
		msg = msg[:smsMaxLen-3] + "..."
	}
	return msg
}

// renderTemplate substitutes {{key}} placeholders and drops any left unresolved.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, "{{"+k+"}}", value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}
	return result
}
