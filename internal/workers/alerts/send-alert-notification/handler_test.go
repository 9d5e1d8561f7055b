// internal/workers/alerts/send-alert-notification/handler_test.go
package sendalertnotification

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	awsclient "capital-match/internal/common/aws"
	"capital-match/internal/common/errors"
	"capital-match/internal/common/logger"
	"capital-match/internal/common/validation"
	"capital-match/internal/fixtures"
	"capital-match/internal/models"
	"capital-match/pkg/registry"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
}

type MockSNSService struct {
	inputs []*sns.PublishInput
	err    error
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
}

type staticCatalog struct {
	c *fixtures.Catalog
}

func (s staticCatalog) Catalog() *fixtures.Catalog { return s.c }

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		EmailEnabled:         true,
		SMSEnabled:           true,
		FromEmail:            "alerts@lgdevcap.com",
		SMSPriorityThreshold: models.AlertPriorityHigh,
		Timeout:              30 * time.Second,
	}
}

func createTestHandler(t *testing.T, cfg *Config, sesAPI *MockSESService, snsAPI *MockSNSService) *Handler {
	t.Helper()
	c, err := fixtures.NewCatalog(fixtures.SampleData())
	require.NoError(t, err)

	h := NewHandler(cfg, staticCatalog{c},
		awsclient.NewSESClientWithAPI(sesAPI),
		awsclient.NewSNSClientWithAPI(snsAPI),
		logger.NewTestLogger(t))
	h.now = func() time.Time { return time.Date(2024, 3, 22, 10, 0, 0, 0, time.UTC) }
	return h
}

// ==========================
// Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name         string
		config       func(*Config)
		input        Input
		wantStatus   string
		wantChannels []string
		wantEmails   int
		wantSMS      int
	}{
		{
			name:         "high priority goes to email and sms",
			input:        Input{AlertID: "alert-001", Email: "ir@example.com", Phone: "+13125550100"},
			wantStatus:   StatusSent,
			wantChannels: []string{ChannelEmail, ChannelSMS},
			wantEmails:   1,
			wantSMS:      1,
		},
		{
			name:         "medium priority skips sms at high threshold",
			input:        Input{AlertID: "alert-002", Email: "ir@example.com", Phone: "+13125550100"},
			wantStatus:   StatusSent,
			wantChannels: []string{ChannelEmail},
			wantEmails:   1,
		},
		{
			name:         "medium threshold lets medium alerts through",
			config:       func(c *Config) { c.SMSPriorityThreshold = models.AlertPriorityMedium },
			input:        Input{AlertID: "alert-002", Phone: "+13125550100"},
			wantStatus:   StatusSent,
			wantChannels: []string{ChannelSMS},
			wantSMS:      1,
		},
		{
			name:         "no recipients",
			input:        Input{AlertID: "alert-003"},
			wantStatus:   StatusDisabled,
			wantChannels: []string{},
		},
		{
			name:         "channels disabled",
			config:       func(c *Config) { c.EmailEnabled = false; c.SMSEnabled = false },
			input:        Input{AlertID: "alert-001", Email: "ir@example.com", Phone: "+13125550100"},
			wantStatus:   StatusDisabled,
			wantChannels: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			if tt.config != nil {
				tt.config(cfg)
			}
			sesAPI, snsAPI := &MockSESService{}, &MockSNSService{}
			h := createTestHandler(t, cfg, sesAPI, snsAPI)

			out, err := h.Execute(context.Background(), &tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, out.Status)
			assert.Equal(t, tt.wantChannels, out.Channels)
			assert.Equal(t, tt.input.AlertID, out.AlertID)
			assert.Equal(t, "2024-03-22T10:00:00Z", out.SentAt)
			assert.NotEmpty(t, out.NotificationID)
			assert.Len(t, sesAPI.inputs, tt.wantEmails)
			assert.Len(t, snsAPI.inputs, tt.wantSMS)
		})
	}
}

func TestHandler_Execute_RendersAlert(t *testing.T) {
	sesAPI, snsAPI := &MockSESService{}, &MockSNSService{}
	h := createTestHandler(t, createTestConfig(), sesAPI, snsAPI)

	_, err := h.Execute(context.Background(), &Input{AlertID: "alert-001", Email: "ir@example.com", Phone: "+13125550100", LPID: "lp-001"})
	require.NoError(t, err)

	require.Len(t, sesAPI.inputs, 1)
	email := sesAPI.inputs[0]
	assert.Equal(t, "alerts@lgdevcap.com", *email.Source)
	assert.Equal(t, "[high] High Opportunity Property Identified", *email.Message.Subject.Data)
	body := *email.Message.Body.Text.Data
	assert.Contains(t, body, "West Loop matches 4 LP investment criteria")
	assert.Contains(t, body, "Category: property")
	assert.Contains(t, body, "LP: ")
	assert.NotContains(t, body, "{{")

	require.Len(t, snsAPI.inputs, 1)
	sms := *snsAPI.inputs[0].Message
	assert.LessOrEqual(t, len(sms), smsMaxLen)
	assert.Contains(t, sms, "High Opportunity Property Identified")
}

func TestHandler_Execute_Failures(t *testing.T) {
	t.Run("partial failure still sent", func(t *testing.T) {
		sesAPI := &MockSESService{err: stderrors.New("throttled")}
		h := createTestHandler(t, createTestConfig(), sesAPI, &MockSNSService{})

		out, err := h.Execute(context.Background(), &Input{AlertID: "alert-001", Email: "ir@example.com", Phone: "+13125550100"})
		require.NoError(t, err)
		assert.Equal(t, StatusSent, out.Status)
		assert.Equal(t, []string{ChannelSMS}, out.Channels)
		assert.Equal(t, []string{ChannelEmail}, out.FailedChannels)
		require.Len(t, out.Deliveries, 2)
		assert.Equal(t, StatusFailed, out.Deliveries[0].Status)
	})

	t.Run("every channel failed is retryable", func(t *testing.T) {
		h := createTestHandler(t, createTestConfig(),
			&MockSESService{err: stderrors.New("throttled")},
			&MockSNSService{err: stderrors.New("opted out")})

		_, err := h.Execute(context.Background(), &Input{AlertID: "alert-001", Email: "ir@example.com", Phone: "+13125550100"})
		require.Error(t, err)
		stdErr := errors.AsStandard(err)
		assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
		assert.True(t, stdErr.Retryable)
	})

	t.Run("unknown alert", func(t *testing.T) {
		h := createTestHandler(t, createTestConfig(), &MockSESService{}, &MockSNSService{})
		_, err := h.Execute(context.Background(), &Input{AlertID: "alert-404"})
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeAlertNotFound, errors.AsStandard(err).Code)
	})

	t.Run("unknown lp", func(t *testing.T) {
		h := createTestHandler(t, createTestConfig(), &MockSESService{}, &MockSNSService{})
		_, err := h.Execute(context.Background(), &Input{AlertID: "alert-001", LPID: "lp-404"})
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeLPNotFound, errors.AsStandard(err).Code)
	})
}

func TestHandler_ParseInput(t *testing.T) {
	activity, ok := registry.Default().Find(TaskType)
	require.True(t, ok)
	schema, err := activity.InputValidator()
	require.NoError(t, err)

	cfg := createTestConfig()
	cfg.Schema = schema
	h := createTestHandler(t, cfg, &MockSESService{}, &MockSNSService{})

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"alert only", `{"alertId":"alert-001"}`, false},
		{"with contacts", `{"alertId":"alert-001","email":"ir@example.com","phone":"+13125550100"}`, false},
		{"missing alert", `{"email":"ir@example.com"}`, true},
		{"bad email", `{"alertId":"alert-001","email":"not-an-email"}`, true},
		{"bad phone", `{"alertId":"alert-001","phone":"312-555-0100"}`, true},
		{"malformed", `{"alertId":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.parseInput([]byte(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.ErrCodeInvalidInput, errors.AsStandard(err).Code)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestOutput_Variables(t *testing.T) {
	h := createTestHandler(t, createTestConfig(), &MockSESService{}, &MockSNSService{})
	out, err := h.Execute(context.Background(), &Input{AlertID: "alert-002", Email: "ir@example.com"})
	require.NoError(t, err)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	activity, ok := registry.Default().Find(TaskType)
	require.True(t, ok)
	schema, err := validation.CompileMap(activity.OutputSchema)
	require.NoError(t, err)
	res := schema.Validate(raw)
	assert.True(t, res.Valid, res.Error())
}

func TestRenderTemplate(t *testing.T) {
	got := renderTemplate("{{title}} for {{lpName}}{{missing}}", map[string]interface{}{
		"title":  "Price Change",
		"lpName": "Lakeshore Pension",
	})
	assert.Equal(t, "Price Change for Lakeshore Pension", got)
}
