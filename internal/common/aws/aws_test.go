package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSES struct {
	input *ses.SendEmailInput
	err   error
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("ses-123")}, nil
}

type mockSNS struct {
	input *sns.PublishInput
	err   error
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{MessageId: aws.String("sns-456")}, nil
}

func TestSESClient_SendText(t *testing.T) {
	api := &mockSES{}
	c := NewSESClientWithAPI(api)

	id, err := c.SendText(context.Background(), "alerts@lgdevcap.com", []string{"ir@example.com"}, "subject", "body")
	require.NoError(t, err)
	assert.Equal(t, "ses-123", id)
	assert.Equal(t, "alerts@lgdevcap.com", *api.input.Source)
	assert.Equal(t, []string{"ir@example.com"}, api.input.Destination.ToAddresses)
	assert.Equal(t, "subject", *api.input.Message.Subject.Data)
	assert.Equal(t, "body", *api.input.Message.Body.Text.Data)

	api.err = errors.New("throttled")
	_, err = c.SendText(context.Background(), "a@b.co", []string{"c@d.co"}, "s", "b")
	assert.EqualError(t, err, "throttled")
}

func TestSNSClient_SendSMS(t *testing.T) {
	api := &mockSNS{}
	c := NewSNSClientWithAPI(api)

	id, err := c.SendSMS(context.Background(), "+13125550100", "hello")
	require.NoError(t, err)
	assert.Equal(t, "sns-456", id)
	assert.Equal(t, "+13125550100", *api.input.PhoneNumber)
	assert.Equal(t, "Transactional", *api.input.MessageAttributes["AWS.SNS.SMS.SMSType"].StringValue)
}
