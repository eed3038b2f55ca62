package tasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"curbside/market/internal/config"
	"curbside/market/internal/tasks"
)

// MockEmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	args := m.Called(ctx, to, subject, rawMessage)
	return args.Error(0)
}

func TestHandleEmailDeliveryTask_Success(t *testing.T) {
	mockSender := new(MockEmailSender)
	cfg := &config.Config{SmtpFromAddress: "noreply@curbside.example.com"}
	p := tasks.NewTaskProcessor(cfg, mockSender, nil)

	task, err := tasks.NewSellerNotificationTask(tasks.SellerNotificationPayload{
		To:           "seller@example.com",
		BuyerName:    "Ann",
		BuyerEmail:   "ann@example.com",
		ListingTitle: "Mountain Bike",
		Message:      "Is this still available?",
	})
	assert.NoError(t, err)

	mockSender.On("Send", mock.Anything, []string{"seller@example.com"}, mock.Anything, mock.Anything).Return(nil)

	err = p.HandleEmailDeliveryTask(context.Background(), task)
	assert.NoError(t, err)

	mockSender.AssertExpectations(t)
	sentSubject := mockSender.Calls[0].Arguments.String(2)
	assert.Contains(t, sentSubject, "Mountain Bike")
	rawMessage := mockSender.Calls[0].Arguments.Get(3).([]byte)
	assert.Contains(t, string(rawMessage), "Is this still available?")
	assert.Contains(t, string(rawMessage), "Reply-To: ann@example.com")
}

func TestHandleEmailDeliveryTask_SendFailureIsRetryable(t *testing.T) {
	mockSender := new(MockEmailSender)
	p := tasks.NewTaskProcessor(&config.Config{}, mockSender, nil)

	task, err := tasks.NewSellerNotificationTask(tasks.SellerNotificationPayload{
		To:           "seller@example.com",
		BuyerName:    "Ann",
		BuyerEmail:   "ann@example.com",
		ListingTitle: "Mountain Bike",
		Message:      "Still available?",
	})
	assert.NoError(t, err)

	sendErr := errors.New("smtp down")
	mockSender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(sendErr)

	err = p.HandleEmailDeliveryTask(context.Background(), task)
	assert.ErrorIs(t, err, sendErr)
	assert.False(t, errors.Is(err, asynq.SkipRetry), "transient send failures should be retried")
}

func TestHandleEmailDeliveryTask_MalformedPayloadSkipsRetry(t *testing.T) {
	mockSender := new(MockEmailSender)
	p := tasks.NewTaskProcessor(&config.Config{}, mockSender, nil)

	task := asynq.NewTask(tasks.TypeEmailDelivery, []byte("not json"))
	err := p.HandleEmailDeliveryTask(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	mockSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleEmailDeliveryTask_MissingRecipientSkipsRetry(t *testing.T) {
	mockSender := new(MockEmailSender)
	p := tasks.NewTaskProcessor(&config.Config{}, mockSender, nil)

	payload, _ := json.Marshal(tasks.SellerNotificationPayload{BuyerName: "Ann"})
	task := asynq.NewTask(tasks.TypeEmailDelivery, payload)

	err := p.HandleEmailDeliveryTask(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	mockSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
