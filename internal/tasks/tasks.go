package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"curbside/market/internal/config"
	"curbside/market/internal/email"
)

// TypeEmailDelivery is the task type for seller notification emails.
const TypeEmailDelivery = "email:deliver"

// IClient is the subset of asynq.Client used to enqueue tasks; defined as an
// interface so services and handlers can be tested with a mock.
type IClient interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewClient creates an asynq client on the same Redis the given client
// points at.
func NewClient(rdb *redis.Client) *asynq.Client {
	opt := rdb.Options()
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})
}

// SellerNotificationPayload is the payload of a TypeEmailDelivery task.
type SellerNotificationPayload struct {
	MessageID    string `json:"message_id"`
	To           string `json:"to"`
	BuyerName    string `json:"buyer_name"`
	BuyerEmail   string `json:"buyer_email"`
	ListingTitle string `json:"listing_title"`
	Message      string `json:"message"`
}

// NewSellerNotificationTask builds a TypeEmailDelivery task.
func NewSellerNotificationTask(p SellerNotificationPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal seller notification payload: %w", err)
	}
	return asynq.NewTask(TypeEmailDelivery, payload), nil
}

// TaskProcessor handles the processing of background tasks. It holds the
// dependencies the task handlers need.
type TaskProcessor struct {
	cfg         *config.Config
	emailSender email.Sender
	db          *mongo.Database // may be nil; then the sent flag is not updated
}

// NewTaskProcessor creates a new TaskProcessor.
func NewTaskProcessor(cfg *config.Config, emailSender email.Sender, db *mongo.Database) *TaskProcessor {
	return &TaskProcessor{cfg: cfg, emailSender: emailSender, db: db}
}

// HandleEmailDeliveryTask delivers a seller notification email for one
// stored message, then flips the message's sent flag. A malformed payload is
// not retried; a failed send is returned to asynq for retry.
func (p *TaskProcessor) HandleEmailDeliveryTask(ctx context.Context, t *asynq.Task) error {
	var payload SellerNotificationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal email task payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.To == "" {
		return fmt.Errorf("email task payload has no recipient: %w", asynq.SkipRetry)
	}

	subject := fmt.Sprintf("New message about your listing: %s", payload.ListingTitle)

	var body strings.Builder
	body.WriteString(fmt.Sprintf("%s (%s) sent you a message about %q:\r\n\r\n",
		payload.BuyerName, payload.BuyerEmail, payload.ListingTitle))
	body.WriteString(payload.Message)
	body.WriteString("\r\n\r\nReply directly to this email to reach the buyer.\r\n")

	rawMessage := buildRawMessage(p.cfg.SmtpFromAddress, payload.To, payload.BuyerEmail, subject, body.String())

	if err := p.emailSender.Send(ctx, []string{payload.To}, subject, rawMessage); err != nil {
		return err
	}

	p.markMessageSent(ctx, payload.MessageID)
	return nil
}

// buildRawMessage assembles a plain-text email with headers.
func buildRawMessage(from, to, replyTo, subject, body string) []byte {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("To: %s\r\n", to))
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	if replyTo != "" {
		sb.WriteString(fmt.Sprintf("Reply-To: %s\r\n", replyTo))
	}
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	sb.WriteString("\r\n")
	return []byte(sb.String())
}

// markMessageSent flips the sent flag on a delivered message. Failure here is
// logged only; the email already went out and the task must not be retried.
func (p *TaskProcessor) markMessageSent(ctx context.Context, messageID string) {
	if p.db == nil || messageID == "" {
		return
	}
	id, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		log.Printf("Invalid message id %q in email task payload: %v", messageID, err)
		return
	}
	_, err = p.db.Collection("messages").UpdateByID(ctx, id, bson.M{"$set": bson.M{"sent": true}})
	if err != nil {
		log.Printf("Failed to mark message %s as sent: %v", messageID, err)
	}
}

// SetupServer configures an asynq server and the mux routing task types to
// the processor. The caller runs srv.Run(mux).
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	opt := rdb.Options()
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     opt.Addr,
			Password: opt.Password,
			DB:       opt.DB,
		},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 5,
				"low":     1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[asynq] task %s failed: %v", task.Type(), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailDelivery, processor.HandleEmailDeliveryTask)
	return srv, mux
}
