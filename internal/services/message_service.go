package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"curbside/market/internal/config"
	"curbside/market/internal/db"
	"curbside/market/internal/models"
	"curbside/market/internal/tasks"
)

// IMessageService runs the message submission flow: validate the draft,
// snapshot the seller's email from the target listing, store the message.
type IMessageService interface {
	SendMessage(ctx context.Context, listingID primitive.ObjectID, draft models.MessageDraft) (*models.Message, error)
}

const messagesCollection = "messages"

// messageService implements IMessageService.
type messageService struct {
	db         *mongo.Database
	cfg        *config.Config
	listings   IListingService
	taskClient tasks.IClient
}

// NewMessageService creates a new MessageService. taskClient may be nil, in
// which case no seller notification is enqueued.
func NewMessageService(db *mongo.Database, cfg *config.Config, listings IListingService, taskClient tasks.IClient) IMessageService {
	return &messageService{db: db, cfg: cfg, listings: listings, taskClient: taskClient}
}

// SendMessage validates and stores one buyer message about one listing.
// Validation is required-field presence only; email format is not enforced.
// The seller email is copied from the referenced listing at submission time.
// Returns mongo.ErrNoDocuments when the listing no longer exists.
func (s *messageService) SendMessage(ctx context.Context, listingID primitive.ObjectID, draft models.MessageDraft) (*models.Message, error) {
	draft.BuyerName = strings.TrimSpace(draft.BuyerName)
	draft.BuyerEmail = strings.TrimSpace(draft.BuyerEmail)
	draft.Message = strings.TrimSpace(draft.Message)

	switch {
	case draft.BuyerName == "":
		return nil, fmt.Errorf("%w: buyer name is required", ErrValidation)
	case draft.BuyerEmail == "":
		return nil, fmt.Errorf("%w: buyer email is required", ErrValidation)
	case draft.Message == "":
		return nil, fmt.Errorf("%w: message is required", ErrValidation)
	}

	listing, err := s.listings.FindListingByID(ctx, listingID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, mongo.ErrNoDocuments
		}
		return nil, err
	}

	collection := s.db.Collection(messagesCollection)
	var msg *models.Message
	operation := func() error {
		msg = &models.Message{
			ID:          primitive.NewObjectID(),
			ListingID:   listing.ID,
			BuyerName:   draft.BuyerName,
			BuyerEmail:  draft.BuyerEmail,
			Message:     draft.Message,
			SellerEmail: listing.SellerEmail,
			CreatedAt:   time.Now().UTC(),
			Sent:        false, // email delivery handled by background task
		}
		_, insertErr := collection.InsertOne(ctx, msg)
		return insertErr
	}
	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to store message for listing %s: %w", listingID.Hex(), err)
	}

	// The stored message is the point of commitment; a notification that
	// fails to enqueue is logged and dropped, not surfaced to the buyer.
	if s.taskClient != nil {
		task, err := tasks.NewSellerNotificationTask(tasks.SellerNotificationPayload{
			MessageID:    msg.ID.Hex(),
			To:           msg.SellerEmail,
			BuyerName:    msg.BuyerName,
			BuyerEmail:   msg.BuyerEmail,
			ListingTitle: listing.Title,
			Message:      msg.Message,
		})
		if err != nil {
			log.Printf("Failed to build seller notification task for message %s: %v", msg.ID.Hex(), err)
		} else if _, err := s.taskClient.Enqueue(task); err != nil {
			log.Printf("Failed to enqueue seller notification for message %s: %v", msg.ID.Hex(), err)
		}
	}

	return msg, nil
}
