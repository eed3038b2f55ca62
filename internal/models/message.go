package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message represents one buyer inquiry about one listing. Messages are
// write-only from the application's perspective: nothing here ever reads them
// back, except the background worker that delivers the seller notification.
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ListingID  primitive.ObjectID `bson:"listing_id" json:"listing_id"`
	BuyerName  string             `bson:"buyer_name" json:"buyer_name"`
	BuyerEmail string             `bson:"buyer_email" json:"buyer_email"`
	Message    string             `bson:"message" json:"message"`
	// SellerEmail is a denormalized snapshot copied from the referenced
	// listing at submission time, not a live reference.
	SellerEmail string    `bson:"seller_email" json:"seller_email"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	Sent        bool      `bson:"sent" json:"sent"` // set by the email delivery worker
}

// MessageDraft carries the buyer-supplied fields of a message before it is
// submitted.
type MessageDraft struct {
	BuyerName  string `json:"buyer_name"`
	BuyerEmail string `json:"buyer_email"`
	Message    string `json:"message"`
}
