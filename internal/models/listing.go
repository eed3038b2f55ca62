package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field length limits enforced when a listing draft is submitted.
const (
	MaxTitleLen       = 80
	MaxDescriptionLen = 1000
)

// Listing represents one item for sale. Listings are append-only: once
// created, they are never updated or deleted by this application, and ID and
// CreatedAt are immutable.
type Listing struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    Category           `bson:"category" json:"category"`
	Condition   Condition          `bson:"condition,omitempty" json:"condition,omitempty"`
	Location    string             `bson:"location" json:"location"`
	SellerEmail string             `bson:"seller_email" json:"seller_email"`
	ImageURL    string             `bson:"image_url,omitempty" json:"image_url,omitempty"` // empty means no image attached
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// ListingDraft carries the user-supplied fields of a listing before it is
// created. Price is kept as the raw form input and parsed during validation.
type ListingDraft struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Category    Category  `json:"category"`
	Condition   Condition `json:"condition,omitempty"`
	Location    string    `json:"location"`
	SellerEmail string    `json:"seller_email"`
}
