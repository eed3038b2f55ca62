package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"curbside/market/internal/config"
	"curbside/market/internal/db"
	"curbside/market/internal/models"
)

// IListingService is the thin client over the remote listings collection.
// Listings are append-only: there is no update or delete operation.
type IListingService interface {
	CreateListing(ctx context.Context, draft models.ListingDraft, price float64, imageURL string) (*models.Listing, error)
	ListListings(ctx context.Context) ([]models.Listing, error)
	FindListingByID(ctx context.Context, listingID primitive.ObjectID) (*models.Listing, error)
}

const listingsCollection = "listings"

// listingService implements IListingService.
type listingService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewListingService creates a new ListingService.
func NewListingService(db *mongo.Database, cfg *config.Config) IListingService {
	return &listingService{db: db, cfg: cfg}
}

// CreateListing inserts a new listing document. ID and CreatedAt are assigned
// here, at the single point of commitment; imageURL may be empty when no
// image was attached.
func (s *listingService) CreateListing(ctx context.Context, draft models.ListingDraft, price float64, imageURL string) (*models.Listing, error) {
	collection := s.db.Collection(listingsCollection)

	var newListing *models.Listing
	operation := func() error {
		newListing = &models.Listing{
			ID:          primitive.NewObjectID(),
			Title:       draft.Title,
			Description: draft.Description,
			Price:       price,
			Category:    draft.Category,
			Condition:   draft.Condition,
			Location:    draft.Location,
			SellerEmail: draft.SellerEmail,
			ImageURL:    imageURL,
			CreatedAt:   time.Now().UTC(),
		}
		_, insertErr := collection.InsertOne(ctx, newListing)
		return insertErr
	}

	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to insert new listing: %w", err)
	}

	return newListing, nil
}

// ListListings returns the full listing collection ordered by created_at
// descending (newest first), with _id as a stable tiebreak.
func (s *listingService) ListListings(ctx context.Context) ([]models.Listing, error) {
	collection := s.db.Collection(listingsCollection)

	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer cursor.Close(ctx)

	listings := []models.Listing{}
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return listings, nil
}

// FindListingByID finds a listing by its ID. Returns mongo.ErrNoDocuments
// when no such listing exists.
func (s *listingService) FindListingByID(ctx context.Context, listingID primitive.ObjectID) (*models.Listing, error) {
	var listing models.Listing
	collection := s.db.Collection(listingsCollection)

	err := collection.FindOne(ctx, bson.M{"_id": listingID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding listing %s: %w", listingID.Hex(), err)
	}
	return &listing, nil
}
