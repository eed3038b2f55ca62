package services

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"curbside/market/internal/config"
	"curbside/market/internal/db"
	"curbside/market/internal/models"
)

// These tests need a running MongoDB and are skipped without MONGO_URI.

func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping MongoDB integration test")
	}
	dbName := fmt.Sprintf("market_test_%d", time.Now().UnixNano())
	client, database, err := db.Connect(uri, dbName)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = database.Drop(ctx)
		_ = db.Disconnect(client)
	})
	return database
}

func TestListingServiceRoundTrip(t *testing.T) {
	database := testDatabase(t)
	svc := NewListingService(database, &config.Config{})
	ctx := context.Background()

	draft := validDraft()
	created, err := svc.CreateListing(ctx, draft, 120, "https://cdn.example.com/listings/1.jpg")
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())

	found, err := svc.FindListingByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Old sofa", found.Title)
	assert.Equal(t, models.CategoryHome, found.Category)
	assert.Equal(t, "sam@example.com", found.SellerEmail)
	assert.Equal(t, "https://cdn.example.com/listings/1.jpg", found.ImageURL)
	assert.False(t, found.CreatedAt.IsZero())
}

func TestListingServiceListNewestFirst(t *testing.T) {
	database := testDatabase(t)
	svc := NewListingService(database, &config.Config{})
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		draft := validDraft()
		draft.Title = fmt.Sprintf("Item %d", i)
		_, err := svc.CreateListing(ctx, draft, float64(i), "")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	listings, err := svc.ListListings(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 3)
	assert.Equal(t, "Item 3", listings[0].Title)
	assert.Equal(t, "Item 1", listings[2].Title)
}

func TestListingServiceListEmpty(t *testing.T) {
	database := testDatabase(t)
	svc := NewListingService(database, &config.Config{})

	listings, err := svc.ListListings(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, listings)
	assert.Empty(t, listings)
}

func TestListingServiceFindMissing(t *testing.T) {
	database := testDatabase(t)
	svc := NewListingService(database, &config.Config{})

	_, err := svc.FindListingByID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}
