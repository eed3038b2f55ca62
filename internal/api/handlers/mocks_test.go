package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"curbside/market/internal/models"
	"curbside/market/internal/services"
)

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) CreateListing(ctx context.Context, draft models.ListingDraft, price float64, imageURL string) (*models.Listing, error) {
	args := m.Called(ctx, draft, price, imageURL)
	if l, ok := args.Get(0).(*models.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingService) ListListings(ctx context.Context) ([]models.Listing, error) {
	args := m.Called(ctx)
	if l, ok := args.Get(0).([]models.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingService) FindListingByID(ctx context.Context, listingID primitive.ObjectID) (*models.Listing, error) {
	args := m.Called(ctx, listingID)
	if l, ok := args.Get(0).(*models.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) SubmitListing(ctx context.Context, draft models.ListingDraft, img *services.ImageUpload) (*models.Listing, error) {
	args := m.Called(ctx, draft, img)
	if l, ok := args.Get(0).(*models.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) SendMessage(ctx context.Context, listingID primitive.ObjectID, draft models.MessageDraft) (*models.Message, error) {
	args := m.Called(ctx, listingID, draft)
	if msg, ok := args.Get(0).(*models.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}
