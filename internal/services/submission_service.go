package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"

	"curbside/market/internal/config"
	"curbside/market/internal/models"
	"curbside/market/internal/storage"
)

// ImageUpload carries the raw bytes of an image attached to a listing draft.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ISubmissionService runs the listing creation flow: validate the draft,
// upload the image, resolve its public URL, then create the listing. The
// gateway create call is the single point of commitment; nothing earlier
// leaves a listing record behind.
type ISubmissionService interface {
	SubmitListing(ctx context.Context, draft models.ListingDraft, img *ImageUpload) (*models.Listing, error)
}

// submissionService implements ISubmissionService.
type submissionService struct {
	cfg      *config.Config
	listings IListingService
	store    storage.IObjectStore
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(cfg *config.Config, listings IListingService, store storage.IObjectStore) ISubmissionService {
	return &submissionService{cfg: cfg, listings: listings, store: store}
}

// SubmitListing validates and submits a draft listing. An image is mandatory
// here even though the listing schema treats image_url as optional: the
// submission surface deliberately enforces a stricter rule than the schema.
//
// Steps are strictly sequential: a failed upload or an unresolvable public
// URL aborts the flow before the listing create is ever attempted. An
// uploaded object orphaned by a late failure is accepted.
func (s *submissionService) SubmitListing(ctx context.Context, draft models.ListingDraft, img *ImageUpload) (*models.Listing, error) {
	price, err := validateDraft(&draft)
	if err != nil {
		return nil, err
	}
	if img == nil || len(img.Data) == 0 {
		return nil, fmt.Errorf("%w: an image is required", ErrValidation)
	}

	data, contentType := s.normalizeImage(img.Data, img.ContentType)
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key := storage.ObjectKey(img.Filename)
	if err := s.store.Put(ctx, key, contentType, data); err != nil {
		return nil, fmt.Errorf("image upload failed: %w", err)
	}

	imageURL, err := s.store.PublicURL(key)
	if err != nil {
		// Do not silently create an imageless listing when an image was
		// supplied.
		return nil, fmt.Errorf("uploaded image has no resolvable public URL: %w", err)
	}

	listing, err := s.listings.CreateListing(ctx, draft, price, imageURL)
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// validateDraft checks required fields and parses the price. Field values are
// trimmed in place so the stored listing carries the cleaned-up text.
func validateDraft(draft *models.ListingDraft) (float64, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.Location = strings.TrimSpace(draft.Location)
	draft.SellerEmail = strings.TrimSpace(draft.SellerEmail)

	switch {
	case draft.Title == "":
		return 0, fmt.Errorf("%w: title is required", ErrValidation)
	case utf8.RuneCountInString(draft.Title) > models.MaxTitleLen:
		return 0, fmt.Errorf("%w: title exceeds %d characters", ErrValidation, models.MaxTitleLen)
	case draft.Description == "":
		return 0, fmt.Errorf("%w: description is required", ErrValidation)
	case utf8.RuneCountInString(draft.Description) > models.MaxDescriptionLen:
		return 0, fmt.Errorf("%w: description exceeds %d characters", ErrValidation, models.MaxDescriptionLen)
	case draft.Location == "":
		return 0, fmt.Errorf("%w: location is required", ErrValidation)
	case draft.SellerEmail == "":
		return 0, fmt.Errorf("%w: seller email is required", ErrValidation)
	case !draft.Category.Valid():
		return 0, fmt.Errorf("%w: unknown category %q", ErrValidation, draft.Category)
	case !draft.Condition.Valid():
		return 0, fmt.Errorf("%w: unknown condition %q", ErrValidation, draft.Condition)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(draft.Price), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: price %q is not a number", ErrValidation, draft.Price)
	}
	// ParseFloat accepts "NaN" and "Inf" spellings.
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: price %q is not a number", ErrValidation, draft.Price)
	}
	if price < 0 {
		return 0, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	return price, nil
}

// normalizeImage downscales oversized images before upload, re-encoding as
// JPEG. Bytes that do not decode as a known image format pass through
// unchanged.
func (s *submissionService) normalizeImage(data []byte, contentType string) ([]byte, string) {
	maxDim := s.cfg.ImageMaxDimension
	if maxDim <= 0 {
		return data, contentType
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, contentType
	}
	bounds := img.Bounds()
	if bounds.Dx() <= maxDim && bounds.Dy() <= maxDim {
		return data, contentType
	}

	resized := resize.Thumbnail(uint(maxDim), uint(maxDim), img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		log.Printf("Failed to re-encode resized image, uploading original: %v", err)
		return data, contentType
	}
	return buf.Bytes(), "image/jpeg"
}
