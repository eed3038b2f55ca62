package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"curbside/market/internal/catalog"
	"curbside/market/internal/config"
	"curbside/market/internal/models"
	"curbside/market/internal/services"
)

// ListingHandler handles REST requests for listings.
type ListingHandler struct {
	cfg        *config.Config
	catalog    *catalog.Controller
	listings   services.IListingService
	submission services.ISubmissionService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(cfg *config.Config, ctl *catalog.Controller, listings services.IListingService, submission services.ISubmissionService) *ListingHandler {
	return &ListingHandler{
		cfg:        cfg,
		catalog:    ctl,
		listings:   listings,
		submission: submission,
	}
}

// Browse handles GET /v1/listings?category=&q=. Results come from the
// catalog controller: the in-memory cache filtered by the requested category
// and search text, newest first.
func (h *ListingHandler) Browse(c *gin.Context) {
	category, err := models.ParseCategoryFilter(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}

	// Record the filters as the current view, but answer from a snapshot
	// keyed to this request's own params: a concurrent browse may overwrite
	// the shared view state between these calls.
	h.catalog.SetCategory(category)
	h.catalog.SetSearchText(c.Query("q"))

	listings := h.catalog.View(category, c.Query("q"))
	if err := h.catalog.Err(); err != nil && len(listings) == 0 {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Listings are currently unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  listings,
		"count": len(listings),
	})
}

// GetListingByID handles GET /v1/listing/:id.
func (h *ListingHandler) GetListingByID(c *gin.Context) {
	listingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID format"})
		return
	}

	listing, err := h.listings.FindListingByID(c.Request.Context(), listingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		} else {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listing"})
		}
		return
	}

	c.JSON(http.StatusOK, listing)
}

// CreateListing handles POST /v1/listing as a multipart form: the draft
// fields plus a mandatory "image" file. On success the catalog is refreshed
// so the new listing shows up in the next browse.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	draft := models.ListingDraft{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Price:       c.PostForm("price"),
		Category:    models.Category(c.PostForm("category")),
		Condition:   models.Condition(c.PostForm("condition")),
		Location:    c.PostForm("location"),
		SellerEmail: c.PostForm("seller_email"),
	}

	img, err := h.readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.submission.SubmitListing(c.Request.Context(), draft, img)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create listing"})
		}
		return
	}

	// The create call committed; refresh the catalog wholesale so browse
	// reflects it. A failed refresh keeps the previous cache and is not the
	// submitter's problem.
	if h.catalog != nil {
		_ = h.catalog.Refresh(c.Request.Context())
	}

	c.JSON(http.StatusCreated, listing)
}

// readImage extracts the uploaded image file, if any. Size is capped before
// the bytes are read.
func (h *ListingHandler) readImage(c *gin.Context) (*services.ImageUpload, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		// Missing file is not an error here; the submission flow decides
		// whether an image is mandatory.
		return nil, nil
	}

	maxBytes := int64(h.cfg.ImageMaxSizeMB) << 20
	if maxBytes > 0 && fileHeader.Size > maxBytes {
		return nil, errors.New("image exceeds the maximum allowed size")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.New("could not read uploaded image")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.New("could not read uploaded image")
	}

	return &services.ImageUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// Categories handles GET /v1/categories: the closed category set with its
// display labels.
func Categories(c *gin.Context) {
	type categoryInfo struct {
		ID    models.Category `json:"id"`
		Label string          `json:"label"`
	}
	out := make([]categoryInfo, 0, len(models.Categories()))
	for _, cat := range models.Categories() {
		out = append(out, categoryInfo{ID: cat, Label: cat.Label()})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}
