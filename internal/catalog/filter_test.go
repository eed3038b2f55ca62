package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"curbside/market/internal/models"
)

func fixtureListings() []models.Listing {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []models.Listing{
		{ID: primitive.NewObjectID(), Title: "Car", Description: "reliable commuter", Category: models.CategoryVehicles, CreatedAt: base.Add(2 * time.Hour)},
		{ID: primitive.NewObjectID(), Title: "Bike", Description: "carbon frame", Category: models.CategorySports, CreatedAt: base.Add(time.Hour)},
		{ID: primitive.NewObjectID(), Title: "Sofa", Description: "three seater", Category: models.CategoryHome, CreatedAt: base},
	}
}

func titles(listings []models.Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.Title)
	}
	return out
}

func TestFilterNoFiltersReturnsAll(t *testing.T) {
	listings := fixtureListings()
	got := Filter(listings, models.CategoryAll, "")
	assert.Equal(t, []string{"Car", "Bike", "Sofa"}, titles(got))
}

func TestFilterByCategory(t *testing.T) {
	listings := fixtureListings()

	got := Filter(listings, models.CategoryVehicles, "")
	assert.Equal(t, []string{"Car"}, titles(got))

	got = Filter(listings, models.CategoryApparel, "")
	assert.Empty(t, got)
}

func TestFilterSearchMatchesTitleOrDescription(t *testing.T) {
	listings := fixtureListings()

	// Title match, case-insensitive, partial.
	got := Filter(listings, models.CategoryAll, "bik")
	assert.Equal(t, []string{"Bike"}, titles(got))

	// Description match. "car" also appears in "carbon frame", and the title
	// "Car" matches too; order stays newest-first.
	got = Filter(listings, models.CategoryAll, "CAR")
	assert.Equal(t, []string{"Car", "Bike"}, titles(got))

	got = Filter(listings, models.CategoryAll, "three seater")
	assert.Equal(t, []string{"Sofa"}, titles(got))
}

func TestFilterSearchTrimsWhitespace(t *testing.T) {
	listings := fixtureListings()

	got := Filter(listings, models.CategoryAll, "   ")
	assert.Equal(t, []string{"Car", "Bike", "Sofa"}, titles(got))

	got = Filter(listings, models.CategoryAll, "  sofa  ")
	assert.Equal(t, []string{"Sofa"}, titles(got))
}

func TestFilterCombinesCategoryAndSearch(t *testing.T) {
	listings := fixtureListings()

	// "car" matches Bike's description, but the category gate runs too.
	got := Filter(listings, models.CategorySports, "car")
	assert.Equal(t, []string{"Bike"}, titles(got))

	got = Filter(listings, models.CategoryVehicles, "sofa")
	assert.Empty(t, got)
}

func TestFilterNoMatchYieldsEmptyNotNilPanic(t *testing.T) {
	got := Filter(nil, models.CategoryAll, "anything")
	assert.Empty(t, got)
}

func TestFilterIdempotent(t *testing.T) {
	listings := fixtureListings()
	once := Filter(listings, models.CategoryAll, "car")
	twice := Filter(once, models.CategoryAll, "car")
	assert.Equal(t, once, twice)

	once = Filter(listings, models.CategorySports, "bik")
	twice = Filter(once, models.CategorySports, "bik")
	assert.Equal(t, once, twice)
}

func TestFilterPreservesInput(t *testing.T) {
	listings := fixtureListings()
	before := titles(listings)
	_ = Filter(listings, models.CategoryHome, "sofa")
	assert.Equal(t, before, titles(listings))
}
