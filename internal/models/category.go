package models

import "fmt"

// Category is the closed set of listing categories.
type Category string

const (
	// CategoryAll is a filter sentinel meaning "no category filter".
	// It is never stored on a listing.
	CategoryAll Category = "all"

	CategoryVehicles    Category = "vehicles"
	CategoryProperty    Category = "property"
	CategoryApparel     Category = "apparel"
	CategoryElectronics Category = "electronics"
	CategorySports      Category = "sports"
	CategoryHome        Category = "home"
)

// categoryLabels is the single source of truth mapping category ids to
// human-readable display labels.
var categoryLabels = map[Category]string{
	CategoryVehicles:    "Vehicles",
	CategoryProperty:    "Property Rentals",
	CategoryApparel:     "Apparel",
	CategoryElectronics: "Electronics",
	CategorySports:      "Sports & Outdoors",
	CategoryHome:        "Home & Garden",
}

// Categories returns all storable categories in display order.
func Categories() []Category {
	return []Category{
		CategoryVehicles,
		CategoryProperty,
		CategoryApparel,
		CategoryElectronics,
		CategorySports,
		CategoryHome,
	}
}

// Valid reports whether c is a storable category (CategoryAll is not).
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display label for a category, or the raw id if unknown.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// ParseCategory parses a category id, rejecting values outside the closed set.
// The "all" sentinel is not accepted here; use ParseCategoryFilter for filters.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// ParseCategoryFilter parses a category filter value. An empty string or "all"
// selects the CategoryAll sentinel.
func ParseCategoryFilter(s string) (Category, error) {
	if s == "" || s == string(CategoryAll) {
		return CategoryAll, nil
	}
	return ParseCategory(s)
}

// Condition is the closed set of listing conditions. A listing may have no
// condition at all; the zero value represents "not specified".
type Condition string

const (
	ConditionNone    Condition = ""
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like-new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
)

var conditionLabels = map[Condition]string{
	ConditionNew:     "New",
	ConditionLikeNew: "Like New",
	ConditionGood:    "Good",
	ConditionFair:    "Fair",
	ConditionPoor:    "Poor",
}

// Valid reports whether c is an allowed condition value. The empty value is
// valid because condition is optional.
func (c Condition) Valid() bool {
	if c == ConditionNone {
		return true
	}
	_, ok := conditionLabels[c]
	return ok
}

// Label returns the display label for a condition; empty for ConditionNone.
func (c Condition) Label() string {
	return conditionLabels[c]
}
