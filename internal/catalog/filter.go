package catalog

import (
	"strings"

	"curbside/market/internal/models"
)

// Filter derives the displayed subset of a listing collection from the
// selected category and the free-text search input. It is pure and
// deterministic: relative order of surviving listings is preserved, so a
// newest-first input stays newest-first. Search text is trimmed first; text
// that is empty after trimming applies no filter. Matching is a
// case-insensitive substring test against title or description.
func Filter(listings []models.Listing, category models.Category, search string) []models.Listing {
	out := listings

	if category != models.CategoryAll {
		kept := make([]models.Listing, 0, len(out))
		for _, l := range out {
			if l.Category == category {
				kept = append(kept, l)
			}
		}
		out = kept
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	if needle != "" {
		kept := make([]models.Listing, 0, len(out))
		for _, l := range out {
			if strings.Contains(strings.ToLower(l.Title), needle) ||
				strings.Contains(strings.ToLower(l.Description), needle) {
				kept = append(kept, l)
			}
		}
		out = kept
	}

	return out
}
