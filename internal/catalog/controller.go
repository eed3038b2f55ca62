package catalog

import (
	"context"
	"sync"

	"curbside/market/internal/models"
)

// ListingSource supplies the full listing collection, newest first.
type ListingSource interface {
	ListListings(ctx context.Context) ([]models.Listing, error)
}

// Controller holds the in-memory listing cache and the current view state
// (selected category and search text), and keeps the derived filtered view in
// sync with them. The displayed result is always a pure function of the cache
// and the current filters; it is never mutated independently.
//
// The original design assumed a single-threaded UI event loop. HTTP serving
// is concurrent, so all state is guarded by a mutex; concurrent filter
// changes are last-write-wins, which matches the "one current view"
// semantics.
type Controller struct {
	source ListingSource

	mu       sync.RWMutex
	listings []models.Listing // last successfully fetched collection, newest first
	filtered []models.Listing
	category models.Category
	search   string
	loading  bool // true only until the initial fetch completes
	lastErr  error
}

// NewController creates a controller over the given source. The cache starts
// empty with the loading flag set; the caller is expected to trigger
// Refresh once, immediately after construction.
func NewController(source ListingSource) *Controller {
	return &Controller{
		source:   source,
		category: models.CategoryAll,
		loading:  true,
	}
}

// Refresh requests the full listing collection and replaces the cache
// atomically on success, re-deriving the filtered view. On failure the cache
// and the derived view are left unchanged and the error is recorded; no retry
// is attempted. There is no expiry and no partial invalidation: the cache is
// only ever replaced wholesale.
func (ctl *Controller) Refresh(ctx context.Context) error {
	listings, err := ctl.source.ListListings(ctx)

	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	ctl.loading = false
	if err != nil {
		ctl.lastErr = err
		return err
	}
	ctl.listings = listings
	ctl.lastErr = nil
	ctl.derive()
	return nil
}

// SetCategory changes the selected category and synchronously re-derives the
// filtered view.
func (ctl *Controller) SetCategory(category models.Category) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	ctl.category = category
	ctl.derive()
}

// SetSearchText changes the search text and synchronously re-derives the
// filtered view. No debouncing: the pipeline is a linear scan over an
// in-memory slice with no I/O.
func (ctl *Controller) SetSearchText(search string) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	ctl.search = search
	ctl.derive()
}

// derive recomputes the filtered view. Callers must hold the write lock.
func (ctl *Controller) derive() {
	ctl.filtered = Filter(ctl.listings, ctl.category, ctl.search)
}

// View filters the cache by the given category and search text without
// touching the stored view state. Reads that carry their own filters must use
// this instead of SetCategory/SetSearchText followed by Listings: the set-read
// pair is not atomic, and a concurrent filter change in between would make
// Listings answer for the other caller's filters.
func (ctl *Controller) View(category models.Category, search string) []models.Listing {
	ctl.mu.RLock()
	defer ctl.mu.RUnlock()
	return Filter(ctl.listings, category, search)
}

// Listings returns the current filtered view.
func (ctl *Controller) Listings() []models.Listing {
	ctl.mu.RLock()
	defer ctl.mu.RUnlock()
	return ctl.filtered
}

// Loading reports whether the initial fetch is still in flight.
func (ctl *Controller) Loading() bool {
	ctl.mu.RLock()
	defer ctl.mu.RUnlock()
	return ctl.loading
}

// Err returns the error recorded by the most recent failed Refresh, or nil
// if the last Refresh succeeded.
func (ctl *Controller) Err() error {
	ctl.mu.RLock()
	defer ctl.mu.RUnlock()
	return ctl.lastErr
}
