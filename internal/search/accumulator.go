// ABOUTME: Pagination and dedup accumulator for region searches
// ABOUTME: Tracks the page cursor and seen identifiers so "load more" never renders duplicates

package search

import (
	"context"
	"sync"

	"github.com/MarvinLeRouge/geochallenge-cli/internal/api"
)

// FetchFunc loads one page of a region query.
type FetchFunc func(ctx context.Context, page int) (*api.CachePage, error)

// Accumulator fetches successive pages for a single region and forwards
// each result item at most once. One accumulator belongs to one page
// instance; it is never shared across searches.
type Accumulator struct {
	mu         sync.Mutex
	fetch      FetchFunc
	page       int
	totalPages int
	total      int
	seen       map[string]struct{}
	busy       bool
	gen        int
}

// New creates an accumulator with no region defined; Search is a no-op
// until SetFetch installs one.
func New() *Accumulator {
	return &Accumulator{
		page:       1,
		totalPages: 1,
		seen:       make(map[string]struct{}),
	}
}

// SetFetch installs the fetch function for a newly committed region and
// opens a fresh accumulation window.
func (a *Accumulator) SetFetch(f FetchFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fetch = f
	a.reset()
}

// Reset restores the cursor to page 1 and empties the seen-set. Triggered
// by region or radius changes.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset()
}

func (a *Accumulator) reset() {
	a.page = 1
	a.totalPages = 1
	a.total = 0
	a.seen = make(map[string]struct{})
	a.gen++
}

// CanSearch reports whether a Search call would actually fetch: not busy,
// a region is defined, and pages remain.
func (a *Accumulator) CanSearch() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.busy && a.fetch != nil && a.page <= a.totalPages
}

// Exhausted reports whether the cursor has moved past the last known page.
func (a *Accumulator) Exhausted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fetch != nil && a.page > a.totalPages
}

// Page returns the 1-based cursor for the next fetch.
func (a *Accumulator) Page() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.page
}

// TotalPages returns the last known page count.
func (a *Accumulator) TotalPages() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totalPages
}

// Total returns the server-reported result total for display.
func (a *Accumulator) Total() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}

// Count returns how many distinct results have been accumulated.
func (a *Accumulator) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.seen)
}

// Search fetches the next page and returns only items not seen before.
// It is a silent no-op (nil, nil) when a fetch is in progress, no region
// is defined, or the page cursor is past the last page. Fetch errors leave
// all pagination state unchanged.
func (a *Accumulator) Search(ctx context.Context) ([]api.Cache, error) {
	a.mu.Lock()
	if a.busy || a.fetch == nil || a.page > a.totalPages {
		a.mu.Unlock()
		return nil, nil
	}
	a.busy = true
	fetch := a.fetch
	page := a.page
	gen := a.gen
	a.mu.Unlock()

	result, err := fetch(ctx, page)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.busy = false

	if err != nil {
		return nil, err
	}
	if gen != a.gen {
		// The region changed while the fetch was in flight; the result
		// belongs to the previous accumulation window
		return nil, nil
	}

	served := result.Page
	if served == 0 {
		served = page
	}
	a.page = served + 1
	a.totalPages = result.TotalPages(served)
	a.total = result.DisplayTotal()

	fresh := make([]api.Cache, 0, len(result.Items))
	for _, item := range result.Items {
		if _, dup := a.seen[item.ID]; dup {
			continue
		}
		a.seen[item.ID] = struct{}{}
		fresh = append(fresh, item)
	}
	return fresh, nil
}
