package pagination

import "sync"

// FetchFunc asks the caller to fetch the page starting at offset. The
// result comes back through UpdateItems.
type FetchFunc func(offset int)

// Accumulator collects the items of a paged list across fetches
type Accumulator[T any] struct {
	mu sync.Mutex

	opts  Options
	state State
	items []T

	loadingFirstPage bool
	loadingMore      bool

	fetch FetchFunc
}

// NewAccumulator creates an empty accumulator. fetch may be nil when the
// caller drives fetching itself.
func NewAccumulator[T any](opts Options, fetch FetchFunc) *Accumulator[T] {
	return &Accumulator[T]{
		opts:  opts,
		state: New(opts),
		fetch: fetch,
	}
}

// StartFirstPage flags a first-page load in progress
func (a *Accumulator[T]) StartFirstPage() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loadingFirstPage = true
	a.loadingMore = false
}

// StartLoadingMore flags a follow-up page load in progress
func (a *Accumulator[T]) StartLoadingMore() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loadingMore = true
	a.loadingFirstPage = false
}

// Refresh flags a first-page load and asks for the page at the initial offset
func (a *Accumulator[T]) Refresh() {
	a.mu.Lock()
	a.loadingFirstPage = true
	a.loadingMore = false
	offset := nonNegative(a.opts.InitialOffset)
	fetch := a.fetch
	a.mu.Unlock()

	if fetch != nil {
		fetch(offset)
	}
}

// LoadMore requests the next page when more items exist and nothing is
// loading. Returns whether a request was made.
func (a *Accumulator[T]) LoadMore() bool {
	a.mu.Lock()
	if a.loadingFirstPage || a.loadingMore || !a.canLoadMoreLocked() {
		a.mu.Unlock()
		return false
	}
	a.loadingMore = true
	offset := a.fetchOffsetLocked()
	fetch := a.fetch
	a.mu.Unlock()

	if fetch != nil {
		fetch(offset)
	}
	return true
}

// UpdateItems records a fetched batch. With replace the batch becomes the
// whole list, otherwise it is appended. Both loading flags are cleared.
func (a *Accumulator[T]) UpdateItems(newItems []T, total *int, replace bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if replace {
		fresh := New(a.opts)
		fresh.Total = a.state.Total
		a.items = append([]T(nil), newItems...)
		a.state = Update(fresh, newItems, total)
	} else {
		a.items = append(a.items, newItems...)
		a.state = Update(a.state, newItems, total)
	}

	a.loadingFirstPage = false
	a.loadingMore = false
}

// FailLoading clears the loading flags after a failed fetch, keeping items
func (a *Accumulator[T]) FailLoading() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loadingFirstPage = false
	a.loadingMore = false
}

// Reset starts over with opts, or with the current options when opts is nil
func (a *Accumulator[T]) Reset(opts *Options) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if opts != nil {
		a.opts = *opts
	}
	a.state = New(a.opts)
	a.items = nil
	a.loadingFirstPage = false
	a.loadingMore = false
}

// Items returns a copy of the accumulated items
func (a *Accumulator[T]) Items() []T {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]T(nil), a.items...)
}

// Len returns the number of accumulated items
func (a *Accumulator[T]) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.items)
}

// State returns the current pagination state
func (a *Accumulator[T]) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Meta returns the metadata derived from the current state
func (a *Accumulator[T]) Meta() Meta {
	return Derive(a.State())
}

// Options returns the options the accumulator was last reset with
func (a *Accumulator[T]) Options() Options {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.opts
}

// CanLoadMore reports whether items beyond the accumulated ones exist
func (a *Accumulator[T]) CanLoadMore() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.canLoadMoreLocked()
}

// IsLoadingFirstPage reports whether a first-page load is in progress
func (a *Accumulator[T]) IsLoadingFirstPage() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadingFirstPage
}

// IsLoadingMore reports whether a follow-up page load is in progress
func (a *Accumulator[T]) IsLoadingMore() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadingMore
}

// IsLoading reports whether any load is in progress
func (a *Accumulator[T]) IsLoading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadingFirstPage || a.loadingMore
}

// The next fetch starts right after the accumulated items. State.Offset
// and LoadedItems both advance per batch, so Meta.NextOffset and
// Meta.HasMore run ahead of the real position once a page is loaded.
func (a *Accumulator[T]) fetchOffsetLocked() int {
	return nonNegative(a.opts.InitialOffset) + len(a.items)
}

func (a *Accumulator[T]) canLoadMoreLocked() bool {
	return a.fetchOffsetLocked() < a.state.Total
}
