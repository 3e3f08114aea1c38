// Package pagination tracks offset/limit/total bookkeeping for paged lists.
// The functions on State are pure; Accumulator layers loading flags and an
// accumulated item list on top.
package pagination

// DefaultLimit is the page size used when none is given
const DefaultLimit = 20

// Options seeds a new State
type Options struct {
	InitialOffset int
	Limit         int
	InitialTotal  int
}

// State is the stored part of a paged list. Derived values live in Meta and
// are always recomputed.
type State struct {
	Offset      int `json:"offset" yaml:"offset"`
	Limit       int `json:"limit" yaml:"limit"`
	Total       int `json:"total" yaml:"total"`
	LoadedItems int `json:"loaded_items" yaml:"loaded_items"`
}

// Meta holds the values derived from a State
type Meta struct {
	HasMore     bool `json:"has_more" yaml:"has_more"`
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	TotalPages  int  `json:"total_pages" yaml:"total_pages"`
	NextOffset  int  `json:"next_offset" yaml:"next_offset"`
}

// New creates a State from opts. LoadedItems starts equal to the initial
// offset: items before the offset are assumed to be loaded already.
func New(opts Options) State {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	offset := nonNegative(opts.InitialOffset)
	return State{
		Offset:      offset,
		Limit:       limit,
		Total:       nonNegative(opts.InitialTotal),
		LoadedItems: offset,
	}
}

// Derive computes the page metadata of s
func Derive(s State) Meta {
	limit := s.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Meta{
		HasMore:     s.Offset+s.LoadedItems < s.Total,
		CurrentPage: s.Offset/limit + 1,
		TotalPages:  (s.Total + limit - 1) / limit,
		NextOffset:  s.Offset + limit,
	}
}

// Meta is shorthand for Derive(s)
func (s State) Meta() Meta {
	return Derive(s)
}

// Advance records a batch of n items and, when total is non-nil, a new total
func Advance(current State, n int, total *int) State {
	n = nonNegative(n)
	next := current
	next.LoadedItems += n
	next.Offset += n
	if total != nil {
		next.Total = nonNegative(*total)
	}
	return next
}

// Update records a freshly fetched batch of items
func Update[T any](current State, newItems []T, total *int) State {
	return Advance(current, len(newItems), total)
}

// Total wraps n for the optional total argument of Update and Advance
func Total(n int) *int {
	return &n
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
