package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetchRecorder struct {
	offsets []int
}

func (f *fetchRecorder) fetch(offset int) {
	f.offsets = append(f.offsets, offset)
}

func TestAccumulator_LoadingFlagsAreExclusive(t *testing.T) {
	acc := NewAccumulator[string](Options{Limit: 2}, nil)

	acc.StartFirstPage()
	assert.True(t, acc.IsLoadingFirstPage())
	assert.False(t, acc.IsLoadingMore())

	acc.StartLoadingMore()
	assert.False(t, acc.IsLoadingFirstPage())
	assert.True(t, acc.IsLoadingMore())

	acc.StartFirstPage()
	assert.True(t, acc.IsLoadingFirstPage())
	assert.False(t, acc.IsLoadingMore())
	assert.True(t, acc.IsLoading())
}

func TestAccumulator_UpdateItems(t *testing.T) {
	acc := NewAccumulator[string](Options{Limit: 2}, nil)

	acc.StartFirstPage()
	acc.UpdateItems([]string{"a", "b"}, Total(5), true)
	assert.Equal(t, []string{"a", "b"}, acc.Items())
	assert.False(t, acc.IsLoading())
	assert.Equal(t, State{Offset: 2, Limit: 2, Total: 5, LoadedItems: 2}, acc.State())

	acc.StartLoadingMore()
	acc.UpdateItems([]string{"c", "d"}, nil, false)
	assert.Equal(t, []string{"a", "b", "c", "d"}, acc.Items())
	assert.False(t, acc.IsLoading())
	assert.Equal(t, 5, acc.State().Total)

	// A refreshed first page replaces the list and does not double count
	acc.StartFirstPage()
	acc.UpdateItems([]string{"x", "y"}, nil, true)
	assert.Equal(t, []string{"x", "y"}, acc.Items())
	assert.Equal(t, State{Offset: 2, Limit: 2, Total: 5, LoadedItems: 2}, acc.State())
}

func TestAccumulator_LoadMore(t *testing.T) {
	rec := &fetchRecorder{}
	acc := NewAccumulator[int](Options{Limit: 10}, rec.fetch)

	acc.Refresh()
	require.Equal(t, []int{0}, rec.offsets)
	assert.False(t, acc.LoadMore(), "no follow-up while the first page loads")

	acc.UpdateItems(items(10), Total(25), true)
	assert.True(t, acc.CanLoadMore())
	assert.True(t, acc.LoadMore())
	assert.True(t, acc.IsLoadingMore())
	assert.False(t, acc.LoadMore(), "one request at a time")

	acc.UpdateItems(items(10), nil, false)
	assert.True(t, acc.LoadMore())
	acc.UpdateItems(items(5), nil, false)

	assert.False(t, acc.CanLoadMore())
	assert.False(t, acc.LoadMore())
	assert.Equal(t, []int{0, 10, 20}, rec.offsets)
	assert.Equal(t, 25, acc.Len())
}

func TestAccumulator_LoadMoreHonorsInitialOffset(t *testing.T) {
	rec := &fetchRecorder{}
	acc := NewAccumulator[int](Options{InitialOffset: 30, Limit: 10, InitialTotal: 45}, rec.fetch)

	acc.Refresh()
	acc.UpdateItems(items(10), nil, true)
	require.True(t, acc.LoadMore())

	assert.Equal(t, []int{30, 40}, rec.offsets)
}

func TestAccumulator_FailLoadingKeepsItems(t *testing.T) {
	acc := NewAccumulator[int](Options{Limit: 3}, nil)
	acc.UpdateItems(items(3), Total(10), true)

	acc.StartLoadingMore()
	acc.FailLoading()

	assert.False(t, acc.IsLoading())
	assert.Equal(t, 3, acc.Len())
}

func TestAccumulator_Reset(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(acc *Accumulator[int])
		opts    *Options
		want    State
	}{
		{
			name: "while loading the first page",
			prepare: func(acc *Accumulator[int]) {
				acc.StartFirstPage()
			},
			want: State{Limit: 4},
		},
		{
			name: "while loading more with items",
			prepare: func(acc *Accumulator[int]) {
				acc.UpdateItems(items(4), Total(9), true)
				acc.StartLoadingMore()
			},
			want: State{Limit: 4},
		},
		{
			name: "with new options",
			prepare: func(acc *Accumulator[int]) {
				acc.UpdateItems(items(4), Total(9), true)
			},
			opts: &Options{Limit: 50, InitialTotal: 7},
			want: State{Limit: 50, Total: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewAccumulator[int](Options{Limit: 4}, nil)
			tt.prepare(acc)

			acc.Reset(tt.opts)

			assert.Empty(t, acc.Items())
			assert.False(t, acc.IsLoadingFirstPage())
			assert.False(t, acc.IsLoadingMore())
			assert.Equal(t, tt.want, acc.State())
			if tt.opts != nil {
				assert.Equal(t, *tt.opts, acc.Options())
			}
		})
	}
}
