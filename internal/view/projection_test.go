package view

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	name string
	rank int
}

type backing struct {
	items []*item
}

func (b *backing) all() []*item { return append([]*item(nil), b.items...) }

func names(items []*item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.name
	}
	return out
}

func byName(a, b *item) int { return strings.Compare(a.name, b.name) }
func byRank(a, b *item) int { return a.rank - b.rank }

func TestProjectionDefaultsToEverything(t *testing.T) {
	b := &backing{items: []*item{{name: "Bob"}, {name: "Alice"}, {name: "Carol"}}}
	p := New(b.all)

	assert.Equal(t, []string{"Bob", "Alice", "Carol"}, names(p.Items()))
}

func TestProjectionFilterThenSort(t *testing.T) {
	b := &backing{items: []*item{{name: "Bob"}, {name: "Alice"}, {name: "Carol"}}}
	p := New(b.all)

	p.SetFilter(func(it *item) bool { return strings.Contains(strings.ToLower(it.name), "a") })
	p.SetSort(byName)

	assert.Equal(t, []string{"Alice", "Carol"}, names(p.Items()))
}

func TestProjectionIsLive(t *testing.T) {
	b := &backing{items: []*item{{name: "Bob"}}}
	p := New(b.all)
	p.SetSort(byName)

	b.items = append(b.items, &item{name: "Alice"})
	assert.Equal(t, []string{"Alice", "Bob"}, names(p.Items()))

	b.items = b.items[1:]
	assert.Equal(t, []string{"Alice"}, names(p.Items()))
}

func TestProjectionSortIsStableAndReversible(t *testing.T) {
	b := &backing{items: []*item{
		{name: "d", rank: 2},
		{name: "a", rank: 1},
		{name: "c", rank: 2},
		{name: "b", rank: 1},
	}}
	p := New(b.all)

	p.SetSort(byRank)
	assert.Equal(t, []string{"a", "b", "d", "c"}, names(p.Items()))

	p.SetSort(Reverse[*item](byRank))
	assert.Equal(t, []string{"d", "c", "a", "b"}, names(p.Items()))

	p.SetSort(Then[*item](byRank, byName))
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(p.Items()))

	p.SetSort(nil)
	assert.Equal(t, []string{"d", "a", "c", "b"}, names(p.Items()))
}

func TestProjectionNilFilterShowsAll(t *testing.T) {
	b := &backing{items: []*item{{name: "x"}, {name: "y"}}}
	p := New(b.all)
	p.SetFilter(func(*item) bool { return false })
	assert.Empty(t, p.Items())

	p.SetFilter(nil)
	assert.Len(t, p.Items(), 2)
}

func TestProjectionSharesElements(t *testing.T) {
	b := &backing{items: []*item{{name: "x"}}}
	p := New(b.all)
	got := p.Items()
	require.Len(t, got, 1)
	assert.Same(t, b.items[0], got[0])
}
