package view

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	name  string
	phone string
}

func personFields() []func(person) string {
	return []func(person) string{
		func(p person) string { return p.name },
		func(p person) string { return p.phone },
	}
}

func TestFilterMatchesAnyField(t *testing.T) {
	people := []person{
		{"Alice Hart", "0871234567"},
		{"Bob Stone", "0861111111"},
		{"Carol Hartley", "0851234999"},
	}

	got := Filter(people, "hart", personFields()...)
	require.Len(t, got, 2)
	assert.Equal(t, "Alice Hart", got[0].name)
	assert.Equal(t, "Carol Hartley", got[1].name)

	// phone field matches too
	got = Filter(people, "1111", personFields()...)
	require.Len(t, got, 1)
	assert.Equal(t, "Bob Stone", got[0].name)
}

func TestFilterIsCaseInsensitive(t *testing.T) {
	people := []person{{"Alice Hart", ""}}

	for _, q := range []string{"ALICE", "alice", "aLiCe H"} {
		assert.Len(t, Filter(people, q, personFields()...), 1, q)
	}
}

func TestFilterEmptyQueryMatchesEverything(t *testing.T) {
	people := []person{{"a", ""}, {"b", ""}, {"c", ""}}
	got := Filter(people, "", personFields()...)
	assert.Equal(t, people, got)
}

func TestFilterPreservesOrderAndInput(t *testing.T) {
	people := []person{{"b hart", ""}, {"a hart", ""}, {"c hart", ""}}
	got := Filter(people, "hart", personFields()...)

	require.Len(t, got, 3)
	assert.Equal(t, "b hart", got[0].name)
	assert.Equal(t, "a hart", got[1].name)
	assert.Equal(t, "c hart", got[2].name)
}

func TestSuggestPreservesVocabularyOrder(t *testing.T) {
	vocab := []string{"Podiatrist", "Dermatologist", "Pediatrician", "Psychiatrist", "General Practitioner"}

	got := Suggest(vocab, "iatr")
	assert.Equal(t, []string{"Podiatrist", "Pediatrician", "Psychiatrist"}, got)

	got = Suggest(vocab, "")
	assert.Equal(t, vocab, got)

	assert.Empty(t, Suggest(vocab, "cardio"))
}

func TestPaginateClampsOutOfRangePages(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i + 1
	}

	// way past the end: clamps to the last page, items 21..25
	page := Paginate(items, 10, 99)
	assert.Equal(t, 3, page.Number)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, []int{21, 22, 23, 24, 25}, page.Items)

	// below the start: clamps to page 1
	page = Paginate(items, 10, 0)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, page.Items)
}

func TestPaginateEmptyCollection(t *testing.T) {
	page := Paginate([]int{}, 10, 5)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalItems)
}

func TestPaginateNonPositiveSizeYieldsSinglePage(t *testing.T) {
	items := []int{1, 2, 3}
	page := Paginate(items, 0, 7)
	assert.Equal(t, items, page.Items)
	assert.Equal(t, 1, page.TotalPages)
}

func TestFilterThenPaginateComposition(t *testing.T) {
	// paginate(filter(C,q)) must equal slicing the full filtered set:
	// filtering is never applied to an already-paginated slice.
	var people []person
	for i := 0; i < 57; i++ {
		name := fmt.Sprintf("match %02d", i)
		if i%3 == 0 {
			name = fmt.Sprintf("other %02d", i)
		}
		people = append(people, person{name: name})
	}

	for _, q := range []string{"", "match", "05"} {
		filtered := Filter(people, q, personFields()...)
		for size := 1; size <= 12; size += 4 {
			for number := 0; number <= 8; number++ {
				page := Paginate(filtered, size, number)

				want := sliceByHand(filtered, size, number)
				assert.Equal(t, want, page.Items, "q=%q size=%d page=%d", q, size, number)
			}
		}
	}
}

func sliceByHand[T any](items []T, size, number int) []T {
	totalPages := (len(items) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}
	start := (number - 1) * size
	if start > len(items) {
		start = len(items)
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
