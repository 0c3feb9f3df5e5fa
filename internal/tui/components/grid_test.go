package components

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/bookstore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBooks(n int) []*domain.Book {
	books := make([]*domain.Book, n)
	for i := range books {
		books[i] = &domain.Book{ID: fmt.Sprintf("b%d", i), Title: fmt.Sprintf("Book %d", i)}
	}
	return books
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// newSizedGrid returns a focused 2-column grid showing two full rows
func newSizedGrid(books []*domain.Book) BookGrid {
	g := NewBookGrid(2)
	g.SetFocused(true)
	g.SetSize(40, BorderHeight+ScrollIndicatorLines+2*CellHeight)
	g.SetBooks(books)
	return g
}

func TestBookGridDefaults(t *testing.T) {
	g := NewBookGrid(0)
	assert.Equal(t, DefaultGridColumns, g.Columns())
	assert.Equal(t, 0, g.Len())
	assert.Equal(t, -1, g.LastFullyVisible())
	assert.False(t, g.AtEnd())
	assert.Nil(t, g.SelectedBook())
}

func TestBookGridLastFullyVisible(t *testing.T) {
	g := newSizedGrid(makeBooks(20))
	require.Equal(t, 2, g.VisibleRows())

	assert.Equal(t, 3, g.LastFullyVisible())
	assert.False(t, g.AtEnd())

	g, _ = g.Update(runes("G"))
	assert.Equal(t, 19, g.Cursor())
	assert.Equal(t, 19, g.LastFullyVisible())
	assert.True(t, g.AtEnd())
}

func TestBookGridShortListIsAtEnd(t *testing.T) {
	g := newSizedGrid(makeBooks(3))
	assert.Equal(t, 2, g.LastFullyVisible())
	assert.True(t, g.AtEnd())
}

func TestBookGridMovement(t *testing.T) {
	g := newSizedGrid(makeBooks(5))

	g, _ = g.Update(runes("l"))
	assert.Equal(t, 1, g.Cursor())

	g, _ = g.Update(runes("j"))
	assert.Equal(t, 3, g.Cursor())

	// Partial last row: down lands on the last book
	g, _ = g.Update(runes("j"))
	assert.Equal(t, 4, g.Cursor())

	g, _ = g.Update(runes("k"))
	assert.Equal(t, 2, g.Cursor())

	g, _ = g.Update(runes("h"))
	assert.Equal(t, 1, g.Cursor())

	g, _ = g.Update(runes("g"))
	assert.Equal(t, 0, g.Cursor())

	// Up from the first row stays put
	g, _ = g.Update(runes("k"))
	assert.Equal(t, 0, g.Cursor())
}

func TestBookGridIgnoresKeysWhenUnfocused(t *testing.T) {
	g := newSizedGrid(makeBooks(5))
	g.SetFocused(false)

	g, _ = g.Update(runes("G"))
	assert.Equal(t, 0, g.Cursor())
}

func TestBookGridAppendKeepsSelection(t *testing.T) {
	g := newSizedGrid(makeBooks(4))
	g.SetCursor(3)

	g.AppendBooks([]*domain.Book{{ID: "x1"}, {ID: "x2"}})
	assert.Equal(t, 6, g.Len())
	assert.Equal(t, 3, g.Cursor())
	assert.Equal(t, "b3", g.SelectedBook().ID)
	assert.False(t, g.AtEnd())
}

func TestBookGridSetBooksReplaces(t *testing.T) {
	g := newSizedGrid(makeBooks(10))
	g.SetCursor(9)

	g.SetBooks(makeBooks(2))
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 0, g.Cursor())

	g.Clear()
	assert.Equal(t, 0, g.Len())
	assert.Nil(t, g.SelectedBook())
}

func TestBookGridBooksReturnsCopy(t *testing.T) {
	g := newSizedGrid(makeBooks(2))
	books := g.Books()
	books[0] = &domain.Book{ID: "intruder"}
	assert.Equal(t, "b0", g.BookAt(0).ID)
}

func TestBookGridScrollBy(t *testing.T) {
	g := newSizedGrid(makeBooks(10))

	g.ScrollBy(2)
	assert.Equal(t, 7, g.LastFullyVisible())
	assert.Equal(t, 4, g.Cursor(), "cursor dragged into the window")

	g.ScrollBy(100)
	assert.True(t, g.AtEnd())

	g.ScrollBy(-100)
	assert.Equal(t, 3, g.LastFullyVisible())
}

func TestBookGridIndexAt(t *testing.T) {
	g := newSizedGrid(makeBooks(3))
	// width 40: cells are 19 wide starting after the 1-char border,
	// rows start after the border and the top scroll indicator
	idx, ok := g.IndexAt(2, 2)
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = g.IndexAt(25, 2)
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, ok = g.IndexAt(2, 2+CellHeight)
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = g.IndexAt(25, 2+CellHeight)
	assert.False(t, ok, "no book in that cell")

	_, ok = g.IndexAt(0, 0)
	assert.False(t, ok)
}

func TestBookGridFilter(t *testing.T) {
	books := []*domain.Book{
		{ID: "1", Title: "Learning Swift"},
		{ID: "2", Title: "Go in Action"},
		{ID: "3", Title: "Swift UI"},
		{ID: "4", Title: "Cooking", Authors: []string{"Mark Swifton"}},
	}
	g := newSizedGrid(books)

	g.SetFilterQuery("swift")
	require.True(t, g.IsFiltering())
	require.Equal(t, 3, g.Len())
	assert.ElementsMatch(t, []string{"1", "3"}, []string{g.BookAt(0).ID, g.BookAt(1).ID})
	assert.Equal(t, "4", g.BookAt(2).ID, "author matches follow title matches")
	assert.Equal(t, 4, g.Total())

	// Escape while typing clears the filter
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, g.IsFiltering())
	assert.Equal(t, 4, g.Len())
}

func TestBookGridSetBooksKeepsFilter(t *testing.T) {
	g := newSizedGrid([]*domain.Book{{ID: "1", Title: "Swift"}, {ID: "2", Title: "Go"}})
	g.SetFilterQuery("swift")
	require.Equal(t, 1, g.Len())

	g.SetBooks([]*domain.Book{{ID: "1", Title: "Swift"}, {ID: "2", Title: "Go"}, {ID: "3", Title: "Swift UI"}})
	assert.True(t, g.IsFiltering())
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 3, g.Total())

	g.ClearFilter()
	assert.False(t, g.IsFiltering())
	assert.Equal(t, 3, g.Len())
}

func TestBookGridFilterNavigation(t *testing.T) {
	g := newSizedGrid(makeBooks(12))
	g.ToggleFilter()
	assert.True(t, g.IsFilterTyping())

	for _, r := range "11" {
		g, _ = g.Update(runes(string(r)))
	}
	require.Equal(t, 1, g.Len())
	assert.Equal(t, "b11", g.SelectedBook().ID)

	// Enter accepts the filter and returns keys to navigation
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, g.IsFiltering())
	assert.False(t, g.IsFilterTyping())
}

func TestBookGridViewShowsFavorites(t *testing.T) {
	g := newSizedGrid([]*domain.Book{{ID: "fav", Title: "Loved"}, {ID: "meh", Title: "Other"}})
	g.SetFavoriteChecker(func(id string) bool { return id == "fav" })

	view := g.View()
	assert.Contains(t, view, "Loved")
	assert.Contains(t, view, "Other")
	assert.Contains(t, view, "♥")
	assert.Contains(t, view, "♡")
}

func TestBookGridEmptyView(t *testing.T) {
	g := newSizedGrid(nil)
	g.SetEmptyText("Nothing here")
	assert.Contains(t, g.View(), "Nothing here")
}
