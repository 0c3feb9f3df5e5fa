package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	authorsearch "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/bookstore/internal/domain"
	"github.com/mmcdole/bookstore/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Layout constants for the book grid
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Padding inside a cell border (Padding(0,1) = 1 left + 1 right)
	CellPadding = 2

	// Lines of text inside a cell: title, authors, meta
	CellContentLines = 3
	CellHeight       = CellContentLines + BorderHeight

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2

	// Filter bar below the grid when active
	FilterBarLines = 1

	DefaultGridColumns = 2
)

// BookGrid is a fixed-column grid of book cards. It plays the role of the
// list adapter: books can be replaced, appended and cleared.
type BookGrid struct {
	books   []*domain.Book
	columns int

	// Selection and scroll window, in filtered index space
	cursor      int
	rowOffset   int
	visibleRows int

	// Dimensions
	width   int
	height  int
	focused bool

	isFavorite func(id string) bool
	emptyText  string

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into books
}

// NewBookGrid creates a grid with the given number of columns
func NewBookGrid(columns int) BookGrid {
	if columns <= 0 {
		columns = DefaultGridColumns
	}

	ti := textinput.New()
	ti.Placeholder = "title or author..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return BookGrid{
		columns:     columns,
		visibleRows: 1,
		emptyText:   "No books",
		filterInput: ti,
	}
}

// SetBooks replaces the grid contents and resets the selection.
// An active filter stays applied to the new contents.
func (g *BookGrid) SetBooks(books []*domain.Book) {
	g.books = append([]*domain.Book(nil), books...)
	g.cursor = 0
	g.rowOffset = 0
	if g.filterActive {
		g.applyFilter()
	}
}

// AppendBooks adds books after the current contents, keeping the selection
func (g *BookGrid) AppendBooks(books []*domain.Book) {
	g.books = append(g.books, books...)
	if g.filterActive && g.filterQuery != "" {
		cursor := g.cursor
		g.applyFilter()
		g.SetCursor(cursor)
	}
}

// Clear removes all books
func (g *BookGrid) Clear() {
	g.SetBooks(nil)
}

// Books returns a copy of all books in display order (ignores filter)
func (g BookGrid) Books() []*domain.Book {
	return append([]*domain.Book(nil), g.books...)
}

// Len returns the number of visible books (accounting for filter)
func (g BookGrid) Len() int {
	if g.filteredIdx != nil {
		return len(g.filteredIdx)
	}
	return len(g.books)
}

// Total returns the number of books regardless of filter
func (g BookGrid) Total() int {
	return len(g.books)
}

// Columns returns the number of grid columns
func (g BookGrid) Columns() int {
	return g.columns
}

// SetSize updates the component dimensions
func (g *BookGrid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.recalcVisibleRows()
}

// recalcVisibleRows calculates how many full rows of cells fit
func (g *BookGrid) recalcVisibleRows() {
	interior := g.height - BorderHeight - ScrollIndicatorLines
	if g.filterActive {
		interior -= FilterBarLines
	}
	g.visibleRows = interior / CellHeight
	if g.visibleRows < 1 {
		g.visibleRows = 1
	}
	g.ensureVisible()
}

// VisibleRows returns the number of fully visible rows
func (g BookGrid) VisibleRows() int {
	return g.visibleRows
}

// SetFocused sets the focus state
func (g *BookGrid) SetFocused(focused bool) {
	g.focused = focused
}

// SetFavoriteChecker sets the lookup used to draw favorite markers
func (g *BookGrid) SetFavoriteChecker(fn func(id string) bool) {
	g.isFavorite = fn
}

// SetEmptyText sets the message shown when the grid has no books
func (g *BookGrid) SetEmptyText(text string) {
	g.emptyText = text
}

// Cursor returns the current cursor position
func (g BookGrid) Cursor() int {
	return g.cursor
}

// SetCursor moves the cursor, clamped to the visible books
func (g *BookGrid) SetCursor(pos int) {
	last := g.Len() - 1
	if last < 0 {
		g.cursor = 0
		g.rowOffset = 0
		return
	}
	g.cursor = max(0, min(pos, last))
	g.ensureVisible()
}

// SelectedBook returns the book under the cursor, or nil
func (g BookGrid) SelectedBook() *domain.Book {
	if g.cursor >= g.Len() {
		return nil
	}
	return g.books[g.mapIndex(g.cursor)]
}

// BookAt returns the visible book at index i, or nil
func (g BookGrid) BookAt(i int) *domain.Book {
	if i < 0 || i >= g.Len() {
		return nil
	}
	return g.books[g.mapIndex(i)]
}

// LastFullyVisible returns the index of the last book whose cell is
// completely on screen, or -1 when the grid is empty.
func (g BookGrid) LastFullyVisible() int {
	count := g.Len()
	if count == 0 {
		return -1
	}
	last := (g.rowOffset+g.visibleRows)*g.columns - 1
	return min(last, count-1)
}

// AtEnd reports whether the last book is fully visible
func (g BookGrid) AtEnd() bool {
	count := g.Len()
	return count > 0 && g.LastFullyVisible() == count-1
}

// rowCount returns the number of rows needed for the visible books
func (g BookGrid) rowCount() int {
	return (g.Len() + g.columns - 1) / g.columns
}

// ensureVisible scrolls so the cursor row is on screen
func (g *BookGrid) ensureVisible() {
	row := g.cursor / g.columns
	if row < g.rowOffset {
		g.rowOffset = row
	}
	if row >= g.rowOffset+g.visibleRows {
		g.rowOffset = row - g.visibleRows + 1
	}
	maxOffset := max(0, g.rowCount()-g.visibleRows)
	if g.rowOffset > maxOffset {
		g.rowOffset = maxOffset
	}
}

// ScrollBy moves the window by delta rows, dragging the cursor along
func (g *BookGrid) ScrollBy(delta int) {
	count := g.Len()
	if count == 0 {
		return
	}
	maxOffset := max(0, g.rowCount()-g.visibleRows)
	g.rowOffset = max(0, min(g.rowOffset+delta, maxOffset))

	row, col := g.cursor/g.columns, g.cursor%g.columns
	if row < g.rowOffset {
		row = g.rowOffset
	}
	if row >= g.rowOffset+g.visibleRows {
		row = g.rowOffset + g.visibleRows - 1
	}
	g.cursor = min(row*g.columns+col, count-1)
}

// IndexAt maps a position relative to the grid's top-left corner to a
// visible book index.
func (g BookGrid) IndexAt(x, y int) (int, bool) {
	cellWidth := g.cellWidth()
	innerX := x - BorderWidth/2
	innerY := y - BorderHeight/2 - 1 // top scroll indicator
	if innerX < 0 || innerY < 0 || cellWidth <= 0 {
		return 0, false
	}
	row, col := innerY/CellHeight, innerX/cellWidth
	if row >= g.visibleRows || col >= g.columns {
		return 0, false
	}
	idx := (g.rowOffset+row)*g.columns + col
	if idx >= g.Len() {
		return 0, false
	}
	return idx, true
}

// cellWidth returns the outer width of one cell
func (g BookGrid) cellWidth() int {
	return (g.width - BorderWidth) / g.columns
}

// ToggleFilter activates the filter input
func (g *BookGrid) ToggleFilter() {
	g.filterActive = true
	g.filterInput.Focus()
	g.recalcVisibleRows()
}

// IsFiltering returns true if filter mode is active
func (g BookGrid) IsFiltering() bool {
	return g.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (g BookGrid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all books
func (g *BookGrid) ClearFilter() {
	g.clearFilter()
}

func (g *BookGrid) clearFilter() {
	g.filterActive = false
	g.filterQuery = ""
	g.filteredIdx = nil
	g.filterInput.SetValue("")
	g.filterInput.Blur()
	g.recalcVisibleRows()
}

// SetFilterQuery applies query as if it had been typed
func (g *BookGrid) SetFilterQuery(query string) {
	if !g.filterActive {
		g.ToggleFilter()
	}
	g.filterInput.SetValue(query)
	g.applyFilter()
}

// applyFilter ranks titles by fuzzy match, then adds books whose authors match
func (g *BookGrid) applyFilter() {
	query := g.filterInput.Value()
	g.filterQuery = query

	if query == "" {
		g.filteredIdx = nil
		return
	}

	lowerTitles := make([]string, len(g.books))
	for i, b := range g.books {
		lowerTitles[i] = strings.ToLower(b.Title)
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerTitles)
	seen := make(map[int]bool, len(matches))
	g.filteredIdx = make([]int, 0, len(matches))
	for _, match := range matches {
		g.filteredIdx = append(g.filteredIdx, match.Index)
		seen[match.Index] = true
	}

	for i, b := range g.books {
		if seen[i] {
			continue
		}
		for _, author := range b.Authors {
			if authorsearch.MatchFold(query, author) {
				g.filteredIdx = append(g.filteredIdx, i)
				break
			}
		}
	}

	// Reset cursor to first match
	g.cursor = 0
	g.rowOffset = 0
}

// mapIndex maps a cursor position to the actual index in books
func (g BookGrid) mapIndex(i int) int {
	if g.filteredIdx != nil && i < len(g.filteredIdx) {
		return g.filteredIdx[i]
	}
	return i
}

// Init initializes the component
func (g BookGrid) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (g BookGrid) Update(msg tea.Msg) (BookGrid, tea.Cmd) {
	if !g.focused {
		return g, nil
	}

	keyMsg, isKey := msg.(tea.KeyMsg)

	// Filter input when active AND focused (typing mode)
	if g.filterActive && g.filterInput.Focused() {
		if isKey {
			switch {
			case key.Matches(keyMsg, GridKeys.Escape):
				g.clearFilter()
				return g, nil
			case key.Matches(keyMsg, GridKeys.Enter):
				// Accept filter, blur input to allow navigation
				g.filterInput.Blur()
				return g, nil
			case keyMsg.Type == tea.KeyBackspace && g.filterInput.Value() == "":
				g.clearFilter()
				return g, nil
			}
		}

		var cmd tea.Cmd
		g.filterInput, cmd = g.filterInput.Update(msg)
		g.applyFilter()
		return g, cmd
	}

	if !isKey {
		return g, nil
	}

	// Filter active but blurred (navigating filtered results)
	if g.filterActive {
		switch {
		case key.Matches(keyMsg, GridKeys.Escape):
			g.clearFilter()
			return g, nil
		case key.Matches(keyMsg, GridKeys.Filter):
			g.filterInput.Focus()
			return g, nil
		}
	}

	count := g.Len()
	if count == 0 {
		return g, nil
	}

	switch {
	case key.Matches(keyMsg, GridKeys.Up):
		if g.cursor-g.columns >= 0 {
			g.cursor -= g.columns
		}
	case key.Matches(keyMsg, GridKeys.Down):
		if g.cursor+g.columns < count {
			g.cursor += g.columns
		} else if g.cursor/g.columns < g.rowCount()-1 {
			// Partial last row: land on the last book
			g.cursor = count - 1
		}
	case key.Matches(keyMsg, GridKeys.Left):
		if g.cursor > 0 {
			g.cursor--
		}
	case key.Matches(keyMsg, GridKeys.Right):
		if g.cursor < count-1 {
			g.cursor++
		}
	case key.Matches(keyMsg, GridKeys.Home):
		g.cursor = 0
	case key.Matches(keyMsg, GridKeys.End):
		g.cursor = count - 1
	case key.Matches(keyMsg, GridKeys.HalfDown):
		g.cursor = min(count-1, g.cursor+max(1, g.visibleRows/2)*g.columns)
	case key.Matches(keyMsg, GridKeys.HalfUp):
		g.cursor = max(0, g.cursor-max(1, g.visibleRows/2)*g.columns)
	case key.Matches(keyMsg, GridKeys.PageDown):
		g.cursor = min(count-1, g.cursor+g.visibleRows*g.columns)
	case key.Matches(keyMsg, GridKeys.PageUp):
		g.cursor = max(0, g.cursor-g.visibleRows*g.columns)
	default:
		return g, nil
	}
	g.ensureVisible()

	return g, nil
}

// View renders the component
func (g BookGrid) View() string {
	style := styles.InactiveBorder
	if g.focused {
		style = styles.ActiveBorder
	}

	content := g.renderGrid()

	// Subtract frame (border) size so total rendered size equals g.width x g.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(max(0, g.width-frameW)).
		Height(max(0, g.height-frameH)).
		Render(content)
}

// renderGrid renders the scroll indicators and visible rows of cells
func (g BookGrid) renderGrid() string {
	count := g.Len()
	if count == 0 {
		emptyMsg := styles.DimStyle.Render(g.emptyText)
		if g.filterActive && g.filterQuery != "" {
			emptyMsg = styles.DimStyle.Render("No matches")
		}
		content := " \n" + emptyMsg
		if g.filterActive {
			content += "\n" + g.renderFilterBar()
		}
		return content
	}

	// ALWAYS reserve space for header (even if empty) to prevent layout shifts
	header := " "
	if g.rowOffset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}

	endRow := min(g.rowOffset+g.visibleRows, g.rowCount())
	rows := make([]string, 0, endRow-g.rowOffset)
	cellWidth := g.cellWidth()
	for r := g.rowOffset; r < endRow; r++ {
		cells := make([]string, 0, g.columns)
		for c := 0; c < g.columns; c++ {
			i := r*g.columns + c
			if i >= count {
				break
			}
			cells = append(cells, g.renderCell(g.books[g.mapIndex(i)], i == g.cursor, cellWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	footer := " "
	if endRow < g.rowCount() {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := header + "\n" + strings.Join(rows, "\n") + "\n" + footer
	if g.filterActive {
		content += "\n" + g.renderFilterBar()
	}
	return content
}

// renderCell renders one book card
func (g BookGrid) renderCell(b *domain.Book, selected bool, width int) string {
	style := styles.GridCellStyle
	titleStyle := styles.SubtitleStyle
	if selected {
		style = styles.GridCellSelectedStyle
		titleStyle = styles.TitleStyle
	}

	inner := max(1, width-BorderWidth-CellPadding)

	favorite := g.isFavorite != nil && g.isFavorite(b.ID)
	meta := styles.FavoriteMarker(favorite)
	if y := b.Year(); y > 0 {
		meta += fmt.Sprintf(" %d", y)
	}
	if b.Price != nil {
		meta += " · " + b.FormattedPrice()
	}

	lines := []string{
		titleStyle.Render(styles.Truncate(b.Title, inner)),
		styles.DimStyle.Render(styles.Truncate(b.AuthorLine(), inner)),
		meta,
	}

	return style.
		Width(max(1, width-BorderWidth)).
		Height(CellContentLines).
		MaxHeight(CellHeight).
		Render(strings.Join(lines, "\n"))
}

// renderFilterBar renders the filter input bar
func (g BookGrid) renderFilterBar() string {
	input := g.filterInput.View()
	if g.filterQuery == "" {
		return input
	}
	return input + styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", g.Len(), g.Total()))
}
