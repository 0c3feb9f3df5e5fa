package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/bookstore/internal/domain"
	"github.com/mmcdole/bookstore/internal/tui/styles"
)

// Layout constants for the detail screen
const (
	DetailBorderHeight = 2
	DetailFooterLines  = 2 // blank line + key hints
	labelWidth         = 12
)

// BookDetail displays the full metadata for one book. The header is fixed and
// the description scrolls in a viewport.
type BookDetail struct {
	book     *domain.Book
	favorite bool

	width    int
	height   int
	viewport viewport.Model
}

// NewBookDetail creates a detail screen for book
func NewBookDetail(book *domain.Book, favorite bool) *BookDetail {
	d := &BookDetail{
		book:     book,
		favorite: favorite,
		viewport: viewport.New(0, 0),
	}
	d.viewport.KeyMap = viewport.KeyMap{
		Up:       DetailKeys.Up,
		Down:     DetailKeys.Down,
		PageUp:   DetailKeys.PageUp,
		PageDown: DetailKeys.PageDown,
	}
	d.viewport.SetContent(d.description())
	return d
}

// Book returns the displayed book
func (d *BookDetail) Book() *domain.Book {
	return d.book
}

// Title returns the breadcrumb title
func (d *BookDetail) Title() string {
	if d.book == nil {
		return "Book"
	}
	return d.book.DisplayTitle()
}

// IsFavorite reports the favorite state shown on screen
func (d *BookDetail) IsFavorite() bool {
	return d.favorite
}

// SetFavorite updates the favorite marker
func (d *BookDetail) SetFavorite(favorite bool) {
	d.favorite = favorite
	d.refreshHeight()
}

// SetBook replaces the displayed book, keeping the scroll position when the
// ID is unchanged.
func (d *BookDetail) SetBook(book *domain.Book) {
	sameBook := d.book != nil && book != nil && d.book.ID == book.ID
	d.book = book
	d.refreshHeight()
	d.viewport.SetContent(d.description())
	if !sameBook {
		d.viewport.GotoTop()
	}
}

// SetSize updates the component dimensions
func (d *BookDetail) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.viewport.Width = max(1, d.contentWidth())
	d.refreshHeight()
	d.viewport.SetContent(d.description())
}

// refreshHeight fits the viewport between the header and the footer
func (d *BookDetail) refreshHeight() {
	header := lipgloss.Height(d.renderHeader(d.contentWidth()))
	d.viewport.Height = max(1, d.height-DetailBorderHeight-header-DetailFooterLines)
}

func (d *BookDetail) contentWidth() int {
	// Border takes 2 chars, Padding(0,1) another 2
	return max(10, d.width-4)
}

// Update scrolls the description
func (d *BookDetail) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, DetailKeys.Up, DetailKeys.Down, DetailKeys.PageUp, DetailKeys.PageDown):
		default:
			return nil
		}
	}
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return cmd
}

// View renders the component
func (d *BookDetail) View() string {
	width := d.contentWidth()

	parts := []string{d.renderHeader(width), d.viewport.View(), "", d.renderFooter(width)}
	content := strings.Join(parts, "\n")

	// Width and Height include padding but not the border
	style := styles.ActiveBorder.Padding(0, 1)
	return style.
		Width(max(0, d.width-BorderWidth)).
		Height(max(0, d.height-DetailBorderHeight)).
		MaxHeight(d.height).
		Render(content)
}

// renderHeader renders the fixed metadata block
func (d *BookDetail) renderHeader(width int) string {
	b := d.book
	if b == nil {
		return styles.DimStyle.Render("No book selected")
	}

	var lines []string
	lines = append(lines, styles.FavoriteMarker(d.favorite)+" "+styles.TitleStyle.Render(styles.Truncate(b.Title, width-2)))
	if b.Subtitle != "" {
		lines = append(lines, styles.SubtitleStyle.Render(styles.Truncate(b.Subtitle, width)))
	}
	lines = append(lines, "")

	row := func(label, value string) {
		if value == "" {
			return
		}
		lines = append(lines, styles.DimStyle.Render(styles.Pad(label, labelWidth))+
			styles.Truncate(value, max(1, width-labelWidth)))
	}

	row("Authors", b.AuthorLine())
	row("Publisher", b.Publisher)
	row("Published", b.PublishedDate)
	if b.PageCount > 0 {
		row("Pages", fmt.Sprintf("%d", b.PageCount))
	}
	row("Categories", strings.Join(b.Categories, ", "))
	if b.AverageRating > 0 {
		row("Rating", fmt.Sprintf("%.1f/5 (%d ratings)", b.AverageRating, b.RatingsCount))
	}
	row("Price", b.FormattedPrice())
	lines = append(lines, "")

	return strings.Join(lines, "\n")
}

// description returns the wrapped description for the viewport
func (d *BookDetail) description() string {
	if d.book == nil || d.book.Description == "" {
		return styles.DimStyle.Render("No description available.")
	}
	return lipgloss.NewStyle().Width(max(1, d.contentWidth())).Render(d.book.Description)
}

// renderFooter renders the key hints and scroll position
func (d *BookDetail) renderFooter(width int) string {
	favLabel := "favorite"
	if d.favorite {
		favLabel = "unfavorite"
	}
	hints := []string{
		styles.HelpKeyStyle.Render("f") + " " + styles.HelpDescStyle.Render(favLabel),
	}
	if d.book != nil && d.book.LinkURL() != "" {
		hints = append(hints, styles.HelpKeyStyle.Render("o")+" "+styles.HelpDescStyle.Render("open link"))
	}
	hints = append(hints, styles.HelpKeyStyle.Render("esc")+" "+styles.HelpDescStyle.Render("back"))

	line := strings.Join(hints, "  ")
	if !d.viewport.AtTop() || !d.viewport.AtBottom() {
		line += styles.DimStyle.Render(fmt.Sprintf("  %3.f%%", d.viewport.ScrollPercent()*100))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}
