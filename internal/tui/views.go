package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/bookstore/internal/tui/styles"
)

const favoritesLabel = "Favorites only (F)"

// View renders the whole screen
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	if m.QueryModal.IsVisible() {
		return lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.QueryModal.View())
	}

	var content string
	if top := m.Screens.Top(); top != nil {
		content = top.View()
	} else {
		content = m.Grid.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

// checkboxWidth is the clickable width of the favorites checkbox in the header
func (m Model) checkboxWidth() int {
	return lipgloss.Width(styles.Checkbox(favoritesLabel, m.FavoritesOnly))
}

// renderHeader renders the favorites checkbox and the breadcrumb
func (m Model) renderHeader() string {
	left := styles.Checkbox(favoritesLabel, m.FavoritesOnly)

	crumbs := []string{m.Title}
	if m.FavoritesOnly {
		crumbs[0] = "Favorites"
	}
	crumbs = append(crumbs, m.Screens.Breadcrumb()...)
	crumb := strings.Join(crumbs, " > ")

	count := ""
	if m.Screens.Len() == 0 && m.Grid.Total() > 0 {
		count = fmt.Sprintf(" (%d)", m.Grid.Total())
	}

	rightWidth := max(0, m.Width-lipgloss.Width(left)-2)
	right := styles.AccentStyle.Render(styles.Truncate(crumb+count, rightWidth))

	gap := max(1, m.Width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

// renderFooter renders the spinner/status on the left and the help hint on the right
func (m Model) renderFooter() string {
	var left string
	if m.Loading {
		text := "Loading books..."
		if m.loadingNext {
			text = "Loading more..."
		} else if m.FavoritesOnly {
			text = "Loading favorites..."
		}
		left = m.Spinner.View() + " " + styles.DimStyle.Render(text)
	} else if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	} else if m.HasReachedEnd && !m.FavoritesOnly && m.Screens.Len() == 0 {
		left = styles.DimStyle.Render("End of list")
	}

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	gap := max(0, m.Width-lipgloss.Width(left)-lipgloss.Width(right))
	return styles.StatusBarStyle.Render(left + strings.Repeat(" ", gap) + right)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(styles.ModalTitleStyle.Render("Keys"))
	b.WriteString("\n")

	section := func(title string, bindings []key.Binding) {
		b.WriteString(styles.AccentStyle.Render(title) + "\n")
		for _, kb := range bindings {
			h := kb.Help()
			b.WriteString("  " + styles.HelpKeyStyle.Render(styles.Pad(h.Key, 10)) + " " + styles.HelpDescStyle.Render(h.Desc) + "\n")
		}
		b.WriteString("\n")
	}

	section("GRID", gridKeyHelp())
	section("BOOKS", []key.Binding{Keys.Enter, Keys.ToggleFavorite, Keys.FavoritesOnly, Keys.Filter, Keys.Search, Keys.Refresh})
	section("DETAIL", []key.Binding{Keys.ToggleFavorite, Keys.OpenLink, Keys.Back})
	section("OTHER", []key.Binding{Keys.Help, Keys.Quit})

	b.WriteString(styles.DimStyle.Render("Press ? or esc to return..."))

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(b.String()))
}
