package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/bookstore/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle state-specific keys
	if m.State == StateHelp {
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = StateBrowsing
		}
		return m, nil
	}

	// Route to active modal if any
	if m.QueryModal.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.QueryModal, cmd, submitted = m.QueryModal.Update(msg)
		if submitted {
			return m, m.changeQuery(m.QueryModal.Value())
		}
		return m, cmd
	}

	// Route to the screen on top of the grid if any
	if m.Screens.Len() > 0 {
		return m.handleScreenKey(msg)
	}

	// While typing a filter every key except ctrl+c belongs to the input
	if m.Grid.IsFilterTyping() {
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.Grid, cmd = m.Grid.Update(msg)
		return m, cmd
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.FavoritesOnly):
		return m, m.setFavoritesOnly(!m.FavoritesOnly)

	case key.Matches(msg, Keys.ToggleFavorite):
		if book := m.Grid.SelectedBook(); book != nil && m.Favorites != nil {
			return m, ToggleFavoriteCmd(m.Favorites, book)
		}
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		return m, m.refresh()

	case key.Matches(msg, Keys.Search):
		if m.Books == nil {
			return m, nil
		}
		m.QueryModal.Show("Search catalog", m.Books.Query())
		return m, textinput.Blink

	case key.Matches(msg, Keys.Filter) && !m.Grid.IsFiltering():
		m.Grid.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Enter):
		return m, m.openDetail()
	}

	// Grid navigation, then check whether the end came into view
	var cmd tea.Cmd
	m.Grid, cmd = m.Grid.Update(msg)
	return m, tea.Batch(cmd, m.maybeLoadNext())
}

// handleScreenKey handles keys while a detail screen is visible
func (m Model) handleScreenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Back):
		m.Screens.Pop()
		return m, nil
	}

	if detail := m.topDetail(); detail != nil {
		switch {
		case key.Matches(msg, Keys.ToggleFavorite):
			if book := detail.Book(); book != nil && m.Favorites != nil {
				return m, ToggleFavoriteCmd(m.Favorites, book)
			}
			return m, nil

		case key.Matches(msg, Keys.OpenLink):
			book := detail.Book()
			if book == nil || book.LinkURL() == "" {
				return m, func() tea.Msg { return StatusMsg{Message: "No link for this book", IsError: true} }
			}
			if m.Opener == nil {
				return m, nil
			}
			return m, OpenLinkCmd(m.Opener, book.LinkURL())
		}
	}

	return m, m.Screens.Top().Update(msg)
}

// handleMouseMsg handles wheel scrolling and clicks
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.State != StateBrowsing || m.QueryModal.IsVisible() {
		return m, nil
	}

	if top := m.Screens.Top(); top != nil {
		return m, top.Update(msg)
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.Grid.ScrollBy(-1)
		return m, nil

	case tea.MouseButtonWheelDown:
		m.Grid.ScrollBy(1)
		return m, m.maybeLoadNext()

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		if msg.Y < HeaderHeight {
			if msg.X < m.checkboxWidth() {
				return m, m.setFavoritesOnly(!m.FavoritesOnly)
			}
			return m, nil
		}
		if idx, ok := m.Grid.IndexAt(msg.X, msg.Y-HeaderHeight); ok {
			m.Grid.SetCursor(idx)
			return m, m.openDetail()
		}
	}

	return m, nil
}

// gridKeyHelp lists the grid bindings for the help screen
func gridKeyHelp() []key.Binding {
	g := components.GridKeys
	return []key.Binding{g.Up, g.Down, g.Left, g.Right, g.Home, g.End, g.HalfDown, g.PageDown}
}
