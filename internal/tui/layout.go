package tui

// Vertical layout: header line on top, status line at the bottom
const (
	HeaderHeight = 1
	FooterHeight = 1
	ChromeHeight = HeaderHeight + FooterHeight
)

// contentHeight returns the rows left for the grid or a screen
func (m Model) contentHeight() int {
	return max(0, m.Height-ChromeHeight)
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	height := m.contentHeight()
	m.Grid.SetSize(m.Width, height)
	m.Screens.SetSizes(m.Width, height)
}
