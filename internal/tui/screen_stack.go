package tui

import tea "github.com/charmbracelet/bubbletea"

// Screen is a full-size view pushed on top of the book grid
type Screen interface {
	Title() string
	SetSize(width, height int)
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// Navigator is the capability the grid uses to open another screen
type Navigator interface {
	PushScreen(screen Screen)
}

// ScreenStack manages the screens layered over the grid.
// The grid itself is the implicit root; an empty stack means the grid is shown.
//
//	Root:    [Grid]
//	Detail:  [Grid] > [Book detail]
type ScreenStack struct {
	screens []Screen
}

// NewScreenStack creates a new empty screen stack
func NewScreenStack() *ScreenStack {
	return &ScreenStack{}
}

// Len returns the number of screens in the stack
func (s *ScreenStack) Len() int {
	return len(s.screens)
}

// Top returns the topmost (visible) screen, or nil when the grid is showing
func (s *ScreenStack) Top() Screen {
	if len(s.screens) == 0 {
		return nil
	}
	return s.screens[len(s.screens)-1]
}

// PushScreen adds a screen on top. Implements Navigator.
func (s *ScreenStack) PushScreen(screen Screen) {
	s.screens = append(s.screens, screen)
}

// Pop removes and returns the top screen, or nil if the stack is empty
func (s *ScreenStack) Pop() Screen {
	if len(s.screens) == 0 {
		return nil
	}
	popped := s.screens[len(s.screens)-1]
	s.screens[len(s.screens)-1] = nil
	s.screens = s.screens[:len(s.screens)-1]
	return popped
}

// Clear removes all screens, returning to the grid
func (s *ScreenStack) Clear() {
	s.screens = nil
}

// SetSizes updates the size of all screens
func (s *ScreenStack) SetSizes(width, height int) {
	for _, screen := range s.screens {
		screen.SetSize(width, height)
	}
}

// Breadcrumb returns the titles of all screens, bottom first
func (s *ScreenStack) Breadcrumb() []string {
	titles := make([]string, len(s.screens))
	for i, screen := range s.screens {
		titles[i] = screen.Title()
	}
	return titles
}
