package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type stubScreen struct {
	title         string
	width, height int
}

func (s *stubScreen) Title() string              { return s.title }
func (s *stubScreen) SetSize(width, height int)  { s.width, s.height = width, height }
func (s *stubScreen) Update(msg tea.Msg) tea.Cmd { return nil }
func (s *stubScreen) View() string               { return s.title }

func TestScreenStackPushPop(t *testing.T) {
	s := NewScreenStack()
	assert.Nil(t, s.Top())
	assert.Nil(t, s.Pop())

	first := &stubScreen{title: "one"}
	second := &stubScreen{title: "two"}
	s.PushScreen(first)
	s.PushScreen(second)

	assert.Equal(t, 2, s.Len())
	assert.Same(t, second, s.Top())
	assert.Equal(t, []string{"one", "two"}, s.Breadcrumb())

	assert.Same(t, second, s.Pop())
	assert.Same(t, first, s.Top())

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestScreenStackSetSizes(t *testing.T) {
	s := NewScreenStack()
	a, b := &stubScreen{}, &stubScreen{}
	s.PushScreen(a)
	s.PushScreen(b)

	s.SetSizes(100, 40)
	assert.Equal(t, 100, a.width)
	assert.Equal(t, 40, b.height)
}
