package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"
)

// ReaderModel shows rendered content in a bordered, scrollable viewport.
type ReaderModel struct {
	title   string
	content string
	vp      viewport.Model
	box     lipglossv2.Style
	padX    int
	padY    int
}

func NewReaderModel(title, content string, termW, termH int) ReaderModel {
	m := ReaderModel{title: title, content: content, padX: 2, padY: 0}
	m.resize(termW, termH)
	return m
}

func (m *ReaderModel) resize(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w, h := termW-2, termH-2
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.box = lipglossv2.NewStyle().
		Width(w).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))

	innerW := max(10, w-2-m.padX*2)
	innerH := max(3, h-2-m.padY*2-1)
	if m.vp.Width == 0 {
		m.vp = viewport.New(innerW, innerH)
	} else {
		m.vp.Width = innerW
		m.vp.Height = innerH
	}
	m.vp.SetContent(m.content)
}

func (m ReaderModel) Init() tea.Cmd { return nil }

func (m ReaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(x.Width, x.Height)
		return m, nil
	case tea.KeyMsg:
		switch x.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m ReaderModel) View() string {
	header := lipglossv2.NewStyle().Bold(true).Render(m.title)
	return m.box.Render(header + "\n" + m.vp.View())
}

// Read shows content full screen until the user quits.
func Read(title, content string) error {
	_, err := tea.NewProgram(NewReaderModel(title, content, 0, 0), tea.WithAltScreen()).Run()
	return err
}
