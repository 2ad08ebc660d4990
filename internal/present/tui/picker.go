package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/genieblog/internal/util"
	"github.com/mithrel/genieblog/pkg/api"
)

// PickerModel is a table of saved blogs with a fuzzy topic filter.
type PickerModel struct {
	all       []api.BlogSummary
	shown     []api.BlogSummary
	table     table.Model
	filter    textinput.Model
	filtering bool
	chosen    int64
	width     int
}

func NewPickerModel(blogs []api.BlogSummary) PickerModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter topics"

	t := table.New(
		table.WithColumns(pickerColumns(80)),
		table.WithFocused(true),
		table.WithHeight(min(15, max(3, len(blogs)+1))),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := PickerModel{all: blogs, table: t, filter: ti}
	m.apply()
	return m
}

func pickerColumns(width int) []table.Column {
	topicW := width - 6 - 16 - 8
	if topicW < 20 {
		topicW = 20
	}
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Topic", Width: topicW},
		{Title: "Created", Width: 16},
	}
}

func (m *PickerModel) apply() {
	m.shown = util.MatchTopics(m.filter.Value(), m.all)
	rows := make([]table.Row, 0, len(m.shown))
	for _, b := range m.shown {
		created := ""
		if !b.CreatedAt.IsZero() {
			created = b.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, table.Row{strconv.FormatInt(b.ID, 10), b.Topic, created})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

func (m PickerModel) Init() tea.Cmd { return nil }

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetColumns(pickerColumns(msg.Width))
		return m, nil
	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "enter", "esc":
				m.filtering = false
				m.filter.Blur()
				m.table.Focus()
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.apply()
			return m, cmd
		}
		switch msg.String() {
		case "/":
			m.filtering = true
			m.table.Blur()
			return m, m.filter.Focus()
		case "enter":
			if c := m.table.Cursor(); c >= 0 && c < len(m.shown) {
				m.chosen = m.shown[c].ID
			}
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// Chosen returns the selected blog id, or 0 when the picker was dismissed.
func (m PickerModel) Chosen() int64 { return m.chosen }

func (m PickerModel) View() string {
	if len(m.all) == 0 {
		return "(no blogs)\n"
	}
	help := helpStyle.Render("↑/↓ navigate • / filter • enter read • q quit")
	if m.filtering || m.filter.Value() != "" {
		return m.filter.View() + "\n" + m.table.View() + "\n" + help + "\n"
	}
	return m.table.View() + "\n" + help + "\n"
}

// PickBlog opens the picker and returns the chosen id (0 when none).
func PickBlog(blogs []api.BlogSummary) (int64, error) {
	final, err := tea.NewProgram(NewPickerModel(blogs)).Run()
	if err != nil {
		return 0, err
	}
	if m, ok := final.(PickerModel); ok {
		return m.Chosen(), nil
	}
	return 0, nil
}
