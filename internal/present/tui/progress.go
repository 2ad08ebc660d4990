package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/genieblog/internal/controller"
)

// StepMsg reports a progress step change.
type StepMsg struct {
	Step   controller.Step
	Status controller.Status
}

// DoneMsg ends the progress view.
type DoneMsg struct{ Err error }

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	badgeBase  = lipgloss.NewStyle().Padding(0, 1)
	badges     = map[controller.Status]lipgloss.Style{
		controller.StatusPending:    badgeBase.Foreground(lipgloss.Color("245")),
		controller.StatusProcessing: badgeBase.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")),
		controller.StatusCompleted:  badgeBase.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("42")),
		controller.StatusError:      badgeBase.Foreground(lipgloss.Color("231")).Background(lipgloss.Color("160")),
	}
	helpStyle = lipgloss.NewStyle().Faint(true)
)

// ProgressModel shows the four generation steps with a spinner.
type ProgressModel struct {
	topic   string
	spinner spinner.Model
	status  map[controller.Step]controller.Status
	done    bool
	err     error
	cancel  func()
}

func NewProgressModel(topic string, cancel func()) ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	st := make(map[controller.Step]controller.Status, len(controller.Steps))
	for _, step := range controller.Steps {
		st[step] = controller.StatusPending
	}
	return ProgressModel{topic: topic, spinner: s, status: st, cancel: cancel}
}

func (m ProgressModel) Init() tea.Cmd { return m.spinner.Tick }

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StepMsg:
		m.status[msg.Step] = msg.Status
		return m, nil
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Status returns the current status of step.
func (m ProgressModel) Status(step controller.Step) controller.Status { return m.status[step] }

func (m ProgressModel) View() string {
	var b strings.Builder
	head := m.spinner.View() + " "
	if m.done {
		head = ""
	}
	b.WriteString(head + titleStyle.Render(fmt.Sprintf("Generating blog: %s", m.topic)) + "\n\n")
	for _, step := range controller.Steps {
		st := m.status[step]
		fmt.Fprintf(&b, "  %d. %-20s %s\n", int(step), step.String(), badges[st].Render(st.Label()))
	}
	if !m.done {
		b.WriteString("\n" + helpStyle.Render("ctrl+c to cancel") + "\n")
	}
	return b.String()
}

// ProgressUI runs a ProgressModel in the background.
type ProgressUI struct {
	p    *tea.Program
	done chan error
}

// StartProgress starts the progress program. cancel is invoked when the
// user interrupts.
func StartProgress(ctx context.Context, topic string, in io.Reader, out io.Writer, cancel func()) *ProgressUI {
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(out)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	} else {
		opts = append(opts, tea.WithInput(nil))
	}
	u := &ProgressUI{
		p:    tea.NewProgram(NewProgressModel(topic, cancel), opts...),
		done: make(chan error, 1),
	}
	go func() {
		_, err := u.p.Run()
		u.done <- err
	}()
	return u
}

func (u *ProgressUI) SetStep(step controller.Step, status controller.Status) {
	u.p.Send(StepMsg{Step: step, Status: status})
}

// Stop ends the program and waits for it to restore the terminal.
func (u *ProgressUI) Stop(err error) {
	u.p.Send(DoneMsg{Err: err})
	<-u.done
}
