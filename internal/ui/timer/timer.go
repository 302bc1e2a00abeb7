package timer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"focustrack/internal/messages"
	"focustrack/internal/models"
	"focustrack/internal/submit"
	"focustrack/internal/tracker"
)

type tickMsg time.Time

type submitResultMsg struct {
	count int
	err   error
}

type Model struct {
	tracker *tracker.Tracker
	client  *submit.Client
	catalog messages.Catalog

	inputs     []textinput.Model // minutes, seconds
	focusIndex int

	status      string
	errorMsg    string
	lastSession *models.Session
	sending     bool
	width       int
	height      int
}

func New(tr *tracker.Tracker, client *submit.Client, catalog messages.Catalog) Model {
	m := Model{
		tracker: tr,
		client:  client,
		catalog: catalog,
		status:  catalog.Plain(messages.StatusReady),
	}

	if tr.Phase() == tracker.Running {
		m.status = catalog.Plain(messages.StatusResumed)
	}

	return m
}

func (m Model) Init() tea.Cmd {
	// Reload recovery: a session persisted as running resumes its tick.
	if m.tracker.Phase() == tracker.Running {
		return tickCmd()
	}
	return nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Only a running session re-arms the tick. Each tick re-reads the
		// clock, so a slow frame never queues extra updates.
		if m.tracker.Phase() == tracker.Running {
			return m, tickCmd()
		}
		return m, nil

	case submitResultMsg:
		m.sending = false
		if msg.err != nil {
			switch {
			case errors.Is(msg.err, submit.ErrNoSessions):
				m.status = m.catalog.Plain(messages.StatusNothingToSend)
			case errors.Is(msg.err, submit.ErrNotConfigured):
				m.status = m.catalog.Plain(messages.StatusNotConfigured)
			default:
				m.status = m.catalog.SendFailed(msg.err.Error())
			}
			return m, nil
		}
		if err := m.tracker.ClearHistory(); err != nil {
			m.status = m.catalog.SendFailed(err.Error())
			return m, nil
		}
		m.status = m.catalog.SendSuccess(msg.count)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.tracker.Phase() == tracker.AwaitingPrediction || m.tracker.Phase() == tracker.AwaitingEstimation {
		cmd := m.updateInputs(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.tracker.Phase() {
	case tracker.Idle:
		switch {
		case key.Matches(msg, keys.Start):
			if m.tracker.RequestStart() {
				m.openPrompt(2)
				m.errorMsg = ""
				return m, textinput.Blink
			}
		case key.Matches(msg, keys.Send):
			return m.beginSend()
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		}

	case tracker.AwaitingPrediction:
		switch {
		case key.Matches(msg, keys.Confirm):
			minutes := parseField(m.inputs[0].Value())
			seconds := parseField(m.inputs[1].Value())
			if err := m.tracker.ConfirmPrediction(minutes, seconds); err != nil {
				m.errorMsg = m.catalog.Plain(messages.PredictionZero)
				return m, nil
			}
			m.status = m.catalog.Plain(messages.StatusRunning)
			m.errorMsg = ""
			return m, tickCmd()

		case key.Matches(msg, keys.Skip):
			if err := m.tracker.SkipPrediction(); err != nil {
				m.errorMsg = err.Error()
				return m, nil
			}
			m.status = m.catalog.Plain(messages.StatusRunning)
			m.errorMsg = ""
			return m, tickCmd()

		case key.Matches(msg, keys.Cancel):
			m.tracker.CancelPrediction()
			m.errorMsg = ""
			return m, nil

		case key.Matches(msg, keys.Tab), key.Matches(msg, keys.ShiftTab):
			m.cycleFocus(key.Matches(msg, keys.ShiftTab))
			return m, nil

		default:
			cmd := m.updateInputs(msg)
			return m, cmd
		}

	case tracker.Running:
		switch {
		case key.Matches(msg, keys.Stop):
			elapsed, ok := m.tracker.RequestStop()
			if ok {
				m.status = m.catalog.Stopped(formatTime(elapsed))
				m.openPrompt(2)
				return m, textinput.Blink
			}
		case key.Matches(msg, keys.Quit):
			// Running state is already persisted; the next launch resumes.
			return m, tea.Quit
		}

	case tracker.AwaitingEstimation:
		switch {
		case key.Matches(msg, keys.Confirm):
			minutes := parseField(m.inputs[0].Value())
			seconds := parseField(m.inputs[1].Value())
			session, err := m.tracker.ConfirmEstimation(minutes, seconds)
			if err != nil {
				m.errorMsg = err.Error()
				return m, nil
			}
			m.finishSession(session)
			return m, nil

		case key.Matches(msg, keys.Skip), key.Matches(msg, keys.Cancel):
			session, err := m.tracker.SkipEstimation()
			if err != nil {
				m.errorMsg = err.Error()
				return m, nil
			}
			m.finishSession(session)
			return m, nil

		case key.Matches(msg, keys.Tab), key.Matches(msg, keys.ShiftTab):
			m.cycleFocus(key.Matches(msg, keys.ShiftTab))
			return m, nil

		default:
			cmd := m.updateInputs(msg)
			return m, cmd
		}
	}

	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) beginSend() (tea.Model, tea.Cmd) {
	if m.sending {
		return m, nil
	}

	history := m.tracker.History()
	participantID := m.tracker.ParticipantID()
	client := m.client

	m.sending = true
	m.status = m.catalog.Plain(messages.StatusSending)

	return m, func() tea.Msg {
		count, err := client.Submit(context.Background(), history, participantID)
		return submitResultMsg{count: count, err: err}
	}
}

func (m *Model) finishSession(session models.Session) {
	m.lastSession = &session
	m.status = m.catalog.Stopped(formatTime(session.Duration))
	m.errorMsg = ""
}

func (m *Model) openPrompt(fields int) {
	numericValidation := func(text string) error {
		for _, char := range text {
			if !unicode.IsDigit(char) {
				return fmt.Errorf("only numbers allowed")
			}
		}
		return nil
	}

	m.inputs = make([]textinput.Model, fields)
	for i := range m.inputs {
		m.inputs[i] = textinput.New()
		m.inputs[i].Placeholder = "0"
		m.inputs[i].CharLimit = 3
		m.inputs[i].Width = 6
		m.inputs[i].Validate = numericValidation
	}
	m.inputs[0].Focus()
	m.focusIndex = 0
}

func (m *Model) cycleFocus(backwards bool) {
	if backwards {
		m.focusIndex--
	} else {
		m.focusIndex++
	}
	if m.focusIndex >= len(m.inputs) {
		m.focusIndex = 0
	}
	if m.focusIndex < 0 {
		m.focusIndex = len(m.inputs) - 1
	}
	for i := range m.inputs {
		if i == m.focusIndex {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		oldValue := m.inputs[i].Value()
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
		if m.inputs[i].Value() != oldValue {
			m.errorMsg = ""
		}
	}
	return tea.Batch(cmds...)
}

// parseField clamps malformed or negative numeric text to zero.
func parseField(text string) int {
	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || value < 0 {
		return 0
	}
	return value
}

func formatTime(milliseconds int64) string {
	totalSeconds := milliseconds / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

func formatMillis(value *int64) string {
	if value == nil {
		return "--:--:--"
	}
	return formatTime(*value)
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	containerStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Padding(2)

	timerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Padding(1, 4).
		MarginBottom(1)

	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888")).
		MarginBottom(1)

	countStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FDFF8C"))

	sections := []string{
		timerStyle.Render(formatTime(m.tracker.Elapsed())),
		statusStyle.Render(m.status),
		countStyle.Render(m.catalog.Today(m.tracker.SessionsToday())),
	}

	switch m.tracker.Phase() {
	case tracker.AwaitingPrediction:
		sections = append(sections, m.renderPrompt(m.catalog.Plain(messages.PredictionPrompt)))
	case tracker.AwaitingEstimation:
		sections = append(sections, m.renderPrompt(m.catalog.Estimation(formatTime(m.tracker.Elapsed()))))
	}

	if m.lastSession != nil && m.tracker.Phase() == tracker.Idle {
		sections = append(sections, m.renderSummary())
	}

	if m.errorMsg != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)
		sections = append(sections, errorStyle.Render(m.errorMsg))
	}

	sections = append(sections, m.renderHelp())

	return containerStyle.Render(lipgloss.JoinVertical(lipgloss.Center, sections...))
}

func (m Model) renderPrompt(title string) string {
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FDFF8C")).
		MarginTop(1)

	row := lipgloss.JoinHorizontal(
		lipgloss.Center,
		m.inputs[0].View(), " min  ",
		m.inputs[1].View(), " sec",
	)

	return lipgloss.JoinVertical(lipgloss.Center, labelStyle.Render(title), row)
}

func (m Model) renderSummary() string {
	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4CAF50")).
		MarginTop(1)

	s := m.lastSession
	duration := s.Duration
	return summaryStyle.Render(fmt.Sprintf(
		"predicted %s • actual %s • estimated %s",
		formatMillis(s.PredictedDuration),
		formatTime(duration),
		formatMillis(s.EstimatedFocusDuration),
	))
}

func (m Model) renderHelp() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666")).
		MarginTop(2)

	var helpText string
	switch m.tracker.Phase() {
	case tracker.AwaitingPrediction:
		helpText = "enter: start • ctrl+s: start without prediction • esc: cancel • tab: next field"
	case tracker.Running:
		helpText = "x: stop • q: quit (session keeps running)"
	case tracker.AwaitingEstimation:
		helpText = "enter: confirm estimate • ctrl+s/esc: skip • tab: next field"
	default:
		if m.sending {
			helpText = "sending..."
		} else {
			helpText = "s: start • d: send data • q: quit"
		}
	}

	return helpStyle.Render(helpText)
}

type keyMap struct {
	Start    key.Binding
	Stop     key.Binding
	Send     key.Binding
	Confirm  key.Binding
	Skip     key.Binding
	Cancel   key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Start: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start"),
	),
	Stop: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "stop"),
	),
	Send: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "send data"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Skip: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "skip"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
