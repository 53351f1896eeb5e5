package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/edugrade/portal/core/activity"
	"github.com/edugrade/portal/core/performance"
)

const (
	white     = lipgloss.Color("#FFFFFF")
	blue      = lipgloss.Color("#0043a8")
	grey      = lipgloss.Color("#626262")
	green     = lipgloss.Color("#50FA7B")
	red       = lipgloss.Color("#FF5555")
	yellow    = lipgloss.Color("#F1FA8C")
	lightBlue = lipgloss.Color("#8BE9FD")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lightBlue).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(white)
	helpStyle   = lipgloss.NewStyle().Foreground(grey).MarginTop(1)
	errorStyle  = lipgloss.NewStyle().Foreground(red)
	strongStyle = lipgloss.NewStyle().Foreground(green)
	weakStyle   = lipgloss.NewStyle().Foreground(red)
	badgeStyle  = lipgloss.NewStyle().Bold(true).Foreground(yellow)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(blue).Padding(0, 1)
)

var (
	errCredentialsRequired = errors.New("register number and password are required")
	errInvalidSemester     = errors.New("semester must be a positive number")
)

type viewType int

const (
	loginView viewType = iota
	loadingView
	performanceView
	notificationsView
)

const (
	fieldRegNo = iota
	fieldPassword
	fieldSemester
	fieldCount
)

type (
	loginMsg struct {
		session *Session
		err     error
	}

	reportMsg struct {
		report performance.Report
		err    error
	}

	eventsMsg struct {
		events []activity.Event
		err    error
	}
)

type model struct {
	client  *Client
	timeout time.Duration

	width       int
	height      int
	currentView viewType
	inputs      []textinput.Model
	focused     int
	spinner     spinner.Model
	loading     string
	err         error

	session  *Session
	report   *performance.Report
	subjects table.Model
	events   *EventLog
}

func newModel(client *Client, timeout time.Duration) model {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 64
		ti.Width = 28
		switch i {
		case fieldRegNo:
			ti.Placeholder = "Register number"
			ti.Focus()
		case fieldPassword:
			ti.Placeholder = "Password"
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		case fieldSemester:
			ti.Placeholder = "Semester"
			ti.CharLimit = 2
			ti.SetValue("1")
		}
		inputs[i] = ti
	}

	s := spinner.New()
	s.Style = lipgloss.NewStyle().Foreground(blue)
	s.Spinner = spinner.Points

	return model{
		client:      client,
		timeout:     timeout,
		currentView: loginView,
		inputs:      inputs,
		spinner:     s,
		subjects:    newSubjectsTable(),
		events:      NewEventLog(),
	}
}

func newSubjectsTable() table.Model {
	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "Code", Width: 9},
			{Title: "Subject", Width: 32},
			{Title: "Mark", Width: 6},
			{Title: "%", Width: 6},
			{Title: "Status", Width: 8},
		}),
		table.WithHeight(7),
		table.WithFocused(true),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).BorderForeground(grey).BorderBottom(true).Bold(true)
	s.Selected = s.Selected.Foreground(white).Background(blue)
	tbl.SetStyles(s)
	return tbl
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		if m.currentView != loadingView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loginMsg:
		if msg.err != nil {
			m.err = msg.err
			m.currentView = loginView
			return m, nil
		}
		semester, _ := strconv.Atoi(strings.TrimSpace(m.inputs[fieldSemester].Value()))
		msg.session.Semester = semester
		m.session = msg.session
		m.inputs[fieldPassword].SetValue("")
		m.loading = fmt.Sprintf("Loading semester %d results", semester)
		return m, tea.Batch(m.spinner.Tick, m.fetchReport(), m.fetchEvents())

	case reportMsg:
		if msg.err != nil {
			m.err = msg.err
			m.report = nil
		} else {
			m.err = nil
			m.report = &msg.report
			m.subjects.SetRows(subjectRows(msg.report))
		}
		m.currentView = performanceView

	case eventsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.events.Merge(msg.events)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKeyPress(msg)
	}

	return m, nil
}

func (m model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.currentView {
	case loginView:
		return m.handleLoginKeys(msg)
	case performanceView:
		return m.handlePerformanceKeys(msg)
	case notificationsView:
		return m.handleNotificationsKeys(msg)
	default:
		return m, nil
	}
}

func (m model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit

	case "tab", "down":
		cmd := m.focus((m.focused + 1) % fieldCount)
		return m, cmd

	case "shift+tab", "up":
		cmd := m.focus((m.focused - 1 + fieldCount) % fieldCount)
		return m, cmd

	case "enter":
		if m.focused < fieldSemester {
			cmd := m.focus(m.focused + 1)
			return m, cmd
		}
		return m.submitLogin()
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *model) focus(field int) tea.Cmd {
	m.focused = field
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == field {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m model) submitLogin() (tea.Model, tea.Cmd) {
	regNo := strings.TrimSpace(m.inputs[fieldRegNo].Value())
	pwd := m.inputs[fieldPassword].Value()
	if regNo == "" || pwd == "" {
		m.err = errCredentialsRequired
		return m, nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldSemester].Value())); err != nil || n <= 0 {
		m.err = errInvalidSemester
		return m, nil
	}

	m.err = nil
	m.loading = "Signing in"
	m.currentView = loadingView
	return m, tea.Batch(m.spinner.Tick, m.login(regNo, pwd))
}

func (m model) handlePerformanceKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "n":
		m.currentView = notificationsView
		return m, m.fetchEvents()
	case "r":
		m.loading = fmt.Sprintf("Refreshing semester %d results", m.session.Semester)
		m.currentView = loadingView
		return m, tea.Batch(m.spinner.Tick, m.fetchReport(), m.fetchEvents())
	case "l":
		return m.logout(), nil
	}

	var cmd tea.Cmd
	m.subjects, cmd = m.subjects.Update(msg)
	return m, cmd
}

func (m model) handleNotificationsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "p":
		// everything listed has now been seen
		if newest := m.events.Newest(); newest.After(m.session.LastSeen) {
			m.session.LastSeen = newest
		}
		m.currentView = performanceView
	case "r":
		return m, m.fetchEvents()
	}
	return m, nil
}

func (m model) logout() model {
	fresh := newModel(m.client, m.timeout)
	fresh.width, fresh.height = m.width, m.height
	return fresh
}

// Commands

func (m model) login(regNo, pwd string) tea.Cmd {
	client, timeout := m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		sess, err := client.Login(ctx, regNo, pwd)
		return loginMsg{session: sess, err: err}
	}
}

func (m model) fetchReport() tea.Cmd {
	client, timeout, sess := m.client, m.timeout, *m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		rep, err := client.Performance(ctx, &sess, sess.Semester)
		return reportMsg{report: rep, err: err}
	}
}

func (m model) fetchEvents() tea.Cmd {
	client, timeout, sess, since := m.client, m.timeout, *m.session, m.events.Newest()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		evts, err := client.Activity(ctx, &sess, since)
		return eventsMsg{events: evts, err: err}
	}
}

func subjectRows(rep performance.Report) []table.Row {
	rows := make([]table.Row, 0, len(rep.Subjects))
	for _, s := range rep.Subjects {
		rows = append(rows, table.Row{
			s.Code,
			s.Name,
			strconv.FormatFloat(s.Total, 'f', -1, 64),
			strconv.FormatFloat(s.Percentage, 'f', 1, 64),
			s.Status,
		})
	}
	return rows
}

// Views

func (m model) View() string {
	switch m.currentView {
	case loginView:
		return m.renderLogin()
	case loadingView:
		return m.renderLoading()
	case performanceView:
		return m.renderPerformance()
	case notificationsView:
		return m.renderNotifications()
	default:
		return "Unknown view"
	}
}

func (m model) renderLogin() string {
	labels := [fieldCount]string{"Register number", "Password", "Semester"}

	var b strings.Builder
	b.WriteString(titleStyle.Render("EduGrade student portal"))
	b.WriteString("\n")
	for i, in := range m.inputs {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(in.View()))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("• Tab: next field • Enter: sign in • Esc: quit"))
	return b.String()
}

func (m model) renderLoading() string {
	return fmt.Sprintf("\n %s %s...\n", m.spinner.View(), m.loading) +
		helpStyle.Render(" • Ctrl+C: quit")
}

func (m model) renderPerformance() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Semester %d results", m.session.Semester)))
	b.WriteString("\n")

	if m.err != nil || m.report == nil {
		msg := "no results"
		if m.err != nil {
			msg = m.err.Error()
		}
		b.WriteString(errorStyle.Render(msg))
		b.WriteString("\n")
		b.WriteString(m.performanceHelp())
		return b.String()
	}

	rep := m.report
	b.WriteString(labelStyle.Render(fmt.Sprintf("%s (%s)", rep.Student.Name, rep.Student.RegNo)))
	b.WriteString("\n")
	b.WriteString(m.subjects.View())
	b.WriteString("\n")

	overall := fmt.Sprintf("Overall: %.1f%% over %d subjects", rep.OverallPercentage, rep.TotalSubjects)
	if len(rep.WeakSubjects) == 0 {
		b.WriteString(strongStyle.Render(overall))
	} else {
		b.WriteString(weakStyle.Render(overall))
	}
	b.WriteString("\n")

	if len(rep.ImprovementPlan) > 0 {
		b.WriteString(titleStyle.Render("Improvement plan"))
		b.WriteString("\n")
		for _, item := range rep.ImprovementPlan {
			b.WriteString(fmt.Sprintf("• %s: %s\n", labelStyle.Render(item.SubjectName), item.Plan))
			for _, l := range item.Links {
				b.WriteString(fmt.Sprintf("    %s %s\n", l.Label, helpStyle.UnsetMarginTop().Render(l.URL)))
			}
		}
	}
	b.WriteString(m.performanceHelp())
	return b.String()
}

func (m model) performanceHelp() string {
	notifs := "N: notifications"
	if unread := m.events.Unread(m.session.LastSeen); unread > 0 {
		notifs += " " + badgeStyle.Render(fmt.Sprintf("(%d new)", unread))
	}
	return helpStyle.Render("• " + notifs + " • R: refresh • L: sign out • Q: quit")
}

func (m model) renderNotifications() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Notifications"))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	evts := m.events.Events()
	if len(evts) == 0 {
		b.WriteString("Nothing yet.\n")
	}
	for _, e := range evts {
		line := fmt.Sprintf("%s  %s", e.At.Local().Format("02 Jan 15:04"), e.Message)
		if e.At.After(m.session.LastSeen) {
			line = badgeStyle.Render("● ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("• Esc: back • R: refresh • Q: quit"))
	return b.String()
}
