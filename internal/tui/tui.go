// Package tui is the full-screen frontend for the venue simulation.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"venueops-sim/internal/scene"
	"venueops-sim/internal/venue"
)

type menu int

const (
	menuMain menu = iota
	menuStaff
	menuTopic
	menuApplicant
	menuCameras
	menuFrame
)

// sceneMsg delivers the narration of a turn.
type sceneMsg struct {
	turn venue.Turn
	out  scene.Output
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	labelStyle    = lipgloss.NewStyle().Bold(true)
	fallbackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Run starts the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, sim *venue.Simulation) error {
	p := tea.NewProgram(newModel(ctx, sim), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

type model struct {
	ctx context.Context
	sim *venue.Simulation

	table table.Model
	vp    viewport.Model
	spin  spinner.Model

	logs       []string
	menu       menu
	staffPick  string
	input      string
	applicant  venue.Applicant
	pending    bool
	notice     string
	wrap       bool
	autoscroll bool
	width      int
	height     int
}

func newModel(ctx context.Context, sim *venue.Simulation) model {
	cols := []table.Column{
		{Title: "Name", Width: 12},
		{Title: "Role", Width: 30},
		{Title: "Morale", Width: 7},
		{Title: "Trust", Width: 7},
		{Title: "Stress", Width: 7},
	}
	m := model{
		ctx:        ctx,
		sim:        sim,
		table:      table.New(table.WithColumns(cols)),
		vp:         viewport.New(0, 0),
		spin:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		wrap:       true,
		autoscroll: true,
	}
	m.refreshTable()
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.table.SetWidth(msg.Width)
		m.refreshViewport()
		m.updateViewportHeight()
		return m, nil
	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case sceneMsg:
		m.pending = false
		m.appendScene(msg.turn, msg.out)
		m.refreshTable()
		m.updateViewportHeight()
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
		if m.pending {
			return m, nil
		}
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m model) handleKey(key string) (tea.Model, tea.Cmd) {
	m.notice = ""
	if key == "esc" {
		m.input = ""
		m.menu = menuMain
		m.updateViewportHeight()
		return m, nil
	}

	switch m.menu {
	case menuMain:
		switch key {
		case "1":
			m.menu = menuStaff
		case "2":
			m.applicant = m.sim.NewApplicant()
			m.menu = menuApplicant
		case "3":
			m.menu = menuCameras
		case "4":
			return m.start(m.sim.AdvanceDay())
		case "5", "q":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
		default:
			m.notice = "Unknown option."
		}
	case menuStaff:
		names := m.sim.StaffNames()
		i, ok, done := m.pick(key, len(names))
		if !done {
			break
		}
		if !ok {
			m.notice = "Invalid selection."
			m.menu = menuMain
			break
		}
		m.staffPick = names[i]
		m.menu = menuTopic
	case menuTopic:
		topic := venue.TopicNone
		switch key {
		case "1":
			topic = venue.TopicPraise
		case "2":
			topic = venue.TopicConcerns
		case "3":
			topic = venue.TopicExtraShift
		}
		turn, err := m.sim.Converse(m.staffPick, topic)
		if err != nil {
			m.notice = err.Error()
			m.menu = menuMain
			break
		}
		return m.start(turn)
	case menuApplicant:
		d := venue.DecisionNone
		switch key {
		case "1":
			d = venue.DecisionHire
		case "2":
			d = venue.DecisionHold
		case "3":
			d = venue.DecisionReject
		}
		return m.start(m.sim.DecideApplicant(m.applicant, d))
	case menuCameras:
		switch key {
		case "1":
			return m.start(m.sim.ReviewCameras(venue.DispatchPatrol))
		case "3":
			m.menu = menuFrame
		default:
			return m.start(m.sim.ReviewCameras(venue.ContinueMonitoring))
		}
	case menuFrame:
		cams := m.sim.Cameras()
		i, ok, done := m.pick(key, len(cams))
		if !done {
			break
		}
		if !ok {
			m.notice = "Invalid selection."
			m.menu = menuMain
			break
		}
		turn, err := m.sim.SnapshotCamera(cams[i].Location)
		if err != nil {
			m.notice = err.Error()
			m.menu = menuMain
			break
		}
		return m.start(turn)
	}
	m.updateViewportHeight()
	return m, nil
}

// start narrates an applied turn off the update loop. Input stays blocked
// until its sceneMsg arrives.
func (m model) start(turn venue.Turn) (tea.Model, tea.Cmd) {
	m.pending = true
	m.menu = menuMain
	m.refreshTable()
	m.updateViewportHeight()
	return m, tea.Batch(m.spin.Tick, narrate(m.ctx, m.sim, turn))
}

func narrate(ctx context.Context, sim *venue.Simulation, turn venue.Turn) tea.Cmd {
	return func() tea.Msg {
		return sceneMsg{turn: turn, out: sim.Narrate(ctx, turn)}
	}
}

// pick feeds one key into the numbered selection buffer. Digits accumulate
// until no longer entry could start with them or enter is pressed, so lists
// of ten or more stay reachable. done reports whether the selection was
// committed.
func (m *model) pick(key string, n int) (i int, ok, done bool) {
	switch {
	case key == "enter":
	case key == "backspace":
		if m.input != "" {
			m.input = m.input[:len(m.input)-1]
		}
		return 0, false, false
	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		m.input += key
		if v, _ := strconv.Atoi(m.input); v > 0 && v*10 <= n {
			return 0, false, false
		}
	default:
		m.input = ""
		return 0, false, true
	}
	i, ok = index(m.input, n)
	m.input = ""
	return i, ok, true
}

func index(key string, n int) (int, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}

func (m *model) appendScene(turn venue.Turn, out scene.Output) {
	used := out.ModelUsed
	if out.Fallback() {
		used = fallbackStyle.Render(used)
	}
	m.logs = append(m.logs,
		headingStyle.Render(fmt.Sprintf("[day %d] %s: %s", turn.Day, turn.Scene, turn.Action)),
		labelStyle.Render("Model: ")+used,
		labelStyle.Render("Text: ")+out.SceneText,
		labelStyle.Render("Image Prompt: ")+out.ImagePrompt,
		labelStyle.Render("Image URL: ")+out.ImageURL,
		"",
	)
	m.refreshViewport()
}

func (m *model) refreshTable() {
	d := m.sim.Dashboard()
	rows := make([]table.Row, 0, len(d.Staff))
	for _, s := range d.Staff {
		rows = append(rows, table.Row{s.Name, s.Role, strconv.Itoa(s.Morale), strconv.Itoa(s.Trust), strconv.Itoa(s.Stress)})
	}
	m.table.SetRows(rows)
	m.table.SetHeight(len(rows) + 1)
}

func (m *model) refreshViewport() {
	lines := make([]string, 0, len(m.logs))
	for _, l := range m.logs {
		if m.wrap && m.vp.Width > 0 {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *model) updateViewportHeight() {
	used := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.table.View()) + lipgloss.Height(m.renderBottom()) + 2
	h := m.height - used
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m model) View() string {
	divider := strings.Repeat("─", m.width)
	return strings.Join([]string{
		m.renderHeader(),
		m.table.View(),
		divider,
		m.vp.View(),
		divider,
		m.renderBottom(),
	}, "\n")
}

func (m model) renderHeader() string {
	d := m.sim.Dashboard()
	return titleStyle.Render("=== Venue Manager Dashboard ===") + "\n" +
		fmt.Sprintf("Day: %d | Cash: $%d | Reputation: %d", d.Day, d.Cash, d.Reputation)
}

func (m model) renderBottom() string {
	if m.pending {
		return m.spin.View() + " Generating scene..."
	}
	var b strings.Builder
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice) + "\n")
	}
	switch m.menu {
	case menuStaff:
		b.WriteString("Who do you want to talk to?\n")
		for i, name := range m.sim.StaffNames() {
			fmt.Fprintf(&b, "%d) %s  ", i+1, name)
		}
		b.WriteString(m.renderInput())
	case menuTopic:
		if s, ok := m.sim.StaffMember(m.staffPick); ok {
			fmt.Fprintf(&b, "Conversation with %s (%s):\n", s.Name, s.Role)
		}
		b.WriteString("1) Praise professionalism  2) Ask for concerns  3) Request extra shift")
	case menuApplicant:
		a := m.applicant
		fmt.Fprintf(&b, "Applicant %s for %s: communication=%d, reliability=%d, teamwork=%d, score=%d\n",
			a.Name, a.DesiredRole, a.Communication, a.Reliability, a.Teamwork, a.Score())
		b.WriteString("1) Hire  2) Hold for later  3) Reject")
	case menuCameras:
		for _, c := range m.sim.Cameras() {
			fmt.Fprintf(&b, "%s: %s\n", c.Location, c.Status)
		}
		b.WriteString("1) Dispatch patrol  2) Continue monitoring  3) Pull a camera frame")
	case menuFrame:
		b.WriteString("Which feed?\n")
		for i, c := range m.sim.Cameras() {
			fmt.Fprintf(&b, "%d) %s  ", i+1, c.Location)
		}
		b.WriteString(m.renderInput())
	default:
		b.WriteString("1) Talk to staff  2) Assess applicant  3) Watch security cams  4) Advance day  5) Quit")
	}
	b.WriteString("\n" + dimStyle.Render("esc back • w wrap • s autoscroll • ↑/↓ scroll • q quit"))
	return b.String()
}

func (m model) renderInput() string {
	if m.input == "" {
		return ""
	}
	return "\n> " + m.input + dimStyle.Render(" (enter to select)")
}
