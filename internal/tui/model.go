package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/smartspend/internal/derive"
	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/tracker"
	"github.com/Veraticus/smartspend/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// Panel is one tab of the dashboard.
type Panel int

// Panels in tab order.
const (
	PanelOverview Panel = iota
	PanelTransactions
	PanelGoals
	PanelInstallments
	PanelInvestments
	PanelTodos
	panelCount
)

var panelNames = [...]string{"Overview", "Transactions", "Goals", "Installments", "Investments", "Todos"}

func (p Panel) String() string {
	if p < 0 || p >= panelCount {
		return "Unknown"
	}
	return panelNames[p]
}

// statusTTL is how long a status message stays visible.
const statusTTL = 4 * time.Second

// Model holds the dashboard state.
type Model struct {
	ctx       context.Context
	ctrl      *tracker.Controller
	now       func() time.Time
	statusAt  time.Time
	theme     themes.Theme
	status    string
	keymap    KeyMap
	help      help.Model
	bar       progress.Model
	dash      derive.Dashboard
	history   derive.History
	todos     []model.Todo
	snap      model.Snapshot
	panel     Panel
	cursor    int
	width     int
	height    int
	statusErr bool
	showHelp  bool
	quitting  bool
}

// newModel creates a model over cfg's controller.
func newModel(ctx context.Context, cfg Config) Model {
	h := help.New()
	h.ShowAll = cfg.ShowHelp
	m := Model{
		ctx:      ctx,
		ctrl:     cfg.Controller,
		now:      time.Now,
		theme:    cfg.Theme,
		keymap:   DefaultKeyMap(),
		help:     h,
		bar:      progress.New(progress.WithSolidFill(string(cfg.Theme.Success)), progress.WithoutPercentage()),
		width:    cfg.Width,
		height:   cfg.Height,
		showHelp: cfg.ShowHelp,
	}
	m.bar.Width = 20
	m.refresh()
	return m
}

// refresh re-derives everything shown from the controller.
func (m *Model) refresh() {
	m.dash = m.ctrl.Dashboard()
	m.history = m.ctrl.History()
	m.todos = m.ctrl.Todos()
	m.snap = m.ctrl.Snapshot()
	if n := m.rows(); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

// rows is the number of selectable rows in the current panel.
func (m Model) rows() int {
	switch m.panel {
	case PanelTransactions:
		return len(m.history.Transactions)
	case PanelGoals:
		return len(m.dash.Goals)
	case PanelInstallments:
		return len(m.snap.Installments)
	case PanelInvestments:
		return len(m.dash.Portfolio.Legend)
	case PanelTodos:
		return len(m.todos)
	default:
		return 0
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("smartspend")
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushMsg:
		if msg.Reply.Success {
			return m.setStatus(fmt.Sprintf("Synced %s", msg.Partition), false)
		}
		return m.setStatus(fmt.Sprintf("Sync failed: %v", msg.Reply.Err()), true)

	case errMsg:
		return m.setStatus(msg.Error(), true)

	case clearStatusMsg:
		if msg.set.Equal(m.statusAt) {
			m.status = ""
			m.statusErr = false
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp

	case key.Matches(msg, m.keymap.PrevMonth):
		m.ctrl.ShiftPeriod(-1)
		m.refresh()

	case key.Matches(msg, m.keymap.NextMonth):
		m.ctrl.ShiftPeriod(1)
		m.refresh()

	case key.Matches(msg, m.keymap.ThisMonth):
		m.ctrl.SetPeriod(m.now())
		m.refresh()

	case key.Matches(msg, m.keymap.CycleView):
		m.ctrl.SetView(m.ctrl.View().Next())
		m.refresh()

	case key.Matches(msg, m.keymap.NextPanel):
		m.panel = (m.panel + 1) % panelCount
		m.cursor = 0

	case key.Matches(msg, m.keymap.PrevPanel):
		m.panel = (m.panel + panelCount - 1) % panelCount
		m.cursor = 0

	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keymap.Down):
		if m.cursor < m.rows()-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keymap.ToggleTodo):
		return m.toggleTodo()

	case key.Matches(msg, m.keymap.ToggleTheme):
		return m.toggleTheme()
	}
	return m, nil
}

func (m Model) toggleTodo() (tea.Model, tea.Cmd) {
	if m.panel != PanelTodos || m.cursor >= len(m.todos) {
		return m, nil
	}
	todo := m.todos[m.cursor]
	done, err := m.ctrl.ToggleTodo(m.ctx, todo.ID)
	if err != nil {
		return m.setStatus(fmt.Sprintf("Failed to update todo: %v", err), true)
	}
	m.refresh()
	if done {
		return m.setStatus(fmt.Sprintf("Completed %q", todo.Text), false)
	}
	return m.setStatus(fmt.Sprintf("Reopened %q", todo.Text), false)
}

func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	next, style := tracker.ThemeDark, themes.Dark
	if m.ctrl.Theme() == tracker.ThemeDark {
		next, style = tracker.ThemeLight, themes.Light
	}
	if err := m.ctrl.SetTheme(m.ctx, next); err != nil {
		return m.setStatus(err.Error(), true)
	}
	m.theme = style
	m.bar = progress.New(progress.WithSolidFill(string(style.Success)), progress.WithoutPercentage())
	m.bar.Width = 20
	return m, nil
}

func (m Model) setStatus(text string, isErr bool) (tea.Model, tea.Cmd) {
	at := m.now()
	m.status = text
	m.statusErr = isErr
	m.statusAt = at
	return m, tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{set: at}
	})
}
