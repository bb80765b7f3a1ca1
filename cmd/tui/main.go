package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/teamspend/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/teamspend/internal/app"
	"github.com/MrJamesThe3rd/teamspend/internal/config"
	"github.com/MrJamesThe3rd/teamspend/internal/logging"
)

type model struct {
	app *app.App

	teamsView view.TeamsModel
	// active is the per-team screen on top of the teams list, if any.
	active view.View
	size   tea.WindowSizeMsg
}

func newModel(a *app.App) model {
	return model{
		app:       a,
		teamsView: view.NewTeamsModel(a.Teams),
	}
}

func (m model) Init() tea.Cmd {
	return m.teamsView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || (msg.String() == "q" && m.active == nil && m.teamsView.Browsing()) {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.size = msg

	case view.OpenMsg:
		m.active = m.screen(msg)
		cmds := []tea.Cmd{m.active.Init()}

		if m.size.Width > 0 {
			size := m.size
			cmds = append(cmds, func() tea.Msg { return size })
		}

		return m, tea.Batch(cmds...)

	case view.BackMsg:
		m.active = nil
		return m, m.teamsView.Init()
	}

	var cmd tea.Cmd

	if m.active != nil {
		var next tea.Model
		next, cmd = m.active.Update(msg)
		m.active = next.(view.View)

		return m, cmd
	}

	var next tea.Model
	next, cmd = m.teamsView.Update(msg)
	m.teamsView = next.(view.TeamsModel)

	return m, cmd
}

func (m model) screen(msg view.OpenMsg) view.View {
	switch msg.Screen {
	case view.ScreenImport:
		return view.NewImportModel(m.app.Importer, msg.Team)
	case view.ScreenReport:
		return view.NewReportModel(m.app.Reports, msg.Team)
	}

	return view.NewExpensesModel(m.app.Teams, m.app.Expenses, m.app.Classifier, msg.Team)
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	helpStyle  = lipgloss.NewStyle().Faint(true).Padding(0, 1)
)

func (m model) View() string {
	var current view.View = m.teamsView
	if m.active != nil {
		current = m.active
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Team Budgets · "+current.Title()),
		current.View(),
		helpStyle.Render(current.ShortHelp()),
	)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logFile, err := os.OpenFile(filepath.Join(os.TempDir(), "teamspend-tui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to open log file:", err)
		os.Exit(1)
	}
	defer logFile.Close()

	slog.SetDefault(logging.NewWithWriter(logFile, cfg.App.Name+"-tui", cfg.Log.Level, cfg.Log.Format))

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start:", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(newModel(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		fmt.Fprintln(os.Stderr, "failed to run TUI:", err)
	}
}
