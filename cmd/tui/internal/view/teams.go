package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/teamspend/internal/money"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

type teamsState int

const (
	teamsStateBrowse teamsState = iota
	teamsStateForm
	teamsStateConfirmDelete
	teamsStateSaving
)

type TeamsModel struct {
	CommonModel
	teamService *team.Service

	state teamsState
	table table.Model
	teams []*team.Team
	form  *huh.Form

	// editing is nil when the form creates a new team.
	editing *team.Team

	loading bool
	err     error
	status  string

	// draft is shared by every copy of the model so huh can write through it.
	draft *teamDraft
}

type teamDraft struct {
	name    string
	budget  string
	members string
	confirm bool
}

func NewTeamsModel(teamSvc *team.Service) TeamsModel {
	return TeamsModel{
		teamService: teamSvc,
		loading:     true,
		table: newTable([]table.Column{
			{Title: "Team", Width: 24},
			{Title: "Spent", Width: 14},
			{Title: "Budget", Width: 14},
			{Title: "Used", Width: 7},
			{Title: "Budget Bar", Width: 22},
			{Title: "Status", Width: 9},
		}),
	}
}

func (m TeamsModel) Title() string { return "Teams" }

func (m TeamsModel) ShortHelp() string {
	switch m.state {
	case teamsStateForm:
		return "Navigate form | Esc: cancel"
	case teamsStateConfirmDelete:
		return "Confirm delete | Esc: cancel"
	}

	return "Enter: expenses | n: new | e: edit | x: delete | i: import | p: report | r: refresh | q: quit"
}

// Browsing reports whether the list is waiting for a command key rather than
// feeding a form.
func (m TeamsModel) Browsing() bool {
	return m.state == teamsStateBrowse
}

func (m TeamsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m TeamsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTeamsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.teams = msg.teams
		m.refreshTable()

		return m, nil

	case teamSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = teamsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(5, msg.Height-12))

		return m, nil
	}

	switch m.state {
	case teamsStateSaving:
		return m, nil
	case teamsStateForm, teamsStateConfirmDelete:
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m TeamsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			return m.enterForm(nil)
		case "e":
			if t := m.selected(); t != nil {
				return m.enterForm(t)
			}
		case "x":
			if t := m.selected(); t != nil {
				return m.enterConfirmDelete(t)
			}
		case "enter":
			return m, m.open(ScreenExpenses)
		case "i":
			return m, m.open(ScreenImport)
		case "p":
			return m, m.open(ScreenReport)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TeamsModel) open(screen Screen) tea.Cmd {
	t := m.selected()
	if t == nil {
		return nil
	}

	return func() tea.Msg { return OpenMsg{Screen: screen, Team: t} }
}

func (m TeamsModel) selected() *team.Team {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.teams) {
		return nil
	}

	return m.teams[idx]
}

func (m TeamsModel) enterForm(t *team.Team) (tea.Model, tea.Cmd) {
	m.editing = t
	m.draft = &teamDraft{}

	if t != nil {
		m.draft.name = t.Name
		m.draft.budget = money.Amount(t.Budget).String()
		m.draft.members = strings.Join(t.Members, ", ")
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.draft.name).
				Validate(func(s string) error {
					if len(strings.TrimSpace(s)) < 2 {
						return errors.New("name must be at least 2 characters")
					}

					return nil
				}),
			huh.NewInput().
				Key("budget").
				Title("Budget").
				Placeholder("10000.00").
				Value(&m.draft.budget).
				Validate(func(s string) error {
					cents, err := money.ParseCents(strings.TrimSpace(s))
					if err != nil {
						return err
					}

					if cents <= 0 {
						return errors.New("budget must be greater than 0")
					}

					return nil
				}),
			huh.NewInput().
				Key("members").
				Title("Members").
				Description("Comma-separated e-mail addresses").
				Value(&m.draft.members),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = teamsStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m TeamsModel) enterConfirmDelete(t *team.Team) (tea.Model, tea.Cmd) {
	m.editing = t
	m.draft = &teamDraft{}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s?", t.Name)).
				Description("Teams with expenses cannot be deleted.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&m.draft.confirm),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = teamsStateConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m TeamsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = teamsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == teamsStateConfirmDelete {
		if !m.draft.confirm {
			m.state = teamsStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}

		m.state = teamsStateSaving

		return m, m.deleteCmd(m.editing)
	}

	m.state = teamsStateSaving

	return m, m.saveCmd()
}

func (m TeamsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading teams...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	content := boxed(m.table.View())

	if t := m.selected(); t != nil && m.state == teamsStateBrowse {
		s := t.Status()
		content = lipgloss.JoinVertical(lipgloss.Left, content,
			fmt.Sprintf(" %s  %s remaining  [%s]  members: %d",
				accentStyle.Render(t.Name), FormatAmount(s.Remaining), levelText(s.Level), len(t.Members)),
		)
	}

	if m.state != teamsStateBrowse && m.form != nil {
		title := "New Team"
		if m.editing != nil {
			title = "Edit " + m.editing.Name
		}

		if m.state == teamsStateConfirmDelete {
			title = "Delete Team"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(54).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *TeamsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.teams))
	for _, t := range m.teams {
		s := t.Status()
		rows = append(rows, table.Row{
			t.Name,
			FormatAmount(s.TotalSpent),
			FormatAmount(s.Budget),
			fmt.Sprintf("%.1f%%", s.PercentageUsed),
			BudgetBar(s, 20),
			string(s.Level),
		})
	}

	m.table.SetRows(rows)
}

func splitMembers(raw string) []string {
	var out []string

	for m := range strings.SplitSeq(raw, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}

	return out
}

// Messages

type loadTeamsMsg struct {
	teams []*team.Team
	err   error
}

type teamSavedMsg struct {
	status string
	err    error
}

func (m TeamsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		teams, err := m.teamService.List(ctx)

		return loadTeamsMsg{teams: teams, err: err}
	}
}

func (m TeamsModel) saveCmd() tea.Cmd {
	var (
		editing = m.editing
		name    = strings.TrimSpace(m.draft.name)
		budget  = strings.TrimSpace(m.draft.budget)
		members = splitMembers(m.draft.members)
	)

	return func() tea.Msg {
		cents, err := money.ParseCents(budget)
		if err != nil {
			return teamSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if editing == nil {
			t, err := m.teamService.Create(ctx, team.CreateParams{Name: name, Budget: cents, Members: members})
			if err != nil {
				return teamSavedMsg{err: err}
			}

			return teamSavedMsg{status: "Created " + t.Name}
		}

		t, err := m.teamService.Update(ctx, editing.ID, team.UpdateParams{
			Name:    &name,
			Budget:  &cents,
			Members: &members,
		})
		if err != nil {
			return teamSavedMsg{err: err}
		}

		return teamSavedMsg{status: "Updated " + t.Name}
	}
}

func (m TeamsModel) deleteCmd(t *team.Team) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.teamService.Delete(ctx, t.ID); err != nil {
			return teamSavedMsg{err: err}
		}

		return teamSavedMsg{status: "Deleted " + t.Name}
	}
}
