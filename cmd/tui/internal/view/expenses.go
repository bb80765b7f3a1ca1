package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/teamspend/internal/classify"
	"github.com/MrJamesThe3rd/teamspend/internal/expense"
	"github.com/MrJamesThe3rd/teamspend/internal/money"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

type expensesState int

const (
	expensesStateBrowse expensesState = iota
	expensesStateDescribe
	expensesStateDetails
	expensesStateBusy
)

// statusCycle is the order "s" moves an expense through.
var statusCycle = map[expense.Status]expense.Status{
	expense.StatusPending:  expense.StatusApproved,
	expense.StatusApproved: expense.StatusRejected,
	expense.StatusRejected: expense.StatusPending,
}

type ExpensesModel struct {
	CommonModel
	teamService    *team.Service
	expenseService *expense.Service
	classifier     *classify.Classifier

	team     *team.Team
	state    expensesState
	table    table.Model
	expenses []*expense.Expense
	form     *huh.Form

	statusFilterIdx int
	filter          expense.ListFilter

	loading bool
	err     error
	status  string

	// draft is shared by every copy of the model so huh can write through it.
	draft *expenseDraft
}

type expenseDraft struct {
	description string
	amount      string
	date        string
	category    expense.Category
	status      expense.Status
	suggestion  classify.Suggestion
}

func NewExpensesModel(teamSvc *team.Service, expenseSvc *expense.Service, classifier *classify.Classifier, t *team.Team) ExpensesModel {
	return ExpensesModel{
		teamService:    teamSvc,
		expenseService: expenseSvc,
		classifier:     classifier,
		team:           t,
		loading:        true,
		filter:         expense.ListFilter{TeamID: &t.ID},
		table: newTable([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Amount", Width: 12},
			{Title: "Category", Width: 14},
			{Title: "Status", Width: 10},
			{Title: "Description", Width: 40},
		}),
	}
}

func (m ExpensesModel) Title() string { return "Expenses: " + m.team.Name }

func (m ExpensesModel) ShortHelp() string {
	if m.state != expensesStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | s: cycle status | x: delete | f: status filter | r: refresh"
}

func (m ExpensesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ExpensesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadExpensesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.team = msg.team
		m.expenses = msg.expenses
		m.refreshTable()

		return m, nil

	case suggestionMsg:
		m.draft.suggestion = msg.suggestion
		m.draft.category = msg.suggestion.Category

		return m.enterDetails()

	case expenseSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = expensesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(5, msg.Height-14))

		return m, nil
	}

	switch m.state {
	case expensesStateBusy:
		return m, nil
	case expensesStateDescribe, expensesStateDetails:
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m ExpensesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m.enterDescribe()
		case "s":
			if e := m.selected(); e != nil {
				return m, m.cycleStatusCmd(e)
			}
		case "x":
			if e := m.selected(); e != nil {
				return m, m.deleteCmd(e)
			}
		case "f":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % (len(expense.Statuses) + 1)
			m.filter.Status = nil

			if m.statusFilterIdx > 0 {
				m.filter.Status = &expense.Statuses[m.statusFilterIdx-1]
			}

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ExpensesModel) selected() *expense.Expense {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.expenses) {
		return nil
	}

	return m.expenses[idx]
}

// enterDescribe asks for the description first so a category can be suggested
// before the rest of the form is shown.
func (m ExpensesModel) enterDescribe() (tea.Model, tea.Cmd) {
	m.draft = &expenseDraft{
		date:   FormatDate(time.Now()),
		status: expense.StatusPending,
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.draft.description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("description cannot be empty")
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = expensesStateDescribe
	m.table.Blur()

	return m, m.form.Init()
}

func (m ExpensesModel) enterDetails() (tea.Model, tea.Cmd) {
	categories := make([]huh.Option[expense.Category], len(expense.Categories))
	for i, c := range expense.Categories {
		categories[i] = huh.NewOption(string(c), c)
	}

	statuses := make([]huh.Option[expense.Status], len(expense.Statuses))
	for i, s := range expense.Statuses {
		statuses[i] = huh.NewOption(string(s), s)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Description(fmt.Sprintf("Remaining budget: %s", FormatAmount(m.team.Status().Remaining))).
				Value(&m.draft.amount).
				Validate(func(s string) error {
					cents, err := money.ParseCents(strings.TrimSpace(s))
					if err != nil {
						return err
					}

					if cents <= 0 {
						return errors.New("amount must be greater than 0")
					}

					return nil
				}),
			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.draft.date).
				Validate(func(s string) error {
					_, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
					return err
				}),
			huh.NewSelect[expense.Category]().
				Key("category").
				Title("Category").
				Description(fmt.Sprintf("Suggested: %s (%d%%)", m.draft.suggestion.Category, m.draft.suggestion.Confidence)).
				Options(categories...).
				Value(&m.draft.category),
			huh.NewSelect[expense.Status]().
				Key("status").
				Title("Status").
				Options(statuses...).
				Value(&m.draft.status),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = expensesStateDetails

	return m, m.form.Init()
}

func (m ExpensesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = expensesStateBrowse
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

	describing := m.state == expensesStateDescribe
	m.state = expensesStateBusy

	if describing {
		return m, m.suggestCmd(m.draft.description)
	}

	return m, m.createCmd()
}

func (m ExpensesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading expenses...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	s := m.team.Status()

	filterLabel := "All"
	if m.filter.Status != nil {
		filterLabel = string(*m.filter.Status)
	}

	header := fmt.Sprintf("%s  %s of %s  %s %.1f%% [%s]\nFilter: [f] Status: %s",
		accentStyle.Render(m.team.Name),
		FormatAmount(s.TotalSpent),
		FormatAmount(s.Budget),
		BudgetBar(s, 20),
		s.PercentageUsed,
		levelText(s.Level),
		accentStyle.Render(filterLabel),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
	)

	if m.state != expensesStateBrowse && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(54).
			Render("New Expense\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ExpensesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.expenses))
	for _, e := range m.expenses {
		rows = append(rows, table.Row{
			FormatDate(e.Date),
			FormatAmount(e.Amount),
			string(e.Category),
			string(e.Status),
			e.Description,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadExpensesMsg struct {
	team     *team.Team
	expenses []*expense.Expense
	err      error
}

type suggestionMsg struct {
	suggestion classify.Suggestion
}

type expenseSavedMsg struct {
	status string
	err    error
}

func (m ExpensesModel) loadCmd() tea.Cmd {
	teamID, filter := m.team.ID, m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		t, err := m.teamService.Get(ctx, teamID)
		if err != nil {
			return loadExpensesMsg{err: err}
		}

		expenses, err := m.expenseService.List(ctx, filter)

		return loadExpensesMsg{team: t, expenses: expenses, err: err}
	}
}

func (m ExpensesModel) suggestCmd(description string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return suggestionMsg{suggestion: m.classifier.Suggest(ctx, description)}
	}
}

func (m ExpensesModel) createCmd() tea.Cmd {
	params := expense.CreateParams{
		TeamID:      m.team.ID,
		Description: m.draft.description,
		Category:    m.draft.category,
		Status:      m.draft.status,
	}
	amount, date := strings.TrimSpace(m.draft.amount), strings.TrimSpace(m.draft.date)

	return func() tea.Msg {
		cents, err := money.ParseCents(amount)
		if err != nil {
			return expenseSavedMsg{err: err}
		}

		params.Amount = cents

		params.Date, err = time.Parse(time.DateOnly, date)
		if err != nil {
			return expenseSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		e, err := m.expenseService.Create(ctx, params)
		if err != nil {
			return expenseSavedMsg{err: err}
		}

		return expenseSavedMsg{status: fmt.Sprintf("Added %s for %s", e.Description, FormatAmount(e.Amount))}
	}
}

func (m ExpensesModel) cycleStatusCmd(e *expense.Expense) tea.Cmd {
	next := statusCycle[e.Status]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.expenseService.Update(ctx, e.ID, expense.UpdateParams{Status: &next}); err != nil {
			return expenseSavedMsg{err: err}
		}

		return expenseSavedMsg{status: fmt.Sprintf("%s is now %s", e.Description, next)}
	}
}

func (m ExpensesModel) deleteCmd(e *expense.Expense) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.expenseService.Delete(ctx, e.ID); err != nil {
			return expenseSavedMsg{err: err}
		}

		return expenseSavedMsg{status: "Deleted " + e.Description}
	}
}
