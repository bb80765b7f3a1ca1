package view

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/teamspend/internal/export"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

type reportState int

const (
	reportStatePeriod reportState = iota
	reportStateLoading
	reportStateResult
	reportStateSave
)

type ReportModel struct {
	CommonModel
	exportService *export.Service

	team    *team.Team
	state   reportState
	picker  PeriodPicker
	spinner spinner.Model
	form    *huh.Form

	label  string
	report *export.Report
	dir    *string
	status string
	err    error
}

func NewReportModel(svc *export.Service, t *team.Team) ReportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	return ReportModel{
		exportService: svc,
		team:          t,
		picker:        NewPeriodPicker(),
		spinner:       s,
		dir:           new("./reports"),
	}
}

func (m ReportModel) Title() string { return "Report: " + m.team.Name }

func (m ReportModel) ShortHelp() string {
	switch m.state {
	case reportStateResult:
		return "s: save CSV | Esc: choose another period"
	case reportStateLoading:
		return "Building report..."
	case reportStateSave:
		return "Enter: save | Esc: cancel"
	}

	return "Esc: back | Enter: confirm"
}

func (m ReportModel) Init() tea.Cmd {
	return nil
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PeriodSelectedMsg:
		m.label = msg.Label
		m.state = reportStateLoading
		m.err = nil

		return m, tea.Batch(m.spinner.Tick, m.reportCmd(msg.Period))

	case reportLoadedMsg:
		m.state = reportStateResult
		m.report, m.err = msg.report, msg.err
		m.status = ""

		return m, nil

	case reportSavedMsg:
		m.state = reportStateResult
		m.form = nil
		m.status = "Saved " + msg.path

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		return m, nil
	}

	switch m.state {
	case reportStatePeriod:
		return m.updatePeriod(msg)
	case reportStateLoading:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case reportStateResult:
		return m.updateResult(msg)
	case reportStateSave:
		return m.updateSave(msg)
	}

	return m, nil
}

func (m ReportModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
		return m, Back
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m ReportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.state = reportStatePeriod
		m.picker = NewPeriodPicker()

		return m, nil
	case "s":
		if m.report == nil {
			return m, nil
		}

		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Key("dir").
					Title("Output Directory").
					Description("Created if it doesn't exist").
					Placeholder("./reports").
					Value(m.dir),
			),
		).WithWidth(50).WithShowHelp(false)
		m.state = reportStateSave

		return m, m.form.Init()
	}

	return m, nil
}

func (m ReportModel) updateSave(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = reportStateResult
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = reportStateLoading

	return m, tea.Batch(m.spinner.Tick, m.saveCmd(m.report, *m.dir))
}

func (m ReportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case reportStatePeriod:
		return style.Render(m.picker.View())
	case reportStateLoading:
		return style.Render(fmt.Sprintf("%s Building report for %s...", m.spinner.View(), m.team.Name))
	case reportStateSave:
		return style.Render(m.form.View())
	}

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%s: %s", m.team.Name, m.label))
	s := m.report.Status

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		fmt.Sprintf("%s %.1f%% [%s]", BudgetBar(s, 30), s.PercentageUsed, levelText(s.Level)),
		"",
		m.report.Summary(),
	)

	if m.status != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", faintStyle.Render(m.status))
	}

	return style.Render(content)
}

// Messages

type reportLoadedMsg struct {
	report *export.Report
	err    error
}

type reportSavedMsg struct {
	path string
	err  error
}

func (m ReportModel) reportCmd(p export.Period) tea.Cmd {
	teamID := m.team.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		r, err := m.exportService.Report(ctx, teamID, p)

		return reportLoadedMsg{report: r, err: err}
	}
}

func (m ReportModel) saveCmd(r *export.Report, dir string) tea.Cmd {
	return func() tea.Msg {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			dir = "."
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return reportSavedMsg{err: err}
		}

		path := filepath.Join(dir, r.Filename())

		f, err := os.Create(path)
		if err != nil {
			return reportSavedMsg{err: err}
		}

		if err := r.WriteCSV(f); err != nil {
			f.Close()
			return reportSavedMsg{err: err}
		}

		return reportSavedMsg{path: path, err: f.Close()}
	}
}
