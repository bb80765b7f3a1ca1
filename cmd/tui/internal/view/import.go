package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/teamspend/internal/importer"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	importService *importer.Service

	team       *team.Team
	state      importState
	filePicker filepicker.Model
	issues     list.Model
	result     *importer.Result

	status string
	err    error
}

func NewImportModel(impSvc *importer.Service, t *team.Team) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService: impSvc,
		team:          t,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Import CSV: " + m.team.Name }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "↑/↓: browse issues | Esc: pick another file"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateResult {
			var cmd tea.Cmd
			m.issues, cmd = m.issues.Update(msg)

			return m, cmd
		}

	case importResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.result = msg.result
		m.status = fmt.Sprintf("Imported %d expenses (%s layout, %s).",
			len(msg.result.Created), msg.result.Profile, msg.result.Charset)
		m.issues = newIssueList(msg.result)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	if m.state == importStateResult {
		m.state = importStateFilePick
		m.err = nil
		m.result = nil
		m.status = ""

		return m, m.filePicker.Init()
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select a CSV file to import into %s:\n\n%s", accentStyle.Render(m.team.Name), m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	content := successStyle.Render(m.status)

	if len(m.result.Duplicates)+len(m.result.Failed) > 0 {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", m.issues.View())
	}

	return style.Render(content)
}

// Messages

type importResultMsg struct {
	result *importer.Result
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	teamID := m.team.ID

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.importService.Import(ctx, teamID, f)

		return importResultMsg{result: result, err: err}
	}
}

// Issue list

type issueItem struct {
	issue importer.Issue
	kind  string
}

func (i issueItem) Title() string       { return i.issue.Reason }
func (i issueItem) Description() string { return i.kind }
func (i issueItem) FilterValue() string { return i.issue.Reason }

type issueDelegate struct{}

func (d issueDelegate) Height() int                             { return 1 }
func (d issueDelegate) Spacing() int                            { return 0 }
func (d issueDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d issueDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(issueItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	kind := faintStyle.Render(fmt.Sprintf("%-9s", item.kind))
	if item.kind == "failed" {
		kind = errorStyle.Render(fmt.Sprintf("%-9s", item.kind))
	}

	fmt.Fprintf(w, "%s%s line %-4d %s", cursor, kind, item.issue.Line, item.issue.Reason)
}

func newIssueList(res *importer.Result) list.Model {
	items := make([]list.Item, 0, len(res.Duplicates)+len(res.Failed))
	for _, is := range res.Failed {
		items = append(items, issueItem{issue: is, kind: "failed"})
	}

	for _, is := range res.Duplicates {
		items = append(items, issueItem{issue: is, kind: "duplicate"})
	}

	l := list.New(items, issueDelegate{}, 80, 15)
	l.Title = "Skipped rows"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}
