package view

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/teamspend/internal/money"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

const dbTimeout = 5 * time.Second

// View is implemented by every TUI screen.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// Screen names a per-team screen reachable from the teams list.
type Screen int

const (
	ScreenExpenses Screen = iota
	ScreenImport
	ScreenReport
)

// OpenMsg asks the root model to open a per-team screen.
type OpenMsg struct {
	Screen Screen
	Team   *team.Team
}

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	levelColors = map[team.Level]lipgloss.Color{
		team.LevelSafe:     lipgloss.Color("42"),
		team.LevelWarning:  lipgloss.Color("214"),
		team.LevelExceeded: lipgloss.Color("196"),
	}
)

func FormatAmount(cents int64) string {
	return money.Format(cents)
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for store operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// BudgetBar renders the used percentage as a bar of the given width. Values
// above 100 fill the bar.
func BudgetBar(s team.BudgetStatus, width int) string {
	filled := int(s.PercentageUsed / 100 * float64(width))
	filled = max(0, min(width, filled))

	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func levelText(l team.Level) string {
	return lipgloss.NewStyle().Foreground(levelColors[l]).Bold(l == team.LevelExceeded).Render(string(l))
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func boxed(content string) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(content)
}
