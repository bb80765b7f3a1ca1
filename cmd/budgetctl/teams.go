package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/teamspend/internal/app"
	"github.com/MrJamesThe3rd/teamspend/internal/money"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	levelStyles = map[team.Level]lipgloss.Style{
		team.LevelSafe:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		team.LevelWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		team.LevelExceeded: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Print every team's budget status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		teams, err := a.Teams.List(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(renderTeams(teams))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(teamsCmd)
}

func renderTeams(teams []*team.Team) string {
	if len(teams) == 0 {
		return "No teams."
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-24s %14s %14s %7s  %-8s", "TEAM", "SPENT", "BUDGET", "USED", "STATUS")))
	b.WriteString("\n")

	for _, t := range teams {
		s := t.Status()
		fmt.Fprintf(&b, "%-24s %14s %14s %6.1f%%  %s\n",
			t.Name,
			money.Format(s.TotalSpent),
			money.Format(s.Budget),
			s.PercentageUsed,
			levelStyles[s.Level].Render(string(s.Level)),
		)
	}

	return strings.TrimRight(b.String(), "\n")
}
