package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/teamspend/internal/app"
	"github.com/MrJamesThe3rd/teamspend/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo teams and expenses",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		teams, err := seed.Run(cmd.Context(), a.Teams, a.Expenses)
		if err != nil {
			return err
		}

		fmt.Println(renderTeams(teams))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
