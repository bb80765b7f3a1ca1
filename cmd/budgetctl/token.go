package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/teamspend/internal/http/auth"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token signed with AUTH_SECRET",
	RunE: func(_ *cobra.Command, _ []string) error {
		if cfg.Auth.Secret == "" {
			return errors.New("AUTH_SECRET is not set")
		}

		token, err := auth.GenerateToken(tokenSubject, cfg.Auth.Secret, tokenTTL)
		if err != nil {
			return err
		}

		fmt.Println(token)

		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "Token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")

	rootCmd.AddCommand(tokenCmd)
}
