package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/teamspend/internal/config"
	"github.com/MrJamesThe3rd/teamspend/internal/logging"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "budgetctl",
	Short:         "Administer the team budget service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		_ = godotenv.Load()

		loaded, err := config.Load()
		if err != nil {
			return err
		}

		cfg = loaded
		slog.SetDefault(logging.New(cfg.App.Name+"-ctl", cfg.Log.Level, cfg.Log.Format))

		return nil
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
