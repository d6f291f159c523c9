package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/mysticwriter-backend/internal/app"
	"github.com/yungbote/mysticwriter-backend/internal/modules/analytics"
)

var (
	summaryUser  string
	summaryToday bool
)

var rootCmd = &cobra.Command{
	Use:           "mysticwriter",
	Short:         "MysticWriter story backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Run(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Migrate(cmd.Context())
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print a user's writing summary",
	Long: `Prints the analytics summary for one user as JSON.

Example:
  mysticwriter summary --user 6f1c0e52-0c4a-4c55-9d37-6a2d1b1a9c11
  mysticwriter summary --user 6f1c0e52-0c4a-4c55-9d37-6a2d1b1a9c11 --today`,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(summaryUser)
	if err != nil {
		return fmt.Errorf("invalid --user: %w", err)
	}
	a, err := app.New(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	var out any
	if summaryToday {
		day := a.Services.Analytics.Today().Format(analytics.DateLayout)
		out = a.Services.Analytics.GetByDateRange(cmd.Context(), userID, day, day)
	} else {
		out = a.Services.Analytics.GetSummary(cmd.Context(), userID)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func init() {
	summaryCmd.Flags().StringVar(&summaryUser, "user", "", "user id (uuid)")
	summaryCmd.Flags().BoolVar(&summaryToday, "today", false, "print only today's activity record")
	_ = summaryCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(serveCmd, migrateCmd, summaryCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
