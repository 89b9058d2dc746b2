// Package main provides the CLI entrypoint for ontap.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/ontap/internal/dashboard"
	"github.com/verte-zerg/ontap/internal/model"
)

const (
	defaultDays   = 14
	defaultWindow = 3
)

var (
	globalLearner  string
	globalBackend  string
	globalDBPath   string
	globalLogLevel string

	dashDays    int
	dashWindow  int
	dashSubject string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ontap",
		Short:         "Exam-prep attempt ledger and learning analytics",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDashboardCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalLearner, "learner", "", "learner e-mail that namespaces the ledger")
	pf.StringVar(&globalBackend, "storage", "sqlite", "storage backend (sqlite, redis, memory)")
	pf.StringVar(&globalDBPath, "db", "", "sqlite database path")
	pf.StringVar(&globalLogLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.Flags().IntVar(&dashDays, "days", defaultDays, "days in the daily series")
	rootCmd.Flags().IntVar(&dashWindow, "window", defaultWindow, "moving average window")
	rootCmd.Flags().StringVar(&dashSubject, "subject", "", "only show topics of this subject")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newRecordCmd())
	rootCmd.AddCommand(newDemoCmd())
	rootCmd.AddCommand(newGoalCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newDigestCmd())
	rootCmd.AddCommand(newSubscribeCmd())
	rootCmd.AddCommand(newUnsubscribeCmd())
	rootCmd.AddCommand(newSubscriptionsCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newQuizCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	var subject model.Subject
	if dashSubject != "" {
		if subject, err = model.ParseSubject(dashSubject); err != nil {
			return err
		}
	}
	if dashDays <= 0 {
		return fmt.Errorf("--days must be > 0")
	}
	if dashWindow <= 0 {
		return fmt.Errorf("--window must be > 0")
	}

	plans := a.plans()
	m := dashboard.NewModel(a.ledger(), a.engine, plans.Load, dashboard.Config{
		Days:    dashDays,
		Window:  dashWindow,
		Subject: subject,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}
