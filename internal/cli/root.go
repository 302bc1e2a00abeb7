// Package cli wires the focustrack commands: the interactive tracker (the
// default command), the collector server, headless sending, and the local
// history report.
package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"focustrack/internal/config"
	"focustrack/internal/messages"
	"focustrack/internal/storage"
	"focustrack/internal/submit"
	"focustrack/internal/tracker"
	"focustrack/internal/ui/timer"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focustrack",
		Short: "Time focus sessions and submit them to a collector",
		Long: `focustrack times focus sessions with optional pre-session predictions
and post-session focus estimates, keeps them locally, and submits them
to a collector endpoint on request.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTracker()
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSendCmd())
	cmd.AddCommand(newHistoryCmd())

	return cmd
}

func runTracker() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return err
	}

	tr, err := tracker.New(store, nil)
	if err != nil {
		return err
	}

	client := submit.New(cfg.Endpoint, cfg.ClientInfo, cfg.ExperimentVersion)
	catalog := messages.For(cfg.Locale)

	p := tea.NewProgram(timer.New(tr, client, catalog), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
