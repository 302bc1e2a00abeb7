package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"focustrack/internal/config"
	"focustrack/internal/messages"
	"focustrack/internal/storage"
	"focustrack/internal/submit"
	"focustrack/internal/tracker"
)

func newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send",
		Short: "Submit the unsubmitted session history to the collector",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			catalog := messages.For(cfg.Locale)
			client := submit.New(cfg.Endpoint, cfg.ClientInfo, cfg.ExperimentVersion)

			count, err := client.Submit(cmd.Context(), tr.History(), tr.ParticipantID())
			if err != nil {
				switch {
				case errors.Is(err, submit.ErrNoSessions):
					fmt.Println(catalog.Plain(messages.StatusNothingToSend))
					return nil
				case errors.Is(err, submit.ErrNotConfigured):
					fmt.Println(catalog.Plain(messages.StatusNotConfigured))
					return nil
				}
				return fmt.Errorf("%s", catalog.SendFailed(err.Error()))
			}

			// Drain only after the collector confirmed success.
			if err := tr.ClearHistory(); err != nil {
				return err
			}

			fmt.Println(catalog.SendSuccess(count))
			return nil
		},
	}
}
