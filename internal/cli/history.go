package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"focustrack/internal/config"
	"focustrack/internal/models"
	"focustrack/internal/storage"
	"focustrack/internal/tracker"
)

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the unsubmitted session history by day",
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

			history := tr.History()
			if len(history) == 0 {
				fmt.Println("No unsubmitted sessions.")
				return nil
			}

			byDate := make(map[string][]models.Session)
			for _, session := range history {
				byDate[session.Date] = append(byDate[session.Date], session)
			}

			dates := make([]string, 0, len(byDate))
			for date := range byDate {
				dates = append(dates, date)
			}
			sort.Strings(dates)

			for _, date := range dates {
				sessions := byDate[date]
				var totalMillis int64
				for _, s := range sessions {
					totalMillis += s.Duration
				}
				totalMinutes := totalMillis / 60_000
				fmt.Printf("%s: %d session(s), %dh %dm\n",
					date, len(sessions), totalMinutes/60, totalMinutes%60)

				for _, s := range sessions {
					fmt.Printf("  %s  actual %s  predicted %s  estimated %s\n",
						timeOfDay(s.StartTime),
						formatDuration(&s.Duration),
						formatDuration(s.PredictedDuration),
						formatDuration(s.EstimatedFocusDuration),
					)
				}
			}

			fmt.Printf("\nTotal unsubmitted: %d session(s), participant %s\n",
				len(history), tr.ParticipantID())
			return nil
		},
	}
}

func timeOfDay(millis int64) string {
	return time.UnixMilli(millis).Format("15:04")
}

func formatDuration(millis *int64) string {
	if millis == nil {
		return "-"
	}
	totalSeconds := *millis / 1000
	return fmt.Sprintf("%dm %02ds", totalSeconds/60, totalSeconds%60)
}
