package cli

import (
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"focustrack/internal/collector"
	"focustrack/internal/collector/sqlite"
	"focustrack/internal/config"
)

func newServeCmd() *cobra.Command {
	var addr string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the session collector service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.CollectorAddr
			}
			if dbPath == "" {
				dbPath = cfg.CollectorDB
			}

			db, err := sqlite.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			server := collector.NewServer(sqlite.NewSessionRepository(db))
			mux := http.NewServeMux()
			server.RegisterRoutes(mux)

			slog.Info("collector listening", "addr", addr, "db", dbPath)
			return http.ListenAndServe(addr, mux)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (default from config)")

	return cmd
}
