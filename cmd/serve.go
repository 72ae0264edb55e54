package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/marcus/wr/internal/api"
	"github.com/marcus/wr/internal/db"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Runs the wr HTTP API against this project's database.

Configuration comes from environment variables (WR_LISTEN_ADDR,
WR_LOG_FORMAT, WR_LOG_LEVEL, WR_SHUTDOWN_TIMEOUT, WR_PDF_COMMAND) with
flags taking precedence.`,
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := api.LoadConfig()
		cfg.BaseDir = getBaseDir()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.ListenAddr = addr
		}

		var level slog.Level
		switch strings.ToLower(cfg.LogLevel) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		opts := &slog.HandlerOptions{Level: level}
		var handler slog.Handler
		if strings.ToLower(cfg.LogFormat) == "text" {
			handler = slog.NewTextHandler(os.Stderr, opts)
		} else {
			handler = slog.NewJSONHandler(os.Stderr, opts)
		}
		slog.SetDefault(slog.New(handler))

		store, err := db.Open(cfg.BaseDir)
		if err != nil {
			slog.Error("open db", "err", err)
			return err
		}
		defer store.Close()

		srv, err := api.NewServer(cfg, store)
		if err != nil {
			slog.Error("create server", "err", err)
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := srv.Start(); err != nil {
			slog.Error("start server", "err", err)
			return err
		}
		slog.Info("server started", "addr", cfg.ListenAddr)

		<-ctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "err", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides WR_LISTEN_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
