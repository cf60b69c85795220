package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve predictions over HTTP and WebSocket",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (ADDR)")
	serveCmd.Flags().String("model-url", "", "download the model from here if it is missing (MODEL_URL)")
	serveCmd.Flags().String("db", "", "SQLite file for collected samples; empty disables the sample API (DB_PATH)")
	serveCmd.Flags().String("static", "", "directory served under /app/ (STATIC_DIR)")
	serveCmd.Flags().Int("window", 0, "smoothing window for WebSocket streams (SMOOTHING_WINDOW)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	rec, err := openRecognizer(cmd.Context(), detector.StaticConfig())
	if err != nil {
		return err
	}
	defer closeRecognizer(rec)

	var st *store.Store
	if cfg.DBPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
		st, err = store.New(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		log.WithField("path", cfg.DBPath).Info("[mudra.serve] sample store opened")
	}

	if cfg.StaticDir != "" {
		log.WithField("dir", cfg.StaticDir).Info("[mudra.serve] serving static files under /app/")
	}

	srv := server.New(server.Config{
		Recognizer: rec,
		Store:      st,
		StaticDir:  cfg.StaticDir,
		Window:     cfg.Window,
		Logger:     log,
	})

	return srv.ListenAndServe(cmd.Context(), cfg.Addr)
}
