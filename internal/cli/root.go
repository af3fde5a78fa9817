// Package cli implements the captains-log CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/captains-log/internal/config"
	"github.com/rcliao/captains-log/internal/notes"
	"github.com/rcliao/captains-log/internal/store"
)

var (
	dbPath     string
	formatFlag string
	configPath string
	verbose    bool

	cfg    config.Config
	logger = slog.Default()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "captains-log",
	Short: "Voice journal for the terminal",
	Long:  "Record spoken log entries, review the transcript, and keep them as tagged, foldered notes. SQLite-backed, single binary.",

	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $CAPTAINS_LOG_DB or ~/.captains-log/log.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.config/captains-log/config.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")
}

// setup resolves configuration and the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DB = dbPath
	}
	switch formatFlag {
	case "json", "text":
	default:
		return fmt.Errorf("unknown format %q (want json or text)", formatFlag)
	}
	logger.Debug("config resolved", "db", cfg.DB, "language", cfg.Language, "recognizer", cfg.Recognizer)
	return nil
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.DB)
}

// openRepo opens the store and loads the note repository. Callers close the store.
func openRepo(ctx context.Context) (*notes.Repository, *store.SQLiteStore) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	r, err := notes.Open(ctx, s, notes.WithLogger(logger))
	if err != nil {
		s.Close()
		exitErr("load notes", err)
	}
	return r, s
}

func textOutput() bool {
	return formatFlag == "text"
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func splitTags(s string) []string {
	var tags []string
	if s == "" {
		return tags
	}
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
