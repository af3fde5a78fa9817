package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/captains-log/internal/notes"
	"github.com/rcliao/captains-log/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show journal and database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

type statsOutput struct {
	DBPath  string        `json:"db_path"`
	Notes   notes.Stats   `json:"notes"`
	Storage []store.Entry `json:"storage"`
}

func runStats(cmd *cobra.Command, args []string) {
	r, s := openRepo(cmd.Context())
	defer s.Close()

	entries, err := s.Entries(cmd.Context())
	if err != nil {
		exitErr("stats", err)
	}

	out := statsOutput{DBPath: s.Path(), Notes: r.Stats(), Storage: entries}
	if !textOutput() {
		printJSON(out)
		return
	}

	fmt.Printf("db: %s\n", out.DBPath)
	fmt.Printf("notes: %d  entries: %d  tags: %d\n", out.Notes.TotalNotes, out.Notes.TotalEntries, out.Notes.TotalTags)
	for _, f := range out.Notes.Folders {
		fmt.Printf("  %-20s %4d notes %6d entries\n", f.Folder, f.Notes, f.Entries)
	}
	for _, e := range out.Storage {
		fmt.Printf("  key %-30s %8d bytes  %s\n", e.Key, e.SizeBytes, e.UpdatedAt)
	}
}
