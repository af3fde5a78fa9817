package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/captains-log/internal/model"
	"github.com/rcliao/captains-log/internal/speech"
	"github.com/rcliao/captains-log/internal/store"
	"github.com/rcliao/captains-log/internal/transcript"
)

var transcriptCmd = &cobra.Command{
	Use:   "transcript",
	Short: "Work with the current unsaved transcript",
}

func init() {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current transcript",
		Run:   runTranscriptShow,
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard the current transcript",
		Run:   runTranscriptClear,
	}
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the transcript to a captainslog-*.txt file",
		Run:   runTranscriptExport,
	}
	exportCmd.Flags().StringP("output", "o", ".", "Directory to write into (- for stdout)")

	saveCmd := &cobra.Command{
		Use:   "save [title]",
		Short: "Save the transcript as a note and clear it",
		Args:  cobra.MinimumNArgs(1),
		Run:   runTranscriptSave,
	}
	saveCmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	saveCmd.Flags().String("folder", "", "Folder (default from config)")

	transcriptCmd.AddCommand(showCmd, clearCmd, exportCmd, saveCmd)
	RootCmd.AddCommand(transcriptCmd)
}

// openTranscript loads the stored transcript behind a session that never records.
func openTranscript(ctx context.Context, s store.Storage) *pipeline {
	p, err := newPipeline(ctx, speech.NewLineRecognizer(nil), s, cfg.RecordingLimit)
	if err != nil {
		exitErr("load transcript", err)
	}
	return p
}

func runTranscriptShow(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()
	p := openTranscript(cmd.Context(), s)
	defer p.Close()

	results := p.ctrl.Results()
	if !textOutput() {
		if results == nil {
			results = []model.TranscriptionResult{}
		}
		printJSON(results)
		return
	}
	for _, r := range results {
		fmt.Printf("[%s] %s\n", r.Time().Format("3:04:05 PM"), r.Text)
	}
}

func runTranscriptClear(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()
	p := openTranscript(cmd.Context(), s)
	defer p.Close()

	if err := p.ctrl.ClearTranscription(cmd.Context()); err != nil {
		exitErr("clear transcript", err)
	}
	printJSON(map[string]any{"ok": true})
}

func runTranscriptExport(cmd *cobra.Command, args []string) {
	out, _ := cmd.Flags().GetString("output")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()
	p := openTranscript(cmd.Context(), s)
	defer p.Close()

	name, content, err := p.ctrl.Export(time.Now())
	if errors.Is(err, transcript.ErrEmpty) {
		exitErr("export", errors.New("nothing to export"))
	}
	if err != nil {
		exitErr("export", err)
	}
	if out == "-" {
		fmt.Println(content)
		return
	}
	path := filepath.Join(out, name)
	if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
		exitErr("write export", err)
	}
	printJSON(map[string]any{"ok": true, "path": path})
}

func runTranscriptSave(cmd *cobra.Command, args []string) {
	tagsStr, _ := cmd.Flags().GetString("tags")
	folder, _ := cmd.Flags().GetString("folder")
	if folder == "" {
		folder = cfg.Folder
	}

	r, s := openRepo(cmd.Context())
	defer s.Close()
	p := openTranscript(cmd.Context(), s)
	defer p.Close()

	n, err := p.ctrl.Save(cmd.Context(), r, strings.Join(args, " "), splitTags(tagsStr), folder)
	if errors.Is(err, transcript.ErrEmpty) {
		exitErr("save", errors.New("transcript is empty"))
	}
	if err != nil {
		exitErr("save", err)
	}
	printNote(n)
}
