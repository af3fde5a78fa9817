package cli

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rcliao/captains-log/internal/config"
	"github.com/rcliao/captains-log/internal/tui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Open the recording screen",
		Long: `Open the full-screen recorder. Space starts and stops recording, c clears
the transcript, e exports it to a text file, s saves it as a note, q quits.`,
		Run: runRecord,
	}
	cmd.Flags().String("source", "", "Speech source: daemon or stdin (default from config)")
	cmd.Flags().String("language", "", "Recognition language (default from config)")
	cmd.Flags().String("export-dir", ".", "Directory for exported transcripts")

	RootCmd.AddCommand(cmd)
}

func runRecord(cmd *cobra.Command, args []string) {
	source, _ := cmd.Flags().GetString("source")
	lang, _ := cmd.Flags().GetString("language")
	exportDir, _ := cmd.Flags().GetString("export-dir")
	if source == "" {
		source = cfg.Recognizer
	}
	if lang == "" {
		lang = cfg.Language
	}

	ctx := cmd.Context()
	// The terminal owns stdin here, so the stdin source reports unsupported.
	var in io.Reader
	if source != config.SourceStdin {
		in = os.Stdin
	}
	rec, err := newRecognizer(source, in)
	if err != nil {
		exitErr("record", err)
	}

	r, s := openRepo(ctx)
	defer s.Close()

	p, err := newPipeline(ctx, rec, s, cfg.RecordingLimit)
	if err != nil {
		exitErr("load transcript", err)
	}
	defer p.Close()

	player := newPlayer()
	defer player.Close()

	m := tui.New(p.ctrl, tui.Config{
		Language:  lang,
		Folder:    cfg.Folder,
		ExportDir: exportDir,
		Notes:     r,
		Player:    player,
		Logger:    logger,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		exitErr("record", err)
	}
}
