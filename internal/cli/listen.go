package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/captains-log/internal/session"
	"github.com/rcliao/captains-log/internal/sound"
)

func init() {
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Record one session without the TUI",
		Long: `Start a listening session and print session events as they arrive.
Finalized lines are appended to the stored transcript. The session ends when
the recognizer ends, the recording limit is reached, or on Ctrl-C.`,
		Run: runListen,
	}

	cmd.Flags().String("source", "", "Speech source: daemon or stdin (default from config)")
	cmd.Flags().String("language", "", "Recognition language (default from config)")
	cmd.Flags().Duration("limit", 0, "Recording limit (default from config)")
	cmd.Flags().Bool("interim", false, "Also print interim results")
	cmd.Flags().String("save", "", "Save the transcript as a note with this title when done")
	cmd.Flags().StringP("tags", "t", "", "Tags for --save (comma-separated)")
	cmd.Flags().String("folder", "", "Folder for --save")

	RootCmd.AddCommand(cmd)
}

type eventLine struct {
	Event     string  `json:"event"`
	SessionID string  `json:"sessionId"`
	Timestamp int64   `json:"timestamp,omitempty"`
	Text      string  `json:"text,omitempty"`
	Conf      float64 `json:"confidence,omitempty"`
	Error     string  `json:"error,omitempty"`
}

func printEvent(ev session.Event, interim bool) {
	line := eventLine{Event: string(ev.Type), SessionID: ev.SessionID, Timestamp: ev.Timestamp}
	switch ev.Type {
	case session.EventInterim:
		if !interim {
			return
		}
		line.Text = ev.Text
	case session.EventResult:
		line.Text = ev.Result.Text
		line.Conf = ev.Result.Confidence
		line.Timestamp = ev.Result.Timestamp
	case session.EventError:
		line.Error = ev.Err.Message
	}

	if !textOutput() {
		b, _ := json.Marshal(line)
		fmt.Println(string(b))
		return
	}
	switch ev.Type {
	case session.EventStart:
		fmt.Printf("-- listening (%s)\n", ev.SessionID)
	case session.EventInterim:
		if line.Text != "" {
			fmt.Printf("   ~ %s\n", line.Text)
		}
	case session.EventResult:
		fmt.Printf("[%s] %s\n", ev.Result.Time().Format("3:04:05 PM"), line.Text)
	case session.EventError:
		fmt.Printf("!! %s\n", line.Error)
	case session.EventEnd:
		fmt.Println("-- end")
	}
}

func runListen(cmd *cobra.Command, args []string) {
	source, _ := cmd.Flags().GetString("source")
	lang, _ := cmd.Flags().GetString("language")
	limit, _ := cmd.Flags().GetDuration("limit")
	interim, _ := cmd.Flags().GetBool("interim")
	saveTitle, _ := cmd.Flags().GetString("save")
	tagsStr, _ := cmd.Flags().GetString("tags")
	folder, _ := cmd.Flags().GetString("folder")

	if source == "" {
		source = cfg.Recognizer
	}
	if lang == "" {
		lang = cfg.Language
	}
	if limit <= 0 {
		limit = cfg.RecordingLimit
	}
	if folder == "" {
		folder = cfg.Folder
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	rec, err := newRecognizer(source, os.Stdin)
	if err != nil {
		exitErr("listen", err)
	}

	r, s := openRepo(ctx)
	defer s.Close()

	p, err := newPipeline(ctx, rec, s, limit)
	if err != nil {
		exitErr("load transcript", err)
	}
	defer p.Close()

	player := newPlayer()
	defer player.Close()

	done := make(chan struct{})
	var once sync.Once
	p.mgr.Subscribe(func(ev session.Event) {
		printEvent(ev, interim)
		if ev.Type == session.EventEnd {
			once.Do(func() { close(done) })
		}
	})

	player.Play(sound.StartTone)
	if err := p.ctrl.Start(ctx, session.DefaultOptions(lang)); err != nil {
		exitErr("start", err)
	}

	select {
	case <-done:
	case <-ctx.Done():
		if err := p.ctrl.Stop(); err != nil {
			logger.Warn("stop", "err", err)
		}
		select {
		case <-done:
		case <-time.After(3 * time.Second):
			logger.Warn("recognizer did not confirm stop")
		}
	}
	player.Play(sound.StopTone)

	if saveTitle == "" {
		return
	}
	n, err := p.ctrl.Save(context.WithoutCancel(ctx), r, saveTitle, splitTags(tagsStr), folder)
	if err != nil {
		exitErr("save", err)
	}
	player.Announce("log saved", n.Title)
	printNote(n)
}
