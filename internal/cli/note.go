package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/captains-log/internal/model"
	"github.com/rcliao/captains-log/internal/notes"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage saved notes",
}

func init() {
	createCmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a note",
		Long:  "Create a note. Each line piped on stdin becomes one transcript entry.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runNoteCreate,
	}
	createCmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	createCmd.Flags().String("folder", "", "Folder (default: Main Memory)")

	updateCmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update a note's title, tags or folder",
		Args:  cobra.ExactArgs(1),
		Run:   runNoteUpdate,
	}
	updateCmd.Flags().String("title", "", "New title")
	updateCmd.Flags().StringP("tags", "t", "", "Replace tags (comma-separated)")
	updateCmd.Flags().String("folder", "", "Move to folder")
	updateCmd.Flags().Bool("content", false, "Replace content with lines from stdin")

	noteCmd.AddCommand(createCmd, updateCmd)
	RootCmd.AddCommand(noteCmd)
}

// readEntries turns stdin lines into finalized transcript entries. Returns
// nil when stdin is a terminal.
func readEntries(r io.Reader, now time.Time) ([]model.TranscriptionResult, error) {
	if f, ok := r.(*os.File); ok {
		stat, _ := f.Stat()
		if stat == nil || stat.Mode()&os.ModeCharDevice != 0 {
			return nil, nil
		}
	}
	var out []model.TranscriptionResult
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		out = append(out, model.TranscriptionResult{
			Text:       line,
			Confidence: 1,
			IsFinal:    true,
			Timestamp:  now.UnixMilli(),
		})
	}
	return out, sc.Err()
}

func runNoteCreate(cmd *cobra.Command, args []string) {
	tagsStr, _ := cmd.Flags().GetString("tags")
	folder, _ := cmd.Flags().GetString("folder")
	title := strings.Join(args, " ")

	content, err := readEntries(os.Stdin, time.Now())
	if err != nil {
		exitErr("read stdin", err)
	}

	r, s := openRepo(cmd.Context())
	defer s.Close()

	n, err := r.CreateNote(cmd.Context(), title, content, splitTags(tagsStr), folder)
	if err != nil {
		exitErr("create note", err)
	}
	printNote(n)
}

func runNoteUpdate(cmd *cobra.Command, args []string) {
	var upd notes.NoteUpdate
	if cmd.Flags().Changed("title") {
		v, _ := cmd.Flags().GetString("title")
		upd.Title = notes.Ptr(v)
	}
	if cmd.Flags().Changed("tags") {
		v, _ := cmd.Flags().GetString("tags")
		upd.Tags = notes.Ptr(splitTags(v))
	}
	if cmd.Flags().Changed("folder") {
		v, _ := cmd.Flags().GetString("folder")
		upd.Folder = notes.Ptr(v)
	}
	if replace, _ := cmd.Flags().GetBool("content"); replace {
		content, err := readEntries(os.Stdin, time.Now())
		if err != nil {
			exitErr("read stdin", err)
		}
		upd.Content = notes.Ptr(content)
	}

	r, s := openRepo(cmd.Context())
	defer s.Close()

	n, err := r.UpdateNote(cmd.Context(), args[0], upd)
	if err != nil {
		exitErr("update note", err)
	}
	printNote(n)
}

func printNote(n model.Note) {
	if !textOutput() {
		printJSON(n)
		return
	}
	fmt.Printf("%s  %s\n", n.ID, n.Title)
	fmt.Printf("folder: %s\n", n.Folder)
	if len(n.Tags) > 0 {
		fmt.Printf("tags: %s\n", strings.Join(n.Tags, ", "))
	}
	fmt.Printf("created: %s  updated: %s\n",
		time.UnixMilli(n.CreatedAt).Format(time.DateTime),
		time.UnixMilli(n.UpdatedAt).Format(time.DateTime))
	for _, e := range n.Content {
		fmt.Printf("  [%s] %s\n", e.Time().Format("3:04:05 PM"), e.Text)
	}
}
