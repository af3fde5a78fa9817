package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/captains-log/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		Run:   runList,
	}

	cmd.Flags().StringP("search", "s", "", "Case-insensitive text search over title, content and tags")
	cmd.Flags().StringP("tags", "t", "", "Match any of these tags (comma-separated)")
	cmd.Flags().String("folder", "", "Only notes in this folder")
	cmd.Flags().String("since", "", "Created at or after (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().String("until", "", "Created at or before (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().String("sort", "", "Sort by title, createdAt or updatedAt")
	cmd.Flags().Bool("desc", false, "Sort descending")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 for all)")

	foldersCmd := &cobra.Command{
		Use:   "folders",
		Short: "List folders in use",
		Run:   runFolders,
	}
	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags in use",
		Run:   runTags,
	}

	noteCmd.AddCommand(cmd, foldersCmd, tagsCmd)
}

// parseDate accepts YYYY-MM-DD (local midnight) or RFC 3339. With endOfDay a
// bare date covers the whole day.
func parseDate(s string, endOfDay bool) (int64, error) {
	if s == "" {
		return 0, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UnixMilli(), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q", s)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return t.UnixMilli(), nil
}

func runList(cmd *cobra.Command, args []string) {
	search, _ := cmd.Flags().GetString("search")
	tagsStr, _ := cmd.Flags().GetString("tags")
	folder, _ := cmd.Flags().GetString("folder")
	since, _ := cmd.Flags().GetString("since")
	until, _ := cmd.Flags().GetString("until")
	sortField, _ := cmd.Flags().GetString("sort")
	desc, _ := cmd.Flags().GetBool("desc")
	limit, _ := cmd.Flags().GetInt("limit")

	filter := &model.NoteFilter{
		SearchText: search,
		Tags:       splitTags(tagsStr),
		Folder:     folder,
	}
	var err error
	if filter.StartDate, err = parseDate(since, false); err != nil {
		exitErr("list", err)
	}
	if filter.EndDate, err = parseDate(until, true); err != nil {
		exitErr("list", err)
	}

	var sortOpts *model.SortOptions
	if sortField != "" {
		f := model.SortField(sortField)
		if !model.ValidSortFields[f] {
			exitErr("list", fmt.Errorf("unknown sort field %q", sortField))
		}
		dir := model.Asc
		if desc {
			dir = model.Desc
		}
		sortOpts = &model.SortOptions{Field: f, Direction: dir}
	}

	r, s := openRepo(cmd.Context())
	defer s.Close()

	result := r.GetNotes(filter, sortOpts)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	if textOutput() {
		for _, n := range result {
			fmt.Printf("%s  %-24s  %-14s  %d entries  %s\n",
				n.ID, n.Title, n.Folder, len(n.Content), strings.Join(n.Tags, ","))
		}
		return
	}
	printJSON(result)
}

func runFolders(cmd *cobra.Command, args []string) {
	r, s := openRepo(cmd.Context())
	defer s.Close()
	printList(r.GetFolders())
}

func runTags(cmd *cobra.Command, args []string) {
	r, s := openRepo(cmd.Context())
	defer s.Close()
	printList(r.GetAllTags())
}

func printList(items []string) {
	if textOutput() {
		for _, it := range items {
			fmt.Println(it)
		}
		return
	}
	if items == nil {
		items = []string{}
	}
	printJSON(items)
}
