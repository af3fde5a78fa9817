package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/captains-log/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export notes as JSON",
		Long:  "Export notes as a JSON array in the same shape they are stored. Filter by folder with --folder.",
		Run:   runExport,
	}

	cmd.Flags().String("folder", "", "Only notes in this folder")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	folder, _ := cmd.Flags().GetString("folder")

	r, s := openRepo(cmd.Context())
	defer s.Close()

	all := r.Export()
	if folder != "" {
		all = r.GetNotes(&model.NoteFilter{Folder: folder}, nil)
	}
	if all == nil {
		all = []model.Note{}
	}
	printJSON(all)
}
