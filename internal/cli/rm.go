package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	noteCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	r, s := openRepo(cmd.Context())
	defer s.Close()

	if err := r.DeleteNote(cmd.Context(), args[0]); err != nil {
		exitErr("rm", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q}`+"\n", args[0])
}
