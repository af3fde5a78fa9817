package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	noteCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	r, s := openRepo(cmd.Context())
	defer s.Close()

	n, err := r.GetNote(args[0])
	if err != nil {
		exitErr("get", err)
	}
	printNote(n)
}
