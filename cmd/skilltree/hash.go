package main

import (
	"skilltree/internal/domain"
	"skilltree/internal/ui"

	"github.com/spf13/cobra"
)

func hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <identifier>...",
		Short: "Print the node id derived from each qualified identifier",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rows := make([][]string, len(args))
			for i, name := range args {
				rows[i] = []string{name, domain.HashID(name)}
			}
			ui.Table(cmd.OutOrStdout(), []string{"IDENTIFIER", "ID"}, rows)
		},
	}
}
