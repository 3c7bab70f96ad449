package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mawicks/gaspra/modules/changeset"
)

var diffCmd = &cobra.Command{
	Use:   "diff <original> <modified>",
	Short: "Show the changeset between two files, line by line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		original, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("diff: reading %s: %w", args[0], err)
		}
		modified, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("diff: reading %s: %w", args[1], err)
		}

		originalLines := splitLines(original)
		tree := changeset.FindChangeset(originalLines, splitLines(modified))
		for _, fragment := range changeset.DiffStream(tree, originalLines) {
			switch f := fragment.(type) {
			case changeset.CopyFragment[string]:
				for _, line := range f.Content {
					fmt.Printf("  %s\n", line)
				}
			case changeset.ChangeFragment[string]:
				for _, line := range f.Delete {
					fmt.Printf("- %s\n", line)
				}
				for _, line := range f.Insert {
					fmt.Printf("+ %s\n", line)
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
