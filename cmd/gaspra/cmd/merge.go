package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mawicks/gaspra/modules/changeset"
	"github.com/mawicks/gaspra/modules/merge"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <base> <ours> <theirs>",
	Short: "Three-way merge of ours/theirs against a common base",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("merge: reading %s: %w", args[0], err)
		}
		ours, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("merge: reading %s: %w", args[1], err)
		}
		theirs, err := os.ReadFile(args[2])
		if err != nil {
			return fmt.Errorf("merge: reading %s: %w", args[2], err)
		}

		result := merge.Merge(splitLines(base), splitLines(ours), splitLines(theirs))

		hasConflict := false
		for _, fragment := range result {
			switch f := fragment.(type) {
			case changeset.CopyFragment[string]:
				fmt.Print(joinLines(f.Content))
			case changeset.ConflictFragment[string]:
				hasConflict = true
				fmt.Printf("<<<<<<< %s\n", args[1])
				fmt.Print(joinLines(f.Version1))
				fmt.Println("=======")
				fmt.Print(joinLines(f.Version2))
				fmt.Printf(">>>>>>> %s\n", args[2])
			}
		}
		if hasConflict {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
