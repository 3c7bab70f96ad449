package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mawicks/gaspra/modules/patch"
	"github.com/mawicks/gaspra/modules/store"
)

var storeCmd = &cobra.Command{
	Use:   "store <file>...",
	Short: "Add a chain of files to an in-memory version store and verify round-trips",
	Long: "store treats its arguments as a linear history (each file's existing head is " +
		"the tag before it), adds them all to a fresh VersionStore, then prints " +
		"version_info for each tag and confirms get(tag) reproduces the file exactly. " +
		"The store itself is in-memory only; a persistent backing map is outside this library's scope.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.New[byte](patch.ByteCodec{})
		if err != nil {
			return fmt.Errorf("store: %w", err)
		}

		var previous *string
		tags := make([]string, len(args))
		for i, path := range args {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("store: reading %s: %w", path, err)
			}
			tag := fmt.Sprintf("v%d", i)
			if err := s.Add(tag, content, previous); err != nil {
				return fmt.Errorf("store: adding %s: %w", tag, err)
			}
			tags[i] = tag
			previous = &tags[i]
		}

		for i, tag := range tags {
			info, err := s.VersionInfo(tag)
			if err != nil {
				return fmt.Errorf("store: version_info(%s): %w", tag, err)
			}
			fmt.Printf("%s (%s): tokens=%d changes=%d", tag, args[i], info.TokenCount, info.ChangeCount)
			if info.HasBase {
				fmt.Printf(" base=%s", info.BaseVersion)
			}
			fmt.Println()

			got, err := s.Get(tag)
			if err != nil {
				return fmt.Errorf("store: get(%s): %w", tag, err)
			}
			original, err := os.ReadFile(args[i])
			if err != nil {
				return fmt.Errorf("store: reading %s: %w", args[i], err)
			}
			if string(got) != string(original) {
				return fmt.Errorf("store: round-trip mismatch for %s", tag)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(storeCmd)
}
