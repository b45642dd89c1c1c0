package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hivequery/hive"
)

func init() {
	rootCmd.AddCommand(newFindCmd())
}

func newFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <hive> <key\\value>",
		Short: "Print a REG_SZ value addressed by a single path",
		Long: `The find command takes one path whose last segment is the value name
and whose leading segments are the key path.

Example:
  hivequery find NTUSER.DAT '\Software\Yahoo\pager\Yahoo! User ID'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(args)
		},
	}
	return cmd
}

func runFind(args []string) error {
	hivePath, fullPath := args[0], args[1]
	printVerbose("Opening hive: %s\n", hivePath)

	s, err := hive.FindKey(hivePath, fullPath)
	if err != nil {
		return fmt.Errorf("failed to find %s: %w", fullPath, err)
	}
	segs := hive.SplitPath(fullPath)
	key := `\` + strings.Join(segs[:len(segs)-1], `\`)
	return printValue(hivePath, key, segs[len(segs)-1], s)
}
