package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hivequery/hive"
)

var (
	keysRecursive bool
	keysDepth     int
)

func init() {
	cmd := newKeysCmd()
	cmd.Flags().BoolVarP(&keysRecursive, "recursive", "r", false, "List all subkeys recursively")
	cmd.Flags().IntVar(&keysDepth, "depth", 1, "Maximum recursion depth (0 = unlimited)")
	rootCmd.AddCommand(cmd)
}

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys <hive> [key]",
		Short: "List subkeys of a key",
		Long: `The keys command lists the subkeys of a key in on-disk order.
If no key is given, the subkeys of the root are listed.

Example:
  hivequery keys software
  hivequery keys software '\Microsoft\Windows NT' --recursive --depth 2
  hivequery keys NTUSER.DAT '\Software' --json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(args)
		},
	}
	return cmd
}

type keyOutput struct {
	Path       string    `json:"path"`
	Subkeys    uint32    `json:"subkeys"`
	Values     uint32    `json:"values"`
	LastWrite  time.Time `json:"last_write"`
	CellOffset uint32    `json:"cell_offset"`
}

func runKeys(args []string) error {
	hivePath := args[0]
	var keyPath string
	if len(args) > 1 {
		keyPath = args[1]
	}

	h, err := openHive(hivePath)
	if err != nil {
		return err
	}

	parent, err := h.Resolve(keyPath)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	depth := 1
	if keysRecursive {
		depth = keysDepth
	}
	prefix := strings.Join(hive.SplitPath(keyPath), `\`)
	w := keyWalker{h: h, seen: map[uint32]bool{parent.Offset: true}}
	if err := w.walk(parent, prefix, depth); err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"hive": hivePath,
			"path": keyPath,
			"keys": w.keys,
		})
	}
	for _, k := range w.keys {
		printInfo("%s\n", k.Path)
		printVerbose("  subkeys=%d values=%d last_write=%s\n",
			k.Subkeys, k.Values, k.LastWrite.Format(time.RFC3339))
	}
	return nil
}

type keyWalker struct {
	h    *hive.Hive
	seen map[uint32]bool // guards against child lists that loop back
	keys []keyOutput
}

// walk appends the children of parent, descending depth levels
// (depth <= 0 means unlimited).
func (w *keyWalker) walk(parent hive.KeyNode, prefix string, depth int) error {
	children, err := w.h.Children(parent)
	if err != nil {
		return err
	}
	for _, c := range children {
		if w.seen[c.Offset] {
			continue
		}
		w.seen[c.Offset] = true
		k, err := w.h.DecodeKey(c.Offset)
		if err != nil {
			return err
		}
		path := k.Name
		if prefix != "" {
			path = prefix + `\` + k.Name
		}
		w.keys = append(w.keys, keyOutput{
			Path:       path,
			Subkeys:    k.ChildCount,
			Values:     k.ValueCount,
			LastWrite:  k.LastWrite,
			CellOffset: k.Offset,
		})
		if depth != 1 {
			if err := w.walk(k, path, depth-1); err != nil {
				return err
			}
		}
	}
	return nil
}
