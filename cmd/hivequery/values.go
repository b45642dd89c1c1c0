package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hivequery/hive"
)

func init() {
	rootCmd.AddCommand(newValuesCmd())
}

func newValuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "values <hive> [key]",
		Short: "List values of a key",
		Long: `The values command lists every value of a key with its type and size.
REG_SZ data is printed; other types are listed without their data.

Example:
  hivequery values software '\Microsoft\Windows NT\CurrentVersion\ProfileList'
  hivequery values NTUSER.DAT '\Software\Yahoo\pager' --json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValues(args)
		},
	}
	return cmd
}

type valueListing struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Size     int32  `json:"size"`
	Resident bool   `json:"resident"`
	Data     string `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
}

func runValues(args []string) error {
	hivePath := args[0]
	var keyPath string
	if len(args) > 1 {
		keyPath = args[1]
	}

	h, err := openHive(hivePath)
	if err != nil {
		return err
	}

	key, err := h.Resolve(keyPath)
	if err != nil {
		return fmt.Errorf("failed to list values: %w", err)
	}
	vals, err := h.Values(key)
	if err != nil {
		return fmt.Errorf("failed to list values: %w", err)
	}

	out := make([]valueListing, 0, len(vals))
	for _, v := range vals {
		l := valueListing{Name: v.Name, Type: v.Type.String(), Size: v.DataSize, Resident: v.Resident}
		if v.Type == hive.REG_SZ {
			if s, err := h.ValueString(v); err != nil {
				l.Error = err.Error()
			} else {
				l.Data = s
			}
		}
		out = append(out, l)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"hive":   hivePath,
			"path":   keyPath,
			"values": out,
		})
	}
	for _, l := range out {
		name := l.Name
		if name == "" {
			name = "(default)"
		}
		switch {
		case l.Error != "":
			printInfo("%s\t%s\t<%s>\n", name, l.Type, l.Error)
		case l.Type == hive.REG_SZ.String():
			printInfo("%s\t%s\t%s\n", name, l.Type, l.Data)
		default:
			printInfo("%s\t%s\t(%d bytes)\n", name, l.Type, l.Size)
		}
	}
	return nil
}
