package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hivequery/hive"
)

func init() {
	rootCmd.AddCommand(newGetCmd())
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <hive> <key> <value>",
		Short: "Print a REG_SZ value",
		Long: `The get command resolves a backslash-separated key path from the root
of the hive and prints the named REG_SZ value. Key and value names are
case-sensitive. An empty value name ("") selects the key's default value.

Example:
  hivequery get NTUSER.DAT '\Software\Yahoo\pager' 'Yahoo! User ID'
  hivequery get software '\Microsoft\Windows NT\CurrentVersion\ProfileList' ProfilesDirectory --json`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args)
		},
	}
	return cmd
}

func runGet(args []string) error {
	hivePath, keyPath, valueName := args[0], args[1], args[2]

	h, err := openHive(hivePath)
	if err != nil {
		return err
	}

	s, err := h.Lookup(keyPath, valueName)
	if err != nil {
		return fmt.Errorf("failed to get value: %w", err)
	}
	return printValue(hivePath, keyPath, valueName, s)
}

type valueOutput struct {
	Hive  string `json:"hive"`
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
	Data  string `json:"data"`
}

func printValue(hivePath, keyPath, valueName, data string) error {
	if jsonOut {
		return printJSON(valueOutput{
			Hive:  hivePath,
			Key:   keyPath,
			Value: valueName,
			Type:  hive.REG_SZ.String(),
			Data:  data,
		})
	}
	printInfo("%s\n", data)
	return nil
}
