package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hivequery/hive"
	"github.com/joshuapare/hivequery/internal/logging"
	"github.com/joshuapare/hivequery/internal/hivefile"
)

var (
	// Global flags
	verbose     bool
	quiet       bool
	jsonOut     bool
	debug       bool
	concurrency int
)

var rootCmd = &cobra.Command{
	Use:   "hivequery",
	Short: "Read string values from Windows registry hive files",
	Long: `hivequery locates keys in Windows NT registry hive files (NTUSER.DAT,
SOFTWARE, SYSTEM, ...) and prints their REG_SZ values. It never modifies
a hive and tolerates truncated or corrupt input.

Defaults for the global flags can be set through HIVEQUERY_LOG_LEVEL,
HIVEQUERY_CONCURRENCY and HIVEQUERY_JSON, or a .env file in the working
directory.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return applyConfig(cmd) },
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log debug records to stderr")
	rootCmd.PersistentFlags().
		IntVar(&concurrency, "concurrency", 0, "Parallel hive lookups for probe (0 = number of CPUs)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyConfig merges environment defaults into flags the user did not set
// and configures logging.
func applyConfig(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("json") {
		jsonOut = cfg.JSON
	}
	if !flags.Changed("concurrency") {
		concurrency = cfg.Concurrency
	}

	level := cfg.LogLevel
	if debug {
		level = slog.LevelDebug
	}
	logging.Init(logging.Options{
		Enabled: debug || cfg.LogLevelSet,
		JSON:    jsonOut,
		Level:   level,
	})
	return nil
}

// openHive reads the file at path into memory and validates its header.
func openHive(path string) (*hive.Hive, error) {
	printVerbose("Opening hive: %s\n", path)
	data, err := hivefile.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open hive: %w", err)
	}
	h, err := hive.ReadHeader(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read hive %s: %w", path, err)
	}
	logging.Debug("hive opened", "path", path, "size", h.Size, "root", h.RootOffset)
	return h, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
