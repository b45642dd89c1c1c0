package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hivequery/internal/logging"
	"github.com/joshuapare/hivequery/probe"
)

var (
	probeWindowsXP string
	probeUser      string
)

func init() {
	cmd := newProbeCmd()
	cmd.Flags().StringVar(&probeWindowsXP, "windowsxp", "", "Run the built-in checks against a Windows XP installation mounted at this path")
	cmd.Flags().StringVar(&probeUser, "user", "", "Account name for --windowsxp")
	rootCmd.AddCommand(cmd)
}

func newProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe [checks.yaml]",
		Short: "Run a set of value lookups concurrently",
		Long: `The probe command evaluates many lookups, each against its own hive file,
and reports which values are present. Checks come from a YAML file or from
the built-in Windows XP set.

A missing hive, key or value is reported as absent. Corrupt hives and
values of other types than REG_SZ are reported as errors, and make the
command exit non-zero.

Example:
  hivequery probe checks.yaml
  hivequery probe --windowsxp /mnt/windows --user alice --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd.Context(), args)
		},
	}
	return cmd
}

type probeOutput struct {
	Name    string `json:"name"`
	Hive    string `json:"hive"`
	Key     string `json:"key"`
	Value   string `json:"value"`
	Present bool   `json:"present"`
	Data    string `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func runProbe(ctx context.Context, args []string) error {
	checks, err := probeChecks(args)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	r := &probe.Runner{Concurrency: concurrency, Logger: logging.L}
	results, err := r.Run(ctx, checks)
	if err != nil {
		return fmt.Errorf("probe interrupted: %w", err)
	}

	out := make([]probeOutput, len(results))
	failed := 0
	for i, res := range results {
		out[i] = probeOutput{
			Name:    res.Check.Name,
			Hive:    res.Check.Hive,
			Key:     res.Check.Key,
			Value:   res.Check.Value,
			Present: res.Present,
			Data:    res.Value,
		}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
			failed++
		}
	}

	if jsonOut {
		if err := printJSON(out); err != nil {
			return err
		}
	} else {
		for _, o := range out {
			switch {
			case o.Error != "":
				printInfo("%-24s error   %s\n", o.Name, o.Error)
			case o.Present:
				printInfo("%-24s present %s\n", o.Name, o.Data)
			default:
				printInfo("%-24s absent\n", o.Name)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(out))
	}
	return nil
}

func probeChecks(args []string) ([]probe.Check, error) {
	switch {
	case probeWindowsXP != "" && len(args) > 0:
		return nil, errors.New("use either a checks file or --windowsxp, not both")
	case probeWindowsXP != "":
		if probeUser == "" {
			return nil, errors.New("--windowsxp requires --user")
		}
		return probe.WindowsXP(probeWindowsXP, probeUser), nil
	case len(args) == 1:
		return probe.LoadFile(args[0])
	default:
		return nil, errors.New("expected a checks file or --windowsxp")
	}
}
