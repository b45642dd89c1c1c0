package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hivequery/internal/logging"
	"github.com/joshuapare/hivequery/probe"
)

func init() {
	rootCmd.AddCommand(newUsersCmd())
}

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users <mount>",
		Short: "List the user accounts of a mounted Windows XP installation",
		Long: `The users command reads ProfilesDirectory from the SOFTWARE hive of a
Windows XP installation and lists the profile directories below it. The
All Users and Default User profiles and the service accounts are left out.

Example:
  hivequery users /mnt/windows
  hivequery users /mnt/windows --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsers(args)
		},
	}
	return cmd
}

type usersOutput struct {
	Mount string   `json:"mount"`
	Users []string `json:"users"`
}

func runUsers(args []string) error {
	mount := args[0]
	printVerbose("Reading profiles of %s\n", probe.SoftwareHive(mount))

	users, err := probe.Users(mount)
	if errors.Is(err, probe.ErrNoProfilesDirectory) {
		return fmt.Errorf("no user profiles under %s: %w", mount, err)
	}
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	logging.Debug("users listed", "mount", mount, "count", len(users))

	if jsonOut {
		if users == nil {
			users = []string{}
		}
		return printJSON(usersOutput{Mount: mount, Users: users})
	}
	for _, u := range users {
		printInfo("%s\n", u)
	}
	return nil
}
