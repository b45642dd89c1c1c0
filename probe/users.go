package probe

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joshuapare/hivequery/hive"
)

// ErrNoProfilesDirectory reports a SOFTWARE hive, ProfileList key or
// ProfilesDirectory value that does not exist. Read failures and corrupt
// hives are returned without it.
var ErrNoProfilesDirectory = errors.New("profiles directory not found")

// serviceProfiles are built-in accounts that own a profile directory.
var serviceProfiles = []string{"NetworkService", "LocalService"}

// systemVars maps the environment variables used in profile paths to their
// location relative to the system drive.
var systemVars = map[string]string{
	"%systemdrive%": "",
	"%systemroot%":  "WINDOWS",
	"%windir%":      "WINDOWS",
}

// SoftwareHive returns the path of the SOFTWARE hive of a Windows XP
// installation mounted at mount.
func SoftwareHive(mount string) string {
	return filepath.Join(mount, "WINDOWS", "system32", "config", "software")
}

// Users lists the user accounts of a Windows XP installation mounted at
// mount. It reads ProfilesDirectory from the SOFTWARE hive and returns the
// directories below it, leaving out the All Users and Default User
// profiles and the service accounts. Names are sorted.
func Users(mount string) ([]string, error) {
	software := SoftwareHive(mount)

	profiles, err := hive.LookupFile(software, profileListKey, "ProfilesDirectory")
	if err != nil {
		if hive.IsAbsent(err) || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNoProfilesDirectory, err)
		}
		return nil, fmt.Errorf("read ProfilesDirectory: %w", err)
	}

	skip := map[string]bool{}
	for _, s := range serviceProfiles {
		skip[s] = true
	}
	for _, name := range []string{"AllUsersProfile", "DefaultUserProfile"} {
		dir, err := hive.LookupFile(software, profileListKey, name)
		switch {
		case hive.IsAbsent(err):
			continue
		case err != nil:
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		skip[dir] = true
	}

	dir := MountPath(mount, profiles)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	var users []string
	for _, e := range entries {
		if !e.IsDir() || skip[e.Name()] {
			continue
		}
		users = append(users, e.Name())
	}
	return users, nil
}

// MountPath converts a Windows path such as %SystemDrive%\Documents and
// Settings or C:\Documents and Settings into a path below mount.
func MountPath(mount, winPath string) string {
	p := winPath
	if len(p) >= 2 && p[1] == ':' {
		p = p[2:]
	}
	if strings.HasPrefix(p, "%") {
		if end := strings.IndexByte(p[1:], '%'); end >= 0 {
			name := strings.ToLower(p[:end+2])
			if repl, ok := systemVars[name]; ok {
				p = repl + p[end+2:]
			}
		}
	}
	parts := []string{mount}
	parts = append(parts, hive.SplitPath(p)...)
	return filepath.Join(parts...)
}
