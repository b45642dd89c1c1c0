// Package probe answers "is this installed?" questions against the hives of
// a mounted Windows system by running many independent registry lookups.
package probe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MaxChecks bounds the size of a loaded check set.
const MaxChecks = 10000

// Check is one REG_SZ lookup: Value under Key in the hive file at Hive.
type Check struct {
	Name  string `yaml:"name" json:"name"`
	Hive  string `yaml:"hive" json:"hive"`
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// checkFile is the YAML document layout:
//
//	checks:
//	  - name: Yahoo
//	    hive: Documents and Settings/alice/NTUSER.DAT
//	    key: \Software\Yahoo\pager
//	    value: Yahoo! User ID
type checkFile struct {
	Checks []Check `yaml:"checks"`
}

// LoadChecks decodes a YAML check set. Unknown fields are rejected and
// every check needs a name and a hive.
func LoadChecks(r io.Reader) ([]Check, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f checkFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("unmarshaling checks: %w", err)
	}
	if len(f.Checks) > MaxChecks {
		return nil, fmt.Errorf("too many checks: %d (max %d)", len(f.Checks), MaxChecks)
	}
	for i, c := range f.Checks {
		if c.Name == "" {
			return nil, fmt.Errorf("check %d: missing name", i)
		}
		if c.Hive == "" {
			return nil, fmt.Errorf("check %q: missing hive", c.Name)
		}
	}
	return f.Checks, nil
}

// LoadFile reads a check set from path. Relative hive paths are resolved
// against the directory holding the file.
func LoadFile(path string) ([]Check, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	checks, err := LoadChecks(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i := range checks {
		if !filepath.IsAbs(checks[i].Hive) {
			checks[i].Hive = filepath.Join(dir, checks[i].Hive)
		}
	}
	return checks, nil
}

const profileListKey = `\Microsoft\Windows NT\CurrentVersion\ProfileList`

// WindowsXP returns the built-in checks for a Windows XP installation
// mounted at mount, for the account user.
func WindowsXP(mount, user string) []Check {
	software := SoftwareHive(mount)
	ntuser := filepath.Join(mount, "Documents and Settings", user, "NTUSER.DAT")
	return []Check{
		{Name: "Yahoo", Hive: ntuser, Key: `\Software\Yahoo\pager`, Value: "Yahoo! User ID"},
		{Name: "ProfilesDirectory", Hive: software, Key: profileListKey, Value: "ProfilesDirectory"},
		{Name: "AllUsersProfile", Hive: software, Key: profileListKey, Value: "AllUsersProfile"},
		{Name: "DefaultUserProfile", Hive: software, Key: profileListKey, Value: "DefaultUserProfile"},
	}
}
