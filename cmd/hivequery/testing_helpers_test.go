package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/hivequery/internal/hivetest"
)

// testHivePath writes the standard test hive to a temp dir and returns its path:
//
//	ROOT
//	└── Software
//	    ├── Microsoft
//	    │   └── Windows
//	    └── Vendor  InstallPath (REG_SZ), Version (REG_DWORD), (default)
func testHivePath(t *testing.T) string {
	t.Helper()
	im := hivetest.Build(&hivetest.Key{
		Name: "ROOT",
		Subkeys: []*hivetest.Key{{
			Name: "Software",
			Subkeys: []*hivetest.Key{
				{Name: "Microsoft", Subkeys: []*hivetest.Key{{Name: "Windows"}}},
				{
					Name: "Vendor",
					Values: []hivetest.Value{
						hivetest.String("InstallPath", `C:\Program Files\App`),
						hivetest.DWORD("Version", 3),
						hivetest.String("", "vendor default"),
					},
				},
			},
		}},
	})
	path := filepath.Join(t.TempDir(), "NTUSER.DAT")
	if err := os.WriteFile(path, im.Bytes, 0o644); err != nil {
		t.Fatalf("write test hive: %v", err)
	}
	return path
}

// resetFlags restores global flags to their defaults
func resetFlags() {
	verbose, quiet, jsonOut, debug = false, false, false, false
	concurrency = 0
	keysRecursive, keysDepth = false, 1
	probeWindowsXP, probeUser = "", ""
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		defer close(done)
		_, _ = buf.ReadFrom(r)
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	<-done
	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
