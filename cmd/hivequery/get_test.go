package main

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/joshuapare/hivequery/hive"
)

func TestGetCommand(t *testing.T) {
	hivePath := testHivePath(t)
	tests := []struct {
		name           string
		path           string
		valueName      string
		wantErr        error
		wantContain    []string
		wantNotContain []string
		wantJSON       bool
	}{
		{
			name:        "get InstallPath",
			path:        `\Software\Vendor`,
			valueName:   "InstallPath",
			wantContain: []string{`C:\Program Files\App`},
		},
		{
			name:        "get default value",
			path:        `Software\Vendor`,
			valueName:   "",
			wantContain: []string{"vendor default"},
		},
		{
			name:        "get value as JSON",
			path:        `\Software\Vendor`,
			valueName:   "InstallPath",
			wantJSON:    true,
			wantContain: []string{`"type": "REG_SZ"`, `"key": "\\Software\\Vendor"`},
		},
		{
			name:      "nonexistent key",
			path:      `\Software\Missing`,
			valueName: "InstallPath",
			wantErr:   hive.KeyNotFound("Missing"),
		},
		{
			name:      "nonexistent value",
			path:      `\Software\Vendor`,
			valueName: "NoSuchValue",
			wantErr:   hive.ErrValueNotFound,
		},
		{
			name:      "dword value",
			path:      `\Software\Vendor`,
			valueName: "Version",
			wantErr:   hive.ErrUnsupportedValueType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			jsonOut = tt.wantJSON

			output, err := captureOutput(t, func() error {
				return runGet([]string{hivePath, tt.path, tt.valueName})
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("runGet() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("runGet() error = %v\nOutput: %s", err, output)
			}
			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestGetQuiet(t *testing.T) {
	resetFlags()
	quiet = true
	defer resetFlags()

	output, err := captureOutput(t, func() error {
		return runGet([]string{testHivePath(t), `\Software\Vendor`, "InstallPath"})
	})
	if err != nil {
		t.Fatalf("runGet() error = %v", err)
	}
	if output != "" {
		t.Errorf("expected no output in quiet mode, got %q", output)
	}
}

func TestGetBadHive(t *testing.T) {
	resetFlags()
	_, err := captureOutput(t, func() error {
		return runGet([]string{"/nonexistent/NTUSER.DAT", `\`, "x"})
	})
	if err == nil {
		t.Fatal("expected error for missing hive file")
	}
}

func TestFindCommand(t *testing.T) {
	resetFlags()
	hivePath := testHivePath(t)

	output, err := captureOutput(t, func() error {
		return runFind([]string{hivePath, `\Software\Vendor\InstallPath`})
	})
	if err != nil {
		t.Fatalf("runFind() error = %v", err)
	}
	assertContains(t, output, []string{`C:\Program Files\App`})

	jsonOut = true
	defer resetFlags()
	output, err = captureOutput(t, func() error {
		return runFind([]string{hivePath, `Software\Vendor\InstallPath`})
	})
	if err != nil {
		t.Fatalf("runFind() error = %v", err)
	}
	assertJSON(t, output)
	assertContains(t, output, []string{`"value": "InstallPath"`, `"key": "\\Software\\Vendor"`})

	_, err = captureOutput(t, func() error {
		return runFind([]string{hivePath, `\Software\Nope\InstallPath`})
	})
	if !hive.IsAbsent(err) {
		t.Fatalf("expected absent error, got %v", err)
	}
}

func TestOpenHiveRejectsBadHeader(t *testing.T) {
	hivePath := testHivePath(t)
	if err := os.WriteFile(hivePath, []byte("regf"), 0o644); err != nil {
		t.Fatal(err)
	}
	resetFlags()
	h, err := openHive(hivePath)
	if err == nil || !strings.Contains(err.Error(), "truncated hive header") {
		t.Fatalf("expected header error, got %v", err)
	}
	if h != nil {
		t.Fatalf("expected no hive on failure")
	}
}
