package main

import (
	"testing"
)

func TestKeysCommand(t *testing.T) {
	hivePath := testHivePath(t)
	tests := []struct {
		name           string
		args           []string
		recursive      bool
		depth          int
		wantJSON       bool
		wantErr        bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name:           "root keys",
			args:           []string{hivePath},
			depth:          1,
			wantContain:    []string{"Software"},
			wantNotContain: []string{"Vendor"},
		},
		{
			name:           "subkeys of Software",
			args:           []string{hivePath, `\Software`},
			depth:          1,
			wantContain:    []string{`Software\Microsoft`, `Software\Vendor`},
			wantNotContain: []string{"Windows"},
		},
		{
			name:        "recursive unlimited",
			args:        []string{hivePath},
			recursive:   true,
			depth:       0,
			wantContain: []string{`Software\Microsoft\Windows`, `Software\Vendor`},
		},
		{
			name:           "recursive depth 2",
			args:           []string{hivePath},
			recursive:      true,
			depth:          2,
			wantContain:    []string{`Software\Microsoft`},
			wantNotContain: []string{"Windows"},
		},
		{
			name:        "json",
			args:        []string{hivePath, `\Software`},
			depth:       1,
			wantJSON:    true,
			wantContain: []string{`"path": "Software\\Vendor"`},
		},
		{
			name:    "missing key",
			args:    []string{hivePath, `\Nope`},
			depth:   1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			keysRecursive = tt.recursive
			keysDepth = tt.depth
			jsonOut = tt.wantJSON

			output, err := captureOutput(t, func() error {
				return runKeys(tt.args)
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("runKeys() error = %v, wantErr %v\nOutput: %s", err, tt.wantErr, output)
			}
			if tt.wantErr {
				return
			}
			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}
