package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"l10nbot/translations"
)

// fixture copies the shipped catalog into a temp dir and returns its path.
func fixture(t *testing.T) string {
	t.Helper()
	data, err := translations.FS.ReadFile("MagicPhotos_fr.ts")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "MagicPhotos_fr.ts")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runTsctl(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestLookup(t *testing.T) {
	path := fixture(t)
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-context", "HelpPage", "-source", "Recommend App"}, "Recommander"},
		{[]string{"-context", "BlurPage", "-source", "Editor modes"}, "Editor modes"},
		{[]string{"-context", "HelpPage", "-source", "Recommend App", "-locale", "fr"}, "Recommander"},
		{[]string{"-context", "HelpPage", "-source", "Recommend App", "-locale", "en"}, "Recommend App"},
		{[]string{"-context", "HelpPage", "-source", "Recommend App", "-n", "3"}, "Recommander"},
	}
	for _, tt := range tests {
		args := append([]string{"lookup", "-f", path}, tt.args...)
		code, out, errOut := runTsctl(t, args...)
		if code != 0 || strings.TrimSpace(out) != tt.want {
			t.Errorf("%v: code=%d out=%q err=%q, want %q", tt.args, code, out, errOut, tt.want)
		}
	}
}

func TestCheckAndStats(t *testing.T) {
	path := fixture(t)

	code, _, errOut := runTsctl(t, "check", "-f", path)
	if code != 0 {
		t.Errorf("check: code=%d stderr=%q", code, errOut)
	}

	code, out, _ := runTsctl(t, "stats", "-f", path)
	if code != 0 || !strings.HasPrefix(out, "fr_FR MagicPhotos_fr.ts: ") {
		t.Errorf("stats: code=%d out=%q", code, out)
	}
	if !strings.Contains(out, "HelpPage") {
		t.Errorf("stats lacks contexts: %q", out)
	}
}

func TestCheckFailsOnConflicts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad_fr.ts")
	doc := `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS>
<TS version="2.1" language="fr_FR">
<context>
    <name>main</name>
    <message>
        <source>Open</source>
        <translation>Ouvrir</translation>
    </message>
    <message>
        <source>Open</source>
        <translation>Ouvre</translation>
    </message>
</context>
</TS>
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	code, out, errOut := runTsctl(t, "check", "-f", path)
	if code != 1 || !strings.Contains(out, "error [conflict]") || !strings.Contains(errOut, "blocking") {
		t.Errorf("code=%d out=%q err=%q", code, out, errOut)
	}
}

func TestFmtIsStableOnLupdateOutput(t *testing.T) {
	path := fixture(t)
	before, _ := os.ReadFile(path)

	code, out, _ := runTsctl(t, "fmt", "-f", path)
	if code != 0 || out != string(before) {
		t.Errorf("fmt output differs from the file (code=%d)", code)
	}

	code, out, _ = runTsctl(t, "fmt", "-f", path, "-w")
	if code != 0 || out != "" {
		t.Errorf("fmt -w on a formatted file: code=%d out=%q", code, out)
	}
}

func TestExport(t *testing.T) {
	path := fixture(t)
	dir := t.TempDir()
	code, out, errOut := runTsctl(t, "export", "-f", path, "-o", dir)
	if code != 0 {
		t.Fatalf("code=%d err=%q", code, errOut)
	}
	want := filepath.Join(dir, "MagicPhotos.fr-FR.toml")
	if strings.TrimSpace(out) != want {
		t.Errorf("out = %q", out)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Recommander") {
		t.Error("export lacks translations")
	}
}

func TestUsageErrors(t *testing.T) {
	path := fixture(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no args", nil, "usage:"},
		{"unknown command", []string{"frobnicate"}, "unknown command"},
		{"unknown flag", []string{"stats", "-bogus"}, "-bogus"},
		{"missing -f", []string{"stats"}, "-f is required"},
		{"bad flag value", []string{"lookup", "-n", "x", "-f", path}, "invalid value"},
		{"missing source", []string{"lookup", "-f", path, "-context", "HelpPage"}, "-context and -source are required"},
		{"help", []string{"check", "-h"}, "usage:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runTsctl(t, tt.args...)
			if code != 2 || !strings.Contains(errOut, tt.want) {
				t.Errorf("code=%d err=%q, want 2 and %q", code, errOut, tt.want)
			}
		})
	}
}

func TestMissingFileExitsOne(t *testing.T) {
	code, _, errOut := runTsctl(t, "stats", "-f", filepath.Join(t.TempDir(), "absent.ts"))
	if code != 1 || errOut == "" {
		t.Errorf("code=%d err=%q", code, errOut)
	}
}
