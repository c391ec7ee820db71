package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolateEnvironment(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "TZ", "DEFAULT_LANGUAGE", "LOG_LEVEL", "LOG_PRETTY", "REFERENCE_DB_PATH", "SHARE_SECRET", "SHARE_TOKEN_TTL"} {
		t.Setenv(key, "")
	}
	chdir(t, t.TempDir())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	previous, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(previous); err != nil {
			t.Fatalf("restore working directory %s: %v", previous, err)
		}
	})
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCommand(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCalcCommand(t *testing.T) {
	isolateEnvironment(t)

	output, err := executeCommand(t, "calc", "--last-period", "2024-01-01", "--cycle", "35", "--today", "2024-03-01", "--lang", "en")
	if err != nil {
		t.Fatalf("calc returned error: %v", err)
	}

	payload := map[string]any{}
	if err := json.Unmarshal([]byte(output), &payload); err != nil {
		t.Fatalf("decode calc output %q: %v", output, err)
	}
	if payload["dueDate"] != "2024-10-14" {
		t.Fatalf("expected dueDate 2024-10-14, got %v", payload["dueDate"])
	}
	if payload["conceptionDate"] != "2024-01-22" {
		t.Fatalf("expected conceptionDate 2024-01-22, got %v", payload["conceptionDate"])
	}
}

func TestCalcCommandUsesDefaultLanguageFromEnvironment(t *testing.T) {
	isolateEnvironment(t)
	t.Setenv("DEFAULT_LANGUAGE", "en")

	output, err := executeCommand(t, "calc", "--last-period", "2024-01-01", "--today", "2024-06-01")
	if err != nil {
		t.Fatalf("calc returned error: %v", err)
	}
	if !strings.Contains(output, `"currentTrimester": "2nd trimester"`) {
		t.Fatalf("expected english trimester label, got %s", output)
	}
}

func TestCalcCommandRequiresLastPeriod(t *testing.T) {
	isolateEnvironment(t)

	if _, err := executeCommand(t, "calc", "--cycle", "28"); err == nil {
		t.Fatal("expected error when --last-period is missing")
	}
}

func TestCalcCommandRejectsInvalidConfiguration(t *testing.T) {
	isolateEnvironment(t)
	t.Setenv("TZ", "Mars/Olympus")

	if _, err := executeCommand(t, "calc", "--last-period", "2024-01-01"); err == nil {
		t.Fatal("expected error for unknown TZ")
	}
}

func TestTablesCommands(t *testing.T) {
	isolateEnvironment(t)

	output, err := executeCommand(t, "tables", "validate")
	if err != nil {
		t.Fatalf("tables validate returned error: %v", err)
	}
	if !strings.Contains(output, "OK") {
		t.Fatalf("expected OK in validate output, got %q", output)
	}

	dbPath := filepath.Join(t.TempDir(), "reference.db")
	if _, err := executeCommand(t, "tables", "seed", "--db", dbPath); err != nil {
		t.Fatalf("tables seed returned error: %v", err)
	}

	exported, err := executeCommand(t, "tables", "export", "--db", dbPath)
	if err != nil {
		t.Fatalf("tables export returned error: %v", err)
	}
	if !strings.Contains(exported, "hcg.weeks_23_41") {
		t.Fatalf("expected exported yaml to include hcg rows, got %q", exported)
	}
}

func TestTablesSeedRequiresDatabasePath(t *testing.T) {
	isolateEnvironment(t)

	if _, err := executeCommand(t, "tables", "seed"); err == nil {
		t.Fatal("expected error when --db is missing")
	}
}
