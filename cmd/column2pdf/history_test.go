package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/column2pdf/internal/database"
	"github.com/nao1215/column2pdf/internal/model"
	"github.com/nao1215/column2pdf/internal/report"
	"github.com/nao1215/column2pdf/internal/urllist"
)

// seedHistory creates a database with one run and two export outcomes and
// returns its directory and the run ID.
func seedHistory(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	started := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	id, err := db.SaveRun(t.Context(), "", &model.CrawlResult{
		StartURL:     "https://xueqiu.com/2201555376/column",
		URLs:         []string{"https://xueqiu.com/1/100", "https://xueqiu.com/1/101"},
		Termination:  model.TerminationStalled,
		PagesVisited: 4,
		StartedAt:    started,
		FinishedAt:   started.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	for _, r := range []model.ExportResult{
		{URL: "https://xueqiu.com/1/100", Status: model.ExportStatusSaved, FilePath: "pdf/a.pdf", Timestamp: started},
		{URL: "https://xueqiu.com/1/101", Status: model.ExportStatusFailed, FailedStep: "metadata", ErrorMessage: "no title", Timestamp: started},
	} {
		if err := db.RecordExport(t.Context(), r); err != nil {
			t.Fatalf("RecordExport() error = %v", err)
		}
	}

	return dir, id
}

// runHistory executes "column2pdf history args..." against dbDir.
func runHistory(t *testing.T, dbDir string, args ...string) (string, error) {
	t.Helper()

	cfgPath := writeConfigFile(t, "defaults: {}")
	full := append([]string{"history"}, args...)
	full = append(full, "--db-dir", dbDir, "--config", cfgPath)

	var buf bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&buf)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(full)
	err := root.Execute()
	return buf.String(), err
}

// TestHistoryCmd tests the history subcommands against a seeded database.
func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	dbDir, runID := seedHistory(t)

	// Subtests share one database file and run in sequence.

	t.Run("lists runs by default", func(t *testing.T) {
		out, err := runHistory(t, dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, runID[:8]) {
			t.Errorf("expected short run ID in %q", out)
		}
		if !strings.Contains(out, "stalled") {
			t.Errorf("expected termination in %q", out)
		}
	})

	t.Run("list as json", func(t *testing.T) {
		out, err := runHistory(t, dbDir, "list", "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed report.JSONRuns
		if err := json.Unmarshal([]byte(out), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(parsed.Runs) != 1 || parsed.Runs[0].ID != runID {
			t.Errorf("unexpected runs %+v", parsed.Runs)
		}
		if parsed.Runs[0].URLCount != 2 {
			t.Errorf("URLCount = %d, want 2", parsed.Runs[0].URLCount)
		}
	})

	t.Run("show prints urls", func(t *testing.T) {
		out, err := runHistory(t, dbDir, "show", runID[:8])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "https://xueqiu.com/1/100\nhttps://xueqiu.com/1/101\n"
		if out != want {
			t.Errorf("output = %q, want %q", out, want)
		}
	})

	t.Run("show restores the url file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "restored.txt")
		if _, err := runHistory(t, dbDir, "show", runID, "-f", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		urls, err := urllist.Read(path)
		if err != nil {
			t.Fatalf("failed to read restored file: %v", err)
		}
		if !slices.Equal(urls, []string{"https://xueqiu.com/1/100", "https://xueqiu.com/1/101"}) {
			t.Errorf("restored %v", urls)
		}
	})

	t.Run("show unknown run", func(t *testing.T) {
		_, err := runHistory(t, dbDir, "show", "zzzz")
		if !errors.Is(err, errRunNotFound) {
			t.Errorf("expected errRunNotFound, got %v", err)
		}
	})

	t.Run("exports lists failures", func(t *testing.T) {
		out, err := runHistory(t, dbDir, "exports", "--failed")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "[metadata] https://xueqiu.com/1/101") {
			t.Errorf("expected failed article in %q", out)
		}
		if strings.Contains(out, "Saved:          1") {
			t.Errorf("expected only failures, got %q", out)
		}
	})
}

// TestHistoryCmdEmptyDatabase tests listing a fresh database.
func TestHistoryCmdEmptyDatabase(t *testing.T) {
	t.Parallel()

	out, err := runHistory(t, t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No runs recorded.") {
		t.Errorf("unexpected output %q", out)
	}
}
