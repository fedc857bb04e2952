package main

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/nao1215/column2pdf/internal/collector"
	"github.com/nao1215/column2pdf/internal/database"
	"github.com/nao1215/column2pdf/internal/log"
	"github.com/nao1215/column2pdf/internal/model"
	"github.com/nao1215/column2pdf/internal/urllist"
)

// TestCollectAndPersist tests that every crawl outcome reaches both sinks.
func TestCollectAndPersist(t *testing.T) {
	t.Parallel()

	t.Run("exhausted listing is written and stored", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })

		listing := &fakeListing{pages: [][]string{
			{"/a/1", "/a/2"},
			{"/a/2", "/a/3"},
			{"https://other.example/a/4"},
		}}

		harvest, err := collectAndPersist(t.Context(), cfg, listing, db, log.Discard())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{
			"https://example.com/a/1",
			"https://example.com/a/2",
			"https://example.com/a/3",
			"https://other.example/a/4",
		}
		if harvest.Crawl.Termination != model.TerminationExhausted {
			t.Errorf("Termination = %v, want exhausted", harvest.Crawl.Termination)
		}
		if !slices.Equal(harvest.Crawl.URLs, want) {
			t.Errorf("URLs = %v, want %v", harvest.Crawl.URLs, want)
		}
		if harvest.URLFile != cfg.URLFile {
			t.Errorf("URLFile = %q", harvest.URLFile)
		}

		fromFile, err := urllist.Read(cfg.URLFile)
		if err != nil {
			t.Fatalf("failed to read URL file: %v", err)
		}
		if !slices.Equal(fromFile, want) {
			t.Errorf("URL file = %v, want %v", fromFile, want)
		}

		if harvest.RunID == "" {
			t.Fatal("expected a run ID")
		}
		fromDB, err := db.GetRunURLs(t.Context(), harvest.RunID)
		if err != nil {
			t.Fatalf("GetRunURLs() error = %v", err)
		}
		if !slices.Equal(fromDB, want) {
			t.Errorf("stored URLs = %v, want %v", fromDB, want)
		}
	})

	t.Run("navigation failure still writes the file", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		listing := &fakeListing{
			pages:  [][]string{{"/a/1"}},
			navErr: errors.New("net::ERR_NAME_NOT_RESOLVED"),
		}

		harvest, err := collectAndPersist(t.Context(), cfg, listing, nil, log.Discard())
		if !errors.Is(err, collector.ErrNavigationFailed) {
			t.Fatalf("expected ErrNavigationFailed, got %v", err)
		}
		if harvest.Crawl.Termination != model.TerminationNavigationFailed {
			t.Errorf("Termination = %v", harvest.Crawl.Termination)
		}
		if harvest.RunID != "" {
			t.Errorf("expected no run ID without a database, got %q", harvest.RunID)
		}

		urls, err := urllist.Read(cfg.URLFile)
		if err != nil {
			t.Fatalf("expected URL file to exist: %v", err)
		}
		if len(urls) != 0 {
			t.Errorf("expected empty URL file, got %v", urls)
		}
	})

	t.Run("interrupt keeps gathered urls", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		listing := &fakeListing{pages: [][]string{{"/a/1"}}}
		harvest, err := collectAndPersist(ctx, cfg, listing, nil, log.Discard())
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if harvest.Crawl.Termination != model.TerminationInterrupted {
			t.Errorf("Termination = %v", harvest.Crawl.Termination)
		}
		if _, err := urllist.Read(cfg.URLFile); err != nil {
			t.Errorf("expected URL file after interrupt: %v", err)
		}
	})

	t.Run("summary is written in the selected format", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		cfg.JSONReport = true
		listing := &fakeListing{pages: [][]string{{"/a/1"}}}

		harvest, err := collectAndPersist(t.Context(), cfg, listing, nil, log.Discard())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var buf bytes.Buffer
		if err := writeSummary(cfg, &buf, harvest); err != nil {
			t.Fatalf("writeSummary() error = %v", err)
		}
		if !strings.Contains(buf.String(), `"termination": "exhausted"`) {
			t.Errorf("expected JSON summary, got %s", buf.String())
		}
	})
}

// TestCrawlError tests which terminations fail the command.
func TestCrawlError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	tests := []struct {
		termination model.Termination
		wantErr     bool
	}{
		{termination: model.TerminationExhausted, wantErr: false},
		{termination: model.TerminationStalled, wantErr: false},
		{termination: model.TerminationNavigationFailed, wantErr: true},
		{termination: model.TerminationInterrupted, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.termination.String(), func(t *testing.T) {
			t.Parallel()

			err := crawlError(&model.CrawlResult{Termination: tt.termination, Err: cause})
			if (err != nil) != tt.wantErr {
				t.Errorf("crawlError() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, cause) {
				t.Errorf("expected wrapped cause, got %v", err)
			}
		})
	}
}
