package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/column2pdf/internal/model"
)

// memoryLedger is an in-memory Ledger.
type memoryLedger struct {
	mu       sync.Mutex
	exported map[string]bool
	records  []model.ExportResult
	queryErr error
}

func newMemoryLedger(exported ...string) *memoryLedger {
	l := &memoryLedger{exported: make(map[string]bool)}
	for _, u := range exported {
		l.exported[u] = true
	}
	return l
}

func (l *memoryLedger) IsExported(_ context.Context, url string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.queryErr != nil {
		return false, l.queryErr
	}
	return l.exported[url], nil
}

func (l *memoryLedger) RecordExport(ctx context.Context, r model.ExportResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)
	if r.Status == model.ExportStatusSaved {
		l.exported[r.URL] = true
	}
	return nil
}

// pauseRecorder records pauses without sleeping.
type pauseRecorder struct {
	pauses []time.Duration
}

func (p *pauseRecorder) sleep(ctx context.Context, d time.Duration) error {
	p.pauses = append(p.pauses, d)
	return ctx.Err()
}

func newTestExporter(t *testing.T, r Renderer, opts ...ExporterOption) (*Exporter, string, *pauseRecorder) {
	t.Helper()

	dir := t.TempDir()
	discard := slog.New(slog.DiscardHandler)
	p := NewArticlePipeline(r, ArticleOptions{
		Timeout:          20 * time.Second,
		CleanupSelectors: []string{"footer"},
		TitleSelector:    "h1.article__bd__title",
		TimeSelector:     "time[datetime]",
		TimeAttribute:    "title",
		OutputDir:        dir,
	}, WithLogger(discard))

	pauses := &pauseRecorder{}
	all := append([]ExporterOption{
		WithExporterLogger(discard),
		WithExporterSleeper(pauses.sleep),
		WithClock(func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }),
	}, opts...)
	return NewExporter(p, all...), dir, pauses
}

func TestExporterExport(t *testing.T) {
	t.Parallel()

	const (
		u1 = "https://xueqiu.com/2201555376/1"
		u2 = "https://xueqiu.com/2201555376/2"
		u3 = "https://xueqiu.com/2201555376/3"
	)

	t.Run("every article is saved with one pause between each", func(t *testing.T) {
		t.Parallel()

		r := newFakeRenderer()
		r.pages[u1] = articleHTML("One", "2023-01-01 09:00")
		r.pages[u2] = articleHTML("Two", "2023-01-02 09:00")

		e, dir, pauses := newTestExporter(t, r, WithDelay(time.Second))
		results, err := e.Export(t.Context(), []string{u1, u2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		for _, res := range results {
			if res.Status != model.ExportStatusSaved {
				t.Errorf("%s: status %s, error %s", res.URL, res.Status, res.ErrorMessage)
			}
			if _, err := os.Stat(res.FilePath); err != nil {
				t.Errorf("%s: expected file %s: %v", res.URL, res.FilePath, err)
			}
		}
		if results[0].FilePath != filepath.Join(dir, "2023-01-01_09_00_One.pdf") {
			t.Errorf("unexpected path %q", results[0].FilePath)
		}
		if len(pauses.pauses) != 1 || pauses.pauses[0] != time.Second {
			t.Errorf("expected one 1s pause, got %v", pauses.pauses)
		}
	})

	t.Run("a failing article does not stop the others", func(t *testing.T) {
		t.Parallel()

		r := newFakeRenderer()
		r.pages[u1] = articleHTML("One", "2023-01-01")
		r.pages[u2] = `<html><body><p>deleted</p></body></html>`
		r.pages[u3] = articleHTML("Three", "2023-01-03")

		e, _, _ := newTestExporter(t, r)
		results, err := e.Export(t.Context(), []string{u1, u2, u3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if results[1].Status != model.ExportStatusFailed {
			t.Fatalf("expected second article to fail, got %s", results[1].Status)
		}
		if results[1].FailedStep != StepMetadata {
			t.Errorf("expected metadata step failure, got %q", results[1].FailedStep)
		}
		if results[1].ErrorMessage == "" {
			t.Error("expected an error message")
		}
		if results[2].Status != model.ExportStatusSaved {
			t.Errorf("expected third article to be saved, got %s", results[2].Status)
		}
	})

	t.Run("navigation failure is attributed to the navigate step", func(t *testing.T) {
		t.Parallel()

		r := newFakeRenderer()
		r.openErr[u1] = context.DeadlineExceeded
		r.pages[u1] = articleHTML("One", "2023")

		e, _, _ := newTestExporter(t, r)
		results, err := e.Export(t.Context(), []string{u1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if results[0].FailedStep != StepNavigate {
			t.Errorf("expected navigate failure, got %q", results[0].FailedStep)
		}
	})

	t.Run("results are recorded in the ledger", func(t *testing.T) {
		t.Parallel()

		r := newFakeRenderer()
		r.pages[u1] = articleHTML("One", "2023")
		r.pdfErr = errors.New("printing failed")

		ledger := newMemoryLedger()
		e, _, _ := newTestExporter(t, r, WithLedger(ledger))
		if _, err := e.Export(t.Context(), []string{u1}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(ledger.records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(ledger.records))
		}
		rec := ledger.records[0]
		if rec.Status != model.ExportStatusFailed || rec.FailedStep != StepRender {
			t.Errorf("unexpected record %+v", rec)
		}
		if rec.Title != "One" {
			t.Errorf("expected metadata to be kept on failure, got %q", rec.Title)
		}
		if !rec.Timestamp.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)) {
			t.Errorf("unexpected timestamp %v", rec.Timestamp)
		}
	})

	t.Run("an article saved as the run is interrupted is still recorded", func(t *testing.T) {
		t.Parallel()

		r := newFakeRenderer()
		r.pages[u1] = articleHTML("One", "2023")

		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		ledger := newMemoryLedger()
		e, _, _ := newTestExporter(t, r, WithLedger(ledger), WithClock(func() time.Time {
			cancel()
			return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		}))
		results, err := e.Export(ctx, []string{u1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(results) != 1 || results[0].Status != model.ExportStatusSaved {
			t.Fatalf("expected the article to be saved, got %+v", results)
		}
		if len(ledger.records) != 1 || ledger.records[0].Status != model.ExportStatusSaved {
			t.Errorf("expected the saved article in the ledger, got %+v", ledger.records)
		}
	})

	t.Run("exported URLs are skipped when asked", func(t *testing.T) {
		t.Parallel()

		r := newFakeRenderer()
		r.pages[u2] = articleHTML("Two", "2023")

		ledger := newMemoryLedger(u1)
		e, _, _ := newTestExporter(t, r, WithLedger(ledger), WithSkipExported(true))
		results, err := e.Export(t.Context(), []string{u1, u2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if results[0].Status != model.ExportStatusSkipped {
			t.Errorf("expected first URL to be skipped, got %s", results[0].Status)
		}
		if results[1].Status != model.ExportStatusSaved {
			t.Errorf("expected second URL to be saved, got %s", results[1].Status)
		}
		if len(r.opened) != 1 || r.opened[0] != u2 {
			t.Errorf("expected only %s to be opened, got %v", u2, r.opened)
		}
		if len(ledger.records) != 1 {
			t.Errorf("skipped URLs must not be re-recorded, got %d records", len(ledger.records))
		}
	})

	t.Run("exported URLs are processed again without the flag", func(t *testing.T) {
		t.Parallel()

		r := newFakeRenderer()
		r.pages[u1] = articleHTML("One", "2023")

		e, _, _ := newTestExporter(t, r, WithLedger(newMemoryLedger(u1)))
		results, err := e.Export(t.Context(), []string{u1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if results[0].Status != model.ExportStatusSaved {
			t.Errorf("expected URL to be exported again, got %s", results[0].Status)
		}
	})

	t.Run("ledger errors fall back to exporting", func(t *testing.T) {
		t.Parallel()

		r := newFakeRenderer()
		r.pages[u1] = articleHTML("One", "2023")

		ledger := newMemoryLedger(u1)
		ledger.queryErr = errors.New("database is locked")
		e, _, _ := newTestExporter(t, r, WithLedger(ledger), WithSkipExported(true))
		results, err := e.Export(t.Context(), []string{u1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if results[0].Status != model.ExportStatusSaved {
			t.Errorf("expected export despite ledger error, got %s", results[0].Status)
		}
	})

	t.Run("cancellation returns the results so far", func(t *testing.T) {
		t.Parallel()

		r := newFakeRenderer()
		r.pages[u1] = articleHTML("One", "2023")
		r.pages[u2] = articleHTML("Two", "2023")

		ctx, cancel := context.WithCancel(t.Context())
		e, _, _ := newTestExporter(t, r, WithExporterSleeper(func(context.Context, time.Duration) error {
			cancel()
			return context.Canceled
		}))

		results, err := e.Export(ctx, []string{u1, u2})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if len(results) != 1 || results[0].URL != u1 {
			t.Errorf("expected only the first result, got %+v", results)
		}
	})

	t.Run("empty input does nothing", func(t *testing.T) {
		t.Parallel()

		e, _, pauses := newTestExporter(t, newFakeRenderer())
		results, err := e.Export(t.Context(), nil)
		if err != nil || len(results) != 0 {
			t.Errorf("expected no results and no error, got %v %v", results, err)
		}
		if len(pauses.pauses) != 0 {
			t.Errorf("expected no pauses, got %v", pauses.pauses)
		}
	})
}

func TestSleepContext(t *testing.T) {
	t.Parallel()

	if err := sleepContext(t.Context(), 0); err != nil {
		t.Errorf("zero pause error = %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
