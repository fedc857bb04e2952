package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/column2pdf/internal/collector"
	"github.com/nao1215/column2pdf/internal/config"
)

// fakeListing is an in-memory paginated listing. Clicking the next control
// moves to the following page; the last page has no control.
type fakeListing struct {
	pages  [][]string
	page   int
	navErr error
}

func (f *fakeListing) Navigate(context.Context, string) error {
	if f.navErr != nil {
		return f.navErr
	}
	f.page = 0
	return nil
}

func (f *fakeListing) WaitFor(context.Context, string, time.Duration) error { return nil }

func (f *fakeListing) ReadText(context.Context, string) (string, bool) {
	return strconv.Itoa(f.page + 1), true
}

func (f *fakeListing) Find(context.Context, string) (collector.Element, bool, error) {
	if f.page >= len(f.pages)-1 {
		return nil, false, nil
	}
	return &fakeElement{click: func() { f.page++ }}, true, nil
}

func (f *fakeListing) FindAll(context.Context, string) ([]collector.Element, error) {
	elements := make([]collector.Element, 0, len(f.pages[f.page]))
	for _, href := range f.pages[f.page] {
		elements = append(elements, &fakeElement{href: href})
	}
	return elements, nil
}

func (f *fakeListing) RunScript(context.Context, string) error { return nil }

// fakeElement is a link or the next page control of fakeListing.
type fakeElement struct {
	href  string
	click func()
}

func (e *fakeElement) Attribute(_ context.Context, name string) (string, bool) {
	if name != "href" || e.href == "" {
		return "", false
	}
	return e.href, true
}

func (e *fakeElement) Hidden(context.Context) (bool, error) { return false, nil }

func (e *fakeElement) ScrollIntoView(context.Context) error { return nil }

func (e *fakeElement) Click(context.Context) error {
	if e.click == nil {
		return errors.New("not clickable")
	}
	e.click()
	return nil
}

// fakeRenderer serves article pages from a map keyed by URL.
type fakeRenderer struct {
	pages   map[string]string
	current string
}

func (r *fakeRenderer) Open(_ context.Context, url string, _ time.Duration) error {
	if _, ok := r.pages[url]; !ok {
		return errors.New("404 not found")
	}
	r.current = url
	return nil
}

func (r *fakeRenderer) RemoveElements(context.Context, []string) error { return nil }

func (r *fakeRenderer) HTML(context.Context) (string, error) {
	return r.pages[r.current], nil
}

func (r *fakeRenderer) PrintPDF(context.Context) ([]byte, error) {
	return []byte("%PDF-1.4 " + r.current), nil
}

// articlePage returns the HTML of an article with the default selectors.
func articlePage(title, published string) string {
	return `<html><body>` +
		`<h1 class="article__bd__title">` + title + `</h1>` +
		`<time datetime="2024-01-01T00:00:00Z" title="` + published + `">Jan 1</time>` +
		`</body></html>`
}

// testConfig returns a config with every pause disabled and all paths in a
// temporary directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.NewConfig()
	cfg.StartURL = "https://example.com/column"
	cfg.SiteOrigin = "https://example.com"
	cfg.SettleDelay = 0
	cfg.StagnationDelay = 0
	cfg.ClickRetryDelay = 0
	cfg.PostNavigationDelay = 0
	cfg.ExportDelay = 0
	cfg.URLFile = filepath.Join(dir, "urls.txt")
	cfg.OutputDir = filepath.Join(dir, "pdf")
	cfg.DBDir = filepath.Join(dir, "db")
	return cfg
}

// writeConfigFile writes a YAML configuration file and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "column2pdf.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}
