package pipeline

import (
	"context"
	"errors"
	"slices"
	"time"
)

// fakeRenderer serves canned article pages keyed by URL.
type fakeRenderer struct {
	pages   map[string]string
	pdf     []byte
	openErr map[string]error
	pdfErr  error

	current  string
	removed  [][]string
	opened   []string
	timeouts []time.Duration
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		pages:   make(map[string]string),
		openErr: make(map[string]error),
		pdf:     []byte("%PDF-1.7 fake"),
	}
}

func (f *fakeRenderer) Open(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.opened = append(f.opened, url)
	f.timeouts = append(f.timeouts, timeout)
	if err := f.openErr[url]; err != nil {
		return err
	}
	if _, ok := f.pages[url]; !ok {
		return errors.New("net::ERR_NAME_NOT_RESOLVED")
	}
	f.current = url
	return nil
}

func (f *fakeRenderer) RemoveElements(_ context.Context, selectors []string) error {
	f.removed = append(f.removed, slices.Clone(selectors))
	return nil
}

func (f *fakeRenderer) HTML(context.Context) (string, error) {
	return f.pages[f.current], nil
}

func (f *fakeRenderer) PrintPDF(context.Context) ([]byte, error) {
	if f.pdfErr != nil {
		return nil, f.pdfErr
	}
	return f.pdf, nil
}

// articleHTML builds a page in the listing site's article layout.
func articleHTML(title, published string) string {
	return `<html><body><article>` +
		`<h1 class="article__bd__title">` + title + `</h1>` +
		`<div class="article__bd__detail"><time datetime="2023-05-01T12:30:00Z" title="` + published + `">May 1</time></div>` +
		`</article></body></html>`
}
