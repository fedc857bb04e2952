package browser

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/nao1215/column2pdf/internal/collector"
)

// skipIfNoBrowser skips the test in short mode or when no Chromium is
// installed. The test never downloads a browser.
func skipIfNoBrowser(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser integration test in short mode")
	}
	bin, found := launcher.LookPath()
	if !found {
		t.Skip("skipping browser integration test: no Chromium found")
	}
	return bin
}

// listingHandler serves a three page listing whose "next" control is a
// link to the following page. The last page hides the control.
func listingHandler() http.Handler {
	mux := http.NewServeMux()
	for page := 1; page <= 3; page++ {
		mux.HandleFunc(fmt.Sprintf("/column/%d", page), func(w http.ResponseWriter, _ *http.Request) {
			var b strings.Builder
			b.WriteString(`<html><body><ul>`)
			for i := 1; i <= 2; i++ {
				fmt.Fprintf(&b, `<li class="title"><a href="/article/%d-%d">a</a></li>`, page, i)
			}
			b.WriteString(`</ul><div class="pagination">`)
			fmt.Fprintf(&b, `<a class="active">%d</a>`, page)
			style := ""
			if page == 3 {
				style = ` style="display:none"`
			}
			fmt.Fprintf(&b, `<a class="next" href="/column/%d"%s>next</a>`, page+1, style)
			b.WriteString(`</div></body></html>`)
			_, _ = w.Write([]byte(b.String()))
		})
	}
	mux.HandleFunc("/article/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><h1>Title</h1><footer>clutter</footer></body></html>`))
	})
	return mux
}

func TestSessionIntegration(t *testing.T) {
	bin := skipIfNoBrowser(t)

	srv := httptest.NewServer(listingHandler())
	t.Cleanup(srv.Close)

	ctx := t.Context()
	s, err := Launch(ctx, WithBin(bin), WithCookies(srv.URL, map[string]string{"device_id": "1"}))
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	t.Run("collector walks every page", func(t *testing.T) {
		c := collector.New(s,
			collector.WithOrigin(srv.URL),
			collector.WithPageIndicatorSelector(".pagination a.active"),
			collector.WithWaitTimeout(5*time.Second),
			collector.WithSettleDelay(0),
			collector.WithStagnation(2, 0),
			collector.WithClickRetry(2, 0),
			collector.WithPostNavigationDelay(200*time.Millisecond),
		)

		result := c.Collect(ctx, srv.URL+"/column/1", ".pagination a.next", "li.title > a")
		if result.Err != nil {
			t.Fatalf("Collect() error = %v", result.Err)
		}

		want := []string{
			srv.URL + "/article/1-1", srv.URL + "/article/1-2",
			srv.URL + "/article/2-1", srv.URL + "/article/2-2",
			srv.URL + "/article/3-1", srv.URL + "/article/3-2",
		}
		if !slices.Equal(result.URLs, want) {
			t.Errorf("URLs = %v, want %v", result.URLs, want)
		}
	})

	t.Run("article renders to pdf", func(t *testing.T) {
		if err := s.Open(ctx, srv.URL+"/article/1-1", 10*time.Second); err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if err := s.RemoveElements(ctx, []string{"footer"}); err != nil {
			t.Fatalf("RemoveElements() error = %v", err)
		}
		html, err := s.HTML(ctx)
		if err != nil {
			t.Fatalf("HTML() error = %v", err)
		}
		if strings.Contains(html, "clutter") {
			t.Error("expected footer to be removed")
		}
		pdf, err := s.PrintPDF(ctx)
		if err != nil {
			t.Fatalf("PrintPDF() error = %v", err)
		}
		if !bytes.HasPrefix(pdf, []byte("%PDF")) {
			t.Errorf("expected PDF header, got %q", pdf[:min(len(pdf), 8)])
		}
	})
}
