package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/nao1215/column2pdf/internal/report"
	"github.com/nao1215/column2pdf/internal/urllist"
)

// columnServer serves a two page column listing and its four articles.
func columnServer() *httptest.Server {
	mux := http.NewServeMux()
	for page := 1; page <= 2; page++ {
		mux.HandleFunc(fmt.Sprintf("/column/%d", page), func(w http.ResponseWriter, _ *http.Request) {
			var b strings.Builder
			b.WriteString(`<html><body><ul>`)
			for i := 1; i <= 2; i++ {
				fmt.Fprintf(&b, `<li class="title"><a href="/article/%d-%d">a</a></li>`, page, i)
			}
			fmt.Fprintf(&b, `</ul><div class="pagination"><a class="active">%d</a>`, page)
			if page == 1 {
				b.WriteString(`<a class="next" href="/column/2">next</a>`)
			}
			b.WriteString(`</div></body></html>`)
			_, _ = w.Write([]byte(b.String()))
		})
	}
	mux.HandleFunc("/article/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/article/")
		fmt.Fprintf(w, `<html><body><footer>nav</footer>`+
			`<h1 class="article__bd__title">Article %s</h1>`+
			`<time datetime="2024-01-01T00:00:00Z" title="2024-01-01 08:00">Jan 1</time>`+
			`<p>body</p></body></html>`, id)
	})
	return httptest.NewServer(mux)
}

func TestRunCommandIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser integration test in short mode")
	}
	bin, found := launcher.LookPath()
	if !found {
		t.Skip("skipping browser integration test: no Chromium found")
	}

	srv := columnServer()
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	urlFile := filepath.Join(dir, "urls.txt")
	outDir := filepath.Join(dir, "pdf")

	var buf bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{
		"run",
		"--config", writeConfigFile(t, "defaults: {}"),
		"--start-url", srv.URL + "/column/1",
		"--origin", srv.URL,
		"--pagination-selector", ".pagination a.next",
		"--link-selector", "li.title > a",
		"--wait-timeout", "5s",
		"--settle-delay", "0s",
		"--stagnation-threshold", "2",
		"--stagnation-delay", "0s",
		"--click-retry-delay", "0s",
		"--post-nav-delay", "200ms",
		"--export-delay", "0s",
		"--browser-bin", bin,
		"-f", urlFile,
		"-d", outDir,
		"--db-dir", filepath.Join(dir, "db"),
		"--json",
	})

	if err := root.Execute(); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var parsed report.JSONReport
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	want := report.Summary{URLCount: 4, Saved: 4}
	if parsed.Summary != want {
		t.Errorf("summary = %+v, want %+v", parsed.Summary, want)
	}
	if parsed.Report.RunID == "" {
		t.Error("expected the run to be stored")
	}

	urls, err := urllist.Read(urlFile)
	if err != nil {
		t.Fatalf("failed to read URL file: %v", err)
	}
	if len(urls) != 4 || urls[0] != srv.URL+"/article/1-1" {
		t.Errorf("unexpected URL file %v", urls)
	}

	pdf := filepath.Join(outDir, "2024-01-01_08_00_Article_1-1.pdf")
	data, err := os.ReadFile(pdf)
	if err != nil {
		t.Fatalf("expected %s: %v", pdf, err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("expected a PDF file")
	}
}
