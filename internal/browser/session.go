package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/nao1215/column2pdf/internal/collector"
)

// Session is one browser tab.
// Methods are not safe for concurrent use; the tab can only show one page.
type Session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	logger *slog.Logger

	headless     bool
	noSandbox    bool
	bin          string
	controlURL   string
	cookieOrigin string
	cookies      map[string]string

	closeOnce sync.Once
	closeErr  error
}

var (
	_ collector.Automation = (*Session)(nil)
	_ collector.Element    = (*element)(nil)
)

// newSession applies opts to a Session with defaults.
func newSession(opts ...Option) *Session {
	s := &Session{
		headless:  true,
		noSandbox: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Launch starts (or connects to) a browser and opens a blank tab.
// The returned Session must be closed by the caller.
func Launch(ctx context.Context, opts ...Option) (*Session, error) {
	s := newSession(opts...)

	controlURL := s.controlURL
	if controlURL == "" {
		l := launcher.New().
			Headless(s.headless).
			NoSandbox(s.noSandbox).
			Set("disable-gpu")
		if s.bin != "" {
			l = l.Bin(s.bin)
		}

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLaunch, err)
		}
		s.launcher = l
		controlURL = u
	}

	s.browser = rod.New().ControlURL(controlURL)
	if err := s.browser.Connect(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: connect %s: %w", ErrLaunch, controlURL, err)
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: open tab: %w", ErrLaunch, err)
	}
	s.page = page

	if err := s.setCookies(); err != nil {
		_ = s.Close()
		return nil, err
	}

	// Launching can take long enough for the user to give up.
	select {
	case <-ctx.Done():
		_ = s.Close()
		return nil, ctx.Err()
	default:
	}

	s.logger.Debug("browser session started",
		"headless", s.headless,
		"external", s.controlURL != "",
	)
	return s, nil
}

// setCookies installs the configured cookies in the tab.
func (s *Session) setCookies() error {
	if len(s.cookies) == 0 {
		return nil
	}

	params := cookieParams(s.cookieOrigin, s.cookies)
	if err := s.page.SetCookies(params); err != nil {
		return fmt.Errorf("failed to set cookies: %w", err)
	}
	s.logger.Debug("cookies applied", "count", len(params), "origin", s.cookieOrigin)
	return nil
}

// cookieParams converts a name/value map into DevTools cookie parameters
// scoped to origin, sorted by name for stable ordering.
func cookieParams(origin string, cookies map[string]string) []*proto.NetworkCookieParam {
	names := make([]string, 0, len(cookies))
	for name := range cookies {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]*proto.NetworkCookieParam, 0, len(names))
	for _, name := range names {
		params = append(params, &proto.NetworkCookieParam{
			Name:  name,
			Value: cookies[name],
			URL:   origin,
		})
	}
	return params
}

// Close closes the tab and the browser, then removes the launched process
// and its profile directory. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.page != nil {
			if err := s.page.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close tab: %w", err))
			}
		}
		if s.browser != nil && s.launcher != nil {
			if err := s.browser.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close browser: %w", err))
			}
		}
		if s.launcher != nil {
			s.launcher.Kill()
			s.launcher.Cleanup()
		}
		s.page = nil
		s.browser = nil
		s.launcher = nil
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}

// tab returns the tab bound to ctx.
func (s *Session) tab(ctx context.Context) (*rod.Page, error) {
	if s.page == nil {
		return nil, ErrNotStarted
	}
	return s.page.Context(ctx), nil
}

// Navigate loads url and waits for the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	p, err := s.tab(ctx)
	if err != nil {
		return err
	}
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait for %s to load: %w", url, err)
	}
	return nil
}

// WaitFor blocks until selector matches or timeout elapses.
func (s *Session) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	p, err := s.tab(ctx)
	if err != nil {
		return err
	}
	tp := p.Timeout(timeout)
	defer tp.CancelTimeout()

	if _, err := tp.Element(selector); err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s after %s", collector.ErrWaitTimeout, selector, timeout)
		}
		return err
	}
	return nil
}

// ReadText returns the text of the first element matching selector.
func (s *Session) ReadText(ctx context.Context, selector string) (string, bool) {
	p, err := s.tab(ctx)
	if err != nil {
		return "", false
	}
	has, el, err := p.Has(selector)
	if err != nil || !has {
		return "", false
	}
	text, err := el.Text()
	if err != nil {
		return "", false
	}
	return text, true
}

// Find returns the first element matching selector without waiting.
func (s *Session) Find(ctx context.Context, selector string) (collector.Element, bool, error) {
	p, err := s.tab(ctx)
	if err != nil {
		return nil, false, err
	}
	has, el, err := p.Has(selector)
	if err != nil {
		return nil, false, err
	}
	if !has {
		return nil, false, nil
	}
	return &element{el: el}, true, nil
}

// FindAll returns every element currently matching selector.
func (s *Session) FindAll(ctx context.Context, selector string) ([]collector.Element, error) {
	p, err := s.tab(ctx)
	if err != nil {
		return nil, err
	}
	els, err := p.Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]collector.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &element{el: el})
	}
	return out, nil
}

// RunScript evaluates a function expression such as "() => {...}".
func (s *Session) RunScript(ctx context.Context, source string) error {
	p, err := s.tab(ctx)
	if err != nil {
		return err
	}
	if _, err := p.Eval(source); err != nil {
		return fmt.Errorf("run script: %w", err)
	}
	return nil
}

// Open loads an article page and waits until its body exists.
// The timeout covers navigation and the wait together.
func (s *Session) Open(ctx context.Context, url string, timeout time.Duration) error {
	p, err := s.tab(ctx)
	if err != nil {
		return err
	}
	p = p.Timeout(timeout)
	defer p.CancelTimeout()

	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait for %s to load: %w", url, err)
	}
	if _, err := p.Element("body"); err != nil {
		return fmt.Errorf("wait for body of %s: %w", url, err)
	}
	return nil
}

// removeElementsScript deletes every element matching any of the selectors
// passed as its argument.
const removeElementsScript = `(selectors) => {
	for (const s of selectors) {
		document.querySelectorAll(s).forEach(el => el.remove());
	}
}`

// RemoveElements deletes every element matching any of selectors.
func (s *Session) RemoveElements(ctx context.Context, selectors []string) error {
	if len(selectors) == 0 {
		return nil
	}
	p, err := s.tab(ctx)
	if err != nil {
		return err
	}
	if _, err := p.Eval(removeElementsScript, selectors); err != nil {
		return fmt.Errorf("remove elements: %w", err)
	}
	return nil
}

// HTML returns the serialized document of the current page.
func (s *Session) HTML(ctx context.Context) (string, error) {
	p, err := s.tab(ctx)
	if err != nil {
		return "", err
	}
	html, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	return html, nil
}

// PrintPDF prints the current page with background graphics.
func (s *Session) PrintPDF(ctx context.Context) ([]byte, error) {
	p, err := s.tab(ctx)
	if err != nil {
		return nil, err
	}
	stream, err := p.PDF(&proto.PagePrintToPDF{PrintBackground: true})
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pdf stream: %w", err)
	}
	return data, nil
}
