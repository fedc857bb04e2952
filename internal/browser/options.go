package browser

import "log/slog"

// Option configures a Session before launch.
type Option func(*Session)

// WithHeadless controls whether the browser runs without a window.
func WithHeadless(headless bool) Option {
	return func(s *Session) {
		s.headless = headless
	}
}

// WithNoSandbox disables the Chrome sandbox.
// Most containers cannot run Chrome otherwise.
func WithNoSandbox(noSandbox bool) Option {
	return func(s *Session) {
		s.noSandbox = noSandbox
	}
}

// WithBin sets the browser executable. Empty lets go-rod find or fetch one.
func WithBin(path string) Option {
	return func(s *Session) {
		s.bin = path
	}
}

// WithControlURL connects to an already running browser instead of
// launching one. Close then leaves that browser running.
func WithControlURL(u string) Option {
	return func(s *Session) {
		s.controlURL = u
	}
}

// WithCookies sets cookies for origin before the first navigation.
func WithCookies(origin string, cookies map[string]string) Option {
	return func(s *Session) {
		s.cookieOrigin = origin
		s.cookies = cookies
	}
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}
