package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// sensitiveKeys contains attribute keys whose values are always masked.
var sensitiveKeys = map[string]bool{
	// HTTP headers
	"authorization": true,
	"cookie":        true,
	"cookies":       true,
	"set-cookie":    true,

	// Xueqiu session cookies
	"xq_a_token":  true,
	"xq_r_token":  true,
	"xq_id_token": true,

	// Generic credentials
	"password": true,
	"secret":   true,
	"token":    true,
	"session":  true,
	"sid":      true,
}

// sensitiveKeywords mark a key as sensitive when contained anywhere in it.
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "cookie", "credential", "session",
}

// sensitivePatterns match values that are masked whatever their key.
var sensitivePatterns = []*regexp.Regexp{
	// JWT tokens
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),

	// Bearer tokens
	regexp.MustCompile(`(?i)^bearer\s+.+`),

	// Raw Cookie header containing a Xueqiu token
	regexp.MustCompile(`(?i)xq_[a-z]+_token=`),
}

// tokenQuery matches token-like query parameters inside URLs.
// Only the parameter value is masked so the URL stays useful in logs.
var tokenQuery = regexp.MustCompile(`(?i)([?&](?:access_token|token|xq_a_token|sid)=)[^&#\s]+`)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// SecureHandler wraps an slog.Handler and masks sensitive attributes
// before they are handed to the wrapped handler.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler creates a new SecureHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled reports whether the wrapped handler handles records at level.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it to the wrapped handler.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes masked and added.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitized := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitized[i] = sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitized)}
}

// WithGroup returns a new handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr masks a single attribute, recursing into groups.
func sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitized := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			sanitized[i] = sanitizeAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitized...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		v := a.Value.String()
		if isSensitiveValue(v) {
			return slog.String(a.Key, MaskValue)
		}
		if masked := MaskURLTokens(v); masked != v {
			return slog.String(a.Key, masked)
		}
	}

	return a
}

// isSensitiveKey reports whether key names session material.
func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	if sensitiveKeys[k] {
		return true
	}
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(k, keyword) {
			return true
		}
	}
	return false
}

// isSensitiveValue checks if a value matches sensitive patterns.
func isSensitiveValue(value string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// MaskURLTokens replaces the value of token-like query parameters in s.
func MaskURLTokens(s string) string {
	if !strings.ContainsAny(s, "?&") {
		return s
	}
	return tokenQuery.ReplaceAllString(s, "${1}"+MaskValue)
}

// Options selects the logger's level and format.
type Options struct {
	// Verbose lowers the level to Debug. Otherwise Info is used so that
	// per-page progress of long crawls stays visible.
	Verbose bool

	// JSON switches from text to JSON lines.
	JSON bool
}

// New creates a slog.Logger writing to w through a SecureHandler.
func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: level(opts.Verbose)}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(NewSecureHandler(handler))
}

// NewSecureLogger creates a text logger with secure handling.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return New(w, Options{Verbose: verbose})
}

// NewSecureJSONLogger creates a JSON logger with secure handling.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return New(w, Options{Verbose: verbose, JSON: true})
}

// Discard returns a logger that drops every record.
// Tests and library callers without a logger use it.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
