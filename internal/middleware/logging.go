package middleware

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// w3cFields is the #Fields directive of the access log.
const w3cFields = "date time c-ip cs-method cs-uri-stem cs-uri-query sc-status sc-bytes cs-bytes time-taken sc(Content-Type) cs(User-Agent) cs(Referer)"

// LoggingConfig holds configuration for the logging middleware
type LoggingConfig struct {
	// SkipPaths are path prefixes that are never logged
	SkipPaths       []string
	LogHealthChecks bool
	// Software names the server in the log header
	Software string
	// Output receives log lines; nil means the standard logger
	Output io.Writer
}

// DefaultLoggingConfig returns the configuration used by the server
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:       []string{"/metrics"},
		LogHealthChecks: true,
		Software:        "m3u-parser",
	}
}

var healthCheckPaths = map[string]bool{
	"/health":  true,
	"/healthz": true,
	"/livez":   true,
	"/readyz":  true,
}

// W3CLogger writes requests in W3C Extended Log Format. The #Version,
// #Software and #Fields directives precede the first request line.
type W3CLogger struct {
	config LoggingConfig
	out    *log.Logger
	header sync.Once
}

// NewW3CLogger creates a logger for config
func NewW3CLogger(config LoggingConfig) *W3CLogger {
	out := log.Default()
	if config.Output != nil {
		out = log.New(config.Output, "", 0)
	}
	return &W3CLogger{config: config, out: out}
}

// Logger returns HTTP logging middleware using W3C Extended Log Format
func Logger(config LoggingConfig) func(http.Handler) http.Handler {
	logger := NewW3CLogger(config)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logger.skip(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)
			logger.logRequest(r, rec, time.Since(start))
		})
	}
}

func (l *W3CLogger) skip(path string) bool {
	for _, prefix := range l.config.SkipPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return !l.config.LogHealthChecks && healthCheckPaths[path]
}

func (l *W3CLogger) writeHeader(now time.Time) {
	software := l.config.Software
	if software == "" {
		software = "-"
	}
	l.out.Print("#Version: 1.0")
	l.out.Print("#Software: " + sanitizeLogField(software))
	l.out.Print("#Date: " + now.Format("2006-01-02 15:04:05"))
	l.out.Print("#Fields: " + w3cFields)
}

// logRequest writes one request line. Every request-controlled field passes
// through sanitizeLogField first.
func (l *W3CLogger) logRequest(r *http.Request, rec *statusRecorder, duration time.Duration) {
	now := time.Now().UTC()
	l.header.Do(func() { l.writeHeader(now) })

	requestBytes := "-"
	switch {
	case r.ContentLength >= 0:
		requestBytes = strconv.FormatInt(r.ContentLength, 10)
	case r.Body == nil || r.Body == http.NoBody:
		requestBytes = "0"
	}

	line := fmt.Sprintf("%s %s %s %s %s %s %d %d %s %d %s %s %s",
		now.Format("2006-01-02"),
		now.Format("15:04:05"),
		orDash(sanitizeLogField(getClientIP(r))),
		sanitizeLogField(r.Method),
		sanitizeLogField(r.URL.Path),
		orDash(sanitizeLogField(r.URL.RawQuery)),
		rec.statusCode,
		rec.bytesWritten,
		requestBytes,
		duration.Milliseconds(),
		orDash(escapeW3CField(rec.Header().Get("Content-Type"))),
		orDash(escapeW3CField(sanitizeLogField(r.Header.Get("User-Agent")))),
		orDash(escapeW3CField(sanitizeLogField(r.Header.Get("Referer")))),
	)

	//nolint:gosec // G706: request fields are sanitized above
	l.out.Print(line)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// sanitizeLogField replaces line breaks with spaces and drops other control
// characters, so a request cannot forge log lines or terminal escapes.
func sanitizeLogField(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
			b.WriteRune(' ')
		case r < 0x20 && r != '\t', r == 0x7f:
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// escapeW3CField quotes values containing whitespace or quotes, doubling any
// embedded quote.
func escapeW3CField(s string) string {
	if strings.ContainsAny(s, " \t\"") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
