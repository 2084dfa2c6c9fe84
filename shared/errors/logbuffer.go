package errors

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"sync"
	"time"
)

const maxEntries = 100

// Entry is one recorded error with enough context to reconstruct what the
// app was doing when it happened.
type Entry struct {
	Timestamp time.Time         `json:"timestamp"`
	Category  Category          `json:"category"`
	Severity  Severity          `json:"severity"`
	Message   string            `json:"message"`
	Error     string            `json:"error,omitempty"`
	Context   map[string]string `json:"context,omitempty"`
	Stack     string            `json:"stack,omitempty"`
}

// Log keeps the last maxEntries errors in a ring buffer and mirrors each
// entry to the structured logger. Safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
	logger  *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{
		entries: make([]Entry, maxEntries),
		logger:  logger,
	}
}

func (l *Log) Record(appErr *AppError, fields map[string]string) {
	if appErr == nil {
		return
	}

	entry := Entry{
		Timestamp: time.Now(),
		Category:  appErr.Category,
		Severity:  appErr.Severity,
		Message:   appErr.Message,
		Context:   fields,
	}
	if appErr.Cause != nil {
		entry.Error = appErr.Cause.Error()
	}
	if appErr.Severity == SeverityCritical || appErr.Category == CategoryRender {
		entry.Stack = string(debug.Stack())
	}

	l.mu.Lock()
	l.entries[l.next] = entry
	l.next = (l.next + 1) % maxEntries
	if l.next == 0 {
		l.full = true
	}
	l.mu.Unlock()

	if l.logger != nil {
		level := slog.LevelWarn
		if appErr.Severity == SeverityHigh || appErr.Severity == SeverityCritical {
			level = slog.LevelError
		}
		attrs := []any{
			slog.String("category", string(appErr.Category)),
			slog.String("severity", string(appErr.Severity)),
			slog.String("code", appErr.Code),
		}
		for k, v := range fields {
			attrs = append(attrs, slog.String(k, v))
		}
		if appErr.Cause != nil {
			attrs = append(attrs, slog.String("cause", appErr.Cause.Error()))
		}
		l.logger.Log(context.Background(), level, appErr.Message, attrs...)
	}
}

// LogAPIError records a failed API call with endpoint, method and status.
func (l *Log) LogAPIError(endpoint, method string, statusCode int, err error) {
	appErr := AsAppError(err)
	l.Record(appErr, map[string]string{
		"endpoint": endpoint,
		"method":   method,
		"status":   strconv.Itoa(statusCode),
	})
}

// LogNetworkError records a transport failure, noting whether it was a timeout.
func (l *Log) LogNetworkError(endpoint string, timeout bool, err error) {
	appErr := AsAppError(err)
	interpretation := "unreachable"
	if timeout {
		interpretation = "timeout"
	}
	l.Record(appErr, map[string]string{
		"endpoint":       endpoint,
		"interpretation": interpretation,
	})
}

// LogAuthError records an authentication failure.
func (l *Log) LogAuthError(operation string, err error) {
	l.Record(AsAppError(err), map[string]string{"operation": operation})
}

// LogNavigationError records a failed route transition.
func (l *Log) LogNavigationError(route string, err error) {
	l.Record(AsAppError(err), map[string]string{"route": route})
}

// LogRenderError records a screen failure together with its component stack.
func (l *Log) LogRenderError(component string, err error) {
	l.Record(AsAppError(err), map[string]string{"component": component})
}

// Entries returns recorded entries oldest-first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.full {
		out := make([]Entry, l.next)
		copy(out, l.entries[:l.next])
		return out
	}

	out := make([]Entry, 0, maxEntries)
	out = append(out, l.entries[l.next:]...)
	out = append(out, l.entries[:l.next]...)
	return out
}

// Len reports how many entries are currently held.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.full {
		return maxEntries
	}
	return l.next
}

// Clear drops all recorded entries.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make([]Entry, maxEntries)
	l.next = 0
	l.full = false
}

// Dump formats all entries for a diagnostics screen.
func (l *Log) Dump() string {
	var out string
	for _, e := range l.Entries() {
		out += fmt.Sprintf("%s [%s/%s] %s\n", e.Timestamp.Format(time.RFC3339), e.Category, e.Severity, e.Message)
	}
	return out
}
