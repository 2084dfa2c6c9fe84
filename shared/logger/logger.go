package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"drivemate/shared/config"

	"github.com/fatih/color"
)

// Attribute keys the pretty handler pulls into the line header.
const (
	ComponentKey = "component"
	OperationKey = "operation"
	DriverIDKey  = "driver_id"
)

type PrettyHandler struct {
	level slog.Level
	attrs []slog.Attr
}

var (
	once     sync.Once
	instance *slog.Logger
)

func init() {
	color.NoColor = false
}

func Get(cfg config.LogConfig) *slog.Logger {
	once.Do(func() {
		instance = New(cfg)
	})
	return instance
}

func (h PrettyHandler) Handle(ctx context.Context, r slog.Record) error {
	var levelColor func(format string, a ...any) string
	switch r.Level {
	case slog.LevelDebug:
		levelColor = color.New(color.FgCyan).SprintfFunc()
	case slog.LevelInfo:
		levelColor = color.New(color.FgGreen).SprintfFunc()
	case slog.LevelWarn:
		levelColor = color.New(color.FgYellow).SprintfFunc()
	case slog.LevelError:
		levelColor = color.New(color.FgRed).SprintfFunc()
	default:
		levelColor = color.New(color.FgWhite).SprintfFunc()
	}

	timeColor := color.New(color.FgWhite, color.Faint).SprintFunc()
	timestamp := timeColor(r.Time.Format("2006/01/02 15:04:05"))

	var component, operation, driverID string
	attrs := map[string]any{}

	classify := func(a slog.Attr) bool {
		switch a.Key {
		case ComponentKey:
			component = a.Value.String()
		case OperationKey:
			operation = a.Value.String()
		case DriverIDKey:
			driverID = a.Value.String()
		case "time", "level", "app":
		default:
			attrs[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range h.attrs {
		classify(a)
	}
	r.Attrs(classify)

	header := fmt.Sprintf("%s %s", timestamp, levelColor("%-5s", r.Level.String()))

	var contextParts []string
	if component != "" {
		contextParts = append(contextParts, fmt.Sprintf("cmp:%s", component))
	}
	if operation != "" {
		contextParts = append(contextParts, fmt.Sprintf("op:%s", operation))
	}
	if driverID != "" {
		contextParts = append(contextParts, fmt.Sprintf("drv:%s", driverID))
	}
	contextStr := ""
	if len(contextParts) > 0 {
		contextStr = "[" + strings.Join(contextParts, " ") + "] "
	}

	msg := fmt.Sprintf("%s %s%s", header, contextStr, r.Message)

	if len(attrs) > 0 {
		attrLines := []string{}
		for k, v := range attrs {
			attrLines = append(attrLines, fmt.Sprintf("    %-12s: %v", k, v))
		}
		sort.Strings(attrLines)
		msg += "\n" + strings.Join(attrLines, "\n")
	}

	fmt.Fprintln(os.Stdout, msg)
	return nil
}

func (h PrettyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	h.attrs = merged
	return h
}

func (h PrettyHandler) WithGroup(name string) slog.Handler {
	return h
}

// New creates a new structured logger
func New(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if cfg.Format == "pretty" {
		handler = PrettyHandler{level: level}
	} else {
		// Production JSON format
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler).With(
		slog.String("app", "drivemate"),
	)
}

// WithComponent adds component context to logger
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String(ComponentKey, component))
}

// WithOperation adds the store operation name to logger
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(OperationKey, operation))
}

// WithDriver adds the driver id to logger
func WithDriver(logger *slog.Logger, driverID string) *slog.Logger {
	return logger.With(slog.String(DriverIDKey, driverID))
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
