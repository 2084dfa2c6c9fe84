package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	old := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(out)
}

func TestPrettyHandlerCarriesWithAttrs(t *testing.T) {
	h := PrettyHandler{level: slog.LevelDebug}
	log := slog.New(h)
	log = WithComponent(log, "store")
	log = WithOperation(log, "dashboard")

	out := captureStdout(t, func() {
		log.Info("loaded", slog.Int("jobs", 3))
	})

	if !strings.Contains(out, "cmp:store") {
		t.Errorf("output missing component tag: %q", out)
	}
	if !strings.Contains(out, "op:dashboard") {
		t.Errorf("output missing operation tag: %q", out)
	}
	if !strings.Contains(out, "jobs") {
		t.Errorf("output missing call-site attr: %q", out)
	}
}

func TestPrettyHandlerWithAttrsDoesNotMutateParent(t *testing.T) {
	h := PrettyHandler{level: slog.LevelDebug}
	child := h.WithAttrs([]slog.Attr{slog.String(ComponentKey, "auth")})

	grown, ok := child.(PrettyHandler)
	if !ok {
		t.Fatalf("WithAttrs returned %T, want PrettyHandler", child)
	}
	if len(grown.attrs) != 1 {
		t.Fatalf("child attrs = %d, want 1", len(grown.attrs))
	}
	if len(h.attrs) != 0 {
		t.Fatalf("parent attrs = %d, want 0", len(h.attrs))
	}
}

func TestPrettyHandlerRecordAttrOverridesHandlerAttr(t *testing.T) {
	h := PrettyHandler{level: slog.LevelDebug}
	handler := h.WithAttrs([]slog.Attr{slog.String(ComponentKey, "store")})

	out := captureStdout(t, func() {
		rec := slog.NewRecord(time.Now(), slog.LevelInfo, "working", 0)
		rec.AddAttrs(slog.String(ComponentKey, "tracker"))
		if err := handler.Handle(context.Background(), rec); err != nil {
			t.Errorf("handle: %v", err)
		}
	})

	if !strings.Contains(out, "cmp:tracker") {
		t.Errorf("record attr should win the header: %q", out)
	}
	if strings.Contains(out, "cmp:store") {
		t.Errorf("overridden handler attr leaked into header: %q", out)
	}
}
