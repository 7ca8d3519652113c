package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSyncHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		opID    string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			opID:    "20240615T143045Z",
			level:   slog.LevelInfo,
			message: "pushed snapshot",
			want:    "2024-06-15T14:30:45Z\tINFO\t20240615T143045Z\tpushed snapshot\n",
		},
		{
			name:    "debug level",
			opID:    "op-456",
			level:   slog.LevelDebug,
			message: "comparing against remote",
			want:    "2024-06-15T14:30:45Z\tDEBUG\top-456\tcomparing against remote\n",
		},
		{
			name:    "with record attrs",
			opID:    "op-789",
			level:   slog.LevelInfo,
			message: "applied remote snapshot",
			attrs:   []slog.Attr{slog.String("node", "node-a"), slog.Int("commits", 2)},
			want:    "2024-06-15T14:30:45Z\tINFO\top-789\tapplied remote snapshot\tnode=node-a\tcommits=2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &syncHandler{w: &buf, opID: tt.opID}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			for _, a := range tt.attrs {
				r.AddAttrs(a)
			}

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestSyncHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &syncHandler{w: &buf, opID: "op-1"}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "gitrepo")}).(*syncHandler)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "fetch", 0)
	r.AddAttrs(slog.String("remote", "origin"))

	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "component=gitrepo") {
		t.Errorf("expected pre-set attr component=gitrepo, got: %q", got)
	}
	if !strings.Contains(got, "remote=origin") {
		t.Errorf("expected record attr remote=origin, got: %q", got)
	}
}

func TestSyncHandler_WithAttrs_doesNotMutateOriginal(t *testing.T) {
	var buf bytes.Buffer
	h := &syncHandler{w: &buf, opID: "op-1", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("b", "2")}).(*syncHandler)

	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}
	if len(h2.attrs) != 2 {
		t.Errorf("new handler attrs: got %d, want 2", len(h2.attrs))
	}
}

func TestSyncHandler_Enabled(t *testing.T) {
	h := &syncHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if !h.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = false, want true", level)
		}
	}
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()

	logger, f, err := newLogger(dir, "test-op")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer f.Close()

	if logger == nil {
		t.Fatal("newLogger() returned nil logger")
	}
	if f == nil {
		t.Fatal("newLogger() returned nil file")
	}

	if _, err := os.Stat(filepath.Join(dir, "blocksync.log")); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}
