package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestContextWithLogger(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	ctx := ContextWithLogger(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Fatalf("expected logger from context, got %v", got)
	}
	if got := FromContext(context.Background()); got != nil {
		t.Fatalf("expected nil logger for bare context, got %v", got)
	}
	if got := ContextWithLogger(ctx, nil); got != ctx {
		t.Fatalf("nil logger should return the context unchanged")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{format: FormatJSON, want: `"msg":"hello"`},
		{format: "TEXT", want: "msg=hello"},
		{format: "", want: `"msg":"hello"`},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		New(&buf, slog.LevelInfo, tt.format).Info("hello")
		if !strings.Contains(buf.String(), tt.want) {
			t.Fatalf("format %q: expected %q in %q", tt.format, tt.want, buf.String())
		}
	}

	var buf bytes.Buffer
	New(&buf, slog.LevelWarn, FormatJSON).Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn level, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":  slog.LevelDebug,
		"INFO":   slog.LevelInfo,
		" warn ": slog.LevelWarn,
		"Error":  slog.LevelError,
	}
	for input, want := range tests {
		got, err := ParseLevel(input)
		if err != nil {
			t.Fatalf("ParseLevel(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}

	for _, input := range []string{"", "verbose", "info+2"} {
		if _, err := ParseLevel(input); err == nil {
			t.Fatalf("ParseLevel(%q) expected error", input)
		}
	}
}

func TestValidFormat(t *testing.T) {
	if !ValidFormat("json") || !ValidFormat("Text") {
		t.Fatalf("expected json and text to be valid")
	}
	if ValidFormat("yaml") {
		t.Fatalf("expected yaml to be rejected")
	}
}
