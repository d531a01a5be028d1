package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewSlogText(&buf, slog.LevelDebug), &buf
}

func TestSlogText_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "request done", "status", 200)
	log.Info(ctx, "logged in", "role", "USER")
	log.Warn(ctx, "status check skipped", "attempt", 3)
	log.Error(ctx, "cache write failed", "key", "user")

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "status=200",
		"level=INFO", `msg="logged in"`, "role=USER",
		"level=WARN", "attempt=3",
		"level=ERROR", "key=user",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSlogText_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogText(&buf, slog.LevelWarn)

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output for warn level:\n%s", out)
	}
}

func TestSlogText_WithAddsComponent(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("component", "auth").Info(context.Background(), "hydrated", "cached", true)

	out := buf.String()
	for _, want := range []string{"component=auth", "msg=hydrated", "cached=true"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSlogText_RedactsSecrets(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("Token", "eyJhbGciOi").Warn(context.Background(), "reset", "password", "hunter2", "email", "a@example.com")

	out := buf.String()
	if strings.Contains(out, "eyJhbGciOi") || strings.Contains(out, "hunter2") {
		t.Fatalf("secret leaked into log:\n%s", out)
	}
	if !strings.Contains(out, "password="+redacted) || !strings.Contains(out, "email=a@example.com") {
		t.Fatalf("unexpected redaction result:\n%s", out)
	}
}

func TestRedactArgs_LeavesInputAlone(t *testing.T) {
	in := []any{"token", "abc", "user_id", 7}
	out := redactArgs(in)

	if in[1] != "abc" {
		t.Fatalf("input mutated: %v", in)
	}
	if out[1] != redacted || out[3] != 7 {
		t.Fatalf("unexpected redaction: %v", out)
	}

	plain := []any{"path", "/auth/profile"}
	if got := redactArgs(plain); &got[0] != &plain[0] {
		t.Fatal("args without secrets should be passed through")
	}
}
