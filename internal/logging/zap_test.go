package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_LevelsAndFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewZapLogger(zap.New(core))
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	entries := logs.All()
	require.Len(t, entries, 4)
	require.Equal(t, "dbg", entries[0].Message)
	require.Equal(t, zap.WarnLevel, entries[2].Level)
	require.EqualValues(t, 4, entries[3].ContextMap()["d"])
}

func TestZapLogger_With(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := NewZapLogger(zap.New(core)).With("request_id", "r-1")

	log.Info(context.Background(), "login ok", "role", "STAFF")

	fields := logs.All()[0].ContextMap()
	require.Equal(t, "r-1", fields["request_id"])
	require.Equal(t, "STAFF", fields["role"])
}

func TestNew_Backends(t *testing.T) {
	var buf bytes.Buffer

	l, err := New("slog", "info", &buf)
	require.NoError(t, err)
	l.Info(context.Background(), "hello", "k", "v")
	require.Contains(t, buf.String(), "msg=hello")

	buf.Reset()
	l, err = New("zap", "debug", &buf)
	require.NoError(t, err)
	l.Debug(context.Background(), "zapped", "k", "v")
	require.Contains(t, buf.String(), "zapped")

	_, err = New("logrus", "info", &buf)
	require.Error(t, err)

	_, err = New("slog", "loud", &buf)
	require.Error(t, err)

	_, err = New("zap", "loud", &buf)
	require.Error(t, err)
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop()
	l.With("a", 1).Error(context.Background(), "nothing")
}

func TestZapLogger_RedactsSecrets(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewZapLogger(zap.New(core)).With("authorization", "Bearer abc")

	l.Info(context.Background(), "login", "password", "hunter2", "email", "a@example.com")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, redacted, fields["authorization"])
	require.Equal(t, redacted, fields["password"])
	require.Equal(t, "a@example.com", fields["email"])
}
