package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSlogLoggerWritesAttributes(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := New(slog.New(h)).With("world", 3)

	logger.Debug(context.Background(), "node materialized", "identifier", "lv2:AudioPort")

	out := buf.String()
	assert.True(t, strings.Contains(out, "node materialized"), out)
	assert.True(t, strings.Contains(out, "world=3"), out)
	assert.True(t, strings.Contains(out, "identifier=lv2:AudioPort"), out)
}

func TestZapLoggerWritesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZap(zap.New(core)).With("world", 7)

	logger.Info(context.Background(), "world created")
	logger.Error(context.Background(), "teardown failed", "error", "boom")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "world created", entries[0].Message)
	assert.Equal(t, int64(7), entries[0].ContextMap()["world"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestNilFallbacks(t *testing.T) {
	assert.NotNil(t, New(nil))
	assert.NotNil(t, NewZap(nil))

	d := Discard()
	d.Warn(context.Background(), "ignored")
	assert.Equal(t, d, d.With("k", "v"))
}

func TestSlogLoggerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger := New(slog.New(h))

	logger.Debug(context.Background(), "node materialized", "identifier", "lv2:AudioPort")
	logger.Info(context.Background(), "world created")
	assert.Empty(t, buf.String())

	//nolint:staticcheck // a nil context must not reach the handler
	logger.Warn(nil, "identifier unresolved", "identifier", "midi:MidiEvent")
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "identifier=midi:MidiEvent")
}
