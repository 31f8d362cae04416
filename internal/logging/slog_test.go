package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlogLogger_WritesLevelsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := NewTextLogger(&buf, slog.LevelDebug)

	ctx := context.Background()
	log.Debug(ctx, "dbg", "k", "v")
	log.Info(ctx, "hello", "radius", 50)
	log.Warn(ctx, "careful")
	log.Error(ctx, "boom", "err", "nope")

	out := buf.String()
	require.Contains(t, out, "level=DEBUG")
	require.Contains(t, out, "msg=hello")
	require.Contains(t, out, "radius=50")
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "err=nope")
}

func TestSlogLogger_WithAddsPersistentAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := NewTextLogger(&buf, slog.LevelInfo)

	child := log.With("component", "discovery")
	child.Info(context.Background(), "scan started")

	require.Contains(t, buf.String(), "component=discovery")
}

func TestNewSlogLogger_WrapsExisting(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))
	log := NewSlogLogger(base)
	log.Info(context.Background(), "wrapped")
	require.Contains(t, buf.String(), "msg=wrapped")
}
