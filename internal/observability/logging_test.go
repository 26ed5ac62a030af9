package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestContextValuesAccumulate(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithStage(ctx, "mod_builds")
	ctx = WithMod(ctx, "PluginA")

	assert.Equal(t, LogContext{RunID: "run-1", Stage: "mod_builds", Mod: "PluginA"}, extractLogContext(ctx))
}

func TestInfoContextAddsAttrs(t *testing.T) {
	buf := captureDefault(t)
	ctx := WithStage(WithRunID(context.Background(), "run-2"), "prepare")

	InfoContext(ctx, "Disabling mod plugins", slog.Int("count", 2))

	out := buf.String()
	assert.Contains(t, out, "run_id=run-2")
	assert.Contains(t, out, "stage=prepare")
	assert.Contains(t, out, "count=2")
	assert.NotContains(t, out, "mod=")
}

func TestLevels(t *testing.T) {
	buf := captureDefault(t)
	ctx := context.Background()

	DebugContext(ctx, "d")
	WarnContext(ctx, "w")
	ErrorContext(ctx, "e")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "level=ERROR")
}
