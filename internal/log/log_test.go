package log

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWrite_FormatsFieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	cleanup := InitWriter(&buf)
	defer cleanup()

	Warn(CatSettings, "Dropped entry", "language", "Go", "dangling")
	ErrorErr(CatHistory, "Record failed", errors.New("disk full"))

	out := buf.String()
	require.Contains(t, out, "[WARN] [settings] Dropped entry language=Go dangling=<missing>")
	require.Contains(t, out, "[ERROR] [history] Record failed error=disk full")
}

func TestWrite_RespectsLevelAndEnabled(t *testing.T) {
	var buf bytes.Buffer
	cleanup := InitWriter(&buf)
	defer cleanup()

	SetMinLevel(LevelWarn)
	Info(CatSession, "hidden")
	SetEnabled(false)
	Error(CatSession, "also hidden")

	require.Empty(t, buf.String())
}

func TestWrite_NoLoggerIsNoop(t *testing.T) {
	require.NotPanics(t, func() { Debug(CatApply, "nobody listening") })
	require.Nil(t, NewListener(context.Background()))
}

func TestListener_ReceivesEntries(t *testing.T) {
	cleanup := InitWriter(nil)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	l := NewListener(ctx)
	require.NotNil(t, l)

	Info(CatWatcher, "Settings changed", "path", "settings.json")
	entry, ok := l.Next()
	require.True(t, ok)
	require.Contains(t, entry.Payload, "[INFO] [watcher] Settings changed path=settings.json")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, LevelWarn, ParseLevel("warn"))
	require.Equal(t, LevelError, ParseLevel("ERROR"))
	require.Equal(t, LevelInfo, ParseLevel("bogus"))
	require.Equal(t, LevelDebug, ParseLevel("debug"))
}
