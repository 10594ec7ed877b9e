package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"bluenoise/pkg/bluenoise"
)

func TestPhaseLoggerRecordsEveryPhase(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, slog.LevelDebug, true)

	cfg := bluenoise.Config{Width: 8, Height: 8, Seed: bluenoise.Seed(1)}
	cfg.Observer = NewPhaseLogger(log)
	_, err := bluenoise.Generate(cfg)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, `"msg":"phase started"`)
	require.Contains(t, out, `"phase":"initial pattern"`)
	require.Contains(t, out, `"phase":"threshold map"`)
	require.Contains(t, out, `"ranked":64`)
	require.Contains(t, out, `"iterations":`)
}

func TestPhaseLoggerWarnsWithoutConvergence(t *testing.T) {
	var buf bytes.Buffer
	p := NewPhaseLogger(NewWriter(&buf, slog.LevelInfo, false))
	p.PhaseDone(bluenoise.PhaseStats{Phase: bluenoise.PhaseInitialPattern, Iterations: 640})
	require.Contains(t, buf.String(), "level=WARN")
	require.Contains(t, buf.String(), "iterations=640")

	buf.Reset()
	p.PhaseDone(bluenoise.PhaseStats{Phase: bluenoise.PhaseInitialPattern, Iterations: 12, Converged: true})
	require.Contains(t, buf.String(), "level=INFO")
}

func TestProgressIsThrottled(t *testing.T) {
	var buf bytes.Buffer
	p := NewPhaseLogger(NewWriter(&buf, slog.LevelDebug, false))
	for i := 1; i <= 1000; i++ {
		p.Progress(i, 1000)
	}
	require.Equal(t, 11, bytes.Count(buf.Bytes(), []byte("msg=ranking")))
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestLogSaved(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, slog.LevelInfo, false).WithMap(4, 2)
	l.LogSaved("png", "out.png", nil)
	l.LogSaved("ranks", "out.bnr", errors.New("disk full"))
	require.Contains(t, buf.String(), "width=4 height=2")
	require.Contains(t, buf.String(), "file=out.png")
	require.Contains(t, buf.String(), `error="disk full"`)

	Discard().LogSaved("png", "ignored.png", nil)
}
