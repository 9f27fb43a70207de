package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T, level string, format OutputFormat, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	t.Cleanup(func() {
		UnsetTestOutput()
		logger = nil
	})

	InitLogger(level, format)
	fn()
	return buf.String()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"Error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		contains []string
		excludes []string
	}{
		{
			name:     "info hides debug",
			level:    "info",
			contains: []string{"refreshing cache", "cache write failed"},
			excludes: []string{"querying htop"},
		},
		{
			name:     "debug shows everything",
			level:    "debug",
			contains: []string{"querying htop", "refreshing cache", "cache write failed"},
		},
		{
			name:     "error hides warnings",
			level:    "error",
			contains: []string{"dnf not found"},
			excludes: []string{"cache write failed", "refreshing cache"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t, tt.level, FormatText, func() {
				Debug("querying htop")
				Info("refreshing cache")
				Warn("cache write failed")
				Error("dnf not found")
			})
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestTextFormatFields(t *testing.T) {
	out := captureOutput(t, "debug", FormatText, func() {
		Warn("query failed", Fields{"package": "htop", "exit": 1})
		DebugfWithFields(Fields{"candidates": 3}, "fetching %s", "deps")
		Infof("loaded %d packages", 12)
		Success("htop updated", Fields{"package": "htop"})
	})

	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "package=htop")
	assert.Contains(t, out, "exit=1")
	assert.Contains(t, out, `msg="fetching deps"`)
	assert.Contains(t, out, "candidates=3")
	assert.Contains(t, out, `msg="loaded 12 packages"`)
	assert.Contains(t, out, "status=success")
}

func TestJSONFormat(t *testing.T) {
	out := captureOutput(t, "info", FormatJSON, func() {
		Info("cache hit", Fields{"entries": 4})
	})

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &record))
	assert.Equal(t, "cache hit", record["msg"])
	assert.Equal(t, "INFO", record["level"])
	assert.EqualValues(t, 4, record["entries"])
}

func TestSetOutputFormatKeepsLevel(t *testing.T) {
	out := captureOutput(t, "warn", FormatText, func() {
		SetOutputFormat(FormatJSON)
		Info("hidden")
		Warn("shown")
	})

	assert.NotContains(t, out, "hidden")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.True(t, json.Valid([]byte(lines[0])))
	assert.Contains(t, lines[0], `"msg":"shown"`)
}

func TestNewHandler(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		h := newHandler(io.Discard, slog.LevelInfo, FormatJSON)
		assert.IsType(t, &slog.JSONHandler{}, h)
	})

	t.Run("text on a regular file", func(t *testing.T) {
		f, err := os.Create(filepath.Join(t.TempDir(), "log"))
		require.NoError(t, err)
		defer f.Close()

		h := newHandler(f, slog.LevelInfo, FormatText)
		assert.IsType(t, &slog.TextHandler{}, h)
	})

	t.Run("terminal uses charm handler", func(t *testing.T) {
		orig := isTerminal
		isTerminal = func(io.Writer) bool { return true }
		t.Cleanup(func() { isTerminal = orig })

		buf := &bytes.Buffer{}
		h := newHandler(buf, slog.LevelDebug, FormatText)
		require.IsType(t, &charmlog.Logger{}, h)

		slog.New(h).Debug("styled output", "package", "htop")
		assert.Contains(t, buf.String(), "styled output")
		assert.Contains(t, buf.String(), "htop")
	})
}

func TestDefaultOutputIsStderr(t *testing.T) {
	UnsetTestOutput()
	assert.Equal(t, os.Stderr, getOutput())

	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()
	assert.Equal(t, buf, getOutput())
}

func TestGetLoggerInitializesDefault(t *testing.T) {
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	t.Cleanup(func() {
		UnsetTestOutput()
		logger = nil
	})

	logger = nil
	require.NotNil(t, GetLogger())
	Debug("below default level")
	Info("default level")

	assert.NotContains(t, buf.String(), "below default level")
	assert.Contains(t, buf.String(), "default level")
}

func TestMergeFields(t *testing.T) {
	assert.Empty(t, mergeFields())
	got := mergeFields(Fields{"a": 1}, Fields{"b": "two"})
	assert.Len(t, got, 4)
	assert.Contains(t, got, "a")
	assert.Contains(t, got, "two")
}
