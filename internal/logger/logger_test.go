package logger

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		"INFO":    INFO,
		"":        INFO,
		"warn":    WARNING,
		"Warning": WARNING,
		"error":   ERROR,
	}
	for input, want := range cases {
		got, err := ParseLogLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	got, err := ParseLogLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, INFO, got)
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(WARNING, &buf)

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warning("shown %d", 3)
	l.Error("shown %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARNING] shown 3")
	assert.Contains(t, out, "[ERROR] shown 4")

	l.SetLevel(DEBUG)
	l.Debug("now visible")
	assert.Contains(t, buf.String(), "[DEBUG] now visible")
}

func TestWriter_RoutesThroughGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	Init(INFO, &buf)
	defer Init(INFO, nil)

	fmt.Fprintln(Writer(INFO), "GET /api/v1/health 200")
	fmt.Fprintln(Writer(DEBUG), "dropped")

	assert.Contains(t, buf.String(), "[INFO] GET /api/v1/health 200")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Equal(t, INFO, GetLevel())
}
