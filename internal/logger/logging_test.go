package logger

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerbosity(t *testing.T) {
	testCases := []struct {
		input    string
		expected log.Level
		wantErr  bool
	}{
		{"none", log.ErrorLevel, false},
		{"info", log.InfoLevel, false},
		{"", log.InfoLevel, false},
		{"DEBUG", log.DebugLevel, false},
		{" debug ", log.DebugLevel, false},
		{"loud", log.InfoLevel, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			level, err := ParseVerbosity(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expected, level)
		})
	}
}

func TestSetVerbosity(t *testing.T) {
	previous := log.GetLevel()
	t.Cleanup(func() {
		log.SetLevel(previous)
		log.SetReportTimestamp(false)
	})

	require.NoError(t, SetVerbosity("debug"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	require.NoError(t, SetVerbosity("none"))
	assert.Equal(t, log.ErrorLevel, log.GetLevel())

	assert.Error(t, SetVerbosity("loud"))
	assert.Equal(t, log.ErrorLevel, log.GetLevel(), "level untouched on error")
}

func TestNewWithWriter(t *testing.T) {
	previous := log.GetLevel()
	t.Cleanup(func() { log.SetLevel(previous) })
	log.SetLevel(log.InfoLevel)

	var buf bytes.Buffer
	l := NewWithWriter(&buf, "wordtree")
	l.Info("loaded", "words", 3)
	l.Debug("hidden")

	assert.Contains(t, buf.String(), "wordtree")
	assert.Contains(t, buf.String(), "words=3")
	assert.NotContains(t, buf.String(), "hidden")
}
