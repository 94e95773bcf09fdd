package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	cases := []struct {
		name  string
		level string
		emit  string
		want  bool
	}{
		{"debug shows debug", "debug", "debug", true},
		{"info hides debug", "info", "debug", false},
		{"warn hides info", "warn", "info", false},
		{"warn shows warn", "warn", "warn", true},
		{"error hides warn", "error", "warn", false},
		{"unknown level is warn", "banana", "info", false},
		{"off hides error", "off", "error", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New("text", tc.level, &buf)

			switch tc.emit {
			case "debug":
				logger.Debug("msg")
			case "info":
				logger.Info("msg")
			case "warn":
				logger.Warn("msg")
			case "error":
				logger.Error("msg")
			}

			assert.Equal(t, tc.want, strings.TrimSpace(buf.String()) != "")
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	New("json", "info", &buf).Info("link rejected", "kind", "association")

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "link rejected", m["msg"])
	assert.Equal(t, "association", m["kind"])
}

func TestNew_NilWriter(t *testing.T) {
	assert.NotNil(t, New("text", "info", nil))
}
