package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "debug", "json")
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.WithField("component", "test").Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "test", entry["component"])
}

func TestNew_FallbackLevelAndText(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "loud", "TEXT")
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())

	l.Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}
