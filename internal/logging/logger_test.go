//
//  Copyright © Fieldworks Inc. All rights reserved.
//

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func captureLogger(t *testing.T) (*Logger, *bytes.Buffer) {
	t.Helper()
	resetForTesting()

	l := GetLogger("test")
	var buf bytes.Buffer
	l.SetOut(&buf)
	return l, &buf
}

func TestLoggerEmitsStructuredFields(t *testing.T) {
	l, buf := captureLogger(t)

	l.Info("alice", "check", "decision made")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "alice", entry["actor"])
	assert.Equal(t, "check", entry["action"])
	assert.Equal(t, "test", entry["module"])
	assert.Equal(t, "decision made", entry["msg"])
	assert.Equal(t, "info", entry["level"])
}

func TestLoggerSysVariantsUseDefaults(t *testing.T) {
	l, buf := captureLogger(t)

	l.SysWarnf("cache size %d below minimum", 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "sys", entry["actor"])
	assert.Equal(t, "unk", entry["action"])
	assert.Contains(t, entry["msg"], "cache size 1")
}

func TestLoggerLevelFiltering(t *testing.T) {
	l, buf := captureLogger(t)

	l.Debug("a", "b", "should be suppressed at info")
	assert.Empty(t, buf.String())

	l.SetLevel(zapcore.DebugLevel)
	l.SetOut(buf)
	l.Debug("a", "b", "now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestLoggerOut(t *testing.T) {
	l, buf := captureLogger(t)
	assert.Equal(t, buf, l.Out())
}
