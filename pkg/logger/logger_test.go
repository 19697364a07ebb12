package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		logFile string
		enabled zapcore.Level
		wantErr bool
	}{
		{
			name:    "debug level, no file",
			level:   "debug",
			enabled: zapcore.DebugLevel,
		},
		{
			name:    "info level, no file",
			level:   "info",
			enabled: zapcore.InfoLevel,
		},
		{
			name:    "warn level, no file",
			level:   "warn",
			enabled: zapcore.WarnLevel,
		},
		{
			name:    "error level, no file",
			level:   "error",
			enabled: zapcore.ErrorLevel,
		},
		{
			name:    "invalid level defaults to info",
			level:   "invalid",
			enabled: zapcore.InfoLevel,
		},
		{
			name:    "with log file",
			level:   "info",
			logFile: filepath.Join(t.TempDir(), "test.log"),
			enabled: zapcore.InfoLevel,
		},
		{
			name:    "unwritable log file",
			level:   "info",
			logFile: filepath.Join(t.TempDir(), "missing", "dir", "test.log"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.level, tt.logFile)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, log)

			assert.True(t, log.Core().Enabled(tt.enabled))
			if tt.enabled > zapcore.DebugLevel {
				assert.False(t, log.Core().Enabled(tt.enabled-1))
			}

			// Sync may return errors for stdout/stderr on some systems, which is okay
			_ = log.Sync()
		})
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "app.log")

	log, err := New("info", logFile)
	require.NoError(t, err)

	log.Info("test message", zap.String("run_id", "abc"))
	_ = log.Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "abc", entry["run_id"])
}
