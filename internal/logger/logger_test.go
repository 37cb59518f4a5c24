package logger_test

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logpkg "github.com/maxviazov/company-employees-service/internal/logger"
)

func TestNew(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	tests := []struct {
		name        string
		config      *logpkg.LoggerConfig
		expectError bool
		wantLevel   zerolog.Level
	}{
		{
			name: "production json",
			config: &logpkg.LoggerConfig{
				ServiceName: "test-service",
				Env:         "prod",
				Level:       "info",
				TimeField:   "timestamp",
				TimeFormat:  "unix",
				Fields:      map[string]interface{}{"key": "value"},
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name: "wrong env rejected",
			config: &logpkg.LoggerConfig{
				Env:   "wrong-env",
				Level: "debug",
			},
			expectError: true,
		},
		{
			name: "invalid level rejected",
			config: &logpkg.LoggerConfig{
				Env:   "prod",
				Level: "loud",
			},
			expectError: true,
		},
		{
			name: "invalid time format rejected",
			config: &logpkg.LoggerConfig{
				Env:        "prod",
				TimeFormat: "iso",
			},
			expectError: true,
		},
		{
			name: "staging to stderr",
			config: &logpkg.LoggerConfig{
				Env:          "staging",
				Level:        "warn",
				OutputTarget: "stderr",
				TimeFormat:   "rfc3339",
			},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name: "dev console without debug",
			config: &logpkg.LoggerConfig{
				Env:   "dev",
				Level: "info",
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:      "defaults fill everything",
			config:    &logpkg.LoggerConfig{},
			wantLevel: zerolog.InfoLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := logpkg.New(tc.config)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantLevel, zerolog.GlobalLevel())
		})
	}
}

func TestNew_DefaultsApplied(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })
	cfg := &logpkg.LoggerConfig{}
	_, err := logpkg.New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "ts", cfg.TimeField)
	assert.Equal(t, "company-employees-service", cfg.ServiceName)
	assert.True(t, cfg.Stacktrace)
	assert.NotNil(t, cfg.Fields)
}

func TestNew_DebugFileCreated(t *testing.T) {
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
		if err := os.RemoveAll("logs"); err != nil {
			t.Logf("cleanup failed: %v", err)
		}
	})
	_, err := logpkg.New(&logpkg.LoggerConfig{Env: "dev", Level: "debug"})
	require.NoError(t, err)
	_, statErr := os.Stat("logs/debug.log")
	assert.NoError(t, statErr)
}
