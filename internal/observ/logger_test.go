package observ

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		env, level string
		want       zapcore.Level
	}{
		{"production", "warn", zapcore.WarnLevel},
		{"development", "debug", zapcore.DebugLevel},
		{"development", "loud", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		logger, err := NewLogger(tt.env, tt.level)
		if err != nil {
			t.Fatal(err)
		}
		if !logger.Core().Enabled(tt.want) {
			t.Errorf("%s/%s: level %s should be enabled", tt.env, tt.level, tt.want)
		}
		if tt.want > zapcore.DebugLevel && logger.Core().Enabled(tt.want-1) {
			t.Errorf("%s/%s: level %s should be disabled", tt.env, tt.level, tt.want-1)
		}
	}
}

func TestForCommunity(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ForCommunity(zap.New(core), "g1").Info("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["community_id"]; got != "g1" {
		t.Fatalf("community_id = %v", got)
	}
}
