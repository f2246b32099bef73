package observ

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const service = "weighin"

// NewLogger builds a JSON logger for production and a console logger
// otherwise. Unknown levels fall back to info.
func NewLogger(env, level string) (*zap.Logger, error) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "ts"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
	}

	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		zapLevel = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.InitialFields = map[string]any{"service": service, "env": env}

	return config.Build()
}

// ForCommunity scopes a logger to one tenant.
func ForCommunity(logger *zap.Logger, communityID string) *zap.Logger {
	return logger.With(zap.String("community_id", communityID))
}
