package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger for the given environment. local logs at debug
// level in the console encoder, development at info, and production uses
// the JSON production config.
func New(env string) (*zap.Logger, error) {
	switch env {
	case "local", "":
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return cfg.Build()
	case "development":
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		return cfg.Build()
	case "production":
		return zap.NewProduction()
	}
	return nil, fmt.Errorf("unknown environment %q", env)
}
