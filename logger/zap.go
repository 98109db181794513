// Package logger builds the application zap logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger for the server mode.
//
// In "debug" mode logs are colored human readable lines, at debug level.
// Otherwise they are JSON lines at info level.
func New(mode string) (*zap.Logger, error) {
	var config zap.Config

	if mode == "debug" {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	// stdout belongs to the command output.
	config.OutputPaths = []string{"stderr"}

	return config.Build()
}
