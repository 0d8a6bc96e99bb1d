package config

import "go.uber.org/zap"

// NewLogger builds the process logger. Development mode switches to the
// human-readable console encoder.
func NewLogger(appEnv string) (*zap.Logger, error) {
	if appEnv == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
