package util

import (
	"strings"

	"go.uber.org/zap"
)

// NewLogger builds a sugared zap logger, production config when env is "production".
// Called without arguments (unit tests) it returns a development logger.
func NewLogger(env ...string) *zap.SugaredLogger {
	var logger *zap.SugaredLogger

	if len(env) > 0 && strings.EqualFold(env[0], "production") {
		logger = zap.Must(zap.NewProduction()).Sugar()
	} else {
		logger = zap.Must(zap.NewDevelopment()).Sugar()
	}

	defer logger.Sync()

	return logger
}
