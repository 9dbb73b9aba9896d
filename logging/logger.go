package logging

import (
	stdlog "log"

	"go.uber.org/zap"
)

// New returns a sugared logger; debug selects the human-readable development encoder.
func New(debug bool) *zap.SugaredLogger {
	var zlog *zap.Logger
	var err error
	if debug {
		zlog, err = zap.NewDevelopment()
	} else {
		zlog, err = zap.NewProduction()
	}
	if err != nil {
		stdlog.Fatalf("failed to set up logger: %v", err)
	}
	return zlog.Sugar()
}

// Nop is used by tests and library callers that do not want output.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
