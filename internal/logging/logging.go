// Package logging builds the zap logger shared by the CLI and the MCP server.
//
// Logs always go to stderr. In serve mode stdout carries protocol traffic
// and must not be written to.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLevel names the environment variable consulted when no level is given
// on the command line.
const EnvLevel = "AIGIS_CUTTER_LOG_LEVEL"

// DefaultLevel is used when neither the flag nor the environment set one.
const DefaultLevel = "info"

// ResolveLevel picks the flag value, then the environment, then DefaultLevel.
func ResolveLevel(flagValue string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLevel)); v != "" {
		return v
	}
	return DefaultLevel
}

// New returns a console logger at the given level ("debug", "info", "warn",
// "error").
func New(level string) (*zap.Logger, error) {
	return NewWithSink(level, zapcore.Lock(os.Stderr))
}

// NewWithSink is New writing to ws instead of stderr.
func NewWithSink(level string, ws zapcore.WriteSyncer) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), ws, lvl)
	return zap.New(core, zap.AddCaller()), nil
}
