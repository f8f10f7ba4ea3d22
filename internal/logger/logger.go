// Package logger is a thin structured-logging layer over log/slog.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

var levelVar slog.LevelVar

// Init builds the process logger writing text to stdout at the given level.
func Init(level string) (*slog.Logger, error) {
	if err := setLevel(level); err != nil {
		return nil, err
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &levelVar})
	log := slog.New(handler)
	slog.SetDefault(log)
	return log, nil
}

// setLevel parses and applies a level name: debug, info, warn/warning, error.
func setLevel(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		levelVar.Set(slog.LevelDebug)
	case "", "info":
		levelVar.Set(slog.LevelInfo)
	case "warn", "warning":
		levelVar.Set(slog.LevelWarn)
	case "error":
		levelVar.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %s", level)
	}
	return nil
}
