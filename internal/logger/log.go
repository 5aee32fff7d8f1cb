// Package logger configures the process-wide slog logger. Output is JSON,
// written to stdout, a rotated file, or both, depending on config.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"wisefood/internal/config"

	"gopkg.in/lumberjack.v2"
)

// New builds a JSON logger from cfg, installs it as the slog default and
// returns it. Callers that want scoped attributes use the return value;
// everything else goes through the package helpers.
func New(cfg config.LogConfig) *slog.Logger {
	l := slog.New(slog.NewJSONHandler(sink(cfg), &slog.HandlerOptions{
		Level: Level(cfg.Level),
	}))
	slog.SetDefault(l)
	l.Info("logger ready", "level", cfg.Level, "file", cfg.File)
	return l
}

// sink picks the output target. With neither console nor file configured it
// falls back to stdout so log lines are never silently dropped.
func sink(cfg config.LogConfig) io.Writer {
	var rotated io.Writer
	if cfg.File != "" {
		rotated = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		}
	}
	switch {
	case cfg.Console && rotated != nil:
		return io.MultiWriter(os.Stdout, rotated)
	case rotated != nil:
		return rotated
	default:
		return os.Stdout
	}
}

// Level maps a config string to a slog level, defaulting to info.
func Level(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Info(msg string, args ...any)  { slog.Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Error(msg, args...) }
func Debug(msg string, args ...any) { slog.Debug(msg, args...) }
