package config

import (
	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// LoggerIface is the minimal logging surface the services depend on.
// Kept as an interface so a test can swap in a silent implementation.
type LoggerIface interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Logger is the global logger instance. It works at info level even when
// InitLogger was never called.
var Logger LoggerIface = NewLogger("info")

// InitLogger replaces the global logger with one at the given level.
// Empty or unknown levels fall back to info.
func InitLogger(level string) {
	if level == "" {
		level = "info"
	}
	Logger = NewLogger(level)
}

// NewLogger builds a gookit/slog JSON console logger for the given level.
func NewLogger(level string) LoggerIface {
	logLevel := slog.LevelByName(level)

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= logLevel {
			levels = append(levels, lv)
		}
	}

	h := handler.NewConsoleHandler(levels)
	formatter := slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{
			slog.FieldKeyDatetime,
			slog.FieldKeyLevel,
			slog.FieldKeyMessage,
		}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "datetime",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "message",
		}
		f.TimeFormat = "2006-01-02T15:04:05"
	})
	h.SetFormatter(formatter)

	return slog.NewWithHandlers(h)
}
