package config

import (
	"log/slog"
	"strings"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// NormalizeLogLevel maps user input to a LogLevel, defaulting to info.
func NormalizeLogLevel(raw string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// SlogLevel converts to the slog level.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// NormalizeLogFormat maps user input to a LogFormat, defaulting to text.
func NormalizeLogFormat(raw string) LogFormat {
	if strings.ToLower(strings.TrimSpace(raw)) == "json" {
		return LogFormatJSON
	}
	return LogFormatText
}

// LabelSource selects how navigation leaf labels are derived.
type LabelSource string

const (
	// LabelSourceFilename title-cases the file name.
	LabelSourceFilename LabelSource = "filename"
	// LabelSourceHeading uses the page title (frontmatter title or first level-1
	// heading), falling back to the file name.
	LabelSourceHeading LabelSource = "heading"
)

// NormalizeLabelSource returns "" for unknown values so validation can reject them.
func NormalizeLabelSource(raw string) LabelSource {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "filename", "file", "":
		return LabelSourceFilename
	case "heading", "title":
		return LabelSourceHeading
	default:
		return ""
	}
}
