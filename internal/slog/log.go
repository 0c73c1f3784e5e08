package slog

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	SOURCE_FIELD_NAME        = "src"
	QUOTED_SOURCE_FIELD_NAME = `"src"`

	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	TraceLevel = zerolog.TraceLevel
)

var (
	DEFAULT_LEVELS = NewLevels(zerolog.InfoLevel, nil)

	ErrInvalidLevels = errors.New("invalid log levels")
)

func init() {
	//configure zerolog fields

	zerolog.DurationFieldInteger = false
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.MessageFieldName = "msg"
	zerolog.LevelFieldName = "lvl"
	zerolog.TimestampFieldName = "tm"
}

// ChildLoggerForSource returns a copy of logger with the src field set, its level is determined by levels.
func ChildLoggerForSource(logger zerolog.Logger, src string, levels *Levels) zerolog.Logger {
	if levels == nil {
		levels = DEFAULT_LEVELS
	}
	return logger.With().Str(SOURCE_FIELD_NAME, src).Logger().Level(levels.LevelFor(src))
}

// NewLogger creates a JSON logger writing to w, or a human-readable one if console is true.
func NewLogger(w io.Writer, console bool, color bool) zerolog.Logger {
	if console {
		w = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    !color,
			TimeFormat: time.TimeOnly,
		}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// Levels maps log sources to their minimum level.
type Levels struct {
	lock         sync.Mutex
	defaultLevel zerolog.Level
	bySource     map[string]zerolog.Level
}

func NewLevels(defaultLevel zerolog.Level, bySource map[string]zerolog.Level) *Levels {
	if bySource == nil {
		bySource = map[string]zerolog.Level{}
	} else {
		bySource = maps.Clone(bySource)
	}

	return &Levels{
		defaultLevel: defaultLevel,
		bySource:     bySource,
	}
}

// ParseLevels parses a comma-separated list of levels: a bare level sets the default level,
// <source>=<level> sets the level of a source. Example: "warn,/recordstore=debug".
func ParseLevels(s string) (*Levels, error) {
	levels := NewLevels(zerolog.InfoLevel, nil)

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		src, levelName, hasSource := strings.Cut(part, "=")
		if !hasSource {
			levelName = src
		}

		level, err := zerolog.ParseLevel(strings.TrimSpace(levelName))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidLevels, part, err)
		}

		if hasSource {
			levels.bySource[strings.TrimSpace(src)] = level
		} else {
			levels.defaultLevel = level
		}
	}

	return levels, nil
}

func (l *Levels) LevelFor(src string) zerolog.Level {
	l.lock.Lock()
	defer l.lock.Unlock()

	level, ok := l.bySource[src]
	if ok {
		return level
	}
	return l.defaultLevel
}

func (l *Levels) DefaultLevel() zerolog.Level {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.defaultLevel
}
