package slog

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevels(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		levels, err := ParseLevels("")
		assert.NoError(t, err)
		assert.Equal(t, InfoLevel, levels.DefaultLevel())
	})

	t.Run("default level only", func(t *testing.T) {
		levels, err := ParseLevels("warn")
		assert.NoError(t, err)
		assert.Equal(t, WarnLevel, levels.DefaultLevel())
		assert.Equal(t, WarnLevel, levels.LevelFor("/recordstore"))
	})

	t.Run("source levels", func(t *testing.T) {
		levels, err := ParseLevels("error, /recordstore=debug")
		assert.NoError(t, err)
		assert.Equal(t, ErrorLevel, levels.LevelFor("/recordctl"))
		assert.Equal(t, DebugLevel, levels.LevelFor("/recordstore"))
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := ParseLevels("/recordstore=loud")
		assert.ErrorIs(t, err, ErrInvalidLevels)
	})
}

func TestChildLoggerForSource(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	logger := zerolog.New(buf)

	levels := NewLevels(InfoLevel, map[string]zerolog.Level{"/b": ErrorLevel})

	childA := ChildLoggerForSource(logger, "/a", levels)
	childA.Info().Msg("hello")
	assert.Contains(t, buf.String(), `{"lvl":"info","src":"/a","msg":"hello"}`)

	buf.Reset()
	childB := ChildLoggerForSource(logger, "/b", levels)
	childB.Info().Msg("hello")
	assert.Empty(t, buf.String())

	childB.Error().Msg("failure")
	assert.Contains(t, buf.String(), `"src":"/b"`)
}
