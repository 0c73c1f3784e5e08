package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/inoxlang/recordkit/internal/codec"
	"github.com/inoxlang/recordkit/internal/slog"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestDefaultStorePath(t *testing.T) {
	dataHome := filepath.Join(t.TempDir(), "data")

	t.Cleanup(xdg.Reload) //runs after the environment is restored
	t.Setenv("XDG_DATA_HOME", dataHome)
	xdg.Reload()

	config, err := Load(env(nil))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dataHome, APP_NAME, DEFAULT_STORE_FILENAME), config.StorePath)

	//loading the configuration does not create any directory
	_, err = os.Stat(dataHome)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	storePath := filepath.Join(t.TempDir(), "records.db")

	t.Run("defaults", func(t *testing.T) {
		config, err := Load(env(map[string]string{STORE_PATH_ENV_VAR: storePath}))
		require.NoError(t, err)

		assert.Equal(t, storePath, config.StorePath)
		assert.Equal(t, codec.GO_JSON_NAME, config.Codec.Name())
		assert.True(t, config.Compress)
		assert.True(t, config.ConsoleLogs)
		assert.Equal(t, slog.InfoLevel, config.LogLevels.DefaultLevel())
		assert.False(t, config.Colorize)
		assert.False(t, config.ForceColor)
	})

	t.Run("forced colors", func(t *testing.T) {
		config, err := Load(env(map[string]string{STORE_PATH_ENV_VAR: storePath, "FORCE_COLOR": "1"}))
		require.NoError(t, err)

		assert.True(t, config.Colorize)
		assert.True(t, config.ForceColor)
	})

	t.Run("all variables", func(t *testing.T) {
		config, err := Load(env(map[string]string{
			STORE_PATH_ENV_VAR: storePath,
			LOG_LEVEL_ENV_VAR:  "warn,/recordstore=debug",
			LOG_FORMAT_ENV_VAR: "json",
			CODEC_ENV_VAR:      "cbor",
			COMPRESS_ENV_VAR:   "0",
		}))
		require.NoError(t, err)

		assert.Equal(t, codec.CBOR_NAME, config.Codec.Name())
		assert.False(t, config.Compress)
		assert.False(t, config.ConsoleLogs)
		assert.Equal(t, slog.WarnLevel, config.LogLevels.DefaultLevel())
		assert.Equal(t, slog.DebugLevel, config.LogLevels.LevelFor("/recordstore"))
	})

	t.Run("unknown codec", func(t *testing.T) {
		_, err := Load(env(map[string]string{STORE_PATH_ENV_VAR: storePath, CODEC_ENV_VAR: "xml"}))
		assert.ErrorIs(t, err, ErrUnknownCodec)
	})

	t.Run("unknown log format", func(t *testing.T) {
		_, err := Load(env(map[string]string{STORE_PATH_ENV_VAR: storePath, LOG_FORMAT_ENV_VAR: "xml"}))
		assert.ErrorIs(t, err, ErrUnknownLogFormat)
	})

	t.Run("invalid log level", func(t *testing.T) {
		_, err := Load(env(map[string]string{STORE_PATH_ENV_VAR: storePath, LOG_LEVEL_ENV_VAR: "loud"}))
		assert.ErrorIs(t, err, slog.ErrInvalidLevels)
	})
}

func TestDetectColors(t *testing.T) {
	t.Parallel()

	t.Run("no hint", func(t *testing.T) {
		colorize, profile := detectColors(env(nil))
		assert.False(t, colorize)
		assert.Equal(t, termenv.Ascii, profile)
	})

	t.Run("truecolor", func(t *testing.T) {
		colorize, profile := detectColors(env(map[string]string{"COLORTERM": "truecolor"}))
		assert.True(t, colorize)
		assert.Equal(t, termenv.TrueColor, profile)
	})

	t.Run("256 colors", func(t *testing.T) {
		colorize, profile := detectColors(env(map[string]string{"TERM": "xterm-256color"}))
		assert.True(t, colorize)
		assert.Equal(t, termenv.ANSI256, profile)
	})

	t.Run("FORCE_COLOR", func(t *testing.T) {
		colorize, profile := detectColors(env(map[string]string{"FORCE_COLOR": "1"}))
		assert.True(t, colorize)
		assert.Equal(t, termenv.ANSI, profile)
	})

	t.Run("NO_COLOR wins", func(t *testing.T) {
		colorize, _ := detectColors(env(map[string]string{"NO_COLOR": "1", "FORCE_COLOR": "1"}))
		assert.False(t, colorize)
	})
}
