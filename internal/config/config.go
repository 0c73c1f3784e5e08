package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/inoxlang/recordkit/internal/codec"
	"github.com/inoxlang/recordkit/internal/slog"
	"github.com/muesli/termenv"
)

const (
	APP_NAME               = "recordkit"
	DEFAULT_STORE_FILENAME = "records.db"
	DEFAULT_STORE_RELPATH  = APP_NAME + "/" + DEFAULT_STORE_FILENAME

	STORE_PATH_ENV_VAR = "RECORDKIT_STORE_PATH"
	LOG_LEVEL_ENV_VAR  = "RECORDKIT_LOG_LEVEL"
	LOG_FORMAT_ENV_VAR = "RECORDKIT_LOG_FORMAT"
	CODEC_ENV_VAR      = "RECORDKIT_CODEC"
	COMPRESS_ENV_VAR   = "RECORDKIT_COMPRESS"

	CONSOLE_LOG_FORMAT = "console"
	JSON_LOG_FORMAT    = "json"
)

var (
	ErrUnknownCodec     = errors.New("unknown codec")
	ErrUnknownLogFormat = errors.New("unknown log format")
)

type Config struct {
	StorePath   string
	LogLevels   *slog.Levels
	ConsoleLogs bool
	Codec       codec.Codec
	Compress    bool

	Colorize     bool
	ForceColor   bool //colors are used even if the output is not a terminal
	ColorProfile termenv.Profile
}

// LoadFromEnv loads the configuration from the environment of the process.
func LoadFromEnv() (Config, error) {
	return Load(os.LookupEnv)
}

// Load builds the configuration from environment variables, lookup has the signature of os.LookupEnv.
// The default store path is located in the XDG data directory.
func Load(lookup func(key string) (string, bool)) (Config, error) {
	config := Config{
		LogLevels:   slog.DEFAULT_LEVELS,
		ConsoleLogs: true,
		Codec:       codec.Default,
		Compress:    true,
	}

	// STORE PATH

	if path, ok := lookup(STORE_PATH_ENV_VAR); ok && path != "" {
		config.StorePath = path
	} else {
		//the directory is created when the store is opened.
		config.StorePath = filepath.Join(xdg.DataHome, filepath.FromSlash(DEFAULT_STORE_RELPATH))
	}

	// LOGS

	if s, ok := lookup(LOG_LEVEL_ENV_VAR); ok {
		levels, err := slog.ParseLevels(s)
		if err != nil {
			return Config{}, err
		}
		config.LogLevels = levels
	}

	if s, ok := lookup(LOG_FORMAT_ENV_VAR); ok && s != "" {
		switch strings.ToLower(s) {
		case CONSOLE_LOG_FORMAT:
			config.ConsoleLogs = true
		case JSON_LOG_FORMAT:
			config.ConsoleLogs = false
		default:
			return Config{}, fmt.Errorf("%w: %q", ErrUnknownLogFormat, s)
		}
	}

	// CODEC & COMPRESSION

	if name, ok := lookup(CODEC_ENV_VAR); ok && name != "" {
		c, ok := codec.ByName(name)
		if !ok {
			return Config{}, fmt.Errorf("%w: %q, supported codecs are %s", ErrUnknownCodec, name, strings.Join(codec.Names(), ", "))
		}
		config.Codec = c
	}

	if s, ok := lookup(COMPRESS_ENV_VAR); ok {
		config.Compress = isTruthy(s)
	}

	// COLORS

	config.Colorize, config.ColorProfile = detectColors(lookup)
	if s, ok := lookup("FORCE_COLOR"); ok && config.Colorize {
		config.ForceColor = isTruthy(s)
	}

	return config, nil
}

func detectColors(lookup func(key string) (string, bool)) (bool, termenv.Profile) {
	forceColor := false
	if s, ok := lookup("FORCE_COLOR"); ok {
		forceColor = isTruthy(s)
	}

	noColor := false
	if s, ok := lookup("NO_COLOR"); ok {
		noColor = isTruthy(s)
	}

	colorterm, _ := lookup("COLORTERM")
	term, _ := lookup("TERM")

	trueColor := colorterm == "truecolor"
	term256 := strings.Contains(term, "256color")

	if noColor || !(forceColor || trueColor || term256) {
		return false, termenv.Ascii
	}

	switch {
	case trueColor:
		return true, termenv.TrueColor
	case term256:
		return true, termenv.ANSI256
	default:
		return true, termenv.ANSI
	}
}

func isTruthy(s string) bool {
	return len(s) != 0 && s != "false" && s != "0"
}
