package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inoxlang/recordkit/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) {
	t.Setenv(config.STORE_PATH_ENV_VAR, filepath.Join(t.TempDir(), "records.db"))
	t.Setenv(config.LOG_LEVEL_ENV_VAR, "error")
	t.Setenv("NO_COLOR", "1")
}

func run(args ...string) (status int, out string, errOut string) {
	outW := bytes.NewBuffer(nil)
	errW := bytes.NewBuffer(nil)

	status = _main(append([]string{COMMAND_NAME}, args...), outW, errW)
	return status, outW.String(), errW.String()
}

func TestHelp(t *testing.T) {
	setupEnv(t)

	status, out, _ := run(HELP_SUBCMD)
	assert.Zero(t, status)
	assert.Equal(t, RECORDCTL_CMD_HELP, out)

	status, out, _ = run(HELP_SUBCMD, SLICE_SUBCMD)
	assert.Zero(t, status)
	assert.Contains(t, out, SUBCOMMAND_DESCRIPTION_MAP[SLICE_SUBCMD])
	assert.Contains(t, out, "-stride")

	status, _, errOut := run("unknown")
	assert.Equal(t, ERROR_STATUS_CODE, status)
	assert.Contains(t, errOut, "unknown command 'unknown'")

	status, _, _ = run()
	assert.Equal(t, ERROR_STATUS_CODE, status)
}

func TestSlice(t *testing.T) {
	setupEnv(t)

	digits := strings.Fields("0 1 2 3 4 5 6 7 8 9")

	t.Run("default window", func(t *testing.T) {
		status, out, _ := run(append([]string{SLICE_SUBCMD}, digits...)...)
		assert.Zero(t, status)
		assert.Equal(t, "[0, 1, 2, 3, 4, 5, 6, 7, 8, 9]\n", out)
	})

	t.Run("stride", func(t *testing.T) {
		status, out, _ := run(append([]string{SLICE_SUBCMD, "-head", "2", "-tail", "-2", "-stride", "3"}, digits...)...)
		assert.Zero(t, status)
		assert.Equal(t, "[1, 4, 7]\n", out)
	})

	t.Run("negative stride", func(t *testing.T) {
		status, out, _ := run(append([]string{SLICE_SUBCMD, "-head", "6", "-tail", "-2", "-stride", "-2"}, digits...)...)
		assert.Zero(t, status)
		assert.Equal(t, "[7, 5]\n", out)
	})

	t.Run("zero stride", func(t *testing.T) {
		status, _, errOut := run(SLICE_SUBCMD, "-stride", "0", "a")
		assert.Equal(t, ERROR_STATUS_CODE, status)
		assert.Contains(t, errOut, "stride")
	})

	t.Run("set", func(t *testing.T) {
		status, out, _ := run(SLICE_SUBCMD, "-head", "2", "-set", "_", "a", "b", "x=c")
		assert.Zero(t, status)
		assert.Equal(t, "[a, _, _]\nnames:\n  x 3\n", out)
	})
}

func TestGet(t *testing.T) {
	setupEnv(t)

	values := []string{"a", "x=b", "c"}

	testCases := []struct {
		flags    []string
		expected string
	}{
		{[]string{"-ordinal", "1"}, "a"},
		{[]string{"-ordinal", "-1"}, "c"},
		{[]string{"-offset", "1"}, "b"},
		{[]string{"-name", "x"}, "b"},
	}

	for _, testCase := range testCases {
		t.Run(strings.Join(testCase.flags, " "), func(t *testing.T) {
			status, out, _ := run(append(append([]string{GET_SUBCMD}, testCase.flags...), values...)...)
			assert.Zero(t, status)
			assert.Equal(t, testCase.expected+"\n", out)
		})
	}

	t.Run("not found", func(t *testing.T) {
		status, _, errOut := run(GET_SUBCMD, "-ordinal", "0", "a")
		assert.Equal(t, ERROR_STATUS_CODE, status)
		assert.Contains(t, errOut, ErrNotFound.Error())
	})

	t.Run("no selector", func(t *testing.T) {
		status, _, errOut := run(GET_SUBCMD, "a")
		assert.Equal(t, ERROR_STATUS_CODE, status)
		assert.Contains(t, errOut, ErrNoSelector.Error())
	})

	t.Run("several selectors", func(t *testing.T) {
		status, _, errOut := run(GET_SUBCMD, "-ordinal", "1", "-name", "x", "a")
		assert.Equal(t, ERROR_STATUS_CODE, status)
		assert.Contains(t, errOut, ErrManySelectors.Error())
	})
}

func TestShow(t *testing.T) {
	setupEnv(t)

	t.Run("text", func(t *testing.T) {
		status, out, _ := run(SHOW_SUBCMD, "a", "long=b", "x=c")
		assert.Zero(t, status)
		assert.Equal(t, "[a, b, c]\nnames:\n  long 2\n  x    3\n", out)
	})

	t.Run("json", func(t *testing.T) {
		status, out, _ := run(SHOW_SUBCMD, "-format", "go-json", "a", "x=b")
		assert.Zero(t, status)
		assert.Equal(t, "[\"a\",\"b\"]\n", out)
	})

	t.Run("duplicate name", func(t *testing.T) {
		status, _, errOut := run(SHOW_SUBCMD, "x=a", "x=b")
		assert.Equal(t, ERROR_STATUS_CODE, status)
		assert.Contains(t, errOut, "duplicate")
	})

	t.Run("unknown format", func(t *testing.T) {
		status, _, errOut := run(SHOW_SUBCMD, "-format", "xml", "a")
		assert.Equal(t, ERROR_STATUS_CODE, status)
		assert.Contains(t, errOut, ErrUnknownFormat.Error())
	})
}

func TestSaveLoad(t *testing.T) {
	setupEnv(t)

	status, out, _ := run(LIST_SUBCMD)
	require.Zero(t, status)
	assert.Equal(t, "no saved records\n", out)

	status, out, _ = run(SAVE_SUBCMD, "-label", "first", "a", "x=b")
	require.Zero(t, status)
	id := strings.TrimSpace(out)
	assert.Len(t, id, 26)

	//names are not persisted
	status, out, _ = run(LOAD_SUBCMD, "first")
	require.Zero(t, status)
	assert.Equal(t, "[a, b]\n", out)

	status, out, _ = run(LOAD_SUBCMD, id)
	require.Zero(t, status)
	assert.Equal(t, "[a, b]\n", out)

	status, out, _ = run(LIST_SUBCMD)
	require.Zero(t, status)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "first")

	status, _, _ = run(DELETE_SUBCMD, "first")
	require.Zero(t, status)

	status, _, errOut := run(LOAD_SUBCMD, id)
	assert.Equal(t, ERROR_STATUS_CODE, status)
	assert.Contains(t, errOut, "snapshot not found")

	status, _, errOut = run(LOAD_SUBCMD)
	assert.Equal(t, ERROR_STATUS_CODE, status)
	assert.Contains(t, errOut, ErrMissingArgument.Error())
}

func TestBuildRecord(t *testing.T) {
	r, err := buildRecord([]string{"a", "x=b", "=c"})
	require.Error(t, err)
	assert.Nil(t, r)

	r, err = buildRecord([]string{"a", "x=b", "y="})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", ""}, r.Values())

	value, ok := r.GetNamed("y")
	assert.True(t, ok)
	assert.Empty(t, value)
}
