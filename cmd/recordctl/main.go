package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode"

	"github.com/inoxlang/recordkit/internal/config"
	"github.com/inoxlang/recordkit/internal/record"
	"github.com/inoxlang/recordkit/internal/slog"
	"github.com/inoxlang/recordkit/internal/utils"
	"github.com/muesli/termenv"
	"github.com/posener/complete/v2/install"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const (
	ERROR_STATUS_CODE = 1

	COMMAND_NAME = "recordctl"
	SRC_NAME     = "/recordctl"
)

func main() {
	//handle completions
	completion.Complete(COMMAND_NAME)

	statusCode := _main(os.Args, os.Stdout, os.Stderr)
	if statusCode != 0 {
		os.Exit(statusCode)
	}
}

// command holds what the subcommands need.
type command struct {
	ctx     context.Context
	config  config.Config
	logger  zerolog.Logger //root logger, passed to the store
	cmdLog  zerolog.Logger
	outW    io.Writer
	errW    io.Writer
	profile termenv.Profile
}

func _main(args []string, outW io.Writer, errW io.Writer) (statusCode int) {
	defer func() {
		if e := recover(); e != nil {
			err := utils.ConvertPanicValueToError(e)
			fmt.Fprintln(errW, "internal error:", err)
			statusCode = ERROR_STATUS_CODE
		}
	}()

	if len(args) < 2 {
		fmt.Fprint(errW, RECORDCTL_CMD_HELP)
		return ERROR_STATUS_CODE
	}

	mainSubCommand := args[1]
	mainSubCommandArgs := args[2:]

	//if the command has the shape help <subcommand> ... we modify the arguments to ask the subcommand to print its help message.
	if mainSubCommand == HELP_SUBCMD && len(mainSubCommandArgs) > 0 && mainSubCommandArgs[0] != "" && unicode.IsLetter(rune(mainSubCommandArgs[0][0])) {
		mainSubCommand = mainSubCommandArgs[0]
		mainSubCommandArgs = []string{"-h"}
	}

	if mainSubCommand == HELP_SUBCMD || slices.Contains(HELP_SUBCMD_EQUIVALENTS, mainSubCommand) {
		fmt.Fprint(outW, RECORDCTL_CMD_HELP)
		return 0
	}

	//unknown command
	if !slices.Contains(SUBCOMMANDS, mainSubCommand) {
		fmt.Fprintf(errW, "unknown command '%s'\n%s", mainSubCommand, RECORDCTL_CMD_HELP)
		return ERROR_STATUS_CODE
	}

	switch mainSubCommand {
	case INSTALL_COMPLETIONS_SUBCMD:
		err := install.Install(COMMAND_NAME)
		if err != nil {
			fmt.Fprintln(errW, err)
			return ERROR_STATUS_CODE
		}
		fmt.Fprintln(outW, "installed")
		return
	case UNINSTALL_COMPLETIONS_SUBCMD:
		err := install.Uninstall(COMMAND_NAME)
		if err != nil {
			fmt.Fprintln(errW, err)
			return ERROR_STATUS_CODE
		}
		fmt.Fprintln(outW, "uninstalled")
		return
	}

	conf, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintln(errW, err)
		return ERROR_STATUS_CODE
	}

	logger := slog.NewLogger(errW, conf.ConsoleLogs, conf.Colorize)

	cmd := &command{
		ctx:     context.Background(),
		config:  conf,
		logger:  logger,
		cmdLog:  slog.ChildLoggerForSource(logger, SRC_NAME, conf.LogLevels),
		outW:    outW,
		errW:    errW,
		profile: conf.ColorProfile,
	}

	if !conf.Colorize || (!conf.ForceColor && !isTerminal(outW)) {
		cmd.profile = termenv.Ascii
	}

	cmd.cmdLog.Debug().Str("subcmd", mainSubCommand).Strs("args", mainSubCommandArgs).Send()

	switch mainSubCommand {
	case SLICE_SUBCMD:
		return cmd.slice(mainSubCommandArgs)
	case GET_SUBCMD:
		return cmd.get(mainSubCommandArgs)
	case SHOW_SUBCMD:
		return cmd.show(mainSubCommandArgs)
	case SAVE_SUBCMD:
		return cmd.save(mainSubCommandArgs)
	case LOAD_SUBCMD:
		return cmd.load(mainSubCommandArgs)
	case DELETE_SUBCMD:
		return cmd.delete(mainSubCommandArgs)
	case LIST_SUBCMD:
		return cmd.list(mainSubCommandArgs)
	default:
		panic(fmt.Errorf("subcommand %s is not handled", mainSubCommand))
	}
}

// buildRecord creates a record from command line arguments: name=value arguments are named slots,
// any other argument is an unnamed slot.
func buildRecord(args []string) (*record.Record[string], error) {
	r := record.New[string]()

	for _, arg := range args {
		name, value, isNamed := strings.Cut(arg, "=")
		if !isNamed {
			r.AppendOne(arg)
			continue
		}
		if err := r.AppendNamed(name, value); err != nil {
			return nil, fmt.Errorf("argument %q: %w", arg, err)
		}
	}

	return r, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (c *command) fail(err error) int {
	c.cmdLog.Debug().Err(err).Msg("command failed")
	fmt.Fprintln(c.errW, c.profile.String("error:").Foreground(c.profile.Color("1")).Bold(), err)
	return ERROR_STATUS_CODE
}

func (c *command) styled(s string, color string) termenv.Style {
	return c.profile.String(s).Foreground(c.profile.Color(color))
}
