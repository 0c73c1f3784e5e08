package main

import (
	"flag"
	"fmt"
	"io"
	"slices"

	"github.com/inoxlang/recordkit/internal/codec"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

const (
	SLICE_SUBCMD                 = "slice"
	GET_SUBCMD                   = "get"
	SHOW_SUBCMD                  = "show"
	SAVE_SUBCMD                  = "save"
	LOAD_SUBCMD                  = "load"
	DELETE_SUBCMD                = "delete"
	LIST_SUBCMD                  = "list"
	INSTALL_COMPLETIONS_SUBCMD   = "install-completions"
	UNINSTALL_COMPLETIONS_SUBCMD = "uninstall-completions"
	HELP_SUBCMD                  = "help"

	TEXT_FORMAT = "text"
)

var (
	SUBCOMMANDS = []string{
		SLICE_SUBCMD, GET_SUBCMD, SHOW_SUBCMD,
		SAVE_SUBCMD, LOAD_SUBCMD, DELETE_SUBCMD, LIST_SUBCMD,
		INSTALL_COMPLETIONS_SUBCMD, UNINSTALL_COMPLETIONS_SUBCMD, HELP_SUBCMD,
	}

	HELP_SUBCMD_EQUIVALENTS = []string{"--help", "-help", "-h"}

	SUBCOMMAND_DESCRIPTIONS = [][2]string{
		{SLICE_SUBCMD, "print the values selected by an ordinal window: recordctl slice -head 2 -tail -1 a b c d"},
		{GET_SUBCMD, "print a single value selected by ordinal, offset or name: recordctl get -name x a x=b"},
		{SHOW_SUBCMD, "print a record built from the arguments (name=value arguments are named slots)"},
		{SAVE_SUBCMD, "save the record built from the arguments in the store and print the snapshot id"},
		{LOAD_SUBCMD, "print a saved record, the snapshot is designated by its id or label"},
		{DELETE_SUBCMD, "delete a saved record, the snapshot is designated by its id or label"},
		{LIST_SUBCMD, "list saved records"},
		{INSTALL_COMPLETIONS_SUBCMD, "install CLI completions by addding the completion command to the detected rc file (supported shells are bash, zsh and fish)"},
		{UNINSTALL_COMPLETIONS_SUBCMD, "uninstall CLI completions by removing the completion command from the detected rc file"},
		{HELP_SUBCMD, "show the general help or command-specific help"},
	}

	SUBCOMMAND_DESCRIPTION_MAP = map[string]string{}

	RECORDCTL_CMD_HELP = "commands:\n"

	OUTPUT_FORMATS = append([]string{TEXT_FORMAT}, codec.Names()...)

	completion = &complete.Command{
		Sub: map[string]*complete.Command{
			SLICE_SUBCMD: {
				Flags: map[string]complete.Predictor{
					"head":   predict.Nothing,
					"tail":   predict.Nothing,
					"stride": predict.Nothing,
					"set":    predict.Nothing,
				},
			},
			GET_SUBCMD: {
				Flags: map[string]complete.Predictor{
					"ordinal": predict.Nothing,
					"offset":  predict.Nothing,
					"name":    predict.Nothing,
				},
			},
			SHOW_SUBCMD: {
				Flags: map[string]complete.Predictor{
					"format": predict.Set(OUTPUT_FORMATS),
				},
			},
			SAVE_SUBCMD: {
				Flags: map[string]complete.Predictor{
					"label": predict.Nothing,
				},
			},
			LOAD_SUBCMD: {
				Flags: map[string]complete.Predictor{
					"format": predict.Set(OUTPUT_FORMATS),
				},
			},
			DELETE_SUBCMD:                {},
			LIST_SUBCMD:                  {},
			HELP_SUBCMD:                  {Args: predict.Set(SUBCOMMANDS)},
			INSTALL_COMPLETIONS_SUBCMD:   {},
			UNINSTALL_COMPLETIONS_SUBCMD: {},
		},
	}
)

func init() {
	for _, entry := range SUBCOMMAND_DESCRIPTIONS {
		cmd, desc := entry[0], entry[1]
		SUBCOMMAND_DESCRIPTION_MAP[cmd] = desc
		RECORDCTL_CMD_HELP += "\t" + cmd + " - " + desc + "\n"
	}
	RECORDCTL_CMD_HELP += "\nType `recordctl help <command>` to get command-specific help.\n"
}

func newFlagSet(subcmd string, errW io.Writer) *flag.FlagSet {
	flags := flag.NewFlagSet(subcmd, flag.ContinueOnError)
	flags.SetOutput(errW)
	return flags
}

func showHelp(flags *flag.FlagSet, args []string, out io.Writer) bool {
	//only show help
	if slices.Contains(args, "-h") || slices.Contains(args, "--help") {

		cmd := flags.Name()
		if desc, ok := SUBCOMMAND_DESCRIPTION_MAP[cmd]; ok {
			fmt.Fprintln(out, desc)
		}

		flags.SetOutput(out)
		fmt.Fprint(out, "\noptions:\n")
		flags.PrintDefaults()

		return true
	}

	return false
}

// isFlagSet reports whether the flag has been set on the command line.
func isFlagSet(flags *flag.FlagSet, name string) bool {
	set := false
	flags.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
