package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/inoxlang/recordkit/internal/codec"
	"github.com/inoxlang/recordkit/internal/record"
	"github.com/inoxlang/recordkit/internal/utils"
)

var (
	ErrNoSelector      = errors.New("one of -ordinal, -offset and -name is required")
	ErrManySelectors   = errors.New("only one of -ordinal, -offset and -name should be set")
	ErrNotFound        = errors.New("no value found")
	ErrUnknownFormat   = errors.New("unknown output format")
	ErrMissingArgument = errors.New("missing argument")
)

func (c *command) slice(args []string) int {
	flags := newFlagSet(SLICE_SUBCMD, c.errW)

	var head, tail, stride int
	var newValue string

	flags.IntVar(&head, "head", 1, "ordinal of the first slot of the window")
	flags.IntVar(&tail, "tail", -1, "ordinal of the last slot of the window")
	flags.IntVar(&stride, "stride", 1, "step between selected slots, a negative stride reverses the selection")
	flags.StringVar(&newValue, "set", "", "set the selected slots to this value and print the whole record")

	if showHelp(flags, args, c.outW) {
		return 0
	}
	if err := flags.Parse(args); err != nil {
		return ERROR_STATUS_CODE
	}

	r, err := buildRecord(flags.Args())
	if err != nil {
		return c.fail(err)
	}

	if isFlagSet(flags, "set") {
		editView, err := r.SliceMut(head, tail, stride)
		if err != nil {
			return c.fail(err)
		}
		editView.Apply(func(string) string { return newValue })

		c.printRecord(r)
		return 0
	}

	view, err := r.Slice(head, tail, stride)
	if err != nil {
		return c.fail(err)
	}

	fmt.Fprintln(c.outW, record.From(view.Collect()...))
	return 0
}

func (c *command) get(args []string) int {
	flags := newFlagSet(GET_SUBCMD, c.errW)

	var ord, offset int
	var name string

	flags.IntVar(&ord, "ordinal", 0, "1-based position, negative ordinals count from the end (-1 is the last slot)")
	flags.IntVar(&offset, "offset", 0, "0-based position")
	flags.StringVar(&name, "name", "", "name of the slot")

	if showHelp(flags, args, c.outW) {
		return 0
	}
	if err := flags.Parse(args); err != nil {
		return ERROR_STATUS_CODE
	}

	selectors := 0
	for _, flagName := range []string{"ordinal", "offset", "name"} {
		if isFlagSet(flags, flagName) {
			selectors++
		}
	}

	switch selectors {
	case 0:
		return c.fail(ErrNoSelector)
	case 1:
	default:
		return c.fail(ErrManySelectors)
	}

	r, err := buildRecord(flags.Args())
	if err != nil {
		return c.fail(err)
	}

	var (
		value string
		found bool
		desc  string
	)

	switch {
	case isFlagSet(flags, "ordinal"):
		value, found = r.GetOrdinal(ord)
		desc = "ordinal " + strconv.Itoa(ord)
	case isFlagSet(flags, "offset"):
		value, found = r.GetOffset(offset)
		desc = "offset " + strconv.Itoa(offset)
	default:
		value, found = r.GetNamed(name)
		desc = "name " + strconv.Quote(name)
	}

	if !found {
		return c.fail(fmt.Errorf("%w at %s", ErrNotFound, desc))
	}

	fmt.Fprintln(c.outW, value)
	return 0
}

func (c *command) show(args []string) int {
	flags := newFlagSet(SHOW_SUBCMD, c.errW)

	var format string
	flags.StringVar(&format, "format", TEXT_FORMAT, "output format: "+fmt.Sprint(OUTPUT_FORMATS))

	if showHelp(flags, args, c.outW) {
		return 0
	}
	if err := flags.Parse(args); err != nil {
		return ERROR_STATUS_CODE
	}

	r, err := buildRecord(flags.Args())
	if err != nil {
		return c.fail(err)
	}

	if err := c.printFormatted(r, format); err != nil {
		return c.fail(err)
	}
	return 0
}

func (c *command) printFormatted(r *record.Record[string], format string) error {
	if format == TEXT_FORMAT {
		c.printRecord(r)
		return nil
	}

	valueCodec, ok := codec.ByName(format)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	encoded, err := valueCodec.Marshal(r)
	if err != nil {
		return err
	}

	switch valueCodec.(type) {
	case codec.CBOR, codec.Gob:
		fmt.Fprintln(c.outW, hex.EncodeToString(encoded))
	default:
		fmt.Fprintln(c.outW, string(encoded))
	}
	return nil
}

// printRecord prints the values of the record followed by its names and their ordinals.
func (c *command) printRecord(r *record.Record[string]) {
	fmt.Fprintln(c.outW, r)

	if r.NameCount() == 0 {
		return
	}

	width := 0
	for name := range r.Names() {
		width = max(width, len(name))
	}

	fmt.Fprintln(c.outW, "names:")
	for name, offset := range r.Names() {
		fmt.Fprintf(c.outW, "  %s %s\n", c.styled(utils.PadRight(name, width), "6"), strconv.Itoa(offset+1))
	}
}
