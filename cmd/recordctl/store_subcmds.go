package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/inoxlang/recordkit/internal/recordstore"
	"github.com/inoxlang/recordkit/internal/utils"
)

func (c *command) openStore() (*recordstore.Store, error) {
	return recordstore.Open(recordstore.StoreConfig{
		Path:     c.config.StorePath,
		Codec:    c.config.Codec,
		Compress: c.config.Compress,
		Logger:   c.logger,
		Levels:   c.config.LogLevels,
	})
}

func (c *command) save(args []string) int {
	flags := newFlagSet(SAVE_SUBCMD, c.errW)

	var label string
	flags.StringVar(&label, "label", "", "label designating the snapshot, an existing label is moved to the new snapshot")

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

	store, err := c.openStore()
	if err != nil {
		return c.fail(err)
	}
	defer store.Close()

	id, err := recordstore.Put(c.ctx, store, r, label)
	if err != nil {
		return c.fail(err)
	}

	if r.NameCount() > 0 {
		c.cmdLog.Warn().Int("names", r.NameCount()).Msg("names are not saved")
	}

	fmt.Fprintln(c.outW, id)
	return 0
}

func (c *command) load(args []string) int {
	flags := newFlagSet(LOAD_SUBCMD, c.errW)

	var format string
	flags.StringVar(&format, "format", TEXT_FORMAT, "output format: "+fmt.Sprint(OUTPUT_FORMATS))

	if showHelp(flags, args, c.outW) {
		return 0
	}
	if err := flags.Parse(args); err != nil {
		return ERROR_STATUS_CODE
	}

	if flags.NArg() == 0 {
		return c.fail(fmt.Errorf("%w: snapshot id or label", ErrMissingArgument))
	}

	store, err := c.openStore()
	if err != nil {
		return c.fail(err)
	}
	defer store.Close()

	id, err := store.Resolve(c.ctx, flags.Arg(0))
	if err != nil {
		return c.fail(err)
	}

	r, err := recordstore.Get[string](c.ctx, store, id)
	if err != nil {
		return c.fail(err)
	}

	if err := c.printFormatted(r, format); err != nil {
		return c.fail(err)
	}
	return 0
}

func (c *command) delete(args []string) int {
	flags := newFlagSet(DELETE_SUBCMD, c.errW)

	if showHelp(flags, args, c.outW) {
		return 0
	}
	if err := flags.Parse(args); err != nil {
		return ERROR_STATUS_CODE
	}

	if flags.NArg() == 0 {
		return c.fail(fmt.Errorf("%w: snapshot id or label", ErrMissingArgument))
	}

	store, err := c.openStore()
	if err != nil {
		return c.fail(err)
	}
	defer store.Close()

	id, err := store.Resolve(c.ctx, flags.Arg(0))
	if err != nil {
		return c.fail(err)
	}

	if err := store.Delete(c.ctx, id); err != nil {
		return c.fail(err)
	}

	fmt.Fprintln(c.outW, "deleted", id)
	return 0
}

func (c *command) list(args []string) int {
	flags := newFlagSet(LIST_SUBCMD, c.errW)

	if showHelp(flags, args, c.outW) {
		return 0
	}
	if err := flags.Parse(args); err != nil {
		return ERROR_STATUS_CODE
	}

	store, err := c.openStore()
	if err != nil {
		return c.fail(err)
	}
	defer store.Close()

	infos, err := store.List(c.ctx)
	if err != nil {
		return c.fail(err)
	}

	if len(infos) == 0 {
		fmt.Fprintln(c.outW, "no saved records")
		return 0
	}

	labelWidth := len("label")
	for _, info := range infos {
		labelWidth = max(labelWidth, len(info.Label))
	}

	const idWidth = 26
	const dateWidth = len(time.DateTime)

	fmt.Fprintf(c.outW, "%s  %s  %s  values  codec\n",
		utils.PadRight("id", idWidth), utils.PadRight("created", dateWidth), utils.PadRight("label", labelWidth))
	utils.PrintSmallLineSeparator(c.outW)

	for _, info := range infos {
		compressed := ""
		if info.Compressed {
			compressed = "+zstd"
		}

		fmt.Fprintf(c.outW, "%s  %s  %s  %s  %s%s\n",
			c.styled(info.ID.String(), "3"),
			info.CreatedAt().Local().Format(time.DateTime),
			c.styled(utils.PadRight(info.Label, labelWidth), "6"),
			utils.PadRight(strconv.FormatUint(info.ValueCount, 10), len("values")),
			info.Codec, compressed,
		)
	}
	return 0
}
