package command

import (
	"fmt"
	"github.com/gostonefire/eepromshim/diag"
	"github.com/urfave/cli/v2"
)

// ReadCommand - Returns the command printing bytes
func ReadCommand() *cli.Command {
	return &cli.Command{
		Name:      "read",
		Usage:     "Print bytes starting at an offset",
		ArgsUsage: "OFFSET [COUNT]",
		Action:    withSession(read),
	}
}

func read(c *cli.Context, s *session) (err error) {
	if c.NArg() < 1 {
		return fmt.Errorf("read needs an offset")
	}
	offset, err := argInt(c, 0, "offset", 0)
	if err != nil {
		return
	}
	count, err := argInt(c, 1, "count", 1)
	if err != nil {
		return
	}

	for i := offset; i < offset+count; i++ {
		if err = diag.PrintAddress(c.App.Writer, s.shim, i); err != nil {
			return
		}
	}

	return
}

// WriteCommand - Returns the command writing a byte unconditionally
func WriteCommand() *cli.Command {
	return &cli.Command{
		Name:      "write",
		Usage:     "Write a byte, even if unchanged",
		ArgsUsage: "OFFSET VALUE",
		Action:    withSession(write),
	}
}

func write(c *cli.Context, s *session) (err error) {
	offset, value, err := offsetValue(c)
	if err != nil {
		return
	}

	return s.shim.TryWrite(offset, value)
}

// UpdateCommand - Returns the command writing a byte only if it differs
func UpdateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Write a byte only if the stored value differs",
		ArgsUsage: "OFFSET VALUE",
		Action:    withSession(update),
	}
}

func update(c *cli.Context, s *session) (err error) {
	offset, value, err := offsetValue(c)
	if err != nil {
		return
	}

	return s.shim.TryUpdate(offset, value)
}

// offsetValue - Parses the OFFSET VALUE arguments
func offsetValue(c *cli.Context) (offset int, value byte, err error) {
	if c.NArg() != 2 {
		err = fmt.Errorf("%s needs an offset and a value", c.Command.Name)
		return
	}
	if offset, err = parseNumber(c.Args().Get(0), "offset"); err != nil {
		return
	}
	value, err = parseByte(c.Args().Get(1))

	return
}

// FillCommand - Returns the command setting a range of bytes to one value
func FillCommand() *cli.Command {
	return &cli.Command{
		Name:      "fill",
		Usage:     "Set every byte in a range to a value",
		ArgsUsage: "VALUE",
		Flags:     rangeFlags(),
		Action:    withSession(fill),
	}
}

func fill(c *cli.Context, s *session) (err error) {
	if c.NArg() != 1 {
		return fmt.Errorf("fill needs a value")
	}
	value, err := parseByte(c.Args().First())
	if err != nil {
		return
	}
	start, end, err := parseRange(c, s.shim)
	if err != nil {
		return
	}

	return diag.Fill(s.shim, value, start, end)
}

// ListCommand - Returns the command listing bytes holding data
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "List every byte in a range that is not 0xFF",
		Flags:  rangeFlags(),
		Action: withSession(list),
	}
}

func list(c *cli.Context, s *session) (err error) {
	start, end, err := parseRange(c, s.shim)
	if err != nil {
		return
	}

	return diag.List(c.App.Writer, s.shim, start, end)
}

// DumpCommand - Returns the command printing a map of the contents
func DumpCommand() *cli.Command {
	return &cli.Command{
		Name:  "dump",
		Usage: "Print a map of which parts of the EEPROM hold data",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "samples",
				Usage: "maximum number of map characters",
				Value: 256,
			},
		},
		Action: withSession(dump),
	}
}

func dump(c *cli.Context, s *session) error {
	return diag.DumpSample(c.App.Writer, s.shim, c.Int("samples"))
}
