package command

import (
	"fmt"
	"github.com/gostonefire/eepromshim/textio"
	"github.com/urfave/cli/v2"
)

// SaveCommand - Returns the command exporting a range to a text file
func SaveCommand() *cli.Command {
	return &cli.Command{
		Name:      "save",
		Usage:     "Export a range of the EEPROM to a text file",
		ArgsUsage: "FILE",
		Flags: append(rangeFlags(), &cli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "overwrite an existing file",
		}),
		Action: withSession(save),
	}
}

func save(c *cli.Context, s *session) (err error) {
	if c.NArg() != 1 {
		return fmt.Errorf("save needs a file name")
	}
	start, end, err := parseRange(c, s.shim)
	if err != nil {
		return
	}

	return textio.SaveFile(c.Args().First(), s.shim, start, end, c.Bool("force"))
}

// LoadCommand - Returns the command importing a text file
func LoadCommand() *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "Import a text file, updating only bytes that differ",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "start",
				Usage: "relocate the first record to this offset, keeping later records relative to it",
			},
		},
		Action: withSession(load),
	}
}

func load(c *cli.Context, s *session) (err error) {
	if c.NArg() != 1 {
		return fmt.Errorf("load needs a file name")
	}

	start := -1
	if c.IsSet("start") {
		if start, err = parseNumber(c.String("start"), "start"); err != nil {
			return
		}
	}

	total, err := textio.LoadFile(c.Args().First(), s.shim, start)
	if err != nil {
		return
	}
	_, err = fmt.Fprintf(c.App.Writer, "loaded %d bytes\n", total)

	return
}
