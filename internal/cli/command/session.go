package command

import (
	"errors"
	"fmt"
	"github.com/gostonefire/eepromshim"
	"github.com/gostonefire/eepromshim/flashsim"
	"github.com/gostonefire/eepromshim/internal/settings"
	"github.com/urfave/cli/v2"
	"io/fs"
	"strconv"
)

// session - An open flash image and the shim over it
type session struct {
	settings settings.Settings
	flash    *flashsim.FileFlash
	shim     *eepromshim.Shim
}

// openSession - Opens the flash image named in the settings and builds an emulated shim over it
func openSession(c *cli.Context) (s *session, err error) {
	st := getSettings(c)

	flash, err := flashsim.OpenFileFlash(st.Image.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("flash image %s not found, create it with the init command", st.Image.Path)
		}
		return
	}

	if uint64(st.Flash.Base)+uint64(st.EEPROM.Size) > uint64(flash.Size()) {
		flash.Close()
		err = fmt.Errorf("eeprom region 0x%X + %d does not fit in image of %d bytes", st.Flash.Base, st.EEPROM.Size, flash.Size())
		return
	}

	opts := []eepromshim.Option{
		eepromshim.WithBaseAddress(st.Flash.Base),
		eepromshim.WithSize(st.EEPROM.Size),
		eepromshim.WithSectorSize(flash.SectorSize()),
		eepromshim.WithLogger(st.Logger("eepromctl", c.App.ErrWriter)),
	}
	if st.Metrics.Enabled {
		opts = append(opts, eepromshim.WithRegisterer(getRegistry(c)))
	}

	shim, err := eepromshim.NewEmulated(flash, opts...)
	if err != nil {
		flash.Close()
		return
	}
	if !shim.Begin(eepromshim.FlagNone) {
		flash.Close()
		err = fmt.Errorf("flash image %s could not be initialized", st.Image.Path)
		return
	}

	s = &session{settings: st, flash: flash, shim: shim}

	return
}

// close - Closes the flash image
func (S *session) close() {
	S.flash.Close()
}

// withSession - Wraps a command action needing an open session
func withSession(action func(c *cli.Context, s *session) error) cli.ActionFunc {
	return func(c *cli.Context) (err error) {
		s, err := openSession(c)
		if err != nil {
			return
		}
		defer s.close()

		return action(c, s)
	}
}

// parseNumber - Parses a decimal, 0x hex, 0o octal or 0b binary argument
func parseNumber(arg, name string) (n int, err error) {
	v, err := strconv.ParseInt(arg, 0, 64)
	if err != nil {
		err = fmt.Errorf("invalid %s %q", name, arg)
		return
	}
	n = int(v)

	return
}

// parseByte - Parses a byte value argument
func parseByte(arg string) (value byte, err error) {
	n, err := parseNumber(arg, "value")
	if err != nil {
		return
	}
	if n < 0 || n > 0xFF {
		err = fmt.Errorf("value %q does not fit in a byte", arg)
		return
	}
	value = byte(n)

	return
}

// argInt - Parses the positional argument at i, or returns def if it is missing
func argInt(c *cli.Context, i int, name string, def int) (n int, err error) {
	if c.NArg() <= i {
		n = def
		return
	}

	return parseNumber(c.Args().Get(i), name)
}

// rangeFlags - Returns the --start and --end flags
func rangeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "start",
			Usage: "first EEPROM offset",
			Value: "0",
		},
		&cli.StringFlag{
			Name:  "end",
			Usage: "last EEPROM offset, default is the last byte",
		},
	}
}

// parseRange - Returns the --start and --end offsets, end defaulting to the last byte of the shim
func parseRange(c *cli.Context, shim *eepromshim.Shim) (start, end int, err error) {
	if start, err = parseNumber(c.String("start"), "start"); err != nil {
		return
	}

	end = shim.Length() - 1
	if c.IsSet("end") {
		end, err = parseNumber(c.String("end"), "end")
	}

	return
}
