package command

import (
	"errors"
	"fmt"
	"github.com/gostonefire/eepromshim"
	"github.com/gostonefire/eepromshim/flashsim"
	"github.com/urfave/cli/v2"
	"io/fs"
	"os"
)

// InitCommand - Returns the command creating an erased flash image
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create an erased flash image",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "overwrite an existing image",
			},
		},
		Action: initImage,
	}
}

func initImage(c *cli.Context) (err error) {
	st := getSettings(c)

	if _, statErr := os.Stat(st.Image.Path); !errors.Is(statErr, fs.ErrNotExist) && !c.Bool("force") {
		return fmt.Errorf("flash image %s already exists, use --force to overwrite", st.Image.Path)
	}

	flash, err := flashsim.CreateFileFlash(st.Image.Path, st.Flash.Size, st.Flash.Sector)
	if err != nil {
		return
	}
	flash.Close()

	_, err = fmt.Fprintf(c.App.Writer, "created %s: %d bytes, %d byte sectors\n", st.Image.Path, st.Flash.Size, st.Flash.Sector)

	return
}

// EraseCommand - Returns the command erasing the EEPROM region
func EraseCommand() *cli.Command {
	return &cli.Command{
		Name:   "erase",
		Usage:  "Erase every sector of the EEPROM region",
		Action: withSession(erase),
	}
}

func erase(_ *cli.Context, s *session) error {
	if !s.shim.EraseFlash(eepromshim.FlagNone) {
		return fmt.Errorf("erase failed")
	}

	return nil
}

// CheckCommand - Returns the command running the flash health check
func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Run the flash health check on the last byte of the region",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "init",
				Usage: "erase the region if the check fails",
			},
		},
		Action: withSession(check),
	}
}

func check(c *cli.Context, s *session) (err error) {
	flags := eepromshim.FlagNone
	if c.Bool("init") {
		flags |= eepromshim.FlagInit
	}

	if !s.shim.CheckFlash(flags) {
		return fmt.Errorf("flash health check failed")
	}
	_, err = fmt.Fprintln(c.App.Writer, "flash ok")

	return
}
