package command

import (
	"fmt"
	"github.com/gostonefire/eepromshim"
	"github.com/urfave/cli/v2"
)

// opaque - Payload of the configuration record as seen by eepromctl, which knows nothing of the application layout.
// Only the version tag is interpreted.
type opaque struct{}

// ConfigCommand - Returns the configuration record command group
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration record commands",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show whether a record with the expected version is stored",
				Action: withSession(configShow),
			},
			{
				Name:  "init",
				Usage: "Initialize like a device boot: health check and persist the version tag if none is valid",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dump",
						Usage: "log a map of the contents first",
					},
				},
				Action: withSession(configInit),
			},
			{
				Name:   "wipe",
				Usage:  "Invalidate the stored record",
				Action: withSession(configWipe),
			},
		},
	}
}

// configStore - Returns the configuration store at the configured address and version
func configStore(s *session) (*eepromshim.ConfigStore[opaque], error) {
	return eepromshim.NewConfigStore(s.shim, eepromshim.StoreConf[opaque]{
		Address: s.settings.Config.Address,
		Version: s.settings.Config.Version,
	})
}

func configShow(c *cli.Context, s *session) (err error) {
	store, err := configStore(s)
	if err != nil {
		return
	}

	cfg := store.Load(eepromshim.FlagSilent)
	if cfg.Loaded {
		_, err = fmt.Fprintf(c.App.Writer, "valid config, version %d\n", cfg.Version)
		return
	}
	_, err = fmt.Fprintf(c.App.Writer, "no valid config, stored version 0x%02X, expected %d\n", s.shim.Read(s.settings.Config.Address), store.Version())

	return
}

func configInit(c *cli.Context, s *session) (err error) {
	store, err := configStore(s)
	if err != nil {
		return
	}

	flags := eepromshim.FlagInit
	if c.Bool("dump") {
		flags |= eepromshim.FlagDump
	}
	cfg := store.Init(flags)
	_, err = fmt.Fprintf(c.App.Writer, "config version %d, loaded %t\n", cfg.Version, cfg.Loaded)

	return
}

func configWipe(_ *cli.Context, s *session) (err error) {
	store, err := configStore(s)
	if err != nil {
		return
	}
	store.Wipe(eepromshim.FlagNone)

	return
}
