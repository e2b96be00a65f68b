// Package command provides the eepromctl command definitions.
//
// Every command works on a flash image file through an emulated EEPROM shim, so an image edited here behaves the
// way the region behaves on a device.
package command

import (
	"fmt"
	"github.com/gostonefire/eepromshim/internal/settings"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"sort"
)

// Build information, set via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

const (
	metaSettings = "settings"
	metaRegistry = "registry"
)

// flagKeys - Global flags and the settings keys they override
var flagKeys = map[string]string{
	"image":          "image.path",
	"flash-size":     "flash.size",
	"sector":         "flash.sector",
	"base":           "flash.base",
	"size":           "eeprom.size",
	"config-address": "config.address",
	"config-version": "config.version",
	"log-level":      "log.level",
	"log-json":       "log.json",
	"metrics":        "metrics.enabled",
}

// App - Returns the eepromctl application
func App() *cli.App {
	return &cli.App{
		Name:     "eepromctl",
		Usage:    "Inspect and edit an emulated EEPROM region in a flash image",
		Version:  fmt.Sprintf("%s (commit: %s)", Version, Commit),
		Flags:    globalFlags(),
		Metadata: make(map[string]any),
		Commands: []*cli.Command{
			InitCommand(),
			EraseCommand(),
			CheckCommand(),
			ReadCommand(),
			WriteCommand(),
			UpdateCommand(),
			FillCommand(),
			ListCommand(),
			DumpCommand(),
			SaveCommand(),
			LoadCommand(),
			ConfigCommand(),
		},
		Before: loadSettings,
		After:  printMetrics,
	}
}

// globalFlags - Returns the flags available to all commands
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML settings file",
		},
		&cli.StringFlag{
			Name:    "image",
			Aliases: []string{"i"},
			Usage:   "flash image file",
		},
		&cli.IntFlag{
			Name:  "flash-size",
			Usage: "flash size in bytes for new images",
		},
		&cli.IntFlag{
			Name:  "sector",
			Usage: "erase sector size in bytes for new images",
		},
		&cli.StringFlag{
			Name:  "base",
			Usage: "flash address of EEPROM offset 0, e.g. 0x100000",
		},
		&cli.IntFlag{
			Name:  "size",
			Usage: "emulated EEPROM size in bytes",
		},
		&cli.IntFlag{
			Name:  "config-address",
			Usage: "EEPROM offset of the configuration record",
		},
		&cli.UintFlag{
			Name:  "config-version",
			Usage: "expected configuration record version",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "trace, debug, info, warn or error",
		},
		&cli.BoolFlag{
			Name:  "log-json",
			Usage: "log in JSON",
		},
		&cli.BoolFlag{
			Name:  "metrics",
			Usage: "print device traffic counters when done",
		},
	}
}

// loadSettings - Loads settings with the flags set on the command line as overrides
func loadSettings(c *cli.Context) (err error) {
	overrides := make(map[string]any)
	for name, key := range flagKeys {
		if c.IsSet(name) {
			overrides[key] = c.Value(name)
		}
	}

	s, err := settings.Load(c.String("config"), overrides)
	if err != nil {
		return
	}

	c.App.Metadata[metaSettings] = s
	c.App.Metadata[metaRegistry] = prometheus.NewRegistry()

	return
}

// getSettings - Returns the settings loaded before the command ran
func getSettings(c *cli.Context) settings.Settings {
	s, _ := c.App.Metadata[metaSettings].(settings.Settings)
	return s
}

// getRegistry - Returns the registry device counters are registered on
func getRegistry(c *cli.Context) *prometheus.Registry {
	reg, _ := c.App.Metadata[metaRegistry].(*prometheus.Registry)
	return reg
}

// printMetrics - Prints the gathered device counters if metrics are enabled
func printMetrics(c *cli.Context) (err error) {
	reg := getRegistry(c)
	if reg == nil || !getSettings(c).Metrics.Enabled {
		return
	}

	families, err := reg.Gather()
	if err != nil {
		return
	}

	lines := make([]string, 0)
	for _, family := range families {
		for _, m := range family.GetMetric() {
			lines = append(lines, fmt.Sprintf("%s %.0f", family.GetName(), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		_, _ = fmt.Fprintln(c.App.ErrWriter, line)
	}

	return
}
