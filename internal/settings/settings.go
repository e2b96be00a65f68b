// Package settings loads the eepromctl settings from defaults, a YAML file, EEPROMCTL_ environment variables and
// command line overrides, later sources overriding earlier ones.
package settings

import (
	"fmt"
	"github.com/gostonefire/eepromshim/internal/conf"
	"github.com/hashicorp/go-hclog"
	"io"
)

// EnvPrefix - Prefix of environment variables overriding settings, EEPROMCTL_FLASH_SIZE sets flash.size
const EnvPrefix string = "EEPROMCTL_"

// DefaultImagePath - Default flash image file
const DefaultImagePath string = "flash.img"

// DefaultFlashSize - Default size of a new flash image, large enough for the default region at 1MB
const DefaultFlashSize int = 0x200000

// Image - Flash image file settings
type Image struct {
	Path string `koanf:"path"`
}

// Flash - Flash device geometry
//   - Size is the total size of the flash image
//   - Sector is the erase sector size
//   - Base is the flash address of EEPROM offset 0 (zero)
type Flash struct {
	Size   int    `koanf:"size"`
	Sector int    `koanf:"sector"`
	Base   uint32 `koanf:"base"`
}

// EEPROM - Emulated EEPROM settings
type EEPROM struct {
	Size int `koanf:"size"`
}

// Config - Configuration record location and expected version
type Config struct {
	Address int   `koanf:"address"`
	Version uint8 `koanf:"version"`
}

// Log - Logger settings
type Log struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

// Metrics - Device traffic counters
type Metrics struct {
	Enabled bool `koanf:"enabled"`
}

// Settings - All eepromctl settings
type Settings struct {
	Image   Image   `koanf:"image"`
	Flash   Flash   `koanf:"flash"`
	EEPROM  EEPROM  `koanf:"eeprom"`
	Config  Config  `koanf:"config"`
	Log     Log     `koanf:"log"`
	Metrics Metrics `koanf:"metrics"`
}

// Defaults - Returns the default settings as a flat key map
func Defaults() map[string]any {
	return map[string]any{
		"image.path":      DefaultImagePath,
		"flash.size":      DefaultFlashSize,
		"flash.sector":    conf.DefaultSectorSize,
		"flash.base":      conf.DefaultFlashBaseAddress,
		"eeprom.size":     conf.DefaultSize,
		"config.address":  conf.DefaultConfigAddress,
		"config.version":  conf.DefaultConfigVersion,
		"log.level":       "info",
		"log.json":        false,
		"metrics.enabled": false,
	}
}

// Validate - Checks that the settings describe a usable EEPROM region
func (S Settings) Validate() (err error) {
	switch {
	case S.Image.Path == "":
		err = fmt.Errorf("image.path can not be empty")
	case S.Flash.Sector <= 0:
		err = fmt.Errorf("flash.sector must be a positive value higher than 0 (zero)")
	case S.Flash.Size <= 0 || S.Flash.Size%S.Flash.Sector != 0:
		err = fmt.Errorf("flash.size %d must be a positive multiple of flash.sector %d", S.Flash.Size, S.Flash.Sector)
	case S.Flash.Base%uint32(S.Flash.Sector) != 0:
		err = fmt.Errorf("flash.base 0x%X is not aligned to flash.sector %d", S.Flash.Base, S.Flash.Sector)
	case S.EEPROM.Size <= 0:
		err = fmt.Errorf("eeprom.size must be a positive value higher than 0 (zero)")
	case uint64(S.Flash.Base)+uint64(S.EEPROM.Size) > uint64(S.Flash.Size):
		err = fmt.Errorf("eeprom region 0x%X + %d does not fit in flash of %d bytes", S.Flash.Base, S.EEPROM.Size, S.Flash.Size)
	case S.Config.Address < 0 || S.Config.Address >= S.EEPROM.Size:
		err = fmt.Errorf("config.address %d outside eeprom of %d bytes", S.Config.Address, S.EEPROM.Size)
	case hclog.LevelFromString(S.Log.Level) == hclog.NoLevel:
		err = fmt.Errorf("unknown log.level %q", S.Log.Level)
	}

	return
}

// Logger - Returns an hclog logger configured from the log settings, writing to w
func (S Settings) Logger(name string, w io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(S.Log.Level),
		JSONFormat: S.Log.JSON,
		Output:     w,
	})
}
