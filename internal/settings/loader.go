package settings

import (
	"errors"
	"fmt"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"strings"
)

// Load - Loads settings in order: defaults, the YAML file at path (skipped if path is empty), EEPROMCTL_
// environment variables and finally overrides, a flat key map usually built from command line flags.
// The result is validated.
func Load(path string, overrides map[string]any) (settings Settings, err error) {
	k := koanf.New(".")

	if err = k.Load(mapProvider(Defaults()), nil); err != nil {
		err = fmt.Errorf("load defaults: %w", err)
		return
	}

	if path != "" {
		if err = k.Load(file.Provider(path), yaml.Parser()); err != nil {
			err = fmt.Errorf("load file %s: %w", path, err)
			return
		}
	}

	envTransformer := func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "_", ".")
	}
	if err = k.Load(env.Provider(EnvPrefix, ".", envTransformer), nil); err != nil {
		err = fmt.Errorf("load env: %w", err)
		return
	}

	if len(overrides) > 0 {
		if err = k.Load(mapProvider(overrides), nil); err != nil {
			err = fmt.Errorf("load overrides: %w", err)
			return
		}
	}

	if err = k.Unmarshal("", &settings); err != nil {
		err = fmt.Errorf("unmarshal settings: %w", err)
		return
	}

	err = settings.Validate()

	return
}

// mapProvider - koanf provider serving a flat key map
type mapProvider map[string]any

// ReadBytes - Not supported, koanf falls back to Read
func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("settings: map provider does not support ReadBytes")
}

// Read - Returns the map unflattened on dots
func (m mapProvider) Read() (map[string]any, error) {
	out := make(map[string]any)
	for key, value := range m {
		parts := strings.Split(key, ".")
		node := out
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}

	return out, nil
}
