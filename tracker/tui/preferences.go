package tui

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/qfs/radix"
	"gopkg.in/yaml.v2"
)

type Preferences struct {
	Radix      int
	Tempo      int
	Beats      int
	PPQN       int
	AutosaveMs int

	YmlError error `yaml:"-"`
}

//go:embed preferences.yml
var defaultPreferencesYaml []byte

func loadDefaultPreferences() Preferences {
	var preferences Preferences
	err := yaml.UnmarshalStrict(defaultPreferencesYaml, &preferences)
	if err != nil {
		panic(fmt.Errorf("failed to unmarshal preferences: %w", err))
	}
	return preferences
}

// readCustomConfig reads filename from the radix directory of the user
// config directory.
func readCustomConfig(filename string) (data []byte, exists bool, err error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, false, err
	}
	path := filepath.Join(configDir, "radix", filename)
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, !os.IsNotExist(err), err
	}
	return data, true, nil
}

// MakePreferences returns the default preferences overridden by the
// preferences.yml in the user config directory. A broken file is reported in
// YmlError and the defaults are kept.
func MakePreferences() Preferences {
	preferences := loadDefaultPreferences()
	data, exists, err := readCustomConfig("preferences.yml")
	if !exists {
		return preferences
	}
	if err == nil {
		custom := preferences
		if err = yaml.UnmarshalStrict(data, &custom); err == nil {
			preferences = custom
		}
	}
	preferences.YmlError = err
	return preferences
}

// NewOpus returns an empty opus in the preferred radix, tempo and beat
// count.
func (p Preferences) NewOpus() *radix.Opus {
	o := radix.NewOpus()
	if p.Radix >= radix.MinRadix && p.Radix <= radix.MaxRadix {
		o.Radix = p.Radix
	}
	if p.Tempo > 0 {
		o.Tempo = p.Tempo
	}
	if p.Beats > 0 {
		o.BeatCount = p.Beats
		o.Channels[0] = []radix.Line{radix.NewLine(p.Beats)}
	}
	return o
}

func (p Preferences) AutosaveDelay() time.Duration {
	if p.AutosaveMs <= 0 {
		return 2 * time.Second
	}
	return time.Duration(p.AutosaveMs) * time.Millisecond
}
