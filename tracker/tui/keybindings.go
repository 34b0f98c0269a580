package tui

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type (
	KeyBinding struct {
		Key    string `yaml:"key"`
		Action string `yaml:"action"`
	}

	// KeyMap maps key names, as reported by tea.KeyMsg.String, to action
	// names.
	KeyMap struct {
		bindings map[string]string
		hints    map[string]string // the key shown in the help for each action
	}
)

//go:embed keybindings.yml
var defaultKeyBindingsYaml []byte

func parseKeyBindings(data []byte) ([]KeyBinding, error) {
	var keyBindings []KeyBinding
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&keyBindings); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return keyBindings, nil
}

func loadDefaultKeyBindings() []KeyBinding {
	keyBindings, err := parseKeyBindings(defaultKeyBindingsYaml)
	if err != nil {
		panic(fmt.Errorf("failed to unmarshal keybindings: %w", err))
	}
	return keyBindings
}

// NewKeyMap applies the bindings in order: a later binding of a key replaces
// the earlier one, and a binding with an empty action unbinds the key.
func NewKeyMap(keyBindings []KeyBinding) KeyMap {
	k := KeyMap{bindings: map[string]string{}, hints: map[string]string{}}
	for _, kb := range keyBindings {
		if action, ok := k.bindings[kb.Key]; ok && k.hints[action] == kb.Key {
			delete(k.hints, action)
		}
		if kb.Action == "" { // unbind
			delete(k.bindings, kb.Key)
			continue
		}
		k.bindings[kb.Key] = kb.Action
		// last binding of the same action wins for displaying the hint
		k.hints[kb.Action] = kb.Key
	}
	return k
}

// LoadKeyMap returns the default key bindings, overridden by the
// keybindings.yml in the user config directory if there is one.
func LoadKeyMap() (KeyMap, error) {
	keyBindings := loadDefaultKeyBindings()
	data, exists, err := readCustomConfig("keybindings.yml")
	if !exists {
		return NewKeyMap(keyBindings), nil
	}
	if err != nil {
		return NewKeyMap(keyBindings), err
	}
	custom, err := parseKeyBindings(data)
	if err != nil {
		return NewKeyMap(keyBindings), fmt.Errorf("keybindings.yml: %w", err)
	}
	return NewKeyMap(append(keyBindings, custom...)), nil
}

func (k KeyMap) Action(key string) (string, bool) {
	action, ok := k.bindings[key]
	return action, ok
}

func (k KeyMap) Hint(action string) string {
	return k.hints[action]
}

func (k KeyMap) makeHint(hint, format, action string) string {
	if key := k.hints[action]; key != "" {
		return hint + fmt.Sprintf(format, key)
	}
	return hint
}
