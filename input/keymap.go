// Package input translates raw key codes into player commands. Key codes are
// plain integers so the table works with any windowing library's key type.
package input

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kamstrup/intmap"
	"github.com/plus3/blockfall/loop"
)

// ErrUnknownBinding is wrapped when a binding names an unknown command or key.
var ErrUnknownBinding = errors.New("unknown binding")

// Keymap maps key codes to commands.
type Keymap struct {
	bindings *intmap.Map[int, loop.Command]
}

func NewKeymap() *Keymap {
	return &Keymap{
		bindings: intmap.New[int, loop.Command](16),
	}
}

// FromNames builds a keymap from command-name → key-name bindings, as found in
// the config file. resolve turns a key name into the windowing library's code.
func FromNames(bindings map[string][]string, resolve func(name string) (int, bool)) (*Keymap, error) {
	km := NewKeymap()

	// Sorted so that a key bound twice resolves the same way on every run.
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd, ok := loop.ParseCommand(name)
		if !ok {
			return nil, fmt.Errorf("%w: command %q", ErrUnknownBinding, name)
		}
		for _, keyName := range bindings[name] {
			key, ok := resolve(keyName)
			if !ok {
				return nil, fmt.Errorf("%w: key %q for %s", ErrUnknownBinding, keyName, name)
			}
			km.Bind(key, cmd)
		}
	}
	return km, nil
}

// Bind maps key to cmd, replacing any previous binding.
func (k *Keymap) Bind(key int, cmd loop.Command) {
	k.bindings.Put(key, cmd)
}

// Lookup returns the command bound to key.
func (k *Keymap) Lookup(key int) (loop.Command, bool) {
	return k.bindings.Get(key)
}

func (k *Keymap) Len() int {
	return k.bindings.Len()
}

// Commands translates pressed keys to commands in order. Unbound keys are
// skipped.
func (k *Keymap) Commands(keys []int) []loop.Command {
	cmds := make([]loop.Command, 0, len(keys))
	for _, key := range keys {
		if cmd, ok := k.bindings.Get(key); ok {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}
