package input

import (
	"fmt"
	"sort"

	"github.com/roach88/teleprompt/internal/playback"
)

// KeyMap binds key names (see Names) to commands. Mouse presses are not in
// the map: turning a click into a jump needs the host's layout.
type KeyMap map[string]playback.CommandKind

// DefaultKeyMap is the standard binding set.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		"space":  playback.CommandTogglePlay,
		"esc":    playback.CommandClose,
		"q":      playback.CommandClose,
		"ctrl+c": playback.CommandClose,
		"up":     playback.CommandPaceUp,
		"down":   playback.CommandPaceDown,
		"left":   playback.CommandStepBack,
		"right":  playback.CommandStepForward,
		"r":      playback.CommandReset,
	}
}

// WithOverrides returns a copy of m with bindings replaced by overrides,
// a map of key name to command name ("toggle", "pace_up", ...). Commands
// that take an argument cannot be bound. The command name "none" unbinds a
// key. ctrl+c always closes.
func (m KeyMap) WithOverrides(overrides map[string]string) (KeyMap, error) {
	out := make(KeyMap, len(m)+len(overrides))
	for k, v := range m {
		out[k] = v
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name == "ctrl+c" || name == "mouse" {
			return nil, fmt.Errorf("key %q cannot be rebound", name)
		}
		value := overrides[name]
		if value == "none" {
			delete(out, name)
			continue
		}
		kind, err := playback.ParseCommandKind(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", name, err)
		}
		if kind.HasArg() {
			return nil, fmt.Errorf("key %q: command %q needs an argument", name, value)
		}
		out[name] = kind
	}
	return out, nil
}

// Lookup returns the command bound to the key name.
func (m KeyMap) Lookup(name string) (playback.Command, bool) {
	kind, ok := m[name]
	if !ok {
		return playback.Command{}, false
	}
	return playback.Cmd(kind), true
}
