// Package input turns terminal key events into playback commands and
// keeps escape sequences whole on their way to the key decoder.
package input

import (
	tea "github.com/charmbracelet/bubbletea"
)

var keyNames = map[tea.KeyType]string{
	tea.KeySpace: "space",
	tea.KeyEnter: "enter",
	tea.KeyEsc:   "esc",
	tea.KeyUp:    "up",
	tea.KeyDown:  "down",
	tea.KeyLeft:  "left",
	tea.KeyRight: "right",
	tea.KeyCtrlC: "ctrl+c",
}

// Names returns the binding names for a key event: "space", "esc", "up",
// "ctrl+c", or one name per rune for typed text. Pasted text and alt
// combinations have no binding.
func Names(k tea.KeyMsg) []string {
	if k.Paste || k.Alt {
		return nil
	}
	if k.Type == tea.KeyRunes {
		names := make([]string, 0, len(k.Runes))
		for _, r := range k.Runes {
			if r == ' ' {
				names = append(names, "space")
				continue
			}
			names = append(names, string(r))
		}
		return names
	}
	if name, ok := keyNames[k.Type]; ok {
		return []string{name}
	}
	return nil
}
