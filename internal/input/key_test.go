package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestNames(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want []string
	}{
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, []string{"space"}},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, []string{"enter"}},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, []string{"esc"}},
		{"ctrl-c", tea.KeyMsg{Type: tea.KeyCtrlC}, []string{"ctrl+c"}},
		{"arrows", tea.KeyMsg{Type: tea.KeyRight}, []string{"right"}},
		{"letter", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}, []string{"r"}},
		{"utf8", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'é'}}, []string{"é"}},
		{"burst", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r q")}, []string{"r", "space", "q"}},
		{"alt", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}, Alt: true}, nil},
		{"paste", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("qq"), Paste: true}, nil},
		{"unbound", tea.KeyMsg{Type: tea.KeyPgDown}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Names(tt.key))
		})
	}
}
