package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestKeyToBytes(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want []byte
	}{
		{"plain rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}, []byte("a")},
		{"multibyte rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("é")}, []byte("é")},
		{"enter is CR", tea.KeyMsg{Type: tea.KeyEnter}, []byte("\r")},
		{"backspace is DEL", tea.KeyMsg{Type: tea.KeyBackspace}, []byte{127}},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, []byte("\t")},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, []byte(" ")},
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, []byte("\x1b[A")},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, []byte("\x1b[B")},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, []byte{3}},
		{"ctrl+d", tea.KeyMsg{Type: tea.KeyCtrlD}, []byte{4}},
		{"ctrl+a", tea.KeyMsg{Type: tea.KeyCtrlA}, []byte{1}},
		{"delete", tea.KeyMsg{Type: tea.KeyDelete}, []byte("\x1b[3~")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyToBytes(tt.msg))
		})
	}
}

func TestKeyToBytesUnknownKeyDropped(t *testing.T) {
	// Function keys have no PTY mapping here and must not send garbage.
	assert.Nil(t, keyToBytes(tea.KeyMsg{Type: tea.KeyF1}))
}
