package tuitest

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	in := "\x1b[31mred\x1b[0m   \n\x1b[1mbold\x1b[0m\n\n"
	assert.Equal(t, "red\nbold", StripANSI(in))
}

func TestKeyPress(t *testing.T) {
	msg, ok := KeyPress('j').(tea.KeyMsg)
	assert.True(t, ok)
	assert.Equal(t, "j", msg.String())
}

func TestKeyPressString(t *testing.T) {
	msgs := KeyPressString("ab")
	assert.Len(t, msgs, 2)
	assert.Equal(t, "b", msgs[1].(tea.KeyMsg).String())
}

func TestSpecialKeys(t *testing.T) {
	assert.Equal(t, "down", KeyDown().(tea.KeyMsg).String())
	assert.Equal(t, "up", KeyUp().(tea.KeyMsg).String())
	assert.Equal(t, "enter", KeyEnter().(tea.KeyMsg).String())
	assert.Equal(t, "esc", KeyEsc().(tea.KeyMsg).String())
	assert.Equal(t, "tab", KeyTab().(tea.KeyMsg).String())
}
