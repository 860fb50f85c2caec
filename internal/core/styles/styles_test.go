package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/taskboard/internal/core/task"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	assert.Equal(t, []string{"catppuccin", "gruvbox", "tokyo-night"}, names)

	for _, name := range names {
		p, ok := GetPalette(name)
		require.True(t, ok)
		assert.NotEmpty(t, p.Primary, name)
	}

	_, ok := GetPalette("nope")
	assert.False(t, ok)
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	gruvbox, _ := GetPalette("gruvbox")
	SetTheme(gruvbox)

	assert.Equal(t, gruvbox, CurrentPalette)
	require.NotNil(t, GlamourStyle().Document.Color)
	assert.Equal(t, string(gruvbox.Foreground), *GlamourStyle().Document.Color)
}

func TestPriorityStyle(t *testing.T) {
	assert.Equal(t, PriorityHighStyle.Render("x"), PriorityStyle(task.PriorityHigh).Render("x"))
	assert.Equal(t, PriorityOtherStyle.Render("x"), PriorityStyle("Urgent").Render("x"))
}

func TestColorForString_Deterministic(t *testing.T) {
	assert.Equal(t, ColorForString("alice"), ColorForString("alice"))
}
