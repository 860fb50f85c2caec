// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"hash/fnv"
	"sort"

	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/taskboard/internal/core/task"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    "#7aa2f7",
		Secondary:  "#7dcfff",
		Foreground: "#c0caf5",
		Muted:      "#565f89",
		Background: "#1a1b26",
		Surface:    "#3b4261",
		Success:    "#9ece6a",
		Warning:    "#e0af68",
		Error:      "#f7768e",
	},
	"gruvbox": {
		Primary:    "#83a598",
		Secondary:  "#8ec07c",
		Foreground: "#ebdbb2",
		Muted:      "#665c54",
		Background: "#282828",
		Surface:    "#3c3836",
		Success:    "#b8bb26",
		Warning:    "#fabd2f",
		Error:      "#fb4934",
	},
	"catppuccin": {
		Primary:    "#89b4fa", // Blue
		Secondary:  "#94e2d5", // Teal
		Foreground: "#cdd6f4", // Text
		Muted:      "#6c7086", // Overlay0
		Background: "#1e1e2e", // Base
		Surface:    "#313244", // Surface0
		Success:    "#a6e3a1", // Green
		Warning:    "#f9e2af", // Yellow
		Error:      "#f38ba8", // Red
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

var (
	// CLI styles.
	HeaderStyle  lipgloss.Style
	MutedStyle   lipgloss.Style
	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	InfoStyle    lipgloss.Style

	// Task rows.
	TaskTextStyle      lipgloss.Style
	TaskDoneStyle      lipgloss.Style
	TaskOverdueStyle   lipgloss.Style
	TaskPendingDeleteStyle lipgloss.Style
	TaskSelectedStyle  lipgloss.Style
	PriorityHighStyle  lipgloss.Style
	PriorityMedStyle   lipgloss.Style
	PriorityLowStyle   lipgloss.Style
	PriorityOtherStyle lipgloss.Style

	// TUI chrome.
	TabActiveStyle   lipgloss.Style
	TabInactiveStyle lipgloss.Style
	EmptyStateStyle  lipgloss.Style
	StatusBarStyle   lipgloss.Style
	FormStyle        lipgloss.Style
	FormTitleStyle   lipgloss.Style
	FormErrorStyle   lipgloss.Style
	HelpStyle        lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	HeaderStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	MutedStyle = lipgloss.NewStyle().Foreground(p.Muted)
	SuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	WarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
	InfoStyle = lipgloss.NewStyle().Foreground(p.Secondary)

	TaskTextStyle = lipgloss.NewStyle().Foreground(p.Foreground)
	TaskDoneStyle = lipgloss.NewStyle().Foreground(p.Muted).Strikethrough(true)
	TaskOverdueStyle = lipgloss.NewStyle().Foreground(p.Error)
	TaskPendingDeleteStyle = lipgloss.NewStyle().Foreground(p.Warning).Italic(true)
	TaskSelectedStyle = lipgloss.NewStyle().Background(p.Surface)
	PriorityHighStyle = lipgloss.NewStyle().Foreground(p.Error).Bold(true)
	PriorityMedStyle = lipgloss.NewStyle().Foreground(p.Warning)
	PriorityLowStyle = lipgloss.NewStyle().Foreground(p.Success)
	PriorityOtherStyle = lipgloss.NewStyle().Foreground(p.Muted)

	TabActiveStyle = lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Primary).
		Bold(true).
		Padding(0, 1)
	TabInactiveStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Padding(0, 1)
	EmptyStateStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true).
		Padding(1, 2)
	StatusBarStyle = lipgloss.NewStyle().Foreground(p.Muted)
	FormStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(0, 1)
	FormTitleStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	FormErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
	HelpStyle = lipgloss.NewStyle().Foreground(p.Muted).MarginTop(1)
}

// PriorityStyle returns the style for a priority label.
func PriorityStyle(p task.Priority) lipgloss.Style {
	switch p {
	case task.PriorityHigh:
		return PriorityHighStyle
	case task.PriorityMedium:
		return PriorityMedStyle
	case task.PriorityLow:
		return PriorityLowStyle
	default:
		return PriorityOtherStyle
	}
}

// ColorForString returns a deterministic palette color for s.
func ColorForString(s string) lipgloss.Color {
	pool := []lipgloss.Color{
		CurrentPalette.Primary,
		CurrentPalette.Secondary,
		CurrentPalette.Success,
		CurrentPalette.Warning,
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return pool[h.Sum32()%uint32(len(pool))]
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

func hexPtr(c lipgloss.Color) *string {
	if c == "" {
		return nil
	}
	s := string(c)
	return &s
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := hexPtr(CurrentPalette.Foreground)
	primary := hexPtr(CurrentPalette.Primary)
	secondary := hexPtr(CurrentPalette.Secondary)
	muted := hexPtr(CurrentPalette.Muted)
	surface := hexPtr(CurrentPalette.Surface)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = surface
	cfg.H2.Color = primary
	cfg.H3.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted

	cfg.Table.Color = fg

	return cfg
}
