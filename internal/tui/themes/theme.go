// Package themes holds the dashboard color themes.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Normal      lipgloss.Style
	Bold        lipgloss.Style
	Selected    lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	Box         lipgloss.Style
	StatusError lipgloss.Style
	StatusOK    lipgloss.Style
	StatusInfo  lipgloss.Style
	Name        string
	Primary     lipgloss.Color
	Success     lipgloss.Color
	Warning     lipgloss.Color
	Error       lipgloss.Color
	Muted       lipgloss.Color
	Border      lipgloss.Color
	Foreground  lipgloss.Color
}

func build(name string, fg, muted, border, primary, success, warning, errColor lipgloss.Color) Theme {
	return Theme{
		Name:       name,
		Primary:    primary,
		Success:    success,
		Warning:    warning,
		Error:      errColor,
		Muted:      muted,
		Border:     border,
		Foreground: fg,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(muted),
		Normal: lipgloss.NewStyle().
			Foreground(fg),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Tab: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg).
			Background(primary).
			Padding(0, 1),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		StatusError: lipgloss.NewStyle().
			Foreground(errColor),
		StatusOK: lipgloss.NewStyle().
			Foreground(success),
		StatusInfo: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
	}
}

// Light is the default theme.
var Light = build("light",
	lipgloss.Color("#0f172a"),
	lipgloss.Color("#64748b"),
	lipgloss.Color("#cbd5e1"),
	lipgloss.Color("#4f46e5"),
	lipgloss.Color("#059669"),
	lipgloss.Color("#d97706"),
	lipgloss.Color("#dc2626"),
)

// Dark suits dark terminals.
var Dark = build("dark",
	lipgloss.Color("#f8fafc"),
	lipgloss.Color("#94a3b8"),
	lipgloss.Color("#334155"),
	lipgloss.Color("#818cf8"),
	lipgloss.Color("#34d399"),
	lipgloss.Color("#fbbf24"),
	lipgloss.Color("#f87171"),
)

// ByName returns the theme called name, or Light.
func ByName(name string) Theme {
	if name == Dark.Name {
		return Dark
	}
	return Light
}
