package tracker

import (
	"context"
	"fmt"

	"github.com/Veraticus/smartspend/internal/storage"
)

// Theme is the display preference. It is stored locally and never synced.
type Theme string

// Themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	default:
		return "", invalid("theme", fmt.Sprintf("must be %q or %q", ThemeLight, ThemeDark))
	}
}

// Theme returns the stored theme.
func (c *Controller) Theme() Theme {
	return c.theme
}

// SetTheme stores the theme locally.
func (c *Controller) SetTheme(ctx context.Context, t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	if err := storage.Set(ctx, c.store, storage.KeyTheme, t); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	c.theme = t
	return nil
}
