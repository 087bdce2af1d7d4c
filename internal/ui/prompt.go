package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// PromptInput asks for a single required value. It fails with ErrHeadless
// when no terminal is attached.
func PromptInput(ctx context.Context, theme *Theme, hm *HeadlessManager, title, placeholder string) (string, error) {
	if hm.IsHeadless() {
		return "", fmt.Errorf("%w: %s", ErrHeadless, title)
	}
	var value string
	inp := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("a value is required")
			}
			return nil
		})
	form := huh.NewForm(huh.NewGroup(inp)).WithTheme(formTheme(theme))
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("prompt %q: %w", title, err)
	}
	return strings.TrimSpace(value), nil
}

func formTheme(theme *Theme) *huh.Theme {
	t := huh.ThemeBase()
	if theme.NoColor {
		return t
	}
	primary := lipgloss.Color(ColorPrimary)
	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(lipgloss.Color(ColorError))
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(primary)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(lipgloss.Color(ColorMuted))
	t.Blurred = t.Focused
	return t
}
