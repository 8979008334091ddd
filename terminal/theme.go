package terminal

import (
	"sort"

	"github.com/c-bata/go-prompt"
	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// Theme represents a terminal theme configuration
type Theme struct {
	Name         string
	PromptColor  string
	TextColor    string
	ErrorColor   string
	SuccessColor string
	InfoColor    string
}

var themes = map[string]Theme{
	"dark": {
		Name:         "dark",
		PromptColor:  "green",
		TextColor:    "white",
		ErrorColor:   "red",
		SuccessColor: "green",
		InfoColor:    "cyan",
	},
	"light": {
		Name:         "light",
		PromptColor:  "black",
		TextColor:    "black",
		ErrorColor:   "red",
		SuccessColor: "green",
		InfoColor:    "blue",
	},
	"mono": {
		Name:         "mono",
		PromptColor:  "white",
		TextColor:    "white",
		ErrorColor:   "white",
		SuccessColor: "white",
		InfoColor:    "white",
	},
}

// ThemeNames lists the built-in themes
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeManager holds the active theme. Themes live only for the process.
type ThemeManager struct {
	currentTheme Theme
}

// NewThemeManager creates a theme manager starting with the named theme
func NewThemeManager(name string) (*ThemeManager, error) {
	tm := &ThemeManager{currentTheme: themes["dark"]}
	if name == "" {
		return tm, nil
	}
	if err := tm.SetTheme(name); err != nil {
		return nil, err
	}
	return tm, nil
}

// SetTheme sets a new theme
func (tm *ThemeManager) SetTheme(name string) error {
	theme, ok := themes[name]
	if !ok {
		return errors.Errorf("unknown theme: %s", name)
	}
	tm.currentTheme = theme
	return nil
}

// GetPromptColor returns the color function for prompts
func (tm *ThemeManager) GetPromptColor() *color.Color {
	return getColorFromName(tm.currentTheme.PromptColor)
}

// GetTextColor returns the color function for normal text
func (tm *ThemeManager) GetTextColor() *color.Color {
	return getColorFromName(tm.currentTheme.TextColor)
}

// GetErrorColor returns the color function for error messages
func (tm *ThemeManager) GetErrorColor() *color.Color {
	return getColorFromName(tm.currentTheme.ErrorColor)
}

// GetSuccessColor returns the color function for success messages
func (tm *ThemeManager) GetSuccessColor() *color.Color {
	return getColorFromName(tm.currentTheme.SuccessColor)
}

// GetInfoColor returns the color function for info messages
func (tm *ThemeManager) GetInfoColor() *color.Color {
	return getColorFromName(tm.currentTheme.InfoColor)
}

// GetPromptTextColor maps the prompt color onto the line editor's palette
func (tm *ThemeManager) GetPromptTextColor() prompt.Color {
	switch tm.currentTheme.PromptColor {
	case "black":
		return prompt.Black
	case "red":
		return prompt.Red
	case "green":
		return prompt.Green
	case "yellow":
		return prompt.Yellow
	case "blue":
		return prompt.Blue
	case "magenta":
		return prompt.Fuchsia
	case "cyan":
		return prompt.Cyan
	default:
		return prompt.White
	}
}

// getColorFromName returns a color.Color based on the color name
func getColorFromName(name string) *color.Color {
	switch name {
	case "black":
		return color.New(color.FgBlack)
	case "red":
		return color.New(color.FgRed)
	case "green":
		return color.New(color.FgGreen)
	case "yellow":
		return color.New(color.FgYellow)
	case "blue":
		return color.New(color.FgBlue)
	case "magenta":
		return color.New(color.FgMagenta)
	case "cyan":
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgWhite)
	}
}

// GetThemeName returns the name of the current theme
func (tm *ThemeManager) GetThemeName() string {
	return tm.currentTheme.Name
}
