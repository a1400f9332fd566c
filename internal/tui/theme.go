package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted     = ac("240", "243")
	colorSurfaceFg = ac("235", "252")
	colorAccent    = ac("27", "62")
	colorAccentFg  = ac("255", "235")
	colorBorder    = ac("250", "243")
	colorError     = ac("160", "203")
)

func styleMuted() lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(colorMuted)
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

func stylePane(focused bool) lipgloss.Style {
	border := lipgloss.TerminalColor(colorBorder)
	if focused {
		border = colorAccent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Foreground(colorSurfaceFg).
		Padding(0, 1)
}

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Background(colorAccent).Foreground(colorAccentFg).Padding(0, 1)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

// applyColorProfilePreference honors NO_COLOR and otherwise follows the terminal's capabilities.
// termenv.EnvColorProfile would also honor CLICOLOR, which can disable colors in a full-screen UI.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if (strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit")) && profile != termenv.Ascii {
		profile = termenv.TrueColor
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures background detection.
//
// Priority:
// 1) CASEDESK_TUI_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("15;0" = fg;bg)
func applyThemePreference() {
	switch themeOverride() {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if bg, ok := colorFGBGBackground(); ok {
		lipgloss.SetHasDarkBackground(bg < 7)
	}
}

func themeOverride() string {
	switch v := strings.ToLower(strings.TrimSpace(os.Getenv("CASEDESK_TUI_THEME"))); v {
	case "light", "dark":
		return v
	}
	return ""
}

// colorFGBGBackground reads the background palette index from COLORFGBG (last segment).
func colorFGBGBackground() (int, bool) {
	v := strings.TrimSpace(os.Getenv("COLORFGBG"))
	if v == "" {
		return 0, false
	}
	parts := strings.Split(v, ";")
	bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil || bg < 0 {
		return 0, false
	}
	return bg, true
}
