package tui

import (
	"strconv"
	"strings"
	"sync"

	"casedesk/internal/model"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Renderers are cached by style + wrap width. WithAutoStyle can block on terminal
	// background queries, so styles are always chosen up front.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// TemplateMarkdown lays out template entries as one section per label.
func TemplateMarkdown(entries []model.TemplateEntry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("### " + strings.TrimSpace(e.Label) + "\n\n")
		b.WriteString(strings.TrimSpace(e.Text) + "\n")
	}
	return b.String()
}

// RenderMarkdown renders md for the dashboard using the terminal's light/dark palette.
func RenderMarkdown(md string, width int) string {
	return renderMarkdownStyle(md, width, markdownStyle())
}

// RenderMarkdownPlain renders md without colors, for command output.
func RenderMarkdownPlain(md string, width int) string {
	return renderMarkdownStyle(md, width, styles.NoTTYStyle)
}

func renderMarkdownStyle(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	key := style + ":" + strconv.Itoa(width)
	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		cfg := markdownStyleConfig(style)
		zero := uint(0)
		cfg.Document.Margin = &zero
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(cfg),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		// Re-check in case a concurrent caller filled it.
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyleConfig(style string) ansi.StyleConfig {
	switch style {
	case styles.NoTTYStyle:
		return styles.NoTTYStyleConfig
	case "light":
		cfg := styles.LightStyleConfig
		applyMarkdownPalette(&cfg, "light")
		return cfg
	default:
		cfg := styles.DarkStyleConfig
		applyMarkdownPalette(&cfg, "dark")
		return cfg
	}
}

func markdownStyle() string {
	if v := themeOverride(); v != "" {
		return v
	}
	if bg, ok := colorFGBGBackground(); ok {
		if bg >= 7 {
			return "light"
		}
		return "dark"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// applyMarkdownPalette keeps headings and body text on the dashboard's surface color.
func applyMarkdownPalette(cfg *ansi.StyleConfig, style string) {
	fg := mdColor(colorSurfaceFg, style)
	cfg.Heading.Color = fg
	cfg.H3.Color = fg
	cfg.Text.Color = fg
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	cfg.BlockQuote.Faint = mdBoolPtr(false)
}

func mdColor(c lipgloss.AdaptiveColor, style string) *string {
	if style == "light" {
		return mdStrPtr(c.Light)
	}
	return mdStrPtr(c.Dark)
}

func mdStrPtr(s string) *string { return &s }
func mdBoolPtr(b bool) *bool    { return &b }
