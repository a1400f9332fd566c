package tui

import (
	"strings"
	"testing"

	"casedesk/internal/model"

	"github.com/charmbracelet/glamour/styles"
)

func TestTemplateMarkdown(t *testing.T) {
	t.Parallel()

	got := TemplateMarkdown([]model.TemplateEntry{
		{Label: "vague", Text: "Request is vague. "},
		{Label: " overbroad", Text: "Request is overbroad."},
	})
	want := "### vague\n\nRequest is vague.\n\n### overbroad\n\nRequest is overbroad.\n"
	if got != want {
		t.Fatalf("markdown:\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderMarkdownPlain(t *testing.T) {
	t.Parallel()

	out := RenderMarkdownPlain("### vague\n\nRequest is vague.", 40)
	if !strings.Contains(out, "Request is vague.") {
		t.Fatalf("rendered = %q", out)
	}
	if RenderMarkdownPlain("   ", 40) != "" {
		t.Fatalf("blank markdown should render empty")
	}
}

func TestMarkdownStyle_RespectsThemeOverride(t *testing.T) {
	t.Setenv("COLORFGBG", "")

	t.Setenv("CASEDESK_TUI_THEME", "light")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light; got %q", got)
	}
	t.Setenv("CASEDESK_TUI_THEME", "dark")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark; got %q", got)
	}
}

func TestMarkdownStyle_ColorFGBG(t *testing.T) {
	t.Setenv("CASEDESK_TUI_THEME", "")

	t.Setenv("COLORFGBG", "0;15")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light; got %q", got)
	}
	t.Setenv("COLORFGBG", "15;0")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark; got %q", got)
	}
}

func TestMarkdownStyleConfig_PlainIsNoTTY(t *testing.T) {
	t.Parallel()

	got := markdownStyleConfig(styles.NoTTYStyle)
	if got.Text.Color != nil {
		t.Fatalf("plain style should not color text")
	}
}
