package tui

import (
	"fmt"
	"io"
	"strings"

	"casedesk/internal/model"
	"casedesk/internal/view"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// optionRow is how one objection option is listed; %objection% expands to its 1-based index.
const optionRow = "%objection%. "

const maxOptionRows = 10

// optionItem is one objection option. checked marks it for the next text lookup.
type optionItem struct {
	row     string
	entry   model.TemplateEntry
	checked bool
}

func (i optionItem) FilterValue() string { return strings.TrimSpace(i.entry.Label) }
func (i optionItem) Title() string {
	box := "[ ] "
	if i.checked {
		box = "[x] "
	}
	return box + i.row + i.entry.Label
}
func (i optionItem) Description() string { return "" }

type optionDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newOptionDelegate() optionDelegate {
	return optionDelegate{
		normal:   lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().Foreground(colorAccentFg).Background(colorAccent).Bold(true),
	}
}

func (d optionDelegate) Height() int  { return 1 }
func (d optionDelegate) Spacing() int { return 0 }
func (d optionDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d optionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}
	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	line := fmt.Sprint(item)
	if t, ok := item.(interface{ Title() string }); ok {
		line = t.Title()
	}
	if lineW := xansi.StringWidth(line); lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}
	fmt.Fprint(w, style.Render(line))
}

func newOptionList() list.Model {
	l := list.New(nil, newOptionDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.SetShowFilter(false)
	// q and ctrl+c belong to the dashboard; Esc must not quit.
	l.DisableQuitKeybindings()
	return l
}

func optionItems(cfg view.Config, entries []model.TemplateEntry) []list.Item {
	items := make([]list.Item, 0, len(entries))
	for i, e := range entries {
		items = append(items, optionItem{row: cfg.ExpandIndex(string(model.TemplateObjection), optionRow, i), entry: e})
	}
	return items
}

// toggleOption flips the highlighted option.
func toggleOption(l *list.Model) {
	it, ok := l.SelectedItem().(optionItem)
	if !ok {
		return
	}
	it.checked = !it.checked
	l.SetItem(l.Index(), it)
}

// chosenLabels are the checked option labels in list order, or the highlighted one when
// nothing is checked.
func chosenLabels(l list.Model) []string {
	var out []string
	for _, it := range l.Items() {
		if o, ok := it.(optionItem); ok && o.checked {
			out = append(out, o.entry.Label)
		}
	}
	if len(out) == 0 {
		if o, ok := l.SelectedItem().(optionItem); ok {
			out = append(out, o.entry.Label)
		}
	}
	return out
}

func sizeOptionList(l *list.Model, width int) {
	h := len(l.Items())
	if h > maxOptionRows {
		h = maxOptionRows
	}
	if h < 1 {
		h = 1
	}
	l.SetSize(width, h)
}
