package ui

import (
	"fmt"
	"strings"
)

// sourceLabel names the active data source.
func (m Model) sourceLabel() string {
	return ternary(m.search.realAPI, "Real API", "Local API")
}

// toggleLabel is the call to action for ctrl+s.
func (m Model) toggleLabel() string {
	return ternary(m.search.realAPI, "Switch to Local API", "Switch to Real API")
}

// renderHeader renders the status bar: source, page, fetch activity, cache
// size and the latest message.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("statview", styles.Logo)}

	badge := ternary(m.search.realAPI, "real", "demo")
	parts = append(parts, styles.Badge(badge).Render(m.sourceLabel()))

	if m.search.submitted {
		term := truncate(m.search.term, 24)
		parts = append(parts,
			bg.Render("Term:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%q", term), styles.Text),
			bg.Render("Page:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", m.search.page+1), styles.Text),
		)
	}

	stats := m.client.Stats()
	if stats.Fetching > 0 {
		parts = append(parts, bg.Render(m.spinner.View()+" Fetching", styles.InfoText))
	}
	if !compact {
		parts = append(parts, bg.Render("Cache:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", stats.Entries), styles.Text))
	}

	if m.flash != "" {
		style := styles.SuccessText
		if m.flashErr {
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(truncate(m.flash, max(m.width/2, 20)), style))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(bg.Join(parts, "  "))
}

// renderCommandBar lists the keys that matter in the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.view {
	case ViewDetail:
		commands = []cmd{
			{"a", "Favorite"},
			{"o", "Open link"},
			{"j/k", "Scroll"},
			{"esc", "Back to list"},
			{"F", "Favorites"},
		}
	case ViewFavorites:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Details"},
			{"d", "Remove"},
			{"o", "Open link"},
			{"esc", "Back to list"},
		}
	default:
		if m.search.focus == focusInput {
			commands = []cmd{
				{"enter", "Search"},
				{"tab", "Results"},
				{"ctrl+s", m.toggleLabel()},
			}
		} else {
			commands = []cmd{
				{"j/k", "Navigate"},
				{"enter", "Details"},
				{"[/]", "Page"},
				{"a", "Favorite"},
				{"o", "Open"},
				{"/", "Search"},
				{"F", "Favorites"},
				{"ctrl+s", m.toggleLabel()},
			}
		}
	}
	commands = append(commands, cmd{"?", "More"})

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments, bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments, bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(segments, bg.Spaces(2)))
}
