package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/statview/internal/favorites"
	"github.com/five82/statview/internal/query"
	"github.com/five82/statview/internal/statista"
)

const noDataMessage = "No data found"

// detailItem resolves the statistic the detail view shows. Items opened from
// the favorites list are shown as stored; routed items are looked up in the
// cached result page and never fetched.
func (m Model) detailItem() (statista.Item, bool) {
	if m.detail.item != nil {
		return *m.detail.item, true
	}
	return lookupRoute(m.client, m.detail.route)
}

// lookupRoute finds the route's identifier in its cached page.
func lookupRoute(client *query.Client, r Route) (statista.Item, bool) {
	items, ok := client.Data(r.Key())
	if !ok {
		return statista.Item{}, false
	}
	for _, item := range items {
		if item.Identifier == r.ID {
			return item, true
		}
	}
	return statista.Item{}, false
}

func (m *Model) resizeDetail() {
	m.detail.viewport.Width = max(m.width-4, 10)
	m.detail.viewport.Height = max(m.height-chromeRows-3, 3)
}

// refreshDetail re-renders the card into the viewport.
func (m *Model) refreshDetail() {
	if m.view != ViewDetail {
		return
	}
	item, ok := m.detailItem()
	if !ok {
		m.detail.viewport.SetContent("")
		return
	}
	favorite := favorites.ContainsID(m.favs.observer.State().Data, item.Identifier)
	m.detail.viewport.SetContent(m.renderCard(item, favorite, m.detail.viewport.Width))
}

// handleDetailKey processes keys in the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	item, ok := m.detailItem()
	switch {
	case key.Matches(msg, m.keys.AddFavorite):
		if ok {
			return m, m.addFavoriteCmd(item)
		}
		return m, nil
	case key.Matches(msg, m.keys.OpenLink):
		if ok {
			return m, m.openLinkCmd(item.Link)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detail.viewport, cmd = m.detail.viewport.Update(msg)
	return m, cmd
}

// renderDetail renders the card or the not-found message.
func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	contentHeight := max(m.height-chromeRows, 3)

	if _, ok := m.detailItem(); !ok {
		msg := styles.MutedText.Render(noDataMessage) + "\n\n" + styles.AccentText.Render("esc  Back to list")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	return m.renderTitledBox("Statistic", m.detail.viewport.View(), m.width, contentHeight-1, true) +
		"\n" + styles.AccentText.Render(" esc  Back to list")
}

// renderCard lays out one statistic: linked title, premium badge, subject,
// description, date, images and link.
func (m Model) renderCard(item statista.Item, favorite bool, width int) string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render(item.Title))
	if item.IsPremium() {
		b.WriteString(" ")
		b.WriteString(styles.Badge("premium").Render("Premium"))
	}
	if favorite {
		b.WriteString(" ")
		b.WriteString(styles.Badge("favorite").Render("★ Favorite"))
	}
	b.WriteString("\n\n")

	if subject := strings.TrimSpace(item.Subject); subject != "" {
		for _, line := range wrap(subject, width) {
			b.WriteString(styles.InfoText.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if desc := strings.TrimSpace(item.Description); desc != "" {
		for _, line := range wrap(desc, width) {
			b.WriteString(styles.Text.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	fields := []struct{ label, value string }{
		{"Date", formatDate(item.PublishedAt(), item.Date)},
		{"Image", item.ImageURL},
		{"Fallback", item.FallbackImage()},
		{"Link", item.Link},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		b.WriteString(styles.MutedText.Render(padRight(f.label, 10)))
		valueStyle := styles.Text
		if f.label == "Link" {
			valueStyle = styles.Link
		}
		b.WriteString(valueStyle.Render(truncate(f.value, max(width-10, 10))))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
