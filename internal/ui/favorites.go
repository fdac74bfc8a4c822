package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/statview/internal/query"
	"github.com/five82/statview/internal/statista"
)

const favoritesTitle = "Favorite Statistics"

func (m Model) selectedFavorite() (statista.Item, bool) {
	data := m.favs.observer.State().Data
	if m.favs.selected < 0 || m.favs.selected >= len(data) {
		return statista.Item{}, false
	}
	return data[m.favs.selected], true
}

// handleFavoritesKey processes keys in the favorites view.
func (m Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.favs.observer.State().Data)

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.favs.selected < count-1 {
			m.favs.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.favs.selected > 0 {
			m.favs.selected--
		}
	case key.Matches(msg, m.keys.Top):
		m.favs.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.favs.selected = max(count-1, 0)

	case key.Matches(msg, m.keys.RemoveFavorite):
		if item, ok := m.selectedFavorite(); ok {
			return m, m.removeFavoriteCmd(item.Identifier)
		}
	case key.Matches(msg, m.keys.OpenLink):
		if item, ok := m.selectedFavorite(); ok {
			return m, m.openLinkCmd(item.Link)
		}
	case key.Matches(msg, m.keys.Open):
		if item, ok := m.selectedFavorite(); ok {
			m.detail.item = &item
			m.pushView(ViewDetail)
			m.refreshDetail()
		}
	}
	return m, nil
}

// renderFavorites shows the saved list with the selected entry's card beside
// it on wide terminals.
func (m Model) renderFavorites() string {
	styles := m.theme.Styles()
	contentHeight := max(m.height-chromeRows, 3)
	center := func(s string) string {
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, s)
	}

	if m.favorites == nil {
		return center(styles.MutedText.Render("Favorites are unavailable"))
	}

	st := m.favs.observer.State()
	switch st.Status() {
	case query.StatusLoading:
		return center(styles.InfoText.Render(m.spinner.View() + " Loading..."))
	case query.StatusError:
		return center(styles.DangerText.Render("Error: " + st.Err.Error()))
	}
	if len(st.Data) == 0 {
		return center(styles.MutedText.Render("No favorites yet. Press a on a result to add one."))
	}

	listWidth := m.width
	if m.width >= LayoutSplitWidth {
		listWidth = m.width * 40 / 100
		if m.width >= LayoutExtraWideWidth {
			listWidth = m.width * 30 / 100
		}
	}

	rows := make([]string, 0, len(st.Data))
	for i, item := range st.Data {
		rows = append(rows, m.formatItemRow(item, false, listWidth-2, i == m.favs.selected))
	}
	list := m.renderTitledBox(favoritesTitle, strings.Join(rows, "\n"), listWidth, contentHeight, true)
	if listWidth == m.width {
		return list
	}

	card := ""
	if item, ok := m.selectedFavorite(); ok {
		card = m.renderCard(item, true, m.width-listWidth-4)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list,
		m.renderTitledBox("Details", card, m.width-listWidth, contentHeight, false))
}
