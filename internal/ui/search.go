package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/statview/internal/favorites"
	"github.com/five82/statview/internal/query"
	"github.com/five82/statview/internal/statista"
)

// handleInputKey processes keys while the search input has focus. Everything
// that is not a control key is typed into the input.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Escape):
		m.search.input.Blur()
		m.search.focus = focusResults
		return m, nil

	case key.Matches(msg, m.keys.ToggleSource):
		return m, m.toggleSource()
	}

	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	if !m.search.submitted || m.search.input.Value() == m.search.term {
		return m, cmd
	}

	// Search as you type once a search has been submitted.
	m.search.debounceSeq++
	seq := m.search.debounceSeq
	return m, tea.Batch(cmd, m.tick(m.debounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	}))
}

// submit enables the search for the current input and moves focus to the
// results.
func (m *Model) submit() tea.Cmd {
	m.search.term = m.search.input.Value()
	m.search.page = 0
	m.search.selected = 0
	m.search.submitted = true
	m.search.debounceSeq++
	m.rekeySearch()
	m.search.observer.SetEnabled(true)
	if m.search.observer.Retry() {
		m.logger.Debug("retrying failed search", "key", m.search.observer.Key())
	}
	m.search.input.Blur()
	m.search.focus = focusResults
	m.logger.Debug("search submitted", "term", m.search.term, "real_api", m.search.realAPI)
	return m.ensureSearch()
}

// toggleSource flips between the demo document and the remote API.
func (m *Model) toggleSource() tea.Cmd {
	m.search.realAPI = !m.search.realAPI
	m.search.page = 0
	m.search.selected = 0
	m.rekeySearch()
	return tea.Batch(m.savePrefs(), m.ensureSearch())
}

func (m *Model) rekeySearch() {
	m.search.observer.SetKey(query.SearchKey(m.search.term, m.search.realAPI, m.search.page))
}

// canNextPage reports whether the next page control is usable: the active
// page has its own data, nothing is loading, and the page was full.
func (m Model) canNextPage() bool {
	st := m.search.observer.State()
	return st.Enabled && st.HasData && st.CanAdvance() && len(st.Data) >= m.pageSize
}

func (m Model) canPrevPage() bool {
	return m.search.submitted && m.search.page > 0
}

// selectedResult returns the highlighted result, if any.
func (m Model) selectedResult() (statista.Item, bool) {
	data := m.search.observer.State().Data
	if m.search.selected < 0 || m.search.selected >= len(data) {
		return statista.Item{}, false
	}
	return data[m.search.selected], true
}

// handleResultsKey processes keys while the results list has focus.
func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.search.observer.State().Data)

	switch {
	case key.Matches(msg, m.keys.Tab):
		m.search.focus = focusInput
		return m, m.search.input.Focus()

	case key.Matches(msg, m.keys.NextPage):
		if !m.canNextPage() {
			return m, nil
		}
		m.search.page++
		m.search.selected = 0
		m.rekeySearch()
		return m, m.ensureSearch()

	case key.Matches(msg, m.keys.PrevPage):
		if !m.canPrevPage() {
			return m, nil
		}
		m.search.page--
		m.search.selected = 0
		m.rekeySearch()
		return m, m.ensureSearch()

	case key.Matches(msg, m.keys.Down):
		if m.search.selected < count-1 {
			m.search.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.search.selected > 0 {
			m.search.selected--
		}
	case key.Matches(msg, m.keys.Top):
		m.search.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.search.selected = max(count-1, 0)

	case key.Matches(msg, m.keys.Open):
		item, ok := m.selectedResult()
		if !ok || m.search.observer.State().PreviousData {
			return m, nil
		}
		m.detail.route = Route{ID: item.Identifier, Term: m.search.term, RealAPI: m.search.realAPI, Page: m.search.page}
		m.detail.item = nil
		m.pushView(ViewDetail)
		m.refreshDetail()
		return m, nil

	case key.Matches(msg, m.keys.AddFavorite):
		if item, ok := m.selectedResult(); ok {
			return m, m.addFavoriteCmd(item)
		}
	case key.Matches(msg, m.keys.OpenLink):
		if item, ok := m.selectedResult(); ok {
			return m, m.openLinkCmd(item.Link)
		}
	}
	return m, nil
}

// renderSearch renders the input, the result list and the pager.
func (m Model) renderSearch() string {
	styles := m.theme.Styles()
	contentHeight := max(m.height-chromeRows, 3)

	inputBorder := m.theme.Border
	if m.search.focus == focusInput {
		inputBorder = m.theme.BorderFocus
	}
	input := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(inputBorder)).
		Width(max(m.width-2, 10)).
		Render(m.search.input.View())

	bodyHeight := max(contentHeight-searchInputRows, 3)
	if !m.search.submitted {
		hint := styles.MutedText.Render("Type a term and press enter to search")
		return input + "\n" + lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, hint)
	}

	st := m.search.observer.State()
	switch st.Status() {
	case query.StatusLoading:
		msg := styles.InfoText.Render(m.spinner.View() + " Loading...")
		return input + "\n" + lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, msg)
	case query.StatusError:
		msg := styles.DangerText.Render("Error: " + st.Err.Error())
		return input + "\n" + lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	title := fmt.Sprintf("Results · Page %d", m.search.page+1)
	if st.PreviousData {
		title += " · loading"
	}
	box := m.renderTitledBox(title, m.renderResultRows(st, m.width-2), m.width, bodyHeight-1, m.search.focus == focusResults)
	return input + "\n" + box + "\n" + m.renderPager(st)
}

// renderResultRows formats one line per result: star, title and badges.
func (m Model) renderResultRows(st query.State, width int) string {
	if len(st.Data) == 0 {
		return m.theme.Styles().MutedText.Render("No results")
	}

	favs := m.favs.observer.State().Data
	lines := make([]string, 0, len(st.Data))
	for i, item := range st.Data {
		selected := i == m.search.selected && m.search.focus == focusResults
		lines = append(lines, m.formatItemRow(item, favorites.ContainsID(favs, item.Identifier), width, selected))
	}
	return strings.Join(lines, "\n")
}

// formatItemRow renders "★ Title · Subject [Premium]". Selected rows use the
// selection colors for every segment.
func (m Model) formatItemRow(item statista.Item, favorite bool, width int, selected bool) string {
	bgColor := m.theme.SurfaceAlt
	if (m.view == ViewSearch && m.search.focus == focusResults) || m.view == ViewFavorites {
		bgColor = m.theme.FocusBg
	}
	if selected {
		bgColor = m.theme.SelectionBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	star := ternary(favorite, "★", " ")
	badge := ""
	if item.IsPremium() {
		badge = " Premium"
	}
	subject := strings.TrimSpace(item.Subject)
	titleWidth := max(width-4-len(badge)-min(len([]rune(subject)), width/3)-3, 10)

	var starStyle, titleStyle, subjectStyle, badgeStyle lipgloss.Style
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		starStyle, titleStyle, subjectStyle, badgeStyle = sel, sel.Bold(true), sel, sel
	} else {
		starStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.BadgeColors["favorite"]))
		titleStyle = styles.Text
		subjectStyle = styles.FaintText
		badgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.BadgeColors["premium"]))
	}

	row := bg.Render(star, starStyle) + bg.Space() + bg.Render(truncate(item.Title, titleWidth), titleStyle)
	if subject != "" {
		row += bg.Render(" · ", subjectStyle) + bg.Render(truncate(subject, width/3), subjectStyle)
	}
	if badge != "" {
		row += bg.Render(badge, badgeStyle)
	}
	return bg.FillLine(row, width)
}

// renderPager renders "‹ Prev  Page N  Next ›" with unusable controls dimmed.
func (m Model) renderPager(st query.State) string {
	styles := m.theme.Styles()
	enabled := styles.AccentText
	disabled := styles.FaintText

	prev := disabled.Render("‹ Prev")
	if m.canPrevPage() {
		prev = enabled.Render("‹ Prev")
	}
	next := disabled.Render("Next ›")
	if m.canNextPage() {
		next = enabled.Render("Next ›")
	}

	parts := []string{prev, styles.Text.Render(fmt.Sprintf("Page %d", m.search.page+1)), next}
	if st.Err != nil && st.HasData {
		parts = append(parts, styles.DangerText.Render("Error: "+st.Err.Error()))
	}
	return lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).Render(strings.Join(parts, "   "))
}
