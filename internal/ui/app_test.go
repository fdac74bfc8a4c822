package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/statview/internal/favorites"
	"github.com/five82/statview/internal/localstore"
	"github.com/five82/statview/internal/prefs"
	"github.com/five82/statview/internal/query"
	"github.com/five82/statview/internal/statista"
)

type fakeSearcher struct {
	mu       sync.Mutex
	items    []statista.Item
	pageSize int
	err      error
	calls    []statista.Query
}

func (f *fakeSearcher) Search(_ context.Context, q statista.Query) ([]statista.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, q)
	if f.err != nil {
		return nil, f.err
	}
	if !strings.EqualFold(q.Term, statista.DemoTerm) {
		return []statista.Item{}, nil
	}
	return statista.Page(f.items, q.Page, f.pageSize), nil
}

func (f *fakeSearcher) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeSearcher) Calls() []statista.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]statista.Query(nil), f.calls...)
}

func fixture(n int) []statista.Item {
	items := make([]statista.Item, n)
	for i := range items {
		id := int64(i + 1)
		items[i] = statista.Item{
			Identifier: id,
			Title:      fmt.Sprintf("Statistic %d", id),
			Link:       fmt.Sprintf("https://example.com/statistic/%d", id),
			Subject:    "Subject",
			Date:       "2023-05-01",
		}
	}
	return items
}

type harness struct {
	searcher *fakeSearcher
	client   *query.Client
	opened   []string
	prefs    string
}

func newHarness(t *testing.T, items int) *harness {
	t.Helper()
	return &harness{
		searcher: &fakeSearcher{items: fixture(items), pageSize: 10},
		client:   query.NewClient(query.Options{}),
		prefs:    filepath.Join(t.TempDir(), "prefs.toml"),
	}
}

func (h *harness) options() Options {
	return Options{
		Searcher:  h.searcher,
		Client:    h.client,
		PageSize:  10,
		PrefsPath: h.prefs,
		OpenURL: func(link string) error {
			h.opened = append(h.opened, link)
			return nil
		},
	}
}

func (h *harness) model(t *testing.T, opts Options) Model {
	t.Helper()
	m := New(opts)
	// Timers never fire here; debounce and flash expiry are sent by hand.
	m.tick = func(time.Duration, func(time.Time) tea.Msg) tea.Cmd { return nil }
	m.search.input.Cursor.SetMode(cursor.CursorStatic)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return settle(t, next.(Model), m.Init())
}

// settle runs cmd and feeds the resulting data messages back into the model.
// Commands that do not finish promptly are abandoned.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := runCmd(c).(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case searchDoneMsg, favoritesDoneMsg, mutationDoneMsg, openDoneMsg:
			next, more := m.Update(msg)
			m = next.(Model)
			queue = append(queue, more)
		}
	}
	return m
}

func runCmd(c tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		return nil
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(keyMsg(k))
		m = settle(t, next.(Model), cmd)
	}
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = press(t, m, string(r))
	}
	return m
}

func TestSearch_NothingFetchedBeforeSubmit(t *testing.T) {
	h := newHarness(t, 25)
	m := typeText(t, h.model(t, h.options()), "statista")

	if calls := h.searcher.Calls(); len(calls) != 0 {
		t.Fatalf("searcher called %d times before submit", len(calls))
	}
	if !strings.Contains(m.View(), "press enter to search") {
		t.Fatalf("View missing submit hint:\n%s", m.View())
	}
}

func TestSearch_SubmitFetchesFirstPage(t *testing.T) {
	h := newHarness(t, 25)
	m := typeText(t, h.model(t, h.options()), "statista")
	m = press(t, m, "enter")

	calls := h.searcher.Calls()
	if len(calls) != 1 {
		t.Fatalf("searcher called %d times, want 1", len(calls))
	}
	if want := (statista.Query{Term: "statista", Page: 0}); calls[0] != want {
		t.Fatalf("query = %+v, want %+v", calls[0], want)
	}

	view := m.View()
	for _, want := range []string{"Statistic 1", "Statistic 10", "Page 1"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Statistic 11") {
		t.Fatalf("View shows second page item on first page:\n%s", view)
	}
	if m.search.focus != focusResults {
		t.Fatalf("focus = %v, want results after submit", m.search.focus)
	}
}

func TestSearch_PagingUsesCacheAndStopsOnShortPage(t *testing.T) {
	h := newHarness(t, 25)
	m := typeText(t, h.model(t, h.options()), "statista")
	m = press(t, m, "enter", "]", "right")

	if m.search.page != 2 {
		t.Fatalf("page = %d, want 2", m.search.page)
	}
	if !strings.Contains(m.View(), "Statistic 25") {
		t.Fatalf("View missing last item:\n%s", m.View())
	}
	if m.canNextPage() {
		t.Fatalf("next page enabled on a short page")
	}

	m = press(t, m, "]")
	if m.search.page != 2 {
		t.Fatalf("page advanced past a short page: %d", m.search.page)
	}

	m = press(t, m, "[", "left")
	if m.search.page != 0 {
		t.Fatalf("page = %d, want 0", m.search.page)
	}
	if calls := h.searcher.Calls(); len(calls) != 3 {
		t.Fatalf("searcher called %d times, want 3 (cached pages are not refetched)", len(calls))
	}
	if m.canPrevPage() {
		t.Fatalf("previous page enabled on page 0")
	}
}

func TestSearch_PreviousDataBlocksNextPage(t *testing.T) {
	h := newHarness(t, 25)
	m := typeText(t, h.model(t, h.options()), "statista")
	m = press(t, m, "enter")

	// Advance without running the fetch command.
	next, _ := m.Update(keyMsg("]"))
	m = next.(Model)

	st := m.search.observer.State()
	if !st.PreviousData {
		t.Fatalf("PreviousData = false while page 2 is loading")
	}
	if m.canNextPage() {
		t.Fatalf("next page enabled while showing previous data")
	}
	view := m.View()
	if !strings.Contains(view, "Statistic 1") || strings.Contains(view, "Loading...") {
		t.Fatalf("View should keep showing page 1 without a loading state:\n%s", view)
	}
}

func TestSearch_EmptyTermShowsNoResults(t *testing.T) {
	h := newHarness(t, 25)
	m := typeText(t, h.model(t, h.options()), "gdp")
	m = press(t, m, "enter")

	if !strings.Contains(m.View(), "No results") {
		t.Fatalf("View missing empty state:\n%s", m.View())
	}
	if m.canNextPage() {
		t.Fatalf("next page enabled for an empty result")
	}
}

func TestSearch_ErrorRenderedVerbatim(t *testing.T) {
	h := newHarness(t, 25)
	h.searcher.setErr(statista.ErrInvalidAPIKey)
	m := typeText(t, h.model(t, h.options()), "statista")
	m = press(t, m, "enter")

	if !strings.Contains(m.View(), "Error: Invalid API Key") {
		t.Fatalf("View missing error:\n%s", m.View())
	}
}

func TestSearch_ResubmitRetriesFailedSearch(t *testing.T) {
	h := newHarness(t, 25)
	h.searcher.setErr(errors.New("boom"))
	m := typeText(t, h.model(t, h.options()), "statista")
	m = press(t, m, "enter")
	if !strings.Contains(m.View(), "Error: boom") {
		t.Fatalf("View missing error:\n%s", m.View())
	}

	h.searcher.setErr(nil)
	m = press(t, m, "tab", "enter")

	if calls := h.searcher.Calls(); len(calls) != 2 {
		t.Fatalf("searcher called %d times, want a retry on resubmit", len(calls))
	}
	view := m.View()
	if strings.Contains(view, "Error: boom") || !strings.Contains(view, "Statistic 1") {
		t.Fatalf("View after resubmit:\n%s", view)
	}

	// A successful search is served from the cache on resubmit.
	m = press(t, m, "tab", "enter")
	if calls := h.searcher.Calls(); len(calls) != 2 {
		t.Fatalf("searcher called %d times, want cached result", len(calls))
	}
}

func TestSearch_ToggleSourcePersistsAndRekeys(t *testing.T) {
	h := newHarness(t, 25)
	m := h.model(t, h.options())
	if !strings.Contains(m.View(), "Switch to Real API") {
		t.Fatalf("View missing toggle label:\n%s", m.View())
	}

	m = press(t, m, "ctrl+s")
	if !m.search.realAPI {
		t.Fatalf("realAPI = false after toggle")
	}
	if !strings.Contains(m.View(), "Switch to Local API") {
		t.Fatalf("View missing toggled label:\n%s", m.View())
	}
	if p := prefs.Load(h.prefs); !p.RealAPI {
		t.Fatalf("prefs RealAPI = false, want persisted true")
	}

	m = typeText(t, m, "statista")
	m = press(t, m, "enter")
	calls := h.searcher.Calls()
	if len(calls) != 1 || !calls[0].RealAPI {
		t.Fatalf("calls = %+v, want one real API query", calls)
	}
}

func TestSearch_DebouncedRequery(t *testing.T) {
	h := newHarness(t, 25)
	m := typeText(t, h.model(t, h.options()), "statista")
	m = press(t, m, "enter", "tab")
	m = typeText(t, m, "x")

	stale := m.search.debounceSeq - 1
	next, cmd := m.Update(debounceMsg{seq: stale})
	m = settle(t, next.(Model), cmd)
	if calls := h.searcher.Calls(); len(calls) != 1 {
		t.Fatalf("stale debounce triggered a fetch: %+v", calls)
	}

	next, cmd = m.Update(debounceMsg{seq: m.search.debounceSeq})
	m = settle(t, next.(Model), cmd)
	calls := h.searcher.Calls()
	if len(calls) != 2 || calls[1].Term != "statistax" {
		t.Fatalf("calls = %+v, want a requery for statistax", calls)
	}
	if m.search.page != 0 {
		t.Fatalf("page = %d, want reset to 0", m.search.page)
	}
}

func TestDetail_OpenFromResultsAndBack(t *testing.T) {
	h := newHarness(t, 25)
	m := typeText(t, h.model(t, h.options()), "statista")
	m = press(t, m, "enter", "j", "enter")

	if m.view != ViewDetail {
		t.Fatalf("view = %v, want detail", m.view)
	}
	want := Route{ID: 2, Term: "statista", Page: 0}
	if m.detail.route != want {
		t.Fatalf("route = %+v, want %+v", m.detail.route, want)
	}
	view := m.View()
	for _, s := range []string{"Statistic 2", "https://example.com/statistic/2", "Back to list"} {
		if !strings.Contains(view, s) {
			t.Fatalf("detail View missing %q:\n%s", s, view)
		}
	}
	if calls := h.searcher.Calls(); len(calls) != 1 {
		t.Fatalf("detail view fetched: %d calls", len(calls))
	}

	m = press(t, m, "o")
	if len(h.opened) != 1 || h.opened[0] != "https://example.com/statistic/2" {
		t.Fatalf("opened = %v", h.opened)
	}

	m = press(t, m, "esc")
	if m.view != ViewSearch {
		t.Fatalf("view = %v after esc, want search", m.view)
	}
}

func TestDetail_DeepLinkWithoutCacheShowsNoData(t *testing.T) {
	h := newHarness(t, 25)
	opts := h.options()
	opts.Route = Route{ID: 3, Term: "statista", Page: 0}.String()
	m := h.model(t, opts)

	if m.view != ViewDetail {
		t.Fatalf("view = %v, want detail", m.view)
	}
	if !strings.Contains(m.View(), noDataMessage) {
		t.Fatalf("View missing %q:\n%s", noDataMessage, m.View())
	}
	if calls := h.searcher.Calls(); len(calls) != 0 {
		t.Fatalf("deep link fetched: %+v", calls)
	}
}

func TestDetail_DeepLinkWithWarmCache(t *testing.T) {
	h := newHarness(t, 25)
	route := Route{ID: 13, Term: "statista", Page: 1}
	h.client.SetData(route.Key(), statista.Page(fixture(25), 1, 10))

	opts := h.options()
	opts.Route = route.String()
	m := h.model(t, opts)

	if !strings.Contains(m.View(), "Statistic 13") {
		t.Fatalf("View missing cached item:\n%s", m.View())
	}
	m = press(t, m, "esc")
	if m.view != ViewSearch || m.search.page != 1 || m.search.term != "statista" {
		t.Fatalf("back lands on view=%v page=%d term=%q", m.view, m.search.page, m.search.term)
	}
}

func TestDetail_BadRouteFlashesError(t *testing.T) {
	h := newHarness(t, 25)
	opts := h.options()
	opts.Route = "statistic/abc"
	m := h.model(t, opts)

	if m.view != ViewSearch {
		t.Fatalf("view = %v, want search for a bad route", m.view)
	}
	if !m.flashErr || !strings.Contains(m.flash, "bad id") {
		t.Fatalf("flash = %q (err=%v), want bad id error", m.flash, m.flashErr)
	}
}

func TestFavorites_AddListRemove(t *testing.T) {
	h := newHarness(t, 25)
	store, err := localstore.Open(filepath.Join(t.TempDir(), "statview.db"))
	if err != nil {
		t.Fatalf("localstore.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	opts := h.options()
	opts.Favorites = favorites.NewService(favorites.NewStore(store), h.client)
	m := typeText(t, h.model(t, opts), "statista")
	m = press(t, m, "enter", "j", "a")

	if !strings.Contains(m.flash, "Added to favorites") {
		t.Fatalf("flash = %q, want add confirmation", m.flash)
	}
	next, _ := m.Update(flashExpiredMsg{seq: m.flashSeq - 1})
	if m = next.(Model); m.flash == "" {
		t.Fatalf("stale flash expiry cleared the message")
	}
	next, _ = m.Update(flashExpiredMsg{seq: m.flashSeq})
	if m = next.(Model); m.flash != "" {
		t.Fatalf("flash = %q after expiry, want empty", m.flash)
	}
	if !strings.Contains(m.View(), "★") {
		t.Fatalf("results should star the favorite:\n%s", m.View())
	}

	m = press(t, m, "F")
	view := m.View()
	if !strings.Contains(view, favoritesTitle) || !strings.Contains(view, "Statistic 2") {
		t.Fatalf("favorites View:\n%s", view)
	}

	m = press(t, m, "enter")
	if m.view != ViewDetail || !strings.Contains(m.View(), "Statistic 2") {
		t.Fatalf("favorite detail View:\n%s", m.View())
	}

	m = press(t, m, "esc", "d")
	if m.view != ViewFavorites {
		t.Fatalf("view = %v, want favorites", m.view)
	}
	if !strings.Contains(m.View(), "No favorites yet") {
		t.Fatalf("favorites View after remove:\n%s", m.View())
	}

	m = press(t, m, "esc")
	if m.view != ViewSearch {
		t.Fatalf("view = %v after esc, want search", m.view)
	}
}

func TestHelpAndQuit(t *testing.T) {
	h := newHarness(t, 1)
	m := press(t, h.model(t, h.options()), "tab", "?")
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown:\n%s", m.View())
	}
	m = press(t, m, "x")
	if m.showHelp {
		t.Fatalf("any key should close help")
	}

	_, cmd := m.Update(keyMsg("ctrl+c"))
	if cmd == nil {
		t.Fatalf("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c did not quit")
	}
}

func TestThemeCyclePersists(t *testing.T) {
	h := newHarness(t, 1)
	m := press(t, h.model(t, h.options()), "tab", "T")

	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	if p := prefs.Load(h.prefs); p.Theme != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", p.Theme)
	}
}
