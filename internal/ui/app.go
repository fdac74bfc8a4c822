package ui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/five82/statview/internal/prefs"
	"github.com/five82/statview/internal/query"
	"github.com/five82/statview/internal/statista"
)

// View represents the current active view.
type View int

const (
	ViewSearch View = iota
	ViewDetail
	ViewFavorites
)

type focusArea int

const (
	focusInput focusArea = iota
	focusResults
)

// Favorites is what the views need from the favorites service.
type Favorites interface {
	Fetcher() query.Fetcher
	Add(ctx context.Context, item statista.Item) error
	Remove(ctx context.Context, id int64) error
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Searcher  statista.Searcher
	Client    *query.Client
	Favorites Favorites
	OpenURL   func(string) error
	Logger    *log.Logger
	PageSize  int
	Debounce  time.Duration
	ThemeName string
	RealAPI   bool
	PrefsPath string
	// Route optionally opens the detail view for a statistic/<id>?... link.
	Route string
}

type searchState struct {
	input       textinput.Model
	observer    *query.Observer
	term        string
	realAPI     bool
	page        int
	submitted   bool
	selected    int
	focus       focusArea
	debounceSeq int
}

type detailState struct {
	route    Route
	item     *statista.Item // set when opened from the favorites list
	viewport viewport.Model
}

type favoritesState struct {
	observer *query.Observer
	selected int
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	searcher  statista.Searcher
	client    *query.Client
	favorites Favorites
	openURL   func(string) error
	logger    *log.Logger
	pageSize  int
	debounce  time.Duration
	prefsPath string
	// tick schedules timer messages.
	tick func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
	keys      keyMap

	// UI state
	theme    Theme
	view     View
	back     []View
	width    int
	height   int
	ready    bool
	showHelp bool
	spinner  spinner.Model

	search searchState
	detail detailState
	favs   favoritesState

	// Transient status line message
	flash    string
	flashErr bool
	flashSeq int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	client := opts.Client
	if client == nil {
		client = query.NewClient(query.Options{})
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	input := textinput.New()
	input.Prompt = "Search: "
	input.Placeholder = inputPlaceholder
	input.CharLimit = 200
	input.Focus()

	m := Model{
		ctx:       ctx,
		searcher:  opts.Searcher,
		client:    client,
		favorites: opts.Favorites,
		openURL:   opts.OpenURL,
		logger:    logger.WithPrefix("ui"),
		pageSize:  pageSize,
		debounce:  debounce,
		tick:      tea.Tick,
		prefsPath: prefsPath,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.ThemeName),
		view:      ViewSearch,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		search: searchState{
			input:   input,
			realAPI: opts.RealAPI,
			focus:   focusInput,
		},
		detail: detailState{viewport: viewport.New(0, 0)},
	}
	m.search.observer = client.Observe(query.SearchKey("", opts.RealAPI, 0), query.KeepPreviousData())
	m.favs.observer = client.Observe(query.FavoritesKey, query.Enabled(opts.Favorites != nil))

	if opts.Route != "" {
		route, err := ParseRoute(opts.Route)
		if err != nil {
			m.flash, m.flashErr = err.Error(), true
		} else {
			m.openRoute(route)
		}
	}
	return m
}

// openRoute shows the detail view for route. The search state follows the
// route so going back lands on the same page, but nothing is fetched.
func (m *Model) openRoute(route Route) {
	m.search.term = route.Term
	m.search.realAPI = route.RealAPI
	m.search.page = route.Page
	m.search.input.SetValue(route.Term)
	m.search.input.Blur()
	m.search.focus = focusResults
	m.search.observer.SetKey(route.Key())
	m.detail.route = route
	m.detail.item = nil
	m.pushView(ViewDetail)
	m.refreshDetail()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.ensureFavorites(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.search.input.Width = max(m.width-len(m.search.input.Prompt)-4, 10)
		m.resizeDetail()
		m.refreshDetail()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchDoneMsg:
		if msg.err != nil {
			m.logger.Debug("search failed", "key", msg.key, "err", msg.err)
		}
		m.clampSelections()
		m.refreshDetail()
		return m, nil

	case favoritesDoneMsg:
		m.clampSelections()
		m.refreshDetail()
		return m, nil

	case debounceMsg:
		if msg.seq != m.search.debounceSeq || !m.search.submitted {
			return m, nil
		}
		if m.search.input.Value() == m.search.term {
			return m, nil
		}
		m.search.term = m.search.input.Value()
		m.search.page = 0
		m.search.selected = 0
		m.rekeySearch()
		return m, m.ensureSearch()

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case openDoneMsg:
		if msg.err != nil {
			return m, m.setFlash(msg.err.Error(), true)
		}
		return m, nil

	case flashExpiredMsg:
		if msg.seq == m.flashSeq {
			m.flash, m.flashErr = "", false
		}
		return m, nil
	}

	if m.view == ViewSearch && m.search.focus == focusInput {
		var cmd tea.Cmd
		m.search.input, cmd = m.search.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderHeader() + "\n" + m.renderCommandBar() + "\n" + m.renderContent()
}

func (m Model) renderContent() string {
	switch m.view {
	case ViewDetail:
		return m.renderDetail()
	case ViewFavorites:
		return m.renderFavorites()
	default:
		return m.renderSearch()
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.view == ViewSearch && m.search.focus == focusInput {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.refreshDetail()
		return m, m.savePrefs()

	case key.Matches(msg, m.keys.ToggleSource):
		return m, m.toggleSource()

	case key.Matches(msg, m.keys.Favorites):
		if m.view != ViewFavorites {
			m.pushView(ViewFavorites)
		}
		return m, m.ensureFavorites()

	case key.Matches(msg, m.keys.Search):
		m.view = ViewSearch
		m.back = nil
		m.search.focus = focusInput
		return m, m.search.input.Focus()

	case key.Matches(msg, m.keys.Escape):
		m.popView()
		return m, m.ensureFavorites()
	}

	switch m.view {
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewFavorites:
		return m.handleFavoritesKey(msg)
	default:
		return m.handleResultsKey(msg)
	}
}

func (m *Model) pushView(v View) {
	m.back = append(m.back, m.view)
	m.view = v
}

func (m *Model) popView() {
	if len(m.back) == 0 {
		m.view = ViewSearch
		return
	}
	m.view = m.back[len(m.back)-1]
	m.back = m.back[:len(m.back)-1]
}

func (m *Model) clampSelections() {
	if n := len(m.search.observer.State().Data); m.search.selected >= n {
		m.search.selected = max(n-1, 0)
	}
	if n := len(m.favs.observer.State().Data); m.favs.selected >= n {
		m.favs.selected = max(n-1, 0)
	}
}

func (m *Model) savePrefs() tea.Cmd {
	err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, RealAPI: m.search.realAPI})
	if err != nil {
		m.logger.Warn("saving preferences failed", "path", m.prefsPath, "err", err)
		return m.setFlash(err.Error(), true)
	}
	return nil
}

func (m *Model) setFlash(text string, isErr bool) tea.Cmd {
	m.flashSeq++
	m.flash, m.flashErr = text, isErr
	seq := m.flashSeq
	return m.tick(FlashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	})
}

func (m Model) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Error("favorites update failed", "action", msg.action, "id", msg.id, "err", msg.err)
		return m, m.setFlash("Error: "+msg.err.Error(), true)
	}
	text := "Added to favorites"
	if msg.action == actionRemove {
		text = "Removed from favorites"
	}
	return m, tea.Batch(m.setFlash(text, false), m.ensureFavorites())
}

// Messages

type searchDoneMsg struct {
	key query.Key
	err error
}

type favoritesDoneMsg struct {
	err error
}

type debounceMsg struct {
	seq int
}

const (
	actionAdd    = "add"
	actionRemove = "remove"
)

type mutationDoneMsg struct {
	action string
	id     int64
	err    error
}

type openDoneMsg struct {
	err error
}

type flashExpiredMsg struct {
	seq int
}

// Commands

func (m Model) fetchSearchCmd(k query.Key) tea.Cmd {
	if m.searcher == nil {
		return nil
	}
	ctx, client, searcher := m.ctx, m.client, m.searcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
		defer cancel()
		_, err := client.Fetch(ctx, k, func(ctx context.Context) ([]statista.Item, error) {
			return searcher.Search(ctx, statista.Query{Term: k.Term, RealAPI: k.RealAPI, Page: k.Page})
		})
		return searchDoneMsg{key: k, err: err}
	}
}

// ensureSearch starts a fetch for the active search key when it needs one.
func (m Model) ensureSearch() tea.Cmd {
	if !m.search.observer.NeedsFetch() {
		return nil
	}
	return m.fetchSearchCmd(m.search.observer.Key())
}

// ensureFavorites reloads favorites when missing or invalidated.
func (m Model) ensureFavorites() tea.Cmd {
	if m.favorites == nil || !m.favs.observer.NeedsFetch() {
		return nil
	}
	ctx, client, fetch := m.ctx, m.client, m.favorites.Fetcher()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
		defer cancel()
		_, err := client.Fetch(ctx, query.FavoritesKey, fetch)
		return favoritesDoneMsg{err: err}
	}
}

func (m Model) addFavoriteCmd(item statista.Item) tea.Cmd {
	if m.favorites == nil {
		return nil
	}
	ctx, favs := m.ctx, m.favorites
	return func() tea.Msg {
		return mutationDoneMsg{action: actionAdd, id: item.Identifier, err: favs.Add(ctx, item)}
	}
}

func (m Model) removeFavoriteCmd(id int64) tea.Cmd {
	if m.favorites == nil {
		return nil
	}
	ctx, favs := m.ctx, m.favorites
	return func() tea.Msg {
		return mutationDoneMsg{action: actionRemove, id: id, err: favs.Remove(ctx, id)}
	}
}

func (m Model) openLinkCmd(link string) tea.Cmd {
	if m.openURL == nil {
		return nil
	}
	open := m.openURL
	return func() tea.Msg {
		return openDoneMsg{err: open(link)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
