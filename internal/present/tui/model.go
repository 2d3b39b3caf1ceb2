// Package tui is the interactive ticket browser. It drives a listview
// State from Bubble Tea messages: keystrokes go through the search
// debouncer, page fetches run as commands and the load trigger watches
// the bottom of the rendered list.
package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/ticketlist/internal/listview"
)

const (
	defaultDebounce     = 300 * time.Millisecond
	defaultPrefetchRows = 3
)

type Options struct {
	// Query is the initial search string.
	Query string
	// Debounce is the quiet window after the last keystroke in the search box.
	Debounce time.Duration
	// PrefetchRows is how close to the end of the list the cursor window
	// must get before the next page is requested.
	PrefetchRows int
	Logger       *slog.Logger
}

// Run starts the ticket browser and blocks until it quits.
func Run(ctx context.Context, fetcher Fetcher, opts Options) error {
	m := newModel(ctx, fetcher, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(model); ok {
		fm.teardown()
	} else {
		m.teardown()
	}
	return err
}

type model struct {
	ctx     context.Context
	fetcher Fetcher
	log     *slog.Logger

	keys   KeyMap
	help   help.Model
	spin   spinner.Model
	search textinput.Model
	detail *ticketModal

	state   listview.State
	deb     *listview.Debouncer
	trigger *listview.LoadTrigger
	initReq *listview.Request

	debounce time.Duration
	prefetch int

	cursor int // index into state.View()
	offset int // first rendered index of state.View()
	width  int
	height int

	lastDuration time.Duration
}

func newModel(ctx context.Context, fetcher Fetcher, opts Options) model {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.PrefetchRows < 0 {
		opts.PrefetchRows = defaultPrefetchRows
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ti := textinput.New()
	ti.Prompt = "search: "
	ti.Placeholder = "text after:DD/MM/YYYY before:DD/MM/YYYY from:email"
	ti.SetValue(opts.Query)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	st, req := listview.Reduce(listview.State{}, listview.Mounted{})
	if strings.TrimSpace(opts.Query) != "" {
		var next *listview.Request
		st, next = listview.Reduce(st, listview.SearchChanged{Raw: opts.Query})
		if next != nil {
			req = next
		}
	}

	return model{
		ctx:      ctx,
		fetcher:  fetcher,
		log:      logger,
		keys:     DefaultKeyMap,
		help:     help.New(),
		spin:     sp,
		search:   ti,
		state:    st,
		deb:      &listview.Debouncer{},
		trigger:  listview.NewLoadTrigger(),
		initReq:  req,
		debounce: opts.Debounce,
		prefetch: opts.PrefetchRows,
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if m.initReq != nil {
		cmds = append(cmds, fetchCmd(m.ctx, m.fetcher, *m.initReq))
	}
	return tea.Batch(cmds...)
}

// teardown releases the debounce timer and the load trigger.
func (m model) teardown() {
	m.deb.Cancel()
	m.trigger.Close()
}

// dispatch feeds ev to the list state and returns the fetch to run, if any.
func (m *model) dispatch(ev listview.Event) tea.Cmd {
	prevEpoch := m.state.Epoch()
	var req *listview.Request
	m.state, req = listview.Reduce(m.state, ev)
	if m.state.Epoch() != prevEpoch {
		m.cursor, m.offset = 0, 0
		m.trigger.Reset()
	}
	if m.state.Exhausted {
		m.trigger.Exhaust()
	}
	if req == nil {
		return nil
	}
	return fetchCmd(m.ctx, m.fetcher, *req)
}

// loadMore emits NearEnd when the trigger sees the end of the list.
func (m *model) loadMore() tea.Cmd {
	if !m.trigger.Observe(m.sentinelVisible()) {
		return nil
	}
	return m.dispatch(listview.NearEnd{})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.search.Width = max(10, msg.Width-len(m.search.Prompt)-1)
		if m.detail != nil {
			m.detail.resizeForTerm(msg.Width, msg.Height)
		}
		m.clampScroll()
		m.trigger.Rendered()
		return m, m.loadMore()
	case pageMsg:
		m.lastDuration = msg.dur
		var cmd tea.Cmd
		if msg.err != nil {
			m.log.Debug("fetch page", "page", msg.req.Page, "err", msg.err)
			cmd = m.dispatch(listview.FetchFailed{Epoch: msg.req.Epoch, Page: msg.req.Page, Err: msg.err})
		} else {
			cmd = m.dispatch(listview.PageAppended{Epoch: msg.req.Epoch, Page: msg.req.Page, Tickets: msg.tickets})
		}
		m.clampScroll()
		m.trigger.Rendered()
		return m, tea.Batch(cmd, m.loadMore())
	case debounceMsg:
		raw, ok := m.deb.Fire(msg.token)
		if !ok {
			return m, nil
		}
		return m, m.dispatch(listview.SearchChanged{Raw: raw})
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch {
		case m.detail != nil:
			return m.updateDetail(msg)
		case m.search.Focused():
			return m.updateSearch(msg)
		default:
			return m.updateList(msg)
		}
	}
	if m.search.Focused() {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Blur) || key.Matches(msg, m.keys.Quit) {
		m.detail = nil
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.update(msg)
	return m, cmd
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.teardown()
		return m, tea.Quit
	case "esc", "enter":
		m.search.Blur()
		return m, nil
	}
	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != prev {
		token := m.deb.Input(v)
		return m, tea.Batch(cmd, debounceCmd(m.debounce, token))
	}
	return m, cmd
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.teardown()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Up):
		m.cursor--
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.PageUp):
		m.cursor -= m.listHeight()
	case key.Matches(msg, m.keys.PageDown):
		m.cursor += m.listHeight()
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
	case key.Matches(msg, m.keys.End):
		m.cursor = len(m.state.View()) - 1
	case key.Matches(msg, m.keys.Pin):
		if it, ok := m.selected(); ok {
			m.dispatch(listview.PinToggled{ID: it.Ticket.ID})
			m.follow(it.Ticket.ID)
		}
	case key.Matches(msg, m.keys.Expand):
		if it, ok := m.selected(); ok {
			m.dispatch(listview.ExpandToggled{ID: it.Ticket.ID})
		}
	case key.Matches(msg, m.keys.Open):
		if it, ok := m.selected(); ok {
			m.detail = newTicketModal(it.Ticket, m.width, m.height)
		}
		return m, nil
	case key.Matches(msg, m.keys.Retry):
		cmd = m.dispatch(listview.Retry{})
	default:
		return m, nil
	}
	m.clampScroll()
	return m, tea.Batch(cmd, m.loadMore())
}

func (m model) selected() (listview.Item, bool) {
	view := m.state.View()
	if m.cursor < 0 || m.cursor >= len(view) {
		return listview.Item{}, false
	}
	return view[m.cursor], true
}

// follow moves the cursor onto id after the view order changed.
func (m *model) follow(id string) {
	for i, it := range m.state.View() {
		if it.Ticket.ID == id {
			m.cursor = i
			return
		}
	}
}
