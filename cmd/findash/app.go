package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"findash/internal/dashboard"
	"findash/internal/statefile"
	"findash/internal/symbols"
	"findash/pkg/findash"
)

const requestTimeout = 20 * time.Second

// Messages.
type tickMsg time.Time

type healthMsg struct {
	status *findash.HealthStatus
	err    error
}

type identityMsg struct {
	user *findash.User
	err  error
}

// authMsg resolves a login or register submission. registered marks that a
// new account was created before signing in.
type authMsg struct {
	user       *findash.User
	registered bool
	err        error
}

type logoutMsg struct{ err error }

type watchlistMsg struct {
	items []findash.WatchlistItem
	err   error
}

type addedMsg struct {
	symbol string
	item   *findash.WatchlistItem
	err    error
}

type removedMsg struct {
	id     int64
	symbol string
	err    error
}

type pricesMsg struct {
	seq  uint64
	data *findash.PriceData
	err  error
}

type scoreMsg struct {
	seq   uint64
	score *findash.AgentScore
	err   error
}

type snapshotsMsg struct {
	snaps map[string]*findash.Snapshot
	err   error
}

func tickCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model.
type model struct {
	client *findash.Client
	store  *statefile.Store
	logger *slog.Logger

	state  dashboard.State
	search searchModel
	login  loginModel

	width, height int
	ready         bool
	serverOK      bool
	searchFocused bool
}

func initialModel(client *findash.Client, store *statefile.Store, dir *symbols.Directory, chart dashboard.ChartConfig, logger *slog.Logger) model {
	return model{
		client: client,
		store:  store,
		logger: logger,
		state:  dashboard.NewState(chart).BeginIdentityCheck(),
		search: newSearchModel(dir),
		login:  newLoginModel(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd(), m.healthCmd(), m.identityCmd())
}

func apiCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// Commands. Each closes over the client only, so the closure never races the
// model value it was built from.

func (m model) healthCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		hs, err := c.Health(ctx)
		return healthMsg{status: hs, err: err}
	}
}

func (m model) identityCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		u, err := c.Me(ctx)
		return identityMsg{user: u, err: err}
	}
}

func (m model) loginCmd(email, password string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		if err := c.Login(ctx, email, password); err != nil {
			return authMsg{err: err}
		}
		u, err := c.Me(ctx)
		return authMsg{user: u, err: err}
	}
}

// registerCmd creates the account and signs straight in with the same
// credentials.
func (m model) registerCmd(email, password string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		if _, err := c.Register(ctx, email, password); err != nil {
			return authMsg{err: err}
		}
		if err := c.Login(ctx, email, password); err != nil {
			return authMsg{registered: true, err: err}
		}
		u, err := c.Me(ctx)
		return authMsg{user: u, registered: true, err: err}
	}
}

func (m model) logoutCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		return logoutMsg{err: c.Logout(ctx)}
	}
}

func (m model) watchlistCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		items, err := c.Watchlist(ctx)
		return watchlistMsg{items: items, err: err}
	}
}

func (m model) addCmd(symbol string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		item, err := c.AddSymbol(ctx, symbol)
		return addedMsg{symbol: symbol, item: item, err: err}
	}
}

func (m model) removeCmd(item findash.WatchlistItem) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		err := c.RemoveItem(ctx, item.ID)
		return removedMsg{id: item.ID, symbol: item.Symbol, err: err}
	}
}

func (m model) pricesCmd(seq uint64, symbol, rng, interval string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		pd, err := c.Prices(ctx, symbol, rng, interval)
		return pricesMsg{seq: seq, data: pd, err: err}
	}
}

func (m model) scoreCmd(seq uint64, symbol, horizon string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		sc, err := c.Score(ctx, symbol, horizon)
		return scoreMsg{seq: seq, score: sc, err: err}
	}
}

func (m model) snapshotsCmd() tea.Cmd {
	syms := m.state.Symbols()
	if len(syms) == 0 {
		return nil
	}
	c := m.client
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()
		snaps, err := c.Snapshots(ctx, syms)
		return snapshotsMsg{snaps: snaps, err: err}
	}
}

// refreshChart issues fresh price and score fetches for the current
// selection. Both carry the sequence issued here; anything still in flight
// from an earlier selection resolves stale and is dropped on arrival.
func (m model) refreshChart() (model, tea.Cmd) {
	sym := m.state.Selected
	if sym == "" {
		return m, nil
	}
	var priceSeq, scoreSeq uint64
	m.state, priceSeq = m.state.BeginPriceFetch()
	m.state, scoreSeq = m.state.BeginScoreFetch()
	return m, tea.Batch(
		m.pricesCmd(priceSeq, sym, m.state.Chart.Range, m.state.Chart.Interval),
		m.scoreCmd(scoreSeq, sym, m.state.Chart.Horizon),
	)
}

// refreshScore refetches only the advisory score, used when the horizon
// changes but the chart data is still current.
func (m model) refreshScore() (model, tea.Cmd) {
	sym := m.state.Selected
	if sym == "" {
		return m, nil
	}
	var seq uint64
	m.state, seq = m.state.BeginScoreFetch()
	return m, m.scoreCmd(seq, sym, m.state.Chart.Horizon)
}

func (m *model) persistSelection(sym string) {
	var err error
	if sym == "" {
		err = m.store.Clear()
	} else {
		err = m.store.Save(sym)
	}
	if err != nil {
		m.logger.Warn("persisting selection", "symbol", sym, "error", err)
	}
}

func (m model) selectSymbol(sym string) (model, tea.Cmd) {
	if sym == m.state.Selected {
		return m, nil
	}
	m.state = m.state.Select(sym)
	m.persistSelection(sym)
	return m.refreshChart()
}

func (m *model) notify(sev dashboard.Severity, text string) {
	m.state = m.state.Notify(sev, text, time.Now())
}

func cycle(vals []string, cur string) string {
	for i, v := range vals {
		if v == cur {
			return vals[(i+1)%len(vals)]
		}
	}
	return vals[0]
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		m.state = m.state.PruneNotices(time.Time(msg))
		cmds := []tea.Cmd{tickCmd(), m.healthCmd()}
		if m.state.Phase == dashboard.SessionAuthenticated {
			if cmd := m.snapshotsCmd(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case healthMsg:
		up := msg.err == nil
		if up != m.serverOK {
			m.logger.Info("server health changed", "up", up)
		}
		m.serverOK = up
		return m, nil

	case identityMsg:
		m.state = m.state.ApplyIdentity(msg.user, msg.err)
		if m.state.Phase == dashboard.SessionAuthenticated {
			m.logger.Info("session resumed", "email", msg.user.Email)
			return m, m.watchlistCmd()
		}
		return m, nil

	case authMsg:
		if msg.err != nil {
			m.logger.Warn("sign-in failed", "error", msg.err)
			m.login = m.login.fail(msg.err)
			return m, nil
		}
		m.state = m.state.ApplyIdentity(msg.user, nil)
		m.login = newLoginModel()
		if msg.registered {
			m.notify(dashboard.SeveritySuccess, "account created, signed in as "+msg.user.Email)
		} else {
			m.notify(dashboard.SeveritySuccess, "signed in as "+msg.user.Email)
		}
		m.logger.Info("signed in", "email", msg.user.Email, "registered", msg.registered)
		return m, m.watchlistCmd()

	case logoutMsg:
		if msg.err != nil {
			m.logger.Warn("logout failed", "error", msg.err)
			m.notify(dashboard.SeverityError, "sign out failed: "+msg.err.Error())
			return m, nil
		}
		m.state = m.state.ApplyLogout()
		m.persistSelection("")
		m.search = m.search.Blur()
		m.searchFocused = false
		m.login = newLoginModel()
		m.notify(dashboard.SeverityInfo, "signed out")
		return m, nil

	case watchlistMsg:
		if msg.err != nil {
			m.logger.Error("loading watchlist", "error", msg.err)
			m.state = m.state.ApplyWatchlistError()
			m.notify(dashboard.SeverityError, "loading watchlist: "+msg.err.Error())
			return m, nil
		}
		var persist string
		m.state, persist = m.state.ApplyWatchlist(msg.items, m.store.Selected())
		m.persistSelection(persist)
		m.logger.Info("watchlist loaded", "items", len(msg.items), "selected", m.state.Selected)
		var cmd tea.Cmd
		m, cmd = m.refreshChart()
		return m, tea.Batch(cmd, m.snapshotsCmd())

	case addedMsg:
		if msg.err != nil {
			m.logger.Warn("adding symbol", "symbol", msg.symbol, "error", msg.err)
			m.notify(dashboard.SeverityError, "adding "+msg.symbol+": "+msg.err.Error())
			m.search = m.search.restore(msg.symbol)
			return m, nil
		}
		m.state = m.state.ApplyAdd(*msg.item)
		m.notify(dashboard.SeveritySuccess, "added "+msg.item.Symbol)
		m.logger.Info("symbol added", "symbol", msg.item.Symbol, "id", msg.item.ID)
		var cmd tea.Cmd
		m, cmd = m.selectSymbol(msg.item.Symbol)
		return m, tea.Batch(cmd, m.snapshotsCmd())

	case removedMsg:
		if msg.err != nil {
			m.logger.Warn("removing symbol", "symbol", msg.symbol, "error", msg.err)
			m.notify(dashboard.SeverityError, "removing "+msg.symbol+": "+msg.err.Error())
			return m, nil
		}
		prev := m.state.Selected
		var persist string
		m.state, persist = m.state.ApplyRemoval(msg.id)
		m.persistSelection(persist)
		m.notify(dashboard.SeverityInfo, "removed "+msg.symbol)
		m.logger.Info("symbol removed", "symbol", msg.symbol, "id", msg.id)
		if m.state.Selected != prev {
			return m.refreshChart()
		}
		return m, nil

	case pricesMsg:
		if msg.err != nil {
			m.logger.Warn("loading prices", "error", msg.err)
		}
		m.state = m.state.ApplyPrices(msg.seq, msg.data, msg.err)
		return m, nil

	case scoreMsg:
		if msg.err != nil {
			m.logger.Warn("loading score", "error", msg.err)
		}
		m.state = m.state.ApplyScore(msg.seq, msg.score, msg.err)
		return m, nil

	case snapshotsMsg:
		if msg.err != nil {
			m.logger.Warn("loading snapshots", "error", msg.err)
			return m, nil
		}
		m.state = m.state.ApplySnapshots(msg.snaps)
		return m, nil
	}

	if m.state.Phase != dashboard.SessionAuthenticated {
		var cmd tea.Cmd
		m.login, cmd, _ = m.login.Update(msg)
		return m, cmd
	}
	if m.searchFocused {
		var cmd tea.Cmd
		m.search, cmd, _ = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.state.Phase != dashboard.SessionAuthenticated {
		var cmd tea.Cmd
		var submit *authSubmit
		m.login, cmd, submit = m.login.Update(msg)
		if submit != nil {
			if submit.register {
				return m, tea.Batch(cmd, m.registerCmd(submit.email, submit.password))
			}
			return m, tea.Batch(cmd, m.loginCmd(submit.email, submit.password))
		}
		return m, cmd
	}

	if m.searchFocused {
		if msg.String() == "esc" {
			m.search = m.search.Blur()
			m.searchFocused = false
			return m, nil
		}
		var cmd tea.Cmd
		var committed string
		m.search, cmd, committed = m.search.Update(msg)
		if committed != "" {
			if m.state.HasSymbol(committed) {
				// Already tracked, just jump to it.
				var sel tea.Cmd
				m, sel = m.selectSymbol(committed)
				return m, tea.Batch(cmd, sel)
			}
			return m, tea.Batch(cmd, m.addCmd(committed))
		}
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.search = m.search.Focus()
		m.searchFocused = true
		return m, nil
	case "up", "down":
		syms := m.state.Symbols()
		if len(syms) == 0 {
			return m, nil
		}
		cur := 0
		for i, s := range syms {
			if s == m.state.Selected {
				cur = i
				break
			}
		}
		if msg.String() == "up" && cur > 0 {
			cur--
		}
		if msg.String() == "down" && cur < len(syms)-1 {
			cur++
		}
		return m.selectSymbol(syms[cur])
	case "d":
		if item, ok := m.state.ItemBySymbol(m.state.Selected); ok {
			return m, m.removeCmd(item)
		}
		return m, nil
	case "r":
		m.state.Chart.Range = cycle(findash.Ranges, m.state.Chart.Range)
		return m.refreshChart()
	case "i":
		m.state.Chart.Interval = cycle(findash.Intervals, m.state.Chart.Interval)
		return m.refreshChart()
	case "h":
		m.state.Chart.Horizon = cycle(findash.Horizons, m.state.Chart.Horizon)
		return m.refreshScore()
	case "1":
		m.state.Chart.ShowSMA20 = !m.state.Chart.ShowSMA20
		return m, nil
	case "2":
		m.state.Chart.ShowSMA50 = !m.state.Chart.ShowSMA50
		return m, nil
	case "o":
		m.state.Chart.ShowRSI = !m.state.Chart.ShowRSI
		return m, nil
	case "R":
		var cmd tea.Cmd
		m, cmd = m.refreshChart()
		return m, tea.Batch(cmd, m.snapshotsCmd())
	case "L":
		return m, m.logoutCmd()
	}
	return m, nil
}
