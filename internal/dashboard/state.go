// Package dashboard holds the application state for the findash TUI and the
// pure update functions that advance it. The bubbletea model in cmd/findash
// owns a State value and applies these transitions from its Update loop;
// keeping them here, free of any tea types, makes the state machine testable
// in isolation.
package dashboard

import (
	"findash/pkg/findash"
)

// SessionPhase tracks the session axis.
type SessionPhase int

const (
	SessionUnknown SessionPhase = iota
	SessionChecking
	SessionAuthenticated
	SessionAnonymous
)

// ChartConfig selects what the chart pane fetches and draws. Only the
// selected symbol is persisted across runs; everything else resets to the
// configured defaults.
type ChartConfig struct {
	Range     string
	Interval  string
	Horizon   string
	ShowSMA20 bool
	ShowSMA50 bool
	ShowRSI   bool
}

// State is the whole dashboard state. Update methods use value semantics:
// each returns a new State and never mutates the receiver.
type State struct {
	Phase SessionPhase
	User  *findash.User

	Watchlist []findash.WatchlistItem
	Snapshots map[string]*findash.Snapshot
	Selected  string

	Chart ChartConfig

	Prices       *findash.PriceData
	PriceErr     string
	PriceLoading bool

	Score        *findash.AgentScore
	ScoreErr     string
	ScoreLoading bool

	// Latest-request-wins tokens. A fetch result is applied only when its
	// sequence matches the most recently issued one for that axis.
	PriceSeq uint64
	ScoreSeq uint64

	Notices      []Notice
	nextNoticeID int
}

// NewState returns the startup state: session unknown, nothing loaded.
func NewState(chart ChartConfig) State {
	return State{Phase: SessionUnknown, Chart: chart}
}

// BeginIdentityCheck marks the startup identity probe as in flight.
func (s State) BeginIdentityCheck() State {
	s.Phase = SessionChecking
	return s
}

// ApplyIdentity resolves the identity probe. Any error means anonymous; the
// credential itself is never inspected client-side.
func (s State) ApplyIdentity(u *findash.User, err error) State {
	if err != nil || u == nil {
		s.Phase = SessionAnonymous
		s.User = nil
		return s
	}
	s.Phase = SessionAuthenticated
	s.User = u
	return s
}

// ApplyLogout transitions to anonymous and clears every session-dependent
// axis. The caller is responsible for clearing the persisted selection.
func (s State) ApplyLogout() State {
	s.Phase = SessionAnonymous
	s.User = nil
	s.Watchlist = nil
	s.Snapshots = nil
	s.Selected = ""
	s.Prices = nil
	s.PriceErr = ""
	s.PriceLoading = false
	s.Score = nil
	s.ScoreErr = ""
	s.ScoreLoading = false
	return s
}

// ApplyWatchlist installs a freshly loaded watchlist and restores the
// selection: the persisted symbol if it survived, else the first entry, else
// none. The second return value is the symbol to persist ("" removes the
// persisted key).
func (s State) ApplyWatchlist(items []findash.WatchlistItem, persisted string) (State, string) {
	s.Watchlist = items
	s.Selected = ""
	if persisted != "" {
		for _, it := range items {
			if it.Symbol == persisted {
				s.Selected = persisted
				break
			}
		}
	}
	if s.Selected == "" && len(items) > 0 {
		s.Selected = items[0].Symbol
	}
	return s, s.Selected
}

// ApplyWatchlistError handles a failed watchlist load: the list shows empty
// and the selection axis is left alone.
func (s State) ApplyWatchlistError() State {
	s.Watchlist = nil
	return s
}

// HasSymbol reports whether sym is in the current watchlist.
func (s State) HasSymbol(sym string) bool {
	for _, it := range s.Watchlist {
		if it.Symbol == sym {
			return true
		}
	}
	return false
}

// Symbols returns the watchlist symbols in order.
func (s State) Symbols() []string {
	out := make([]string, len(s.Watchlist))
	for i, it := range s.Watchlist {
		out[i] = it.Symbol
	}
	return out
}

// Select switches the selection axis to sym and drops chart data belonging
// to the previous selection. The caller persists sym.
func (s State) Select(sym string) State {
	if sym == s.Selected {
		return s
	}
	s.Selected = sym
	s.Prices = nil
	s.PriceErr = ""
	s.Score = nil
	s.ScoreErr = ""
	return s
}

// ApplyAdd appends a newly created watchlist item.
func (s State) ApplyAdd(item findash.WatchlistItem) State {
	s.Watchlist = append(append([]findash.WatchlistItem{}, s.Watchlist...), item)
	return s
}

// ApplyRemoval drops the item with the given id. When the removed entry was
// selected, selection moves to the first remaining item or clears. The
// second return value is the symbol to persist ("" removes the key).
func (s State) ApplyRemoval(id int64) (State, string) {
	var removed string
	kept := make([]findash.WatchlistItem, 0, len(s.Watchlist))
	for _, it := range s.Watchlist {
		if it.ID == id {
			removed = it.Symbol
			continue
		}
		kept = append(kept, it)
	}
	s.Watchlist = kept
	if removed != "" && removed == s.Selected {
		next := ""
		if len(kept) > 0 {
			next = kept[0].Symbol
		}
		s = s.Select(next)
	}
	return s, s.Selected
}

// ItemBySymbol finds the watchlist entry for a symbol.
func (s State) ItemBySymbol(sym string) (findash.WatchlistItem, bool) {
	for _, it := range s.Watchlist {
		if it.Symbol == sym {
			return it, true
		}
	}
	return findash.WatchlistItem{}, false
}

// BeginPriceFetch issues a new price request token and marks the chart-data
// axis loading. The returned sequence must be carried by the fetch and
// passed back to ApplyPrices.
func (s State) BeginPriceFetch() (State, uint64) {
	s.PriceSeq++
	s.PriceLoading = true
	return s, s.PriceSeq
}

// ApplyPrices resolves a price fetch. Results carrying a stale sequence are
// discarded so a superseded request can never overwrite newer state. A
// failure replaces the chart with an inline error.
func (s State) ApplyPrices(seq uint64, pd *findash.PriceData, err error) State {
	if seq != s.PriceSeq {
		return s
	}
	s.PriceLoading = false
	if err != nil {
		s.Prices = nil
		s.PriceErr = err.Error()
		return s
	}
	s.Prices = pd
	s.PriceErr = ""
	return s
}

// BeginScoreFetch issues a new advisory-score request token.
func (s State) BeginScoreFetch() (State, uint64) {
	s.ScoreSeq++
	s.ScoreLoading = true
	return s, s.ScoreSeq
}

// ApplyScore resolves a score fetch with the same staleness guard as
// ApplyPrices. A failure surfaces inline without touching the chart.
func (s State) ApplyScore(seq uint64, sc *findash.AgentScore, err error) State {
	if seq != s.ScoreSeq {
		return s
	}
	s.ScoreLoading = false
	if err != nil {
		s.Score = nil
		s.ScoreErr = err.Error()
		return s
	}
	s.Score = sc
	s.ScoreErr = ""
	return s
}

// ApplySnapshots installs per-symbol pct badges for the watchlist pane.
func (s State) ApplySnapshots(m map[string]*findash.Snapshot) State {
	s.Snapshots = m
	return s
}
