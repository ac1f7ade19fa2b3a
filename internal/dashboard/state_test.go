package dashboard

import (
	"errors"
	"testing"
	"time"

	"findash/pkg/findash"
)

func testChart() ChartConfig {
	return ChartConfig{Range: "1y", Interval: "1d", Horizon: "swing", ShowSMA20: true, ShowSMA50: true, ShowRSI: true}
}

func items(syms ...string) []findash.WatchlistItem {
	out := make([]findash.WatchlistItem, len(syms))
	for i, sym := range syms {
		out[i] = findash.WatchlistItem{ID: int64(i + 1), Symbol: sym}
	}
	return out
}

func TestApplyWatchlistRestoresPersisted(t *testing.T) {
	s := NewState(testChart()).ApplyIdentity(&findash.User{ID: 1, Email: "a@b.c"}, nil)

	s, persist := s.ApplyWatchlist(items("AAPL", "MSFT", "NVDA"), "MSFT")
	if s.Selected != "MSFT" || persist != "MSFT" {
		t.Errorf("selected = %q, persist = %q, want MSFT", s.Selected, persist)
	}

	// Persisted symbol gone from the fresh list: fall back to first entry.
	s, persist = s.ApplyWatchlist(items("AAPL", "NVDA"), "MSFT")
	if s.Selected != "AAPL" || persist != "AAPL" {
		t.Errorf("selected = %q, persist = %q, want AAPL", s.Selected, persist)
	}

	// Empty list: stay unselected, persisted key removed.
	s, persist = s.ApplyWatchlist(nil, "AAPL")
	if s.Selected != "" || persist != "" {
		t.Errorf("selected = %q, persist = %q, want empty", s.Selected, persist)
	}
}

func TestApplyWatchlistErrorKeepsSelection(t *testing.T) {
	s := NewState(testChart())
	s, _ = s.ApplyWatchlist(items("AAPL"), "")
	s = s.ApplyWatchlistError()
	if len(s.Watchlist) != 0 {
		t.Errorf("watchlist = %v, want empty", s.Watchlist)
	}
	if s.Selected != "AAPL" {
		t.Errorf("selection changed on load failure: %q", s.Selected)
	}
}

func TestRemovalMovesSelection(t *testing.T) {
	s := NewState(testChart())
	s, _ = s.ApplyWatchlist(items("AAPL", "MSFT"), "AAPL")

	// Removing the selected item moves selection to the first remaining.
	s, persist := s.ApplyRemoval(1)
	if s.Selected != "MSFT" || persist != "MSFT" {
		t.Errorf("selected = %q, persist = %q, want MSFT", s.Selected, persist)
	}

	// Removing the last item clears selection and the persisted key.
	s, persist = s.ApplyRemoval(2)
	if s.Selected != "" || persist != "" {
		t.Errorf("selected = %q, persist = %q, want empty", s.Selected, persist)
	}
	if len(s.Watchlist) != 0 {
		t.Errorf("watchlist = %v", s.Watchlist)
	}
}

func TestRemovalOfUnselectedKeepsSelection(t *testing.T) {
	s := NewState(testChart())
	s, _ = s.ApplyWatchlist(items("AAPL", "MSFT"), "MSFT")
	s, persist := s.ApplyRemoval(1)
	if s.Selected != "MSFT" || persist != "MSFT" {
		t.Errorf("selected = %q, persist = %q, want MSFT", s.Selected, persist)
	}
}

func TestStalePriceResultDiscarded(t *testing.T) {
	s := NewState(testChart())
	s, _ = s.ApplyWatchlist(items("AAPL", "MSFT"), "AAPL")

	s, seqAAPL := s.BeginPriceFetch()

	// User switches selection; a newer fetch is issued.
	s = s.Select("MSFT")
	s, seqMSFT := s.BeginPriceFetch()

	msft := &findash.PriceData{Symbol: "MSFT"}
	s = s.ApplyPrices(seqMSFT, msft, nil)

	// The late AAPL response must not overwrite the MSFT data.
	aapl := &findash.PriceData{Symbol: "AAPL"}
	s = s.ApplyPrices(seqAAPL, aapl, nil)

	if s.Prices == nil || s.Prices.Symbol != "MSFT" {
		t.Errorf("displayed prices = %+v, want MSFT", s.Prices)
	}
}

func TestStaleScoreErrorDiscarded(t *testing.T) {
	s := NewState(testChart())
	s, old := s.BeginScoreFetch()
	s, cur := s.BeginScoreFetch()

	s = s.ApplyScore(cur, &findash.AgentScore{Symbol: "AAPL"}, nil)
	s = s.ApplyScore(old, nil, errors.New("boom"))

	if s.Score == nil || s.ScoreErr != "" {
		t.Errorf("stale score error applied: score=%v err=%q", s.Score, s.ScoreErr)
	}
}

func TestPriceAndScoreFailuresIndependent(t *testing.T) {
	s := NewState(testChart())
	s, pseq := s.BeginPriceFetch()
	s, sseq := s.BeginScoreFetch()

	s = s.ApplyPrices(pseq, &findash.PriceData{Symbol: "AAPL"}, nil)
	s = s.ApplyScore(sseq, nil, errors.New("not enough data"))

	if s.Prices == nil {
		t.Error("score failure removed the chart data")
	}
	if s.ScoreErr != "not enough data" {
		t.Errorf("ScoreErr = %q", s.ScoreErr)
	}

	s, pseq = s.BeginPriceFetch()
	s = s.ApplyPrices(pseq, nil, errors.New("provider unavailable"))
	if s.PriceErr != "provider unavailable" || s.Prices != nil {
		t.Errorf("PriceErr = %q, Prices = %v", s.PriceErr, s.Prices)
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	s := NewState(testChart()).ApplyIdentity(&findash.User{ID: 1, Email: "a@b.c"}, nil)
	s, _ = s.ApplyWatchlist(items("AAPL"), "AAPL")
	s, pseq := s.BeginPriceFetch()
	s = s.ApplyPrices(pseq, &findash.PriceData{Symbol: "AAPL"}, nil)
	s, sseq := s.BeginScoreFetch()
	s = s.ApplyScore(sseq, &findash.AgentScore{Symbol: "AAPL"}, nil)
	s = s.ApplySnapshots(map[string]*findash.Snapshot{"AAPL": {Last: 1}})

	s = s.ApplyLogout()

	if s.Phase != SessionAnonymous || s.User != nil {
		t.Errorf("phase = %v, user = %v", s.Phase, s.User)
	}
	if s.Watchlist != nil || s.Selected != "" || s.Prices != nil || s.Score != nil || s.Snapshots != nil {
		t.Errorf("logout left state behind: %+v", s)
	}
}

func TestIdentityFailureMeansAnonymous(t *testing.T) {
	s := NewState(testChart()).BeginIdentityCheck()
	if s.Phase != SessionChecking {
		t.Errorf("phase = %v", s.Phase)
	}
	s = s.ApplyIdentity(nil, errors.New("401"))
	if s.Phase != SessionAnonymous {
		t.Errorf("phase = %v, want anonymous", s.Phase)
	}
}

func TestNoticesExpire(t *testing.T) {
	now := time.Now()
	s := NewState(testChart())
	s = s.Notify(SeveritySuccess, "added AAPL", now)
	s = s.Notify(SeverityError, "remove failed", now.Add(2*time.Second))

	s = s.PruneNotices(now.Add(3 * time.Second))
	if len(s.Notices) != 1 || s.Notices[0].Text != "remove failed" {
		t.Errorf("notices = %v", s.Notices)
	}

	s = s.PruneNotices(now.Add(10 * time.Second))
	if len(s.Notices) != 0 {
		t.Errorf("notices = %v, want none", s.Notices)
	}
}

func TestNoticeIDsIncrease(t *testing.T) {
	now := time.Now()
	s := NewState(testChart())
	s = s.Notify(SeverityInfo, "one", now)
	s = s.Notify(SeverityInfo, "two", now)
	if len(s.Notices) != 2 || s.Notices[0].ID >= s.Notices[1].ID {
		t.Errorf("notices = %v", s.Notices)
	}
}
