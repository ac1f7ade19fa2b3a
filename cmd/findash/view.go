package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"findash/internal/chart"
	"findash/internal/dashboard"
	"findash/internal/symbols"
)

// Styles.
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	symbolStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")).Background(lipgloss.Color("236"))
	gainStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(1, 3)
)

const watchlistWidth = 32

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}

	bodyH := m.height - 2
	if bodyH < 1 {
		bodyH = 1
	}

	var body string
	if m.state.Phase == dashboard.SessionAuthenticated {
		body = m.dashboardView(bodyH)
	} else {
		body = m.loginView(bodyH)
	}

	return m.headerView() + "\n" + body + "\n" + m.footerView()
}

func (m model) headerView() string {
	who := "anonymous"
	if m.state.User != nil {
		who = m.state.User.Email
	}
	server := "server down"
	if m.serverOK {
		server = "server ok"
	}

	badge := ""
	if m.state.Selected != "" {
		badge = "    " + m.state.Selected
		if m.state.Prices != nil {
			if pct, ok := dashboard.ChangePct(m.state.Prices.Candles); ok {
				badge += "  " + dashboard.FormatChangePct(pct)
			}
		}
	}

	text := fmt.Sprintf(" findash    %s    %s%s ", who, server, badge)
	return headerStyle.Render(padOrTrunc(text, m.width))
}

func (m model) footerView() string {
	var text string
	switch {
	case m.state.Phase != dashboard.SessionAuthenticated:
		text = " enter submit  tab switch field  ctrl+t sign in/up  ctrl+c quit"
	case m.searchFocused:
		text = " enter add top match  tab add typed ticker  esc close  ctrl+c quit"
	default:
		text = " q quit  / search  up/dn select  d remove  r range  i interval  h horizon  1/2 sma  o rsi  R refresh  L logout"
	}
	return footerStyle.Render(padOrTrunc(text, m.width))
}

// loginView centers the sign-in form in the body area.
func (m model) loginView(bodyH int) string {
	l := m.login

	mode := "[ sign in ]"
	if l.register {
		mode = "[ create account ]"
	}
	status := dimStyle.Render("ctrl+t to switch")
	if l.busy {
		status = dimStyle.Render("signing in...")
	}
	if l.errText != "" {
		status = errStyle.Render(l.errText)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("findash") + "  " + dimStyle.Render(mode))
	b.WriteString("\n\n")
	b.WriteString(l.email.View())
	b.WriteString("\n")
	b.WriteString(l.password.View())
	b.WriteString("\n\n")
	b.WriteString(status)

	box := boxStyle.Render(b.String())
	return lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, box)
}

func (m model) dashboardView(bodyH int) string {
	left := m.watchlistView(bodyH)
	right := m.chartView(bodyH)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// watchlistView builds the left pane: the search box (with typeahead results
// when focused) above the watchlist rows.
func (m model) watchlistView(bodyH int) string {
	lines := make([]string, 0, bodyH)
	add := func(s string) { lines = append(lines, s) }

	add(" " + m.search.input.View())
	if m.searchFocused {
		for i, e := range m.search.matches {
			row := fmt.Sprintf("  %-6s %s", e.Symbol, e.Name)
			if i == 0 {
				add(selStyle.Render(padOrTrunc(row, watchlistWidth)))
			} else {
				add(dimStyle.Render(padOrTrunc(row, watchlistWidth)))
			}
		}
		if q := m.search.input.Value(); symbols.QuickAddOffer(q, m.search.matches) {
			add(infoStyle.Render(padOrTrunc(fmt.Sprintf("  tab: add %q", symbols.Normalize(q)), watchlistWidth)))
		}
		if m.search.errText != "" {
			add(errStyle.Render(padOrTrunc("  "+m.search.errText, watchlistWidth)))
		}
	}
	add(dimStyle.Render(strings.Repeat("─", watchlistWidth)))

	if len(m.state.Watchlist) == 0 {
		add(dimStyle.Render("  watchlist empty, / to add"))
	}
	for _, it := range m.state.Watchlist {
		marker := "  "
		symSt := symbolStyle
		if it.Symbol == m.state.Selected {
			marker = "▸ "
			symSt = selStyle
		}
		badge := dashboard.FormatSnapshot(m.state.Snapshots[it.Symbol])
		badgeSt := dimStyle
		if snap := m.state.Snapshots[it.Symbol]; snap != nil && snap.Pct != nil {
			if *snap.Pct >= 0 {
				badgeSt = gainStyle
			} else {
				badgeSt = lossStyle
			}
		}
		add(marker + symSt.Render(fmt.Sprintf("%-6s", it.Symbol)) + " " + badgeSt.Render(badge))
	}

	if len(lines) > bodyH {
		lines = lines[:bodyH]
	}
	for len(lines) < bodyH {
		lines = append(lines, strings.Repeat(" ", watchlistWidth))
	}
	return strings.Join(lines, "\n")
}

// chartView builds the right pane: a title row, the candle chart, the
// advisory score, and the latest notification.
func (m model) chartView(bodyH int) string {
	w := m.width - watchlistWidth - 1
	if w < 1 {
		w = 1
	}
	chartH := bodyH - 3
	if chartH < 1 {
		chartH = 1
	}

	var b strings.Builder
	b.WriteString(m.chartTitle(w))
	b.WriteString("\n")
	b.WriteString(m.chartBody(w, chartH))
	b.WriteString("\n")
	b.WriteString(m.scoreView(w))
	b.WriteString("\n")
	b.WriteString(m.noticeView(w))
	return b.String()
}

func (m model) chartTitle(w int) string {
	if m.state.Selected == "" {
		return dimStyle.Render(padOrTrunc(" no symbol selected", w))
	}
	toggles := func(on bool, label string) string {
		if on {
			return label
		}
		return strings.Repeat(" ", len(label))
	}
	loading := ""
	if m.state.PriceLoading {
		loading = "  loading..."
	}
	source := ""
	if m.state.Prices != nil && m.state.Prices.Source != "" {
		source = "  [" + m.state.Prices.Source + "]"
	}
	text := fmt.Sprintf(" %s  %s/%s   %s %s %s%s%s",
		m.state.Selected,
		m.state.Chart.Range, m.state.Chart.Interval,
		toggles(m.state.Chart.ShowSMA20, "sma20"),
		toggles(m.state.Chart.ShowSMA50, "sma50"),
		toggles(m.state.Chart.ShowRSI, "rsi14"),
		source, loading)
	return titleStyle.Render(padOrTrunc(text, w))
}

func (m model) chartBody(w, h int) string {
	s := m.state
	switch {
	case s.Selected == "":
		return blankBlock(dimStyle.Render("add a symbol to see its chart"), w, h)
	case s.PriceErr != "":
		return blankBlock(errStyle.Render(s.PriceErr), w, h)
	case s.Prices == nil:
		return blankBlock(dimStyle.Render("loading "+s.Selected+"..."), w, h)
	}
	r := chart.NewRenderer(w, h, s.Chart.ShowSMA20, s.Chart.ShowSMA50, s.Chart.ShowRSI)
	return r.Render(chart.SeriesFrom(s.Prices))
}

func (m model) scoreView(w int) string {
	s := m.state
	switch {
	case s.Selected == "":
		return padOrTrunc("", w)
	case s.ScoreLoading && s.Score == nil:
		return dimStyle.Render(padOrTrunc(" score: loading...", w))
	case s.ScoreErr != "":
		return errStyle.Render(padOrTrunc(" score: "+s.ScoreErr, w))
	case s.Score == nil:
		return padOrTrunc("", w)
	}

	sc := s.Score
	recSt := infoStyle
	switch {
	case strings.Contains(sc.Recommendation, "Buy"):
		recSt = okStyle
	case strings.Contains(sc.Recommendation, "Avoid"):
		recSt = errStyle
	}
	line := fmt.Sprintf(" score (%s)  prob up %s   vol %.2f   regime %s   ",
		s.Chart.Horizon, dashboard.FormatProb(sc.ProbUp), sc.Volatility, sc.Regime)
	line += recSt.Render(sc.Recommendation)
	if drv := topFeatures(sc.Features, 3); drv != "" {
		line += dimStyle.Render("   " + drv)
	}
	return line
}

func (m model) noticeView(w int) string {
	if len(m.state.Notices) == 0 {
		return padOrTrunc("", w)
	}
	n := m.state.Notices[len(m.state.Notices)-1]
	st := infoStyle
	switch n.Severity {
	case dashboard.SeveritySuccess:
		st = okStyle
	case dashboard.SeverityError:
		st = errStyle
	}
	return st.Render(padOrTrunc(" "+n.Text, w))
}

// topFeatures renders the first n features in key order, "rsi14=28.3 ...".
func topFeatures(features map[string]float64, n int) string {
	if len(features) == 0 {
		return ""
	}
	keys := make([]string, 0, len(features))
	for k := range features {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > n {
		keys = keys[:n]
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%.2f", k, features[k])
	}
	return strings.Join(parts, " ")
}

// blankBlock centers a message in a w-by-h block.
func blankBlock(msg string, w, h int) string {
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, msg)
}

// padOrTrunc pads s with spaces to width, or truncates if longer.
func padOrTrunc(s string, width int) string {
	n := len(s)
	if n >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-n)
}
