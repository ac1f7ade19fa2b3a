// Package chart renders a candlestick price panel with optional moving
// average overlays and an RSI oscillator panel as styled terminal text.
// Renderers are cheap values: the caller discards and rebuilds one whenever
// the symbol, data, overlay toggles, or window size change, so a stale
// renderer is never reused across reconfigurations.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"findash/pkg/findash"
)

var (
	upStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	downStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sma20Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	sma50Style = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	rsiStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	guideStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const (
	axisWidth = 9 // left gutter for price labels
	oscRows   = 7 // oscillator panel height, excluding its title row
)

// Series is one aligned render input. Indicator slices use math.NaN() as the
// explicit undefined marker and have the same length as Candles.
type Series struct {
	Candles []findash.Candle
	SMA20   []float64
	SMA50   []float64
	RSI     []float64
}

// AlignIndicator converts a nullable wire series into a dense slice with
// NaN marking undefined positions. Length and index alignment with the
// candle sequence are preserved; nothing is omitted.
func AlignIndicator(vals []*float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		if v == nil {
			out[i] = math.NaN()
		} else {
			out[i] = *v
		}
	}
	return out
}

// SeriesFrom builds a render Series from an API price response.
func SeriesFrom(pd *findash.PriceData) Series {
	return Series{
		Candles: pd.Candles,
		SMA20:   AlignIndicator(pd.Indicators.SMA20),
		SMA50:   AlignIndicator(pd.Indicators.SMA50),
		RSI:     AlignIndicator(pd.Indicators.RSI14),
	}
}

// Renderer draws into a fixed width and height.
type Renderer struct {
	width, height int
	showSMA20     bool
	showSMA50     bool
	showRSI       bool
}

// NewRenderer creates a renderer for the given window and overlay toggles.
func NewRenderer(width, height int, showSMA20, showSMA50, showRSI bool) *Renderer {
	return &Renderer{
		width:     width,
		height:    height,
		showSMA20: showSMA20,
		showSMA50: showSMA50,
		showRSI:   showRSI,
	}
}

// cell is one grid position: a rune plus its style.
type cell struct {
	ch rune
	st *lipgloss.Style
}

type grid struct {
	rows, cols int
	cells      [][]cell
}

func newGrid(rows, cols int) *grid {
	cells := make([][]cell, rows)
	for i := range cells {
		cells[i] = make([]cell, cols)
		for j := range cells[i] {
			cells[i][j] = cell{ch: ' '}
		}
	}
	return &grid{rows: rows, cols: cols, cells: cells}
}

func (g *grid) set(row, col int, ch rune, st *lipgloss.Style) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	g.cells[row][col] = cell{ch: ch, st: st}
}

// flush renders a row, merging runs of equal style into single Render calls.
func (g *grid) flush(b *strings.Builder, row int) {
	var run strings.Builder
	var cur *lipgloss.Style
	emit := func() {
		if run.Len() == 0 {
			return
		}
		if cur != nil {
			b.WriteString(cur.Render(run.String()))
		} else {
			b.WriteString(run.String())
		}
		run.Reset()
	}
	for _, c := range g.cells[row] {
		if c.st != cur {
			emit()
			cur = c.st
		}
		run.WriteRune(c.ch)
	}
	emit()
}

// rowFor maps a value onto a row index, row 0 being the top (hi).
func rowFor(v, lo, hi float64, rows int) int {
	if rows <= 1 || hi <= lo {
		return rows / 2
	}
	r := int(math.Round((hi - v) / (hi - lo) * float64(rows-1)))
	if r < 0 {
		r = 0
	}
	if r >= rows {
		r = rows - 1
	}
	return r
}

// Render draws the chart. The output always has exactly r.height lines,
// each r.width display cells wide.
func (r *Renderer) Render(s Series) string {
	plotW := r.width - axisWidth
	priceRows := r.height - 1 // time axis line
	if r.showRSI {
		priceRows -= oscRows + 1 // panel plus its title row
	}
	if plotW < 10 || priceRows < 4 {
		return pad(axisStyle.Render("window too small for chart"), r.width, r.height)
	}
	if len(s.Candles) == 0 {
		return pad(axisStyle.Render("no price data"), r.width, r.height)
	}

	// Show the most recent candles that fit.
	n := len(s.Candles)
	if n > plotW {
		n = plotW
	}
	off := len(s.Candles) - n
	candles := s.Candles[off:]
	sma20 := tail(s.SMA20, off)
	sma50 := tail(s.SMA50, off)
	rsi := tail(s.RSI, off)

	lo, hi := priceBounds(candles, r.overlays(sma20, sma50))

	g := newGrid(priceRows, plotW)
	for i, c := range candles {
		st := &upStyle
		if c.Close < c.Open {
			st = &downStyle
		}
		wickTop := rowFor(c.High, lo, hi, priceRows)
		wickBot := rowFor(c.Low, lo, hi, priceRows)
		bodyTop := rowFor(math.Max(c.Open, c.Close), lo, hi, priceRows)
		bodyBot := rowFor(math.Min(c.Open, c.Close), lo, hi, priceRows)
		for row := wickTop; row <= wickBot; row++ {
			g.set(row, i, '│', st)
		}
		for row := bodyTop; row <= bodyBot; row++ {
			g.set(row, i, '█', st)
		}
	}
	if r.showSMA20 {
		plotMarks(g, sma20, lo, hi, '·', &sma20Style)
	}
	if r.showSMA50 {
		plotMarks(g, sma50, lo, hi, '·', &sma50Style)
	}

	var b strings.Builder
	labels := priceLabels(lo, hi, priceRows)
	for row := 0; row < priceRows; row++ {
		b.WriteString(axisStyle.Render(labels[row]))
		g.flush(&b, row)
		b.WriteString("\n")
	}

	b.WriteString(timeAxis(candles, plotW))

	if r.showRSI {
		b.WriteString("\n")
		b.WriteString(r.renderOscillator(rsi, plotW))
	}
	return strings.TrimRight(b.String(), "\n")
}

// overlays collects the indicator slices that participate in price scaling.
func (r *Renderer) overlays(sma20, sma50 []float64) [][]float64 {
	var out [][]float64
	if r.showSMA20 {
		out = append(out, sma20)
	}
	if r.showSMA50 {
		out = append(out, sma50)
	}
	return out
}

// renderOscillator draws the RSI panel on a fixed 0-100 scale with guide
// lines at 30 and 70.
func (r *Renderer) renderOscillator(rsi []float64, plotW int) string {
	g := newGrid(oscRows, plotW)

	r70 := rowFor(70, 0, 100, oscRows)
	r30 := rowFor(30, 0, 100, oscRows)
	for col := 0; col < plotW; col++ {
		g.set(r70, col, '┄', &guideStyle)
		g.set(r30, col, '┄', &guideStyle)
	}
	plotMarks(g, rsi, 0, 100, '•', &rsiStyle)

	var b strings.Builder
	b.WriteString(axisStyle.Render(padRight(" RSI 14", axisWidth+plotW)))
	b.WriteString("\n")
	for row := 0; row < oscRows; row++ {
		label := strings.Repeat(" ", axisWidth)
		switch row {
		case r70:
			label = fmt.Sprintf("%*s", axisWidth, "70 ")
		case r30:
			label = fmt.Sprintf("%*s", axisWidth, "30 ")
		}
		b.WriteString(axisStyle.Render(label))
		g.flush(&b, row)
		if row < oscRows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// plotMarks draws a value series as point markers, skipping NaN positions
// so gaps stay gaps instead of shifting later columns.
func plotMarks(g *grid, vals []float64, lo, hi float64, ch rune, st *lipgloss.Style) {
	for i, v := range vals {
		if i >= g.cols {
			break
		}
		if math.IsNaN(v) {
			continue
		}
		g.set(rowFor(v, lo, hi, g.rows), i, ch, st)
	}
}

// priceBounds scans candle highs/lows and any visible overlays.
func priceBounds(candles []findash.Candle, overlays [][]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, c := range candles {
		if c.Low < lo {
			lo = c.Low
		}
		if c.High > hi {
			hi = c.High
		}
	}
	for _, ov := range overlays {
		for _, v := range ov {
			if math.IsNaN(v) {
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if math.IsInf(lo, 1) {
		lo, hi = 0, 1
	}
	return lo, hi
}

// priceLabels builds the left gutter: hi at the top, lo at the bottom, the
// midpoint in the middle.
func priceLabels(lo, hi float64, rows int) []string {
	labels := make([]string, rows)
	blank := strings.Repeat(" ", axisWidth)
	for i := range labels {
		labels[i] = blank
	}
	put := func(row int, v float64) {
		labels[row] = fmt.Sprintf("%*.2f ", axisWidth-1, v)
	}
	put(0, hi)
	put(rows-1, lo)
	if rows > 4 {
		put(rows/2, lo+(hi-lo)/2)
	}
	return labels
}

// timeAxis renders the first and last visible candle dates under the plot.
func timeAxis(candles []findash.Candle, plotW int) string {
	first := candles[0].Time
	last := candles[len(candles)-1].Time
	gap := plotW - len(first) - len(last)
	line := strings.Repeat(" ", axisWidth)
	if gap < 1 {
		line += padRight(last, plotW)
	} else {
		line += first + strings.Repeat(" ", gap) + last
	}
	return axisStyle.Render(line)
}

// tail slices a series at the same offset as the visible candles, tolerating
// short inputs.
func tail(vals []float64, off int) []float64 {
	if off >= len(vals) {
		return nil
	}
	return vals[off:]
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// pad centers a message in an otherwise blank block of the renderer's size.
func pad(msg string, width, height int) string {
	if width < 1 || height < 1 {
		return msg
	}
	lines := make([]string, height)
	blank := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = blank
	}
	lines[height/2] = lipgloss.PlaceHorizontal(width, lipgloss.Center, msg)
	return strings.Join(lines, "\n")
}
