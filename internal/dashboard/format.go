package dashboard

import (
	"fmt"
	"math"

	"findash/pkg/findash"
)

// ChangePct computes the last-close vs prior-close percentage. It is only
// defined when at least two candles exist.
func ChangePct(candles []findash.Candle) (float64, bool) {
	if len(candles) < 2 {
		return 0, false
	}
	prev := candles[len(candles)-2].Close
	if prev == 0 {
		return 0, false
	}
	last := candles[len(candles)-1].Close
	return (last - prev) / prev * 100, true
}

// FormatChangePct renders a signed two-decimal percentage badge, "+10.00%".
func FormatChangePct(pct float64) string {
	return fmt.Sprintf("%+.2f%%", pct)
}

// FormatPrice formats a price value, or "-" when unset.
func FormatPrice(p float64) string {
	if p == 0 || math.IsNaN(p) {
		return "-"
	}
	if p >= 1000 {
		return fmt.Sprintf("%.0f", p)
	}
	return fmt.Sprintf("%.2f", p)
}

// FormatVolume formats share volume with B/M/K suffixes.
func FormatVolume(v int64) string {
	f := float64(v)
	switch {
	case f >= 1e9:
		return fmt.Sprintf("%.1fB", f/1e9)
	case f >= 1e6:
		return fmt.Sprintf("%.1fM", f/1e6)
	case f >= 1e3:
		return fmt.Sprintf("%.1fK", f/1e3)
	default:
		return fmt.Sprintf("%d", v)
	}
}

// FormatProb renders a probability as a percentage, "62.4%".
func FormatProb(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// FormatSnapshot renders the watchlist badge for a snapshot, "110.00 +10.00%".
// A nil snapshot or missing pct renders as dashes so rows stay aligned.
func FormatSnapshot(s *findash.Snapshot) string {
	if s == nil {
		return fmt.Sprintf("%8s %8s", "-", "-")
	}
	pct := fmt.Sprintf("%8s", "-")
	if s.Pct != nil {
		pct = fmt.Sprintf("%+7.2f%%", *s.Pct)
	}
	return fmt.Sprintf("%8s %s", FormatPrice(s.Last), pct)
}
