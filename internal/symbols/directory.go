// Package symbols provides the static symbol directory backing the search
// box: typeahead matching against known (symbol, name) pairs and ticker
// syntax validation for free-typed entries.
package symbols

import (
	"regexp"
	"strings"
)

// Entry is one known listing.
type Entry struct {
	Symbol string
	Name   string
}

// MaxMatches caps the number of typeahead results.
const MaxMatches = 8

// defaultEntries is the built-in directory. It only drives typeahead; any
// syntactically valid ticker can still be quick-added and is validated by
// the server on add.
var defaultEntries = []Entry{
	{"AAPL", "Apple Inc."},
	{"MSFT", "Microsoft Corporation"},
	{"GOOGL", "Alphabet Inc."},
	{"AMZN", "Amazon.com, Inc."},
	{"NVDA", "NVIDIA Corporation"},
	{"META", "Meta Platforms, Inc."},
	{"TSLA", "Tesla, Inc."},
	{"BRK.B", "Berkshire Hathaway Inc."},
	{"JPM", "JPMorgan Chase & Co."},
	{"V", "Visa Inc."},
	{"UNH", "UnitedHealth Group Incorporated"},
	{"XOM", "Exxon Mobil Corporation"},
	{"JNJ", "Johnson & Johnson"},
	{"WMT", "Walmart Inc."},
	{"PG", "The Procter & Gamble Company"},
	{"MA", "Mastercard Incorporated"},
	{"HD", "The Home Depot, Inc."},
	{"AVGO", "Broadcom Inc."},
	{"ORCL", "Oracle Corporation"},
	{"COST", "Costco Wholesale Corporation"},
	{"KO", "The Coca-Cola Company"},
	{"PEP", "PepsiCo, Inc."},
	{"BAC", "Bank of America Corporation"},
	{"ADBE", "Adobe Inc."},
	{"CRM", "Salesforce, Inc."},
	{"NFLX", "Netflix, Inc."},
	{"AMD", "Advanced Micro Devices, Inc."},
	{"INTC", "Intel Corporation"},
	{"DIS", "The Walt Disney Company"},
	{"CSCO", "Cisco Systems, Inc."},
	{"QCOM", "QUALCOMM Incorporated"},
	{"IBM", "International Business Machines Corporation"},
	{"T", "AT&T Inc."},
	{"VZ", "Verizon Communications Inc."},
	{"PFE", "Pfizer Inc."},
	{"NKE", "NIKE, Inc."},
	{"MCD", "McDonald's Corporation"},
	{"BA", "The Boeing Company"},
	{"GS", "The Goldman Sachs Group, Inc."},
	{"SPY", "SPDR S&P 500 ETF Trust"},
	{"QQQ", "Invesco QQQ Trust"},
}

// tickerRe accepts 1-10 characters of letters, dot, hyphen, or colon.
var tickerRe = regexp.MustCompile(`^[A-Za-z.\-:]{1,10}$`)

// ValidTicker reports whether s is syntactically acceptable as a ticker.
func ValidTicker(s string) bool {
	return tickerRe.MatchString(s)
}

// Normalize upper-cases and trims a typed query for comparison and commit.
func Normalize(q string) string {
	return strings.ToUpper(strings.TrimSpace(q))
}

// Directory holds the entries searched by the typeahead. It is loaded once
// and never mutated.
type Directory struct {
	entries []Entry
}

// NewDirectory builds a directory over custom entries.
func NewDirectory(entries []Entry) *Directory {
	return &Directory{entries: entries}
}

// Default returns the built-in directory.
func Default() *Directory {
	return &Directory{entries: defaultEntries}
}

// Match returns directory entries whose symbol starts with the upper-cased
// query or whose name contains it, preserving directory order, capped at
// MaxMatches. An empty query matches nothing.
func (d *Directory) Match(query string) []Entry {
	q := Normalize(query)
	if q == "" {
		return nil
	}
	var out []Entry
	for _, e := range d.entries {
		if strings.HasPrefix(e.Symbol, q) || strings.Contains(strings.ToUpper(e.Name), q) {
			out = append(out, e)
			if len(out) == MaxMatches {
				break
			}
		}
	}
	return out
}

// QuickAddOffer reports whether the "add typed symbol" affordance should be
// shown: the normalized query must be a valid ticker and must not already
// appear among the current matches.
func QuickAddOffer(query string, matches []Entry) bool {
	q := Normalize(query)
	if q == "" || !ValidTicker(q) {
		return false
	}
	for _, m := range matches {
		if m.Symbol == q {
			return false
		}
	}
	return true
}
