package symbols

import "testing"

func testDirectory() *Directory {
	return NewDirectory([]Entry{
		{"AAPL", "Apple Inc."},
		{"MSFT", "Microsoft Corporation"},
		{"AMZN", "Amazon.com, Inc."},
		{"AMD", "Advanced Micro Devices, Inc."},
		{"AXP", "American Express Company"},
		{"ABT", "Abbott Laboratories"},
		{"ACN", "Accenture plc"},
		{"ADBE", "Adobe Inc."},
		{"AMGN", "Amgen Inc."},
		{"AMAT", "Applied Materials, Inc."},
	})
}

func TestMatchPrefixAndName(t *testing.T) {
	d := testDirectory()

	got := d.Match("aa")
	if len(got) != 1 || got[0].Symbol != "AAPL" {
		t.Errorf("Match(aa) = %v", got)
	}

	// "micro" matches MSFT and AMD by name substring only.
	got = d.Match("micro")
	if len(got) != 2 || got[0].Symbol != "MSFT" || got[1].Symbol != "AMD" {
		t.Errorf("Match(micro) = %v", got)
	}

	for _, e := range d.Match("a") {
		up := Normalize(e.Name)
		if e.Symbol[0] != 'A' && !contains(up, "A") {
			t.Errorf("entry %v matches neither rule", e)
		}
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestMatchCap(t *testing.T) {
	d := testDirectory()
	// Every test entry has an "a" somewhere in its name.
	got := d.Match("a")
	if len(got) > MaxMatches {
		t.Errorf("Match(a) returned %d entries, cap is %d", len(got), MaxMatches)
	}
	if len(got) != MaxMatches {
		t.Errorf("expected exactly %d matches from 10 candidates, got %d", MaxMatches, len(got))
	}
	// Directory order preserved among matches.
	if got[0].Symbol != "AAPL" || got[1].Symbol != "MSFT" {
		t.Errorf("order not preserved: %v", got)
	}
}

func TestMatchEmptyQuery(t *testing.T) {
	if got := testDirectory().Match("  "); got != nil {
		t.Errorf("Match(blank) = %v, want nil", got)
	}
}

func TestValidTicker(t *testing.T) {
	valid := []string{"AAPL", "BRK.B", "a", "RDS-A", "BTC:USD", "abcdefghij"}
	for _, s := range valid {
		if !ValidTicker(s) {
			t.Errorf("ValidTicker(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "TOOLONGSYMBOL", "AA PL", "X$", "abcdefghijk", "A1"}
	for _, s := range invalid {
		if ValidTicker(s) {
			t.Errorf("ValidTicker(%q) = true, want false", s)
		}
	}
}

func TestQuickAddOffer(t *testing.T) {
	d := testDirectory()

	// Exact symbol already among results: no offer.
	if QuickAddOffer("AAPL", d.Match("AAPL")) {
		t.Error("offer shown for exact existing match")
	}
	// Valid but unmatched: offer.
	if !QuickAddOffer("ZZZZ", d.Match("ZZZZ")) {
		t.Error("offer missing for valid unmatched query")
	}
	// Invalid syntax: no offer.
	if QuickAddOffer("TOOLONGSYMBOL", nil) {
		t.Error("offer shown for invalid ticker")
	}
	// Lowercase query compares against upper-cased symbol.
	if QuickAddOffer("aapl", d.Match("aapl")) {
		t.Error("offer shown for lowercase exact match")
	}
}
