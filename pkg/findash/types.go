package findash

// HealthStatus is the response of GET /api/v1/health.
type HealthStatus struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// User identifies an authenticated account.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// WatchlistItem is a single watchlist entry owned by the session user.
type WatchlistItem struct {
	ID     int64  `json:"id"`
	Symbol string `json:"symbol"`
}

// Candle is one OHLCV bar. Volume is null for providers that omit it.
type Candle struct {
	Time   string  `json:"t"`
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Close  float64 `json:"c"`
	Volume *int64  `json:"v"`
}

// Indicators holds derived series aligned index-for-index with the candle
// sequence. Leading entries are null where the lookback window is not yet
// filled.
type Indicators struct {
	SMA20 []*float64 `json:"sma20"`
	SMA50 []*float64 `json:"sma50"`
	RSI14 []*float64 `json:"rsi14"`
}

// PriceData is the response of GET /api/v1/prices. Source is "db" when the
// server answered from its cache and "provider" when it hit the live feed.
type PriceData struct {
	Source     string     `json:"source"`
	Symbol     string     `json:"symbol"`
	Candles    []Candle   `json:"candles"`
	Indicators Indicators `json:"indicators"`
}

// Snapshot is the latest close and day-over-day change for one symbol.
// Prev and Pct are null when only a single bar is known.
type Snapshot struct {
	Last float64  `json:"last"`
	Prev *float64 `json:"prev"`
	Pct  *float64 `json:"pct"`
}

// AgentScore is the ML advisory for a symbol at a given horizon.
type AgentScore struct {
	Symbol         string             `json:"symbol"`
	ProbUp         float64            `json:"prob_up"`
	Volatility     float64            `json:"volatility"`
	Regime         string             `json:"regime"`
	Recommendation string             `json:"recommendation"`
	Features       map[string]float64 `json:"features"`
}

// Recognised values for the prices and score query parameters.
var (
	Ranges    = []string{"1mo", "3mo", "6mo", "1y", "2y", "5y", "max"}
	Intervals = []string{"1d", "1wk", "1mo"}
	Horizons  = []string{"day", "swing", "long"}
)
