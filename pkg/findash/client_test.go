package findash

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoginStoresSessionCookie(t *testing.T) {
	var sawCookie bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok123", Path: "/"})
			json.NewEncoder(w).Encode(map[string]string{"message": "Logged in successfully"})
		case "/api/v1/auth/me":
			c, err := r.Cookie("session")
			if err != nil || c.Value != "tok123" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"})
				return
			}
			sawCookie = true
			json.NewEncoder(w).Encode(User{ID: 7, Email: "a@b.c"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()

	if err := c.Login(ctx, "a@b.c", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	u, err := c.Me(ctx)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if !sawCookie {
		t.Error("session cookie was not sent on /auth/me")
	}
	if u.ID != 7 || u.Email != "a@b.c" {
		t.Errorf("unexpected user: %+v", u)
	}
}

func TestErrorDetailString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Symbol already in watchlist"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.AddSymbol(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != "Symbol already in watchlist" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("status = %d", apiErr.Status)
	}
}

func TestErrorDetailFieldList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address"},{"loc":["body","password"],"msg":"field required"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Register(context.Background(), "nope", "")
	if err == nil {
		t.Fatal("expected error")
	}
	want := "email: value is not a valid email address; password: field required"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestErrorUnstructuredBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Health(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Errorf("status = %d", apiErr.Status)
	}
	// Status line plus raw body.
	if got := apiErr.Message; got != "502 Bad Gateway: upstream exploded" {
		t.Errorf("message = %q", got)
	}
}

func TestPricesQueryAndAlignment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("symbol") != "AAPL" || q.Get("range") != "6mo" || q.Get("interval") != "1wk" {
			t.Errorf("unexpected query: %v", q)
		}
		w.Write([]byte(`{
			"source": "db",
			"symbol": "AAPL",
			"candles": [
				{"t":"2025-08-25","o":100,"h":111,"l":99,"c":100,"v":1000},
				{"t":"2025-08-26","o":100,"h":112,"l":98,"c":110,"v":null}
			],
			"indicators": {"sma20":[null,105.0],"sma50":[null,null],"rsi14":[null,60.5]}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	pd, err := c.Prices(context.Background(), "AAPL", "6mo", "1wk")
	if err != nil {
		t.Fatalf("prices: %v", err)
	}
	if pd.Source != "db" {
		t.Errorf("source = %q", pd.Source)
	}
	if len(pd.Candles) != 2 {
		t.Fatalf("candles = %d", len(pd.Candles))
	}
	if pd.Candles[1].Volume != nil {
		t.Error("expected null volume to decode as nil")
	}
	if len(pd.Indicators.SMA20) != len(pd.Candles) {
		t.Errorf("sma20 length %d != candles %d", len(pd.Indicators.SMA20), len(pd.Candles))
	}
	if pd.Indicators.SMA20[0] != nil || pd.Indicators.SMA20[1] == nil || *pd.Indicators.SMA20[1] != 105.0 {
		t.Errorf("sma20 = %v", pd.Indicators.SMA20)
	}
}

func TestSnapshotsNullEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbols"); got != "AAPL,ZZZZ" {
			t.Errorf("symbols = %q", got)
		}
		w.Write([]byte(`{"AAPL":{"last":110,"prev":100,"pct":10.0},"ZZZZ":null}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	snaps, err := c.Snapshots(context.Background(), []string{"AAPL", "ZZZZ"})
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}
	if snaps["AAPL"] == nil || snaps["AAPL"].Last != 110 {
		t.Errorf("AAPL snapshot = %+v", snaps["AAPL"])
	}
	if snaps["ZZZZ"] != nil {
		t.Error("expected nil snapshot for unknown symbol")
	}
}

func TestRemoveItemNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/v1/watchlist/42" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.RemoveItem(context.Background(), 42); err != nil {
		t.Fatalf("remove: %v", err)
	}
}
