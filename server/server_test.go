package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/etnz/networth/fx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
)

type ratesFunc func(ctx context.Context) (fx.Rates, error)

func (f ratesFunc) Rates(ctx context.Context) (fx.Rates, error) { return f(ctx) }

var ecb = fx.Rates{
	Date:   date.New(2026, 3, 2),
	Base:   "EUR",
	Quotes: map[string]decimal.Decimal{"EUR": decimal.NewFromInt(1), "USD": decimal.RequireFromString("1.25"), "GBP": decimal.RequireFromString("0.8")},
}

func newTestServer(t *testing.T, ratesErr error) *Server {
	t.Helper()
	prices := networth.PriceFunc(func(ctx context.Context, symbol string, on date.Date) (float64, error) {
		if on != date.New(2026, 3, 2) {
			t.Errorf("price asked on %v, want 2026-03-02", on)
		}
		switch symbol {
		case "AAPL":
			return 200, nil
		case "DOWN":
			return 0, errors.New("connection refused")
		default:
			return 0, networth.ErrPriceUnavailable
		}
	})
	rates := ratesFunc(func(ctx context.Context) (fx.Rates, error) { return ecb, ratesErr })
	log, _ := test.NewNullLogger()
	s := New(prices, rates, log)
	s.now = func() time.Time { return time.Date(2026, 3, 2, 15, 4, 5, 0, time.UTC) }
	return s
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var got map[string]any
	if method != http.MethodOptions {
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("%s %s: invalid JSON response %q: %v", method, target, rec.Body.String(), err)
		}
	}
	return rec, got
}

func TestStockPrice(t *testing.T) {
	s := newTestServer(t, nil)
	for _, tt := range []struct {
		target string
		status int
		price  float64
		cur    string
	}{
		{"/stock-price?symbol=aapl", http.StatusOK, 200, "USD"},
		{"/stock-price?symbol=AAPL&currency=eur", http.StatusOK, 160, "EUR"},
		{"/stock-price?symbol=AAPL&currency=BRL", http.StatusOK, 200, "BRL"},
		{"/stock-price", http.StatusBadRequest, 0, ""},
		{"/stock-price?symbol=NOPE", http.StatusNotFound, 0, ""},
		{"/stock-price?symbol=DOWN", http.StatusBadGateway, 0, ""},
	} {
		t.Run(tt.target, func(t *testing.T) {
			rec, got := do(t, s, http.MethodGet, tt.target, "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%v)", rec.Code, tt.status, got)
			}
			if tt.status != http.StatusOK {
				if got["error"] == "" || got["error"] == nil {
					t.Errorf("response %v has no error", got)
				}
				return
			}
			if got["price"] != tt.price || got["currency"] != tt.cur || got["symbol"] != "AAPL" {
				t.Errorf("response = %v, want AAPL %v %s", got, tt.price, tt.cur)
			}
		})
	}
}

func TestStockPrice_NoRates(t *testing.T) {
	s := newTestServer(t, fx.ErrNoRates)
	rec, got := do(t, s, http.MethodGet, "/stock-price?symbol=AAPL&currency=EUR", "")
	if rec.Code != http.StatusOK || got["price"] != 200.0 {
		t.Errorf("response = %d %v, want the unconverted price", rec.Code, got)
	}
}

const snapshotBody = `{
	"assets": [{"id": "permanent-bank-account", "name": "Bank", "value": 1000, "growthRate": 0, "type": "cash"}],
	"income": [{"source": "Salary", "monthlyAmount": 500}],
	"investmentPercentage": 0,
	"yearsToProject": 2
}`

func TestProjection(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/projection?samples=5", strings.NewReader(snapshotBody))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var got Projection
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if got.Years != 2 || len(got.Points) != 5 {
		t.Fatalf("got %v years and %d points, want 2 and 5", got.Years, len(got.Points))
	}
	if first := got.Points[0]; first.NetWorth != 1000 || !first.Date.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first point = %+v, want 1000 on 2026-03-02", first)
	}
	if last := got.Points[4]; last.NetWorth != 1000+500*24 {
		t.Errorf("last NetWorth = %v, want %v", last.NetWorth, 1000+500*24)
	}

	for _, target := range []string{"/projection?samples=0", "/projection?samples=x", "/projection?years=ten"} {
		if rec, _ := do(t, s, http.MethodPost, target, snapshotBody); rec.Code != http.StatusBadRequest {
			t.Errorf("POST %s status = %d, want 400", target, rec.Code)
		}
	}
	if rec, _ := do(t, s, http.MethodPost, "/projection", `{"assets": [`); rec.Code != http.StatusBadRequest {
		t.Errorf("POST /projection with a broken body status = %d, want 400", rec.Code)
	}
	if rec, _ := do(t, s, http.MethodPost, "/projection?years=1&samples=3", snapshotBody); rec.Code != http.StatusOK {
		t.Errorf("POST /projection?years=1 status = %d, want 200", rec.Code)
	}
}

func TestSummary(t *testing.T) {
	s := newTestServer(t, nil)
	rec, got := do(t, s, http.MethodPost, "/summary", snapshotBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got["netWorth"] != 1000.0 || got["monthlySavings"] != 500.0 || got["date"] != "2026-03-02" {
		t.Errorf("response = %v, want net worth 1000 and savings 500 on 2026-03-02", got)
	}
}

func TestRates(t *testing.T) {
	rec, got := do(t, newTestServer(t, nil), http.MethodGet, "/rates", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	rates, _ := got["rates"].(map[string]any)
	if got["base"] != "USD" || rates["USD"] != 1.0 || rates["EUR"] != 0.8 || rates["GBP"] != 0.64 {
		t.Errorf("response = %v, want rates per USD", got)
	}

	if rec, _ := do(t, newTestServer(t, fx.ErrNoRates), http.MethodGet, "/rates", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status without rates = %d, want 503", rec.Code)
	}
}

func TestRouting(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/projection", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("OPTIONS /projection = %d %v, want 200 with CORS headers", rec.Code, rec.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/projection", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /projection = %d, want 405", rec.Code)
	}
}

type refresher struct{ n atomic.Int32 }

func (r *refresher) Refresh(ctx context.Context) error { r.n.Add(1); return nil }

func TestSchedule(t *testing.T) {
	log, _ := test.NewNullLogger()
	if _, err := Schedule("not a spec", &refresher{}, log); err == nil {
		t.Error("Schedule() with an invalid spec want error")
	}
	r := &refresher{}
	c, err := Schedule("@every 10ms", r, log)
	if err != nil {
		t.Fatalf("Schedule() unexpected error: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for r.n.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	<-c.Stop().Done()
	if r.n.Load() == 0 {
		t.Error("Refresh() was never called")
	}
}

func TestListenAndServe(t *testing.T) {
	log, _ := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ListenAndServe(ctx, "127.0.0.1:0", http.NotFoundHandler(), log) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v, want nil after cancel", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("ListenAndServe() did not return after cancel")
	}
}
