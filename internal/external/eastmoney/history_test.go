package eastmoney

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const klinePayload = `{"data":{"code":"600519","klines":[
"2026-08-26,100.0,101.0,102.0,99.5,1200000,121000000,2.5,1.0",
"2026-08-27,101.5,103.0,103.5,101.0,1500000,154000000,2.4,1.98",
"garbage-row",
"2026-08-28,103.0,102.0,104.0,101.5,900000,92000000,2.4,-0.97"
]}}`

func TestFetchHistory(t *testing.T) {
	var gotSecID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecID = r.URL.Query().Get("secid")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, klinePayload)
	}))
	defer server.Close()

	c := testClient(server.URL, server.URL, server.URL, server.URL)

	bars, err := c.FetchHistory(context.Background(), "600519", 60)
	if err != nil {
		t.Fatalf("FetchHistory() error = %v", err)
	}

	if gotSecID != "1.600519" {
		t.Errorf("secid = %s, want 1.600519", gotSecID)
	}

	// Malformed row is skipped, not fatal
	if len(bars) != 3 {
		t.Fatalf("got %d bars, want 3", len(bars))
	}

	last, _ := bars.Last()
	if last.Close != 102.0 {
		t.Errorf("last close = %v, want 102.0", last.Close)
	}
	if last.ChangePct != -0.97 {
		t.Errorf("last change = %v, want -0.97", last.ChangePct)
	}
	if bars[0].Date.Format("2006-01-02") != "2026-08-26" {
		t.Errorf("first date = %v, want 2026-08-26", bars[0].Date)
	}
}

func TestFetchIndexHistory(t *testing.T) {
	var gotSecID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecID = r.URL.Query().Get("secid")
		fmt.Fprint(w, `{"data":{"code":"000001","klines":["2026-08-28,3050.0,3061.2,3070.0,3040.0,250000000,0,1.0,0.37"]}}`)
	}))
	defer server.Close()

	c := testClient(server.URL, server.URL, server.URL, server.URL)

	series, err := c.FetchIndexHistory(context.Background(), "sh000001", 60)
	if err != nil {
		t.Fatalf("FetchIndexHistory() error = %v", err)
	}

	if gotSecID != "1.000001" {
		t.Errorf("secid = %s, want 1.000001", gotSecID)
	}
	if len(series) != 1 {
		t.Fatalf("got %d bars, want 1", len(series))
	}
	if series[0].Close != 3061.2 {
		t.Errorf("close = %v, want 3061.2", series[0].Close)
	}
}

func TestFetchLatestClose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"code":"300750","klines":["2026-08-27,200.0,202.0,203.0,199.0,800000,0,2.0,1.0","2026-08-28,202.5,205.0,206.0,202.0,850000,0,2.0,1.49"]}}`)
	}))
	defer server.Close()

	c := testClient(server.URL, server.URL, server.URL, server.URL)

	px, chg, err := c.FetchLatestClose(context.Background(), "300750")
	if err != nil {
		t.Fatalf("FetchLatestClose() error = %v", err)
	}
	if px != 205.0 {
		t.Errorf("close = %v, want 205.0", px)
	}
	if chg != 1.49 {
		t.Errorf("change = %v, want 1.49", chg)
	}
}

func TestFetchHistoryEmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":null}`)
	}))
	defer server.Close()

	c := testClient(server.URL, server.URL, server.URL, server.URL)

	if _, err := c.FetchHistory(context.Background(), "600000", 60); err == nil {
		t.Error("expected error on empty kline data, got nil")
	}
}
