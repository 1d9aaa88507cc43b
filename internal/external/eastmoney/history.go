package eastmoney

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/siphon/internal/contracts"
)

// klineResponse is the push2his kline envelope. Each kline is a CSV row in
// fields2 order: date,open,close,high,low,volume,amount,amplitude,chg_pct.
type klineResponse struct {
	Data *struct {
		Code   string   `json:"code"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

func (c *Client) fetchKlines(ctx context.Context, secid string, days int) ([]string, error) {
	params := url.Values{}
	params.Set("secid", secid)
	params.Set("klt", "101") // daily
	params.Set("fqt", "1")   // forward-adjusted
	params.Set("end", "20500101")
	params.Set("lmt", strconv.Itoa(days))
	params.Set("fields1", "f1,f2,f3,f4,f5,f6")
	params.Set("fields2", "f51,f52,f53,f54,f55,f56,f57,f58,f59")

	fullURL := fmt.Sprintf("%s/api/qt/stock/kline/get?%s", c.histURL, params.Encode())

	var resp klineResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
		return nil, fmt.Errorf("kline request failed: %w", err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("kline response empty for %s", secid)
	}
	return resp.Data.Klines, nil
}

// FetchHistory fetches a stock's trailing daily bars, ascending by date.
// ⭐ SSOT: stock kline fetches go through this function only
func (c *Client) FetchHistory(ctx context.Context, symbol string, days int) (contracts.BarSeries, error) {
	klines, err := c.fetchKlines(ctx, secID(symbol), days)
	if err != nil {
		return nil, err
	}

	bars := make(contracts.BarSeries, 0, len(klines))
	for _, line := range klines {
		bar, ok := parseKline(line)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(bars),
	}).Debug("Fetched history")
	return bars, nil
}

// FetchIndexHistory fetches a benchmark index's trailing daily bars.
func (c *Client) FetchIndexHistory(ctx context.Context, indexCode string, days int) (contracts.IndexSeries, error) {
	klines, err := c.fetchKlines(ctx, indexSecID(indexCode), days)
	if err != nil {
		return nil, err
	}

	series := make(contracts.IndexSeries, 0, len(klines))
	for _, line := range klines {
		bar, ok := parseKline(line)
		if !ok {
			continue
		}
		series = append(series, contracts.IndexBar{
			Date:      bar.Date,
			Close:     bar.Close,
			ChangePct: bar.ChangePct,
		})
	}
	return series, nil
}

// FetchLatestClose returns a symbol's most recent close and daily change.
func (c *Client) FetchLatestClose(ctx context.Context, symbol string) (float64, float64, error) {
	bars, err := c.FetchHistory(ctx, symbol, 2)
	if err != nil {
		return 0, 0, err
	}
	last, ok := bars.Last()
	if !ok {
		return 0, 0, fmt.Errorf("no bars for %s", symbol)
	}
	return last.Close, last.ChangePct, nil
}

// parseKline parses one CSV kline row. Malformed rows are skipped rather than
// failing the whole series.
func parseKline(line string) (contracts.Bar, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 6 {
		return contracts.Bar{}, false
	}

	date, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return contracts.Bar{}, false
	}

	open, err1 := strconv.ParseFloat(parts[1], 64)
	closePx, err2 := strconv.ParseFloat(parts[2], 64)
	high, err3 := strconv.ParseFloat(parts[3], 64)
	low, err4 := strconv.ParseFloat(parts[4], 64)
	volume, err5 := strconv.ParseFloat(parts[5], 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return contracts.Bar{}, false
	}

	bar := contracts.Bar{
		Date:   date,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePx,
		Volume: volume,
	}

	if len(parts) >= 9 {
		if chg, err := strconv.ParseFloat(parts[8], 64); err == nil {
			bar.ChangePct = chg
		}
	}
	return bar, true
}
