package eastmoney

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// earningsResponse is the datacenter report envelope.
type earningsResponse struct {
	Result *struct {
		Pages int           `json:"pages"`
		Data  []earningsRow `json:"data"`
	} `json:"result"`
}

type earningsRow struct {
	Code      string  `json:"SECURITY_CODE"`
	NetGrowth emFloat `json:"SJLTZ"` // net profit YoY growth, percent
}

const earningsPageSize = 500

// FetchGrowthRates fetches net profit YoY growth per stock from the quarterly
// earnings report table. Recent quarter ends are tried newest first; the first
// date with published data wins. Stocks absent from the table keep growth 0,
// which the fundamental gate treats as "no data, skip the PEG check".
// ⭐ SSOT: earnings data is fetched here only
func (c *Client) FetchGrowthRates(ctx context.Context) (map[string]float64, error) {
	var lastErr error
	for _, reportDate := range recentReportDates(time.Now(), 3) {
		growth, err := c.fetchGrowthForDate(ctx, reportDate)
		if err != nil {
			lastErr = err
			continue
		}
		if len(growth) > 0 {
			c.logger.WithFields(map[string]interface{}{
				"report_date": reportDate,
				"count":       len(growth),
			}).Debug("Fetched earnings growth")
			return growth, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("earnings fetch failed: %w", lastErr)
	}
	return map[string]float64{}, nil
}

func (c *Client) fetchGrowthForDate(ctx context.Context, reportDate string) (map[string]float64, error) {
	growth := make(map[string]float64)

	for page := 1; ; page++ {
		select {
		case <-ctx.Done():
			return growth, ctx.Err()
		default:
		}

		params := url.Values{}
		params.Set("reportName", "RPT_LICO_FN_CPD")
		params.Set("columns", "SECURITY_CODE,SJLTZ")
		params.Set("filter", fmt.Sprintf("(REPORTDATE='%s')", reportDate))
		params.Set("pageSize", strconv.Itoa(earningsPageSize))
		params.Set("pageNumber", strconv.Itoa(page))

		fullURL := fmt.Sprintf("%s/api/data/v1/get?%s", c.dataURL, params.Encode())

		var resp earningsResponse
		if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
			return nil, fmt.Errorf("earnings page %d failed: %w", page, err)
		}
		if resp.Result == nil || len(resp.Result.Data) == 0 {
			break
		}

		for _, row := range resp.Result.Data {
			if row.Code == "" {
				continue
			}
			growth[row.Code] = float64(row.NetGrowth)
		}

		if page >= resp.Result.Pages {
			break
		}
	}

	return growth, nil
}

// recentReportDates returns the last n quarter-end dates not later than now,
// formatted as the report API expects ("2026-06-30").
func recentReportDates(now time.Time, n int) []string {
	dates := make([]string, 0, n)
	year, month := now.Year(), now.Month()

	// Find the most recent elapsed quarter end.
	quarter := (int(month) - 1) / 3 // 0-based current quarter
	for len(dates) < n {
		quarter--
		if quarter < 0 {
			quarter = 3
			year--
		}
		var end time.Time
		switch quarter {
		case 0:
			end = time.Date(year, 3, 31, 0, 0, 0, 0, time.UTC)
		case 1:
			end = time.Date(year, 6, 30, 0, 0, 0, 0, time.UTC)
		case 2:
			end = time.Date(year, 9, 30, 0, 0, 0, 0, time.UTC)
		case 3:
			end = time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
		}
		dates = append(dates, end.Format("2006-01-02"))
	}
	return dates
}
