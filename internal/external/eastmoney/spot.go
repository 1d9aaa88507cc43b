package eastmoney

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/wonny/siphon/internal/contracts"
)

// A-share universe: SZ main board, ChiNext, SH main board, STAR market.
const spotMarketFilter = "m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23"

const spotPageSize = 200

// clistResponse is the push2 snapshot envelope.
type clistResponse struct {
	Data *struct {
		Total int       `json:"total"`
		Diff  []spotRow `json:"diff"`
	} `json:"data"`
}

// spotRow is one stock in the snapshot. Field numbers are the push2 API's
// fixed column ids.
type spotRow struct {
	Price        emFloat `json:"f2"`
	ChangePct    emFloat `json:"f3"`
	TurnoverRate emFloat `json:"f8"`
	PETTM        emFloat `json:"f9"`
	VolumeRatio  emFloat `json:"f10"`
	Code         string  `json:"f12"`
	Name         string  `json:"f14"`
	MarketCap    emFloat `json:"f20"`
	Industry     string  `json:"f100"`
}

// FetchSpot fetches the full A-share real-time snapshot, paging through the
// push2 list API until every stock has been seen.
// ⭐ SSOT: the spot snapshot is fetched here only
func (c *Client) FetchSpot(ctx context.Context) ([]contracts.SpotQuote, error) {
	var quotes []contracts.SpotQuote

	for page := 1; ; page++ {
		select {
		case <-ctx.Done():
			return quotes, ctx.Err()
		default:
		}

		params := url.Values{}
		params.Set("pn", strconv.Itoa(page))
		params.Set("pz", strconv.Itoa(spotPageSize))
		params.Set("po", "1")
		params.Set("np", "1")
		params.Set("fltt", "2")
		params.Set("invt", "2")
		params.Set("fid", "f3")
		params.Set("fs", spotMarketFilter)
		params.Set("fields", "f2,f3,f8,f9,f10,f12,f14,f20,f100")

		fullURL := fmt.Sprintf("%s/api/qt/clist/get?%s", c.quoteURL, params.Encode())

		var resp clistResponse
		if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
			return nil, fmt.Errorf("spot page %d failed: %w", page, err)
		}

		if resp.Data == nil || len(resp.Data.Diff) == 0 {
			break
		}

		for _, row := range resp.Data.Diff {
			if row.Code == "" {
				continue
			}
			quotes = append(quotes, contracts.SpotQuote{
				Symbol:       row.Code,
				Name:         row.Name,
				Industry:     row.Industry,
				Price:        float64(row.Price),
				ChangePct:    float64(row.ChangePct),
				VolumeRatio:  float64(row.VolumeRatio),
				TurnoverRate: float64(row.TurnoverRate),
				PETTM:        float64(row.PETTM),
				MarketCap:    float64(row.MarketCap),
			})
		}

		if len(quotes) >= resp.Data.Total || len(resp.Data.Diff) < spotPageSize {
			break
		}
	}

	c.logger.WithField("count", len(quotes)).Debug("Fetched spot snapshot")
	return quotes, nil
}
