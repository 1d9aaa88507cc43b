package eastmoney

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/siphon/internal/contracts"
)

// FetchBoardRanking fetches the industry board ranking, strongest first. The
// push2 board API is tried first; on failure the board page HTML is scraped
// as a fallback, which survives quote-API outages.
// ⭐ SSOT: board rankings are fetched here only
func (c *Client) FetchBoardRanking(ctx context.Context) ([]contracts.BoardQuote, error) {
	boards, err := c.fetchBoardJSON(ctx)
	if err == nil && len(boards) > 0 {
		return boards, nil
	}
	if err != nil {
		c.logger.WithError(err).Warn("Board API failed, falling back to HTML")
	}
	return c.fetchBoardHTML(ctx)
}

func (c *Client) fetchBoardJSON(ctx context.Context) ([]contracts.BoardQuote, error) {
	params := url.Values{}
	params.Set("pn", "1")
	params.Set("pz", "100")
	params.Set("po", "1")
	params.Set("np", "1")
	params.Set("fltt", "2")
	params.Set("fid", "f3")
	params.Set("fs", "m:90+t:2") // industry boards
	params.Set("fields", "f2,f3,f12,f14")

	fullURL := fmt.Sprintf("%s/api/qt/clist/get?%s", c.quoteURL, params.Encode())

	var resp clistResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
		return nil, fmt.Errorf("board request failed: %w", err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("board response empty")
	}

	boards := make([]contracts.BoardQuote, 0, len(resp.Data.Diff))
	for _, row := range resp.Data.Diff {
		if row.Name == "" {
			continue
		}
		boards = append(boards, contracts.BoardQuote{
			Code:      row.Code,
			Name:      row.Name,
			ChangePct: float64(row.ChangePct),
		})
	}
	return boards, nil
}

// fetchBoardHTML scrapes the board ranking table from the fallback page.
func (c *Client) fetchBoardHTML(ctx context.Context) ([]contracts.BoardQuote, error) {
	resp, err := c.httpClient.Get(ctx, c.boardURL)
	if err != nil {
		return nil, fmt.Errorf("board HTML request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	boards := parseBoardHTML(string(body))
	if len(boards) == 0 {
		return nil, fmt.Errorf("no boards parsed from HTML")
	}
	return boards, nil
}

// parseBoardHTML parses the board ranking HTML table. Expected columns:
// rank | board name | change pct | ... (trailing columns ignored).
func parseBoardHTML(html string) []contracts.BoardQuote {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var boards []contracts.BoardQuote
	doc.Find("table tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		name := strings.TrimSpace(cells.Eq(1).Text())
		if name == "" {
			return
		}

		chgText := strings.TrimSpace(cells.Eq(2).Text())
		chgText = strings.TrimSuffix(chgText, "%")
		chg, err := strconv.ParseFloat(chgText, 64)
		if err != nil {
			return
		}

		boards = append(boards, contracts.BoardQuote{
			Name:      name,
			ChangePct: chg,
		})
	})
	return boards
}
