package eastmoney

import (
	"strconv"
	"strings"
	"time"

	"github.com/wonny/siphon/pkg/config"
	"github.com/wonny/siphon/pkg/httputil"
	"github.com/wonny/siphon/pkg/logger"
)

// Client handles communication with the Eastmoney quote and data APIs
// ⭐ SSOT: all Eastmoney API calls go through this client
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger

	quoteURL string // push2 real-time quote API
	histURL  string // push2his kline API
	dataURL  string // datacenter report API
	boardURL string // board ranking HTML fallback
}

// NewClient creates a new Eastmoney client. The endpoints come from config so
// tests can point them at a local server.
func NewClient(cfg config.EastmoneyConfig, log *logger.Logger) *Client {
	hc := httputil.New(log).
		WithRetry(3, 1*time.Second).
		WithRateLimit(cfg.RequestsPerS, 1).
		WithDefaultHeaders(httputil.BrowserHeaders())

	return &Client{
		httpClient: hc,
		logger:     log,
		quoteURL:   strings.TrimRight(cfg.QuoteBaseURL, "/"),
		histURL:    strings.TrimRight(cfg.HistBaseURL, "/"),
		dataURL:    strings.TrimRight(cfg.DataBaseURL, "/"),
		boardURL:   cfg.BoardHTMLURL,
	}
}

// emFloat is a float64 that tolerates the API's "-" placeholder for missing
// values (suspended stocks, unlisted fields) by decoding it as zero.
type emFloat float64

func (f *emFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "-" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = emFloat(v)
	return nil
}

// secID maps a bare 6-digit stock code to Eastmoney's market-qualified id
// ("1." Shanghai, "0." Shenzhen).
func secID(code string) string {
	if strings.HasPrefix(code, "6") || strings.HasPrefix(code, "9") {
		return "1." + code
	}
	return "0." + code
}

// indexSecID maps a prefixed index symbol ("sh000001", "sz399001") to the
// market-qualified id the kline API expects.
func indexSecID(symbol string) string {
	code := symbol
	market := "1"
	switch {
	case strings.HasPrefix(symbol, "sh"):
		code = symbol[2:]
		market = "1"
	case strings.HasPrefix(symbol, "sz"):
		code = symbol[2:]
		market = "0"
	}
	return market + "." + code
}
