package eastmoney

import (
	"encoding/json"
	"testing"

	"github.com/wonny/siphon/pkg/config"
	"github.com/wonny/siphon/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "console", Env: "development"})
}

func testClient(quoteURL, histURL, dataURL, boardURL string) *Client {
	return NewClient(config.EastmoneyConfig{
		QuoteBaseURL: quoteURL,
		HistBaseURL:  histURL,
		DataBaseURL:  dataURL,
		BoardHTMLURL: boardURL,
		RequestsPerS: 1000, // no pacing in tests
	}, testLogger())
}

func TestSecID(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"600519", "1.600519"},
		{"688111", "1.688111"},
		{"000001", "0.000001"},
		{"300750", "0.300750"},
	}

	for _, tt := range tests {
		if got := secID(tt.code); got != tt.want {
			t.Errorf("secID(%s) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestIndexSecID(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"sh000001", "1.000001"},
		{"sz399001", "0.399001"},
		{"sz399006", "0.399006"},
		{"sh000688", "1.000688"},
	}

	for _, tt := range tests {
		if got := indexSecID(tt.symbol); got != tt.want {
			t.Errorf("indexSecID(%s) = %s, want %s", tt.symbol, got, tt.want)
		}
	}
}

func TestEMFloatPlaceholders(t *testing.T) {
	var row struct {
		A emFloat `json:"a"`
		B emFloat `json:"b"`
		C emFloat `json:"c"`
	}

	// Suspended stocks come back with "-" in numeric fields
	payload := `{"a": 12.5, "b": "-", "c": "3.4"}`
	if err := json.Unmarshal([]byte(payload), &row); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if float64(row.A) != 12.5 {
		t.Errorf("A = %v, want 12.5", row.A)
	}
	if float64(row.B) != 0 {
		t.Errorf("B = %v, want 0 for placeholder", row.B)
	}
	if float64(row.C) != 3.4 {
		t.Errorf("C = %v, want 3.4", row.C)
	}
}
