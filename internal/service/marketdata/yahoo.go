package marketdata

import (
	"context"
	"fmt"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
	domsvc "github.com/Bean0-0/tli-strategy-app/internal/domain/service"
	xhttp "github.com/Bean0-0/tli-strategy-app/pkg/http"
)

const defaultYahooURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// Yahoo is the best-effort public fallback. It needs no credentials and is
// only consulted when the keyed feeds produced no current price.
type Yahoo struct {
	baseURL string
	client  *xhttp.Client
}

var _ domsvc.QuoteProvider = (*Yahoo)(nil)

// NewYahoo creates a Yahoo chart-endpoint quote provider.
func NewYahoo(baseURL string, client *xhttp.Client) *Yahoo {
	if baseURL == "" {
		baseURL = defaultYahooURL
	}
	return &Yahoo{baseURL: baseURL, client: client}
}

func (y *Yahoo) Name() string { return "yahoo" }

func (y *Yahoo) Configured() bool { return true }

type yhChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice  *float64 `json:"regularMarketPrice"`
				ChartPreviousClose  *float64 `json:"chartPreviousClose"`
				RegularMarketVolume *int64   `json:"regularMarketVolume"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

// Quote fetches the daily chart metadata for the symbol.
func (y *Yahoo) Quote(ctx context.Context, symbol string) (models.MarketSnapshot, error) {
	var snap models.MarketSnapshot

	var resp yhChartResponse
	err := y.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     fmt.Sprintf("%s/%s", y.baseURL, symbol),
		Headers: map[string]string{"User-Agent": "Mozilla/5.0"},
		QueryParams: map[string][]string{
			"interval": {"1d"},
			"range":    {"5d"},
		},
	}, &resp)
	if err != nil {
		return snap, fmt.Errorf("yahoo chart: %w", err)
	}
	if len(resp.Chart.Result) == 0 {
		return snap, fmt.Errorf("yahoo chart: no result for %s", symbol)
	}

	meta := resp.Chart.Result[0].Meta
	snap.CurrentPrice = meta.RegularMarketPrice
	snap.Volume = meta.RegularMarketVolume
	if meta.RegularMarketPrice != nil && meta.ChartPreviousClose != nil && *meta.ChartPreviousClose != 0 {
		pct := (*meta.RegularMarketPrice - *meta.ChartPreviousClose) / *meta.ChartPreviousClose * 100
		snap.PriceChangePct = &pct
	}

	return snap, nil
}
