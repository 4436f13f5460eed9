package marketdata

import (
	"context"
	"fmt"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
	domsvc "github.com/Bean0-0/tli-strategy-app/internal/domain/service"
	"github.com/Bean0-0/tli-strategy-app/internal/service/ratelimit"
	xhttp "github.com/Bean0-0/tli-strategy-app/pkg/http"
)

const defaultFinnhubURL = "https://finnhub.io/api/v1"

// Finnhub is the secondary quote feed. It carries richer fundamentals
// (market cap, P/E) than the primary feed.
type Finnhub struct {
	apiKey  string
	baseURL string
	client  *xhttp.Client
	limiter *ratelimit.Limiter
}

var _ domsvc.QuoteProvider = (*Finnhub)(nil)

// NewFinnhub creates a Finnhub quote provider.
func NewFinnhub(apiKey, baseURL string, client *xhttp.Client, limiter *ratelimit.Limiter) *Finnhub {
	if baseURL == "" {
		baseURL = defaultFinnhubURL
	}
	return &Finnhub{apiKey: apiKey, baseURL: baseURL, client: client, limiter: limiter}
}

func (f *Finnhub) Name() string { return "finnhub" }

func (f *Finnhub) Configured() bool { return f.apiKey != "" }

type fhQuote struct {
	C  float64 `json:"c"`  // current price
	DP float64 `json:"dp"` // percent change
	H  float64 `json:"h"`  // day high
	L  float64 `json:"l"`  // day low
}

type fhMetrics struct {
	Metric struct {
		PEBasicExclExtraTTM  *float64 `json:"peBasicExclExtraTTM"`
		MarketCapitalization *float64 `json:"marketCapitalization"`
	} `json:"metric"`
}

// Quote fetches the quote and basic financials endpoints. A metrics failure
// does not discard the quote data already obtained.
func (f *Finnhub) Quote(ctx context.Context, symbol string) (models.MarketSnapshot, error) {
	var snap models.MarketSnapshot
	if f.limiter != nil && !f.limiter.Allow("finnhub", 60, 1) {
		return snap, fmt.Errorf("finnhub rate limit exceeded")
	}

	var quote fhQuote
	err := f.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    f.baseURL + "/quote",
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"token":  {f.apiKey},
		},
	}, &quote)
	if err != nil {
		return snap, fmt.Errorf("finnhub quote: %w", err)
	}

	if quote.C > 0 {
		c := quote.C
		snap.CurrentPrice = &c
		dp := quote.DP
		snap.PriceChangePct = &dp
	}
	if quote.H > 0 {
		h := quote.H
		snap.High52W = &h
	}
	if quote.L > 0 {
		l := quote.L
		snap.Low52W = &l
	}

	var metrics fhMetrics
	err = f.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    f.baseURL + "/stock/metric",
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"metric": {"all"},
			"token":  {f.apiKey},
		},
	}, &metrics)
	if err == nil {
		snap.PERatio = metrics.Metric.PEBasicExclExtraTTM
		snap.MarketCap = metrics.Metric.MarketCapitalization
	}

	return snap, nil
}
