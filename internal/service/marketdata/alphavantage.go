package marketdata

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
	domsvc "github.com/Bean0-0/tli-strategy-app/internal/domain/service"
	"github.com/Bean0-0/tli-strategy-app/internal/service/ratelimit"
	xhttp "github.com/Bean0-0/tli-strategy-app/pkg/http"
)

const defaultAlphaVantageURL = "https://www.alphavantage.co/query"

// AlphaVantage is the primary quote feed and the only indicator source.
// The free tier allows 25 calls per day, so every call runs through the
// shared limiter.
type AlphaVantage struct {
	apiKey  string
	baseURL string
	client  *xhttp.Client
	limiter *ratelimit.Limiter
}

var (
	_ domsvc.QuoteProvider     = (*AlphaVantage)(nil)
	_ domsvc.IndicatorProvider = (*AlphaVantage)(nil)
)

// NewAlphaVantage creates an Alpha Vantage provider.
func NewAlphaVantage(apiKey, baseURL string, client *xhttp.Client, limiter *ratelimit.Limiter) *AlphaVantage {
	if baseURL == "" {
		baseURL = defaultAlphaVantageURL
	}
	return &AlphaVantage{apiKey: apiKey, baseURL: baseURL, client: client, limiter: limiter}
}

func (a *AlphaVantage) Name() string { return "alpha_vantage" }

// Configured reports whether an API key is present; unconfigured providers
// are skipped by the aggregator without counting as failures.
func (a *AlphaVantage) Configured() bool { return a.apiKey != "" }

func (a *AlphaVantage) allow() error {
	if a.limiter != nil && !a.limiter.Allow("alpha_vantage", 25, 25.0/86400) {
		return fmt.Errorf("alpha vantage rate limit exceeded")
	}
	return nil
}

type avQuoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
}

// Quote fetches the GLOBAL_QUOTE endpoint.
func (a *AlphaVantage) Quote(ctx context.Context, symbol string) (models.MarketSnapshot, error) {
	var snap models.MarketSnapshot
	if err := a.allow(); err != nil {
		return snap, err
	}

	var resp avQuoteResponse
	err := a.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    a.baseURL,
		QueryParams: map[string][]string{
			"function": {"GLOBAL_QUOTE"},
			"symbol":   {symbol},
			"apikey":   {a.apiKey},
		},
	}, &resp)
	if err != nil {
		return snap, fmt.Errorf("alpha vantage quote: %w", err)
	}
	if len(resp.GlobalQuote) == 0 {
		return snap, fmt.Errorf("alpha vantage quote: empty payload for %s", symbol)
	}

	if v, err := strconv.ParseFloat(resp.GlobalQuote["05. price"], 64); err == nil && v > 0 {
		snap.CurrentPrice = &v
	}
	changeStr := strings.TrimSuffix(resp.GlobalQuote["10. change percent"], "%")
	if v, err := strconv.ParseFloat(changeStr, 64); err == nil {
		snap.PriceChangePct = &v
	}
	if v, err := strconv.ParseInt(resp.GlobalQuote["06. volume"], 10, 64); err == nil && v > 0 {
		snap.Volume = &v
	}

	return snap, nil
}

// latestIndicatorValue picks the most recent date's value out of the
// date-keyed map Alpha Vantage technical endpoints return.
func latestIndicatorValue(series map[string]map[string]string, field string) (float64, error) {
	if len(series) == 0 {
		return 0, fmt.Errorf("empty series")
	}
	dates := make([]string, 0, len(series))
	for d := range series {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	v, err := strconv.ParseFloat(series[dates[0]][field], 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", field, err)
	}
	return v, nil
}

type avRSIResponse struct {
	Series map[string]map[string]string `json:"Technical Analysis: RSI"`
}

// RSI fetches the latest daily 14-period RSI.
func (a *AlphaVantage) RSI(ctx context.Context, symbol string) (float64, error) {
	if err := a.allow(); err != nil {
		return 0, err
	}

	var resp avRSIResponse
	err := a.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    a.baseURL,
		QueryParams: map[string][]string{
			"function":    {"RSI"},
			"symbol":      {symbol},
			"interval":    {"daily"},
			"time_period": {"14"},
			"series_type": {"close"},
			"apikey":      {a.apiKey},
		},
	}, &resp)
	if err != nil {
		return 0, fmt.Errorf("alpha vantage rsi: %w", err)
	}

	v, err := latestIndicatorValue(resp.Series, "RSI")
	if err != nil {
		return 0, fmt.Errorf("alpha vantage rsi: %w", err)
	}
	return v, nil
}

type avSMAResponse struct {
	Series map[string]map[string]string `json:"Technical Analysis: SMA"`
}

// SMA fetches the latest daily simple moving average for the given period.
func (a *AlphaVantage) SMA(ctx context.Context, symbol string, period int) (float64, error) {
	if err := a.allow(); err != nil {
		return 0, err
	}

	var resp avSMAResponse
	err := a.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    a.baseURL,
		QueryParams: map[string][]string{
			"function":    {"SMA"},
			"symbol":      {symbol},
			"interval":    {"daily"},
			"time_period": {strconv.Itoa(period)},
			"series_type": {"close"},
			"apikey":      {a.apiKey},
		},
	}, &resp)
	if err != nil {
		return 0, fmt.Errorf("alpha vantage sma: %w", err)
	}

	v, err := latestIndicatorValue(resp.Series, "SMA")
	if err != nil {
		return 0, fmt.Errorf("alpha vantage sma: %w", err)
	}
	return v, nil
}
