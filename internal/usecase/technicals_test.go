package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
	"github.com/Bean0-0/tli-strategy-app/pkg/logger"
)

type fakeIndicators struct {
	rsi    float64
	rsiErr error
	sma    float64
	smaErr error
	calls  int
}

func (f *fakeIndicators) RSI(context.Context, string) (float64, error) {
	f.calls++
	return f.rsi, f.rsiErr
}

func (f *fakeIndicators) SMA(context.Context, string, int) (float64, error) {
	f.calls++
	return f.sma, f.smaErr
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestDeriveNeutralWithoutPrice(t *testing.T) {
	ind := &fakeIndicators{}
	e := NewTechnicalEstimator(ind, testLogger(t))
	snap := e.Derive(context.Background(), "AMD", models.MarketSnapshot{})
	if snap.Trend != models.TrendNeutral || snap.MacdSignal != models.MacdNeutral {
		t.Fatalf("expected neutral snapshot, got %+v", snap)
	}
	if ind.calls != 0 {
		t.Fatalf("indicators should not be consulted without a price, got %d calls", ind.calls)
	}
}

func TestDeriveTrendBand(t *testing.T) {
	cases := []struct {
		price float64
		want  models.Trend
	}{
		{102.1, models.TrendBullish},
		{102, models.TrendNeutral},
		{100, models.TrendNeutral},
		{98, models.TrendNeutral},
		{97.9, models.TrendBearish},
	}
	for _, tc := range cases {
		e := NewTechnicalEstimator(&fakeIndicators{rsi: 50, sma: 100}, testLogger(t))
		snap := e.Derive(context.Background(), "AMD", models.MarketSnapshot{CurrentPrice: fptr(tc.price)})
		if snap.Trend != tc.want {
			t.Fatalf("price %v: got trend %s, want %s", tc.price, snap.Trend, tc.want)
		}
	}
}

func TestDeriveMomentumLabels(t *testing.T) {
	cases := []struct {
		rsi   float64
		price float64
		want  models.MacdSignal
	}{
		{75, 100, models.MacdOverbought},
		{25, 100, models.MacdOversold},
		{50, 110, models.MacdBullish},
		{50, 90, models.MacdBearish},
		{50, 100, models.MacdNeutral},
	}
	for _, tc := range cases {
		e := NewTechnicalEstimator(&fakeIndicators{rsi: tc.rsi, sma: 100}, testLogger(t))
		snap := e.Derive(context.Background(), "AMD", models.MarketSnapshot{CurrentPrice: fptr(tc.price)})
		if snap.MacdSignal != tc.want {
			t.Fatalf("rsi %v price %v: got %s, want %s", tc.rsi, tc.price, snap.MacdSignal, tc.want)
		}
	}
}

func TestDeriveIsolatesIndicatorFailures(t *testing.T) {
	ind := &fakeIndicators{rsiErr: errors.New("rate limited"), sma: 95}
	e := NewTechnicalEstimator(ind, testLogger(t))
	snap := e.Derive(context.Background(), "AMD", models.MarketSnapshot{CurrentPrice: fptr(100)})
	if snap.RSI != nil {
		t.Fatalf("expected nil RSI, got %v", *snap.RSI)
	}
	if snap.MA50 == nil || *snap.MA50 != 95 {
		t.Fatalf("expected MA50 95, got %v", snap.MA50)
	}
	// RSI unknown keeps the momentum label neutral even with a trend.
	if snap.MacdSignal != models.MacdNeutral {
		t.Fatalf("expected neutral momentum, got %s", snap.MacdSignal)
	}
}

func TestDeriveWithoutIndicatorFeed(t *testing.T) {
	e := NewTechnicalEstimator(nil, testLogger(t))
	snap := e.Derive(context.Background(), "AMD", models.MarketSnapshot{CurrentPrice: fptr(100)})
	if snap.RSI != nil || snap.MA50 != nil {
		t.Fatalf("expected empty indicators, got %+v", snap)
	}
	if snap.Trend != models.TrendNeutral || snap.MacdSignal != models.MacdNeutral {
		t.Fatalf("expected neutral labels, got %+v", snap)
	}
}
