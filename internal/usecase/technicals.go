package usecase

import (
	"context"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
	domsvc "github.com/Bean0-0/tli-strategy-app/internal/domain/service"
	"github.com/Bean0-0/tli-strategy-app/pkg/logger"
)

// trendBand is the noise filter around the 50-day moving average: price must
// clear the MA by 2% in either direction before the trend label moves off
// neutral.
const trendBand = 0.02

// TechnicalEstimator sources raw indicator values and derives the trend and
// momentum labels from them.
type TechnicalEstimator struct {
	indicators domsvc.IndicatorProvider
	log        *logger.Logger
}

// NewTechnicalEstimator creates an estimator. The indicator provider may be
// nil when no indicator feed is configured.
func NewTechnicalEstimator(indicators domsvc.IndicatorProvider, log *logger.Logger) *TechnicalEstimator {
	return &TechnicalEstimator{indicators: indicators, log: log}
}

// Derive builds the technical snapshot for a symbol. Without a current price
// no indicator is meaningful, so the all-neutral snapshot returns
// immediately. Each provider call is independently guarded.
func (e *TechnicalEstimator) Derive(ctx context.Context, symbol string, market models.MarketSnapshot) models.TechnicalSnapshot {
	snap := models.TechnicalSnapshot{
		MacdSignal: models.MacdNeutral,
		Trend:      models.TrendNeutral,
	}

	if market.CurrentPrice == nil {
		return snap
	}
	price := *market.CurrentPrice

	if e.indicators != nil {
		if rsi, err := e.indicators.RSI(ctx, symbol); err != nil {
			e.log.Warn("rsi fetch failed", logger.String("symbol", symbol), logger.Error(err))
		} else {
			snap.RSI = &rsi
		}

		if ma50, err := e.indicators.SMA(ctx, symbol, 50); err != nil {
			e.log.Warn("sma fetch failed", logger.String("symbol", symbol), logger.Error(err))
		} else {
			snap.MA50 = &ma50
		}
	}

	if snap.MA50 != nil {
		switch {
		case price > *snap.MA50*(1+trendBand):
			snap.Trend = models.TrendBullish
		case price < *snap.MA50*(1-trendBand):
			snap.Trend = models.TrendBearish
		}
	}

	if snap.RSI != nil {
		switch {
		case *snap.RSI > 70:
			snap.MacdSignal = models.MacdOverbought
		case *snap.RSI < 30:
			snap.MacdSignal = models.MacdOversold
		case snap.Trend == models.TrendBullish:
			snap.MacdSignal = models.MacdBullish
		case snap.Trend == models.TrendBearish:
			snap.MacdSignal = models.MacdBearish
		}
	}

	return snap
}
