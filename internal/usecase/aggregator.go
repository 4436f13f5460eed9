package usecase

import (
	"context"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
	"github.com/Bean0-0/tli-strategy-app/internal/domain/repository"
	domsvc "github.com/Bean0-0/tli-strategy-app/internal/domain/service"
	"github.com/Bean0-0/tli-strategy-app/pkg/logger"
)

// ChainProvider is a quote provider that can report whether it has
// credentials; unconfigured providers are skipped silently.
type ChainProvider interface {
	domsvc.QuoteProvider
	Configured() bool
}

// MarketAggregator merges quote data from a prioritized provider chain.
// A provider past the first is only consulted while the snapshot still has
// no current price; within one merge, first writer wins per field.
type MarketAggregator struct {
	providers []ChainProvider
	log       *logger.Logger
	metrics   repository.Metrics
}

// NewMarketAggregator creates an aggregator over the given chain, in
// priority order.
func NewMarketAggregator(providers []ChainProvider, log *logger.Logger, metrics repository.Metrics) *MarketAggregator {
	return &MarketAggregator{providers: providers, log: log, metrics: metrics}
}

// Fetch builds the best-effort snapshot for a symbol. Provider failures are
// logged and skipped; a chain-wide failure yields an empty snapshot, never
// an error.
func (a *MarketAggregator) Fetch(ctx context.Context, symbol string) models.MarketSnapshot {
	var snap models.MarketSnapshot

	for i, p := range a.providers {
		if !p.Configured() {
			continue
		}
		if i > 0 && snap.CurrentPrice != nil {
			break
		}

		got, err := p.Quote(ctx, symbol)
		if err != nil {
			a.log.Warn("quote provider failed",
				logger.String("provider", p.Name()),
				logger.String("symbol", symbol),
				logger.Error(err))
			if a.metrics != nil {
				a.metrics.RecordProviderError(p.Name())
			}
			continue
		}

		mergeSnapshot(&snap, got)
		a.log.Debug("quote provider merged",
			logger.String("provider", p.Name()),
			logger.String("symbol", symbol))
	}

	if snap.CurrentPrice != nil && a.metrics != nil {
		a.metrics.RecordLastPrice(symbol, *snap.CurrentPrice)
	}
	return snap
}

// mergeSnapshot copies fields from src into dst that dst has not set yet.
func mergeSnapshot(dst *models.MarketSnapshot, src models.MarketSnapshot) {
	if dst.CurrentPrice == nil {
		dst.CurrentPrice = src.CurrentPrice
	}
	if dst.PriceChangePct == nil {
		dst.PriceChangePct = src.PriceChangePct
	}
	if dst.Volume == nil {
		dst.Volume = src.Volume
	}
	if dst.MarketCap == nil {
		dst.MarketCap = src.MarketCap
	}
	if dst.PERatio == nil {
		dst.PERatio = src.PERatio
	}
	if dst.High52W == nil {
		dst.High52W = src.High52W
	}
	if dst.Low52W == nil {
		dst.Low52W = src.Low52W
	}
}
