package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
	"github.com/Bean0-0/tli-strategy-app/internal/domain/repository"
	"github.com/Bean0-0/tli-strategy-app/pkg/cache"
	"github.com/Bean0-0/tli-strategy-app/pkg/logger"
)

// Analyzer runs the full per-symbol evaluation: market fetch, indicator
// derivation, cross-validation scoring, persistence and event publishing.
type Analyzer struct {
	aggregator *MarketAggregator
	technicals *TechnicalEstimator
	store      repository.EvaluationStore
	publisher  repository.Publisher
	cache      cache.Service
	cacheTTL   time.Duration
	metrics    repository.Metrics
	log        *logger.Logger
}

// NewAnalyzer creates an Analyzer. publisher and cache may be nil when the
// corresponding backends are disabled.
func NewAnalyzer(
	aggregator *MarketAggregator,
	technicals *TechnicalEstimator,
	store repository.EvaluationStore,
	publisher repository.Publisher,
	c cache.Service,
	cacheTTL time.Duration,
	metrics repository.Metrics,
	log *logger.Logger,
) *Analyzer {
	return &Analyzer{
		aggregator: aggregator,
		technicals: technicals,
		store:      store,
		publisher:  publisher,
		cache:      c,
		cacheTTL:   cacheTTL,
		metrics:    metrics,
		log:        log,
	}
}

// Analyze evaluates one symbol against its analyst signal and upserts the
// resulting record. The evaluation itself never fails: with no market data
// at all, or on a panic inside scoring, it degrades to the raw-signal
// fallback record. Only persistence errors surface to the caller.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, sig models.TliSignal) (*models.EvaluationRecord, error) {
	start := time.Now()
	rec := a.evaluate(ctx, symbol, sig)

	if err := a.store.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist evaluation: %w", err)
	}

	if a.publisher != nil {
		if err := a.publisher.PublishEvaluation(ctx, rec); err != nil {
			a.log.Warn("publish evaluation failed", logger.String("symbol", symbol), logger.Error(err))
		}
	}

	if a.metrics != nil {
		a.metrics.RecordEvaluation(symbol, string(rec.OverallRecommendation))
		a.metrics.RecordLatency("analyze", time.Since(start).Seconds())
	}

	a.log.Info("symbol analyzed",
		logger.String("symbol", symbol),
		logger.String("recommendation", string(rec.OverallRecommendation)),
		logger.Float64("score", rec.AgreementScore),
		logger.Bool("degraded", rec.Degraded))

	return rec, nil
}

// evaluate produces a record unconditionally: a priceless snapshot or a
// panic anywhere in the market/technical/scoring path yields the degraded
// fallback instead of propagating.
func (a *Analyzer) evaluate(ctx context.Context, symbol string, sig models.TliSignal) (rec *models.EvaluationRecord) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("evaluation panicked, falling back",
				logger.String("symbol", symbol),
				logger.Any("panic", r))
			rec = DegradedRecord(symbol, sig)
		}
	}()

	market := a.fetchSnapshot(ctx, symbol)
	if market.CurrentPrice == nil {
		a.log.Warn("no market data available, degrading to raw signal",
			logger.String("symbol", symbol))
		return DegradedRecord(symbol, sig)
	}
	tech := a.technicals.Derive(ctx, symbol, market)
	return Score(symbol, sig, market, tech)
}

// fetchSnapshot consults the cache before the provider chain and caches any
// snapshot that carries a price.
func (a *Analyzer) fetchSnapshot(ctx context.Context, symbol string) models.MarketSnapshot {
	key := cache.GenerateKey("snapshot", symbol)
	if a.cache != nil {
		var cached models.MarketSnapshot
		if err := a.cache.Get(ctx, key, &cached); err == nil && cached.CurrentPrice != nil {
			return cached
		}
	}

	snap := a.aggregator.Fetch(ctx, symbol)
	if a.cache != nil && snap.CurrentPrice != nil {
		if err := a.cache.Set(ctx, key, snap, a.cacheTTL); err != nil {
			a.log.Warn("snapshot cache write failed", logger.String("symbol", symbol), logger.Error(err))
		}
	}
	return snap
}

// Get returns the stored evaluation for a symbol, nil when none exists.
func (a *Analyzer) Get(ctx context.Context, symbol string) (*models.EvaluationRecord, error) {
	return a.store.Get(ctx, symbol)
}

// List returns all stored evaluations, newest first.
func (a *Analyzer) List(ctx context.Context) ([]*models.EvaluationRecord, error) {
	return a.store.List(ctx)
}
