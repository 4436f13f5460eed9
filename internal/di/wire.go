//go:build wireinject
// +build wireinject

package di

import (
	"github.com/Bean0-0/tli-strategy-app/pkg/config"
	"github.com/Bean0-0/tli-strategy-app/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideCache,
		ProvidePublisher,
		ProvideHTTPClient,
		ProvideRateLimiter,

		// Market data providers
		ProvideQuoteChain,
		ProvideIndicatorProvider,

		// Repositories
		ProvideLevelStore,
		ProvideEvaluationStore,
		ProvidePositionStore,
		ProvideAlertStore,

		// Use cases
		ProvideAggregator,
		ProvideTechnicals,
		ProvideAnalyzer,
		ProvideExtractor,
		ProvideParser,
		ProvideMailIngestor,
		ProvideAlertWatcher,

		// HTTP surface
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
