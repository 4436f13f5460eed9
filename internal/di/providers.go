package di

import (
	"context"
	"fmt"
	"time"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/repository"
	domsvc "github.com/Bean0-0/tli-strategy-app/internal/domain/service"
	"github.com/Bean0-0/tli-strategy-app/internal/extract"
	"github.com/Bean0-0/tli-strategy-app/internal/handler/api"
	mid "github.com/Bean0-0/tli-strategy-app/internal/middleware"
	internalrepo "github.com/Bean0-0/tli-strategy-app/internal/repository"
	"github.com/Bean0-0/tli-strategy-app/internal/service/llm"
	"github.com/Bean0-0/tli-strategy-app/internal/service/mailbox"
	"github.com/Bean0-0/tli-strategy-app/internal/service/marketdata"
	"github.com/Bean0-0/tli-strategy-app/internal/service/ratelimit"
	"github.com/Bean0-0/tli-strategy-app/internal/service/stream"
	"github.com/Bean0-0/tli-strategy-app/internal/usecase"
	"github.com/Bean0-0/tli-strategy-app/pkg/cache"
	pkgch "github.com/Bean0-0/tli-strategy-app/pkg/clickhouse"
	"github.com/Bean0-0/tli-strategy-app/pkg/config"
	xhttp "github.com/Bean0-0/tli-strategy-app/pkg/http"
	pkgkafka "github.com/Bean0-0/tli-strategy-app/pkg/kafka"
	applogger "github.com/Bean0-0/tli-strategy-app/pkg/logger"
	"github.com/Bean0-0/tli-strategy-app/pkg/metrics"
	"github.com/Bean0-0/tli-strategy-app/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := cfg.Log.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Log.Format
	if format == "" {
		format = "console"
	}
	output := cfg.Log.Output
	if output == "" {
		output = "stdout"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: output})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and applies the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.Schema()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideCache creates the snapshot cache: memory-over-Redis when Redis is
// enabled, plain in-process memory otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc), nil
}

// ProvidePublisher creates the Kafka evaluation publisher, a noop when
// Kafka is disabled.
func ProvidePublisher(cfg *config.Config) (repository.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NoopPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideHTTPClient creates the outbound HTTP client shared by the market
// data providers.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.Providers.Timeout))
}

// ProvideRateLimiter creates the shared provider rate limiter.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideQuoteChain builds the prioritized quote provider chain.
func ProvideQuoteChain(cfg *config.Config, client *xhttp.Client, limiter *ratelimit.Limiter) []usecase.ChainProvider {
	return []usecase.ChainProvider{
		marketdata.NewAlphaVantage(cfg.Providers.AlphaVantage.APIKey, cfg.Providers.AlphaVantage.BaseURL, client, limiter),
		marketdata.NewFinnhub(cfg.Providers.Finnhub.APIKey, cfg.Providers.Finnhub.BaseURL, client, limiter),
		marketdata.NewYahoo(cfg.Providers.Yahoo.BaseURL, client),
	}
}

// ProvideIndicatorProvider returns the indicator source, nil when the
// primary feed has no credentials.
func ProvideIndicatorProvider(cfg *config.Config, client *xhttp.Client, limiter *ratelimit.Limiter) domsvc.IndicatorProvider {
	if cfg.Providers.AlphaVantage.APIKey == "" {
		return nil
	}
	return marketdata.NewAlphaVantage(cfg.Providers.AlphaVantage.APIKey, cfg.Providers.AlphaVantage.BaseURL, client, limiter)
}

// ProvideAggregator creates the market data aggregator.
func ProvideAggregator(chain []usecase.ChainProvider, log *applogger.Logger, m repository.Metrics) *usecase.MarketAggregator {
	return usecase.NewMarketAggregator(chain, log, m)
}

// ProvideTechnicals creates the technical estimator.
func ProvideTechnicals(indicators domsvc.IndicatorProvider, log *applogger.Logger) *usecase.TechnicalEstimator {
	return usecase.NewTechnicalEstimator(indicators, log)
}

// ProvideLevelStore creates the ClickHouse level store.
func ProvideLevelStore(chClient *pkgch.Client) repository.LevelStore {
	return internalrepo.NewCHLevelStore(chClient.DB())
}

// ProvideEvaluationStore creates the ClickHouse evaluation store.
func ProvideEvaluationStore(chClient *pkgch.Client) repository.EvaluationStore {
	return internalrepo.NewCHEvaluationStore(chClient.DB())
}

// ProvidePositionStore creates the ClickHouse position store.
func ProvidePositionStore(chClient *pkgch.Client) repository.PositionStore {
	return internalrepo.NewCHPositionStore(chClient.DB())
}

// ProvideAlertStore creates the ClickHouse alert store.
func ProvideAlertStore(chClient *pkgch.Client) repository.AlertStore {
	return internalrepo.NewCHAlertStore(chClient.DB())
}

// ProvideAnalyzer creates the evaluation analyzer.
func ProvideAnalyzer(
	cfg *config.Config,
	aggregator *usecase.MarketAggregator,
	technicals *usecase.TechnicalEstimator,
	store repository.EvaluationStore,
	publisher repository.Publisher,
	c cache.Service,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.Analyzer {
	return usecase.NewAnalyzer(aggregator, technicals, store, publisher, c, cfg.Cache.SnapshotTTL, m, log)
}

// ProvideExtractor returns the generative extractor, nil when no API key is
// configured so the parser stays on the deterministic path.
func ProvideExtractor(cfg *config.Config, log *applogger.Logger) domsvc.GenerativeExtractor {
	if cfg.Extractor.APIKey == "" {
		return nil
	}
	ex, err := llm.New(llm.Config{
		APIKey:    cfg.Extractor.APIKey,
		Model:     cfg.Extractor.Model,
		MaxTokens: cfg.Extractor.MaxTokens,
		Temp:      cfg.Extractor.Temp,
	}, log)
	if err != nil {
		log.Warn("generative extractor unavailable", applogger.Error(err))
		return nil
	}
	return ex
}

// ProvideParser creates the extraction coordinator.
func ProvideParser(gen domsvc.GenerativeExtractor, log *applogger.Logger, m repository.Metrics) *extract.Coordinator {
	return extract.NewCoordinator(gen, log, m, extract.Options{})
}

// ProvideMailIngestor creates the mailbox ingestor, nil when IMAP is not
// configured.
func ProvideMailIngestor(
	cfg *config.Config,
	parser *extract.Coordinator,
	levels repository.LevelStore,
	analyzer *usecase.Analyzer,
	log *applogger.Logger,
) *usecase.MailIngestor {
	mail := mailbox.NewService(mailbox.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		UseTLS:   cfg.Mail.UseTLS,
	}, log)
	if !mail.IsConfigured() {
		return nil
	}
	return usecase.NewMailIngestor(mail, parser, levels, analyzer, log)
}

// ProvideAlertWatcher creates the price-stream alert watcher, nil when the
// stream is disabled.
func ProvideAlertWatcher(cfg *config.Config, alerts repository.AlertStore, m repository.Metrics, log *applogger.Logger) *usecase.AlertWatcher {
	if !cfg.Stream.Enabled {
		return nil
	}
	checker := usecase.NewAlertChecker(alerts, m, log)
	pipe := mid.NewRealtimePipeline(checker, m,
		mid.WithMaxRPS(4),
		mid.WithBufferSize(1000),
	)
	ws := stream.New(
		cfg.Providers.Finnhub.APIKey,
		cfg.Stream.WebSocketURL,
		cfg.Stream.ReconnectDelay,
		cfg.Stream.PingInterval,
		log,
	)
	return usecase.NewAlertWatcher(ws, checker, pipe, m, log)
}

// ProvideHandler creates the HTTP API handler.
func ProvideHandler(
	log *applogger.Logger,
	parser *extract.Coordinator,
	analyzer *usecase.Analyzer,
	ingestor *usecase.MailIngestor,
	levels repository.LevelStore,
	positions repository.PositionStore,
	alerts repository.AlertStore,
) xhttp.Handler {
	return api.NewHandler(log, parser, analyzer, ingestor, levels, positions, alerts)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	watcher *usecase.AlertWatcher,
	publisher repository.Publisher,
	c cache.Service,
) *server.App {
	app := server.New(cfg, log, handler, chClient, watcher)
	app.AddCloser(publisher.Close)
	if closer, ok := c.(interface{ Close() error }); ok {
		app.AddCloser(closer.Close)
	}
	return app
}
