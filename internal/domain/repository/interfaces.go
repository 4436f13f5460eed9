package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
)

// ErrNotFound reports that the addressed record does not exist. Stores wrap
// it so handlers can map the condition to a 404.
var ErrNotFound = errors.New("not found")

// LevelStore persists extracted price levels.
type LevelStore interface {
	SaveLevels(ctx context.Context, levels []models.ExtractedLevel) error
	ListLevels(ctx context.Context, symbol string, limit int) ([]models.ExtractedLevel, error)
	Symbols(ctx context.Context) ([]string, error)
	Health(ctx context.Context) error
}

// EvaluationStore persists evaluation records, one row per symbol (upsert).
type EvaluationStore interface {
	Upsert(ctx context.Context, rec *models.EvaluationRecord) error
	Get(ctx context.Context, symbol string) (*models.EvaluationRecord, error)
	List(ctx context.Context) ([]*models.EvaluationRecord, error)
}

// PositionStore persists trading positions.
type PositionStore interface {
	SavePosition(ctx context.Context, p *models.Position) error
	ClosePosition(ctx context.Context, id string, exitPrice float64, closedAt time.Time) error
	ListPositions(ctx context.Context) ([]*models.Position, error)
}

// AlertStore persists price alerts.
type AlertStore interface {
	SaveAlert(ctx context.Context, a *models.Alert) error
	DeleteAlert(ctx context.Context, id string) error
	ListAlerts(ctx context.Context, includeTriggered bool) ([]*models.Alert, error)
	MarkTriggered(ctx context.Context, id string, at time.Time) error
}

// Publisher publishes evaluation events for downstream consumers.
type Publisher interface {
	PublishEvaluation(ctx context.Context, rec *models.EvaluationRecord) error
	Close() error
}

// PriceStream is a realtime trade feed used by the alert watcher.
type PriceStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context, symbols []string) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Metrics records operational counters and gauges.
type Metrics interface {
	RecordExtraction(path string, symbols, levels int)
	RecordProviderError(provider string)
	RecordError(kind string)
	RecordEvaluation(symbol, recommendation string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
