package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
	drepo "github.com/Bean0-0/tli-strategy-app/internal/domain/repository"
	mid "github.com/Bean0-0/tli-strategy-app/internal/middleware"
	"github.com/Bean0-0/tli-strategy-app/pkg/logger"
)

// AlertChecker fires armed alerts whose price a streamed tick crossed.
type AlertChecker struct {
	alerts  drepo.AlertStore
	log     *logger.Logger
	mu      sync.RWMutex
	armed   map[string][]*models.Alert // by symbol
	metrics drepo.Metrics
}

// NewAlertChecker creates a checker over the alert store.
func NewAlertChecker(alerts drepo.AlertStore, metrics drepo.Metrics, log *logger.Logger) *AlertChecker {
	return &AlertChecker{
		alerts:  alerts,
		metrics: metrics,
		log:     log,
		armed:   make(map[string][]*models.Alert),
	}
}

// Refresh reloads untriggered alerts from the store.
func (c *AlertChecker) Refresh(ctx context.Context) error {
	alerts, err := c.alerts.ListAlerts(ctx, false)
	if err != nil {
		return err
	}
	armed := make(map[string][]*models.Alert)
	for _, a := range alerts {
		armed[a.Symbol] = append(armed[a.Symbol], a)
	}
	c.mu.Lock()
	c.armed = armed
	c.mu.Unlock()
	return nil
}

// Symbols returns the symbols with at least one armed alert.
func (c *AlertChecker) Symbols() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	symbols := make([]string, 0, len(c.armed))
	for s := range c.armed {
		symbols = append(symbols, s)
	}
	return symbols
}

// Process checks one tick against the armed alerts for its symbol. A "buy"
// alert fires when price drops to or below the armed level, everything else
// when price rises to or above it.
func (c *AlertChecker) Process(ctx context.Context, t *models.Tick) error {
	c.mu.RLock()
	armed := c.armed[t.Symbol]
	c.mu.RUnlock()

	for _, a := range armed {
		crossed := t.Price >= a.Price
		if a.AlertType == "buy" {
			crossed = t.Price <= a.Price
		}
		if !crossed {
			continue
		}

		at := time.Unix(t.Timestamp, 0).UTC()
		if err := c.alerts.MarkTriggered(ctx, a.ID, at); err != nil {
			c.log.Error("mark alert triggered failed", logger.String("alert", a.ID), logger.Error(err))
			return err
		}
		c.log.Info("alert triggered",
			logger.String("symbol", a.Symbol),
			logger.String("type", a.AlertType),
			logger.Float64("level", a.Price),
			logger.Float64("price", t.Price))
		if c.metrics != nil {
			c.metrics.RecordLastPrice(t.Symbol, t.Price)
		}

		c.mu.Lock()
		c.armed[t.Symbol] = removeAlert(c.armed[t.Symbol], a.ID)
		c.mu.Unlock()
	}
	return nil
}

func removeAlert(alerts []*models.Alert, id string) []*models.Alert {
	out := alerts[:0]
	for _, a := range alerts {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

// AlertWatcher consumes the realtime price stream and feeds ticks through
// the pipeline into the alert checker.
type AlertWatcher struct {
	stream  drepo.PriceStream
	checker *AlertChecker
	pipe    *mid.RealtimePipeline
	metrics drepo.Metrics
	log     *logger.Logger
}

// NewAlertWatcher creates a watcher.
func NewAlertWatcher(stream drepo.PriceStream, checker *AlertChecker, pipe *mid.RealtimePipeline, metrics drepo.Metrics, log *logger.Logger) *AlertWatcher {
	return &AlertWatcher{stream: stream, checker: checker, pipe: pipe, metrics: metrics, log: log}
}

// IsConnected reports stream connectivity.
func (w *AlertWatcher) IsConnected() bool { return w.stream.IsConnected() }

// Start connects, subscribes to every symbol with an armed alert, and
// consumes the stream until the context ends.
func (w *AlertWatcher) Start(ctx context.Context) error {
	if err := w.checker.Refresh(ctx); err != nil {
		return err
	}
	symbols := w.checker.Symbols()
	if len(symbols) == 0 {
		w.log.Info("no armed alerts, watcher idle")
		return nil
	}

	if err := w.stream.Connect(ctx); err != nil {
		return err
	}
	if err := w.stream.Subscribe(ctx, symbols); err != nil {
		return err
	}
	if w.pipe != nil {
		w.pipe.Start(ctx)
	}

	tickCh, errCh := w.stream.Read(ctx)
	go w.consume(ctx, tickCh, errCh)
	return nil
}

func (w *AlertWatcher) consume(ctx context.Context, tickCh <-chan *models.Tick, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			if !ok {
				// Read goroutine exited and closed its channels.
				tickCh, errCh = w.resume(ctx)
				if tickCh == nil {
					return
				}
				continue
			}
			if err != nil {
				if w.metrics != nil {
					w.metrics.RecordError("stream")
				}
				w.log.Warn("price stream error", logger.Error(err))
				tickCh, errCh = w.resume(ctx)
				if tickCh == nil {
					return
				}
			}
		case t, ok := <-tickCh:
			if !ok {
				tickCh, errCh = w.resume(ctx)
				if tickCh == nil {
					return
				}
				continue
			}
			if t == nil {
				continue
			}
			if w.pipe != nil {
				_ = w.pipe.Process(ctx, t)
			} else {
				_ = w.checker.Process(ctx, t)
			}
		}
	}
}

// resume reconnects the stream and returns fresh read channels. The old
// channels are dead after any stream error, so consuming cannot continue on
// them. Nil channels mean the context ended before a reconnect succeeded.
func (w *AlertWatcher) resume(ctx context.Context) (<-chan *models.Tick, <-chan error) {
	for {
		if ctx.Err() != nil {
			return nil, nil
		}
		if err := w.stream.Reconnect(ctx); err != nil {
			w.log.Error("stream reconnect failed, retrying", logger.Error(err))
			continue
		}
		return w.stream.Read(ctx)
	}
}

// Shutdown stops the pipeline and closes the stream.
func (w *AlertWatcher) Shutdown(ctx context.Context) error {
	if w.pipe != nil {
		w.pipe.Stop()
	}
	return w.stream.Close()
}
