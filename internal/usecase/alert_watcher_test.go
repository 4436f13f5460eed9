package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
)

type fakeAlertStore struct {
	mu        sync.Mutex
	alerts    []*models.Alert
	triggered []string
}

func (f *fakeAlertStore) SaveAlert(context.Context, *models.Alert) error { return nil }
func (f *fakeAlertStore) DeleteAlert(context.Context, string) error      { return nil }

func (f *fakeAlertStore) ListAlerts(context.Context, bool) ([]*models.Alert, error) {
	return f.alerts, nil
}

func (f *fakeAlertStore) MarkTriggered(_ context.Context, id string, _ time.Time) error {
	f.mu.Lock()
	f.triggered = append(f.triggered, id)
	f.mu.Unlock()
	return nil
}

func (f *fakeAlertStore) triggeredIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.triggered...)
}

func TestAlertCheckerBuyFiresBelowLevel(t *testing.T) {
	store := &fakeAlertStore{alerts: []*models.Alert{
		{ID: "a1", Symbol: "AMD", Price: 100, AlertType: "buy"},
	}}
	c := NewAlertChecker(store, nil, testLogger(t))
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if err := c.Process(context.Background(), &models.Tick{Symbol: "AMD", Price: 101}); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(store.triggered) != 0 {
		t.Fatalf("buy alert fired above level: %v", store.triggered)
	}

	if err := c.Process(context.Background(), &models.Tick{Symbol: "AMD", Price: 99.5}); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(store.triggered) != 1 || store.triggered[0] != "a1" {
		t.Fatalf("expected a1 triggered, got %v", store.triggered)
	}
}

func TestAlertCheckerSellFiresAboveLevel(t *testing.T) {
	store := &fakeAlertStore{alerts: []*models.Alert{
		{ID: "s1", Symbol: "NVDA", Price: 900, AlertType: "sell"},
	}}
	c := NewAlertChecker(store, nil, testLogger(t))
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	_ = c.Process(context.Background(), &models.Tick{Symbol: "NVDA", Price: 899})
	if len(store.triggered) != 0 {
		t.Fatalf("sell alert fired below level: %v", store.triggered)
	}

	_ = c.Process(context.Background(), &models.Tick{Symbol: "NVDA", Price: 900})
	if len(store.triggered) != 1 || store.triggered[0] != "s1" {
		t.Fatalf("expected s1 triggered, got %v", store.triggered)
	}
}

func TestAlertCheckerDisarmsAfterFiring(t *testing.T) {
	store := &fakeAlertStore{alerts: []*models.Alert{
		{ID: "a1", Symbol: "AMD", Price: 100, AlertType: "buy"},
	}}
	c := NewAlertChecker(store, nil, testLogger(t))
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	_ = c.Process(context.Background(), &models.Tick{Symbol: "AMD", Price: 95})
	_ = c.Process(context.Background(), &models.Tick{Symbol: "AMD", Price: 94})
	if len(store.triggered) != 1 {
		t.Fatalf("alert fired more than once: %v", store.triggered)
	}
}

func TestAlertCheckerIgnoresOtherSymbols(t *testing.T) {
	store := &fakeAlertStore{alerts: []*models.Alert{
		{ID: "a1", Symbol: "AMD", Price: 100, AlertType: "buy"},
	}}
	c := NewAlertChecker(store, nil, testLogger(t))
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	_ = c.Process(context.Background(), &models.Tick{Symbol: "NVDA", Price: 1})
	if len(store.triggered) != 0 {
		t.Fatalf("alert fired for wrong symbol: %v", store.triggered)
	}
}

// fakeStream fails its first read session and serves ticks from the second
// one onward, mimicking the websocket client's close-channels-on-error
// behavior.
type fakeStream struct {
	mu         sync.Mutex
	reads      int
	reconnects int
	tick       *models.Tick
}

func (f *fakeStream) Connect(context.Context) error             { return nil }
func (f *fakeStream) Subscribe(context.Context, []string) error { return nil }
func (f *fakeStream) Close() error                              { return nil }
func (f *fakeStream) IsConnected() bool                         { return true }

func (f *fakeStream) Reconnect(context.Context) error {
	f.mu.Lock()
	f.reconnects++
	f.mu.Unlock()
	return nil
}

func (f *fakeStream) Read(context.Context) (<-chan *models.Tick, <-chan error) {
	f.mu.Lock()
	f.reads++
	session := f.reads
	f.mu.Unlock()

	tickCh := make(chan *models.Tick, 1)
	errCh := make(chan error, 1)
	if session == 1 {
		errCh <- errors.New("read: connection reset")
		close(tickCh)
		close(errCh)
	} else {
		tickCh <- f.tick
	}
	return tickCh, errCh
}

func (f *fakeStream) counts() (reads, reconnects int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads, f.reconnects
}

func TestAlertWatcherResumesAfterStreamError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &fakeAlertStore{alerts: []*models.Alert{
		{ID: "a1", Symbol: "AMD", Price: 100, AlertType: "buy"},
	}}
	fs := &fakeStream{tick: &models.Tick{Symbol: "AMD", Price: 95}}
	checker := NewAlertChecker(store, nil, testLogger(t))
	w := NewAlertWatcher(fs, checker, nil, nil, testLogger(t))

	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for len(store.triggeredIDs()) == 0 {
		select {
		case <-deadline:
			reads, reconnects := fs.counts()
			t.Fatalf("alert never fired after stream error (reads=%d reconnects=%d)", reads, reconnects)
		case <-time.After(5 * time.Millisecond):
		}
	}

	if got := store.triggeredIDs(); len(got) != 1 || got[0] != "a1" {
		t.Fatalf("triggered = %v, want [a1]", got)
	}
	reads, reconnects := fs.counts()
	if reads < 2 || reconnects < 1 {
		t.Fatalf("watcher did not reopen the stream: reads=%d reconnects=%d", reads, reconnects)
	}
}
