package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
)

type fakeProvider struct {
	name       string
	snap       models.MarketSnapshot
	err        error
	configured bool
	calls      int
}

func (f *fakeProvider) Name() string     { return f.name }
func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) Quote(context.Context, string) (models.MarketSnapshot, error) {
	f.calls++
	return f.snap, f.err
}

func TestFetchStopsOncePriceKnown(t *testing.T) {
	first := &fakeProvider{
		name:       "first",
		configured: true,
		snap:       models.MarketSnapshot{CurrentPrice: fptr(100)},
	}
	second := &fakeProvider{name: "second", configured: true}

	a := NewMarketAggregator([]ChainProvider{first, second}, testLogger(t), nil)
	snap := a.Fetch(context.Background(), "AMD")

	if snap.CurrentPrice == nil || *snap.CurrentPrice != 100 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if second.calls != 0 {
		t.Fatalf("second provider should not be consulted, got %d calls", second.calls)
	}
}

func TestFetchMergeFirstWriterWins(t *testing.T) {
	first := &fakeProvider{
		name:       "first",
		configured: true,
		snap:       models.MarketSnapshot{MarketCap: fptr(1e9)},
	}
	second := &fakeProvider{
		name:       "second",
		configured: true,
		snap: models.MarketSnapshot{
			CurrentPrice: fptr(42),
			MarketCap:    fptr(2e9),
		},
	}

	a := NewMarketAggregator([]ChainProvider{first, second}, testLogger(t), nil)
	snap := a.Fetch(context.Background(), "AMD")

	if snap.CurrentPrice == nil || *snap.CurrentPrice != 42 {
		t.Fatalf("expected price from second provider, got %+v", snap)
	}
	if snap.MarketCap == nil || *snap.MarketCap != 1e9 {
		t.Fatalf("expected market cap from first provider, got %+v", snap)
	}
}

func TestFetchSkipsUnconfiguredProviders(t *testing.T) {
	skipped := &fakeProvider{name: "skipped"}
	used := &fakeProvider{
		name:       "used",
		configured: true,
		snap:       models.MarketSnapshot{CurrentPrice: fptr(10)},
	}

	a := NewMarketAggregator([]ChainProvider{skipped, used}, testLogger(t), nil)
	snap := a.Fetch(context.Background(), "AMD")

	if skipped.calls != 0 {
		t.Fatalf("unconfigured provider was consulted")
	}
	if snap.CurrentPrice == nil || *snap.CurrentPrice != 10 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestFetchSurvivesChainWideFailure(t *testing.T) {
	bad := &fakeProvider{name: "bad", configured: true, err: errors.New("timeout")}
	worse := &fakeProvider{name: "worse", configured: true, err: errors.New("rate limited")}

	a := NewMarketAggregator([]ChainProvider{bad, worse}, testLogger(t), nil)
	snap := a.Fetch(context.Background(), "AMD")

	if snap.CurrentPrice != nil || snap.Volume != nil {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
	if bad.calls != 1 || worse.calls != 1 {
		t.Fatalf("both providers should be attempted: %d / %d", bad.calls, worse.calls)
	}
}
