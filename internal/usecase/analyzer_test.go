package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
)

type fakeEvalStore struct {
	upserted  []*models.EvaluationRecord
	upsertErr error
}

func (f *fakeEvalStore) Upsert(_ context.Context, rec *models.EvaluationRecord) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, rec)
	return nil
}

func (f *fakeEvalStore) Get(context.Context, string) (*models.EvaluationRecord, error) {
	return nil, nil
}

func (f *fakeEvalStore) List(context.Context) ([]*models.EvaluationRecord, error) {
	return nil, nil
}

type fakePublisher struct {
	published int
	err       error
}

func (f *fakePublisher) PublishEvaluation(context.Context, *models.EvaluationRecord) error {
	f.published++
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

func newTestAnalyzer(t *testing.T, store *fakeEvalStore, pub *fakePublisher, providers ...ChainProvider) *Analyzer {
	t.Helper()
	log := testLogger(t)
	agg := NewMarketAggregator(providers, log, nil)
	tech := NewTechnicalEstimator(nil, log)
	return NewAnalyzer(agg, tech, store, pub, nil, 0, nil, log)
}

func TestAnalyzePersistsAndPublishes(t *testing.T) {
	store := &fakeEvalStore{}
	pub := &fakePublisher{}
	price := 100.0
	a := newTestAnalyzer(t, store, pub, &fakeProvider{
		name:       "primary",
		configured: true,
		snap:       models.MarketSnapshot{CurrentPrice: &price},
	})

	rec, err := a.Analyze(context.Background(), "AMD", models.TliSignal{Recommendation: models.RecBuy})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if rec.Symbol != "AMD" || rec.AgreementScore != 65 || rec.Degraded {
		t.Fatalf("unexpected record %+v", rec)
	}
	if len(store.upserted) != 1 || pub.published != 1 {
		t.Fatalf("expected 1 upsert and 1 publish, got %d / %d", len(store.upserted), pub.published)
	}
}

func TestAnalyzeDegradesWithoutMarketData(t *testing.T) {
	store := &fakeEvalStore{}
	a := newTestAnalyzer(t, store, &fakePublisher{})

	rec, err := a.Analyze(context.Background(), "AMD", models.TliSignal{Recommendation: models.RecBuy})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !rec.Degraded {
		t.Fatalf("record not degraded: %+v", rec)
	}
	if rec.AgreementScore != 50 {
		t.Fatalf("agreement score = %v, want 50", rec.AgreementScore)
	}
	if rec.OverallRecommendation != models.OverallRecommendation(models.RecBuy) {
		t.Fatalf("overall = %q, want raw recommendation passthrough", rec.OverallRecommendation)
	}
	want := []string{"External data unavailable - TLI analysis only"}
	if len(rec.Flags) != 1 || rec.Flags[0] != want[0] {
		t.Fatalf("flags = %v, want %v", rec.Flags, want)
	}
	if len(store.upserted) != 1 {
		t.Fatalf("degraded record was not persisted")
	}
}

func TestAnalyzePublishFailureIsNotFatal(t *testing.T) {
	store := &fakeEvalStore{}
	pub := &fakePublisher{err: errors.New("broker down")}
	a := newTestAnalyzer(t, store, pub)

	if _, err := a.Analyze(context.Background(), "AMD", models.TliSignal{Recommendation: models.RecHold}); err != nil {
		t.Fatalf("publish failure should not fail analyze: %v", err)
	}
	if len(store.upserted) != 1 {
		t.Fatalf("record was not persisted")
	}
}

func TestAnalyzeSurfacesPersistenceErrors(t *testing.T) {
	store := &fakeEvalStore{upsertErr: errors.New("clickhouse down")}
	a := newTestAnalyzer(t, store, &fakePublisher{})

	if _, err := a.Analyze(context.Background(), "AMD", models.TliSignal{Recommendation: models.RecHold}); err == nil {
		t.Fatalf("expected persistence error")
	}
}
