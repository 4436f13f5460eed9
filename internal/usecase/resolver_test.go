package usecase

import (
	"testing"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
)

func TestResolveSignalLevels(t *testing.T) {
	result := &models.ExtractionResult{
		Levels: []models.ExtractedLevel{
			{Symbol: "AMD", Type: models.LevelTarget, Price: 250},
			{Symbol: "AMD", Type: models.LevelStopLoss, Price: 180},
			{Symbol: "NVDA", Type: models.LevelTarget, Price: 900},
		},
	}
	sig := ResolveSignal(result, "AMD")
	if sig.TargetPrice == nil || *sig.TargetPrice != 250 {
		t.Fatalf("unexpected target %v", sig.TargetPrice)
	}
	if sig.StopLoss == nil || *sig.StopLoss != 180 {
		t.Fatalf("unexpected stop %v", sig.StopLoss)
	}
}

func TestResolveSignalBuyBeatsSell(t *testing.T) {
	result := &models.ExtractionResult{Notes: "Sell half, buy the dip later"}
	sig := ResolveSignal(result, "AMD")
	if sig.Recommendation != models.RecBuy {
		t.Fatalf("expected buy, got %s", sig.Recommendation)
	}
	if sig.Confidence != models.ConfidenceMedium {
		t.Fatalf("expected medium confidence, got %s", sig.Confidence)
	}
}

func TestResolveSignalStrongBuyConfidence(t *testing.T) {
	result := &models.ExtractionResult{Notes: "Strong buy on this setup"}
	sig := ResolveSignal(result, "AMD")
	if sig.Recommendation != models.RecBuy || sig.Confidence != models.ConfidenceHigh {
		t.Fatalf("unexpected signal %+v", sig)
	}
}

func TestResolveSignalSellAndWait(t *testing.T) {
	sell := ResolveSignal(&models.ExtractionResult{Notes: "time to reduce exposure"}, "AMD")
	if sell.Recommendation != models.RecSell {
		t.Fatalf("expected sell, got %s", sell.Recommendation)
	}
	wait := ResolveSignal(&models.ExtractionResult{Notes: "monitor the breakdown"}, "AMD")
	if wait.Recommendation != models.RecWait {
		t.Fatalf("expected wait, got %s", wait.Recommendation)
	}
}

func TestResolveSignalDefaultsToHold(t *testing.T) {
	sig := ResolveSignal(&models.ExtractionResult{Notes: "no signal words here at all"}, "AMD")
	if sig.Recommendation != models.RecHold {
		t.Fatalf("expected hold, got %s", sig.Recommendation)
	}
	if sig.Confidence != models.ConfidenceMedium {
		t.Fatalf("expected medium confidence, got %s", sig.Confidence)
	}
	if sig.TargetPrice != nil || sig.StopLoss != nil {
		t.Fatalf("expected nil levels, got %+v", sig)
	}
}
