package usecase

import (
	"reflect"
	"testing"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
)

func fptr(v float64) *float64 { return &v }

func TestScoreStrongBuyConfluence(t *testing.T) {
	sig := models.TliSignal{
		Recommendation: models.RecBuy,
		TargetPrice:    fptr(130),
		StopLoss:       fptr(90),
		Confidence:     models.ConfidenceHigh,
	}
	market := models.MarketSnapshot{CurrentPrice: fptr(100)}
	tech := models.TechnicalSnapshot{
		RSI:        fptr(25),
		MA50:       fptr(95),
		MacdSignal: models.MacdOversold,
	}

	rec := Score("AMD", sig, market, tech)

	// 50 +15 direction +10 upside +10 rsi +5 ma +8 confluence +10 r/r = 108,
	// clamped to 100.
	if rec.AgreementScore != 100 {
		t.Fatalf("expected score 100, got %v", rec.AgreementScore)
	}
	if rec.OverallRecommendation != models.OverallStrongBuy {
		t.Fatalf("expected strong_buy, got %s", rec.OverallRecommendation)
	}
	wantFlags := []string{
		"Strong upside potential: 30.0%",
		"RSI indicates oversold conditions (bullish)",
		"Technical oversold aligns with TLI buy signal",
		"Excellent risk/reward ratio: 3.0:1",
	}
	if !reflect.DeepEqual(rec.Flags, wantFlags) {
		t.Fatalf("unexpected flags %v", rec.Flags)
	}
	if rec.RiskLevel != models.RiskMedium {
		t.Fatalf("expected medium risk, got %s", rec.RiskLevel)
	}
}

func TestScoreBearishConfluence(t *testing.T) {
	sig := models.TliSignal{
		Recommendation: models.RecSell,
		TargetPrice:    fptr(85),
	}
	market := models.MarketSnapshot{CurrentPrice: fptr(100)}
	tech := models.TechnicalSnapshot{
		RSI:        fptr(75),
		MA50:       fptr(110),
		MacdSignal: models.MacdBearish,
	}

	rec := Score("AMD", sig, market, tech)

	// 50 -15 direction -10 above target -10 rsi -5 ma -5 momentum = 5.
	if rec.AgreementScore != 5 {
		t.Fatalf("expected score 5, got %v", rec.AgreementScore)
	}
	if rec.OverallRecommendation != models.OverallStrongSell {
		t.Fatalf("expected strong_sell, got %s", rec.OverallRecommendation)
	}
	wantFlags := []string{
		"Price above target by 15.0%",
		"RSI indicates overbought conditions (bearish)",
		"Price below 50-day MA (bearish)",
	}
	if !reflect.DeepEqual(rec.Flags, wantFlags) {
		t.Fatalf("unexpected flags %v", rec.Flags)
	}
}

func TestScoreNeutralWithoutData(t *testing.T) {
	rec := Score("AMD", models.TliSignal{Recommendation: models.RecHold}, models.MarketSnapshot{}, models.TechnicalSnapshot{})
	if rec.AgreementScore != 50 {
		t.Fatalf("expected score 50, got %v", rec.AgreementScore)
	}
	if rec.OverallRecommendation != models.OverallHold {
		t.Fatalf("expected hold, got %s", rec.OverallRecommendation)
	}
	if len(rec.Flags) != 0 {
		t.Fatalf("expected no flags, got %v", rec.Flags)
	}
}

func TestScoreOverboughtConflictsWithBuy(t *testing.T) {
	sig := models.TliSignal{Recommendation: models.RecBuy}
	tech := models.TechnicalSnapshot{MacdSignal: models.MacdOverbought}
	rec := Score("AMD", sig, models.MarketSnapshot{}, tech)

	// 50 +15 direction -8 conflict = 57.
	if rec.AgreementScore != 57 {
		t.Fatalf("expected score 57, got %v", rec.AgreementScore)
	}
	if rec.Flags[0] != "WARNING: Overbought conditions conflict with buy signal" {
		t.Fatalf("unexpected flags %v", rec.Flags)
	}
}

func TestScoreVolatilityGradesRisk(t *testing.T) {
	market := models.MarketSnapshot{PriceChangePct: fptr(12)}
	rec := Score("AMD", models.TliSignal{Recommendation: models.RecHold}, market, models.TechnicalSnapshot{})
	if rec.RiskLevel != models.RiskHigh {
		t.Fatalf("expected high risk, got %s", rec.RiskLevel)
	}
	if rec.Flags[0] != "High volatility: +12.0% today" {
		t.Fatalf("unexpected flags %v", rec.Flags)
	}

	market = models.MarketSnapshot{PriceChangePct: fptr(-6)}
	rec = Score("AMD", models.TliSignal{Recommendation: models.RecHold}, market, models.TechnicalSnapshot{})
	if rec.RiskLevel != models.RiskMediumHigh {
		t.Fatalf("expected medium-high risk, got %s", rec.RiskLevel)
	}
	if len(rec.Flags) != 0 {
		t.Fatalf("expected no flags, got %v", rec.Flags)
	}
}

func TestScorePoorRiskReward(t *testing.T) {
	sig := models.TliSignal{
		Recommendation: models.RecBuy,
		TargetPrice:    fptr(105),
		StopLoss:       fptr(90),
	}
	market := models.MarketSnapshot{CurrentPrice: fptr(100)}
	rec := Score("AMD", sig, market, models.TechnicalSnapshot{})

	// 50 +15 direction +0 upside(5%) -10 poor r/r = 55.
	if rec.AgreementScore != 55 {
		t.Fatalf("expected score 55, got %v", rec.AgreementScore)
	}
	if rec.Flags[0] != "WARNING: Poor risk/reward ratio: 0.5:1" {
		t.Fatalf("unexpected flags %v", rec.Flags)
	}
}

func TestDegradedRecord(t *testing.T) {
	sig := models.TliSignal{
		Recommendation: models.RecBuy,
		TargetPrice:    fptr(250),
		Confidence:     models.ConfidenceHigh,
	}
	rec := DegradedRecord("AMD", sig)
	if !rec.Degraded {
		t.Fatalf("expected degraded record")
	}
	if rec.AgreementScore != 50 || rec.RiskLevel != models.RiskMedium {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.OverallRecommendation != models.OverallRecommendation(models.RecBuy) {
		t.Fatalf("expected raw recommendation passthrough, got %s", rec.OverallRecommendation)
	}
	if len(rec.Flags) != 1 || rec.Flags[0] != "External data unavailable - TLI analysis only" {
		t.Fatalf("unexpected flags %v", rec.Flags)
	}
}
