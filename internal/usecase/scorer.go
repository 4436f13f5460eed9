package usecase

import (
	"fmt"
	"math"
	"time"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
)

// Score cross-validates an analyst signal against market and technical data
// and produces the persisted evaluation record. Scoring starts from a
// neutral 50 and moves with each rule below; the final score is clamped to
// [0,100] before the recommendation thresholds apply.
func Score(symbol string, sig models.TliSignal, market models.MarketSnapshot, tech models.TechnicalSnapshot) *models.EvaluationRecord {
	rec := &models.EvaluationRecord{
		Symbol:            symbol,
		TliRecommendation: sig.Recommendation,
		TliTargetPrice:    sig.TargetPrice,
		TliStopLoss:       sig.StopLoss,
		TliNotes:          sig.Notes,
		TliConfidence:     sig.Confidence,

		CurrentPrice:   market.CurrentPrice,
		PriceChangePct: market.PriceChangePct,
		Volume:         market.Volume,
		MarketCap:      market.MarketCap,
		PERatio:        market.PERatio,

		RSI:        tech.RSI,
		MacdSignal: tech.MacdSignal,
		MA50:       tech.MA50,
		MA200:      tech.MA200,

		RiskLevel: models.RiskMedium,
		UpdatedAt: time.Now().UTC(),
	}

	score := 50.0
	var flags []string

	// Analyst direction.
	switch {
	case sig.BuyLike():
		score += 15
	case sig.Recommendation == models.RecSell || sig.Recommendation == "short":
		score -= 15
	}

	// Upside to target.
	if market.CurrentPrice != nil && sig.TargetPrice != nil {
		upside := (*sig.TargetPrice - *market.CurrentPrice) / *market.CurrentPrice * 100
		switch {
		case upside > 20:
			score += 10
			flags = append(flags, fmt.Sprintf("Strong upside potential: %.1f%%", upside))
		case upside > 10:
			score += 5
		case upside < -10:
			score -= 10
			flags = append(flags, fmt.Sprintf("Price above target by %.1f%%", math.Abs(upside)))
		}
	}

	// RSI bands.
	if tech.RSI != nil {
		rsi := *tech.RSI
		switch {
		case rsi < 30:
			score += 10
			flags = append(flags, "RSI indicates oversold conditions (bullish)")
		case rsi > 70:
			score -= 10
			flags = append(flags, "RSI indicates overbought conditions (bearish)")
		case rsi >= 40 && rsi <= 60:
			score += 5
		}
	}

	// Price vs 50-day moving average.
	if market.CurrentPrice != nil && tech.MA50 != nil {
		if *market.CurrentPrice > *tech.MA50 {
			score += 5
		} else {
			score -= 5
			flags = append(flags, "Price below 50-day MA (bearish)")
		}
	}

	// Momentum label, including confluence with the analyst direction.
	switch tech.MacdSignal {
	case models.MacdBullish:
		score += 5
	case models.MacdBearish:
		score -= 5
	case models.MacdOversold:
		if sig.BuyLike() {
			score += 8
			flags = append(flags, "Technical oversold aligns with TLI buy signal")
		}
	case models.MacdOverbought:
		if sig.BuyLike() {
			score -= 8
			flags = append(flags, "WARNING: Overbought conditions conflict with buy signal")
		}
	}

	// Risk/reward against the stop.
	if market.CurrentPrice != nil && sig.TargetPrice != nil && sig.StopLoss != nil {
		risk := *market.CurrentPrice - *sig.StopLoss
		reward := *sig.TargetPrice - *market.CurrentPrice
		if risk > 0 {
			ratio := reward / risk
			switch {
			case ratio >= 3:
				score += 10
				flags = append(flags, fmt.Sprintf("Excellent risk/reward ratio: %.1f:1", ratio))
			case ratio >= 2:
				score += 5
				flags = append(flags, fmt.Sprintf("Good risk/reward ratio: %.1f:1", ratio))
			case ratio < 1:
				score -= 10
				flags = append(flags, fmt.Sprintf("WARNING: Poor risk/reward ratio: %.1f:1", ratio))
			}
		}
	}

	// Volatility grading does not move the score, only the risk level.
	if market.PriceChangePct != nil {
		chg := *market.PriceChangePct
		switch {
		case math.Abs(chg) > 10:
			flags = append(flags, fmt.Sprintf("High volatility: %+.1f%% today", chg))
			rec.RiskLevel = models.RiskHigh
		case math.Abs(chg) > 5:
			rec.RiskLevel = models.RiskMediumHigh
		}
	}

	switch {
	case score >= 75:
		rec.OverallRecommendation = models.OverallStrongBuy
	case score >= 60:
		rec.OverallRecommendation = models.OverallBuy
	case score >= 45:
		rec.OverallRecommendation = models.OverallHold
	case score >= 30:
		rec.OverallRecommendation = models.OverallSell
	default:
		rec.OverallRecommendation = models.OverallStrongSell
	}

	rec.AgreementScore = math.Max(0, math.Min(100, score))
	rec.Flags = flags
	return rec
}

// DegradedRecord is the fallback evaluation produced when no external data
// could be gathered at all. The analyst's raw recommendation passes through
// unscored at a neutral 50.
func DegradedRecord(symbol string, sig models.TliSignal) *models.EvaluationRecord {
	return &models.EvaluationRecord{
		Symbol:                symbol,
		TliRecommendation:     sig.Recommendation,
		TliTargetPrice:        sig.TargetPrice,
		TliStopLoss:           sig.StopLoss,
		TliNotes:              sig.Notes,
		TliConfidence:         sig.Confidence,
		MacdSignal:            models.MacdNeutral,
		OverallRecommendation: models.OverallRecommendation(sig.Recommendation),
		AgreementScore:        50,
		RiskLevel:             models.RiskMedium,
		Flags:                 []string{"External data unavailable - TLI analysis only"},
		Degraded:              true,
		UpdatedAt:             time.Now().UTC(),
	}
}
