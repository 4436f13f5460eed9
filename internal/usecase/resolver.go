package usecase

import (
	"strings"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
)

// keyword families checked against the notes text, in resolution order.
// The first family with a hit decides the recommendation.
var (
	buyWords  = []string{"buy", "long", "entry", "bullish", "accumulate"}
	sellWords = []string{"sell", "short", "exit", "bearish", "reduce"}
	waitWords = []string{"wait", "watch", "monitor"}
)

// ResolveSignal distills a per-symbol trading signal from an extraction
// result. Target and stop come from the symbol's typed levels; the
// recommendation comes from keyword families in the notes.
func ResolveSignal(result *models.ExtractionResult, symbol string) models.TliSignal {
	sig := models.TliSignal{
		Recommendation: models.RecHold,
		Notes:          result.Notes,
		Confidence:     models.ConfidenceMedium,
	}

	for _, l := range result.Levels {
		if l.Symbol != symbol {
			continue
		}
		switch l.Type {
		case models.LevelTarget, "pt":
			price := l.Price
			sig.TargetPrice = &price
		case models.LevelStopLoss, "stop":
			price := l.Price
			sig.StopLoss = &price
		}
	}

	notes := strings.ToLower(sig.Notes)
	switch {
	case containsAny(notes, buyWords):
		sig.Recommendation = models.RecBuy
		if strings.Contains(notes, "strong") || strings.Contains(notes, "aggressive") {
			sig.Confidence = models.ConfidenceHigh
		}
	case containsAny(notes, sellWords):
		sig.Recommendation = models.RecSell
	case containsAny(notes, waitWords):
		sig.Recommendation = models.RecWait
	}

	return sig
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
