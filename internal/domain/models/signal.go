package models

// Recommendation is the coarse action distilled from the analyst's text.
type Recommendation string

const (
	RecBuy  Recommendation = "buy"
	RecSell Recommendation = "sell"
	RecWait Recommendation = "wait"
	RecHold Recommendation = "hold"
)

// Confidence grades how firmly the text backs the recommendation.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// TliSignal is the per-symbol recommendation derived from an ExtractionResult.
// TargetPrice and StopLoss are nil when the text carried no such level.
type TliSignal struct {
	Recommendation Recommendation `json:"recommendation"`
	TargetPrice    *float64       `json:"target_price,omitempty"`
	StopLoss       *float64       `json:"stop_loss,omitempty"`
	Notes          string         `json:"notes"`
	Confidence     Confidence     `json:"confidence"`
}

// BuyLike reports whether the recommendation argues for taking or holding a
// long position. Used by the scorer's confluence rules.
func (s TliSignal) BuyLike() bool {
	return s.Recommendation == RecBuy || s.Recommendation == "long"
}
