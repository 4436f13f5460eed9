package models

import "time"

// OverallRecommendation is the graded verdict of cross-validation.
type OverallRecommendation string

const (
	OverallStrongBuy  OverallRecommendation = "strong_buy"
	OverallBuy        OverallRecommendation = "buy"
	OverallHold       OverallRecommendation = "hold"
	OverallSell       OverallRecommendation = "sell"
	OverallStrongSell OverallRecommendation = "strong_sell"
)

// RiskLevel grades observed volatility.
type RiskLevel string

const (
	RiskLow        RiskLevel = "low"
	RiskMedium     RiskLevel = "medium"
	RiskMediumHigh RiskLevel = "medium-high"
	RiskHigh       RiskLevel = "high"
)

// EvaluationRecord is the union of the analyst signal, market snapshot and
// technical snapshot plus the scorer's verdict. One record exists per symbol;
// re-analysis overwrites it in place.
type EvaluationRecord struct {
	Symbol string `json:"symbol"`

	TliRecommendation Recommendation `json:"tli_recommendation"`
	TliTargetPrice    *float64       `json:"tli_target_price"`
	TliStopLoss       *float64       `json:"tli_stop_loss"`
	TliNotes          string         `json:"tli_notes"`
	TliConfidence     Confidence     `json:"tli_confidence"`

	CurrentPrice   *float64 `json:"current_price"`
	PriceChangePct *float64 `json:"price_change_pct"`
	Volume         *int64   `json:"volume"`
	MarketCap      *float64 `json:"market_cap"`
	PERatio        *float64 `json:"pe_ratio"`

	RSI        *float64   `json:"rsi"`
	MacdSignal MacdSignal `json:"macd_signal"`
	MA50       *float64   `json:"ma_50"`
	MA200      *float64   `json:"ma_200"`

	OverallRecommendation OverallRecommendation `json:"overall_recommendation"`
	AgreementScore        float64               `json:"agreement_score"`
	RiskLevel             RiskLevel             `json:"risk_level"`
	Flags                 []string              `json:"flags"`

	// Degraded marks a record built without external data because every
	// provider call failed. OverallRecommendation then carries the raw
	// analyst recommendation, not a threshold classification.
	Degraded  bool      `json:"degraded"`
	UpdatedAt time.Time `json:"updated_at"`
}
