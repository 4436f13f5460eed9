package usecase

import (
	"fmt"
	"math"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
)

// CalculatePositionSize sizes a position so the distance to the stop risks
// exactly riskPercent of the account, then reports the realized risk with
// whole shares.
func CalculatePositionSize(accountSize, riskPercent, entryPrice, stopLoss float64) (*models.PositionSize, error) {
	if accountSize <= 0 {
		return nil, fmt.Errorf("account size must be positive")
	}

	riskAmount := accountSize * riskPercent / 100
	riskPerShare := math.Abs(entryPrice - stopLoss)
	if riskPerShare == 0 {
		return nil, fmt.Errorf("entry price and stop loss cannot be the same")
	}

	shares := int64(riskAmount / riskPerShare)
	positionSize := float64(shares) * entryPrice
	actualRisk := float64(shares) * riskPerShare

	return &models.PositionSize{
		Shares:          shares,
		PositionSize:    round2(positionSize),
		PositionPercent: round2(positionSize / accountSize * 100),
		RiskAmount:      round2(actualRisk),
		RiskPercent:     round2(actualRisk / accountSize * 100),
		RiskPerShare:    round2(riskPerShare),
	}, nil
}

// CalculateFibLevels computes retracement and extension prices for a swing.
func CalculateFibLevels(high, low float64) *models.FibLevels {
	diff := high - low

	retracements := map[string]float64{
		"0%":    high,
		"23.6%": high - diff*0.236,
		"38.2%": high - diff*0.382,
		"50%":   high - diff*0.5,
		"61.8%": high - diff*0.618,
		"78.6%": high - diff*0.786,
		"100%":  low,
	}
	extensions := map[string]float64{
		"127.2%": high + diff*0.272,
		"161.8%": high + diff*0.618,
		"200%":   high + diff,
		"261.8%": high + diff*1.618,
		"423.6%": high + diff*3.236,
	}

	for k, v := range retracements {
		retracements[k] = round2(v)
	}
	for k, v := range extensions {
		extensions[k] = round2(v)
	}

	return &models.FibLevels{Retracements: retracements, Extensions: extensions}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
