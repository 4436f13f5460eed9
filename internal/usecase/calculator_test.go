package usecase

import (
	"testing"
)

func TestCalculatePositionSize(t *testing.T) {
	got, err := CalculatePositionSize(10000, 1, 50, 45)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Shares != 20 {
		t.Fatalf("expected 20 shares, got %d", got.Shares)
	}
	if got.PositionSize != 1000 || got.PositionPercent != 10 {
		t.Fatalf("unexpected position %+v", got)
	}
	if got.RiskAmount != 100 || got.RiskPercent != 1 || got.RiskPerShare != 5 {
		t.Fatalf("unexpected risk %+v", got)
	}
}

func TestCalculatePositionSizeShortSide(t *testing.T) {
	got, err := CalculatePositionSize(10000, 1, 45, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Shares != 20 || got.RiskPerShare != 5 {
		t.Fatalf("unexpected sizing %+v", got)
	}
}

func TestCalculatePositionSizeRejectsBadInput(t *testing.T) {
	if _, err := CalculatePositionSize(0, 1, 50, 45); err == nil {
		t.Fatalf("expected error for zero account")
	}
	if _, err := CalculatePositionSize(10000, 1, 50, 50); err == nil {
		t.Fatalf("expected error for equal entry and stop")
	}
}

func TestCalculateFibLevels(t *testing.T) {
	fib := CalculateFibLevels(150, 100)

	retr := map[string]float64{
		"0%":    150,
		"23.6%": 138.2,
		"38.2%": 130.9,
		"50%":   125,
		"61.8%": 119.1,
		"78.6%": 110.7,
		"100%":  100,
	}
	for k, want := range retr {
		if got := fib.Retracements[k]; got != want {
			t.Fatalf("retracement %s: got %v, want %v", k, got, want)
		}
	}

	ext := map[string]float64{
		"127.2%": 163.6,
		"161.8%": 180.9,
		"200%":   200,
		"261.8%": 230.9,
		"423.6%": 311.8,
	}
	for k, want := range ext {
		if got := fib.Extensions[k]; got != want {
			t.Fatalf("extension %s: got %v, want %v", k, got, want)
		}
	}
}
