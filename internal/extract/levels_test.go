package extract

import (
	"strings"
	"testing"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
)

func TestExtractLevelsPriceTarget(t *testing.T) {
	levels := ExtractLevels("PT for AMD is $250 by year end", []string{"AMD"}, Options{})
	if len(levels) != 1 {
		t.Fatalf("expected 1 level, got %d: %v", len(levels), levels)
	}
	l := levels[0]
	if l.Type != models.LevelTarget || l.Price != 250 || l.Symbol != "AMD" {
		t.Fatalf("unexpected level %+v", l)
	}
	if l.Notes != "PT: $250" {
		t.Fatalf("unexpected notes %q", l.Notes)
	}
}

func TestExtractLevelsBuyZoneEmitsBothBounds(t *testing.T) {
	text := "The buy zone range sits between $120.5 and roughly $135 for now"
	levels := ExtractLevels(text, []string{"NVDA"}, Options{})
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d: %v", len(levels), levels)
	}
	if levels[0].Type != models.LevelBuyZone || levels[1].Type != models.LevelBuyZone {
		t.Fatalf("unexpected types %v", levels)
	}
	if levels[0].Price != 120.5 || levels[1].Price != 135 {
		t.Fatalf("unexpected prices %v, %v", levels[0].Price, levels[1].Price)
	}
	want := "Buy Zone: $120.5 - $135"
	if levels[0].Notes != want || levels[1].Notes != want {
		t.Fatalf("unexpected notes %q / %q", levels[0].Notes, levels[1].Notes)
	}
}

func TestExtractLevelsBounceKeepsOriginOnly(t *testing.T) {
	levels := ExtractLevels("It bounced from $80 to $95 last week", []string{"TSLA"}, Options{})
	if len(levels) != 1 {
		t.Fatalf("expected 1 level, got %d: %v", len(levels), levels)
	}
	l := levels[0]
	if l.Type != models.LevelSupport || l.Price != 80 {
		t.Fatalf("unexpected level %+v", l)
	}
	if l.Notes != "Bounced from $80" {
		t.Fatalf("unexpected notes %q", l.Notes)
	}
}

func TestExtractLevelsFibPositionMarkersYieldNothing(t *testing.T) {
	levels := ExtractLevels("Holding the 0.38 Fib and the 0.618 Fib so far", []string{"AMD"}, Options{})
	if len(levels) != 0 {
		t.Fatalf("expected no levels, got %v", levels)
	}
}

func TestExtractLevelsDedupFirstWins(t *testing.T) {
	text := "PT for AMD is $250. Repeating: PT for AMD is $250."
	levels := ExtractLevels(text, []string{"AMD"}, Options{})
	if len(levels) != 1 {
		t.Fatalf("expected 1 level after dedup, got %d: %v", len(levels), levels)
	}
}

func TestExtractLevelsAttributedToAllSymbols(t *testing.T) {
	levels := ExtractLevels("PT for the basket is $300", []string{"AMD", "NVDA"}, Options{})
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d: %v", len(levels), levels)
	}
	if levels[0].Symbol != "AMD" || levels[1].Symbol != "NVDA" {
		t.Fatalf("unexpected symbols %v", levels)
	}
}

func TestExtractLevelsProximityWindow(t *testing.T) {
	text := "$AMD mentioned at the top. " + strings.Repeat("z ", 200) + "PT here is $150"
	near := ExtractLevels(text, []string{"AMD"}, Options{ProximityWindow: 0})
	if len(near) != 1 {
		t.Fatalf("window off: expected 1 level, got %v", near)
	}
	far := ExtractLevels(text, []string{"AMD"}, Options{ProximityWindow: 50})
	if len(far) != 0 {
		t.Fatalf("window on: expected 0 levels, got %v", far)
	}
}

func TestExtractLevelsDropsOutOfBandPrices(t *testing.T) {
	levels := ExtractLevels("PT for this one is $150000", []string{"AMD"}, Options{})
	if len(levels) != 0 {
		t.Fatalf("expected no levels, got %v", levels)
	}
}
