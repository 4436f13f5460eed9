package extract

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractSymbolsFiltersStopWords(t *testing.T) {
	text := "Buy $AMD and $NVDA before $THE $FEB close"
	got := ExtractSymbols(text)
	want := []string{"AMD", "NVDA"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtractSymbolsDedupAndSort(t *testing.T) {
	text := "$NVDA broke out, add $AMD, then $NVDA again"
	got := ExtractSymbols(text)
	want := []string{"AMD", "NVDA"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtractSymbolsCommodityFallback(t *testing.T) {
	got := ExtractSymbols("Gold is setting up for a breakout this week")
	want := []string{"GOLD"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtractSymbolsCommoditySkippedWhenTickerPresent(t *testing.T) {
	got := ExtractSymbols("Gold looks weak but $AMD is the play")
	want := []string{"AMD"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtractSymbolsCommodityOutsideWindow(t *testing.T) {
	text := strings.Repeat("filler text here. ", 40) + "gold finally moved"
	if len(text) <= commodityWindow {
		t.Fatalf("test text too short: %d", len(text))
	}
	if got := ExtractSymbols(text); len(got) != 0 {
		t.Fatalf("expected no symbols, got %v", got)
	}
}

func TestExtractSymbolsDeterministic(t *testing.T) {
	text := "$TSLA entry near support, $AAPL PT raised, silver mentioned late"
	first := ExtractSymbols(text)
	second := ExtractSymbols(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ: %v vs %v", first, second)
	}
}
