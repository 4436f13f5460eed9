package extract

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
	"github.com/Bean0-0/tli-strategy-app/internal/domain/service"
)

type fakeExtractor struct {
	res *models.ExtractionResult
	err error
}

func (f *fakeExtractor) Extract(context.Context, string, []service.ImageAttachment) (*models.ExtractionResult, error) {
	return f.res, f.err
}

func TestParseFallsBackOnExtractorError(t *testing.T) {
	c := NewCoordinator(&fakeExtractor{err: errors.New("api down")}, nil, nil, Options{})
	res := c.Parse(context.Background(), "PT for $AMD is $250", nil)
	if !reflect.DeepEqual(res.Symbols, []string{"AMD"}) {
		t.Fatalf("expected pattern fallback symbols, got %v", res.Symbols)
	}
	if len(res.Levels) != 1 || res.Levels[0].Price != 250 {
		t.Fatalf("expected pattern fallback levels, got %v", res.Levels)
	}
}

func TestParseFallsBackOnMalformedResult(t *testing.T) {
	malformed := &models.ExtractionResult{
		Symbols: []string{"AMD"},
		Levels: []models.ExtractedLevel{
			{Symbol: "NVDA", Type: models.LevelTarget, Price: 100},
		},
	}
	c := NewCoordinator(&fakeExtractor{res: malformed}, nil, nil, Options{})
	res := c.Parse(context.Background(), "watching $TSLA here", nil)
	if !reflect.DeepEqual(res.Symbols, []string{"TSLA"}) {
		t.Fatalf("expected pattern fallback, got %v", res.Symbols)
	}
}

func TestParseNormalizesGenerativeResult(t *testing.T) {
	gen := &models.ExtractionResult{
		Symbols: []string{"NVDA", "AMD", "NVDA"},
		Levels: []models.ExtractedLevel{
			{Symbol: "AMD", Type: models.LevelTarget, Price: 250},
			{Symbol: "AMD", Type: "nonsense", Price: 10},
			{Symbol: "NVDA", Type: models.LevelStopLoss, Price: 500000},
		},
		Notes: "Plan: accumulate",
	}
	c := NewCoordinator(&fakeExtractor{res: gen}, nil, nil, Options{})
	res := c.Parse(context.Background(), "raw body", nil)
	if !reflect.DeepEqual(res.Symbols, []string{"AMD", "NVDA"}) {
		t.Fatalf("unexpected symbols %v", res.Symbols)
	}
	if len(res.Levels) != 1 || res.Levels[0].Type != models.LevelTarget {
		t.Fatalf("unexpected levels %v", res.Levels)
	}
	if res.Notes != "Plan: accumulate" || res.RawContent != "raw body" {
		t.Fatalf("unexpected notes/raw: %q / %q", res.Notes, res.RawContent)
	}
}

func TestParseTextDeterministic(t *testing.T) {
	text := "$GDX update. Plan: accumulate. PT for this one is $45. Bounced from $30 to $33."
	first := ParseText(text, Options{})
	second := ParseText(text, Options{})
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ:\n%+v\n%+v", first, second)
	}
}

func TestExtractFibMentionsFindsRatioNearPrice(t *testing.T) {
	mentions := ExtractFibMentions("Watching $138.2 as the 38.2 retracement on this leg.")
	if len(mentions) != 1 {
		t.Fatalf("mentions = %+v, want exactly one", mentions)
	}
	if mentions[0].Price != 138.2 || mentions[0].FibLevel != "38.2%" {
		t.Fatalf("mention = %+v", mentions[0])
	}
}

func TestExtractFibMentionsIgnoresPlainPrices(t *testing.T) {
	// "$150" must not satisfy the 50% pattern via its own trailing digits.
	if got := ExtractFibMentions("PT is $150 by June."); len(got) != 0 {
		t.Fatalf("mentions = %+v, want none", got)
	}
}
