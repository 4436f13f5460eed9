package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
)

// Price levels outside this exclusive band are treated as misparses and
// dropped silently.
const (
	minLevelPrice = 0.01
	maxLevelPrice = 100000
)

// Options controls level attribution policy.
type Options struct {
	// ProximityWindow, when positive, only attributes a matched level to a
	// symbol if a mention of that symbol occurs within this many bytes
	// before the match. Zero keeps the source policy: every matched level
	// is attributed to every confirmed symbol.
	ProximityWindow int
}

var (
	ptRe         = regexp.MustCompile(`(?i)PT.*?(?:is|for\s+\d{4}.*?is)\s+\$(\d+\.?\d*)\b`)
	waveRe       = regexp.MustCompile(`(?i)Wave\s+\d+.*?(?:target|moves)\s+(?:at|to)\s+\$(\d+\.?\d*)\b`)
	rangeRe      = regexp.MustCompile(`(?i)(?:buy\s+zone.*?range|range).*?between\s+\$(\d+\.?\d*).*?(?:and|to)\s+.*?\$(\d+\.?\d*)`)
	breakoutRe   = regexp.MustCompile(`(?i)breakout\s+level\s+between\s+\$(\d+\.?\d*)\s*-\s*\$(\d+\.?\d*)`)
	bounceRe     = regexp.MustCompile(`(?i)bounced?\s+from\s+\$(\d+\.?\d*)\s+to\s+\$(\d+\.?\d*)`)
	resistanceRe = regexp.MustCompile(`(?i)resistance\s+(?:back\s+)?up\s+to\s+\$(\d+\.?\d*)`)
	highRe       = regexp.MustCompile(`(?i)high\s+of\s+\$(\d+\.?\d*)`)
)

// anchorPattern binds a fib or moving-average phrase to a level type. A
// pattern with empty Type marks a position only and never yields a level;
// that matches the source corpus and is pinned by tests.
type anchorPattern struct {
	re   *regexp.Regexp
	Type models.LevelType
}

var anchorPatterns = []anchorPattern{
	{regexp.MustCompile(`(?i)0\.5\s+Fib.*?(?:at|level)\s+\$(\d+\.?\d*)`), models.LevelFib05},
	{regexp.MustCompile(`(?i)0\.38\s+Fib`), ""},
	{regexp.MustCompile(`(?i)0\.618?\s+Fib`), ""},
	{regexp.MustCompile(`(?i)1\.618\s+Fib\s+at\s+\$(\d+\.?\d*)`), models.LevelFib1618},
	{regexp.MustCompile(`(?i)50\s+Day\s+MA.*?(?:at|hold\s+at)\s+\$(\d+\.?\d*)`), models.LevelMA50D},
	{regexp.MustCompile(`(?i)200\s+Day\s+MA.*?at\s+\$(\d+\.?\d*)`), models.LevelMA200D},
	{regexp.MustCompile(`(?i)50\s+WMA.*?(?:at|converted\s+to\s+support\s+at)\s+\$(\d+\.?\d*)`), models.LevelMA50W},
	{regexp.MustCompile(`(?i)200\s+WMA\s+at\s+\$(\d+\.?\d*)`), models.LevelMA200W},
}

// ExtractLevels runs every pattern family once per symbol and returns the
// deduplicated level sequence in discovery order.
func ExtractLevels(text string, symbols []string, opts Options) []models.ExtractedLevel {
	var levels []models.ExtractedLevel
	for _, symbol := range symbols {
		levels = append(levels, levelsForSymbol(text, symbol, opts)...)
	}
	return dedupLevels(levels)
}

func levelsForSymbol(text, symbol string, opts Options) []models.ExtractedLevel {
	var out []models.ExtractedLevel
	emit := func(matchStart int, l models.ExtractedLevel) {
		if opts.ProximityWindow > 0 && !nearMention(text, symbol, matchStart, opts.ProximityWindow) {
			return
		}
		out = append(out, l)
	}

	for _, loc := range ptRe.FindAllStringSubmatchIndex(text, -1) {
		if price, ok := capturePrice(text, loc, 1); ok {
			emit(loc[0], models.ExtractedLevel{
				Symbol: symbol,
				Type:   models.LevelTarget,
				Price:  price,
				Notes:  "PT: $" + formatPrice(price),
			})
		}
	}

	for _, loc := range waveRe.FindAllStringSubmatchIndex(text, -1) {
		if price, ok := capturePrice(text, loc, 1); ok {
			emit(loc[0], models.ExtractedLevel{
				Symbol: symbol,
				Type:   models.LevelTarget,
				Price:  price,
				Notes:  strings.TrimSpace(text[loc[0]:loc[1]]),
			})
		}
	}

	for _, ap := range anchorPatterns {
		if ap.Type == "" {
			continue // position marker only, nothing to capture
		}
		for _, loc := range ap.re.FindAllStringSubmatchIndex(text, -1) {
			if price, ok := capturePrice(text, loc, 1); ok {
				emit(loc[0], models.ExtractedLevel{
					Symbol: symbol,
					Type:   ap.Type,
					Price:  price,
					Notes:  strings.TrimSpace(text[loc[0]:loc[1]]),
				})
			}
		}
	}

	for _, loc := range rangeRe.FindAllStringSubmatchIndex(text, -1) {
		p1, ok1 := capturePrice(text, loc, 1)
		p2, ok2 := capturePrice(text, loc, 2)
		if !ok1 || !ok2 {
			continue
		}
		lo, hi := p1, p2
		if lo > hi {
			lo, hi = hi, lo
		}
		notes := fmt.Sprintf("Buy Zone: $%s - $%s", formatPrice(lo), formatPrice(hi))
		emit(loc[0], models.ExtractedLevel{Symbol: symbol, Type: models.LevelBuyZone, Price: lo, Notes: notes})
		emit(loc[0], models.ExtractedLevel{Symbol: symbol, Type: models.LevelBuyZone, Price: hi, Notes: notes})
	}

	for _, loc := range breakoutRe.FindAllStringSubmatchIndex(text, -1) {
		p1, ok1 := capturePrice(text, loc, 1)
		p2, ok2 := capturePrice(text, loc, 2)
		if !ok1 || !ok2 {
			continue
		}
		notes := fmt.Sprintf("Breakout level: $%s - $%s", formatPrice(p1), formatPrice(p2))
		emit(loc[0], models.ExtractedLevel{Symbol: symbol, Type: models.LevelBreakout, Price: p1, Notes: notes})
		emit(loc[0], models.ExtractedLevel{Symbol: symbol, Type: models.LevelBreakout, Price: p2, Notes: notes})
	}

	// Only the bounce origin becomes a support level. The destination price
	// is captured but unused, mirroring the source corpus.
	for _, loc := range bounceRe.FindAllStringSubmatchIndex(text, -1) {
		p1, ok1 := capturePrice(text, loc, 1)
		_, ok2 := capturePrice(text, loc, 2)
		if !ok1 || !ok2 {
			continue
		}
		emit(loc[0], models.ExtractedLevel{
			Symbol: symbol,
			Type:   models.LevelSupport,
			Price:  p1,
			Notes:  "Bounced from $" + formatPrice(p1),
		})
	}

	for _, loc := range resistanceRe.FindAllStringSubmatchIndex(text, -1) {
		if price, ok := capturePrice(text, loc, 1); ok {
			emit(loc[0], models.ExtractedLevel{
				Symbol: symbol,
				Type:   models.LevelResistance,
				Price:  price,
				Notes:  strings.TrimSpace(text[loc[0]:loc[1]]),
			})
		}
	}

	for _, loc := range highRe.FindAllStringSubmatchIndex(text, -1) {
		if price, ok := capturePrice(text, loc, 1); ok {
			emit(loc[0], models.ExtractedLevel{
				Symbol: symbol,
				Type:   models.LevelResistance,
				Price:  price,
				Notes:  "High of $" + formatPrice(price),
			})
		}
	}

	return out
}

// capturePrice parses capture group n from a FindAllStringSubmatchIndex
// location and bounds-checks it. Malformed or out-of-range captures are
// skipped, never surfaced as errors.
func capturePrice(text string, loc []int, n int) (float64, bool) {
	start, end := loc[2*n], loc[2*n+1]
	if start < 0 || end < 0 {
		return 0, false
	}
	price, err := strconv.ParseFloat(text[start:end], 64)
	if err != nil {
		return 0, false
	}
	if price <= minLevelPrice || price >= maxLevelPrice {
		return 0, false
	}
	return price, true
}

func dedupLevels(levels []models.ExtractedLevel) []models.ExtractedLevel {
	seen := make(map[models.LevelKey]struct{}, len(levels))
	out := make([]models.ExtractedLevel, 0, len(levels))
	for _, l := range levels {
		k := l.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, l)
	}
	return out
}

// nearMention reports whether symbol (dollar-tagged or bare) is mentioned
// within window bytes before pos.
func nearMention(text, symbol string, pos, window int) bool {
	from := pos - window
	if from < 0 {
		from = 0
	}
	to := pos + window
	if to > len(text) {
		to = len(text)
	}
	region := strings.ToUpper(text[from:to])
	return strings.Contains(region, "$"+symbol) || strings.Contains(region, symbol)
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
