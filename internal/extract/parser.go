package extract

import (
	"context"
	"errors"
	"regexp"
	"sort"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
	"github.com/Bean0-0/tli-strategy-app/internal/domain/repository"
	"github.com/Bean0-0/tli-strategy-app/internal/domain/service"
	"github.com/Bean0-0/tli-strategy-app/pkg/logger"
)

var errMalformedExtraction = errors.New("generative extractor returned malformed result")

// generativeLevelTypes is the closed set of level types the external model
// is allowed to emit. Anything else is dropped during normalization.
var generativeLevelTypes = map[models.LevelType]struct{}{
	models.LevelTarget:     {},
	models.LevelEntry:      {},
	models.LevelStopLoss:   {},
	models.LevelSupport:    {},
	models.LevelResistance: {},
}

// Coordinator produces one ExtractionResult per alert email. When a
// generative extractor is configured it is tried first; any failure falls
// back to the deterministic pattern path. The caller always gets a usable
// result, never an error.
type Coordinator struct {
	gen     service.GenerativeExtractor
	log     *logger.Logger
	metrics repository.Metrics
	opts    Options
}

// NewCoordinator creates a Coordinator. gen may be nil to run pattern-only.
func NewCoordinator(gen service.GenerativeExtractor, lgr *logger.Logger, m repository.Metrics, opts Options) *Coordinator {
	return &Coordinator{gen: gen, log: lgr, metrics: m, opts: opts}
}

// Parse extracts symbols, levels and strategic notes from raw email content.
func (c *Coordinator) Parse(ctx context.Context, content string, images []service.ImageAttachment) *models.ExtractionResult {
	if c.gen != nil {
		res, err := c.gen.Extract(ctx, content, images)
		if err == nil {
			if norm, ok := normalizeGenerative(res, content); ok {
				if c.metrics != nil {
					c.metrics.RecordExtraction("generative", len(norm.Symbols), len(norm.Levels))
				}
				return norm
			}
			err = errMalformedExtraction
		}
		if c.log != nil {
			c.log.Warn("generative extraction failed, using pattern fallback", logger.Error(err))
		}
	}

	res := ParseText(content, c.opts)
	if c.metrics != nil {
		c.metrics.RecordExtraction("pattern", len(res.Symbols), len(res.Levels))
	}
	return res
}

// ParseText is the deterministic pattern path. Feeding the same text twice
// yields identical results.
func ParseText(content string, opts Options) *models.ExtractionResult {
	symbols := ExtractSymbols(content)
	return &models.ExtractionResult{
		Symbols:    symbols,
		Levels:     ExtractLevels(content, symbols, opts),
		Notes:      ExtractNotes(content),
		RawContent: content,
	}
}

// normalizeGenerative checks and cleans a model-produced result. A result
// with no symbols, a symbol-less level, or a price outside the accepted band
// is treated as malformed so the coordinator falls back.
func normalizeGenerative(res *models.ExtractionResult, content string) (*models.ExtractionResult, bool) {
	if res == nil || len(res.Symbols) == 0 {
		return nil, false
	}

	symbols := make([]string, 0, len(res.Symbols))
	seen := make(map[string]struct{}, len(res.Symbols))
	for _, s := range res.Symbols {
		if s == "" {
			return nil, false
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	levels := make([]models.ExtractedLevel, 0, len(res.Levels))
	for _, l := range res.Levels {
		if _, allowed := generativeLevelTypes[l.Type]; !allowed {
			continue
		}
		if _, known := seen[l.Symbol]; !known {
			return nil, false
		}
		if l.Price <= minLevelPrice || l.Price >= maxLevelPrice {
			continue
		}
		levels = append(levels, l)
	}

	return &models.ExtractionResult{
		Symbols:    symbols,
		Levels:     dedupLevels(levels),
		Notes:      res.Notes,
		RawContent: content,
	}, true
}

// fibMentionPatterns pair a price capture with a nearby ratio mention for
// the standalone, symbol-free fibonacci scan. The ratio must be a standalone
// token (whitespace before, word boundary after); otherwise the price capture
// can backtrack into its own digits and match, e.g. "$150" against "50".
var fibMentionPatterns = []struct {
	re    *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`(?i)\$(\d+\.?\d*).*?\s(?:23\.6%?|0\.236)\b`), "23.6%"},
	{regexp.MustCompile(`(?i)\$(\d+\.?\d*).*?\s(?:38\.2%?|0\.382)\b`), "38.2%"},
	{regexp.MustCompile(`(?i)\$(\d+\.?\d*).*?\s(?:50%|0\.5)\b`), "50%"},
	{regexp.MustCompile(`(?i)\$(\d+\.?\d*).*?\s(?:61\.8%?|0\.618)\b`), "61.8%"},
	{regexp.MustCompile(`(?i)\$(\d+\.?\d*).*?\s(?:78\.6%?|0\.786)\b`), "78.6%"},
	{regexp.MustCompile(`(?i)\$(\d+\.?\d*).*?\s(?:127\.2%?|1\.272)\b`), "127.2%"},
	{regexp.MustCompile(`(?i)\$(\d+\.?\d*).*?\s(?:161\.8%?|1\.618)\b`), "161.8%"},
	{regexp.MustCompile(`(?i)\$(\d+\.?\d*).*?\s(?:261\.8%?|2\.618)\b`), "261.8%"},
}

// ExtractFibMentions scans for prices appearing near fibonacci ratio
// mentions, without binding them to any symbol.
func ExtractFibMentions(content string) []models.FibMention {
	var mentions []models.FibMention
	for _, fp := range fibMentionPatterns {
		for _, loc := range fp.re.FindAllStringSubmatchIndex(content, -1) {
			price, ok := capturePrice(content, loc, 1)
			if !ok {
				continue
			}
			mentions = append(mentions, models.FibMention{
				Price:    price,
				FibLevel: fp.label,
				Context:  content[loc[0]:loc[1]],
			})
		}
	}
	return mentions
}
