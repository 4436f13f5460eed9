package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
	domsvc "github.com/Bean0-0/tli-strategy-app/internal/domain/service"
	"github.com/Bean0-0/tli-strategy-app/pkg/logger"
)

const systemPrompt = `You are a trading-alert parser. The user will give you the text of a
trading alert email, possibly with chart screenshots attached. Extract:
- "symbols": every stock or commodity ticker the alert is about (uppercase)
- "levels": price levels, each with "symbol", "type" and "price"; valid types are
  target, entry, stop_loss, support, resistance
- "notes": strategic commentary lines worth keeping (wave counts, fib levels, timing)
Respond with a single JSON object and nothing else. If the alert names no symbols,
respond with {"symbols":[],"levels":[],"notes":[]}.`

// Extractor implements GenerativeExtractor on the Anthropic messages API.
type Extractor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	temp      float64
	timeout   time.Duration
	log       *logger.Logger
}

type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
	Temp      float64
	Timeout   time.Duration
}

var _ domsvc.GenerativeExtractor = (*Extractor)(nil)

// New creates a new Extractor. Returns an error when no API key is set so
// callers can fall back to deterministic parsing.
func New(cfg Config, log *logger.Logger) (*Extractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is not configured")
	}
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-20250514"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))

	return &Extractor{
		client:    client,
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
		temp:      cfg.Temp,
		timeout:   cfg.Timeout,
		log:       log,
	}, nil
}

type wireLevel struct {
	Symbol string  `json:"symbol"`
	Type   string  `json:"type"`
	Price  float64 `json:"price"`
	Notes  string  `json:"notes,omitempty"`
}

type wireExtraction struct {
	Symbols []string    `json:"symbols"`
	Levels  []wireLevel `json:"levels"`
	Notes   []string    `json:"notes"`
}

// Extract sends the alert content (and chart images, when present) to the
// model and decodes its JSON reply into an ExtractionResult.
func (e *Extractor) Extract(ctx context.Context, content string, images []domsvc.ImageAttachment) (*models.ExtractionResult, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(images)+1)
	for _, img := range images {
		blocks = append(blocks, anthropic.NewImageBlockBase64(img.MimeType, base64.StdEncoding.EncodeToString(img.Data)))
	}
	blocks = append(blocks, anthropic.NewTextBlock(content))

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: e.maxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
	}
	if e.temp > 0 {
		params.Temperature = anthropic.Float(e.temp)
	}

	start := time.Now()
	resp, err := e.client.Messages.New(timeoutCtx, params)
	if err != nil {
		return nil, fmt.Errorf("messages api call: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("empty model response")
	}

	var wire wireExtraction
	if err := json.Unmarshal([]byte(stripFences(text.String())), &wire); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}

	e.log.Debug("generative extraction completed",
		logger.Int("symbols", len(wire.Symbols)),
		logger.Int("levels", len(wire.Levels)),
		logger.Duration("duration", time.Since(start)))

	result := &models.ExtractionResult{
		Symbols:    wire.Symbols,
		RawContent: content,
	}
	for _, l := range wire.Levels {
		result.Levels = append(result.Levels, models.ExtractedLevel{
			Symbol: strings.ToUpper(l.Symbol),
			Type:   models.LevelType(l.Type),
			Price:  l.Price,
			Notes:  l.Notes,
		})
	}
	result.Notes = strings.Join(wire.Notes, "\n")

	return result, nil
}

// stripFences removes a surrounding markdown code fence, which some models
// wrap JSON replies in despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
