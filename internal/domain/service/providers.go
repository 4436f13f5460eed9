package service

import (
	"context"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
)

// QuoteProvider fetches current market data for a symbol. Providers report
// only the fields they know; absent values stay nil in the snapshot.
type QuoteProvider interface {
	Name() string
	Quote(ctx context.Context, symbol string) (models.MarketSnapshot, error)
}

// IndicatorProvider sources raw technical indicator values for a symbol.
type IndicatorProvider interface {
	RSI(ctx context.Context, symbol string) (float64, error)
	SMA(ctx context.Context, symbol string, period int) (float64, error)
}

// ImageAttachment is inline binary evidence forwarded with an alert email.
type ImageAttachment struct {
	MimeType string
	Data     []byte
}

// GenerativeExtractor asks an external model to produce a structured
// extraction from raw alert text and optional chart images. Any error means
// the caller falls back to the deterministic pattern path.
type GenerativeExtractor interface {
	Extract(ctx context.Context, content string, images []ImageAttachment) (*models.ExtractionResult, error)
}

// InboundEmail is one message fetched from the mailbox.
type InboundEmail struct {
	ID      uint32
	From    string
	Subject string
	Body    string
	Images  []ImageAttachment
}

// MailSource reads forwarded alert emails from the user's mailbox.
type MailSource interface {
	FetchUnread(ctx context.Context, subjectFilter string, max int) ([]InboundEmail, error)
	MarkRead(ctx context.Context, id uint32) error
}
