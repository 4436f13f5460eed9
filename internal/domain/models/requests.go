package models

// Requests for the HTTP API. Defined in domain for consistency and reuse.

type ParseRequest struct {
	Content string `json:"content" validate:"required"`
	Persist bool   `json:"persist" default:"true"`
}

// ParseResponse wraps an extraction result together with the symbol-free
// fibonacci mention scan over the same text.
type ParseResponse struct {
	Result      *ExtractionResult `json:"result"`
	FibMentions []FibMention      `json:"fib_mentions,omitempty"`
}

type AnalyzeRequest struct {
	Symbol string `json:"symbol" query:"symbol" validate:"required,min=2,max=10"`
}

type PositionSizeRequest struct {
	AccountSize float64 `json:"account_size" validate:"required,gt=0"`
	RiskPercent float64 `json:"risk_percent" validate:"required,gt=0,lte=100"`
	EntryPrice  float64 `json:"entry_price" validate:"required,gt=0"`
	StopLoss    float64 `json:"stop_loss" validate:"required,gt=0"`
}

type FibLevelsRequest struct {
	High float64 `json:"high" validate:"required,gt=0"`
	Low  float64 `json:"low" validate:"required,gt=0,ltfield=High"`
}

type AddPositionRequest struct {
	Symbol     string  `json:"symbol" validate:"required,min=2,max=10"`
	Type       string  `json:"position_type" default:"long" validate:"oneof=long short"`
	EntryPrice float64 `json:"entry_price" validate:"required,gt=0"`
	Shares     int64   `json:"shares" validate:"required,gt=0"`
	Notes      string  `json:"notes"`
	IsLargeCap bool    `json:"is_large_cap"`
}

type ClosePositionRequest struct {
	ExitPrice float64 `json:"exit_price" validate:"required,gt=0"`
}

type AddAlertRequest struct {
	Symbol    string  `json:"symbol" validate:"required,min=2,max=10"`
	Price     float64 `json:"price" validate:"required,gt=0"`
	AlertType string  `json:"alert_type" default:"buy" validate:"oneof=buy sell fib_extension"`
	Notes     string  `json:"notes"`
}

type MailSyncRequest struct {
	SubjectFilter string `json:"subject_filter"`
	Max           int    `json:"max" default:"10" validate:"gte=1,lte=100"`
}
