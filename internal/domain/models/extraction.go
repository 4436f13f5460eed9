package models

// LevelType classifies a price level pulled out of alert text.
type LevelType string

const (
	LevelTarget     LevelType = "target"
	LevelSupport    LevelType = "support"
	LevelResistance LevelType = "resistance"
	LevelFib05      LevelType = "fib_0.5"
	LevelFib1618    LevelType = "fib_1.618"
	LevelMA50D      LevelType = "ma_50d"
	LevelMA200D     LevelType = "ma_200d"
	LevelMA50W      LevelType = "ma_50w"
	LevelMA200W     LevelType = "ma_200w"
	LevelBuyZone    LevelType = "buy_zone"
	LevelBreakout   LevelType = "breakout"
	LevelEntry      LevelType = "entry"
	LevelStopLoss   LevelType = "stop_loss"
)

// ExtractedLevel is one typed price point attached to a symbol.
// Price is always in (0.01, 100000) exclusive; captures outside that band are
// dropped during extraction.
type ExtractedLevel struct {
	Symbol string    `json:"symbol"`
	Type   LevelType `json:"type"`
	Price  float64   `json:"price"`
	Notes  string    `json:"notes"`
}

// Key returns the dedup identity of a level.
func (l ExtractedLevel) Key() LevelKey {
	return LevelKey{Symbol: l.Symbol, Type: l.Type, Price: l.Price}
}

// LevelKey identifies a level within one extraction result. No two levels in
// a result share the same key; the first occurrence in scan order wins.
type LevelKey struct {
	Symbol string
	Type   LevelType
	Price  float64
}

// ExtractionResult is the immutable output of parsing one alert email.
// Symbols are sorted and unique. Levels keep discovery order after dedup.
type ExtractionResult struct {
	Symbols    []string         `json:"symbols"`
	Levels     []ExtractedLevel `json:"levels"`
	Notes      string           `json:"notes"`
	RawContent string           `json:"raw_content"`
}

// FibMention is a price found near a fibonacci ratio mention, from the
// standalone scan that does not bind levels to symbols.
type FibMention struct {
	Price    float64 `json:"price"`
	FibLevel string  `json:"fib_level"`
	Context  string  `json:"context"`
}
