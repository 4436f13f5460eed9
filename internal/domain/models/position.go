package models

import "time"

// PositionType is the direction of a trade.
type PositionType string

const (
	PositionLong  PositionType = "long"
	PositionShort PositionType = "short"
)

// Position is an open or closed trade tracked for simple P&L.
type Position struct {
	ID         string       `json:"id"`
	Symbol     string       `json:"symbol"`
	Type       PositionType `json:"position_type"`
	EntryPrice float64      `json:"entry_price"`
	ExitPrice  *float64     `json:"exit_price,omitempty"`
	Shares     int64        `json:"shares"`
	Notes      string       `json:"notes"`
	IsLargeCap bool         `json:"is_large_cap"`
	Status     string       `json:"status"` // "open" or "closed"
	CreatedAt  time.Time    `json:"created_at"`
	ClosedAt   *time.Time   `json:"closed_at,omitempty"`
}

// CostBasis returns shares times entry price.
func (p Position) CostBasis() float64 { return float64(p.Shares) * p.EntryPrice }

// CurrentValue returns the position value at exit price when closed,
// otherwise at entry price.
func (p Position) CurrentValue() float64 {
	if p.ExitPrice != nil {
		return float64(p.Shares) * *p.ExitPrice
	}
	return p.CostBasis()
}

// PnL returns realized profit and loss, nil while the position is open.
func (p Position) PnL() *float64 {
	if p.ExitPrice == nil {
		return nil
	}
	var pnl float64
	if p.Type == PositionShort {
		pnl = (p.EntryPrice - *p.ExitPrice) * float64(p.Shares)
	} else {
		pnl = (*p.ExitPrice - p.EntryPrice) * float64(p.Shares)
	}
	return &pnl
}

// PnLPercent returns realized P&L as a percentage of entry, nil while open.
func (p Position) PnLPercent() *float64 {
	if p.ExitPrice == nil || p.EntryPrice == 0 {
		return nil
	}
	var pct float64
	if p.Type == PositionShort {
		pct = (p.EntryPrice - *p.ExitPrice) / p.EntryPrice * 100
	} else {
		pct = (*p.ExitPrice - p.EntryPrice) / p.EntryPrice * 100
	}
	return &pct
}

// Alert is a price alert armed on a symbol. The watcher flips Triggered when
// the streamed price crosses Price in the armed direction.
type Alert struct {
	ID          string     `json:"id"`
	Symbol      string     `json:"symbol"`
	Price       float64    `json:"price"`
	AlertType   string     `json:"alert_type"` // "buy", "sell", "fib_extension"
	Notes       string     `json:"notes"`
	Triggered   bool       `json:"triggered"`
	CreatedAt   time.Time  `json:"created_at"`
	TriggeredAt *time.Time `json:"triggered_at,omitempty"`
}

// PositionSize is the output of the risk-based sizing calculator.
type PositionSize struct {
	Shares          int64   `json:"shares"`
	PositionSize    float64 `json:"position_size"`
	PositionPercent float64 `json:"position_percent"`
	RiskAmount      float64 `json:"risk_amount"`
	RiskPercent     float64 `json:"risk_percent"`
	RiskPerShare    float64 `json:"risk_per_share"`
}

// FibLevels holds retracement and extension prices computed from a swing.
type FibLevels struct {
	Retracements map[string]float64 `json:"retracements"`
	Extensions   map[string]float64 `json:"extensions"`
}
