package models

// MarketSnapshot holds whatever quote data the provider chain produced.
// Fields stay nil when no attempted provider returned a value; a later
// provider never overwrites a field an earlier one already set.
type MarketSnapshot struct {
	CurrentPrice   *float64 `json:"current_price"`
	PriceChangePct *float64 `json:"price_change_pct"`
	Volume         *int64   `json:"volume"`
	MarketCap      *float64 `json:"market_cap"`
	PERatio        *float64 `json:"pe_ratio"`
	High52W        *float64 `json:"high_52w"`
	Low52W         *float64 `json:"low_52w"`
}

// Trend labels price position relative to the 50-day moving average.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// MacdSignal is a coarse momentum label derived from RSI and trend, not a
// true MACD computation.
type MacdSignal string

const (
	MacdBullish    MacdSignal = "bullish"
	MacdBearish    MacdSignal = "bearish"
	MacdOverbought MacdSignal = "overbought"
	MacdOversold   MacdSignal = "oversold"
	MacdNeutral    MacdSignal = "neutral"
)

// TechnicalSnapshot holds sourced and derived indicator values for a symbol.
type TechnicalSnapshot struct {
	RSI        *float64   `json:"rsi"`
	MacdSignal MacdSignal `json:"macd_signal"`
	MA50       *float64   `json:"ma_50"`
	MA200      *float64   `json:"ma_200"`
	Trend      Trend      `json:"trend"`
}

// Tick is one trade print from the realtime price stream.
type Tick struct {
	Symbol    string
	Timestamp int64 // unix seconds
	Price     float64
	Volume    float64
}
