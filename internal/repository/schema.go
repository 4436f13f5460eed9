package repository

// Schema returns idempotent DDL for every table this layer owns. Evaluations
// use a ReplacingMergeTree keyed by symbol so re-analysis overwrites in place
// once merges run; reads go through FINAL to hide unmerged duplicates.
func Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS tli_levels (
			symbol     LowCardinality(String),
			level_type LowCardinality(String),
			price      Float64,
			notes      String,
			created_at DateTime DEFAULT now()
		) ENGINE = ReplacingMergeTree(created_at)
		ORDER BY (symbol, level_type, price)`,

		`CREATE TABLE IF NOT EXISTS tli_evaluations (
			symbol                 LowCardinality(String),
			tli_recommendation     LowCardinality(String),
			tli_target_price       Nullable(Float64),
			tli_stop_loss          Nullable(Float64),
			tli_notes              String,
			tli_confidence         LowCardinality(String),
			current_price          Nullable(Float64),
			price_change_pct       Nullable(Float64),
			volume                 Nullable(Int64),
			market_cap             Nullable(Float64),
			pe_ratio               Nullable(Float64),
			rsi                    Nullable(Float64),
			macd_signal            LowCardinality(String),
			ma_50                  Nullable(Float64),
			ma_200                 Nullable(Float64),
			overall_recommendation LowCardinality(String),
			agreement_score        Float64,
			risk_level             LowCardinality(String),
			flags                  Array(String),
			degraded               UInt8,
			updated_at             DateTime
		) ENGINE = ReplacingMergeTree(updated_at)
		ORDER BY symbol`,

		`CREATE TABLE IF NOT EXISTS tli_positions (
			id            String,
			symbol        LowCardinality(String),
			position_type LowCardinality(String),
			entry_price   Float64,
			exit_price    Nullable(Float64),
			shares        Int64,
			notes         String,
			is_large_cap  UInt8,
			status        LowCardinality(String),
			created_at    DateTime,
			closed_at     Nullable(DateTime),
			updated_at    DateTime DEFAULT now()
		) ENGINE = ReplacingMergeTree(updated_at)
		ORDER BY id`,

		`CREATE TABLE IF NOT EXISTS tli_alerts (
			id           String,
			symbol       LowCardinality(String),
			price        Float64,
			alert_type   LowCardinality(String),
			notes        String,
			triggered    UInt8,
			deleted      UInt8 DEFAULT 0,
			created_at   DateTime,
			triggered_at Nullable(DateTime),
			updated_at   DateTime DEFAULT now()
		) ENGINE = ReplacingMergeTree(updated_at)
		ORDER BY id`,
	}
}
