package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
	"github.com/Bean0-0/tli-strategy-app/internal/domain/repository"
)

// CHEvaluationStore implements EvaluationStore on ClickHouse. Upsert relies
// on the ReplacingMergeTree version column; reads use FINAL.
type CHEvaluationStore struct {
	db *sql.DB
}

var _ repository.EvaluationStore = (*CHEvaluationStore)(nil)

// NewCHEvaluationStore creates a ClickHouse-backed evaluation store.
func NewCHEvaluationStore(db *sql.DB) *CHEvaluationStore {
	return &CHEvaluationStore{db: db}
}

const evalColumns = `symbol, tli_recommendation, tli_target_price, tli_stop_loss, tli_notes, tli_confidence,
	current_price, price_change_pct, volume, market_cap, pe_ratio,
	rsi, macd_signal, ma_50, ma_200,
	overall_recommendation, agreement_score, risk_level, flags, degraded, updated_at`

func (s *CHEvaluationStore) Upsert(ctx context.Context, rec *models.EvaluationRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	degraded := uint8(0)
	if rec.Degraded {
		degraded = 1
	}
	flags := rec.Flags
	if flags == nil {
		flags = []string{}
	}

	q := fmt.Sprintf("INSERT INTO tli_evaluations (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", evalColumns)
	_, err := s.db.ExecContext(ctx, q,
		rec.Symbol,
		string(rec.TliRecommendation),
		rec.TliTargetPrice,
		rec.TliStopLoss,
		rec.TliNotes,
		string(rec.TliConfidence),
		rec.CurrentPrice,
		rec.PriceChangePct,
		rec.Volume,
		rec.MarketCap,
		rec.PERatio,
		rec.RSI,
		string(rec.MacdSignal),
		rec.MA50,
		rec.MA200,
		string(rec.OverallRecommendation),
		rec.AgreementScore,
		string(rec.RiskLevel),
		flags,
		degraded,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert evaluation: %w", err)
	}
	return nil
}

func (s *CHEvaluationStore) Get(ctx context.Context, symbol string) (*models.EvaluationRecord, error) {
	q := fmt.Sprintf("SELECT %s FROM tli_evaluations FINAL WHERE symbol = ?", evalColumns)
	rec, err := scanEvaluation(s.db.QueryRowContext(ctx, q, symbol))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get evaluation: %w", err)
	}
	return rec, nil
}

func (s *CHEvaluationStore) List(ctx context.Context) ([]*models.EvaluationRecord, error) {
	q := fmt.Sprintf("SELECT %s FROM tli_evaluations FINAL ORDER BY updated_at DESC", evalColumns)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var recs []*models.EvaluationRecord
	for rows.Next() {
		rec, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvaluation(row rowScanner) (*models.EvaluationRecord, error) {
	var (
		rec      models.EvaluationRecord
		tliRec   string
		tliConf  string
		macd     string
		overall  string
		risk     string
		flags    []string
		degraded uint8
	)
	err := row.Scan(
		&rec.Symbol,
		&tliRec,
		&rec.TliTargetPrice,
		&rec.TliStopLoss,
		&rec.TliNotes,
		&tliConf,
		&rec.CurrentPrice,
		&rec.PriceChangePct,
		&rec.Volume,
		&rec.MarketCap,
		&rec.PERatio,
		&rec.RSI,
		&macd,
		&rec.MA50,
		&rec.MA200,
		&overall,
		&rec.AgreementScore,
		&risk,
		&flags,
		&degraded,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.TliRecommendation = models.Recommendation(tliRec)
	rec.TliConfidence = models.Confidence(tliConf)
	rec.MacdSignal = models.MacdSignal(macd)
	rec.OverallRecommendation = models.OverallRecommendation(overall)
	rec.RiskLevel = models.RiskLevel(risk)
	rec.Flags = flags
	rec.Degraded = degraded == 1
	return &rec, nil
}
