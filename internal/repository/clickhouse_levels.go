package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
	"github.com/Bean0-0/tli-strategy-app/internal/domain/repository"
)

// CHLevelStore implements LevelStore on ClickHouse.
type CHLevelStore struct {
	db *sql.DB
}

var _ repository.LevelStore = (*CHLevelStore)(nil)

// NewCHLevelStore creates a ClickHouse-backed level store.
func NewCHLevelStore(db *sql.DB) *CHLevelStore {
	return &CHLevelStore{db: db}
}

func (s *CHLevelStore) SaveLevels(ctx context.Context, levels []models.ExtractedLevel) error {
	if len(levels) == 0 {
		return nil
	}

	values := make([]string, 0, len(levels))
	args := make([]interface{}, 0, len(levels)*4)
	for _, l := range levels {
		if l.Symbol == "" || l.Price <= 0 {
			continue
		}
		values = append(values, "(?, ?, ?, ?)")
		args = append(args, l.Symbol, string(l.Type), l.Price, l.Notes)
	}
	if len(values) == 0 {
		return nil
	}

	q := fmt.Sprintf("INSERT INTO tli_levels (symbol, level_type, price, notes) VALUES %s", strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save levels: %w", err)
	}
	return nil
}

func (s *CHLevelStore) ListLevels(ctx context.Context, symbol string, limit int) ([]models.ExtractedLevel, error) {
	if limit <= 0 {
		limit = 100
	}
	q := "SELECT symbol, level_type, price, notes FROM tli_levels FINAL WHERE symbol = ? ORDER BY created_at DESC LIMIT ?"
	rows, err := s.db.QueryContext(ctx, q, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	defer rows.Close()

	var levels []models.ExtractedLevel
	for rows.Next() {
		var l models.ExtractedLevel
		var typ string
		if err := rows.Scan(&l.Symbol, &typ, &l.Price, &l.Notes); err != nil {
			return nil, fmt.Errorf("scan level: %w", err)
		}
		l.Type = models.LevelType(typ)
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

func (s *CHLevelStore) Symbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT symbol FROM tli_levels ORDER BY symbol")
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

func (s *CHLevelStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
