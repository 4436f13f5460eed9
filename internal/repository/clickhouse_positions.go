package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
	"github.com/Bean0-0/tli-strategy-app/internal/domain/repository"
)

// CHPositionStore implements PositionStore on ClickHouse.
type CHPositionStore struct {
	db *sql.DB
}

var _ repository.PositionStore = (*CHPositionStore)(nil)

// NewCHPositionStore creates a ClickHouse-backed position store.
func NewCHPositionStore(db *sql.DB) *CHPositionStore {
	return &CHPositionStore{db: db}
}

const positionColumns = `id, symbol, position_type, entry_price, exit_price, shares, notes, is_large_cap, status, created_at, closed_at`

func (s *CHPositionStore) SavePosition(ctx context.Context, p *models.Position) error {
	largeCap := uint8(0)
	if p.IsLargeCap {
		largeCap = 1
	}
	q := fmt.Sprintf("INSERT INTO tli_positions (%s, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", positionColumns)
	_, err := s.db.ExecContext(ctx, q,
		p.ID, p.Symbol, string(p.Type), p.EntryPrice, p.ExitPrice, p.Shares,
		p.Notes, largeCap, p.Status, p.CreatedAt, p.ClosedAt, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save position: %w", err)
	}
	return nil
}

func (s *CHPositionStore) ClosePosition(ctx context.Context, id string, exitPrice float64, closedAt time.Time) error {
	// Re-insert the row with exit data; the ReplacingMergeTree keeps the
	// newest version per id.
	q := fmt.Sprintf("SELECT %s FROM tli_positions FINAL WHERE id = ?", positionColumns)
	p, err := scanPosition(s.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return fmt.Errorf("position %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("close position: %w", err)
	}

	p.ExitPrice = &exitPrice
	p.ClosedAt = &closedAt
	p.Status = "closed"
	return s.SavePosition(ctx, p)
}

func (s *CHPositionStore) ListPositions(ctx context.Context) ([]*models.Position, error) {
	q := fmt.Sprintf("SELECT %s FROM tli_positions FINAL ORDER BY created_at DESC", positionColumns)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	var positions []*models.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func scanPosition(row rowScanner) (*models.Position, error) {
	var (
		p        models.Position
		typ      string
		largeCap uint8
	)
	err := row.Scan(
		&p.ID, &p.Symbol, &typ, &p.EntryPrice, &p.ExitPrice, &p.Shares,
		&p.Notes, &largeCap, &p.Status, &p.CreatedAt, &p.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Type = models.PositionType(typ)
	p.IsLargeCap = largeCap == 1
	return &p, nil
}
