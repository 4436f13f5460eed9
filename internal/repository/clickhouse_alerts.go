package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
	"github.com/Bean0-0/tli-strategy-app/internal/domain/repository"
)

// CHAlertStore implements AlertStore on ClickHouse. Deletes are soft: the
// newest row version carries deleted=1 and list queries filter it out.
type CHAlertStore struct {
	db *sql.DB
}

var _ repository.AlertStore = (*CHAlertStore)(nil)

// NewCHAlertStore creates a ClickHouse-backed alert store.
func NewCHAlertStore(db *sql.DB) *CHAlertStore {
	return &CHAlertStore{db: db}
}

const alertColumns = `id, symbol, price, alert_type, notes, triggered, deleted, created_at, triggered_at`

func (s *CHAlertStore) insert(ctx context.Context, a *models.Alert, deleted bool) error {
	triggered := uint8(0)
	if a.Triggered {
		triggered = 1
	}
	del := uint8(0)
	if deleted {
		del = 1
	}
	q := fmt.Sprintf("INSERT INTO tli_alerts (%s, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", alertColumns)
	_, err := s.db.ExecContext(ctx, q,
		a.ID, a.Symbol, a.Price, a.AlertType, a.Notes, triggered, del, a.CreatedAt, a.TriggeredAt, time.Now().UTC(),
	)
	return err
}

func (s *CHAlertStore) SaveAlert(ctx context.Context, a *models.Alert) error {
	if err := s.insert(ctx, a, false); err != nil {
		return fmt.Errorf("save alert: %w", err)
	}
	return nil
}

func (s *CHAlertStore) get(ctx context.Context, id string) (*models.Alert, error) {
	q := fmt.Sprintf("SELECT %s FROM tli_alerts FINAL WHERE id = ? AND deleted = 0", alertColumns)
	return scanAlert(s.db.QueryRowContext(ctx, q, id))
}

func (s *CHAlertStore) DeleteAlert(ctx context.Context, id string) error {
	a, err := s.get(ctx, id)
	if err == sql.ErrNoRows {
		return fmt.Errorf("alert %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	if err := s.insert(ctx, a, true); err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	return nil
}

func (s *CHAlertStore) ListAlerts(ctx context.Context, includeTriggered bool) ([]*models.Alert, error) {
	q := fmt.Sprintf("SELECT %s FROM tli_alerts FINAL WHERE deleted = 0", alertColumns)
	if !includeTriggered {
		q += " AND triggered = 0"
	}
	q += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*models.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (s *CHAlertStore) MarkTriggered(ctx context.Context, id string, at time.Time) error {
	a, err := s.get(ctx, id)
	if err == sql.ErrNoRows {
		return fmt.Errorf("alert %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("mark triggered: %w", err)
	}
	a.Triggered = true
	a.TriggeredAt = &at
	if err := s.insert(ctx, a, false); err != nil {
		return fmt.Errorf("mark triggered: %w", err)
	}
	return nil
}

func scanAlert(row rowScanner) (*models.Alert, error) {
	var (
		a         models.Alert
		triggered uint8
		deleted   uint8
	)
	err := row.Scan(
		&a.ID, &a.Symbol, &a.Price, &a.AlertType, &a.Notes, &triggered, &deleted, &a.CreatedAt, &a.TriggeredAt,
	)
	if err != nil {
		return nil, err
	}
	a.Triggered = triggered == 1
	return &a, nil
}
