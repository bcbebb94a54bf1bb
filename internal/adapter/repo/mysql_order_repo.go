package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AutomationAlchemyst/balangconnect/internal/usecase"
)

var ErrNotFound = errors.New("not found")

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

func (r *MySQLOrderRepo) Create(ctx context.Context, o *usecase.OrderRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO orders (id,status,payload_json,idempotency_key,total_cents,created_at,updated_at)
VALUES (?,?,?,?,?,?,NOW())
`, o.ID, o.Status, o.PayloadJSON, nullable(o.IdempotencyKey), o.TotalCents, o.CreatedAt)
	return err
}

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id string) (*usecase.OrderRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,status,payload_json,COALESCE(idempotency_key,''),total_cents,created_at
FROM orders WHERE id=?`, id)
	return scanOrder(row)
}

func (r *MySQLOrderRepo) GetByIdemKey(ctx context.Context, idemKey string) (*usecase.OrderRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,status,payload_json,COALESCE(idempotency_key,''),total_cents,created_at
FROM orders WHERE idempotency_key=?`, idemKey)
	return scanOrder(row)
}

func scanOrder(row *sql.Row) (*usecase.OrderRecord, error) {
	var rec usecase.OrderRecord
	err := row.Scan(&rec.ID, &rec.Status, &rec.PayloadJSON, &rec.IdempotencyKey,
		&rec.TotalCents, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// idempotency_key is UNIQUE; empty keys must not collide, so store NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
