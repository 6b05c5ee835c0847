// internal/adapters/out/postgres/order_archive_pg.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"simo/internal/application/usecase"
	orderdom "simo/internal/domain/order"
)

// OrderArchivePG is the reporting read model: every committed order is
// mirrored into Postgres so date-range aggregations stay off Firestore.
// Implements usecase.OrderArchiver and usecase.ReportStore.
//
// The insert is best-effort (the checkout logs and continues on failure), so
// it is written to be safely retryable: ON CONFLICT (id) DO NOTHING.
type OrderArchivePG struct {
	DB *sql.DB
}

func NewOrderArchivePG(db *sql.DB) *OrderArchivePG {
	return &OrderArchivePG{DB: db}
}

// EnsureSchema creates the archive table when missing. Called once at boot.
func (r *OrderArchivePG) EnsureSchema(ctx context.Context) error {
	if r == nil || r.DB == nil {
		return errors.New("order_archive_pg: db is nil")
	}
	const q = `
CREATE TABLE IF NOT EXISTS order_archive (
  id             TEXT PRIMARY KEY,
  order_number   TEXT NOT NULL,
  customer_id    TEXT NOT NULL,
  status         TEXT NOT NULL,
  items          JSONB NOT NULL,
  units_sold     INTEGER NOT NULL,
  subtotal       NUMERIC(12,2) NOT NULL,
  delivery_price NUMERIC(12,2) NOT NULL,
  discount       NUMERIC(12,2) NOT NULL,
  total          NUMERIC(12,2) NOT NULL,
  created_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS order_archive_created_at_idx ON order_archive (created_at);`
	_, err := r.DB.ExecContext(ctx, q)
	return err
}

// ========================
// usecase.OrderArchiver
// ========================

func (r *OrderArchivePG) Insert(ctx context.Context, o orderdom.Order) error {
	if r == nil || r.DB == nil {
		return errors.New("order_archive_pg: db is nil")
	}

	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO order_archive
  (id, order_number, customer_id, status, items, units_sold,
   subtotal, delivery_price, discount, total, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO NOTHING`
	_, err = r.DB.ExecContext(ctx, q,
		strings.TrimSpace(o.ID),
		o.OrderNumber,
		o.CustomerID,
		string(o.Status),
		items,
		o.UnitsSold(),
		o.Subtotal,
		o.DeliveryPrice,
		o.Discount,
		o.Total,
		o.CreatedAt.UTC(),
	)
	return err
}

// ========================
// usecase.ReportStore
// ========================

func (r *OrderArchivePG) Summary(ctx context.Context, from, to time.Time) (usecase.ReportSummary, error) {
	if r == nil || r.DB == nil {
		return usecase.ReportSummary{}, errors.New("order_archive_pg: db is nil")
	}

	const q = `
SELECT
  COALESCE(SUM(total), 0),
  COUNT(*),
  COALESCE(SUM(units_sold), 0)
FROM order_archive
WHERE created_at BETWEEN $1 AND $2`
	var s usecase.ReportSummary
	row := r.DB.QueryRowContext(ctx, q, from, to)
	if err := row.Scan(&s.TotalSales, &s.TotalOrders, &s.UnitsSold); err != nil {
		return usecase.ReportSummary{}, err
	}
	if s.TotalOrders > 0 {
		s.AverageOrderValue = s.TotalSales / float64(s.TotalOrders)
	}
	return s, nil
}

func (r *OrderArchivePG) DailySales(ctx context.Context, from, to time.Time) ([]usecase.DailySales, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("order_archive_pg: db is nil")
	}

	const q = `
SELECT date_trunc('day', created_at) AS day, COUNT(*), COALESCE(SUM(total), 0)
FROM order_archive
WHERE created_at BETWEEN $1 AND $2
GROUP BY day
ORDER BY day`
	rows, err := r.DB.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []usecase.DailySales
	for rows.Next() {
		var d usecase.DailySales
		if err := rows.Scan(&d.Day, &d.Orders, &d.Sales); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *OrderArchivePG) StatusBreakdown(ctx context.Context, from, to time.Time) ([]usecase.StatusSales, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("order_archive_pg: db is nil")
	}

	const q = `
SELECT status, COUNT(*), COALESCE(SUM(total), 0)
FROM order_archive
WHERE created_at BETWEEN $1 AND $2
GROUP BY status
ORDER BY status`
	rows, err := r.DB.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []usecase.StatusSales
	for rows.Next() {
		var s usecase.StatusSales
		if err := rows.Scan(&s.Status, &s.Orders, &s.Revenue); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *OrderArchivePG) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]usecase.ProductSales, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("order_archive_pg: db is nil")
	}
	if limit <= 0 {
		limit = 10
	}

	const q = `
SELECT
  item->>'productId',
  MAX(item->>'productName'),
  SUM((item->>'quantity')::int),
  SUM((item->>'quantity')::int * (item->>'unitPrice')::numeric)
FROM order_archive, jsonb_array_elements(items) AS item
WHERE created_at BETWEEN $1 AND $2
GROUP BY item->>'productId'
ORDER BY 4 DESC
LIMIT $3`
	rows, err := r.DB.QueryContext(ctx, q, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []usecase.ProductSales
	for rows.Next() {
		var p usecase.ProductSales
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.UnitsSold, &p.Revenue); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *OrderArchivePG) TotalRevenue(ctx context.Context) (float64, error) {
	if r == nil || r.DB == nil {
		return 0, errors.New("order_archive_pg: db is nil")
	}

	var total float64
	row := r.DB.QueryRowContext(ctx, `SELECT COALESCE(SUM(total), 0) FROM order_archive`)
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
