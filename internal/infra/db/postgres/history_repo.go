package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/scamlens/internal/domain/history"
)

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Save inserts or updates an analysis record
func (r *HistoryRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO analysis_history
  (id, image_url, summary, risk_level, confidence, degraded, raw_text, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  summary=EXCLUDED.summary,
  risk_level=EXCLUDED.risk_level,
  confidence=EXCLUDED.confidence,
  degraded=EXCLUDED.degraded,
  raw_text=EXCLUDED.raw_text;
`
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	riskLevel := rec.RiskLevel
	if riskLevel == "" && !rec.Degraded {
		riskLevel = "medium"
	}
	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.ImageURL, rec.Summary, riskLevel, rec.Confidence, rec.Degraded, rec.Raw, createdAt)
	return err
}

// Paginate returns a page of records ordered by created_at desc
func (r *HistoryRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Record, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, image_url, summary, risk_level, confidence, degraded, raw_text, created_at
FROM analysis_history
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2;
`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var rec domain.Record
		var created time.Time
		if err := rows.Scan(&rec.ID, &rec.ImageURL, &rec.Summary, &rec.RiskLevel, &rec.Confidence, &rec.Degraded, &rec.Raw, &created); err != nil {
			return nil, err
		}
		rec.CreatedAt = created
		out = append(out, &rec)
	}
	return out, rows.Err()
}
