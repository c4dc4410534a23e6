package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	domain "github.com/bryanwahyu/scamlens/internal/domain/history"
)

func TestSaveInsertsRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rec := &domain.Record{
		ID:         "rec-1",
		ImageURL:   "https://cdn.example.com/shots/shot-1a2b.png",
		Summary:    "Likely phishing.",
		RiskLevel:  "high",
		Confidence: 0.9,
		CreatedAt:  time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec("INSERT INTO analysis_history").
		WithArgs(rec.ID, rec.ImageURL, rec.Summary, rec.RiskLevel, rec.Confidence, false, "", rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewHistoryRepository(db)
	if err := repo.Save(context.Background(), rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSaveDefaultsRiskLevel(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rec := &domain.Record{
		ID:        "rec-2",
		Summary:   "No explicit risk.",
		CreatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec("INSERT INTO analysis_history").
		WithArgs(rec.ID, "", rec.Summary, "medium", 0.0, false, "", rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewHistoryRepository(db)
	if err := repo.Save(context.Background(), rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSaveDegradedKeepsEmptyRiskLevel(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rec := &domain.Record{
		ID:        "rec-3",
		Degraded:  true,
		Raw:       "free-form model text",
		CreatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec("INSERT INTO analysis_history").
		WithArgs(rec.ID, "", "", "", 0.0, true, rec.Raw, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewHistoryRepository(db)
	if err := repo.Save(context.Background(), rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPaginate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	created := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "image_url", "summary", "risk_level", "confidence", "degraded", "raw_text", "created_at",
	}).
		AddRow("rec-9", "", "Newest.", "low", 0.4, false, "", created.Add(time.Hour)).
		AddRow("rec-8", "https://cdn.example.com/a.png", "Older.", "high", 0.95, false, "", created)

	mock.ExpectQuery("SELECT id, image_url, summary, risk_level").
		WithArgs(2, 2).
		WillReturnRows(rows)

	repo := NewHistoryRepository(db)
	got, err := repo.Paginate(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "rec-9" || got[1].ID != "rec-8" {
		t.Errorf("order = %s, %s", got[0].ID, got[1].ID)
	}
	if got[1].Confidence != 0.95 {
		t.Errorf("confidence = %v", got[1].Confidence)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPaginateClampsPage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "image_url", "summary", "risk_level", "confidence", "degraded", "raw_text", "created_at",
	})
	mock.ExpectQuery("SELECT id, image_url, summary, risk_level").
		WithArgs(20, 0).
		WillReturnRows(rows)

	repo := NewHistoryRepository(db)
	got, err := repo.Paginate(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
