package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rusunawa/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// Store keeps a local audit trail of eligibility checks and submission
// outcomes. It is never consulted when deciding eligibility; the backend
// stays authoritative.
type Store struct {
	db *sql.DB
}

func NewStore(path string) (*Store, error) {
	// Создаем директорию для БД, если её нет
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            draft_id TEXT NOT NULL,
            tenant_id INTEGER NOT NULL,
            room_id INTEGER NOT NULL,
            room_name TEXT NOT NULL,
            rental_type TEXT NOT NULL,
            start_date DATETIME NOT NULL,
            end_date DATETIME NOT NULL,
            outcome TEXT NOT NULL,
            detail TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS report_queue (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            task_type TEXT NOT NULL,
            booking_id INTEGER NOT NULL,
            payload TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            retry_count INTEGER NOT NULL DEFAULT 0,
            last_error TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            processed_at DATETIME,
            next_retry_at DATETIME
        )`,

		`CREATE INDEX IF NOT EXISTS idx_attempts_tenant_id ON attempts(tenant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_outcome ON attempts(outcome)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_created_at ON attempts(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_report_queue_status ON report_queue(status)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (s *Store) RecordAttempt(ctx context.Context, attempt *models.Attempt) error {
	query := `INSERT INTO attempts (
				draft_id, tenant_id, room_id, room_name, rental_type,
				start_date, end_date, outcome, detail, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = now
	}
	result, err := s.db.ExecContext(ctx, query,
		attempt.DraftID,
		attempt.TenantID,
		attempt.RoomID,
		attempt.RoomName,
		attempt.RentalType,
		attempt.StartDate.Format("2006-01-02"),
		attempt.EndDate.Format("2006-01-02"),
		attempt.Outcome,
		attempt.Detail,
		attempt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	attempt.ID = id
	return nil
}

func (s *Store) TenantAttempts(ctx context.Context, tenantID int64, limit int) ([]models.Attempt, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, draft_id, tenant_id, room_id, room_name, rental_type,
	                 date(start_date), date(end_date), outcome, detail, created_at
              FROM attempts WHERE tenant_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.Attempt
	for rows.Next() {
		var a models.Attempt
		var startStr, endStr string
		err := rows.Scan(
			&a.ID, &a.DraftID, &a.TenantID, &a.RoomID, &a.RoomName, &a.RentalType,
			&startStr, &endStr, &a.Outcome, &a.Detail, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		a.StartDate, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse attempt start date %s: %w", startStr, err)
		}
		a.EndDate, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse attempt end date %s: %w", endStr, err)
		}
		attempts = append(attempts, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}

// OutcomeCounts returns how many attempts finished with each outcome
// since the cutoff. Backs the ops stats endpoint.
func (s *Store) OutcomeCounts(ctx context.Context, since time.Time) (map[string]int, error) {
	query := `SELECT outcome, COUNT(*) FROM attempts WHERE created_at >= ? GROUP BY outcome`
	rows, err := s.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, err
		}
		counts[outcome] = count
	}
	return counts, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
