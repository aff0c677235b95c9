package repository

import (
	"aiinterviewer/internal/model"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteReportRepo is the local report archive used by the terminal client
type SQLiteReportRepo struct {
	db *sql.DB
}

// NewSQLiteReportRepo opens the database at path and initializes the schema
func NewSQLiteReportRepo(path string) (*SQLiteReportRepo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single writer avoids SQLITE_BUSY on the file
	db.SetMaxOpenConns(1)

	repo := &SQLiteReportRepo{db: db}
	if err := repo.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return repo, nil
}

// Close closes the database connection
func (r *SQLiteReportRepo) Close() error {
	return r.db.Close()
}

func (r *SQLiteReportRepo) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS interview_reports (
		owner TEXT NOT NULL,
		session_id INTEGER NOT NULL,
		overall_score REAL NOT NULL,
		final_verdict TEXT,
		profile TEXT,
		report TEXT NOT NULL,
		archived_at DATETIME NOT NULL,
		PRIMARY KEY (owner, session_id)
	);

	CREATE INDEX IF NOT EXISTS idx_interview_reports_archived ON interview_reports(owner, archived_at);
	`
	_, err := r.db.Exec(schema)
	return err
}

func (r *SQLiteReportRepo) Save(ctx context.Context, record *model.ReportRecord) error {
	report, err := json.Marshal(record.Report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	var profile []byte
	if record.Profile != nil {
		if profile, err = json.Marshal(record.Profile); err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
	}
	archivedAt := record.ArchivedAt
	if archivedAt.IsZero() {
		archivedAt = time.Now()
	}

	query := `
		INSERT INTO interview_reports (owner, session_id, overall_score, final_verdict, profile, report, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner, session_id) DO UPDATE SET
			overall_score = excluded.overall_score,
			final_verdict = excluded.final_verdict,
			profile = excluded.profile,
			report = excluded.report,
			archived_at = excluded.archived_at
	`
	_, err = r.db.ExecContext(ctx, query,
		record.Owner, record.SessionID, record.Report.OverallScore, record.Report.FinalVerdict,
		nullableText(profile), string(report), archivedAt.UTC())
	return err
}

func (r *SQLiteReportRepo) GetBySession(ctx context.Context, owner string, sessionID int64) (*model.ReportRecord, error) {
	query := `
		SELECT owner, session_id, profile, report, archived_at
		FROM interview_reports
		WHERE owner = ? AND session_id = ?
	`
	record, err := scanRecord(r.db.QueryRowContext(ctx, query, owner, sessionID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return record, err
}

func (r *SQLiteReportRepo) ListByOwner(ctx context.Context, owner string, limit int) ([]*model.ReportRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
		SELECT owner, session_id, profile, report, archived_at
		FROM interview_reports
		WHERE owner = ?
		ORDER BY archived_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, owner, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*model.ReportRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.ReportRecord, error) {
	var (
		record  model.ReportRecord
		profile sql.NullString
		report  string
	)
	if err := row.Scan(&record.Owner, &record.SessionID, &profile, &report, &record.ArchivedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(report), &record.Report); err != nil {
		return nil, fmt.Errorf("decode report %d: %w", record.SessionID, err)
	}
	if profile.Valid {
		record.Profile = &model.InterviewProfile{}
		if err := json.Unmarshal([]byte(profile.String), record.Profile); err != nil {
			return nil, fmt.Errorf("decode profile %d: %w", record.SessionID, err)
		}
	}
	return &record, nil
}

func nullableText(b []byte) sql.NullString {
	if b == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}
