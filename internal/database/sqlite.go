package database

import (
	"RekhtaDownloader/internal/models"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DBRepository is a thin layer around the report database connection.
type DBRepository struct {
	DB *sql.DB
}

// InitDB opens the report database at filepath and creates its table.
func InitDB(filepath string) (*DBRepository, error) {
	db, err := sql.Open("sqlite", filepath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	createSubmissionsTableSQL := `
	CREATE TABLE IF NOT EXISTS submissions (
		"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		"run_id" TEXT NOT NULL,
		"url" TEXT NOT NULL,
		"attempts" INTEGER NOT NULL,
		"outcome" TEXT NOT NULL,
		"last_error" TEXT,
		"finished_at" INTEGER NOT NULL,
		UNIQUE(run_id, url)
	);`

	if _, err = db.Exec(createSubmissionsTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating submissions table: %w", err)
	}
	if _, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_submissions_outcome ON submissions(outcome);`); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating submissions index: %w", err)
	}

	log.Println("Report database initialized successfully.")
	return &DBRepository{DB: db}, nil
}

// Close closes the database connection.
func (repo *DBRepository) Close() {
	repo.DB.Close()
}

// SaveOutcome stores the result of one link. Saving the same link twice in a
// run keeps the latest result.
func (repo *DBRepository) SaveOutcome(r models.SubmissionResult) error {
	query := `
	INSERT INTO submissions (run_id, url, attempts, outcome, last_error, finished_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id, url) DO UPDATE SET
		attempts=excluded.attempts,
		outcome=excluded.outcome,
		last_error=excluded.last_error,
		finished_at=excluded.finished_at;
	`
	_, err := repo.DB.Exec(query, r.RunID, r.URL, r.Attempts, string(r.Outcome), r.LastError, r.FinishedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save outcome for %s: %w", r.URL, err)
	}
	return nil
}

func whereClause(filters models.OutcomeFilters) (string, []interface{}) {
	var args []interface{}
	var conditions []string

	if filters.RunID != "" {
		conditions = append(conditions, "run_id = ?")
		args = append(args, filters.RunID)
	}
	if filters.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, string(filters.Outcome))
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// GetOutcomes retrieves stored results matching filters, oldest first.
func (repo *DBRepository) GetOutcomes(filters models.OutcomeFilters) ([]models.SubmissionResult, error) {
	where, args := whereClause(filters)
	query := `SELECT id, run_id, url, attempts, outcome, COALESCE(last_error, ''), finished_at FROM submissions` + where + " ORDER BY id ASC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
		if filters.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filters.Offset)
		}
	}

	rows, err := repo.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute outcome query: %w", err)
	}
	defer rows.Close()

	var results []models.SubmissionResult
	for rows.Next() {
		var r models.SubmissionResult
		var outcome string
		var finished int64
		if err := rows.Scan(&r.ID, &r.RunID, &r.URL, &r.Attempts, &outcome, &r.LastError, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan outcome row: %w", err)
		}
		r.Outcome = models.Outcome(outcome)
		r.FinishedAt = time.UnixMilli(finished).UTC()
		results = append(results, r)
	}
	return results, rows.Err()
}

// CountOutcomes returns the number of stored results matching filters.
func (repo *DBRepository) CountOutcomes(filters models.OutcomeFilters) (int, error) {
	where, args := whereClause(filters)
	var count int
	err := repo.DB.QueryRow("SELECT COUNT(*) FROM submissions"+where, args...).Scan(&count)
	return count, err
}

// Summaries aggregates every stored run, most recent first.
func (repo *DBRepository) Summaries() ([]models.RunSummary, error) {
	rows, err := repo.DB.Query(`
		SELECT run_id,
		       COUNT(*),
		       SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		       SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		       MAX(finished_at)
		FROM submissions
		GROUP BY run_id
		ORDER BY MAX(finished_at) DESC`,
		string(models.OutcomeSuccess), string(models.OutcomeFailed))
	if err != nil {
		return nil, fmt.Errorf("failed to summarize runs: %w", err)
	}
	defer rows.Close()

	var summaries []models.RunSummary
	for rows.Next() {
		var s models.RunSummary
		var finished int64
		if err := rows.Scan(&s.RunID, &s.Total, &s.Succeeded, &s.Failed, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan run summary: %w", err)
		}
		s.FinishedAt = time.UnixMilli(finished).UTC()
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
