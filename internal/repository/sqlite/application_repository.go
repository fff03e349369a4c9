package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jobboard/internal/domain"
	"jobboard/internal/repository"
)

const createApplicationsTable = `
CREATE TABLE IF NOT EXISTS applications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id INTEGER NOT NULL,
	candidate_id INTEGER NOT NULL,
	salary_expectation TEXT NOT NULL,
	candidate_last_education INTEGER NOT NULL,
	candidate_experience TEXT NOT NULL DEFAULT '',
	score INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	UNIQUE(job_id, candidate_id),
	FOREIGN KEY(job_id) REFERENCES jobs(id) ON DELETE CASCADE,
	FOREIGN KEY(candidate_id) REFERENCES candidates(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_applications_candidate_id ON applications(candidate_id);
CREATE INDEX IF NOT EXISTS idx_applications_created_at ON applications(created_at);
`

const selectApplicationColumns = `
SELECT a.id, a.job_id, a.candidate_id, a.salary_expectation, a.candidate_last_education,
	a.candidate_experience, a.score, a.created_at, u.email
FROM applications a
JOIN candidates c ON c.id = a.candidate_id
JOIN users u ON u.id = c.user_id`

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

var _ repository.ApplicationRepository = (*ApplicationRepository)(nil)

func (r *ApplicationRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createApplicationsTable); err != nil {
		return fmt.Errorf("create applications table: %w", err)
	}
	return nil
}

// Create scores the application against the stored job and inserts it in one transaction.
// Any Score set by the caller is overwritten.
func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var band, minEducation int
	if err := tx.QueryRowContext(ctx, `SELECT salary_band, min_education FROM jobs WHERE id=?`, app.JobID).
		Scan(&band, &minEducation); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("job %d: %w", app.JobID, domain.ErrNotFound)
		}
		return 0, fmt.Errorf("load job for scoring: %w", err)
	}
	app.Rescore(&domain.Job{SalaryBand: domain.SalaryBand(band), MinEducation: domain.Education(minEducation)})
	app.CreatedAt = utcNowIfZero(app.CreatedAt)

	res, err := tx.ExecContext(ctx, `
INSERT INTO applications (job_id, candidate_id, salary_expectation, candidate_last_education, candidate_experience, score, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		app.JobID,
		app.CandidateID,
		app.SalaryExpectation.StringFixed(2),
		int(app.CandidateLastEducation),
		app.CandidateExperience,
		app.Score,
		app.CreatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return 0, fmt.Errorf("insert application: %w", domain.ErrAlreadyApplied)
		case isForeignKeyViolation(err):
			return 0, fmt.Errorf("insert application: candidate %w", domain.ErrNotFound)
		default:
			return 0, fmt.Errorf("insert application: %w", err)
		}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("application last insert id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit application: %w", err)
	}
	app.ID = id
	return id, nil
}

func (r *ApplicationRepository) Get(ctx context.Context, id int64) (*domain.Application, error) {
	row := r.db.QueryRowContext(ctx, selectApplicationColumns+`
WHERE a.id=?`, id)
	return scanApplication(row)
}

// ListByJob returns the best-scoring applications first.
func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID int64) ([]domain.Application, error) {
	rows, err := r.db.QueryContext(ctx, selectApplicationColumns+`
WHERE a.job_id=?
ORDER BY a.score DESC, a.created_at ASC, a.id ASC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	apps := []domain.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

func (r *ApplicationRepository) Exists(ctx context.Context, jobID, candidateID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
SELECT EXISTS(SELECT 1 FROM applications WHERE job_id=? AND candidate_id=?)`, jobID, candidateID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check application exists: %w", err)
	}
	return exists, nil
}

func scanApplication(scanner rowScanner) (*domain.Application, error) {
	var (
		app       domain.Application
		education int
	)
	if err := scanner.Scan(
		&app.ID,
		&app.JobID,
		&app.CandidateID,
		&app.SalaryExpectation,
		&education,
		&app.CandidateExperience,
		&app.Score,
		&app.CreatedAt,
		&app.CandidateEmail,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("application: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan application: %w", err)
	}
	app.CandidateLastEducation = domain.Education(education)
	app.CreatedAt = app.CreatedAt.UTC()
	return &app, nil
}
