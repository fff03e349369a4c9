package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"jobboard/internal/domain"
	"jobboard/internal/repository"
)

const createJobsTable = `
CREATE TABLE IF NOT EXISTS jobs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	company_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	salary_band INTEGER NOT NULL,
	requirements TEXT NOT NULL DEFAULT '',
	min_education INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(company_id) REFERENCES companies(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_jobs_company_id ON jobs(company_id);
CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at);
`

const selectJobColumns = `
SELECT j.id, j.company_id, j.title, j.salary_band, j.requirements, j.min_education, j.created_at, j.updated_at,
	c.name,
	(SELECT COUNT(*) FROM applications a WHERE a.job_id = j.id)
FROM jobs j
JOIN companies c ON c.id = j.company_id`

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

var _ repository.JobRepository = (*JobRepository)(nil)

func (r *JobRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createJobsTable); err != nil {
		return fmt.Errorf("create jobs table: %w", err)
	}
	return nil
}

// Create inserts the job. A zero CreatedAt defaults to now so seeding can backdate postings.
func (r *JobRepository) Create(ctx context.Context, job *domain.Job) (int64, error) {
	job.CreatedAt = utcNowIfZero(job.CreatedAt)
	job.UpdatedAt = job.CreatedAt

	res, err := r.db.ExecContext(ctx, `
INSERT INTO jobs (company_id, title, salary_band, requirements, min_education, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		job.CompanyID,
		job.Title,
		int(job.SalaryBand),
		job.Requirements,
		int(job.MinEducation),
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("insert job: company %w", domain.ErrNotFound)
		}
		return 0, fmt.Errorf("insert job: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	job.ID = id
	return id, nil
}

func (r *JobRepository) Update(ctx context.Context, job *domain.Job) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	job.UpdatedAt = time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
UPDATE jobs
SET title=?, salary_band=?, requirements=?, min_education=?, updated_at=?
WHERE id=?`,
		job.Title,
		int(job.SalaryBand),
		job.Requirements,
		int(job.MinEducation),
		job.UpdatedAt,
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("job update rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("job %d: %w", job.ID, domain.ErrNotFound)
	}

	if err := rescoreJobApplications(ctx, tx, job); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit job update: %w", err)
	}
	return nil
}

func rescoreJobApplications(ctx context.Context, tx *sql.Tx, job *domain.Job) error {
	rows, err := tx.QueryContext(ctx, `
SELECT id, salary_expectation, candidate_last_education
FROM applications
WHERE job_id=?`, job.ID)
	if err != nil {
		return fmt.Errorf("query applications for rescore: %w", err)
	}

	type rescored struct {
		id    int64
		score int
	}
	var updates []rescored
	for rows.Next() {
		var (
			id        int64
			salary    decimal.Decimal
			education int
		)
		if err := rows.Scan(&id, &salary, &education); err != nil {
			rows.Close()
			return fmt.Errorf("scan application for rescore: %w", err)
		}
		score := domain.Score(salary, domain.Education(education), job.SalaryBand, job.MinEducation)
		updates = append(updates, rescored{id: id, score: score})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate applications for rescore: %w", err)
	}
	rows.Close()

	for _, u := range updates {
		if _, err := tx.ExecContext(ctx, `UPDATE applications SET score=? WHERE id=?`, u.score, u.id); err != nil {
			return fmt.Errorf("rescore application %d: %w", u.id, err)
		}
	}
	return nil
}

// Delete removes the job; its applications are removed by ON DELETE CASCADE.
func (r *JobRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("job delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("job %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *JobRepository) Get(ctx context.Context, id int64) (*domain.Job, error) {
	row := r.db.QueryRowContext(ctx, selectJobColumns+`
WHERE j.id=?`, id)
	return scanJob(row)
}

func (r *JobRepository) List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	query := selectJobColumns
	var args []any
	if filter.CompanyID != 0 {
		query += `
WHERE j.company_id=?`
		args = append(args, filter.CompanyID)
	}
	query += `
ORDER BY j.created_at DESC, j.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}

	return jobs, rows.Err()
}

func scanJob(scanner rowScanner) (*domain.Job, error) {
	var (
		job          domain.Job
		band         int
		minEducation int
	)

	if err := scanner.Scan(
		&job.ID,
		&job.CompanyID,
		&job.Title,
		&band,
		&job.Requirements,
		&minEducation,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompanyName,
		&job.ApplicationCount,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}

	job.SalaryBand = domain.SalaryBand(band)
	job.MinEducation = domain.Education(minEducation)
	job.CreatedAt = job.CreatedAt.UTC()
	job.UpdatedAt = job.UpdatedAt.UTC()
	return &job, nil
}
