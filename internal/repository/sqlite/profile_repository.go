package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jobboard/internal/domain"
	"jobboard/internal/repository"
)

const createProfileTables = `
CREATE TABLE IF NOT EXISTS companies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL UNIQUE,
	name TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS candidates (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL UNIQUE,
	last_education INTEGER NOT NULL DEFAULT 2,
	experience TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);
CREATE TRIGGER IF NOT EXISTS companies_single_profile
BEFORE INSERT ON companies
WHEN EXISTS (SELECT 1 FROM candidates WHERE user_id = NEW.user_id)
BEGIN
	SELECT RAISE(ABORT, 'UNIQUE constraint failed: user already has a candidate profile');
END;
CREATE TRIGGER IF NOT EXISTS candidates_single_profile
BEFORE INSERT ON candidates
WHEN EXISTS (SELECT 1 FROM companies WHERE user_id = NEW.user_id)
BEGIN
	SELECT RAISE(ABORT, 'UNIQUE constraint failed: user already has a company profile');
END;
`

type CompanyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

var _ repository.CompanyRepository = (*CompanyRepository)(nil)

// Init creates both profile tables; CandidateRepository.Init is equivalent.
func (r *CompanyRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createProfileTables); err != nil {
		return fmt.Errorf("create profile tables: %w", err)
	}
	return nil
}

func (r *CompanyRepository) Create(ctx context.Context, company *domain.Company) (int64, error) {
	return insertCompany(ctx, r.db, company)
}

func insertCompany(ctx context.Context, q execer, company *domain.Company) (int64, error) {
	company.CreatedAt = time.Now().UTC()
	res, err := q.ExecContext(ctx, `
INSERT INTO companies (user_id, name, created_at)
VALUES (?, ?, ?)`,
		company.UserID,
		company.Name,
		company.CreatedAt,
	)
	if err != nil {
		return 0, profileInsertError("company", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("company last insert id: %w", err)
	}
	company.ID = id
	return id, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, name, created_at
FROM companies
WHERE id = ?`, id)
	return scanCompany(row)
}

func (r *CompanyRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Company, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, name, created_at
FROM companies
WHERE user_id = ?`, userID)
	return scanCompany(row)
}

func scanCompany(row rowScanner) (*domain.Company, error) {
	var c domain.Company
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("company: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan company: %w", err)
	}
	return &c, nil
}

type CandidateRepository struct {
	db *sql.DB
}

func NewCandidateRepository(db *sql.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

var _ repository.CandidateRepository = (*CandidateRepository)(nil)

func (r *CandidateRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createProfileTables); err != nil {
		return fmt.Errorf("create profile tables: %w", err)
	}
	return nil
}

func (r *CandidateRepository) Create(ctx context.Context, candidate *domain.Candidate) (int64, error) {
	return insertCandidate(ctx, r.db, candidate)
}

func insertCandidate(ctx context.Context, q execer, candidate *domain.Candidate) (int64, error) {
	if candidate.LastEducation == 0 {
		candidate.LastEducation = domain.DefaultEducation
	}
	candidate.CreatedAt = time.Now().UTC()
	res, err := q.ExecContext(ctx, `
INSERT INTO candidates (user_id, last_education, experience, created_at)
VALUES (?, ?, ?, ?)`,
		candidate.UserID,
		int(candidate.LastEducation),
		candidate.Experience,
		candidate.CreatedAt,
	)
	if err != nil {
		return 0, profileInsertError("candidate", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("candidate last insert id: %w", err)
	}
	candidate.ID = id
	return id, nil
}

func (r *CandidateRepository) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, last_education, experience, created_at
FROM candidates
WHERE id = ?`, id)
	return scanCandidate(row)
}

func (r *CandidateRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Candidate, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, last_education, experience, created_at
FROM candidates
WHERE user_id = ?`, userID)
	return scanCandidate(row)
}

func scanCandidate(row rowScanner) (*domain.Candidate, error) {
	var (
		c         domain.Candidate
		education int
	)
	if err := row.Scan(&c.ID, &c.UserID, &education, &c.Experience, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("candidate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan candidate: %w", err)
	}
	c.LastEducation = domain.Education(education)
	return &c, nil
}

func profileInsertError(kind string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("insert %s: %w", kind, domain.ErrDuplicateProfile)
	case isForeignKeyViolation(err):
		return fmt.Errorf("insert %s: user %w", kind, domain.ErrNotFound)
	default:
		return fmt.Errorf("insert %s: %w", kind, err)
	}
}
