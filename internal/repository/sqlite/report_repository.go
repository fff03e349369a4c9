package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"jobboard/internal/domain"
	"jobboard/internal/repository"
)

// Timestamps are stored as UTC text ("2006-01-02 15:04:05..."), so the first
// seven characters are the calendar month.
const monthExpr = `substr(%s, 1, 7)`

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

var _ repository.ReportRepository = (*ReportRepository)(nil)

func (r *ReportRepository) JobsPerMonth(ctx context.Context, companyID int64) ([]domain.MonthCount, error) {
	query := `
SELECT ` + fmt.Sprintf(monthExpr, "j.created_at") + ` AS month, COUNT(*)
FROM jobs j`
	return r.monthly(ctx, "jobs per month", query, companyID)
}

func (r *ReportRepository) ApplicationsPerMonth(ctx context.Context, companyID int64) ([]domain.MonthCount, error) {
	query := `
SELECT ` + fmt.Sprintf(monthExpr, "a.created_at") + ` AS month, COUNT(*)
FROM applications a
JOIN jobs j ON j.id = a.job_id`
	return r.monthly(ctx, "applications per month", query, companyID)
}

// CandidatesPerMonth counts distinct candidates that applied in each month.
func (r *ReportRepository) CandidatesPerMonth(ctx context.Context, companyID int64) ([]domain.MonthCount, error) {
	query := `
SELECT ` + fmt.Sprintf(monthExpr, "a.created_at") + ` AS month, COUNT(DISTINCT a.candidate_id)
FROM applications a
JOIN jobs j ON j.id = a.job_id`
	return r.monthly(ctx, "candidates per month", query, companyID)
}

func (r *ReportRepository) monthly(ctx context.Context, name, query string, companyID int64) ([]domain.MonthCount, error) {
	var args []any
	if companyID != 0 {
		query += `
WHERE j.company_id = ?`
		args = append(args, companyID)
	}
	query += `
GROUP BY month
ORDER BY month ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	counts := []domain.MonthCount{}
	for rows.Next() {
		var c domain.MonthCount
		if err := rows.Scan(&c.Month, &c.Count); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
