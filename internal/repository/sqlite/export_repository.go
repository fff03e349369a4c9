package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/domain"
	"jobboard/internal/repository"
)

const createReportExportsTable = `
CREATE TABLE IF NOT EXISTS report_exports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	company_id INTEGER NOT NULL,
	status TEXT NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	completed_at DATETIME NULL,
	FOREIGN KEY(company_id) REFERENCES companies(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_report_exports_company_id ON report_exports(company_id);
`

const selectExportColumns = `
SELECT id, company_id, status, location, error_message, created_at, updated_at, completed_at
FROM report_exports`

type ExportRepository struct {
	db *sql.DB
}

func NewExportRepository(db *sql.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

var _ repository.ExportRepository = (*ExportRepository)(nil)

func (r *ExportRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createReportExportsTable); err != nil {
		return fmt.Errorf("create report_exports table: %w", err)
	}
	return nil
}

func (r *ExportRepository) Create(ctx context.Context, export *domain.ReportExport) (int64, error) {
	now := time.Now().UTC()
	export.CreatedAt = now
	export.UpdatedAt = now
	if export.Status == "" {
		export.Status = domain.ExportStatusPending
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO report_exports (company_id, status, location, error_message, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		export.CompanyID,
		string(export.Status),
		export.Location,
		export.ErrorMessage,
		export.CreatedAt,
		export.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("insert export: company %w", domain.ErrNotFound)
		}
		return 0, fmt.Errorf("insert export: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	export.ID = id
	return id, nil
}

func (r *ExportRepository) Get(ctx context.Context, id int64) (*domain.ReportExport, error) {
	row := r.db.QueryRowContext(ctx, selectExportColumns+`
WHERE id=?`, id)
	return scanExport(row)
}

func (r *ExportRepository) ListByCompany(ctx context.Context, companyID int64) ([]domain.ReportExport, error) {
	return r.list(ctx, selectExportColumns+`
WHERE company_id=?
ORDER BY id DESC`, companyID)
}

func (r *ExportRepository) ListByStatuses(ctx context.Context, statuses ...domain.ExportStatus) ([]domain.ReportExport, error) {
	if len(statuses) == 0 {
		return []domain.ReportExport{}, nil
	}

	placeholders := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, status := range statuses {
		placeholders[i] = "?"
		args[i] = string(status)
	}

	query := fmt.Sprintf(selectExportColumns+`
WHERE status IN (%s)
ORDER BY id ASC`, strings.Join(placeholders, ","))
	return r.list(ctx, query, args...)
}

func (r *ExportRepository) list(ctx context.Context, query string, args ...any) ([]domain.ReportExport, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()

	exports := []domain.ReportExport{}
	for rows.Next() {
		export, err := scanExport(rows)
		if err != nil {
			return nil, err
		}
		exports = append(exports, *export)
	}
	return exports, rows.Err()
}

func (r *ExportRepository) UpdateStatus(ctx context.Context, id int64, status domain.ExportStatus, errorMessage *string) error {
	msg := ""
	if errorMessage != nil {
		msg = *errorMessage
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE report_exports
SET status=?, error_message=?, updated_at=?
WHERE id=?`,
		string(status),
		msg,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update export status: %w", err)
	}
	return nil
}

func (r *ExportRepository) MarkCompleted(ctx context.Context, id int64, location string, completedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE report_exports
SET status=?, location=?, error_message='', completed_at=?, updated_at=?
WHERE id=?`,
		string(domain.ExportStatusCompleted),
		location,
		completedAt.UTC(),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("mark export completed: %w", err)
	}
	return nil
}

func (r *ExportRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM report_exports WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete export: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("export delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("export %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanExport(scanner rowScanner) (*domain.ReportExport, error) {
	var (
		export      domain.ReportExport
		status      string
		completedAt sql.NullTime
	)
	if err := scanner.Scan(
		&export.ID,
		&export.CompanyID,
		&status,
		&export.Location,
		&export.ErrorMessage,
		&export.CreatedAt,
		&export.UpdatedAt,
		&completedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("export: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan export: %w", err)
	}

	export.Status = domain.ExportStatus(status)
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		export.CompletedAt = &t
	}
	return &export, nil
}
