package service

import (
	"context"
	"fmt"
	"time"

	"jobboard/internal/domain"
	"jobboard/internal/repository"
)

// ExportService coordinates report export records backed by the repository.
type ExportService interface {
	Create(ctx context.Context, companyID int64) (*domain.ReportExport, error)
	Get(ctx context.Context, id int64) (*domain.ReportExport, error)
	GetForCompany(ctx context.Context, companyID, id int64) (*domain.ReportExport, error)
	ListForCompany(ctx context.Context, companyID int64) ([]domain.ReportExport, error)
	ListByStatuses(ctx context.Context, statuses ...domain.ExportStatus) ([]domain.ReportExport, error)
	MarkRunning(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, cause error) error
	MarkCompleted(ctx context.Context, id int64, location string) error
	Delete(ctx context.Context, id int64) error
}

type exportService struct {
	exports repository.ExportRepository
}

func NewExportService(exports repository.ExportRepository) ExportService {
	return &exportService{exports: exports}
}

func (s *exportService) Create(ctx context.Context, companyID int64) (*domain.ReportExport, error) {
	export := &domain.ReportExport{
		CompanyID: companyID,
		Status:    domain.ExportStatusPending,
	}
	if _, err := s.exports.Create(ctx, export); err != nil {
		return nil, err
	}
	return export, nil
}

func (s *exportService) Get(ctx context.Context, id int64) (*domain.ReportExport, error) {
	return s.exports.Get(ctx, id)
}

func (s *exportService) GetForCompany(ctx context.Context, companyID, id int64) (*domain.ReportExport, error) {
	export, err := s.exports.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if export.CompanyID != companyID {
		return nil, fmt.Errorf("export %d: %w", id, domain.ErrNotFound)
	}
	return export, nil
}

func (s *exportService) ListForCompany(ctx context.Context, companyID int64) ([]domain.ReportExport, error) {
	return s.exports.ListByCompany(ctx, companyID)
}

func (s *exportService) ListByStatuses(ctx context.Context, statuses ...domain.ExportStatus) ([]domain.ReportExport, error) {
	return s.exports.ListByStatuses(ctx, statuses...)
}

func (s *exportService) MarkRunning(ctx context.Context, id int64) error {
	return s.exports.UpdateStatus(ctx, id, domain.ExportStatusRunning, nil)
}

func (s *exportService) MarkFailed(ctx context.Context, id int64, cause error) error {
	msg := cause.Error()
	return s.exports.UpdateStatus(ctx, id, domain.ExportStatusFailed, &msg)
}

func (s *exportService) MarkCompleted(ctx context.Context, id int64, location string) error {
	return s.exports.MarkCompleted(ctx, id, location, time.Now())
}

func (s *exportService) Delete(ctx context.Context, id int64) error {
	return s.exports.Delete(ctx, id)
}
