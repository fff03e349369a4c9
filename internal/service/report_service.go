package service

import (
	"context"

	"jobboard/internal/domain"
	"jobboard/internal/repository"
)

const (
	jobsPerMonthLabel       = "Jobs per month"
	appsPerMonthLabel       = "Applications per month"
	candidatesPerMonthLabel = "Candidates per month"
)

// ReportService builds the monthly charts of the reports dashboard.
type ReportService interface {
	JobsPerMonth(ctx context.Context) (domain.ChartSeries, error)
	ApplicationsPerMonth(ctx context.Context) (domain.ChartSeries, error)
	CandidatesPerMonth(ctx context.Context) (domain.ChartSeries, error)
	Snapshot(ctx context.Context, companyID int64) (*domain.ReportSnapshot, error)
}

type reportService struct {
	reports repository.ReportRepository
}

func NewReportService(reports repository.ReportRepository) ReportService {
	return &reportService{reports: reports}
}

func (s *reportService) JobsPerMonth(ctx context.Context) (domain.ChartSeries, error) {
	return s.series(ctx, jobsPerMonthLabel, s.reports.JobsPerMonth, 0)
}

func (s *reportService) ApplicationsPerMonth(ctx context.Context) (domain.ChartSeries, error) {
	return s.series(ctx, appsPerMonthLabel, s.reports.ApplicationsPerMonth, 0)
}

func (s *reportService) CandidatesPerMonth(ctx context.Context) (domain.ChartSeries, error) {
	return s.series(ctx, candidatesPerMonthLabel, s.reports.CandidatesPerMonth, 0)
}

// Snapshot aggregates the three series for a single company.
func (s *reportService) Snapshot(ctx context.Context, companyID int64) (*domain.ReportSnapshot, error) {
	jobs, err := s.series(ctx, jobsPerMonthLabel, s.reports.JobsPerMonth, companyID)
	if err != nil {
		return nil, err
	}
	apps, err := s.series(ctx, appsPerMonthLabel, s.reports.ApplicationsPerMonth, companyID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.series(ctx, candidatesPerMonthLabel, s.reports.CandidatesPerMonth, companyID)
	if err != nil {
		return nil, err
	}
	return &domain.ReportSnapshot{
		CompanyID:          companyID,
		JobsPerMonth:       jobs,
		AppsPerMonth:       apps,
		CandidatesPerMonth: candidates,
	}, nil
}

type monthlyQuery func(ctx context.Context, companyID int64) ([]domain.MonthCount, error)

func (s *reportService) series(ctx context.Context, label string, query monthlyQuery, companyID int64) (domain.ChartSeries, error) {
	counts, err := query(ctx, companyID)
	if err != nil {
		return domain.ChartSeries{}, err
	}
	return domain.NewChartSeries(label, counts), nil
}
