package services

import (
	"SonoCare/repositories"
	"context"
	"time"
)

type ReportService struct {
	repository *repositories.ReportRepository
}

func NewReportService(repository *repositories.ReportRepository) *ReportService {
	return &ReportService{repository: repository}
}

func (s *ReportService) GetDashboardSummary(ctx context.Context) (*repositories.DashboardSummary, error) {
	return s.repository.GetDashboardSummary(ctx)
}

func (s *ReportService) GetBillingReport(ctx context.Context, filter repositories.BillingReportFilter) (*repositories.BillingReport, error) {
	return s.repository.GetBillingReport(ctx, filter)
}

func (s *ReportService) GetRevenueByMethod(ctx context.Context, start, end time.Time) ([]repositories.MethodRevenue, error) {
	return s.repository.GetRevenueByMethod(ctx, start, end)
}

func (s *ReportService) GetRevenueByService(ctx context.Context) ([]repositories.ServiceRevenue, error) {
	return s.repository.GetRevenueByService(ctx)
}
