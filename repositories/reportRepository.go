package repositories

import (
	"SonoCare/database"
	"SonoCare/models"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportRepository reads ledger state for aggregation. It never mutates
// billing rows.
type ReportRepository struct{}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{}
}

// DashboardSummary is the admin landing-page aggregate.
type DashboardSummary struct {
	TotalPatients  int64            `json:"total_patients"`
	TotalExams     int64            `json:"total_exams"`
	TotalRevenue   decimal.Decimal  `json:"total_revenue"`
	PendingBills   int64            `json:"pending_bills"`
	RecentPatients []models.Patient `json:"recent_patients"`
	RecentBills    []models.Bill    `json:"recent_bills"`
}

// BillingReportFilter narrows the billing report query.
type BillingReportFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// BillingReport is the filtered report payload.
type BillingReport struct {
	Bills         []models.Bill   `json:"bills"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
}

// MethodRevenue groups received payments by method.
type MethodRevenue struct {
	Method string          `json:"method"`
	Total  decimal.Decimal `json:"total"`
	Count  int64           `json:"count"`
}

// ServiceRevenue groups billed amounts by catalog service.
type ServiceRevenue struct {
	Service string          `json:"service"`
	Total   decimal.Decimal `json:"total"`
	Count   int64           `json:"count"`
}

// GetDashboardSummary collects the headline counts and recent activity.
func (r *ReportRepository) GetDashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	db := database.DB.WithContext(ctx)
	summary := &DashboardSummary{}

	if err := db.Model(&models.Patient{}).Where("status <> ?", models.PatientPurged).Count(&summary.TotalPatients).Error; err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}
	if err := db.Model(&models.UltrasoundExam{}).Count(&summary.TotalExams).Error; err != nil {
		return nil, fmt.Errorf("failed to count exams: %w", err)
	}
	if err := db.Model(&models.Bill{}).Where("status = ?", models.BillPending).Count(&summary.PendingBills).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending bills: %w", err)
	}
	if err := db.Model(&models.Bill{}).
		Where("status = ?", models.BillPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&summary.TotalRevenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	if err := db.Select("id, first_name, last_name, sex, date_of_birth, status, created_at").
		Where("status <> ?", models.PatientPurged).
		Order("created_at DESC").Limit(5).
		Find(&summary.RecentPatients).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent patients: %w", err)
	}
	if err := db.Select("id, bill_number, patient_id, bill_date, total_amount, status").
		Order("bill_date DESC").Limit(5).
		Find(&summary.RecentBills).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent bills: %w", err)
	}

	return summary, nil
}

// GetBillingReport returns bills matching the filter plus revenue totals
// over the same slice.
func (r *ReportRepository) GetBillingReport(ctx context.Context, filter BillingReportFilter) (*BillingReport, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filtered := func() *gorm.DB {
		query := database.DB.WithContext(ctx).Model(&models.Bill{})
		if filter.StartDate != nil && filter.EndDate != nil {
			query = query.Where("bill_date BETWEEN ? AND ?", *filter.StartDate, *filter.EndDate)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.MinAmount != nil {
			query = query.Where("total_amount >= ?", *filter.MinAmount)
		}
		if filter.MaxAmount != nil {
			query = query.Where("total_amount <= ?", *filter.MaxAmount)
		}
		return query
	}

	report := &BillingReport{}
	if err := filtered().
		Select("id, bill_number, patient_id, bill_date, due_date, subtotal, discount, tax, total_amount, status, created_at").
		Order("bill_date DESC").
		Find(&report.Bills).Error; err != nil {
		return nil, fmt.Errorf("failed to query bills for report: %w", err)
	}

	if err := filtered().
		Where("status = ?", models.BillPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&report.TotalRevenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum report revenue: %w", err)
	}
	if err := filtered().
		Where("status = ?", models.BillPending).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&report.PendingAmount).Error; err != nil {
		return nil, fmt.Errorf("failed to sum pending amount: %w", err)
	}

	return report, nil
}

// GetRevenueByMethod groups recorded payments by payment method over the
// given period. Change handed back is not revenue, so it is subtracted.
func (r *ReportRepository) GetRevenueByMethod(ctx context.Context, start, end time.Time) ([]MethodRevenue, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rows []MethodRevenue
	err := database.DB.WithContext(ctx).Model(&models.Payment{}).
		Select("method, COALESCE(SUM(amount - change_amount), 0) AS total, COUNT(*) AS count").
		Where("payment_date BETWEEN ? AND ?", start, end).
		Group("method").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group revenue by method: %w", err)
	}
	return rows, nil
}

// GetRevenueByService groups billed amounts by catalog service across
// paid bills.
func (r *ReportRepository) GetRevenueByService(ctx context.Context) ([]ServiceRevenue, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rows []ServiceRevenue
	err := database.DB.WithContext(ctx).Model(&models.BillItem{}).
		Select("service_type.name AS service, COALESCE(SUM(bill_item.amount), 0) AS total, COUNT(*) AS count").
		Joins("JOIN service_type ON service_type.id = bill_item.service_id").
		Joins("JOIN bill ON bill.id = bill_item.bill_id").
		Where("bill.status = ?", models.BillPaid).
		Group("service_type.name").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group revenue by service: %w", err)
	}
	return rows, nil
}
