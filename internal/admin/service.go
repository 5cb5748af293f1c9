package admin

import (
	"context"
	"errors"
	"time"

	"farmlink-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrReportNotFound = errors.New("Report not found")

type Service struct {
	DB *gorm.DB
}

// ReporterSummary is the projection of the reporter joined onto reports.
type ReporterSummary struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
}

// ReportWithReporter is a report with its reporter populated.
type ReportWithReporter struct {
	domain.Report
	Reporter *ReporterSummary `json:"reporter"`
}

// GetReports lists reports, optionally by status, newest first.
func (s *Service) GetReports(ctx context.Context, status string) ([]ReportWithReporter, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Report{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var reports []domain.Report
	if err := q.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return s.withReporters(ctx, reports)
}

// GetReportByID returns one report with its reporter populated.
func (s *Service) GetReportByID(ctx context.Context, id uuid.UUID) (*ReportWithReporter, error) {
	var report domain.Report
	if err := s.DB.WithContext(ctx).Where("report_id = ?", id).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	joined, err := s.withReporters(ctx, []domain.Report{report})
	if err != nil {
		return nil, err
	}
	return &joined[0], nil
}

// ResolveReport marks a report resolved with the action taken.
func (s *Service) ResolveReport(ctx context.Context, id, adminID uuid.UUID, actionTaken string) (*domain.Report, error) {
	return s.closeReport(ctx, id, adminID, domain.ReportResolved, actionTaken)
}

// DismissReport marks a report dismissed.
func (s *Service) DismissReport(ctx context.Context, id, adminID uuid.UUID) (*domain.Report, error) {
	return s.closeReport(ctx, id, adminID, domain.ReportDismissed, "")
}

func (s *Service) closeReport(ctx context.Context, id, adminID uuid.UUID, status, actionTaken string) (*domain.Report, error) {
	var report domain.Report
	if err := s.DB.WithContext(ctx).Where("report_id = ?", id).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	now := time.Now().UTC()
	report.Status = status
	report.ResolvedAt = &now
	report.ResolvedByID = &adminID
	if actionTaken != "" {
		report.ActionTaken = actionTaken
	}
	if err := s.DB.WithContext(ctx).Save(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// DashboardStats is the admin overview counters payload.
type DashboardStats struct {
	UsersCount          int64 `json:"usersCount"`
	FarmersCount        int64 `json:"farmersCount"`
	BuyersCount         int64 `json:"buyersCount"`
	ListingsCount       int64 `json:"listingsCount"`
	ActiveListingsCount int64 `json:"activeListingsCount"`
	ReportsCount        int64 `json:"reportsCount"`
	PendingReportsCount int64 `json:"pendingReportsCount"`
}

// GetDashboardStats counts users, listings and reports for the overview.
func (s *Service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	db := s.DB.WithContext(ctx)
	stats := &DashboardStats{}
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.UsersCount, db.Model(&domain.User{})},
		{&stats.FarmersCount, db.Model(&domain.User{}).Where("role = ?", domain.RoleFarmer)},
		{&stats.BuyersCount, db.Model(&domain.User{}).Where("role = ?", domain.RoleBuyer)},
		{&stats.ListingsCount, db.Model(&domain.Listing{})},
		{&stats.ActiveListingsCount, db.Model(&domain.Listing{}).Where("is_active = ?", true)},
		{&stats.ReportsCount, db.Model(&domain.Report{})},
		{&stats.PendingReportsCount, db.Model(&domain.Report{}).Where("status = ?", domain.ReportPending)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return stats, nil
}

func (s *Service) withReporters(ctx context.Context, reports []domain.Report) ([]ReportWithReporter, error) {
	out := make([]ReportWithReporter, len(reports))
	if len(reports) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(reports))
	seen := make(map[uuid.UUID]bool, len(reports))
	for _, r := range reports {
		if !seen[r.ReporterID] {
			seen[r.ReporterID] = true
			ids = append(ids, r.ReporterID)
		}
	}
	var reporters []domain.User
	if err := s.DB.WithContext(ctx).Where("user_id IN ?", ids).Find(&reporters).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*ReporterSummary, len(reporters))
	for _, u := range reporters {
		byID[u.UserID] = &ReporterSummary{ID: u.UserID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
	}
	for i, r := range reports {
		out[i] = ReportWithReporter{Report: r, Reporter: byID[r.ReporterID]}
	}
	return out, nil
}
