package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

const (
	defaultTrendDays = 30
	topCoursesLimit  = 10
	activeUserWindow = 30 // days since last login that still counts as active
)

type analyticsService struct {
	repo   repositories.Repository
	db     *gorm.DB
	cache  *cache.CacheManager
	logger *slog.Logger
}

func NewAnalyticsService(repo repositories.Repository, db *gorm.DB, cacheManager *cache.CacheManager, logger *slog.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		db:     db,
		cache:  cacheManager,
		logger: logger,
	}
}

func (s *analyticsService) GetOverview(ctx context.Context) (*AnalyticsOverview, error) {
	var overview AnalyticsOverview
	err := s.cache.Analytics.CacheOrExecute(ctx, "overview", &overview, cache.AnalyticsCacheConfig.TTL, func() (interface{}, error) {
		return s.buildOverview(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &overview, nil
}

func (s *analyticsService) buildOverview(ctx context.Context) (*AnalyticsOverview, error) {
	counts, err := s.repo.Analytics().GetOverviewCounts(ctx, nil, activeUserWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load overview counts: %w", err)
	}

	revenue, err := s.repo.Analytics().GetTotalRevenue(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load revenue: %w", err)
	}

	trend, err := s.repo.Analytics().GetRegistrationTrend(ctx, nil, defaultTrendDays)
	if err != nil {
		return nil, fmt.Errorf("failed to load registration trend: %w", err)
	}

	topCourses, err := s.repo.Analytics().GetCourseEnrollmentStats(ctx, nil, topCoursesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load course stats: %w", err)
	}

	return &AnalyticsOverview{
		Counts:            counts,
		TotalRevenue:      revenue,
		RegistrationTrend: trend,
		TopCourses:        topCourses,
	}, nil
}

func (s *analyticsService) GetUserAnalytics(ctx context.Context, days int) (*UserAnalytics, error) {
	if days <= 0 {
		days = defaultTrendDays
	}

	var result UserAnalytics
	key := fmt.Sprintf("users:%d", days)
	err := s.cache.Analytics.CacheOrExecute(ctx, key, &result, cache.AnalyticsCacheConfig.TTL, func() (interface{}, error) {
		byRole, err := s.repo.Analytics().GetUsersByRole(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load users by role: %w", err)
		}
		byStatus, err := s.repo.Analytics().GetUsersByStatus(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load users by status: %w", err)
		}
		trend, err := s.repo.Analytics().GetRegistrationTrend(ctx, nil, days)
		if err != nil {
			return nil, fmt.Errorf("failed to load registration trend: %w", err)
		}
		return &UserAnalytics{ByRole: byRole, ByStatus: byStatus, Trend: trend}, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *analyticsService) GetCourseAnalytics(ctx context.Context) (*CourseAnalytics, error) {
	var result CourseAnalytics
	err := s.cache.Analytics.CacheOrExecute(ctx, "courses", &result, cache.AnalyticsCacheConfig.TTL, func() (interface{}, error) {
		byStatus, err := s.repo.Analytics().GetEnrollmentsByStatus(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load enrollments by status: %w", err)
		}
		byCourse, err := s.repo.Analytics().GetCourseEnrollmentStats(ctx, nil, topCoursesLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to load course stats: %w", err)
		}
		return &CourseAnalytics{ByStatus: byStatus, ByCourse: byCourse}, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *analyticsService) GetRevenueAnalytics(ctx context.Context, days int) (*RevenueAnalytics, error) {
	if days <= 0 {
		days = defaultTrendDays
	}

	var result RevenueAnalytics
	key := fmt.Sprintf("revenue:%d", days)
	err := s.cache.Analytics.CacheOrExecute(ctx, key, &result, cache.AnalyticsCacheConfig.TTL, func() (interface{}, error) {
		total, err := s.repo.Analytics().GetTotalRevenue(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load revenue: %w", err)
		}
		trend, err := s.repo.Analytics().GetRevenueTrend(ctx, nil, days)
		if err != nil {
			return nil, fmt.Errorf("failed to load revenue trend: %w", err)
		}
		return &RevenueAnalytics{Total: total, Trend: trend}, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ExportOverview renders the dashboard as a spreadsheet for offline use.
func (s *analyticsService) ExportOverview(ctx context.Context) (*ContentFile, error) {
	overview, err := s.buildOverview(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Error("failed to close workbook", "error", err)
		}
	}()

	const sheet = "Overview"
	f.SetSheetName("Sheet1", sheet)

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total users", overview.Counts.TotalUsers},
		{"Active users", overview.Counts.ActiveUsers},
		{"Total courses", overview.Counts.TotalCourses},
		{"Total books", overview.Counts.TotalBooks},
		{"Total live classes", overview.Counts.TotalLiveClasses},
		{"Total enrollments", overview.Counts.TotalEnrollments},
		{"Total revenue", overview.TotalRevenue},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write overview row: %w", err)
		}
	}

	const courses = "Top Courses"
	if _, err := f.NewSheet(courses); err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}
	header := []interface{}{"Course ID", "Title", "Enrollments", "Completed", "Revenue"}
	if err := f.SetSheetRow(courses, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write course header: %w", err)
	}
	for i, stat := range overview.TopCourses {
		row := []interface{}{stat.CourseID, stat.Title, stat.Enrollments, stat.Completed, stat.Revenue}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(courses, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write course row: %w", err)
		}
	}

	const registrations = "Registrations"
	if _, err := f.NewSheet(registrations); err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}
	trendHeader := []interface{}{"Date", "Registrations"}
	if err := f.SetSheetRow(registrations, "A1", &trendHeader); err != nil {
		return nil, fmt.Errorf("failed to write trend header: %w", err)
	}
	for i, point := range overview.RegistrationTrend {
		row := []interface{}{point.Period, point.Count}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(registrations, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write trend row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	return &ContentFile{
		Data:        buf.Bytes(),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Filename:    fmt.Sprintf("analytics-overview-%s.xlsx", time.Now().Format("2006-01-02")),
	}, nil
}
