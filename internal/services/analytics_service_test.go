package services

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

func newAnalyticsFixture(t *testing.T) (*fakeRepository, AnalyticsService) {
	t.Helper()
	repo := newFakeRepository()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	svc := NewAnalyticsService(repo, nil, cache.NewCacheManager(nil), logger)
	return repo, svc
}

func TestAnalyticsService_EmptyPlatform(t *testing.T) {
	_, svc := newAnalyticsFixture(t)
	ctx := context.Background()

	overview, err := svc.GetOverview(ctx)
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}
	if overview.Counts.TotalUsers != 0 || overview.Counts.TotalEnrollments != 0 {
		t.Fatalf("expected zero counts, got %+v", overview.Counts)
	}
	if overview.TotalRevenue != 0 {
		t.Fatalf("expected zero revenue, got %v", overview.TotalRevenue)
	}
	if len(overview.RegistrationTrend) != 0 || len(overview.TopCourses) != 0 {
		t.Fatalf("expected empty trends, got %+v", overview)
	}

	users, err := svc.GetUserAnalytics(ctx, 0)
	if err != nil {
		t.Fatalf("GetUserAnalytics: %v", err)
	}
	if len(users.ByRole) != 0 || len(users.ByStatus) != 0 || len(users.Trend) != 0 {
		t.Fatalf("expected empty user analytics, got %+v", users)
	}

	courses, err := svc.GetCourseAnalytics(ctx)
	if err != nil {
		t.Fatalf("GetCourseAnalytics: %v", err)
	}
	if len(courses.ByStatus) != 0 || len(courses.ByCourse) != 0 {
		t.Fatalf("expected empty course analytics, got %+v", courses)
	}

	revenue, err := svc.GetRevenueAnalytics(ctx, 7)
	if err != nil {
		t.Fatalf("GetRevenueAnalytics: %v", err)
	}
	if revenue.Total != 0 || len(revenue.Trend) != 0 {
		t.Fatalf("expected empty revenue analytics, got %+v", revenue)
	}
}

func TestAnalyticsService_Overview(t *testing.T) {
	repo, svc := newAnalyticsFixture(t)
	repo.analytics.counts = repositories.OverviewCounts{
		TotalUsers:       12,
		TotalCourses:     3,
		TotalEnrollments: 20,
	}
	repo.analytics.revenue = 4990
	repo.analytics.courseStats = []repositories.CourseEnrollmentStat{
		{CourseID: 1, Title: "Algebra I", Enrollments: 15},
	}

	overview, err := svc.GetOverview(context.Background())
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}
	if overview.Counts.TotalUsers != 12 {
		t.Fatalf("expected 12 users, got %d", overview.Counts.TotalUsers)
	}
	if overview.TotalRevenue != 4990 {
		t.Fatalf("expected revenue 4990, got %v", overview.TotalRevenue)
	}
	if len(overview.TopCourses) != 1 || overview.TopCourses[0].Title != "Algebra I" {
		t.Fatalf("unexpected top courses: %+v", overview.TopCourses)
	}
}

func TestAnalyticsService_ExportOverview(t *testing.T) {
	repo, svc := newAnalyticsFixture(t)
	repo.analytics.counts = repositories.OverviewCounts{TotalUsers: 5}
	repo.analytics.revenue = 100

	file, err := svc.ExportOverview(context.Background())
	if err != nil {
		t.Fatalf("ExportOverview: %v", err)
	}
	if !strings.HasSuffix(file.Filename, ".xlsx") {
		t.Fatalf("unexpected filename %q", file.Filename)
	}
	if file.ContentType != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected content type %q", file.ContentType)
	}
	// xlsx is a zip archive; check for its magic bytes.
	if len(file.Data) == 0 || !bytes.HasPrefix(file.Data, []byte("PK")) {
		t.Fatalf("expected xlsx payload, got %d bytes", len(file.Data))
	}
}
