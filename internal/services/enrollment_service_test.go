package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

func newEnrollmentFixture(t *testing.T) (*fakeRepository, EnrollmentService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := newFakeRepository()
	notifications := NewNotificationService(repo, nil, newNoopPublisher(logger), logger)
	mail := newTestMailSender(logger)
	service := NewEnrollmentService(repo, nil, notifications, mail, logger, validator.New())
	return repo, service
}

func seedUser(t *testing.T, repo *fakeRepository, email string) *models.User {
	t.Helper()
	user := &models.User{
		FullName:     "Test Student",
		Email:        email,
		PasswordHash: "x",
		Role:         models.RoleUser,
		Status:       models.UserActive,
	}
	if err := repo.users.Create(context.Background(), nil, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedCourse(t *testing.T, repo *fakeRepository, price float64, status models.CourseStatus) *models.Course {
	t.Helper()
	course := &models.Course{
		Title:     "Go from Scratch",
		Price:     price,
		Status:    status,
		CreatedBy: 1,
	}
	if err := repo.courses.Create(context.Background(), nil, course); err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return course
}

func TestEnrollmentService_FreeCourseActivatesImmediately(t *testing.T) {
	repo, service := newEnrollmentFixture(t)
	user := seedUser(t, repo, "student@example.com")
	course := seedCourse(t, repo, 0, models.CoursePublished)

	result, err := service.EnrollInCourse(context.Background(), user.ID, course.ID)
	if err != nil {
		t.Fatalf("EnrollInCourse failed: %v", err)
	}

	if result.AlreadyEnrolled {
		t.Error("Fresh enrollment should not report AlreadyEnrolled")
	}
	if result.Enrollment.Status != models.EnrollmentActive {
		t.Errorf("Expected active enrollment for free course, got %s", result.Enrollment.Status)
	}
	if result.Enrollment.ActivatedAt == nil {
		t.Error("ActivatedAt should be set for a free enrollment")
	}
	if result.Payment != nil {
		t.Error("Free course should not create a payment")
	}
}

func TestEnrollmentService_PaidCoursePendingWithPayment(t *testing.T) {
	repo, service := newEnrollmentFixture(t)
	user := seedUser(t, repo, "student@example.com")
	course := seedCourse(t, repo, 499, models.CoursePublished)

	result, err := service.EnrollInCourse(context.Background(), user.ID, course.ID)
	if err != nil {
		t.Fatalf("EnrollInCourse failed: %v", err)
	}

	if result.Enrollment.Status != models.EnrollmentPending {
		t.Errorf("Expected pending enrollment for paid course, got %s", result.Enrollment.Status)
	}
	if result.Payment == nil {
		t.Fatal("Paid course should create a payment")
	}
	if result.Payment.Amount != 499 {
		t.Errorf("Expected payment amount 499, got %f", result.Payment.Amount)
	}
	if result.Payment.Status != models.PaymentPending {
		t.Errorf("Expected pending payment, got %s", result.Payment.Status)
	}
}

func TestEnrollmentService_RepeatedEnrollIsIdempotent(t *testing.T) {
	repo, service := newEnrollmentFixture(t)
	user := seedUser(t, repo, "student@example.com")
	course := seedCourse(t, repo, 499, models.CoursePublished)
	ctx := context.Background()

	first, err := service.EnrollInCourse(ctx, user.ID, course.ID)
	if err != nil {
		t.Fatalf("first enroll failed: %v", err)
	}

	second, err := service.EnrollInCourse(ctx, user.ID, course.ID)
	if err != nil {
		t.Fatalf("second enroll failed: %v", err)
	}

	if !second.AlreadyEnrolled {
		t.Error("Replay should report AlreadyEnrolled")
	}
	if second.Enrollment.ID != first.Enrollment.ID {
		t.Errorf("Replay should return the same enrollment, got %d and %d",
			first.Enrollment.ID, second.Enrollment.ID)
	}
	if second.Payment == nil || second.Payment.ID != first.Payment.ID {
		t.Error("Replay should return the existing pending payment")
	}

	// Still exactly one enrollment row.
	resp, err := service.ListMine(ctx, user.ID, listAllEnrollments())
	if err != nil {
		t.Fatalf("ListMine failed: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("Expected exactly 1 enrollment, got %d", resp.Total)
	}
}

func TestEnrollmentService_UnpublishedCourseRejected(t *testing.T) {
	repo, service := newEnrollmentFixture(t)
	user := seedUser(t, repo, "student@example.com")
	course := seedCourse(t, repo, 0, models.CourseDraft)

	_, err := service.EnrollInCourse(context.Background(), user.ID, course.ID)
	if err != ErrCourseNotPublished {
		t.Errorf("Expected ErrCourseNotPublished, got %v", err)
	}
}

func TestEnrollmentService_ConfirmPaymentActivates(t *testing.T) {
	repo, service := newEnrollmentFixture(t)
	user := seedUser(t, repo, "student@example.com")
	course := seedCourse(t, repo, 999, models.CoursePublished)
	ctx := context.Background()

	enrolled, err := service.EnrollInCourse(ctx, user.ID, course.ID)
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	confirmed, err := service.ConfirmPayment(ctx, user.ID, &ConfirmPaymentRequest{
		PaymentID:   enrolled.Payment.ID,
		ProviderRef: "pay_ABC123",
	})
	if err != nil {
		t.Fatalf("ConfirmPayment failed: %v", err)
	}

	if confirmed.Enrollment.Status != models.EnrollmentActive {
		t.Errorf("Expected active enrollment after payment, got %s", confirmed.Enrollment.Status)
	}
	if confirmed.Payment.Status != models.PaymentPaid {
		t.Errorf("Expected paid payment, got %s", confirmed.Payment.Status)
	}
	if confirmed.Payment.ProviderRef == nil || *confirmed.Payment.ProviderRef != "pay_ABC123" {
		t.Error("Provider reference should be recorded")
	}

	// Settled payments cannot be confirmed twice.
	_, err = service.ConfirmPayment(ctx, user.ID, &ConfirmPaymentRequest{
		PaymentID:   enrolled.Payment.ID,
		ProviderRef: "pay_ABC123",
	})
	if err != ErrPaymentAlreadySettled {
		t.Errorf("Expected ErrPaymentAlreadySettled on replay, got %v", err)
	}
}

func TestEnrollmentService_ConfirmPaymentOwnerOnly(t *testing.T) {
	repo, service := newEnrollmentFixture(t)
	owner := seedUser(t, repo, "owner@example.com")
	other := seedUser(t, repo, "other@example.com")
	course := seedCourse(t, repo, 999, models.CoursePublished)
	ctx := context.Background()

	enrolled, err := service.EnrollInCourse(ctx, owner.ID, course.ID)
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	_, err = service.ConfirmPayment(ctx, other.ID, &ConfirmPaymentRequest{
		PaymentID:   enrolled.Payment.ID,
		ProviderRef: "pay_X",
	})
	if _, ok := err.(*PermissionError); !ok {
		t.Errorf("Expected PermissionError, got %v", err)
	}
}

func TestEnrollmentService_CancelAndReEnroll(t *testing.T) {
	repo, service := newEnrollmentFixture(t)
	user := seedUser(t, repo, "student@example.com")
	course := seedCourse(t, repo, 0, models.CoursePublished)
	ctx := context.Background()

	first, err := service.EnrollInCourse(ctx, user.ID, course.ID)
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	cancelled, err := service.Cancel(ctx, user.ID, first.Enrollment.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.Status != models.EnrollmentCancelled {
		t.Errorf("Expected cancelled status, got %s", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Error("CancelledAt should be set")
	}

	// Re-enrolling revives the same row instead of creating a second one.
	revived, err := service.EnrollInCourse(ctx, user.ID, course.ID)
	if err != nil {
		t.Fatalf("re-enroll failed: %v", err)
	}
	if revived.Enrollment.ID != first.Enrollment.ID {
		t.Errorf("Expected revived enrollment %d, got %d", first.Enrollment.ID, revived.Enrollment.ID)
	}
	if revived.Enrollment.Status != models.EnrollmentActive {
		t.Errorf("Expected active status after revival, got %s", revived.Enrollment.Status)
	}
	if revived.Enrollment.CancelledAt != nil {
		t.Error("CancelledAt should be cleared on revival")
	}
}

func TestEnrollmentService_LiveClassBooking(t *testing.T) {
	repo, service := newEnrollmentFixture(t)
	user := seedUser(t, repo, "student@example.com")
	ctx := context.Background()

	class := &models.LiveClass{
		Title:       "Office Hours",
		StartsAt:    time.Now().Add(24 * time.Hour),
		DurationMin: 60,
		Status:      models.LiveClassUpcoming,
		CreatedBy:   1,
	}
	if err := repo.liveClasses.Create(ctx, nil, class); err != nil {
		t.Fatalf("seed class: %v", err)
	}

	result, err := service.EnrollInLiveClass(ctx, user.ID, class.ID)
	if err != nil {
		t.Fatalf("EnrollInLiveClass failed: %v", err)
	}
	if result.Enrollment.Status != models.EnrollmentActive {
		t.Errorf("Expected active booking, got %s", result.Enrollment.Status)
	}

	// Ended classes are not bookable.
	ended := &models.LiveClass{
		Title:       "Past Session",
		StartsAt:    time.Now().Add(-48 * time.Hour),
		DurationMin: 60,
		Status:      models.LiveClassEnded,
		CreatedBy:   1,
	}
	if err := repo.liveClasses.Create(ctx, nil, ended); err != nil {
		t.Fatalf("seed class: %v", err)
	}
	if _, err := service.EnrollInLiveClass(ctx, user.ID, ended.ID); err != ErrLiveClassNotBookable {
		t.Errorf("Expected ErrLiveClassNotBookable, got %v", err)
	}
}
