package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/email"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

type enrollmentService struct {
	repo          repositories.Repository
	db            *gorm.DB
	notifications NotificationService
	mail          email.Sender
	logger        *slog.Logger
	validator     *validator.Validator
}

func NewEnrollmentService(
	repo repositories.Repository,
	db *gorm.DB,
	notifications NotificationService,
	mail email.Sender,
	logger *slog.Logger,
	v *validator.Validator,
) EnrollmentService {
	return &enrollmentService{
		repo:          repo,
		db:            db,
		notifications: notifications,
		mail:          mail,
		logger:        logger,
		validator:     v,
	}
}

// EnrollInCourse is idempotent: repeating the request returns the existing
// enrollment instead of failing or duplicating. Free courses activate
// immediately; paid ones create a pending payment to confirm.
func (s *enrollmentService) EnrollInCourse(ctx context.Context, userID, courseID uint) (*EnrollmentResult, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if course.Status != models.CoursePublished {
		return nil, ErrCourseNotPublished
	}

	existing, err := s.repo.Enrollment().GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if existing != nil {
		return s.resumeExisting(ctx, existing, course)
	}

	enrollment := &models.Enrollment{
		UserID:   userID,
		CourseID: &courseID,
		Status:   models.EnrollmentPending,
	}
	if course.Price == 0 {
		now := time.Now()
		enrollment.Status = models.EnrollmentActive
		enrollment.ActivatedAt = &now
	}

	var payment *models.PaymentTransaction
	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Enrollment().Create(ctx, tx, enrollment); err != nil {
			return err
		}
		if course.Price > 0 {
			payment = &models.PaymentTransaction{
				UserID:       userID,
				EnrollmentID: enrollment.ID,
				Amount:       course.Price,
				Status:       models.PaymentPending,
			}
			return s.repo.Payment().Create(ctx, tx, payment)
		}
		return nil
	})
	if err != nil {
		// A concurrent identical request won the race; return its row.
		if repositories.IsDuplicateError(err) {
			winner, gerr := s.repo.Enrollment().GetByUserAndCourse(ctx, nil, userID, courseID)
			if gerr != nil {
				return nil, fmt.Errorf("failed to load winning enrollment: %w", gerr)
			}
			return s.resumeExisting(ctx, winner, course)
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.logger.Info("enrollment created",
		"enrollment_id", enrollment.ID, "user_id", userID, "course_id", courseID,
		"status", enrollment.Status)

	if enrollment.Status == models.EnrollmentActive {
		s.announceActivation(ctx, userID, enrollment.ID, course.Title)
	}

	return &EnrollmentResult{Enrollment: enrollment, Payment: payment}, nil
}

// resumeExisting handles the replayed enroll: a cancelled row is revived
// in place, anything else is returned as-is with its open payment.
func (s *enrollmentService) resumeExisting(ctx context.Context, enrollment *models.Enrollment, course *models.Course) (*EnrollmentResult, error) {
	if enrollment.Status == models.EnrollmentCancelled {
		updates := map[string]interface{}{
			"cancelled_at": nil,
			"status":       models.EnrollmentPending,
		}
		if course == nil || course.Price == 0 {
			updates["status"] = models.EnrollmentActive
			updates["activated_at"] = time.Now()
		}
		if err := s.repo.Enrollment().Update(ctx, nil, enrollment.ID, updates); err != nil {
			return nil, fmt.Errorf("failed to revive enrollment: %w", err)
		}

		revived, err := s.repo.Enrollment().GetByID(ctx, nil, enrollment.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload enrollment: %w", err)
		}

		var payment *models.PaymentTransaction
		if revived.Status == models.EnrollmentPending {
			payment, err = s.ensurePendingPayment(ctx, revived, course)
			if err != nil {
				return nil, err
			}
		} else if course != nil {
			s.announceActivation(ctx, revived.UserID, revived.ID, course.Title)
		}

		return &EnrollmentResult{Enrollment: revived, Payment: payment}, nil
	}

	var payment *models.PaymentTransaction
	if enrollment.Status == models.EnrollmentPending {
		p, err := s.repo.Payment().GetPendingByEnrollment(ctx, nil, enrollment.ID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to load pending payment: %w", err)
		}
		payment = p
		if payment == nil && course != nil && course.Price > 0 {
			payment, err = s.ensurePendingPayment(ctx, enrollment, course)
			if err != nil {
				return nil, err
			}
		}
	}

	return &EnrollmentResult{Enrollment: enrollment, Payment: payment, AlreadyEnrolled: true}, nil
}

func (s *enrollmentService) ensurePendingPayment(ctx context.Context, enrollment *models.Enrollment, course *models.Course) (*models.PaymentTransaction, error) {
	payment, err := s.repo.Payment().GetPendingByEnrollment(ctx, nil, enrollment.ID)
	if err == nil {
		return payment, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load pending payment: %w", err)
	}

	payment = &models.PaymentTransaction{
		UserID:       enrollment.UserID,
		EnrollmentID: enrollment.ID,
		Amount:       course.Price,
		Status:       models.PaymentPending,
	}
	if err := s.repo.Payment().Create(ctx, nil, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	return payment, nil
}

// EnrollInLiveClass books a seat. Classes carry no price, so a booking
// activates immediately when the class is still open.
func (s *enrollmentService) EnrollInLiveClass(ctx context.Context, userID, classID uint) (*EnrollmentResult, error) {
	class, err := s.repo.LiveClass().GetByID(ctx, nil, classID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLiveClassNotFound
		}
		return nil, fmt.Errorf("failed to load live class: %w", err)
	}
	if !class.StudentVisible() {
		return nil, ErrLiveClassNotBookable
	}

	existing, err := s.repo.Enrollment().GetByUserAndLiveClass(ctx, nil, userID, classID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if existing != nil {
		return s.resumeExisting(ctx, existing, nil)
	}

	now := time.Now()
	enrollment := &models.Enrollment{
		UserID:      userID,
		LiveClassID: &classID,
		Status:      models.EnrollmentActive,
		ActivatedAt: &now,
	}

	if err := s.repo.Enrollment().Create(ctx, nil, enrollment); err != nil {
		if repositories.IsDuplicateError(err) {
			winner, gerr := s.repo.Enrollment().GetByUserAndLiveClass(ctx, nil, userID, classID)
			if gerr != nil {
				return nil, fmt.Errorf("failed to load winning enrollment: %w", gerr)
			}
			return s.resumeExisting(ctx, winner, nil)
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.logger.Info("live class booked",
		"enrollment_id", enrollment.ID, "user_id", userID, "live_class_id", classID)
	s.announceActivation(ctx, userID, enrollment.ID, class.Title)

	return &EnrollmentResult{Enrollment: enrollment}, nil
}

// ConfirmPayment settles a pending payment and activates its enrollment
// in one transaction.
func (s *enrollmentService) ConfirmPayment(ctx context.Context, userID uint, req *ConfirmPaymentRequest) (*EnrollmentResult, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	payment, err := s.repo.Payment().GetByID(ctx, nil, req.PaymentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	if payment.UserID != userID {
		return nil, NewPermissionError(userID, payment.ID, "payment", "confirm", "not owned by user")
	}
	if payment.Status != models.PaymentPending {
		return nil, ErrPaymentAlreadySettled
	}

	now := time.Now()
	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Payment().Update(ctx, tx, payment.ID, map[string]interface{}{
			"status":       models.PaymentPaid,
			"provider_ref": req.ProviderRef,
		}); err != nil {
			return err
		}
		return s.repo.Enrollment().Update(ctx, tx, payment.EnrollmentID, map[string]interface{}{
			"status":       models.EnrollmentActive,
			"activated_at": now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}

	enrollment, err := s.repo.Enrollment().GetByID(ctx, nil, payment.EnrollmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload enrollment: %w", err)
	}
	payment.Status = models.PaymentPaid
	payment.ProviderRef = &req.ProviderRef

	s.logger.Info("payment confirmed",
		"payment_id", payment.ID, "enrollment_id", enrollment.ID, "user_id", userID)

	title := ""
	if enrollment.Course != nil {
		title = enrollment.Course.Title
	}
	if err := s.notifications.Notify(ctx, userID, models.NotificationPaymentConfirmed,
		"Payment received", fmt.Sprintf("Your payment of %.2f was confirmed.", payment.Amount),
		map[string]interface{}{"payment_id": payment.ID}); err != nil {
		s.logger.Error("failed to send payment notification", "error", err, "payment_id", payment.ID)
	}
	s.announceActivation(ctx, userID, enrollment.ID, title)

	return &EnrollmentResult{Enrollment: enrollment, Payment: payment}, nil
}

// announceActivation fans out the in-app notification and the email for a
// newly active enrollment. Failures are logged, never surfaced.
func (s *enrollmentService) announceActivation(ctx context.Context, userID, enrollmentID uint, title string) {
	message := "Your enrollment is now active."
	if title != "" {
		message = fmt.Sprintf("Your enrollment in %q is now active.", title)
	}
	if err := s.notifications.Notify(ctx, userID, models.NotificationEnrollmentActive,
		"Enrollment active", message,
		map[string]interface{}{"enrollment_id": enrollmentID}); err != nil {
		s.logger.Error("failed to send enrollment notification", "error", err, "enrollment_id", enrollmentID)
	}

	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		s.logger.Error("failed to load user for enrollment email", "error", err, "user_id", userID)
		return
	}
	if err := s.mail.SendEnrollmentEmail(user.Email, user.FullName, title); err != nil {
		s.logger.Error("failed to send enrollment email", "error", err, "user_id", userID)
	}
}

func (s *enrollmentService) Cancel(ctx context.Context, userID, enrollmentID uint) (*models.Enrollment, error) {
	enrollment, err := s.repo.Enrollment().GetByID(ctx, nil, enrollmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to load enrollment: %w", err)
	}
	if enrollment.UserID != userID {
		return nil, NewPermissionError(userID, enrollmentID, "enrollment", "cancel", "not owned by user")
	}
	if enrollment.Status == models.EnrollmentCompleted {
		return nil, NewConflictError("enrollment", enrollmentID, "completed enrollment cannot be cancelled")
	}
	if enrollment.Status == models.EnrollmentCancelled {
		return enrollment, nil
	}

	now := time.Now()
	if err := s.repo.Enrollment().Update(ctx, nil, enrollmentID, map[string]interface{}{
		"status":       models.EnrollmentCancelled,
		"cancelled_at": now,
	}); err != nil {
		return nil, fmt.Errorf("failed to cancel enrollment: %w", err)
	}

	s.logger.Info("enrollment cancelled", "enrollment_id", enrollmentID, "user_id", userID)
	return s.repo.Enrollment().GetByID(ctx, nil, enrollmentID)
}

func (s *enrollmentService) ListMine(ctx context.Context, userID uint, filters repositories.EnrollmentFilters) (*EnrollmentListResponse, error) {
	filters.UserID = &userID
	return s.List(ctx, filters)
}

func (s *enrollmentService) List(ctx context.Context, filters repositories.EnrollmentFilters) (*EnrollmentListResponse, error) {
	enrollments, total, err := s.repo.Enrollment().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	return &EnrollmentListResponse{
		Enrollments: enrollments,
		Total:       total,
		Limit:       filters.Limit,
		Offset:      filters.Offset,
	}, nil
}

func (s *enrollmentService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Enrollment, error) {
	if errs := s.validator.GetBusinessValidator().ValidateEnrollmentStatus(status); len(errs) > 0 {
		return nil, errs
	}

	enrollment, err := s.repo.Enrollment().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to load enrollment: %w", err)
	}

	newStatus := models.EnrollmentStatus(status)
	if enrollment.Status == newStatus {
		return enrollment, nil
	}

	now := time.Now()
	updates := map[string]interface{}{"status": newStatus}
	switch newStatus {
	case models.EnrollmentActive:
		updates["activated_at"] = now
	case models.EnrollmentCompleted:
		updates["completed_at"] = now
	case models.EnrollmentCancelled:
		updates["cancelled_at"] = now
	}

	if err := s.repo.Enrollment().Update(ctx, nil, id, updates); err != nil {
		return nil, fmt.Errorf("failed to update enrollment status: %w", err)
	}

	s.logger.Info("enrollment status updated", "enrollment_id", id, "status", status)
	return s.repo.Enrollment().GetByID(ctx, nil, id)
}
