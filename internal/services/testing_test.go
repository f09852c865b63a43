package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/email"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

// fakeRepository is an in-memory Repository for service tests. Only the
// methods the tested flows touch are implemented with real behavior;
// everything else returns zero values.
type fakeRepository struct {
	users         *fakeUserRepo
	courses       *fakeCourseRepo
	books         *fakeBookRepo
	liveClasses   *fakeLiveClassRepo
	enrollments   *fakeEnrollmentRepo
	payments      *fakePaymentRepo
	notifications *fakeNotificationRepo
	refreshTokens *fakeRefreshTokenRepo
	analytics     *fakeAnalyticsRepo
}

func newFakeRepository() *fakeRepository {
	r := &fakeRepository{
		users:         &fakeUserRepo{byID: map[uint]*models.User{}},
		courses:       &fakeCourseRepo{byID: map[uint]*models.Course{}},
		books:         &fakeBookRepo{byID: map[uint]*models.Book{}},
		liveClasses:   &fakeLiveClassRepo{byID: map[uint]*models.LiveClass{}},
		enrollments:   &fakeEnrollmentRepo{byID: map[uint]*models.Enrollment{}},
		payments:      &fakePaymentRepo{byID: map[uint]*models.PaymentTransaction{}},
		notifications: &fakeNotificationRepo{},
		refreshTokens: &fakeRefreshTokenRepo{byHash: map[string]*models.RefreshToken{}},
		analytics:     &fakeAnalyticsRepo{},
	}
	r.courses.parent = r
	return r
}

func (r *fakeRepository) User() repositories.UserRepository                 { return r.users }
func (r *fakeRepository) Course() repositories.CourseRepository             { return r.courses }
func (r *fakeRepository) Book() repositories.BookRepository                 { return r.books }
func (r *fakeRepository) LiveClass() repositories.LiveClassRepository       { return r.liveClasses }
func (r *fakeRepository) Enrollment() repositories.EnrollmentRepository     { return r.enrollments }
func (r *fakeRepository) Payment() repositories.PaymentRepository           { return r.payments }
func (r *fakeRepository) Notification() repositories.NotificationRepository { return r.notifications }
func (r *fakeRepository) RefreshToken() repositories.RefreshTokenRepository { return r.refreshTokens }
func (r *fakeRepository) Analytics() repositories.AnalyticsRepository       { return r.analytics }

func (r *fakeRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
func (r *fakeRepository) Ping(ctx context.Context) error { return nil }
func (r *fakeRepository) Close() error                   { return nil }

func duplicateKeyErr() error {
	return &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"}
}

func listAllNotifications() repositories.NotificationFilters {
	return repositories.NotificationFilters{Limit: 50}
}

func listAllEnrollments() repositories.EnrollmentFilters {
	return repositories.EnrollmentFilters{Limit: 50}
}

func listAllCourses() repositories.CourseFilters {
	return repositories.CourseFilters{Limit: 50}
}

func newNoopPublisher(logger *slog.Logger) events.EventPublisher {
	return events.NewMockEventPublisher(logger)
}

func newTestMailSender(logger *slog.Logger) email.Sender {
	return email.NewNoopSender(logger)
}

// ===== USERS =====

type fakeUserRepo struct {
	nextID uint
	byID   map[uint]*models.User
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	for _, u := range f.byID {
		if u.Email == user.Email {
			return duplicateKeyErr()
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	cp := *user
	f.byID[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, tx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (f *fakeUserRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var out []*models.User
	for _, u := range f.byID {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	u, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "status":
			u.Status = v.(models.UserStatus)
		case "role":
			u.Role = v.(models.UserRole)
		case "full_name":
			u.FullName = v.(string)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "last_login_at":
			t := v.(time.Time)
			u.LastLoginAt = &t
		}
	}
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(f.byID, id)
	return nil
}

// ===== COURSES =====

type fakeCourseRepo struct {
	nextID uint
	byID   map[uint]*models.Course
	parent *fakeRepository
}

func (f *fakeCourseRepo) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	f.nextID++
	course.ID = f.nextID
	cp := *course
	f.byID[course.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var out []*models.Course
	for _, c := range f.byID {
		if filters.Status != nil && c.Status != *filters.Status {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	c, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "title":
			c.Title = v.(string)
		case "price":
			c.Price = v.(float64)
		}
	}
	return nil
}

func (f *fakeCourseRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.CourseStatus) error {
	c, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Status = status
	return nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeCourseRepo) HasActiveEnrollments(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	for _, e := range f.parent.enrollments.byID {
		if e.CourseID != nil && *e.CourseID == id &&
			(e.Status == models.EnrollmentActive || e.Status == models.EnrollmentPending) {
			return true, nil
		}
	}
	return false, nil
}

// ===== BOOKS =====

type fakeBookRepo struct {
	nextID uint
	byID   map[uint]*models.Book
}

func (f *fakeBookRepo) Create(ctx context.Context, tx *gorm.DB, book *models.Book) error {
	f.nextID++
	book.ID = f.nextID
	cp := *book
	f.byID[book.ID] = &cp
	return nil
}

func (f *fakeBookRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Book, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.BookFilters) ([]*models.Book, int64, error) {
	var out []*models.Book
	for _, b := range f.byID {
		if filters.Status != nil && b.Status != *filters.Status {
			continue
		}
		if filters.IsPublished != nil && b.IsPublished != *filters.IsPublished {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeBookRepo) Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	b, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "title":
			b.Title = v.(string)
		case "is_published":
			b.IsPublished = v.(bool)
		}
	}
	return nil
}

func (f *fakeBookRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.BookStatus) error {
	b, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeBookRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(f.byID, id)
	return nil
}

// ===== LIVE CLASSES =====

type fakeLiveClassRepo struct {
	nextID uint
	byID   map[uint]*models.LiveClass
}

func (f *fakeLiveClassRepo) Create(ctx context.Context, tx *gorm.DB, class *models.LiveClass) error {
	f.nextID++
	class.ID = f.nextID
	cp := *class
	f.byID[class.ID] = &cp
	return nil
}

func (f *fakeLiveClassRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.LiveClass, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeLiveClassRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.LiveClassFilters) ([]*models.LiveClass, int64, error) {
	var out []*models.LiveClass
	for _, c := range f.byID {
		if filters.Status != nil && c.Status != *filters.Status {
			continue
		}
		if len(filters.Statuses) > 0 {
			match := false
			for _, status := range filters.Statuses {
				if c.Status == status {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	total := int64(len(out))
	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			out = nil
		} else {
			out = out[filters.Offset:]
		}
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, total, nil
}

func (f *fakeLiveClassRepo) Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	return nil
}

func (f *fakeLiveClassRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.LiveClassStatus) error {
	c, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Status = status
	return nil
}

func (f *fakeLiveClassRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(f.byID, id)
	return nil
}

// ===== ENROLLMENTS =====

type fakeEnrollmentRepo struct {
	nextID uint
	byID   map[uint]*models.Enrollment
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	for _, e := range f.byID {
		if e.UserID != enrollment.UserID {
			continue
		}
		if enrollment.CourseID != nil && e.CourseID != nil && *e.CourseID == *enrollment.CourseID {
			return duplicateKeyErr()
		}
		if enrollment.LiveClassID != nil && e.LiveClassID != nil && *e.LiveClassID == *enrollment.LiveClassID {
			return duplicateKeyErr()
		}
	}
	f.nextID++
	enrollment.ID = f.nextID
	cp := *enrollment
	f.byID[enrollment.ID] = &cp
	return nil
}

func (f *fakeEnrollmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEnrollmentRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uint) (*models.Enrollment, error) {
	for _, e := range f.byID {
		if e.UserID == userID && e.CourseID != nil && *e.CourseID == courseID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEnrollmentRepo) GetByUserAndLiveClass(ctx context.Context, tx *gorm.DB, userID, classID uint) (*models.Enrollment, error) {
	for _, e := range f.byID {
		if e.UserID == userID && e.LiveClassID != nil && *e.LiveClassID == classID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEnrollmentRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	var out []*models.Enrollment
	for _, e := range f.byID {
		if filters.UserID != nil && e.UserID != *filters.UserID {
			continue
		}
		if filters.Status != nil && e.Status != *filters.Status {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeEnrollmentRepo) Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	e, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "status":
			e.Status = v.(models.EnrollmentStatus)
		case "activated_at":
			t := v.(time.Time)
			e.ActivatedAt = &t
		case "completed_at":
			t := v.(time.Time)
			e.CompletedAt = &t
		case "cancelled_at":
			if v == nil {
				e.CancelledAt = nil
			} else {
				t := v.(time.Time)
				e.CancelledAt = &t
			}
		}
	}
	return nil
}

// ===== PAYMENTS =====

type fakePaymentRepo struct {
	nextID uint
	byID   map[uint]*models.PaymentTransaction
}

func (f *fakePaymentRepo) Create(ctx context.Context, tx *gorm.DB, payment *models.PaymentTransaction) error {
	f.nextID++
	payment.ID = f.nextID
	cp := *payment
	f.byID[payment.ID] = &cp
	return nil
}

func (f *fakePaymentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.PaymentTransaction, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentRepo) GetPendingByEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uint) (*models.PaymentTransaction, error) {
	for _, p := range f.byID {
		if p.EnrollmentID == enrollmentID && p.Status == models.PaymentPending {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePaymentRepo) Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	p, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "status":
			p.Status = v.(models.PaymentStatus)
		case "provider_ref":
			ref := v.(string)
			p.ProviderRef = &ref
		}
	}
	return nil
}

// ===== NOTIFICATIONS =====

type fakeNotificationRepo struct {
	nextID uint
	rows   []*models.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	f.nextID++
	notification.ID = f.nextID
	notification.CreatedAt = time.Now()
	cp := *notification
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uint, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	var out []*models.Notification
	for _, n := range f.rows {
		if n.UserID != userID {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, tx *gorm.DB, userID uint) (int64, error) {
	var count int64
	for _, n := range f.rows {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, id, userID uint) error {
	for _, n := range f.rows {
		if n.ID == id && n.UserID == userID {
			now := time.Now()
			n.IsRead = true
			n.ReadAt = &now
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, tx *gorm.DB, userID uint) error {
	now := time.Now()
	for _, n := range f.rows {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

// ===== REFRESH TOKENS =====

type fakeRefreshTokenRepo struct {
	nextID uint
	byHash map[string]*models.RefreshToken
}

func (f *fakeRefreshTokenRepo) Create(ctx context.Context, tx *gorm.DB, token *models.RefreshToken) error {
	if _, ok := f.byHash[token.TokenHash]; ok {
		return duplicateKeyErr()
	}
	f.nextID++
	token.ID = f.nextID
	cp := *token
	f.byHash[token.TokenHash] = &cp
	return nil
}

func (f *fakeRefreshTokenRepo) GetByHash(ctx context.Context, tx *gorm.DB, hash string) (*models.RefreshToken, error) {
	t, ok := f.byHash[hash]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeRefreshTokenRepo) DeleteByHash(ctx context.Context, tx *gorm.DB, hash string) error {
	delete(f.byHash, hash)
	return nil
}

func (f *fakeRefreshTokenRepo) DeleteByUser(ctx context.Context, tx *gorm.DB, userID uint) error {
	for hash, t := range f.byHash {
		if t.UserID == userID {
			delete(f.byHash, hash)
		}
	}
	return nil
}

func (f *fakeRefreshTokenRepo) DeleteExpired(ctx context.Context, tx *gorm.DB) error {
	for hash, t := range f.byHash {
		if t.Expired() {
			delete(f.byHash, hash)
		}
	}
	return nil
}

// ===== ANALYTICS =====

// fakeAnalyticsRepo returns whatever was seeded; the zero value stands in
// for a platform with no data yet.
type fakeAnalyticsRepo struct {
	counts       repositories.OverviewCounts
	registration []repositories.TrendPoint
	byRole       []repositories.RoleCount
	byStatus     []repositories.StatusCount
	courseStats  []repositories.CourseEnrollmentStat
	enrollStatus []repositories.StatusCount
	revenue      float64
	revenueTrend []repositories.TrendPoint
}

func (f *fakeAnalyticsRepo) GetOverviewCounts(ctx context.Context, tx *gorm.DB, activeDays int) (*repositories.OverviewCounts, error) {
	cp := f.counts
	return &cp, nil
}

func (f *fakeAnalyticsRepo) GetRegistrationTrend(ctx context.Context, tx *gorm.DB, days int) ([]repositories.TrendPoint, error) {
	return f.registration, nil
}

func (f *fakeAnalyticsRepo) GetUsersByRole(ctx context.Context, tx *gorm.DB) ([]repositories.RoleCount, error) {
	return f.byRole, nil
}

func (f *fakeAnalyticsRepo) GetUsersByStatus(ctx context.Context, tx *gorm.DB) ([]repositories.StatusCount, error) {
	return f.byStatus, nil
}

func (f *fakeAnalyticsRepo) GetCourseEnrollmentStats(ctx context.Context, tx *gorm.DB, limit int) ([]repositories.CourseEnrollmentStat, error) {
	return f.courseStats, nil
}

func (f *fakeAnalyticsRepo) GetEnrollmentsByStatus(ctx context.Context, tx *gorm.DB) ([]repositories.StatusCount, error) {
	return f.enrollStatus, nil
}

func (f *fakeAnalyticsRepo) GetTotalRevenue(ctx context.Context, tx *gorm.DB) (float64, error) {
	return f.revenue, nil
}

func (f *fakeAnalyticsRepo) GetRevenueTrend(ctx context.Context, tx *gorm.DB, days int) ([]repositories.TrendPoint, error) {
	return f.revenueTrend, nil
}
