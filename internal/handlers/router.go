package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	userHandler         *UserHandler
	courseHandler       *CourseHandler
	bookHandler         *BookHandler
	liveClassHandler    *LiveClassHandler
	enrollmentHandler   *EnrollmentHandler
	notificationHandler *NotificationHandler
	contentHandler      *ContentHandler
	analyticsHandler    *AnalyticsHandler
	authMiddleware      *JWTAuthMiddleware
	serviceManager      services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	jwtSecret string,
) *HandlerManager {
	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.Auth(), logger),
		userHandler:         NewUserHandler(serviceManager.User(), logger),
		courseHandler:       NewCourseHandler(serviceManager.Course(), serviceManager.Enrollment(), logger),
		bookHandler:         NewBookHandler(serviceManager.Book(), logger),
		liveClassHandler:    NewLiveClassHandler(serviceManager.LiveClass(), serviceManager.Enrollment(), logger),
		enrollmentHandler:   NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		contentHandler:      NewContentHandler(serviceManager.Content(), logger),
		analyticsHandler:    NewAnalyticsHandler(serviceManager.Analytics(), logger),
		authMiddleware:      NewJWTAuthMiddleware(jwtSecret, logger),
		serviceManager:      serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Auth routes - public except the profile endpoints
		auth := v1.Group("/auth")
		{
			auth.POST("/register", hm.authHandler.Register)
			auth.POST("/login", hm.authHandler.Login)
			auth.POST("/refresh-token", hm.authHandler.Refresh)
			auth.POST("/logout", hm.authHandler.Logout)
			auth.POST("/forgot-password", hm.authHandler.ForgotPassword)
			auth.POST("/reset-password", hm.authHandler.ResetPassword)
			auth.GET("/verify-email", hm.authHandler.VerifyEmail)

			me := auth.Group("")
			me.Use(hm.authMiddleware.AuthMiddleware())
			{
				me.GET("/me", hm.authHandler.Me)
				me.PUT("/me", hm.authHandler.UpdateMe)
				me.PUT("/me/password", hm.authHandler.ChangePassword)
			}
		}

		// Admin routes - Admins only
		admin := v1.Group("/admin")
		admin.Use(hm.authMiddleware.AuthMiddleware())
		admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			users := admin.Group("/users")
			{
				users.GET("", hm.userHandler.ListUsers)
				users.GET("/:id", hm.userHandler.GetUser)
				users.PUT("/:id", hm.userHandler.UpdateUser)
				users.PUT("/:id/status", hm.userHandler.UpdateUserStatus)
				users.DELETE("/:id", hm.userHandler.DeleteUser)
			}

			courses := admin.Group("/courses")
			{
				courses.POST("", hm.courseHandler.CreateCourse)
				courses.GET("", hm.courseHandler.ListCourses)
				courses.GET("/:id", hm.courseHandler.GetCourse)
				courses.PUT("/:id", hm.courseHandler.UpdateCourse)
				courses.PUT("/:id/status", hm.courseHandler.UpdateCourseStatus)
				courses.DELETE("/:id", hm.courseHandler.DeleteCourse)
			}

			books := admin.Group("/books")
			{
				books.POST("", hm.bookHandler.CreateBook)
				books.GET("", hm.bookHandler.ListBooks)
				books.GET("/:id", hm.bookHandler.GetBook)
				books.PUT("/:id", hm.bookHandler.UpdateBook)
				books.PUT("/:id/status", hm.bookHandler.UpdateBookStatus)
				books.DELETE("/:id", hm.bookHandler.DeleteBook)
			}

			liveClasses := admin.Group("/live-classes")
			{
				liveClasses.POST("", hm.liveClassHandler.CreateLiveClass)
				liveClasses.GET("", hm.liveClassHandler.ListLiveClasses)
				liveClasses.GET("/:id", hm.liveClassHandler.GetLiveClass)
				liveClasses.PUT("/:id", hm.liveClassHandler.UpdateLiveClass)
				liveClasses.PUT("/:id/status", hm.liveClassHandler.UpdateLiveClassStatus)
				liveClasses.DELETE("/:id", hm.liveClassHandler.DeleteLiveClass)
			}

			enrollments := admin.Group("/enrollments")
			{
				enrollments.GET("", hm.enrollmentHandler.ListEnrollments)
				enrollments.PUT("/:id/status", hm.enrollmentHandler.UpdateEnrollmentStatus)
			}
		}

		// Analytics routes - Admins only
		analytics := v1.Group("/analytics")
		analytics.Use(hm.authMiddleware.AuthMiddleware())
		analytics.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			analytics.GET("/overview", hm.analyticsHandler.GetOverview)
			analytics.GET("/users", hm.analyticsHandler.GetUserAnalytics)
			analytics.GET("/courses", hm.analyticsHandler.GetCourseAnalytics)
			analytics.GET("/revenue", hm.analyticsHandler.GetRevenueAnalytics)
			analytics.GET("/export", hm.analyticsHandler.ExportOverview)
		}

		// Student routes - user role (admins pass implicitly)
		student := v1.Group("/student")
		student.Use(hm.authMiddleware.AuthMiddleware())
		student.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleUser))
		{
			student.GET("/courses", hm.courseHandler.BrowseCourses)
			student.GET("/courses/:id", hm.courseHandler.GetPublishedCourse)
			// Enroll and purchase converge on the same idempotent flow: a
			// free course activates immediately, a paid one opens a pending
			// payment either way.
			student.POST("/courses/:id/enroll", hm.courseHandler.EnrollCourse)
			student.POST("/courses/:id/purchase", hm.courseHandler.EnrollCourse)

			student.GET("/books", hm.bookHandler.BrowseBooks)
			student.GET("/books/:id", hm.bookHandler.GetAvailableBook)

			student.GET("/live-classes", hm.liveClassHandler.BrowseLiveClasses)
			student.GET("/live-classes/:id", hm.liveClassHandler.GetVisibleLiveClass)
			student.POST("/live-classes/:id/book", hm.liveClassHandler.BookLiveClass)

			student.GET("/enrollments", hm.enrollmentHandler.ListMyEnrollments)
			student.POST("/enrollments/payments/confirm", hm.enrollmentHandler.ConfirmPayment)
			student.DELETE("/enrollments/:id", hm.enrollmentHandler.CancelEnrollment)

			student.GET("/notifications", hm.notificationHandler.ListNotifications)
			student.PUT("/notifications/read-all", hm.notificationHandler.MarkAllNotificationsRead)
			student.PUT("/notifications/:id/read", hm.notificationHandler.MarkNotificationRead)
		}

		// Secure content. Covers stay public so catalog pages can embed
		// them; the PDF itself requires an authenticated reader.
		securePdf := v1.Group("/secure-pdf")
		{
			securePdf.GET("/cover/:bookId", hm.contentHandler.ServeCover)
			securePdf.GET("/pdf/:bookId",
				hm.authMiddleware.AuthMiddleware(),
				hm.authMiddleware.RequireRoleMiddleware(models.RoleUser),
				hm.contentHandler.ServeSecurePdf)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{
				"status":  "unhealthy",
				"service": "learning-service",
				"error":   err.Error(),
			})
			return
		}
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "learning-service",
		})
	})
}
