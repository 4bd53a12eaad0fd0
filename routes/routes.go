package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/eventease/campus-backend/config"
	_ "github.com/eventease/campus-backend/docs"
	"github.com/eventease/campus-backend/internal/assistant"
	"github.com/eventease/campus-backend/internal/auditlog"
	"github.com/eventease/campus-backend/internal/auth"
	"github.com/eventease/campus-backend/internal/calendar"
	"github.com/eventease/campus-backend/internal/event"
	"github.com/eventease/campus-backend/internal/notification"
	"github.com/eventease/campus-backend/internal/reports"
	"github.com/eventease/campus-backend/internal/volunteer"
	"github.com/eventease/campus-backend/middleware"
	"github.com/eventease/campus-backend/utils"
)

// Services bundles everything the HTTP layer dispatches to.
type Services struct {
	Auth         auth.Service
	Audit        auditlog.Service
	Events       *event.Service
	Assistant    *assistant.Service
	Calendar     *calendar.Service
	Volunteers   volunteer.Service
	Notification notification.Service
	Reports      reports.ReportService

	// Redis backs the rate limiter and the readiness probe when set.
	Redis *redis.Client
}

func Setup(r *gin.Engine, cfg *config.Config, svc Services) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		if svc.Redis != nil {
			if err := utils.RedisHealthCheck(c.Request.Context(), svc.Redis); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DEGRADED", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "READY"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, svc.Redis))
	api.Use(middleware.AuditMiddleware())

	organizers := middleware.RBACMiddleware(middleware.RoleOrganizer, middleware.RoleAdmin)
	writers := middleware.RequireWriteAccess()

	// ========== Auth ==========
	authHandler := auth.NewHandler(svc.Auth)
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", middleware.AuthMiddleware(svc.Auth), authHandler.Me)
		authGroup.POST("/logout", middleware.AuthMiddleware(svc.Auth), authHandler.Logout)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(svc.Auth))

	// ========== Events ==========
	eventHandler := event.NewHandler(svc.Events)
	calendarHandler := calendar.NewHandler(svc.Calendar)
	events := protected.Group("/events")
	{
		events.GET("", eventHandler.ListEvents)
		events.GET("/my", eventHandler.GetMyEvents)
		events.GET("/stats", organizers, eventHandler.GetStats)
		// must precede /:id
		events.GET("/ics", calendarHandler.GetMyICS)
		events.GET("/:id", eventHandler.GetEventByID)
		events.POST("", organizers, writers, eventHandler.CreateEvent)
		events.POST("/:id/rsvp", eventHandler.ToggleRSVP)

		events.GET("/:id/calendar-link", calendarHandler.GetLink)
		events.GET("/:id/ics", calendarHandler.GetICS)
		events.POST("/:id/calendar-sync", calendarHandler.Sync)
	}

	// ========== AI helper ==========
	aiHandler := assistant.NewHandler(svc.Assistant)
	ai := protected.Group("/ai", organizers)
	{
		ai.POST("/description", aiHandler.GenerateDescription)
		ai.POST("/poster-prompt", aiHandler.GeneratePosterPrompt)
		ai.POST("/email", aiHandler.GenerateEmail)
	}

	// ========== Volunteers ==========
	volunteerHandler := volunteer.NewHandler(svc.Volunteers)
	volunteers := protected.Group("/volunteers/roles")
	{
		volunteers.GET("", organizers, volunteerHandler.ListRoles)
		volunteers.POST("", organizers, writers, volunteerHandler.CreateRole)
		volunteers.POST("/:id/signup", volunteerHandler.SignUp)
		volunteers.DELETE("/:id/signup", volunteerHandler.Withdraw)
		volunteers.POST("/:id/reminders", organizers, writers, volunteerHandler.SendReminders)
	}

	// ========== Notifications ==========
	notificationHandler := notification.NewHandler(svc.Notification)
	notifications := protected.Group("/notifications")
	{
		notifications.GET("", notificationHandler.GetMyInApp)
		notifications.GET("/stream", notificationHandler.StreamInApp)
		notifications.PATCH("/:id/read", notificationHandler.MarkInAppRead)
		notifications.POST("/devices", notificationHandler.RegisterDevice)
		notifications.DELETE("/devices/:token", notificationHandler.RemoveDevice)
	}

	// ========== Reports ==========
	reportHandler := reports.NewHandler(svc.Reports)
	reportGroup := protected.Group("/reports", organizers)
	{
		reportGroup.GET("/events", reportHandler.GetEventsReport)
		reportGroup.GET("/events/:id/attendees", reportHandler.GetAttendeesReport)
	}

	// ========== Audit logs ==========
	auditHandler := auditlog.NewHandler(svc.Audit)
	audit := protected.Group("/auditlogs", middleware.RBACMiddleware(middleware.RoleAdmin))
	{
		audit.GET("", auditHandler.GetAuditLogs)
		audit.GET("/stats", auditHandler.GetAuditLogStats)
		audit.GET("/:id", auditHandler.GetAuditLogByID)
	}
}
