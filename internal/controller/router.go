package controller

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lyceetalmest/rdv-backend/internal/config"
)

// NewRouter builds the gin engine with the public booking surface and the
// JWT-protected admin surface.
func NewRouter(ctl *Controller, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(logger))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	appointments := router.Group("/api/appointments")
	{
		appointments.GET("/available-dates", ctl.GetAvailableDates)
		appointments.GET("/available-slots/:date", ctl.GetAvailableSlots)
		appointments.POST("", RateLimit(cfg.RateLimitPerWindow, cfg.RateLimitWindow, logger), ctl.CreateAppointment)
		appointments.GET("/:id", ctl.GetAppointment)
		appointments.GET("/verify/:id", ctl.VerifyAppointment)
		appointments.PUT("/:id/cancel", ctl.CancelAppointment)
	}

	admin := router.Group("/api/admin")
	admin.Use(AdminAuth(cfg.JWTSecret, logger))
	{
		admin.GET("/appointments", ctl.AdminListAppointments)
		admin.PUT("/appointments/:id", ctl.AdminUpdateAppointment)
		admin.DELETE("/appointments/:id", ctl.AdminDeleteAppointment)
		admin.PUT("/appointments/:id/confirm", ctl.AdminConfirmAppointment)
		admin.PUT("/appointments/:id/reschedule", ctl.AdminRescheduleAppointment)
		admin.GET("/appointments/export/:date", ctl.AdminExportByDate)

		admin.GET("/statistics", ctl.AdminStatistics)
		admin.GET("/dashboard", ctl.AdminDashboard)
		admin.GET("/reports/monthly/:year/:month", ctl.AdminMonthlyReport)

		admin.GET("/time-slots", ctl.AdminListTimeSlots)
		admin.POST("/time-slots", ctl.AdminAddTimeSlot)
		admin.PUT("/time-slots/:id/toggle", ctl.AdminToggleTimeSlot)
		admin.DELETE("/time-slots/:id", ctl.AdminDeleteTimeSlot)

		admin.GET("/closed-days", ctl.AdminListClosedDays)
		admin.POST("/closed-days", ctl.AdminAddClosedDay)
		admin.DELETE("/closed-days/:id", ctl.AdminDeleteClosedDay)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Route non trouvée",
			"path":    c.Request.URL.Path,
		})
	})

	return router
}
