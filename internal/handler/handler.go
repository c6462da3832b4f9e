// Package handler is the gin HTTP layer: request binding, identity
// extraction and error-to-status translation. All decisions live in the
// services; nothing here touches the database directly.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classroom/internal/analytics"
	"classroom/internal/apperr"
	"classroom/internal/attendance"
	"classroom/internal/auth"
	"classroom/internal/authz"
	"classroom/internal/config"
	"classroom/internal/notification"
	"classroom/internal/store"
	"classroom/internal/timetable"
	"classroom/internal/user"
)

type Handler struct {
	cfg           config.App
	users         *user.Service
	attendance    *attendance.Service
	timetable     *timetable.Service
	notifications *notification.Service
	analytics     *analytics.Service
	db            *store.DB
	redis         *store.Redis
}

func New(cfg config.App, users *user.Service, att *attendance.Service, tt *timetable.Service, notifs *notification.Service, an *analytics.Service, db *store.DB, redis *store.Redis) *Handler {
	return &Handler{
		cfg:           cfg,
		users:         users,
		attendance:    att,
		timetable:     tt,
		notifications: notifs,
		analytics:     an,
		db:            db,
		redis:         redis,
	}
}

// RegisterRoutes mounts the API surface. authn is the bearer-token
// middleware; everything under /api except register/token/roles
// requires it.
func (h *Handler) RegisterRoutes(r *gin.Engine, authn gin.HandlerFunc) {
	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/token", h.Token)
		authGroup.GET("/roles", h.Roles)
		authGroup.GET("/me", authn, h.Me)
		authGroup.POST("/change-password", authn, h.ChangePassword)
		authGroup.GET("/users", authn, h.ListUsers)
		authGroup.PUT("/users/:id", authn, h.UpdateUser)
		authGroup.DELETE("/users/:id", authn, h.DeleteUser)
		authGroup.POST("/users/reset-password", authn, h.ResetPassword)
	}

	att := api.Group("/attendance", authn)
	{
		att.GET("/", h.ListAttendance)
		att.POST("/", h.CreateAttendance)
		att.POST("/bulk", h.CreateAttendanceBulk)
		att.PUT("/:id", h.UpdateAttendance)
		att.DELETE("/:id", h.DeleteAttendance)
		att.GET("/stats/class/:class_id", h.ClassStats)
		att.GET("/stats/student/:usn", h.StudentStats)
		att.GET("/student/subjects/:usn", h.StudentSubjects)
		att.GET("/student/my-attendance", h.MyAttendance)
		att.GET("/professor/subjects", h.ProfessorSubjects)
		att.GET("/professor/my-classes", h.ProfessorClasses)
		att.GET("/professor/class-students/:class_id", h.ClassStudents)
		att.GET("/admin/semester-report", h.SemesterReport)
	}

	tt := api.Group("/timetable", authn)
	{
		tt.GET("/", h.ListTimetable)
		tt.POST("/", h.CreateTimetable)
		tt.PATCH("/cancel", h.CancelClass)
		tt.PATCH("/undo_cancel", h.RestoreClass)
		tt.PUT("/:id", h.UpdateTimetable)
		tt.DELETE("/:id", h.DeleteTimetable)
		tt.GET("/cancelled", h.CancelledClasses)
		tt.GET("/next_class", h.NextClass)
	}

	notifs := api.Group("/notifications", authn)
	{
		notifs.GET("/", h.ListNotifications)
		notifs.POST("/", h.CreateNotification)
		notifs.PUT("/:id/read", h.MarkNotificationRead)
		notifs.DELETE("/:id", h.DeleteNotification)
	}

	an := api.Group("/analytics", authn)
	{
		an.POST("/ai_summary", h.AISummary)
		an.GET("/dashboard_data", h.DashboardData)
	}
}

// ---------- Health ----------

func (h *Handler) Healthz(c *gin.Context) {
	dbOK := h.db.Healthy(c.Request.Context())
	redisOK := h.redis.Healthy(c.Request.Context())

	status, code := "ok", http.StatusOK
	if !dbOK {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "database": dbOK, "redis": redisOK})
}

// ---------- Shared helpers ----------

func (h *Handler) identity(c *gin.Context) (authz.Identity, bool) {
	ident, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	}
	return ident, ok
}

func respondErr(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
