package server

import (
	"encoding/gob"
	"net/http"

	"asset-lending/internal/config"
	"asset-lending/internal/handlers"
	"asset-lending/internal/middleware"
	"asset-lending/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sessionName = "lending_session"

// флеши хранятся в cookie как []interface{}
func init() {
	gob.Register([]interface{}{})
}

func NewRouter(cfg *config.Config, db *gorm.DB, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log.Named("access")))
	r.Use(middleware.Recovery(log))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   60 * 60 * 8,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.Use(middleware.InjectUser(db))

	h := handlers.New(db, cfg, log)

	// ГЛАВНАЯ
	r.GET("/", h.IndexPage)

	// AUTH
	r.GET("/login", h.ShowLogin)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	auth.GET("/dashboard", h.Dashboard)

	// СУПЕРАДМИН
	superadmin := auth.Group("/", middleware.RequireRole(models.RoleSuperadmin))
	superadmin.GET("/superadmin/dashboard", h.SuperadminDashboard)
	superadmin.POST("/users/:id/activate", h.ActivateUser)

	// АКТИВЫ (superadmin + admin)
	managers := auth.Group("/", middleware.RequireRole(models.RoleSuperadmin, models.RoleAdmin))
	managers.GET("/admin/dashboard", h.AdminDashboard)
	managers.GET("/assets", h.ListAssets)
	managers.POST("/assets", h.CreateAsset)
	managers.PUT("/assets/:id", h.UpdateAsset)
	managers.DELETE("/assets/:id", h.DeleteAsset)

	// ЗАЯВКИ: обработка
	managers.GET("/borrows", h.ListBorrows)
	managers.POST("/borrows/:id/approve", h.ApproveBorrow)
	managers.POST("/borrows/:id/reject", h.RejectBorrow)
	managers.POST("/borrows/:id/return", h.ReturnBorrow)

	// история видна всем ролям, сотрудник видит только свои заявки
	auth.GET("/borrows/:id/history", h.BorrowHistory)

	// СОТРУДНИК
	employee := auth.Group("/employee", middleware.RequireRole(models.RoleEmployee))
	employee.GET("/dashboard", h.EmployeeDashboard)
	employee.GET("/assets", h.AvailableAssets)
	employee.GET("/borrows", h.MyBorrows)
	employee.POST("/borrows", h.RequestBorrow)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
