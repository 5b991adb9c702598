package server

import (
	"net/http"

	"funddesk/internal/config"
	"funddesk/internal/handlers"
	"funddesk/internal/middleware"
	"funddesk/internal/models"
	"funddesk/internal/services"
	"funddesk/internal/storage"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func NewRouter(cfg *config.Config, db *gorm.DB, files *storage.Store) *gin.Engine {
	authSvc := services.NewAuthService(db)
	fundSvc := services.NewFundService(db, files)
	diligenceSvc := services.NewDiligenceService(db, files)

	authH := handlers.NewAuthHandler(authSvc)
	fundH := handlers.NewFundHandler(fundSvc, diligenceSvc)
	diligenceH := handlers.NewDiligenceHandler(diligenceSvc)
	adminH := handlers.NewAdminHandler(authSvc)
	uploadH := handlers.NewUploadHandler(files)
	dashH := handlers.NewDashboardHandler(fundSvc, diligenceSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("funddesk_session", store))

	r.Use(middleware.InjectUser(authSvc))

	// AUTH
	r.POST("/login", authH.Login)
	r.GET("/logout", authH.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	// DASHBOARD
	auth.GET("/dashboard", dashH.Show)

	// FUNDS
	auth.GET("/funds", fundH.List)
	auth.POST("/funds", fundH.Create)
	auth.GET("/funds/:id", fundH.Get)
	auth.PUT("/funds/:id", fundH.Update)
	auth.DELETE("/funds/:id", fundH.Delete)

	// DUE DILIGENCE
	auth.POST("/funds/:id/diligence", diligenceH.Create)
	auth.PUT("/diligence/:id", diligenceH.Update)
	auth.DELETE("/diligence/:id", diligenceH.Delete)

	// COMMENTS
	auth.POST("/diligence/:id/comments", diligenceH.CreateComment)
	auth.DELETE("/comments/:id", diligenceH.DeleteComment)

	// UPLOADED FILES
	auth.GET("/uploads/:name", uploadH.Fetch)

	// ADMIN
	admin := auth.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.GET("/users", adminH.ListUsers)
	admin.POST("/users", adminH.CreateUser)
	admin.POST("/users/:id/role", adminH.SetRole)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
