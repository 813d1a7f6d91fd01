package router

import (
	"media-share/internal/config"
	"media-share/internal/handler"
	"media-share/internal/ledger"
	"media-share/internal/middleware"
	"media-share/internal/session"
	"media-share/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures Gin engine, templates and all routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// static files, stored media and templates
	r.Static("/static", cfg.Web.StaticDir)
	r.Static("/media", cfg.Storage.UploadDir)
	r.Static("/avatars", cfg.Storage.AvatarDir)
	r.LoadHTMLGlob(cfg.Web.TemplateGlob)

	store := storage.New(cfg.Storage)
	sessions := session.NewManager(db, cfg.Session)

	// every response: session attach, cache disabled, audit trail
	r.Use(
		middleware.SessionMiddleware(sessions),
		middleware.NoCache(),
		middleware.AuditMiddleware(db),
	)

	authHandler := handler.NewAuthHandler(db, sessions, cfg.Security.BcryptCost,
		cfg.Reset.Secret, cfg.Reset.ExpireSeconds)
	uploadHandler := handler.NewUploadHandler(db, store)
	interactHandler := handler.NewInteractHandler(ledger.New(db))
	profileHandler := handler.NewProfileHandler(db, store, sessions, cfg.Security.BcryptCost)
	userHandler := handler.NewUserHandler(db, store)
	exportHandler := handler.NewExportHandler(db)

	// public pages
	r.GET("/", uploadHandler.Index)
	r.GET("/gallery", uploadHandler.Gallery)
	r.GET("/users", userHandler.Users)
	r.GET("/view/:id", uploadHandler.ViewPage)
	r.GET("/profile/:username", profileHandler.ProfilePage)

	// auth
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.POST("/register", authHandler.Register)
	r.GET("/logout", authHandler.Logout)
	r.GET("/forgot_password", authHandler.ForgotPasswordPage)
	r.POST("/forgot_password", authHandler.ForgotPassword)
	r.GET("/reset_password/:token", authHandler.ResetPasswordPage)
	r.POST("/reset_password/:token", authHandler.ResetPassword)

	// async counters (anonymous sessions allowed)
	r.POST("/view/:id", interactHandler.View)
	r.POST("/like/:id", interactHandler.Like)

	// gated operations; each handler performs the login check itself
	r.GET("/dashboard", uploadHandler.Dashboard)
	r.GET("/upload", uploadHandler.UploadPage)
	r.POST("/upload", uploadHandler.Upload)
	r.POST("/delete/:id", uploadHandler.Delete)
	r.POST("/profile/:username", profileHandler.ProfileUpdate)
	r.POST("/upload_avatar", profileHandler.UploadAvatar)
	r.GET("/change_password", profileHandler.ChangePasswordPage)
	r.POST("/change_password", profileHandler.ChangePassword)
	r.GET("/change_username", profileHandler.ChangeUsernamePage)
	r.POST("/change_username", profileHandler.ChangeUsername)
	r.POST("/delete_user/:id", userHandler.DeleteUser)
	r.GET("/export/uploads.csv", exportHandler.ExportCSV)
	r.GET("/export/uploads.xlsx", exportHandler.ExportXLSX)

	return r
}
