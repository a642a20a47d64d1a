// Package routing wires the HTTP routes of the server to their handlers and middleware.
package routing

import (
	"net/http"
	"time"

	"github.com/JaineelPandya/social-book/internal/config"
	"github.com/JaineelPandya/social-book/internal/handlers"
	"github.com/JaineelPandya/social-book/internal/managers"
	"github.com/JaineelPandya/social-book/internal/middleware"
	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/JaineelPandya/social-book/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const apiVersion = "v1"

func InitRouter(cfg *config.Config, mgrs *managers.Managers, store sessions.Store) *gin.Engine {
	// Initialize router with logging and recovery middleware
	router := gin.New()
	// Initialize middleware
	setupCommonMiddleware(router, cfg)
	// Setup routes
	setupRoutes(router, cfg, mgrs, store)

	return router
}

func setupCommonMiddleware(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.InjectTrace())
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowMethods:     []string{"GET", "PATCH", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "Origin"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", "X-Trace-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.Metrics())
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
}

func setupRoutes(router *gin.Engine, cfg *config.Config, mgrs *managers.Managers, store sessions.Store) {
	// Set up version route
	router.GET("/", func(c *gin.Context) {
		metadata := &schemas.MetadataDTO{
			ApiVersion: apiVersion,
			ApiName:    cfg.ServiceName,
		}
		utils.WriteAndLogResponse(c, metadata, http.StatusOK)
	})

	// Set up health route
	router.GET("/health", func(c *gin.Context) {
		// Ping the database
		if err := mgrs.Database.GetPool().Ping(c); err != nil {
			utils.LogMessageWithFieldsAndError(c, "error", "Database not responding", err)
			c.String(http.StatusServiceUnavailable, "Database not responding")
			return
		}
		c.Status(http.StatusOK)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authenticate := middleware.Authenticate(mgrs.Sessions, mgrs.Credentials, store, cfg.RequireEmailVerification)
	requireAuth := middleware.RequireAuthentication()

	userHdl := handlers.NewUserHandler(mgrs.Users, mgrs.Tokens, mgrs.Mail, cfg)
	authHdl := handlers.NewAuthHandler(mgrs.Users, mgrs.Credentials, mgrs.Sessions, store, cfg)
	fileHdl := handlers.NewFileHandler(mgrs.Content, cfg)

	// Browser facing routes
	accountsRouter := router.Group("/accounts")
	{
		accountsRouter.GET("/activate/:uid/:token", userHdl.ActivateUserLink)
		// The exchange reads the credential itself, the body takes precedence over the header
		accountsRouter.POST("/token-session-login", authHdl.TokenSessionLogin)
		accountsRouter.POST("/logout", authHdl.SessionLogout)
	}

	// Set up API routes
	apiRouter := router.Group("/api")
	{
		authRouter := apiRouter.Group("/auth/token")
		authRoutes(authRouter, authHdl, authenticate, requireAuth)

		userRouter := apiRouter.Group("/users")
		userRoutes(userRouter, userHdl, fileHdl, authenticate, requireAuth)

		apiRouter.GET("/authors", userHdl.SearchAuthors)

		fileRouter := apiRouter.Group("/")
		fileRouter.Use(authenticate, requireAuth)
		fileRoutes(fileRouter, fileHdl)
	}
}

func authRoutes(authRouter *gin.RouterGroup, authHdl handlers.AuthHdl, authenticate, requireAuth gin.HandlerFunc) {
	authRouter.POST("/login", middleware.ValidateAndSanitizeStruct(&schemas.LoginRequest{}), authHdl.LoginUser)
	authRouter.POST("/logout", authenticate, requireAuth, authHdl.LogoutUser)
}

func userRoutes(userRouter *gin.RouterGroup, userHdl handlers.UserHdl, fileHdl handlers.FileHdl, authenticate, requireAuth gin.HandlerFunc) {
	userRouter.POST("", middleware.ValidateAndSanitizeStruct(&schemas.RegistrationRequest{}), userHdl.RegisterUser)
	userRouter.POST("/activate", middleware.ValidateAndSanitizeStruct(&schemas.ActivationRequest{}), userHdl.ActivateUser)
	userRouter.POST("/activation/resend", middleware.ValidateAndSanitizeStruct(&schemas.ResendActivationRequest{}), userHdl.ResendActivation)
	// The following routes require the user to be authenticated
	userRouter.GET("/me", authenticate, requireAuth, userHdl.GetProfile)
	userRouter.PUT("/me", authenticate, requireAuth, middleware.ValidateAndSanitizeStruct(&schemas.ChangeProfileRequest{}), userHdl.UpdateProfile)
	userRouter.GET("/me/dashboard", authenticate, requireAuth, fileHdl.GetDashboard)
	userRouter.GET("/:userId/files", authenticate, requireAuth, fileHdl.ListUserFiles)
}

func fileRoutes(fileRouter *gin.RouterGroup, fileHdl handlers.FileHdl) {
	fileRouter.POST("/files", fileHdl.UploadFile)
	fileRouter.GET("/my-files", fileHdl.ListMyFiles)
	fileRouter.GET("/my-files/:fileId", fileHdl.GetFile)
	fileRouter.GET("/my-files/:fileId/download", fileHdl.DownloadFile)
	fileRouter.PATCH("/my-files/:fileId", middleware.ValidateAndSanitizeStruct(&schemas.UpdateFileRequest{}), fileHdl.UpdateFile)
	fileRouter.DELETE("/my-files/:fileId", fileHdl.DeleteFile)
	fileRouter.GET("/my-files/:fileId/enrollment", fileHdl.GetEnrollment)
	fileRouter.PUT("/my-files/:fileId/enrollment", middleware.ValidateAndSanitizeStruct(&schemas.EnrollmentRequest{}), fileHdl.UpdateEnrollment)
}
