package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"apistarter/internal/config"
	"apistarter/internal/database"
	"apistarter/internal/middleware"
	"apistarter/internal/modules/admin"
	"apistarter/internal/modules/auth"
	"apistarter/internal/modules/notes"
	jwtsvc "apistarter/internal/pkg/jwt"
	"apistarter/internal/pkg/response"
	"apistarter/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	sqlxDB, err := database.SQLX(db)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	auditRepo := repository.NewAuditRepository(sqlxDB)

	j := jwtsvc.New(cfg.JWTSecret, cfg.AccessTTL)

	authService := auth.NewService(
		userRepo, sessionRepo, roleRepo, auditRepo, j,
		cfg.BcryptCost, cfg.RefreshPepper, cfg.RefreshTTL, cfg.RememberMeTTL,
	)
	authHandler := auth.NewHandler(authService)

	notesService := notes.NewService(noteRepo)
	notesHandler := notes.NewHandler(notesService)

	adminService := admin.NewService(userRepo, sessionRepo, auditRepo)
	adminHandler := admin.NewHandler(adminService)

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "ROUTE_NOT_FOUND", "Route not found")
	})
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		response.Error(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	authenticate := middleware.Authenticate(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		notesHandler.RegisterRoutes(v1, optionalAuth, authenticate)

		// protected
		protected := v1.Group("/")
		protected.Use(authenticate)
		{
			authHandler.RegisterProtectedRoutes(protected)

			adminGroup := protected.Group("/admin")
			adminGroup.Use(middleware.RequireAnyRole("admin"))
			adminHandler.RegisterRoutes(adminGroup)
		}
	}

	log.Printf("listening on %s (env=%s)", cfg.ListenAddr, cfg.AppEnv)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
