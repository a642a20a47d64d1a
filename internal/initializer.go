// Package internal assembles the server: configuration, database, managers and router.
package internal

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JaineelPandya/social-book/internal/config"
	"github.com/JaineelPandya/social-book/internal/managers"
	"github.com/JaineelPandya/social-book/internal/middleware"
	"github.com/JaineelPandya/social-book/internal/migrations"
	"github.com/JaineelPandya/social-book/internal/routing"
	"github.com/JaineelPandya/social-book/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func Init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration: ", err)
	}
	utils.SetLogLevel(cfg.LogLevel)
	utils.SetServiceName(cfg.ServiceName)
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}

	// Initialize database manager
	databaseMgr := managers.NewDatabaseManager(pool)
	defer databaseMgr.Close()

	if err := migrations.Up(ctx, cfg.DatabaseURL()); err != nil {
		log.Fatal("Error applying migrations: ", err)
	}

	mgrs, err := initializeManagers(ctx, cfg, databaseMgr)
	if err != nil {
		log.Fatal("Error initializing managers: ", err)
	}

	store := middleware.CreateSessionStore(cfg.SecretKey, cfg.SessionTTL, cfg.IsProduction())

	// Initialize router
	r := routing.InitRouter(cfg, mgrs, store)
	log.Info("Initialized router")

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Error starting server: ", err)
		}
	}()

	// Handle interrupt signal gracefully
	<-ctx.Done()
	log.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down server: ", err)
	}
}

func initializeManagers(ctx context.Context, cfg *config.Config, databaseMgr managers.DatabaseMgr) (*managers.Managers, error) {
	pool := databaseMgr.GetPool()

	jwtMgr, err := managers.NewJWTManagerFromFile(cfg.KeyPairPath)
	if err != nil {
		return nil, err
	}

	blobStore, err := managers.NewBlobStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	mailMgr := managers.NewMailManager(cfg)
	userMgr := managers.NewUserManager(pool)
	credentialMgr := managers.NewCredentialManager(pool, jwtMgr, cfg.CredentialTTL)

	return &managers.Managers{
		Database:    databaseMgr,
		Users:       userMgr,
		Tokens:      managers.NewActivationTokenManager(cfg.SecretKey, cfg.ActivationTokenMaxAge, userMgr),
		Credentials: credentialMgr,
		Sessions:    managers.NewSessionManager(pool, credentialMgr, mailMgr, cfg.SessionTTL, cfg.RequireEmailVerification),
		Content:     managers.NewContentManager(pool, blobStore),
		Mail:        mailMgr,
	}, nil
}

// NewPool connects to the configured database.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	log.Info("Initializing database")

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		return nil, err
	}

	poolConfig.MinConns = 5
	poolConfig.MaxConns = 30
	poolConfig.MaxConnIdleTime = time.Minute * 2
	poolConfig.HealthCheckPeriod = time.Minute * 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("Connected to database")
	return pool, nil
}
