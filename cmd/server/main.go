package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"reelforge/docs"
	"reelforge/internal/auth"
	"reelforge/internal/cache"
	"reelforge/internal/config"
	"reelforge/internal/db"
	"reelforge/internal/events"
	"reelforge/internal/handler"
	"reelforge/internal/logging"
	"reelforge/internal/metrics"
	"reelforge/internal/model"
	"reelforge/internal/repository"
	"reelforge/internal/repository/memory"
	"reelforge/internal/router"
	"reelforge/internal/service"
	"reelforge/internal/transcode"
)

// @title ReelForge API
// @version 1.0
// @description Trend template library, editor projects and authentication for ReelForge.
// @host localhost:5000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}

	userRepo, trendRepo, projectRepo := openRepositories(cfg, log)

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.WithError(err).Warn("redis unreachable, running without cache")
	}
	defer cacheClient.Close()

	var publisher events.EventPublisher = events.NoopPublisher{}
	if cfg.NATSURL != "" {
		natsPublisher, err := events.NewNatsPublisher(cfg.NATSURL, log)
		if err != nil {
			log.WithError(err).Warn("nats unavailable, trend events disabled")
		} else {
			publisher = natsPublisher
		}
	}
	defer publisher.Close()

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	userService := service.NewUserService(userRepo, cacheClient)
	authService := service.NewAuthService(userService, jwtService, tokenStore)
	trendService := service.NewTrendService(trendRepo, cacheClient, publisher, log)
	projectService := service.NewProjectService(projectRepo)

	e := echo.New()
	router.Register(e, cfg, log, metrics.New(),
		router.Security{JWT: jwtService, TokenStore: tokenStore},
		router.Handlers{
			Auth:      handler.NewAuthHandler(authService, log),
			Users:     handler.NewUserHandler(userService, log),
			Trends:    handler.NewTrendHandler(trendService, log),
			Projects:  handler.NewProjectHandler(projectService, log),
			Transcode: handler.NewTranscodeHandler(transcode.NewRunner(cfg.FFmpegPath, log), cfg.AssetsDir, log),
		},
	)

	log.Infof("Swagger documentation available at: http://%s/swagger/index.html", docs.SwaggerInfo.Host)

	go func() {
		addr := ":" + cfg.ServerPort
		log.WithField("addr", addr).Info("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
}

// openRepositories connects the configured store. DB_DRIVER=memory keeps
// everything in process and is meant for local runs only.
func openRepositories(cfg *config.Config, log *logrus.Logger) (repository.UserRepository, repository.TrendRepository, repository.ProjectRepository) {
	if cfg.DBDriver == "memory" {
		log.Warn("DB_DRIVER=memory: data is lost on restart")
		return memory.NewUserRepository(), memory.NewTrendRepository(), memory.NewProjectRepository()
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.WithError(err).Fatal("database init")
	}
	if cfg.ResetDB {
		resetTables(gormDB, log)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.WithError(err).Fatal("auto-migrate")
	}
	return repository.NewUserRepository(gormDB), repository.NewTrendRepository(gormDB), repository.NewProjectRepository(gormDB)
}

func resetTables(gormDB *gorm.DB, log *logrus.Logger) {
	log.Warn("RESET_DB=true detected, dropping all tables")
	for _, table := range []interface{}{&model.Project{}, &model.Trend{}, &model.User{}} {
		if err := gormDB.Migrator().DropTable(table); err != nil {
			log.WithError(err).Warn("drop table failed (may not exist)")
		}
	}
}
