package main

import (
	"errors"
	"log/slog"
	"os"
	"time"

	httpapi "github.com/immxrtalbeast/gatherly/internal/api/http"
	"github.com/immxrtalbeast/gatherly/internal/config"
	"github.com/immxrtalbeast/gatherly/internal/mailer"
	"github.com/immxrtalbeast/gatherly/internal/repository"
	"github.com/immxrtalbeast/gatherly/internal/repository/model"
	"github.com/immxrtalbeast/gatherly/internal/scheduler"
	"github.com/immxrtalbeast/gatherly/internal/service"
	"github.com/immxrtalbeast/gatherly/internal/signaling"
	"github.com/immxrtalbeast/gatherly/internal/webrtc"
	"github.com/immxrtalbeast/gatherly/lib/logger/slogpretty"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	tokenTTL, err := time.ParseDuration(cfg.Auth.TokenTTL)
	if err != nil {
		log.Error("invalid token ttl", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := connectDatabase(cfg.Database)
	if err != nil {
		log.Error("failed to connect database", slog.Any("error", err))
		os.Exit(1)
	}

	meetingRepo := repository.NewPostgresMeetingRepository(db)
	participantRepo := repository.NewPostgresParticipantRepository(db)
	messageRepo := repository.NewPostgresMessageRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)

	mail := mailer.New(cfg.SMTP, cfg.FrontendURL, log)

	meetingService := service.NewMeetingService(meetingRepo, participantRepo, messageRepo, userRepo, mail, log)
	userService := service.NewUserService(userRepo, log)

	registry := signaling.NewRegistry()
	tracker := signaling.NewTracker()
	coordinator := signaling.NewCoordinator(
		registry,
		tracker,
		meetingRepo,
		participantRepo,
		messageRepo,
		userRepo,
		signaling.Options{AllowRejoinAfterKick: *cfg.Meetings.AllowRejoinAfterKick},
		log,
	)

	sweeper := scheduler.New(meetingRepo, userRepo, mail, log)
	if err := sweeper.Start(); err != nil {
		log.Error("failed to start scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	defer sweeper.Stop()

	authController := httpapi.NewAuthController(userService, cfg.Auth.JWTSecret, tokenTTL)
	userController := httpapi.NewUserController(userService)
	meetingController := httpapi.NewMeetingController(meetingService, coordinator)
	wsController := httpapi.NewWSController(coordinator, userService, log)

	router := httpapi.SetupRouter(
		httpapi.RouterConfig{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			JWTSecret:      cfg.Auth.JWTSecret,
			ICEServers:     webrtc.ICEServers(cfg.WebRTC),
		},
		authController,
		meetingController,
		userController,
		wsController,
	)

	log.Info("starting application", slog.String("addr", cfg.HTTP.Address))
	if err := router.Run(cfg.HTTP.Address); err != nil {
		log.Error("http server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

func connectDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, errors.New("database dsn is empty")
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	db.AutoMigrate(&model.User{}, &model.Meeting{}, &model.Participant{}, &model.Message{})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
