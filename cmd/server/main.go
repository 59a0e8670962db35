package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/user-auth-api/internal/auth"
	"github.com/iliyamo/user-auth-api/internal/config"
	"github.com/iliyamo/user-auth-api/internal/database"
	"github.com/iliyamo/user-auth-api/internal/email"
	"github.com/iliyamo/user-auth-api/internal/handler"
	"github.com/iliyamo/user-auth-api/internal/queue"
	"github.com/iliyamo/user-auth-api/internal/repository"
	"github.com/iliyamo/user-auth-api/internal/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and admin cache disabled")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	var sender email.Sender
	if cfg.ResendAPIKey != "" {
		sender = email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.ClientURL, logger)
	} else {
		log.Println("RESEND_API_KEY not set; outbound email is log-only")
		sender = email.NewNoOpSender(logger)
	}

	users := repository.NewUserRepo(db)
	svc := auth.NewService(users, sender, queue.NewPublisher(), auth.Config{
		JWTSecret:        cfg.JWTSecret,
		JWTRefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:        cfg.AccessTTL,
		RefreshTTL:       cfg.RefreshTTL,
		VerificationTTL:  cfg.VerificationTTL,
		ResetTTL:         cfg.ResetTTL,
		BcryptCost:       cfg.BcryptCost,
	})

	// Audit trail consumer; reconnects forever in the background.
	go func() {
		if err := queue.StartAuthEventConsumer(); err != nil {
			log.Printf("auth event consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	authHandler := handler.NewAuthHandler(svc, cfg.RefreshTTL, cfg.IsProd())
	adminHandler := handler.NewAdminHandler(svc)
	router.Register(e, authHandler, adminHandler, users, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
