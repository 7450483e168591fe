package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/martinsedd/user-service/internal/config"
	"github.com/martinsedd/user-service/internal/database"
	"github.com/martinsedd/user-service/internal/handler"
	"github.com/martinsedd/user-service/internal/notify"
	"github.com/martinsedd/user-service/internal/queue"
	"github.com/martinsedd/user-service/internal/ratelimit"
	"github.com/martinsedd/user-service/internal/repository"
	"github.com/martinsedd/user-service/internal/router"
	"github.com/martinsedd/user-service/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)

	// Reset-link dispatcher. The queue driver also starts the consumer that
	// drains the broker; in production that consumer is a separate mailer.
	var notifier service.Notifier
	switch cfg.NotifierDriver {
	case "ses":
		n, err := notify.NewSESNotifier(context.Background(), cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName)
		if err != nil {
			log.Fatalf("notifier: %v", err)
		}
		notifier = n
	case "queue":
		notifier = notify.NewQueueNotifier()
		go func() {
			if err := queue.StartResetConsumer(); err != nil {
				log.Printf("reset-consumer stopped: %v", err)
			}
		}()
	default:
		notifier = notify.NewLogNotifier()
	}

	reset := service.NewResetService(users, notifier, service.ResetConfig{
		Secret:       cfg.JWTSecret,
		TokenTTL:     cfg.ResetTokenTTL,
		MaxAttempts:  cfg.MaxResetAttempts,
		LockDuration: cfg.LockDuration,
		BcryptCost:   cfg.BcryptCost,
		BaseURL:      cfg.BaseURL,
	}, nil)

	// Rate limiter: Redis when reachable so limits hold across replicas,
	// otherwise an in-process window.
	rlCfg := config.LoadRateLimitConfig()
	var lim ratelimit.Limiter
	if rlCfg.Enabled {
		if rdb := config.NewRedisClient(); rdb != nil {
			lim = ratelimit.NewRedisLimiter(rdb, rlCfg.Window, rlCfg.Prefix)
		} else {
			log.Println("redis unavailable, using in-process rate limiter")
			lim = ratelimit.NewMemoryLimiter(rlCfg.Window, nil)
		}
	}

	e := echo.New()
	router.Register(e,
		handler.NewAuthHandler(cfg, users, reset),
		handler.NewUserHandler(cfg, users),
		cfg, rlCfg, lim)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
