package main // Entry point package

import (
	"log"  // Logging library
	"time" // TTL conversion for token lifetimes

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/avezina/identity-service/internal/config"
	"github.com/avezina/identity-service/internal/database"
	"github.com/avezina/identity-service/internal/handler"
	"github.com/avezina/identity-service/internal/queue"
	"github.com/avezina/identity-service/internal/repository"
	"github.com/avezina/identity-service/internal/router"
	"github.com/avezina/identity-service/internal/token"
)

func main() {
	// Load .env if present; real deployments set env vars directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	users := repository.NewUserRepo(db, cfg.BcryptCost)

	// The revocation blacklist prefers Redis so revocations are shared
	// across instances; without Redis it degrades to a process-local set.
	var blacklist token.Blacklist
	if rdb := config.NewRedisClient(); rdb != nil {
		blacklist = repository.NewRedisBlacklist(rdb)
	} else {
		log.Printf("redis unavailable, using in-memory token blacklist")
		blacklist = repository.NewMemoryBlacklist()
	}

	codec := token.NewCodec(cfg.JWTSecret)
	tokens := token.NewManager(codec, blacklist,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLDays)*24*time.Hour)

	auth := handler.NewAuthHandler(users, tokens)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, tokens, users)

	// Background consumer for user.registered events (signup log).
	go func() {
		if err := queue.StartSignupConsumer(); err != nil {
			log.Printf("signup consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
