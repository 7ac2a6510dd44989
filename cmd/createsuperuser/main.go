// Command createsuperuser provisions an administrative account with
// the staff and superuser flags set. It talks to the same database as
// the server and applies the same password-strength policy.
package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/avezina/identity-service/internal/config"
	"github.com/avezina/identity-service/internal/database"
	"github.com/avezina/identity-service/internal/repository"
	"github.com/avezina/identity-service/internal/validate"
)

func main() {
	email := flag.String("email", "", "email address of the superuser")
	username := flag.String("username", "", "username of the superuser")
	password := flag.String("password", "", "password of the superuser")
	flag.Parse()

	if *email == "" || *username == "" || *password == "" {
		log.Fatal("usage: createsuperuser -email ... -username ... -password ...")
	}
	if reasons := validate.PasswordStrength(*password); len(reasons) > 0 {
		log.Fatalf("weak password: %s", strings.Join(reasons, "; "))
	}

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	users := repository.NewUserRepo(db, cfg.BcryptCost)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	u, err := users.CreateSuperuser(ctx, repository.CreateUserParams{
		Email:    *email,
		Username: *username,
		Password: *password,
	})
	if err != nil {
		log.Fatalf("create superuser: %v", err)
	}
	log.Printf("superuser created: id=%s email=%s", u.ID, u.Email)
}
