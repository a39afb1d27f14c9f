package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"taskbook_api/internal/config"
	"taskbook_api/internal/db"
	"taskbook_api/internal/logger"
	"taskbook_api/internal/repository"
	"taskbook_api/internal/service"
)

// Registers a user (or reuses an existing one) and prints a bearer token for it.
func main() {
	username := flag.String("username", "testuser", "username to register")
	password := flag.String("password", "testpass", "password for the user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", "error", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("connect database", "error", err)
	}
	defer pool.Close()

	users := repository.NewUserRepository(pool)
	auth := service.NewAuthService(users, service.NewPasswordHasher(cfg.BcryptCost),
		service.NewTokenIssuer(cfg.JWTSecret), cfg.AccessTokenTTL)

	u, err := auth.Register(ctx, *username, *password)
	switch {
	case err == nil:
		logger.Info("user created", "id", u.ID, "username", u.Username)
	case errors.Is(err, service.ErrUsernameTaken):
		logger.Info("user already exists", "username", *username)
	default:
		logger.Fatal("register user", "error", err)
	}

	token, err := auth.Login(ctx, *username, *password)
	if err != nil {
		logger.Fatal("login", "error", err)
	}
	fmt.Printf("token=%s\n", token)
}
