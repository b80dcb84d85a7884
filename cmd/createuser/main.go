// Command createuser provisions a gateway login. There is no self-service
// registration endpoint; accounts are created by an operator with this tool.
//
//	createuser -username alice -password s3cret
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Yangluigie/Reto-Factus/internal/config"
	"github.com/Yangluigie/Reto-Factus/internal/domain"
	pgrepo "github.com/Yangluigie/Reto-Factus/internal/repository/postgres"
	"github.com/Yangluigie/Reto-Factus/migrations"
	"github.com/Yangluigie/Reto-Factus/pkg/database"
	apperrors "github.com/Yangluigie/Reto-Factus/pkg/errors"
	"github.com/Yangluigie/Reto-Factus/pkg/logger"
)

func main() {
	username := flag.String("username", "", "username for the new account")
	password := flag.String("password", "", "password for the new account")
	inactive := flag.Bool("inactive", false, "create the account disabled")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: createuser -username <name> -password <password> [-inactive]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("createuser", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, &database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        2,
		MinConns:        1,
		MaxConnLifetime: time.Minute,
		MaxConnIdleTime: time.Minute,
	}, log)
	if err != nil {
		log.Error("failed to connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		log.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		os.Exit(1)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     *username,
		PasswordHash: string(hash),
		IsActive:     !*inactive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	repo := pgrepo.NewUserRepository(pool)
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			log.Error("username already taken", slog.String("username", user.Username))
		} else {
			log.Error("failed to create user", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}

	log.Info("user created",
		slog.String("id", user.ID),
		slog.String("username", user.Username),
		slog.Bool("is_active", user.IsActive),
	)
}
