package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/bandhan-app/matrimony/internal/config"
	"github.com/bandhan-app/matrimony/internal/domain/model"
	"github.com/bandhan-app/matrimony/internal/infra/logger"
	pgrepo "github.com/bandhan-app/matrimony/internal/repo/postgres"
	authsvc "github.com/bandhan-app/matrimony/internal/services/auth"
)

const samplePassword = "password123"

type sampleUser struct {
	username string
	profile  model.Profile
}

var sampleUsers = []sampleUser{
	{
		username: "rohit_verma",
		profile: model.Profile{
			FullName: "Rohit Verma", Age: 28, Gender: "male", Religion: "Hindu", Caste: "Brahmin",
			City: "Mumbai", Profession: "Software Engineer", IsVerified: true,
			Bio:      "I am a simple, down-to-earth person looking for a partner who values family and career.",
			PhotoURL: unsplash("photo-1506794778202-cad84cf45f1d"),
		},
	},
	{
		username: "priya_sharma",
		profile: model.Profile{
			FullName: "Priya Sharma", Age: 26, Gender: "female", Religion: "Hindu", Caste: "Khatri",
			City: "Delhi", Profession: "Doctor", IsVerified: true,
			Bio:      "Passionate about my work and love traveling. Looking for someone with a good sense of humor.",
			PhotoURL: unsplash("photo-1494790108377-be9c29b29330"),
		},
	},
	{
		username: "arjun_singh",
		profile: model.Profile{
			FullName: "Arjun Singh", Age: 30, Gender: "male", Religion: "Sikh", Caste: "Jat",
			City: "Chandigarh", Profession: "Businessman", IsVerified: true,
			Bio:      "Ambitious and family-oriented. I enjoy sports and outdoor activities.",
			PhotoURL: unsplash("photo-1500648767791-00dcc994a43e"),
		},
	},
	{
		username: "aisha_khan",
		profile: model.Profile{
			FullName: "Aisha Khan", Age: 25, Gender: "female", Religion: "Muslim", Caste: "Sunni",
			City: "Bangalore", Profession: "Architect",
			Bio:      "Creative and artistic. I love reading and painting in my free time.",
			PhotoURL: unsplash("photo-1534528741775-53994a69daeb"),
		},
	},
	{
		username: "raj_patel",
		profile: model.Profile{
			FullName: "Raj Patel", Age: 29, Gender: "male", Religion: "Hindu", Caste: "Patel",
			City: "Ahmedabad", Profession: "Chartered Accountant", IsVerified: true,
			Bio:      "Focused and disciplined. I value honesty and integrity.",
			PhotoURL: unsplash("photo-1507003211169-0a1dd7228f2d"),
		},
	},
}

func unsplash(id string) string {
	return "https://images.unsplash.com/" + id + "?w=400&h=400&fit=crop"
}

func main() {
	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := pgrepo.Migrate(ctx, pool); err != nil {
		log.Fatal("migrate postgres", zap.Error(err))
	}

	hash, err := authsvc.HashPassword(samplePassword)
	if err != nil {
		log.Fatal("hash sample password", zap.Error(err))
	}

	users := pgrepo.NewUserRepo(pool)
	profiles := pgrepo.NewProfileRepo(pool)

	err = pgrepo.WithTx(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
		txUsers := users.InTx(tx)
		txProfiles := profiles.InTx(tx)

		if _, err := txUsers.Create(ctx, "admin", hash, true); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		for _, sample := range sampleUsers {
			user, err := txUsers.Create(ctx, sample.username, hash, false)
			if err != nil {
				return fmt.Errorf("create user %s: %w", sample.username, err)
			}
			if _, err := txProfiles.Create(ctx, user.ID, sample.profile); err != nil {
				return fmt.Errorf("create profile %s: %w", sample.username, err)
			}
		}
		return nil
	})
	switch {
	case errors.Is(err, pgrepo.ErrUsernameTaken):
		log.Info("database already seeded, nothing to do")
	case err != nil:
		log.Fatal("seed database", zap.Error(err))
	default:
		log.Info("database seeded",
			zap.Int("profiles", len(sampleUsers)),
			zap.String("password", samplePassword),
		)
	}
}
