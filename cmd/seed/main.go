package main

import (
	"context"
	"errors"
	"os"

	"github.com/sirupsen/logrus"

	"reelforge/internal/cache"
	"reelforge/internal/config"
	"reelforge/internal/db"
	apperrors "reelforge/internal/errors"
	"reelforge/internal/logging"
	"reelforge/internal/model"
	"reelforge/internal/repository"
	"reelforge/internal/service"
)

// sampleTrends are the starter templates shown in an empty library.
var sampleTrends = []model.Trend{
	{
		Title:           "Before / After Snap",
		Platform:        "Instagram Reels",
		Niche:           "fitness",
		HookType:        "transformation",
		Description:     "Hard cut from the before shot to the after shot on the beat drop.",
		EditingTemplate: "0-1s: before shot, hold still\n1s: snap transition on beat\n1-6s: after shot, slow push in\n6-8s: text overlay with the result",
		CaptionExample:  "12 weeks. Same mirror. Different energy.",
		Hashtags:        "#transformation #fitnessjourney #beforeandafter",
		SoundType:       "beat drop",
		Status:          "Rising",
	},
	{
		Title:           "POV Day in the Life",
		Platform:        "TikTok",
		Niche:           "lifestyle",
		HookType:        "pov",
		Description:     "Fast first-person clips of a routine with on-screen POV text.",
		EditingTemplate: "0-2s: POV text over opening clip\n2-10s: 0.5s jump cuts of the routine\n10-12s: end on a reaction shot",
		CaptionExample:  "POV: you finally fixed your morning routine",
		Hashtags:        "#dayinthelife #pov #routine",
		SoundType:       "trending audio",
		Status:          "Peaking",
	},
	{
		Title:           "3 Mistakes Listicle",
		Platform:        "YouTube Shorts",
		Niche:           "education",
		HookType:        "question",
		Description:     "Talking head with numbered text cards for each mistake.",
		EditingTemplate: "0-2s: hook question on screen\n2-14s: one card per mistake, 4s each\n14-16s: call to follow for part two",
		CaptionExample:  "Are you making mistake #2?",
		Hashtags:        "#tips #learnontiktok #mistakes",
		SoundType:       "voiceover",
		Status:          "Rising",
	},
}

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	ctx := context.Background()

	log.Info("Starting seed script")

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}
	log.Info("Database migrations completed")

	trendRepo := repository.NewTrendRepository(gormDB)
	inserted, skipped := 0, 0
	for i := range sampleTrends {
		trend := sampleTrends[i]
		exists, err := trendRepo.ExistsByTitle(ctx, trend.Title)
		if err != nil {
			log.WithError(err).Fatal("Failed to check existing trends")
		}
		if exists {
			skipped++
			continue
		}
		trend.ApplyDefaults()
		if err := trendRepo.Create(ctx, &trend); err != nil {
			log.WithError(err).WithField("title", trend.Title).Fatal("Failed to insert trend")
		}
		inserted++
	}
	log.WithFields(logrus.Fields{"inserted": inserted, "skipped": skipped}).Info("Trends seeded")

	// clear the cached list so the server picks up the new rows
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	service.InvalidateTrendList(ctx, cacheClient)

	email, password := os.Getenv("SEED_ADMIN_EMAIL"), os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Info("SEED_ADMIN_EMAIL/SEED_ADMIN_PASSWORD not set, skipping admin user")
		return
	}

	users := service.NewUserService(repository.NewUserRepository(gormDB), cacheClient)
	admin, err := users.CreateUser(ctx, service.CreateUserInput{
		Name:     "Admin",
		Email:    email,
		Password: password,
		Role:     model.RoleAdmin,
	})
	switch {
	case errors.Is(err, apperrors.ErrConflict):
		log.WithField("email", email).Info("Admin user already exists")
	case err != nil:
		log.WithError(err).Fatal("Failed to create admin user")
	default:
		log.WithField("id", admin.ID).Info("Admin user created")
	}
}
