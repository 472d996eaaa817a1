package app

import (
	"context"
	"time"

	"fin-advisor/internal/config"
	"fin-advisor/internal/database"
	"fin-advisor/internal/database/migration"
	dbpostgres "fin-advisor/internal/database/postgres"
	"fin-advisor/internal/database/seeder"
	"fin-advisor/internal/infrastructure/agent"
	"fin-advisor/internal/infrastructure/cache"
	"fin-advisor/internal/pkg/jwt"
	"fin-advisor/internal/repository"
	"fin-advisor/internal/usecase"
	"fin-advisor/internal/ws"

	"go.uber.org/zap"
)

// Container wires infrastructure to usecases once at startup; everything
// downstream receives interfaces.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB    database.DB
	Cache *cache.Redis
	Hub   *ws.Hub

	Auth       usecase.AuthUsecase
	Onboarding usecase.OnboardingUsecase
	Chat       usecase.ChatUsecase
	Status     usecase.StatusUsecase
	JWT        jwt.Service
}

func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	if cfg.Database.RunMigrations {
		if err := migration.Run(cfg.Database.URL(), logger); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.SeedDemo {
		runner := seeder.Runner{Seeders: []seeder.Seeder{seeder.NewDemoUser()}}
		if err := runner.Run(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	redisCache := cache.NewRedis(cfg.Redis, logger)

	backend, err := agent.NewFromConfig(cfg.Advisor, agent.NewMemoryTokenStore(cfg.Advisor.LegacyToken))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	jwtSvc := jwt.NewHMACService(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessExpiresIn,
		cfg.Auth.RefreshExpiresIn,
	)

	userRepo := repository.NewPostgresUserRepository(db)
	profileRepo := repository.NewPostgresProfileRepository(db)
	historyRepo := repository.NewPostgresChatHistoryRepository(db)

	onboardingUC := usecase.NewOnboardingUsecase(profileRepo, logger)
	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc, onboardingUC)
	chatUC := usecase.NewChatUsecase(backend, historyRepo, profileRepo, logger)
	statusUC := usecase.NewStatusUsecase(backend, redisCache, cfg.Advisor.StatusCacheTTL, logger)

	return &Container{
		Config:     cfg,
		Logger:     logger,
		DB:         db,
		Cache:      redisCache,
		Hub:        ws.NewHub(logger),
		Auth:       authUC,
		Onboarding: onboardingUC,
		Chat:       chatUC,
		Status:     statusUC,
		JWT:        jwtSvc,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}

// NewLogger picks the zap preset for the environment; main builds it before
// anything else so bootstrap failures are logged the same way as runtime ones.
func NewLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
