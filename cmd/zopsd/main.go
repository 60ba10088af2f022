package main

import (
	"log"
	"time"

	"go.uber.org/zap"

	"zopsm/internal/auth"
	"zopsm/internal/auth/policy"
	"zopsm/internal/auth/token"
	"zopsm/internal/config"
	"zopsm/internal/infra/db"
	httpinfra "zopsm/internal/infra/http"
	"zopsm/internal/infra/mail"
	"zopsm/internal/infra/tokenstore"
	"zopsm/internal/usecase"
)

func main() {
	cfg := config.FromEnv()
	if cfg.SecretKey == "" {
		log.Fatal("SECRET_KEY is required")
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	store, err := db.NewStore(cfg)
	if err != nil {
		log.Fatalf("init store: %v", err)
	}
	if err := store.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	redisClient := tokenstore.NewClient(cfg)
	userTokens := tokenstore.NewRedisUserTokens(redisClient)
	consumerTokens := tokenstore.NewRedisConsumerTokens(redisClient)
	resetTokens := tokenstore.NewRedisResetTokens(redisClient)

	codec := token.NewCodec(cfg.SecretKey,
		time.Duration(cfg.TokenTTLHours)*time.Hour,
		time.Duration(cfg.ResetTokenTTLMins)*time.Minute)

	accounts := db.NewAccountRepository(store.DB)
	users := db.NewUserRepository(store.DB)
	projects := db.NewProjectRepository(store.DB)
	services := db.NewServiceRepository(store.DB)
	catalogs := db.NewServiceCatalogRepository(store.DB)
	consumers := db.NewConsumerRepository(store.DB)

	mailer := mail.NewLogMailer(logger)
	registry := policy.NewRegistry()
	gate := auth.NewGate(registry, codec, userTokens)

	srv := httpinfra.NewServer(cfg, httpinfra.ServerDeps{
		Registry:     registry,
		Gate:         gate,
		Registration: usecase.NewRegistrationService(accounts, users, codec, userTokens, mailer, logger, cfg.DefaultProjectLimit),
		Auth:         usecase.NewAuthService(users, codec, userTokens, resetTokens, mailer, logger),
		Users:        usecase.NewUserService(users, userTokens),
		Projects:     usecase.NewProjectService(projects, services, consumerTokens, logger, cfg.DefaultUserLimit),
		Services:     usecase.NewServiceService(services, catalogs, projects, consumerTokens, logger, cfg.DefaultItemLimit),
		Consumers:    usecase.NewConsumerService(consumers, projects, services, consumerTokens),
		Logger:       logger,
	})

	logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = lvl
	return zapCfg.Build()
}
