package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/proof-of-love/pol-api/internal/config"
	"github.com/proof-of-love/pol-api/internal/database"
	"github.com/proof-of-love/pol-api/internal/handler"
	"github.com/proof-of-love/pol-api/internal/middleware"
	"github.com/proof-of-love/pol-api/internal/models"
	"github.com/proof-of-love/pol-api/internal/repository"
	"github.com/proof-of-love/pol-api/internal/router"
	"github.com/proof-of-love/pol-api/internal/service"
	"github.com/proof-of-love/pol-api/pkg/ai"
	cloud "github.com/proof-of-love/pol-api/pkg/cloudinary"
	"github.com/proof-of-love/pol-api/pkg/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Optional backends: the API serves read-only evaluation without a
	// database, cache, broker, or registry, degrading per endpoint.
	var evaluationRepo repository.EvaluationRepository
	if cfg.DatabaseURL != "" {
		db, err := database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		if err := db.AutoMigrate(&models.EvaluationRecord{}); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		evaluationRepo = repository.NewEvaluationRepository(db)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	var ledger service.Ledger
	if cfg.RegistryConfigured() && cfg.ChainRPCURL != "" {
		client, err := registry.Dial(registry.Config{
			RPCURL:      cfg.ChainRPCURL,
			Address:     cfg.RegistryAddress,
			ChainID:     cfg.ChainID,
			OperatorKey: cfg.OperatorKey,
			Logger:      logger,
		})
		if err != nil {
			log.Fatalf("failed to connect to contribution registry: %v", err)
		}
		defer client.Close()
		ledger = client
	} else {
		logger.Warn().Msg("contribution registry not configured; settlement routes disabled")
	}

	var judge ai.Judge
	if cfg.DeepSeekAPIKey != "" {
		judge, err = ai.NewDeepSeekJudge(ai.DeepSeekConfig{
			APIKey:      cfg.DeepSeekAPIKey,
			BaseURL:     cfg.DeepSeekBaseURL,
			Model:       cfg.DeepSeekModel,
			MaxTokens:   cfg.DeepSeekMaxTokens,
			Temperature: cfg.DeepSeekTemperature,
			Logger:      logger,
		})
		if err != nil {
			log.Fatalf("failed to create evaluation client: %v", err)
		}
	} else {
		logger.Warn().Msg("deepseek api key not configured; evaluations disabled")
	}

	var evidenceStore service.EvidenceStore
	if cfg.CloudinaryName != "" {
		store, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryName,
			APIKey:    cfg.CloudinaryKey,
			APISecret: cfg.CloudinarySecret,
			Folder:    cfg.CloudinaryFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		evidenceStore = store
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	events := service.NewEventPublisher(natsConn, "pol.contributions", logger)

	judgeService := service.NewJudgeService(judge, validate, logger)
	governanceService := service.NewGovernanceService(
		ledger,
		redisClient,
		events,
		cfg.ListCacheTTL,
		uint64(cfg.ListPageSize),
		cfg.WatchTimeout,
		logger,
	)
	settlementService := service.NewSettlementService(
		judgeService,
		ledger,
		evaluationRepo,
		events,
		governanceService,
		cfg.WatchTimeout,
		logger,
	)
	evidenceService := service.NewEvidenceService(evidenceStore, cfg.EvidenceMaxMB, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		JudgeHandler:        handler.NewJudgeHandler(judgeService, logger),
		ContributionHandler: handler.NewContributionHandler(governanceService, settlementService, logger),
		GovernanceHandler:   handler.NewGovernanceHandler(governanceService, validate, logger),
		EvidenceHandler:     handler.NewEvidenceHandler(evidenceService, logger),
		FeedHandler:         handler.NewFeedHandler(events, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
