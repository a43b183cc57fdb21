package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bazaar/catalog-service/internal/app/catalog/config"
	"bazaar/catalog-service/internal/app/catalog/entity"
	"bazaar/catalog-service/internal/app/catalog/handler"
	"bazaar/catalog-service/internal/app/catalog/infrastructure"
	"bazaar/catalog-service/internal/app/catalog/infrastructure/messaging"
	"bazaar/catalog-service/internal/app/catalog/infrastructure/storage"
	"bazaar/catalog-service/internal/app/catalog/processor"
	"bazaar/catalog-service/internal/app/catalog/repository"
	"bazaar/catalog-service/internal/app/catalog/service"
	"bazaar/pkg/logger"
)

const serviceName = "catalog-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.LogLevel)

	if cfg.LogstashAddr != "" {
		if err := logger.InitLogstash(cfg.LogstashAddr, serviceName, cfg.LogLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", cfg.LogstashAddr).Msg("Connected to Logstash")
		}
	}

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.Name).
		Msg("Connected to PostgreSQL")

	// Redis нужен только для ledger незавершённых каскадов
	var redisClient *redis.Client
	var ledger repository.PendingCascadeRepository
	if cfg.Cascade.LedgerEnabled {
		redisClient, err = connectRedis(cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		ledger = repository.NewPendingCascadeRepository(redisClient)
		logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")
	}

	var publisher infrastructure.MessagePublisher
	if cfg.Kafka.Enabled {
		publisher = messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Msg("Initialized Kafka producer")
	} else {
		publisher = messaging.NewNoopPublisher()
	}
	defer publisher.Close()

	blobStorage := storage.NewSupabaseClient(cfg.Storage, cfg.Breaker, cfg.UpstreamTimeout)
	logger.Info().
		Str("url", cfg.Storage.URL).
		Str("bucket", cfg.Storage.Bucket).
		Msg("Initialized Supabase storage client")

	categories := repository.NewTable[entity.Category](db, cfg.UpstreamTimeout)
	products := repository.NewTable[entity.Product](db, cfg.UpstreamTimeout)
	wishlist := repository.NewTable[entity.WishlistEntry](db, cfg.UpstreamTimeout)
	reviews := repository.NewTable[entity.Review](db, cfg.UpstreamTimeout)

	events := service.NewEventPublisher(publisher)
	cascade := service.NewCascadeCoordinator(categories, products, ledger, events)
	catalogService := service.NewCatalogService(
		categories,
		products,
		service.NewMediaIngestor(blobStorage),
		cascade,
		events,
		service.CatalogSettings{
			Bucket:                  cfg.Storage.Bucket,
			EmptyCategoryAsNotFound: cfg.EmptyCategoryAsNotFound,
		},
	)
	wishlistService := service.NewWishlistService(wishlist, events)
	reviewService := service.NewReviewService(reviews, events)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var sweeper *processor.CascadeSweeper
	if ledger != nil {
		sweeper = processor.NewCascadeSweeper(cascade)
		if err := sweeper.Start(ctx, cfg.Cascade.SweepSchedule); err != nil {
			logger.Fatal().Err(err).Msg("Failed to start cascade sweeper")
		}
	}

	router := handler.SetupRoutes(
		handler.NewCategoryHandler(catalogService),
		handler.NewProductHandler(catalogService),
		handler.NewWishlistHandler(wishlistService),
		handler.NewReviewHandler(reviewService),
		handler.NewHealthCheckHandler(db, redisClient, cascade),
	)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Catalog Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Catalog Service...")

	stop()
	if sweeper != nil {
		sweeper.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Catalog Service stopped gracefully")
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		// Каждый вызов хранилища - отдельная операция
		SkipDefaultTransaction: true,
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else if err = sqlDB.Ping(); err == nil {
				sqlDB.SetMaxOpenConns(25)
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
				sqlDB.SetConnMaxIdleTime(1 * time.Minute)
				return db, nil
			}
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

func connectRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
