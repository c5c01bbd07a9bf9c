package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/drive-share/service-rental/internal/application"
	"github.com/drive-share/service-rental/internal/config"
	"github.com/drive-share/service-rental/internal/domain/booking"
	"github.com/drive-share/service-rental/internal/domain/car"
	"github.com/drive-share/service-rental/internal/domain/payment"
	"github.com/drive-share/service-rental/internal/domain/review"
	"github.com/drive-share/service-rental/internal/domain/user"
	rentalEvents "github.com/drive-share/service-rental/internal/events"
	"github.com/drive-share/service-rental/internal/handler"
	"github.com/drive-share/service-rental/internal/repository"
	"github.com/drive-share/service-rental/internal/repository/memory"
	"github.com/drive-share/service-rental/pkg/authx"
	"github.com/drive-share/service-rental/pkg/cache"
	"github.com/drive-share/service-rental/pkg/health"
	"github.com/drive-share/service-rental/pkg/kafkax"
	"github.com/drive-share/service-rental/pkg/logger"
	"github.com/drive-share/service-rental/pkg/middleware"
)

type repositories struct {
	cars     car.Repository
	bookings booking.Repository
	txns     payment.Repository
	reviews  review.Repository
	users    user.Repository
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.App.Env, "service-rental")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-rental",
		zap.String("port", cfg.App.Port),
		zap.String("store", cfg.Store.Mode),
	)

	// Initialize persistence
	var (
		repos repositories
		db    *gorm.DB
		store *memory.Store
	)
	switch cfg.Store.Mode {
	case config.StoreModePostgres:
		db, err = repository.Connect(cfg.DB.DSN(), log)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		if cfg.App.IsDev() {
			if err := repository.AutoMigrate(db); err != nil {
				log.Fatal("failed to run auto-migration", zap.Error(err))
			}
			log.Info("database migration completed (dev auto-migrate)")
		}
		repos = repositories{
			cars:     repository.NewGormCarRepository(db),
			bookings: repository.NewGormBookingRepository(db),
			txns:     repository.NewGormTransactionRepository(db),
			reviews:  repository.NewGormReviewRepository(db),
			users:    repository.NewGormUserRepository(db),
		}

	case config.StoreModeMemory:
		store = memory.NewStore()
		if err := store.LoadFile(cfg.Store.SnapshotPath); err != nil {
			log.Fatal("failed to load store snapshot", zap.Error(err))
		}
		repos = repositories{
			cars:     store.Cars(),
			bookings: store.Bookings(),
			txns:     store.Transactions(),
			reviews:  store.Reviews(),
			users:    store.Users(),
		}
	}

	// Initialize cache
	var balanceCache cache.Cache = cache.NewMemoryCache()
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(context.Background(), cfg.Redis.URL, "rental")
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisCache.Close() }()
		balanceCache = redisCache
	}

	// Initialize JWT manager
	jwtManager := authx.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TokenTTL)

	// Initialize event publisher
	var publisher rentalEvents.Publisher = rentalEvents.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaProducer := kafkax.NewProducer(cfg.Kafka.Brokers, log)
		defer func() { _ = kafkaProducer.Close() }()
		publisher = rentalEvents.NewKafkaPublisher(kafkaProducer, log)
	}

	// Initialize application services
	catalogService := application.NewCatalogService(repos.cars, publisher, log)
	bookingService := application.NewBookingService(repos.bookings, catalogService, publisher, log)
	ledgerService := application.NewLedgerService(repos.users, repos.txns, repos.bookings, balanceCache, publisher, log)
	reviewService := application.NewReviewService(repos.reviews, repos.bookings, catalogService, publisher, log)

	// Start the payment event consumer when Kafka is on
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Kafka.Enabled {
		groupID := cfg.Kafka.GroupPrefix + "rental-service"
		confirm := func(ctx context.Context, bookingID uuid.UUID) error {
			_, err := bookingService.ConfirmBooking(ctx, bookingID)
			return err
		}
		paymentConsumer := rentalEvents.NewPaymentEventConsumer(cfg.Kafka.Brokers, groupID, confirm, log)
		defer func() { _ = paymentConsumer.Close() }()

		go func() {
			log.Info("starting payment event consumer")
			if err := paymentConsumer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("payment event consumer error", zap.Error(err))
			}
		}()
	}

	// Setup Gin router
	if !cfg.App.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-rental")
	healthHandler.RegisterRoutes(router)

	// Register routes
	handler.NewCarHandler(catalogService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewPaymentHandler(ledgerService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewReviewHandler(reviewService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewAdminHandler(bookingService).RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-rental...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	if store != nil {
		if err := store.SaveFile(cfg.Store.SnapshotPath); err != nil {
			log.Error("failed to write store snapshot", zap.Error(err))
		} else {
			log.Info("store snapshot written", zap.String("path", cfg.Store.SnapshotPath))
		}
	}

	log.Info("service-rental stopped")
}
