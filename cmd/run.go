package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"arenabot/config"
	"arenabot/database"
	"arenabot/events"
	"arenabot/handlers"
	"arenabot/media"
	"arenabot/notifier"
	"arenabot/repository"
	"arenabot/service"
	"arenabot/worker"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting arena server...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	master := service.MasterCredentials{
		Email:    cfg.MasterEmail,
		Password: cfg.MasterPassword,
		UID:      cfg.MasterUID,
	}

	// Initialize services
	log.Println("Initializing services...")
	sessionService := service.NewSessionService(uowFactory, master)
	authService := service.NewAuthService(uowFactory, master)
	rewardService := service.NewRewardService(uowFactory)
	walletService := service.NewWalletService(uowFactory)
	adminService := service.NewAdminService(uowFactory, rewardService, master)
	tournamentService := service.NewTournamentService(uowFactory, master)
	chatService := service.NewChatService(uowFactory)
	statsService := service.NewStatsService(uowFactory)
	log.Println("Services initialized successfully")

	// Initialize media storage if configured
	var mediaStore *media.Store
	if cfg.S3Bucket != "" {
		mediaStore, err = media.NewStore(ctx,
			cfg.S3AccountID, cfg.S3AccessKeyID, cfg.S3AccessKeySecret,
			cfg.S3Bucket, cfg.CDNBaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize media storage: %w", err)
		}
		log.Println("Media storage initialized successfully")
	}

	// Initialize operator notifications and background workers
	var scheduler *worker.Scheduler
	if cfg.TelegramToken != "" {
		telegram, err := notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return fmt.Errorf("failed to initialize telegram notifier: %w", err)
		}
		dispatcher := worker.NewDispatcher(repository.NewOutboxRepository(db), telegram)
		scheduler = worker.NewScheduler(dispatcher, repository.NewUserRepository(db))
		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start background workers: %w", err)
		}
	} else {
		log.Println("Telegram token not set, operator notifications disabled")
	}

	// Initialize HTTP server
	app := fiber.New(fiber.Config{
		AppName:      "arena",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, X-User-ID",
	}))

	handler := handlers.New(sessionService, authService, walletService,
		adminService, tournamentService, chatService, statsService, mediaStore)
	handler.Register(app)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()
	log.Printf("Server is running on port %s in %s mode...", cfg.Port, cfg.Environment)

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}
	if scheduler != nil {
		scheduler.Stop()
	}

	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")
	return nil
}
