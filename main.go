package main

import (
	"log"

	api "taskpilot-backend/cmd/api"
	authdomain "taskpilot-backend/internal/auth/domain"
	authRepo "taskpilot-backend/internal/auth/repository"
	authUsecase "taskpilot-backend/internal/auth/usecase"
	"taskpilot-backend/internal/notification"
	"taskpilot-backend/internal/task/repository"
	"taskpilot-backend/internal/task/scheduler"
	taskUsecase "taskpilot-backend/internal/task/usecase"
	"taskpilot-backend/pkg/config"
	"taskpilot-backend/pkg/database"
	"taskpilot-backend/pkg/fcm"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &authdomain.DeviceToken{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	deviceRepo := authRepo.NewDeviceTokenRepository(db)
	taskStore := repository.NewGormTaskStore(db)

	// Initialize notification sink: push if Firebase is configured,
	// log-only otherwise
	var notifier notification.Notifier = notification.NewLogNotifier()
	if cfg.FirebaseCredentials != "" {
		fcmClient, err := fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
		} else {
			notifier = notification.NewFCMNotifier(fcmClient, deviceRepo)
		}
	} else {
		log.Println("[WARN] No Firebase credentials configured, reminders will only be logged")
	}

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, deviceRepo, cfg)
	taskUsecaseInstance := taskUsecase.NewTaskUsecase(taskStore)

	// Start the reminder scheduler
	reminders := scheduler.NewReminderScheduler(taskStore, notifier, cfg.ReminderInterval)
	reminders.Start()
	defer reminders.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, taskUsecaseInstance, reminders, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
