package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"burst-backend/internal/config"
	"burst-backend/internal/database"
	"burst-backend/internal/logger"
	"burst-backend/internal/maintenance"
	"burst-backend/internal/notify"
	"burst-backend/internal/repository"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// The worker drains the Redis email queue and runs periodic cleanup.
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}
	logger.Setup(cfg.LogLevel)

	db, err := database.Initialize(cfg.DatabaseURL, &database.Options{SkipMigrate: true})
	if err != nil {
		logrus.Fatal("Failed to initialize database: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	janitor := maintenance.NewJanitor(
		repository.NewPasswordResetTokenRepository(db),
		repository.NewSessionStore(db),
		repository.NewNotificationRepository(db),
	)
	scheduler, err := janitor.Schedule(cfg.CleanupSchedule)
	if err != nil {
		logrus.Fatal("Failed to schedule cleanup: ", err)
	}
	scheduler.Start()

	var wg sync.WaitGroup
	if cfg.NotifyBackend == "redis" {
		queue := notify.QueueFromConfig(cfg)
		if err := queue.Ping(ctx); err != nil {
			logrus.Fatal("Failed to reach redis: ", err)
		}
		worker := notify.NewWorker(queue, notify.MailerFromConfig(cfg), notify.SendTimeout(cfg))
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Run(ctx)
		}()
	} else {
		logrus.Info("NOTIFY_BACKEND is not redis; only cleanup jobs will run")
	}

	<-ctx.Done()
	logrus.Info("Shutting down worker")
	<-scheduler.Stop().Done()
	wg.Wait()
}
