package notify

import (
	"time"

	"burst-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// MailerFromConfig returns the SMTP mailer, or a LogMailer when no EMAIL_HOST is set
func MailerFromConfig(cfg *config.Config) Mailer {
	if cfg.EmailHost == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(SMTPConfig{
		Host:       cfg.EmailHost,
		Port:       cfg.EmailPort,
		Username:   cfg.EmailHostUser,
		Password:   cfg.EmailHostPassword,
		UseTLS:     cfg.EmailUseTLS,
		From:       cfg.DefaultFromEmail,
		RatePerSec: cfg.EmailRatePerSec,
	})
}

// NewRedisClient connects to the task queue server
func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// QueueFromConfig returns the email queue on the configured Redis server
func QueueFromConfig(cfg *config.Config) *Queue {
	return NewQueue(NewRedisClient(cfg), cfg.RedisEmailQueueKey)
}

// SendTimeout is the per-email deadline from NOTIFY_TIMEOUT_SEC
func SendTimeout(cfg *config.Config) time.Duration {
	return time.Duration(cfg.NotifyTimeoutSec) * time.Second
}

// DispatcherFromConfig picks the delivery backend selected by NOTIFY_BACKEND.
// The queue is nil for the inline pool.
func DispatcherFromConfig(cfg *config.Config, mailer Mailer) (Dispatcher, *Queue) {
	if cfg.NotifyBackend == "redis" {
		queue := QueueFromConfig(cfg)
		return NewQueueDispatcher(queue), queue
	}
	return NewPoolDispatcher(mailer, cfg.NotifyWorkers, SendTimeout(cfg)), nil
}
