package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"burst-backend/internal/logger"
	"burst-backend/internal/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// MaxAttempts is how many times an email job is tried before it goes to the dead-letter list
	MaxAttempts = 3
	// dequeueTimeout bounds BLPOP so the worker notices cancellation
	dequeueTimeout = 5 * time.Second
)

// Job is the envelope stored in the Redis list
type Job struct {
	ID        string    `json:"id"`
	Email     Email     `json:"email"`
	Attempt   int       `json:"attempt"`
	CreatedAt time.Time `json:"created_at"`
	LastError string    `json:"last_error,omitempty"`
}

// Queue stores email jobs in a Redis list
type Queue struct {
	client *redis.Client
	key    string
}

// NewQueue creates a Redis-backed email queue using the list key and key+":dlq"
func NewQueue(client *redis.Client, key string) *Queue {
	return &Queue{client: client, key: key}
}

// DeadLetterKey returns the list holding jobs that ran out of attempts
func (q *Queue) DeadLetterKey() string {
	return q.key + ":dlq"
}

// Enqueue appends a new job for email
func (q *Queue) Enqueue(ctx context.Context, email Email) (*Job, error) {
	job := &Job{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: time.Now(),
	}
	if err := q.push(ctx, q.key, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Dequeue blocks up to a few seconds for a job. It returns nil, nil when the list stays empty.
func (q *Queue) Dequeue(ctx context.Context) (*Job, error) {
	result, err := q.client.BLPop(ctx, dequeueTimeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(result) < 2 {
		return nil, nil
	}
	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.New().WithField("raw", result[1]).WithError(err).Warn("invalid email job payload")
		return nil, nil
	}
	return &job, nil
}

// Retry re-enqueues job with an incremented attempt, or moves it to the dead-letter list
// once MaxAttempts is reached. It reports whether the job was dead-lettered.
func (q *Queue) Retry(ctx context.Context, job *Job, cause error) (bool, error) {
	job.Attempt++
	if cause != nil {
		job.LastError = cause.Error()
	}
	if job.Attempt >= MaxAttempts {
		if err := q.push(ctx, q.DeadLetterKey(), job); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, q.push(ctx, q.key, job)
}

// Len returns the number of pending jobs
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

// Ping checks the Redis connection
func (q *Queue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

func (q *Queue) push(ctx context.Context, key string, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.RPush(ctx, key, raw).Err(); err != nil {
		return fmt.Errorf("rpush: %w", err)
	}
	return nil
}

// QueueDispatcher enqueues emails for cmd/worker
type QueueDispatcher struct {
	queue *Queue
}

var _ Dispatcher = (*QueueDispatcher)(nil)

// NewQueueDispatcher creates a dispatcher backed by queue
func NewQueueDispatcher(queue *Queue) *QueueDispatcher {
	return &QueueDispatcher{queue: queue}
}

// Dispatch pushes the email onto the queue
func (d *QueueDispatcher) Dispatch(ctx context.Context, email Email) error {
	job, err := d.queue.Enqueue(ctx, email)
	if err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	metrics.RecordEmail("queued")
	logger.WithContext(ctx).WithFields(map[string]interface{}{"job_id": job.ID, "to": email.To}).Debug("enqueued email job")
	return nil
}

// Shutdown is a no-op: queued jobs live in Redis
func (d *QueueDispatcher) Shutdown(context.Context) error {
	return nil
}

// Worker consumes the email queue
type Worker struct {
	queue       *Queue
	mailer      Mailer
	sendTimeout time.Duration
	log         *logger.Logger
}

// NewWorker creates a queue consumer
func NewWorker(queue *Queue, mailer Mailer, sendTimeout time.Duration) *Worker {
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	return &Worker{
		queue:       queue,
		mailer:      mailer,
		sendTimeout: sendTimeout,
		log:         logger.New().WithField("component", "email_worker"),
	}
}

// Run processes jobs until ctx is cancelled
func (w *Worker) Run(ctx context.Context) {
	w.log.Info("email worker started")
	for {
		if ctx.Err() != nil {
			w.log.Info("email worker stopped")
			return
		}
		if _, err := w.ProcessOne(ctx); err != nil && ctx.Err() == nil {
			w.log.WithError(err).Error("email worker iteration failed")
			time.Sleep(time.Second)
		}
	}
}

// ProcessOne handles at most one job. It reports whether a job was taken off the queue.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	job, err := w.queue.Dequeue(ctx)
	if err != nil {
		return false, fmt.Errorf("dequeue: %w", err)
	}
	if job == nil {
		return false, nil
	}

	log := w.log.WithFields(map[string]interface{}{"job_id": job.ID, "to": job.Email.To, "attempt": job.Attempt})

	sendCtx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	sendErr := w.mailer.Send(sendCtx, job.Email)
	cancel()
	if sendErr == nil {
		log.Debug("email job done")
		return true, nil
	}

	metrics.RecordEmail("failed")
	// retries must survive worker shutdown
	dead, err := w.queue.Retry(context.WithoutCancel(ctx), job, sendErr)
	if err != nil {
		return true, fmt.Errorf("retry job %s: %w", job.ID, err)
	}
	if dead {
		metrics.RecordEmail("dead_lettered")
		log.WithError(sendErr).Error("email job moved to dead-letter list")
	} else {
		log.WithError(sendErr).Warn("email job failed, retrying")
	}
	return true, nil
}
