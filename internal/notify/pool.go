package notify

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"burst-backend/internal/logger"
	"burst-backend/internal/metrics"
)

const (
	defaultPoolSize    = 4
	defaultSendTimeout = 30 * time.Second
	// jobs buffered per worker before Dispatch starts to block
	queuePerWorker = 256
)

type poolJob struct {
	email Email
	log   *logger.Logger
}

// PoolDispatcher sends emails from a fixed set of workers fed by a buffered queue
type PoolDispatcher struct {
	mailer      Mailer
	jobs        chan poolJob
	sendTimeout time.Duration
	wg          sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

var _ Dispatcher = (*PoolDispatcher)(nil)

// NewPoolDispatcher starts size workers that send queued emails
func NewPoolDispatcher(mailer Mailer, size int, sendTimeout time.Duration) *PoolDispatcher {
	if size <= 0 {
		size = defaultPoolSize
	}
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &PoolDispatcher{
		mailer:         mailer,
		jobs:           make(chan poolJob, size*queuePerWorker),
		sendTimeout:    sendTimeout,
		shutdownCtx:    ctx,
		shutdownCancel: cancel,
	}
	d.wg.Add(size)
	for i := 0; i < size; i++ {
		go d.work()
	}
	return d
}

// Dispatch queues the email and returns. When the queue is full it blocks until a worker
// frees a place or ctx is done; sends themselves outlive the request.
func (d *PoolDispatcher) Dispatch(ctx context.Context, email Email) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}

	job := poolJob{email: email, log: logger.WithContext(ctx).WithField("to", email.To)}
	select {
	case d.jobs <- job:
	default:
		job.log.Debug("email queue full, waiting")
		select {
		case d.jobs <- job:
		case <-ctx.Done():
			metrics.RecordEmail("dropped")
			return fmt.Errorf("queue email: %w", ctx.Err())
		}
	}
	metrics.RecordEmail("queued")
	return nil
}

func (d *PoolDispatcher) work() {
	defer d.wg.Done()
	for job := range d.jobs {
		d.send(job)
	}
}

func (d *PoolDispatcher) send(job poolJob) {
	log := job.log
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(map[string]interface{}{
				"panic": fmt.Sprint(r),
				"stack": string(debug.Stack()),
			}).Error("panic while sending email")
		}
	}()

	if d.shutdownCtx.Err() != nil {
		log.Warn("email dropped: dispatcher shutting down")
		metrics.RecordEmail("dropped")
		return
	}

	ctx, cancel := context.WithTimeout(d.shutdownCtx, d.sendTimeout)
	defer cancel()

	if err := d.mailer.Send(ctx, job.email); err != nil {
		log.WithError(err).Warn("failed to send email")
		metrics.RecordEmail("failed")
		return
	}
	log.Debug("email sent")
}

// Shutdown stops accepting emails and lets the workers drain the queue until ctx is done.
// Emails still queued at that point are dropped.
func (d *PoolDispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.shutdownCancel()
		return fmt.Errorf("email dispatcher shutdown: %w", ctx.Err())
	}
}
