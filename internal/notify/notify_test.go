package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"burst-backend/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingMailer captures sent emails and fails while failErr is set
type recordingMailer struct {
	mu      sync.Mutex
	sent    []Email
	failErr error
	delay   time.Duration
}

func (m *recordingMailer) Send(ctx context.Context, email Email) error {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *recordingMailer) Sent() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Email(nil), m.sent...)
}

func TestPublishedEmail(t *testing.T) {
	email := PublishedEmail("r@burst.test", "Rita", "article", "Budget passes", "Jane Doe", "http://localhost:8000/articles/1/")

	assert.Equal(t, "r@burst.test", email.To)
	assert.Equal(t, "New article: Budget passes", email.Subject)
	assert.Contains(t, email.Body, "Hello Rita")
	assert.Contains(t, email.Body, "by Jane Doe")
	assert.Contains(t, email.Body, "http://localhost:8000/articles/1/")
}

func TestPoolDispatcher_SendsAndDrains(t *testing.T) {
	mailer := &recordingMailer{delay: 10 * time.Millisecond}
	d := NewPoolDispatcher(mailer, 2, time.Second)

	for i := 0; i < 5; i++ {
		require.NoError(t, d.Dispatch(context.Background(), Email{To: "r@burst.test", Subject: "s"}))
	}
	require.NoError(t, d.Shutdown(context.Background()))

	assert.Len(t, mailer.Sent(), 5)
	assert.ErrorIs(t, d.Dispatch(context.Background(), Email{To: "late@burst.test"}), ErrDispatcherClosed)
}

func TestPoolDispatcher_FailureIsSwallowed(t *testing.T) {
	mailer := &recordingMailer{failErr: errors.New("smtp down")}
	d := NewPoolDispatcher(mailer, 1, time.Second)

	err := d.Dispatch(context.Background(), Email{To: "r@burst.test"})

	assert.NoError(t, err)
	require.NoError(t, d.Shutdown(context.Background()))
	assert.Empty(t, mailer.Sent())
}

func TestPoolDispatcher_ShutdownTimeout(t *testing.T) {
	mailer := &recordingMailer{delay: time.Second}
	d := NewPoolDispatcher(mailer, 1, 5*time.Second)
	require.NoError(t, d.Dispatch(context.Background(), Email{To: "slow@burst.test"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := d.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPoolDispatcher_DeliversEveryEmailUnderLoad(t *testing.T) {
	mailer := &recordingMailer{delay: 20 * time.Millisecond}
	d := NewPoolDispatcher(mailer, 4, time.Second)

	for i := 0; i < 100; i++ {
		require.NoError(t, d.Dispatch(context.Background(), Email{To: fmt.Sprintf("r%d@burst.test", i)}))
	}
	require.NoError(t, d.Shutdown(context.Background()))

	assert.Len(t, mailer.Sent(), 100)
}

func TestPoolDispatcher_FullQueueWaitsForContext(t *testing.T) {
	mailer := &recordingMailer{delay: time.Minute}
	d := NewPoolDispatcher(mailer, 1, time.Minute)

	var lastErr error
	for i := 0; i < queuePerWorker+2 && lastErr == nil; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		lastErr = d.Dispatch(ctx, Email{To: "r@burst.test"})
		cancel()
	}
	assert.ErrorIs(t, lastErr, context.DeadlineExceeded)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, d.Shutdown(ctx))
}

func newTestQueue(t *testing.T) (*Queue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewQueue(client, "test:email"), mr
}

func TestQueueDispatcher_Enqueues(t *testing.T) {
	queue, _ := newTestQueue(t)
	d := NewQueueDispatcher(queue)

	require.NoError(t, d.Dispatch(context.Background(), Email{To: "r@burst.test", Subject: "hi"}))

	n, err := queue.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestWorker_ProcessesJob(t *testing.T) {
	queue, _ := newTestQueue(t)
	mailer := &recordingMailer{}
	worker := NewWorker(queue, mailer, time.Second)
	_, err := queue.Enqueue(context.Background(), Email{To: "r@burst.test", Subject: "hi"})
	require.NoError(t, err)

	took, err := worker.ProcessOne(context.Background())

	require.NoError(t, err)
	assert.True(t, took)
	require.Len(t, mailer.Sent(), 1)
	assert.Equal(t, "hi", mailer.Sent()[0].Subject)
}

func TestWorker_RetriesThenDeadLetters(t *testing.T) {
	queue, mr := newTestQueue(t)
	mailer := &recordingMailer{failErr: errors.New("mailbox unavailable")}
	worker := NewWorker(queue, mailer, time.Second)
	_, err := queue.Enqueue(context.Background(), Email{To: "r@burst.test"})
	require.NoError(t, err)

	for i := 0; i < MaxAttempts; i++ {
		took, err := worker.ProcessOne(context.Background())
		require.NoError(t, err)
		require.True(t, took)
	}

	dlq, err := mr.List(queue.DeadLetterKey())
	require.NoError(t, err)
	assert.Len(t, dlq, 1)
	assert.Contains(t, dlq[0], "mailbox unavailable")
	n, err := queue.Len(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSMTPMailer_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls int32
	m := &SMTPMailer{cfg: SMTPConfig{From: "noreply@burst.test", RatePerSec: 1000}}
	m.deliver = func(ctx context.Context, from, to string, msg []byte) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("connection refused")
	}
	m.init()

	for i := 0; i < 5; i++ {
		assert.Error(t, m.Send(context.Background(), Email{To: "r@burst.test"}))
	}
	assert.Equal(t, gobreaker.StateOpen, m.State())

	err := m.Send(context.Background(), Email{To: "r@burst.test"})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}

func TestSMTPMailer_BuildsMessage(t *testing.T) {
	var got []byte
	m := &SMTPMailer{cfg: SMTPConfig{From: "noreply@burst.test", RatePerSec: 1000}}
	m.deliver = func(ctx context.Context, from, to string, msg []byte) error {
		got = msg
		return nil
	}
	m.init()

	require.NoError(t, m.Send(context.Background(), Email{To: "r@burst.test", Subject: "Hello", Body: "line1\nline2"}))

	assert.Contains(t, string(got), "Subject: Hello\r\n")
	assert.Contains(t, string(got), "To: r@burst.test\r\n")
	assert.Contains(t, string(got), "line1\r\nline2")
}

func TestBuildMessage_TitleCannotAddHeaders(t *testing.T) {
	email := PublishedEmail("r@burst.test", "Rita", "article",
		"Hello\r\nBcc: victim@evil.test\r\nX-Injected: yes", "", "http://localhost:8000/articles/1/")

	msg := string(buildMessage("noreply@burst.test", email))
	headers := msg[:strings.Index(msg, "\r\n\r\n")]

	for _, line := range strings.Split(headers, "\r\n") {
		assert.False(t, strings.HasPrefix(line, "Bcc:"), line)
		assert.False(t, strings.HasPrefix(line, "X-Injected:"), line)
	}
	assert.Contains(t, headers, "Subject: New article: Hello Bcc: victim@evil.test X-Injected: yes")
}

func TestBuildMessage_EncodesNonASCIISubject(t *testing.T) {
	msg := string(buildMessage("noreply@burst.test", Email{To: "r@burst.test", Subject: "Élection"}))
	assert.Contains(t, msg, "Subject: =?utf-8?q?=C3=89lection?=\r\n")
}

func TestSMTPMailer_RateLimitHonoursContext(t *testing.T) {
	m := &SMTPMailer{cfg: SMTPConfig{RatePerSec: 0.001}}
	m.deliver = func(ctx context.Context, from, to string, msg []byte) error { return nil }
	m.init()
	// drain the burst
	require.NoError(t, m.Send(context.Background(), Email{To: "a@burst.test"}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, m.Send(ctx, Email{To: "b@burst.test"}))
}

func TestQueue_Ping(t *testing.T) {
	q, _ := newTestQueue(t)
	require.NoError(t, q.Ping(context.Background()))
}

func TestDispatcherFromConfig(t *testing.T) {
	inline, queue := DispatcherFromConfig(&config.Config{NotifyBackend: "inline", NotifyWorkers: 2, NotifyTimeoutSec: 5}, LogMailer{})
	assert.IsType(t, &PoolDispatcher{}, inline)
	assert.Nil(t, queue)
	assert.NoError(t, inline.Shutdown(context.Background()))

	queued, queue := DispatcherFromConfig(&config.Config{NotifyBackend: "redis", RedisAddr: "localhost:0", RedisEmailQueueKey: "burst:email"}, LogMailer{})
	assert.IsType(t, &QueueDispatcher{}, queued)
	assert.NotNil(t, queue)
}

func TestMailerFromConfig(t *testing.T) {
	assert.IsType(t, LogMailer{}, MailerFromConfig(&config.Config{}))
	assert.IsType(t, &SMTPMailer{}, MailerFromConfig(&config.Config{EmailHost: "smtp.burst.test", EmailPort: 587}))
}
