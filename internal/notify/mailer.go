package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"burst-backend/internal/logger"
	"burst-backend/internal/metrics"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// SMTPConfig holds outgoing mail server settings
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	UseTLS     bool
	From       string
	RatePerSec float64
}

type deliverFunc func(ctx context.Context, from, to string, msg []byte) error

// SMTPMailer sends mail through an SMTP server. Sends are rate limited and wrapped
// in a circuit breaker so a dead server fails fast instead of tying up workers.
type SMTPMailer struct {
	cfg     SMTPConfig
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	deliver deliverFunc
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates an SMTP mailer
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	m := &SMTPMailer{cfg: cfg}
	m.deliver = m.smtpDeliver
	m.init()
	return m
}

func (m *SMTPMailer) init() {
	perSec := m.cfg.RatePerSec
	if perSec <= 0 {
		perSec = 5
	}
	m.limiter = rate.NewLimiter(rate.Limit(perSec), int(perSec)+1)

	log := logger.New().WithField("component", "smtp")
	m.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(map[string]interface{}{"from": from.String(), "to": to.String()}).Warn("circuit breaker state changed")
		},
	})
}

// Send waits for a rate limit token, then delivers the email through the breaker
func (m *SMTPMailer) Send(ctx context.Context, email Email) error {
	if err := m.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	msg := buildMessage(m.cfg.From, email)
	start := time.Now()
	_, err := m.breaker.Execute(func() (interface{}, error) {
		return nil, m.deliver(ctx, m.cfg.From, email.To, msg)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordEmail("dropped")
		}
		return fmt.Errorf("send email to %s: %w", email.To, err)
	}
	metrics.RecordEmailSent(time.Since(start))
	return nil
}

// State exposes the breaker state for health reporting
func (m *SMTPMailer) State() gobreaker.State {
	return m.breaker.State()
}

func buildMessage(from string, email Email) []byte {
	var b strings.Builder
	b.WriteString("From: " + headerValue(from) + "\r\n")
	b.WriteString("To: " + headerValue(email.To) + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", headerValue(email.Subject)) + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(email.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// headerValue folds line breaks so user text cannot start a new header
var headerBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func headerValue(v string) string {
	return strings.TrimSpace(headerBreaks.Replace(v))
}

func (m *SMTPMailer) smtpDeliver(ctx context.Context, from, to string, msg []byte) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if m.cfg.UseTLS {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return errors.New("smtp server does not support STARTTLS")
		}
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if m.cfg.Username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	if err := c.Mail(from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	return c.Quit()
}

// LogMailer writes emails to the log instead of sending them. Used when EMAIL_HOST is empty.
type LogMailer struct{}

var _ Mailer = LogMailer{}

// Send logs the email
func (LogMailer) Send(ctx context.Context, email Email) error {
	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"to":      email.To,
		"subject": email.Subject,
	}).Info("email (not sent, EMAIL_HOST unset)")
	metrics.RecordEmail("sent")
	return nil
}
