// Package maintenance runs periodic housekeeping against the database.
package maintenance

import (
	"time"

	"burst-backend/internal/logger"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs cleanup at the top of every hour
const DefaultSchedule = "0 * * * *"

// ReadNotificationRetention is how long read notifications are kept
const ReadNotificationRetention = 30 * 24 * time.Hour

// Purger deletes rows that are stale at the given time
type Purger interface {
	DeleteExpired(now time.Time) (int64, error)
}

// NotificationPurger deletes read notifications older than cutoff
type NotificationPurger interface {
	DeleteReadBefore(cutoff time.Time) (int64, error)
}

// Janitor removes expired reset tokens, expired sessions and old read notifications
type Janitor struct {
	resetTokens   Purger
	sessions      Purger
	notifications NotificationPurger
	now           func() time.Time
	log           *logger.Logger
}

// NewJanitor creates a Janitor
func NewJanitor(resetTokens, sessions Purger, notifications NotificationPurger) *Janitor {
	return &Janitor{
		resetTokens:   resetTokens,
		sessions:      sessions,
		notifications: notifications,
		now:           time.Now,
		log:           logger.New().WithField("component", "janitor"),
	}
}

// Result counts the rows removed by one sweep
type Result struct {
	ResetTokens   int64
	Sessions      int64
	Notifications int64
}

// Sweep runs every cleanup once. A failing step is logged and does not stop the others.
func (j *Janitor) Sweep() Result {
	now := j.now()
	var res Result
	var err error

	if res.ResetTokens, err = j.resetTokens.DeleteExpired(now); err != nil {
		j.log.WithError(err).Error("failed to purge password reset tokens")
	}
	if res.Sessions, err = j.sessions.DeleteExpired(now); err != nil {
		j.log.WithError(err).Error("failed to purge sessions")
	}
	if res.Notifications, err = j.notifications.DeleteReadBefore(now.Add(-ReadNotificationRetention)); err != nil {
		j.log.WithError(err).Error("failed to purge read notifications")
	}

	j.log.WithFields(map[string]interface{}{
		"reset_tokens":  res.ResetTokens,
		"sessions":      res.Sessions,
		"notifications": res.Notifications,
	}).Info("cleanup sweep finished")
	return res
}

// Schedule registers Sweep on a new cron scheduler. The caller starts and stops it.
func (j *Janitor) Schedule(spec string) (*cron.Cron, error) {
	if spec == "" {
		spec = DefaultSchedule
	}
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(spec, func() { j.Sweep() }); err != nil {
		return nil, err
	}
	return c, nil
}
