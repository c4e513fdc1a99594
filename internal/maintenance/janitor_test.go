package maintenance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	n      int64
	err    error
	called []time.Time
}

func (f *fakePurger) DeleteExpired(now time.Time) (int64, error) {
	f.called = append(f.called, now)
	return f.n, f.err
}

func (f *fakePurger) DeleteReadBefore(cutoff time.Time) (int64, error) {
	f.called = append(f.called, cutoff)
	return f.n, f.err
}

func TestJanitor_Sweep(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tokens := &fakePurger{n: 2}
	sessions := &fakePurger{n: 3}
	notifications := &fakePurger{n: 4}

	j := NewJanitor(tokens, sessions, notifications)
	j.now = func() time.Time { return now }

	res := j.Sweep()
	assert.Equal(t, Result{ResetTokens: 2, Sessions: 3, Notifications: 4}, res)
	assert.Equal(t, []time.Time{now}, tokens.called)
	assert.Equal(t, []time.Time{now}, sessions.called)
	assert.Equal(t, []time.Time{now.Add(-ReadNotificationRetention)}, notifications.called)
}

func TestJanitor_SweepContinuesAfterFailure(t *testing.T) {
	tokens := &fakePurger{err: errors.New("boom")}
	sessions := &fakePurger{n: 1}
	notifications := &fakePurger{n: 1}

	res := NewJanitor(tokens, sessions, notifications).Sweep()
	assert.Equal(t, int64(0), res.ResetTokens)
	assert.Equal(t, int64(1), res.Sessions)
	assert.Len(t, notifications.called, 1)
}

func TestJanitor_Schedule(t *testing.T) {
	j := NewJanitor(&fakePurger{}, &fakePurger{}, &fakePurger{})

	c, err := j.Schedule("")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = j.Schedule("not a cron line")
	assert.Error(t, err)
}
