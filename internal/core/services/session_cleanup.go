package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/srgjo27/lesson_booking/internal/core/ports"
)

// SessionCleanup forgets sessions that have been idle for too long. Their
// reservations only ever lived in the session, so nothing upstream changes.
type SessionCleanup struct {
	sessions ports.SessionRepository
	idle     time.Duration
	interval time.Duration
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewSessionCleanup(sessions ports.SessionRepository, idle, interval time.Duration, log logrus.FieldLogger) *SessionCleanup {
	return &SessionCleanup{
		sessions: sessions,
		idle:     idle,
		interval: interval,
		log:      log,
		now:      time.Now,
	}
}

func (c *SessionCleanup) RunBackgroundCleanup(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.log.WithField("interval", c.interval).Info("session cleanup started")

	for {
		select {
		case <-ctx.Done():
			c.log.Info("session cleanup stopped")
			return
		case <-ticker.C:
			c.processIdleSessions(ctx)
		}
	}
}

func (c *SessionCleanup) processIdleSessions(ctx context.Context) {
	ids, err := c.sessions.DeleteIdle(ctx, c.now().Add(-c.idle))
	if err != nil {
		c.log.WithError(err).Error("deleting idle sessions")
		return
	}

	if len(ids) == 0 {
		return
	}

	c.log.WithFields(logrus.Fields{
		"sessions": len(ids),
		"live":     c.sessions.Len(),
	}).Info("idle sessions removed")
}
