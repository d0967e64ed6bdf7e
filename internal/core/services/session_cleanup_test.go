package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/srgjo27/lesson_booking/internal/core/ports/mocks"
)

func TestProcessIdleSessions(t *testing.T) {
	repo := mocks.NewSessionRepository(t)
	log, hook := logtest.NewNullLogger()

	c := NewSessionCleanup(repo, 30*time.Minute, time.Minute, log)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	repo.On("DeleteIdle", mock.Anything, now.Add(-30*time.Minute)).Return([]string{"a", "b"}, nil).Once()
	repo.On("Len").Return(5).Once()

	c.processIdleSessions(context.Background())

	if assert.NotNil(t, hook.LastEntry()) {
		assert.Equal(t, 2, hook.LastEntry().Data["sessions"])
		assert.Equal(t, 5, hook.LastEntry().Data["live"])
	}
}

func TestProcessIdleSessions_Error(t *testing.T) {
	repo := mocks.NewSessionRepository(t)
	log, hook := logtest.NewNullLogger()

	c := NewSessionCleanup(repo, time.Minute, time.Minute, log)

	repo.On("DeleteIdle", mock.Anything, mock.AnythingOfType("time.Time")).Return(nil, errors.New("boom"))

	c.processIdleSessions(context.Background())

	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	repo.AssertNotCalled(t, "Len")
}

func TestRunBackgroundCleanup_StopsOnCancel(t *testing.T) {
	repo := mocks.NewSessionRepository(t)
	log, _ := logtest.NewNullLogger()

	c := NewSessionCleanup(repo, time.Minute, 5*time.Millisecond, log)
	repo.On("DeleteIdle", mock.Anything, mock.Anything).Return(nil, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.RunBackgroundCleanup(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not stop after cancel")
	}
}
