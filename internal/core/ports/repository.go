package ports

import (
	"context"
	"time"

	"github.com/srgjo27/lesson_booking/internal/core/domain"
)

type CatalogSource interface {
	FetchLessons(ctx context.Context) ([]domain.RawLesson, error)
}

type OrderRepository interface {
	// CreateOrder persists the order and returns the id the store assigned to it.
	CreateOrder(ctx context.Context, order domain.Order) (string, error)
}

type LessonRepository interface {
	// UpdateSpaces overwrites the remaining seat count of a lesson.
	UpdateSpaces(ctx context.Context, lessonID string, spaces int) error
}

type SessionRepository interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	// DeleteIdle removes sessions not used since before and returns their ids.
	DeleteIdle(ctx context.Context, before time.Time) ([]string, error)
	// Len reports how many sessions are live.
	Len() int
}
