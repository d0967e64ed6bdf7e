package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/srgjo27/lesson_booking/internal/core/domain"
)

type lessonRow struct {
	ID       string         `db:"id"`
	Subject  string         `db:"subject"`
	Location sql.NullString `db:"location"`
	Price    float64        `db:"price"`
	Spaces   int            `db:"spaces"`
	Image    sql.NullString `db:"image"`
}

// LessonRepository serves the catalog and seat updates from the lessons
// table. Queries are written with ? placeholders and rebound per driver.
type LessonRepository struct {
	db *sqlx.DB
}

func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

func (r *LessonRepository) FetchLessons(ctx context.Context) ([]domain.RawLesson, error) {
	query := `
	SELECT id, subject, location, price, spaces, image
	FROM lessons
	ORDER BY id
	`

	var rows []lessonRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("selecting lessons: %w", err)
	}

	lessons := make([]domain.RawLesson, 0, len(rows))
	for _, row := range rows {
		lessons = append(lessons, domain.RawLesson{
			"id":       row.ID,
			"subject":  row.Subject,
			"location": row.Location.String,
			"price":    row.Price,
			"spaces":   row.Spaces,
			"image":    row.Image.String,
		})
	}

	return lessons, nil
}

func (r *LessonRepository) UpdateSpaces(ctx context.Context, lessonID string, spaces int) error {
	query := r.db.Rebind(`
	UPDATE lessons
	SET spaces = ?
	WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query, spaces, lessonID)
	if err != nil {
		return fmt.Errorf("updating spaces of lesson %s: %w", lessonID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrLessonNotFound, lessonID)
	}

	return nil
}
