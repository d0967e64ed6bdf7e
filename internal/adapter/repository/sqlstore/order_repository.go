package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/srgjo27/lesson_booking/internal/core/domain"
)

type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder writes the order header and its items in one transaction and
// returns the generated order id.
func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) (string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}

	defer tx.Rollback()

	orderID := uuid.New()

	queryHeader := tx.Rebind(`
	INSERT INTO orders (id, name, phone, total, created_at)
	VALUES (?, ?, ?, ?, ?)
	`)

	_, err = tx.ExecContext(ctx, queryHeader, orderID.String(), order.Contact.Name, order.Contact.Phone, order.Total, order.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert order header: %w", err)
	}

	queryItem := tx.Rebind(`
	INSERT INTO order_items (id, order_id, lesson_id, subject, price)
	VALUES (?, ?, ?, ?, ?)
	`)

	stmt, err := tx.PreparexContext(ctx, queryItem)
	if err != nil {
		return "", fmt.Errorf("failed to prepare item statement: %w", err)
	}

	defer stmt.Close()

	for _, item := range order.Items {
		_, err := stmt.ExecContext(ctx, uuid.New().String(), orderID.String(), item.LessonID, item.Subject, item.Price)
		if err != nil {
			return "", fmt.Errorf("failed to insert order item for lesson %s: %w", item.LessonID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return orderID.String(), nil
}
