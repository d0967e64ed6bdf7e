package domain

import "time"

type ContactInfo struct {
	Name  string `json:"name" validate:"required,personname"`
	Phone string `json:"phone" validate:"required,digits,min=7"`
}

type CartItem struct {
	LessonID string  `json:"lessonId"`
	Subject  string  `json:"subject"`
	Location string  `json:"location"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
}

func NewCartItem(l Lesson) CartItem {
	return CartItem{
		LessonID: l.ID,
		Subject:  l.Subject,
		Location: l.Location,
		Price:    l.Price,
		Image:    l.Image,
	}
}

type OrderItem struct {
	LessonID string  `json:"lessonId"`
	Subject  string  `json:"subject"`
	Price    float64 `json:"price"`
}

// Order carries no id of its own; the store that persists it assigns one.
type Order struct {
	Contact   ContactInfo
	Items     []OrderItem
	Total     float64
	CreatedAt time.Time
}

func NewOrder(contact ContactInfo, cart []CartItem) Order {
	items := make([]OrderItem, 0, len(cart))
	var total float64
	for _, it := range cart {
		items = append(items, OrderItem{
			LessonID: it.LessonID,
			Subject:  it.Subject,
			Price:    it.Price,
		})
		total += it.Price
	}

	return Order{
		Contact:   contact,
		Items:     items,
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}
}
