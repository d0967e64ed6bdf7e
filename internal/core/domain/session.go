package domain

import (
	"errors"
	"sync"
)

var (
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrCartIndexOutOfRange = errors.New("cart index out of range")
	ErrSessionNotFound     = errors.New("session not found")
)

// Session is the state of one shopper: the local catalog copy, the cart and
// the contact form. It is not safe for concurrent use; callers hold the
// embedded mutex around every operation.
type Session struct {
	sync.Mutex

	ID         string
	Contact    ContactInfo
	ShowCart   bool
	ErrorMsg   string
	SuccessMsg string

	lessons []Lesson
	index   map[string]int
	cart    []CartItem
}

func NewSession(id string) *Session {
	return &Session{
		ID:    id,
		index: make(map[string]int),
	}
}

// SetLessons replaces the local catalog. The cart is left as it is.
func (s *Session) SetLessons(lessons []Lesson) {
	s.lessons = make([]Lesson, len(lessons))
	copy(s.lessons, lessons)

	// a repeated id resolves to its first occurrence
	s.index = make(map[string]int, len(lessons))
	for i, l := range s.lessons {
		if _, dup := s.index[l.ID]; !dup {
			s.index[l.ID] = i
		}
	}
}

func (s *Session) Lessons() []Lesson {
	out := make([]Lesson, len(s.lessons))
	copy(out, s.lessons)
	return out
}

func (s *Session) Lesson(id string) (Lesson, bool) {
	l := s.lesson(id)
	if l == nil {
		return Lesson{}, false
	}
	return *l, true
}

func (s *Session) lesson(id string) *Lesson {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	return &s.lessons[i]
}

func (s *Session) Cart() []CartItem {
	out := make([]CartItem, len(s.cart))
	copy(out, s.cart)
	return out
}

// Reserve moves one seat of the lesson into the cart. It reports false
// without an error when the lesson has no spaces left.
func (s *Session) Reserve(lessonID string) (bool, error) {
	l := s.lesson(lessonID)
	if l == nil {
		return false, ErrLessonNotFound
	}

	if !l.HasSpaces() {
		return false, nil
	}

	s.cart = append(s.cart, NewCartItem(*l))
	l.Spaces--

	return true, nil
}

// Release removes the cart item at index and gives its seat back to the
// lesson, if the lesson is still in the catalog.
func (s *Session) Release(index int) (CartItem, error) {
	if index < 0 || index >= len(s.cart) {
		return CartItem{}, ErrCartIndexOutOfRange
	}

	item := s.cart[index]
	s.cart = append(s.cart[:index:index], s.cart[index+1:]...)

	if l := s.lesson(item.LessonID); l != nil {
		l.Spaces++
	}

	return item, nil
}

func (s *Session) CartTotal() float64 {
	var total float64
	for _, it := range s.cart {
		total += it.Price
	}
	return total
}

// SeatCounts returns how many cart items reference each lesson id.
func (s *Session) SeatCounts() map[string]int {
	counts := make(map[string]int)
	for _, it := range s.cart {
		counts[it.LessonID]++
	}
	return counts
}

func (s *Session) ToggleCart() bool {
	s.ShowCart = !s.ShowCart
	s.ErrorMsg = ""
	s.SuccessMsg = ""
	return s.ShowCart
}

func (s *Session) Fail(msg string) {
	s.ErrorMsg = msg
	s.SuccessMsg = ""
}

// CompleteOrder empties the cart and the contact form after a submitted order.
func (s *Session) CompleteOrder(msg string) {
	s.cart = nil
	s.Contact = ContactInfo{}
	s.SuccessMsg = msg
	s.ErrorMsg = ""
}
