package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srgjo27/lesson_booking/internal/core/domain"
	"github.com/srgjo27/lesson_booking/internal/core/services"
)

func TestCanCheckout(t *testing.T) {
	cart := []domain.CartItem{{LessonID: "1", Subject: "Math", Price: 100}}

	tests := []struct {
		name    string
		contact domain.ContactInfo
		cart    []domain.CartItem
		want    bool
	}{
		{"valid", domain.ContactInfo{Name: "John Smith", Phone: "07123456789"}, cart, true},
		{"digit in name", domain.ContactInfo{Name: "John3", Phone: "07123456789"}, cart, false},
		{"empty name", domain.ContactInfo{Name: "", Phone: "07123456789"}, cart, false},
		{"whitespace name", domain.ContactInfo{Name: " \t ", Phone: "07123456789"}, cart, false},
		{"short phone", domain.ContactInfo{Name: "John Smith", Phone: "12345"}, cart, false},
		{"seven digit phone", domain.ContactInfo{Name: "Ann", Phone: "1234567"}, cart, true},
		{"phone with spaces", domain.ContactInfo{Name: "Ann", Phone: "0712 345 678"}, cart, false},
		{"empty cart", domain.ContactInfo{Name: "John Smith", Phone: "07123456789"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.CanCheckout(tt.contact, tt.cart))
		})
	}
}
