package services

import (
	"github.com/srgjo27/lesson_booking/internal/core/domain"
	"github.com/srgjo27/lesson_booking/internal/platform/validate"
)

// CanCheckout reports whether an order may be submitted: a name of letters
// and spaces, a phone of at least seven digits, and a non-empty cart.
func CanCheckout(contact domain.ContactInfo, cart []domain.CartItem) bool {
	if len(cart) == 0 {
		return false
	}
	return validate.Check(contact) == nil
}
