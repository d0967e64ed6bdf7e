package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownSortField = errors.New("unknown sort field")

type SortField string

const (
	SortBySubject  SortField = "subject"
	SortByLocation SortField = "location"
	SortByPrice    SortField = "price"
	SortBySpaces   SortField = "spaces"
	SortByID       SortField = "id"
)

type SortOptions struct {
	Field     SortField
	Ascending bool
}

func DefaultSortOptions() SortOptions {
	return SortOptions{Field: SortBySubject, Ascending: true}
}

func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(s)); f {
	case SortBySubject, SortByLocation, SortByPrice, SortBySpaces, SortByID:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortField, s)
}

// SortLessons returns a sorted copy of lessons. Text fields compare without
// regard to case; equal keys keep their catalog order.
func SortLessons(lessons []Lesson, opts SortOptions) ([]Lesson, error) {
	cmp, err := comparator(opts.Field)
	if err != nil {
		return nil, err
	}

	out := make([]Lesson, len(lessons))
	copy(out, lessons)

	sort.SliceStable(out, func(i, j int) bool {
		if opts.Ascending {
			return cmp(out[i], out[j]) < 0
		}
		return cmp(out[i], out[j]) > 0
	})

	return out, nil
}

func comparator(field SortField) (func(a, b Lesson) int, error) {
	switch field {
	case SortBySubject:
		return func(a, b Lesson) int { return compareText(a.Subject, b.Subject) }, nil
	case SortByLocation:
		return func(a, b Lesson) int { return compareText(a.Location, b.Location) }, nil
	case SortByID:
		return func(a, b Lesson) int { return compareText(a.ID, b.ID) }, nil
	case SortByPrice:
		return func(a, b Lesson) int { return compareNumber(a.Price, b.Price) }, nil
	case SortBySpaces:
		return func(a, b Lesson) int { return compareNumber(float64(a.Spaces), float64(b.Spaces)) }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSortField, field)
}

func compareText(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareNumber(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
