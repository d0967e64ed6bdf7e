package domain_test

import (
	"math"
	"testing"

	"github.com/srgjo27/lesson_booking/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeLesson(t *testing.T) {
	tests := []struct {
		name string
		raw  domain.RawLesson
		idx  int
		want domain.Lesson
	}{
		{
			name: "canonical record",
			raw: domain.RawLesson{
				"_id": "64f1", "subject": "Math", "location": "London",
				"price": 100.0, "spaces": 5.0, "image": "math.jpg",
			},
			want: domain.Lesson{ID: "64f1", Subject: "Math", Location: "London", Price: 100, Spaces: 5, Image: "math.jpg"},
		},
		{
			name: "alternate names",
			raw:  domain.RawLesson{"id": 7.0, "topic": "Drama", "location": "York", "price": "85", "space": 3.0},
			want: domain.Lesson{ID: "7", Subject: "Drama", Location: "York", Price: 85, Spaces: 3, Image: domain.PlaceholderImage},
		},
		{
			name: "name and availability",
			raw:  domain.RawLesson{"_id": map[string]any{"$oid": "abc"}, "name": "Art", "availability": "2"},
			want: domain.Lesson{ID: "abc", Subject: "Art", Spaces: 2, Image: domain.PlaceholderImage},
		},
		{
			name: "null spaces falls through to next name",
			raw:  domain.RawLesson{"id": "x", "subject": "Music", "spaces": nil, "space": 4.0},
			want: domain.Lesson{ID: "x", Subject: "Music", Spaces: 4, Image: domain.PlaceholderImage},
		},
		{
			name: "empty subject falls through",
			raw:  domain.RawLesson{"id": "y", "subject": "", "topic": "History"},
			want: domain.Lesson{ID: "y", Subject: "History", Image: domain.PlaceholderImage},
		},
		{
			name: "missing everything uses index and zeros",
			raw:  domain.RawLesson{},
			idx:  4,
			want: domain.Lesson{ID: "4", Image: domain.PlaceholderImage},
		},
		{
			name: "negative and garbage numbers clamp to zero",
			raw:  domain.RawLesson{"id": "z", "price": -5.0, "spaces": "lots"},
			want: domain.Lesson{ID: "z", Image: domain.PlaceholderImage},
		},
		{
			name: "huge seat count is capped",
			raw:  domain.RawLesson{"id": "big", "spaces": 1e20},
			want: domain.Lesson{ID: "big", Spaces: math.MaxInt32, Image: domain.PlaceholderImage},
		},
		{
			name: "huge seat count as string is capped",
			raw:  domain.RawLesson{"id": "big", "spaces": "1e20"},
			want: domain.Lesson{ID: "big", Spaces: math.MaxInt32, Image: domain.PlaceholderImage},
		},
		{
			name: "non-finite numbers become zero",
			raw:  domain.RawLesson{"id": "inf", "price": "Inf", "spaces": "Inf"},
			want: domain.Lesson{ID: "inf", Image: domain.PlaceholderImage},
		},
		{
			name: "negative infinity and NaN become zero",
			raw:  domain.RawLesson{"id": "nan", "price": math.Inf(-1), "space": "NaN"},
			want: domain.Lesson{ID: "nan", Image: domain.PlaceholderImage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.NormalizeLesson(tt.raw, tt.idx)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.Spaces, 0)
		})
	}
}

func TestSeedLessons(t *testing.T) {
	seed := domain.SeedLessons()

	assert.Len(t, seed, 10)
	seen := map[string]bool{}
	for _, l := range seed {
		assert.False(t, seen[l.ID], "duplicate id %s", l.ID)
		seen[l.ID] = true
		assert.Equal(t, 5, l.Spaces)
	}
}
