package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const PlaceholderImage = "placeholder.jpg"

type Lesson struct {
	ID       string  `json:"id"`
	Subject  string  `json:"subject"`
	Location string  `json:"location"`
	Price    float64 `json:"price"`
	Spaces   int     `json:"spaces"`
	Image    string  `json:"image"`
}

func (l *Lesson) HasSpaces() bool {
	return l.Spaces > 0
}

// RawLesson is a catalog record as the upstream store returns it. Field
// names are not consistent between deployments.
type RawLesson map[string]any

// NormalizeLesson maps a raw record onto the canonical Lesson shape. idx is
// the record position, used as the id when the record carries none.
func NormalizeLesson(raw RawLesson, idx int) Lesson {
	id := rawID(raw["_id"])
	if id == "" {
		id = rawID(raw["id"])
	}
	if id == "" {
		id = strconv.Itoa(idx)
	}

	return Lesson{
		ID:       id,
		Subject:  firstString(raw, "subject", "topic", "name"),
		Location: firstString(raw, "location"),
		Price:    nonNegative(toFloat(raw["price"])),
		Spaces:   seatCount(toFloat(firstPresent(raw, "spaces", "space", "availability"))),
		Image:    withDefault(firstString(raw, "image"), PlaceholderImage),
	}
}

func rawID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	case map[string]any:
		// extended JSON form of an ObjectId
		if oid, ok := id["$oid"].(string); ok {
			return oid
		}
	}
	return ""
}

func firstString(raw RawLesson, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstPresent(raw RawLesson, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// nonNegative maps negative and non-finite values to 0.
func nonNegative(f float64) float64 {
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// seatCount converts to int without overflowing; counts above MaxInt32
// are capped.
func seatCount(f float64) int {
	f = nonNegative(f)
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

func withDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// SeedLessons is the built-in catalog installed when the live fetch fails.
func SeedLessons() []Lesson {
	return []Lesson{
		{ID: "1", Subject: "Math", Location: "London", Price: 100, Spaces: 5, Image: "math.jpg"},
		{ID: "2", Subject: "English", Location: "Oxford", Price: 90, Spaces: 5, Image: "english.jpg"},
		{ID: "3", Subject: "Science", Location: "Bristol", Price: 95, Spaces: 5, Image: "science.jpg"},
		{ID: "4", Subject: "Music", Location: "Leeds", Price: 80, Spaces: 5, Image: "music.jpg"},
		{ID: "5", Subject: "Drama", Location: "York", Price: 85, Spaces: 5, Image: "drama.jpg"},
		{ID: "6", Subject: "Art", Location: "Cambridge", Price: 75, Spaces: 5, Image: "art.jpg"},
		{ID: "7", Subject: "History", Location: "Manchester", Price: 88, Spaces: 5, Image: "history.jpg"},
		{ID: "8", Subject: "Physics", Location: "Bath", Price: 98, Spaces: 5, Image: "physics.jpg"},
		{ID: "9", Subject: "Chemistry", Location: "Liverpool", Price: 99, Spaces: 5, Image: "chemistry.jpg"},
		{ID: "10", Subject: "Computing", Location: "Birmingham", Price: 105, Spaces: 5, Image: "computing.jpg"},
	}
}
