package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/lesson_booking/internal/core/domain"
)

func TestFetchLessons(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/lessons", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"_id":"64f1","topic":"Math","price":100,"spaces":5},{"id":2,"subject":"Art","space":"3"}]`))
	}))
	defer srv.Close()

	raw, err := NewClient(srv.URL+"/", time.Second).FetchLessons(context.Background())

	require.NoError(t, err)
	require.Len(t, raw, 2)
	assert.Equal(t, domain.Lesson{ID: "64f1", Subject: "Math", Price: 100, Spaces: 5, Image: domain.PlaceholderImage}, domain.NormalizeLesson(raw[0], 0))
	assert.Equal(t, domain.Lesson{ID: "2", Subject: "Art", Spaces: 3, Image: domain.PlaceholderImage}, domain.NormalizeLesson(raw[1], 1))
}

func TestFetchLessons_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).FetchLessons(context.Background())

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusInternalServerError, serr.Code)
}

func TestFetchLessons_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).FetchLessons(context.Background())

	assert.ErrorContains(t, err, "decoding response")
}

func TestFetchLessons_NullBody(t *testing.T) {
	for name, body := range map[string]string{"null": "null", "empty": "", "whitespace": " \n"} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			raw, err := NewClient(srv.URL, time.Second).FetchLessons(context.Background())

			assert.Nil(t, raw)
			assert.ErrorIs(t, err, ErrNoLessonList)
		})
	}
}

func TestFetchLessons_EmptyArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	raw, err := NewClient(srv.URL, time.Second).FetchLessons(context.Background())

	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestCreateOrder(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"acknowledged":true,"insertedId":"652a"}`))
	}))
	defer srv.Close()

	cart := []domain.CartItem{
		{LessonID: "3", Subject: "Science", Price: 95},
		{LessonID: "3", Subject: "Science", Price: 95},
	}
	order := domain.NewOrder(domain.ContactInfo{Name: "John Smith", Phone: "07123456789"}, cart)

	id, err := NewClient(srv.URL, time.Second).CreateOrder(context.Background(), order)

	require.NoError(t, err)
	assert.Equal(t, "652a", id)
	assert.Equal(t, map[string]any{
		"name":  "John Smith",
		"phone": "07123456789",
		"items": []any{
			map[string]any{"lessonId": "3", "subject": "Science", "price": 95.0},
			map[string]any{"lessonId": "3", "subject": "Science", "price": 95.0},
		},
		"total": 190.0,
	}, got)
}

func TestCreateOrder_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad order", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).CreateOrder(context.Background(), domain.Order{})

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusBadRequest, serr.Code)
}

func TestUpdateSpaces(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/lessons/3", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"matchedCount":1}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second).UpdateSpaces(context.Background(), "3", 3)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"space": 3.0}, body)
}

func TestUpdateSpaces_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second).UpdateSpaces(context.Background(), "99", 1)

	var serr *StatusError
	assert.True(t, errors.As(err, &serr))
	assert.ErrorContains(t, err, "lesson 99")
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	err := NewClient(srv.URL, 20*time.Millisecond).UpdateSpaces(context.Background(), "1", 1)

	assert.Error(t, err)
}
