package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/srgjo27/lesson_booking/internal/core/domain"
)

// ErrNoLessonList is returned when the catalog response is empty or null
// instead of a JSON array.
var ErrNoLessonList = errors.New("response carries no lesson list")

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Code)
}

// Client talks to the lessons REST backend:
//
//	GET  /lessons        catalog
//	POST /orders         order create
//	PUT  /lessons/{id}   seat count overwrite
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type orderPayload struct {
	Name  string             `json:"name"`
	Phone string             `json:"phone"`
	Items []domain.OrderItem `json:"items"`
	Total float64            `json:"total"`
}

type spacesPayload struct {
	Space int `json:"space"`
}

func (c *Client) FetchLessons(ctx context.Context) ([]domain.RawLesson, error) {
	var lessons []domain.RawLesson
	if err := c.do(ctx, http.MethodGet, "/lessons", nil, &lessons); err != nil {
		return nil, fmt.Errorf("fetching lessons: %w", err)
	}
	if lessons == nil {
		return nil, fmt.Errorf("fetching lessons: decoding response: %w", ErrNoLessonList)
	}
	return lessons, nil
}

func (c *Client) CreateOrder(ctx context.Context, order domain.Order) (string, error) {
	payload := orderPayload{
		Name:  order.Contact.Name,
		Phone: order.Contact.Phone,
		Items: order.Items,
		Total: order.Total,
	}

	var created map[string]any
	if err := c.do(ctx, http.MethodPost, "/orders", payload, &created); err != nil {
		return "", fmt.Errorf("creating order: %w", err)
	}

	return createdID(created), nil
}

// createdID picks the id the backend reports for a new order, if any.
func createdID(created map[string]any) string {
	for _, k := range []string{"insertedId", "_id", "id"} {
		switch v := created[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func (c *Client) UpdateSpaces(ctx context.Context, lessonID string, spaces int) error {
	path := "/lessons/" + url.PathEscape(lessonID)
	if err := c.do(ctx, http.MethodPut, path, spacesPayload{Space: spaces}, nil); err != nil {
		return fmt.Errorf("updating spaces of lesson %s: %w", lessonID, err)
	}
	return nil
}

// do sends body as JSON and decodes a JSON response into out when out is
// not nil. An empty response body leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}

	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
