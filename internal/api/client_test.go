package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/gallery/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api", WithHTTPClient(srv.Client()), WithRetry(3, time.Millisecond))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("")
	assert.Equal(t, c.BaseURL(), DefaultBaseURL)

	c = NewClient("https://club.example.com/api/")
	assert.Equal(t, c.BaseURL(), "https://club.example.com/api")
}

func TestListParams_Encode(t *testing.T) {
	tests := []struct {
		params ListParams
		want   string
	}{
		{ListParams{}, ""},
		{ListParams{Page: 2}, "?page=2"},
		{ListParams{Page: 1, Limit: 24, Search: "harbor dusk"}, "?limit=24&page=1&search=harbor+dusk"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.params.Encode(), tt.want)
	}
}

func TestListPaintings(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Check(t, is.Equal(r.Method, http.MethodGet))
		assert.Check(t, is.Equal(r.URL.Path, "/api/paintings"))
		assert.Check(t, is.Equal(r.URL.Query().Get("search"), "harbor"))
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []map[string]any{
				{"id": "p1", "title": "Harbor at Dusk", "imageUrl": "https://img/1.jpg", "userId": "u1",
					"createdAt": "2025-03-01T10:00:00Z", "updatedAt": "2025-03-01T10:00:00Z",
					"user": map[string]any{"id": "u1", "name": "Mira Sato"}},
			},
			"pagination": map[string]any{"page": 1, "limit": 24, "total": 1, "totalPages": 1},
		})
	})

	resp, err := c.ListPaintings(context.Background(), ListParams{Search: "harbor"})
	assert.NilError(t, err)
	assert.Equal(t, len(resp.Data), 1)
	assert.Equal(t, resp.Data[0].Artist(), "Mira Sato")
	assert.Equal(t, resp.Pagination.TotalPages, 1)
	assert.Equal(t, resp.Data[0].CreatedAt, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
}

func TestFetchAll_WalksPages(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		writeJSON(w, http.StatusOK, Response[[]model.Painting]{
			Data:       []model.Painting{{ID: "p" + strconv.Itoa(page)}},
			Pagination: &Pagination{Page: page, Limit: 1, Total: 3, TotalPages: 3},
		})
	})

	all, err := c.FetchAll(context.Background(), ListParams{Limit: 1})
	assert.NilError(t, err)
	assert.Equal(t, int(calls.Load()), 3)
	assert.DeepEqual(t, []string{all[0].ID, all[1].ID, all[2].ID}, []string{"p1", "p2", "p3"})
}

func TestFetchAll_NoPagination(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": []any{}})
	})

	all, err := c.FetchAll(context.Background(), ListParams{})
	assert.NilError(t, err)
	assert.Assert(t, all != nil)
	assert.Equal(t, len(all), 0)
}

func TestErrorDecoding(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantStatus int
		wantCode   string
	}{
		{"error field", 400, `{"error":"Title is required","status":400,"code":"VALIDATION"}`, "Title is required", 400, "VALIDATION"},
		{"message field", 403, `{"message":"Forbidden"}`, "Forbidden", 403, ""},
		{"neither field", 409, `{"status":409}`, "Request failed", 409, ""},
		{"not json", 400, `oops`, "Network error", 400, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.GetPainting(context.Background(), "p1")
			var apiErr *Error
			assert.Assert(t, errors.As(err, &apiErr), "got %v", err)
			assert.Equal(t, apiErr.Message, tt.wantMsg)
			assert.Equal(t, apiErr.Status, tt.wantStatus)
			assert.Equal(t, apiErr.Code, tt.wantCode)
		})
	}
}

func TestGetPainting_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Painting not found", "status": 404})
	})

	_, err := c.GetPainting(context.Background(), "missing")
	assert.Assert(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": "upstream"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": "p1", "title": "Harbor"}})
	})

	p, err := c.GetPainting(context.Background(), "p1")
	assert.NilError(t, err)
	assert.Equal(t, p.Title, "Harbor")
	assert.Equal(t, int(calls.Load()), 3)
}

func TestRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.GetPainting(context.Background(), "p1")
	assert.Assert(t, errors.Is(err, ErrNetwork), "got %v", err)
	assert.Equal(t, int(calls.Load()), 3)
}

func TestCreatePainting_NotRetried(t *testing.T) {
	var calls atomic.Int32
	var got CreatePaintingData
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Check(t, is.Equal(r.Method, http.MethodPost))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.CreatePainting(context.Background(), CreatePaintingData{Title: "Dunes", ImageURL: "https://img/d.jpg"})
	assert.Assert(t, err != nil)
	assert.Equal(t, int(calls.Load()), 1)
	assert.Equal(t, got.Title, "Dunes")
}

func TestUpdateAndDelete(t *testing.T) {
	var methods []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodPut:
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			_, hasImage := body["imageUrl"]
			assert.Check(t, !hasImage, "unset fields should be omitted")
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": "p1", "title": body["title"]}})
		case http.MethodDelete:
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"message": "deleted"}})
		}
	})

	title := "Renamed"
	p, err := c.UpdatePainting(context.Background(), "p1", UpdatePaintingData{Title: &title})
	assert.NilError(t, err)
	assert.Equal(t, p.Title, "Renamed")

	assert.NilError(t, c.DeletePainting(context.Background(), "p1"))
	assert.DeepEqual(t, methods, []string{"PUT /api/paintings/p1", "DELETE /api/paintings/p1"})
}

func TestHeadersAreSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Check(t, is.Equal(r.Header.Get("Cookie"), "session=abc"))
		writeJSON(w, http.StatusOK, map[string]any{"data": []any{}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithHTTPClient(srv.Client()), WithHeader("Cookie", "session=abc"))
	_, err := c.MyPaintings(context.Background(), ListParams{})
	assert.NilError(t, err)
}

func TestRetry(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return ErrNotFound
	})
	assert.Equal(t, err, ErrNotFound)
	assert.Equal(t, calls, 1)

	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return &RetryableError{Err: ErrNetwork}
		}
		return nil
	})
	assert.NilError(t, err)
	assert.Equal(t, calls, 2)
}

func TestRetry_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Second, func() error {
		return &RetryableError{Err: ErrNetwork}
	})
	assert.Equal(t, err, context.Canceled)
}
