package idem

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type memStore struct {
	seen map[string]bool
	err  error
}

func (m *memStore) PutNX(_ context.Context, key string, _ time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func countingHandler(n *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*n++
		w.WriteHeader(http.StatusCreated)
	})
}

func TestMiddlewarePassesWithoutKey(t *testing.T) {
	t.Parallel()
	var calls int
	h := Middleware(&memStore{}, time.Minute, countingHandler(&calls))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/posts", nil))
	if rec.Code != http.StatusCreated || calls != 1 {
		t.Fatalf("keyless request must pass through, got %d calls=%d", rec.Code, calls)
	}
}

func TestMiddlewareRejectsReplay(t *testing.T) {
	t.Parallel()
	var calls int
	h := Middleware(&memStore{}, time.Minute, countingHandler(&calls))

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
		req.Header.Set("Idempotency-Key", "retry-abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("request %d: want %d, got %d", i, want, rec.Code)
		}
	}
	if calls != 1 {
		t.Fatalf("handler must run exactly once, ran %d times", calls)
	}
}

func TestMiddlewareFailsOpen(t *testing.T) {
	t.Parallel()
	var calls int
	h := Middleware(&memStore{err: errors.New("redis down")}, time.Minute, countingHandler(&calls))

	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	req.Header.Set("Idempotency-Key", "retry-abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated || calls != 1 {
		t.Fatalf("guard outage must not block requests, got %d calls=%d", rec.Code, calls)
	}
}
