package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
)

// Shared sentinels handlers wrap their failures with. Wrap maps them to
// HTTP statuses; anything unrecognized is a 500 and its detail stays
// server-side.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
)

type HandlerFunc func(http.ResponseWriter, *http.Request) error

func Wrap(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredential):
			WriteJSON(w, map[string]any{"error": err.Error()}, http.StatusUnauthorized)
		case errors.Is(err, ErrValidation):
			WriteJSON(w, map[string]any{"error": err.Error()}, http.StatusBadRequest)
		case errors.Is(err, ErrNotFound):
			WriteJSON(w, map[string]any{"error": err.Error()}, http.StatusNotFound)
		default:
			log.Printf("request %s %s failed: %v", r.Method, r.URL.Path, err)
			WriteJSON(w, map[string]any{"error": "internal server error"}, http.StatusInternalServerError)
		}
	})
}

func Decode[T any](r *http.Request) (T, error) {
	var t T
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		return t, fmt.Errorf("%w: invalid request body", ErrValidation)
	}
	return t, nil
}

func WriteJSON(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, err error) {
	if err == nil {
		err = errors.New(http.StatusText(status))
	}
	WriteJSON(w, map[string]any{"error": err.Error()}, status)
}
