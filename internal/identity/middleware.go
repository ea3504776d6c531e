package identity

import (
	"context"
	"net/http"
	"strings"

	"community-service/internal/shared/httpx"
)

type ctxKey string

const principalKey ctxKey = "identity.principal"

// Middleware re-verifies the bearer credential on every request it guards.
// A missing credential and a rejected credential are distinct outcomes.
func Middleware(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := BearerToken(r)
			if tok == "" {
				httpx.WriteError(w, http.StatusUnauthorized, httpx.ErrUnauthorized)
				return
			}
			p, err := v.Verify(r.Context(), tok)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, httpx.ErrInvalidCredential)
				return
			}
			ctx := context.WithValue(r.Context(), principalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func FromCtx(r *http.Request) (Principal, error) {
	p, ok := r.Context().Value(principalKey).(Principal)
	if !ok || p.ID == "" {
		return Principal{}, httpx.ErrUnauthorized
	}
	return p, nil
}
